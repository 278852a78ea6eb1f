package agent

import (
	"context"
	"strconv"
	"strings"

	"github.com/dextro-platform/fleet-console/internal/console/service"
)

// RegisterFleetTools отдает агенту операции сервиса флота. Имена и
// аргументы совпадают с контрактом дашборда, чтобы промпт мог описывать
// инструменты теми же словами, что и API.
func RegisterFleetTools(r *Registry, svc *service.FleetService) {
	r.Register("get_fleet_health_overview", func(ctx context.Context, args map[string]any) (any, error) {
		fh, opErr := svc.FleetHealthOverview(ctx)
		if opErr != nil {
			return nil, opErr
		}
		if fh == nil {
			return noData(), nil
		}
		return fh, nil
	})

	r.Register("get_business_performance_summary", func(ctx context.Context, args map[string]any) (any, error) {
		summary, opErr := svc.BusinessPerformanceSummary(ctx, argInt(args, "date_range_days"))
		if opErr != nil {
			return nil, opErr
		}
		if summary == nil {
			return noData(), nil
		}
		return summary, nil
	})

	r.Register("get_critical_issues_analysis", func(ctx context.Context, args map[string]any) (any, error) {
		report, opErr := svc.CriticalIssues(ctx)
		if opErr != nil {
			return nil, opErr
		}
		if report == nil {
			return noData(), nil
		}
		return report, nil
	})

	r.Register("get_high_error_devices", func(ctx context.Context, args map[string]any) (any, error) {
		report, opErr := svc.HighErrorDevices(ctx, argInt(args, "error_threshold"))
		if opErr != nil {
			return nil, opErr
		}
		if report == nil {
			return noData(), nil
		}
		return report, nil
	})

	r.Register("analyze_overvoltage_impact", func(ctx context.Context, args map[string]any) (any, error) {
		analysis, opErr := svc.OvervoltageImpact(ctx)
		if opErr != nil {
			return nil, opErr
		}
		if analysis == nil {
			return noData(), nil
		}
		return analysis, nil
	})

	r.Register("get_recent_device_logs", func(ctx context.Context, args map[string]any) (any, error) {
		logs, opErr := svc.RecentDeviceLogs(ctx, service.LogFilter{
			DeviceID: argString(args, "device_id"),
			Location: argString(args, "location"),
			Limit:    argInt(args, "limit"),
		})
		if opErr != nil {
			return nil, opErr
		}
		if logs == nil {
			return noData(), nil
		}
		return logs, nil
	})

	r.Register("get_location_performance", func(ctx context.Context, args map[string]any) (any, error) {
		metrics, opErr := svc.LocationPerformance(ctx, argString(args, "location"), argString(args, "district"))
		if opErr != nil {
			return nil, opErr
		}
		if metrics == nil {
			return noData(), nil
		}
		return metrics, nil
	})

	r.Register("get_device_power_data", func(ctx context.Context, args map[string]any) (any, error) {
		report, opErr := svc.DevicePowerData(ctx, service.PowerDataRequest{
			Columns:  argColumns(args, "columns"),
			DeviceID: argString(args, "device_id"),
			Date:     argString(args, "date"),
			Filters:  argMap(args, "filters"),
		})
		if opErr != nil {
			return nil, opErr
		}
		if report == nil {
			return noData(), nil
		}
		return report, nil
	})

	r.Register("get_customer_device_info", func(ctx context.Context, args map[string]any) (any, error) {
		row, opErr := svc.CustomerDeviceInfo(ctx, argString(args, "device_id"))
		if opErr != nil {
			return nil, opErr
		}
		if row == nil {
			return noData(), nil
		}
		return row, nil
	})
}

func noData() map[string]any {
	return map[string]any{"success": true, "message": "no data found for the specified criteria"}
}

// Аргументы приходят из JSON модели: числа — float64, columns — либо
// строка "a,b,c", либо массив. Коэрсеры терпимы к обоим вариантам.

func argString(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		// device_id модель может прислать числом
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func argInt(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

func argColumns(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	case []any:
		cols := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				cols = append(cols, strings.TrimSpace(s))
			}
		}
		return cols
	}
	return nil
}

func argMap(args map[string]any, key string) map[string]any {
	if v, ok := args[key].(map[string]any); ok {
		return v
	}
	return nil
}
