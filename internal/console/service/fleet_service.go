package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/dextro-platform/fleet-console/internal/cache"
	"github.com/dextro-platform/fleet-console/internal/engine"
	"github.com/dextro-platform/fleet-console/internal/fleet"
	"github.com/dextro-platform/fleet-console/internal/infra"
	"github.com/dextro-platform/fleet-console/internal/store"
)

// OpError — отказ операции с таксономией. nil-результат при nil-ошибке
// означает "данных нет": корректный запрос к пустой выборке.
type OpError struct {
	Kind    engine.FailureKind `json:"kind"`
	Message string             `json:"message"`
}

func (e *OpError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func opErrorFrom(out engine.Outcome) *OpError {
	return &OpError{Kind: out.Kind, Message: out.Message}
}

const (
	defaultErrorThreshold = 5
	defaultSummaryDays    = 30
	defaultLogLimit       = 10
)

// FleetService — операционный слой консоли: каждый метод выполняет один
// вызов провайдера через исполнитель надежности и нормализует строки
// движком метрик. Все методы различают данные / пустую выборку / отказ.
type FleetService struct {
	provider  store.Provider
	exec      *engine.Executor
	snapshots *cache.SnapshotCache
	logger    *zap.Logger
}

func NewFleetService(provider store.Provider, exec *engine.Executor, snapshots *cache.SnapshotCache, logger *zap.Logger) *FleetService {
	return &FleetService{
		provider:  provider,
		exec:      exec,
		snapshots: snapshots,
		logger:    logger.Named("fleet-service"),
	}
}

// FleetHealthOverview — сводка здоровья флота с баллом и рекомендациями.
func (s *FleetService) FleetHealthOverview(ctx context.Context) (*fleet.FleetHealth, *OpError) {
	out := s.exec.Execute(ctx, "fleet_health_overview", func(ctx context.Context) (*store.Result, error) {
		return s.provider.RPC(ctx, "rpc_fleet_health_overview", nil)
	})
	switch {
	case out.IsFailed():
		return nil, opErrorFrom(out)
	case out.IsEmpty():
		return nil, nil
	}

	fh := fleet.BuildFleetHealth(out.Rows)
	s.snapshots.Put(ctx, infra.RedisKeyFleetHealthSnapshot, fh)
	return fh, nil
}

// BusinessPerformanceSummary — бизнес-сводка за период в днях.
func (s *FleetService) BusinessPerformanceSummary(ctx context.Context, days int) (*fleet.BusinessSummary, *OpError) {
	if days <= 0 {
		days = defaultSummaryDays
	}
	out := s.exec.Execute(ctx, "business_performance_summary", func(ctx context.Context) (*store.Result, error) {
		return s.provider.RPC(ctx, "rpc_business_performance_summary", map[string]any{
			"p_date_range_days": days,
		})
	})
	switch {
	case out.IsFailed():
		return nil, opErrorFrom(out)
	case out.IsEmpty():
		return nil, nil
	}

	summary := fleet.BuildBusinessSummary(out.Rows, days)
	s.snapshots.Put(ctx, infra.RedisKeyBusinessSnapshot, summary)
	return summary, nil
}

// IssueReport — ранжированные проблемы плюс сводка по корзинам.
type IssueReport struct {
	Issues  []fleet.Issue      `json:"issues"`
	Summary fleet.IssueSummary `json:"summary"`
}

// CriticalIssues — анализ критичных проблем флота.
func (s *FleetService) CriticalIssues(ctx context.Context) (*IssueReport, *OpError) {
	out := s.exec.Execute(ctx, "critical_issues", func(ctx context.Context) (*store.Result, error) {
		return s.provider.RPC(ctx, "rpc_critical_issues_analysis", nil)
	})
	switch {
	case out.IsFailed():
		return nil, opErrorFrom(out)
	case out.IsEmpty():
		return nil, nil
	}

	issues := fleet.ParseIssues(out.Rows)
	report := &IssueReport{Issues: issues, Summary: fleet.SummarizeIssues(issues)}
	s.snapshots.Put(ctx, infra.RedisKeyIssuesSnapshot, report)
	return report, nil
}

// HighErrorDevices — устройства с частотой ошибок выше порога.
func (s *FleetService) HighErrorDevices(ctx context.Context, threshold int) (*fleet.DeviceReport, *OpError) {
	if threshold <= 0 {
		threshold = defaultErrorThreshold
	}
	out := s.exec.Execute(ctx, "high_error_devices", func(ctx context.Context) (*store.Result, error) {
		return s.provider.RPC(ctx, "rpc_high_error_devices", map[string]any{
			"p_error_threshold": threshold,
		})
	})
	switch {
	case out.IsFailed():
		return nil, opErrorFrom(out)
	case out.IsEmpty():
		return nil, nil
	}

	report := fleet.RankHighErrorDevices(out.Rows, threshold)
	s.snapshots.Put(ctx, infra.GetSnapshotKey("high_error_devices", threshold), report)
	return &report, nil
}

// OvervoltageImpact — анализ перенапряжений с бизнес-приоритетом.
func (s *FleetService) OvervoltageImpact(ctx context.Context) (*fleet.OvervoltageAnalysis, *OpError) {
	out := s.exec.Execute(ctx, "overvoltage_impact", func(ctx context.Context) (*store.Result, error) {
		return s.provider.RPC(ctx, "rpc_overvoltage_analysis", nil)
	})
	switch {
	case out.IsFailed():
		return nil, opErrorFrom(out)
	case out.IsEmpty():
		return nil, nil
	}

	analysis := fleet.BuildOvervoltageAnalysis(out.Rows)
	s.snapshots.Put(ctx, infra.RedisKeyOvervoltageSnapshot, analysis)
	return analysis, nil
}

// LogFilter — параметры выборки последних логов устройств.
type LogFilter struct {
	DeviceID string `json:"device_id"`
	Location string `json:"location"`
	Limit    int    `json:"limit"`
}

// RecentDeviceLogs — последние записи device_power_logs для таблицы дашборда.
func (s *FleetService) RecentDeviceLogs(ctx context.Context, f LogFilter) ([]fleet.LogEntry, *OpError) {
	if f.Limit <= 0 {
		f.Limit = defaultLogLimit
	}
	out := s.exec.Execute(ctx, "recent_device_logs", func(ctx context.Context) (*store.Result, error) {
		return s.provider.DeviceLogs(ctx, store.LogQuery{
			DeviceID: f.DeviceID,
			Location: f.Location,
			OrderBy:  "CreatedOnDate",
			Desc:     true,
			Limit:    f.Limit,
		})
	})
	switch {
	case out.IsFailed():
		return nil, opErrorFrom(out)
	case out.IsEmpty():
		return nil, nil
	}
	return fleet.FormatLogEntries(out.Rows), nil
}

// LocationPerformance — агрегаты по локации либо округу.
func (s *FleetService) LocationPerformance(ctx context.Context, location, district string) (*fleet.LocationMetrics, *OpError) {
	out := s.exec.Execute(ctx, "location_performance", func(ctx context.Context) (*store.Result, error) {
		return s.provider.DeviceLogs(ctx, store.LogQuery{
			Location: location,
			District: district,
		})
	})
	switch {
	case out.IsFailed():
		return nil, opErrorFrom(out)
	case out.IsEmpty():
		return nil, nil
	}

	m := fleet.AggregateLocationMetrics(out.Rows)
	return &m, nil
}

// PowerDataRequest — гибкая выборка device_power_logs с анализом по колонкам.
type PowerDataRequest struct {
	Columns  []string       `json:"columns"`
	DeviceID string         `json:"device_id"`
	Date     string         `json:"date"`
	Filters  map[string]any `json:"filters"`
}

// PowerDataReport — анализ выборки плюс образец сырых строк.
type PowerDataReport struct {
	Analysis fleet.PowerDataAnalysis `json:"analysis"`
	Sample   []store.Row             `json:"sample_data"`
}

const powerDataSampleSize = 5

// DevicePowerData — выборка с выбором колонок и анализом по выбранному.
func (s *FleetService) DevicePowerData(ctx context.Context, req PowerDataRequest) (*PowerDataReport, *OpError) {
	if len(req.Columns) == 0 {
		req.Columns = []string{"device_id", "PumpError", "Power", "Voltage", "Current", "Temperature", "CreatedOnDate", "Location"}
	}
	out := s.exec.Execute(ctx, "device_power_data", func(ctx context.Context) (*store.Result, error) {
		return s.provider.DeviceLogs(ctx, store.LogQuery{
			Columns:  req.Columns,
			DeviceID: req.DeviceID,
			Date:     req.Date,
			Filters:  req.Filters,
			OrderBy:  "CreatedOnDate",
			Desc:     true,
		})
	})
	switch {
	case out.IsFailed():
		return nil, opErrorFrom(out)
	case out.IsEmpty():
		return nil, nil
	}

	sample := out.Rows
	if len(sample) > powerDataSampleSize {
		sample = sample[:powerDataSampleSize]
	}
	return &PowerDataReport{
		Analysis: fleet.AnalyzePowerData(out.Rows, req.Columns),
		Sample:   sample,
	}, nil
}

// CustomerDeviceInfo — профиль клиента, привязанный к устройству.
func (s *FleetService) CustomerDeviceInfo(ctx context.Context, deviceID string) (store.Row, *OpError) {
	out := s.exec.Execute(ctx, "customer_device_info", func(ctx context.Context) (*store.Result, error) {
		return s.provider.CustomerByDevice(ctx, deviceID)
	})
	switch {
	case out.IsFailed():
		return nil, opErrorFrom(out)
	case out.IsEmpty():
		return nil, nil
	}
	return out.Rows[0], nil
}

// PingStore — самопроверка доступности провайдера данных.
func (s *FleetService) PingStore(ctx context.Context) error {
	return s.provider.Ping(ctx)
}
