package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dextro-platform/fleet-console/internal/engine"
	"github.com/dextro-platform/fleet-console/internal/infra"
	"github.com/dextro-platform/fleet-console/internal/store"
)

// fakeProvider отдает заранее заданные ответы и записывает вызовы.
type fakeProvider struct {
	rows     []store.Row
	err      error
	rpcName  string
	rpcArgs  map[string]any
	logQuery store.LogQuery
	calls    int
}

func (f *fakeProvider) RPC(ctx context.Context, name string, params map[string]any) (*store.Result, error) {
	f.calls++
	f.rpcName = name
	f.rpcArgs = params
	if f.err != nil {
		return nil, f.err
	}
	return &store.Result{Data: f.rows}, nil
}

func (f *fakeProvider) DeviceLogs(ctx context.Context, q store.LogQuery) (*store.Result, error) {
	f.calls++
	f.logQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return &store.Result{Data: f.rows}, nil
}

func (f *fakeProvider) CustomerByDevice(ctx context.Context, deviceID string) (*store.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &store.Result{Data: f.rows}, nil
}

func (f *fakeProvider) Ping(ctx context.Context) error { return f.err }

func newTestService(p store.Provider) *FleetService {
	cfg := infra.EngineConfig{MaxAttempts: 3, CallTimeout: time.Second}
	exec := engine.NewExecutor(cfg, engine.NewMetrics(nil), zap.NewNop())
	return NewFleetService(p, exec, nil, zap.NewNop())
}

func TestFleetHealthOverview(t *testing.T) {
	p := &fakeProvider{rows: []store.Row{
		{"health_category": "fleet_summary", "metric_name": "total_devices", "metric_value": 4.0},
		{"health_category": "fleet_summary", "metric_name": "active_devices", "metric_value": 4.0},
		{"health_category": "fleet_summary", "metric_name": "error_devices", "metric_value": 0.0},
	}}
	svc := newTestService(p)

	fh, opErr := svc.FleetHealthOverview(context.Background())
	if opErr != nil {
		t.Fatalf("op error: %+v", opErr)
	}
	if p.rpcName != "rpc_fleet_health_overview" {
		t.Fatalf("rpc = %q", p.rpcName)
	}
	if fh == nil || fh.HealthScore != 100.0 {
		t.Fatalf("fleet health = %+v", fh)
	}
}

func TestFleetHealthOverviewEmpty(t *testing.T) {
	p := &fakeProvider{err: &store.APIError{StatusCode: 404, Code: "PGRST116", Message: "no rows"}}
	svc := newTestService(p)

	fh, opErr := svc.FleetHealthOverview(context.Background())
	if opErr != nil {
		t.Fatalf("empty must not be an error: %+v", opErr)
	}
	if fh != nil {
		t.Fatalf("fleet health = %+v, want nil", fh)
	}
	if p.calls != 1 {
		t.Fatalf("calls = %d, want 1", p.calls)
	}
}

func TestFleetHealthOverviewPermission(t *testing.T) {
	p := &fakeProvider{err: &store.APIError{StatusCode: 403, Message: "permission denied"}}
	svc := newTestService(p)

	_, opErr := svc.FleetHealthOverview(context.Background())
	if opErr == nil || opErr.Kind != engine.KindPermission {
		t.Fatalf("op error = %+v, want permission", opErr)
	}
	if p.calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retry)", p.calls)
	}
}

func TestFleetHealthOverviewFatalAfterRetries(t *testing.T) {
	p := &fakeProvider{err: errors.New("connection refused")}
	svc := newTestService(p)

	_, opErr := svc.FleetHealthOverview(context.Background())
	if opErr == nil || opErr.Kind != engine.KindFatal {
		t.Fatalf("op error = %+v, want fatal", opErr)
	}
	if p.calls != 3 {
		t.Fatalf("calls = %d, want 3", p.calls)
	}
}

func TestBusinessSummaryPassesDays(t *testing.T) {
	p := &fakeProvider{rows: []store.Row{{"metric_name": "total_active_devices", "metric_value": 1.0}}}
	svc := newTestService(p)

	summary, opErr := svc.BusinessPerformanceSummary(context.Background(), 7)
	if opErr != nil {
		t.Fatalf("op error: %+v", opErr)
	}
	if p.rpcArgs["p_date_range_days"] != 7 {
		t.Fatalf("rpc args = %v", p.rpcArgs)
	}
	if summary.Timeframe != "Last 7 days" {
		t.Fatalf("timeframe = %q", summary.Timeframe)
	}
}

func TestHighErrorDevicesDefaultThreshold(t *testing.T) {
	p := &fakeProvider{rows: []store.Row{{"device_id": "a", "error_count": 1.0, "total_readings": 10.0}}}
	svc := newTestService(p)

	report, opErr := svc.HighErrorDevices(context.Background(), 0)
	if opErr != nil {
		t.Fatalf("op error: %+v", opErr)
	}
	if p.rpcArgs["p_error_threshold"] != 5 {
		t.Fatalf("rpc args = %v, want default threshold 5", p.rpcArgs)
	}
	if report.Alerts.Threshold != 5 {
		t.Fatalf("report threshold = %d", report.Alerts.Threshold)
	}
}

func TestRecentDeviceLogsQueryShape(t *testing.T) {
	p := &fakeProvider{rows: []store.Row{{"device_id": "a", "PowerStatus": 1.0}}}
	svc := newTestService(p)

	logs, opErr := svc.RecentDeviceLogs(context.Background(), LogFilter{Location: "pune"})
	if opErr != nil {
		t.Fatalf("op error: %+v", opErr)
	}
	if len(logs) != 1 || logs[0].PowerStatus != "Active" {
		t.Fatalf("logs = %+v", logs)
	}
	q := p.logQuery
	if q.Location != "pune" || q.OrderBy != "CreatedOnDate" || !q.Desc || q.Limit != 10 {
		t.Fatalf("log query = %+v", q)
	}
}

func TestCustomerDeviceInfoEmpty(t *testing.T) {
	p := &fakeProvider{}
	svc := newTestService(p)

	row, opErr := svc.CustomerDeviceInfo(context.Background(), "42")
	if opErr != nil {
		t.Fatalf("op error: %+v", opErr)
	}
	if row != nil {
		t.Fatalf("row = %+v, want nil", row)
	}
}
