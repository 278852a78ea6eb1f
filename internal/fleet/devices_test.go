package fleet

import (
	"testing"

	"github.com/dextro-platform/fleet-console/internal/store"
)

func deviceRow(id string, errors, readings int) store.Row {
	return store.Row{
		"device_id":      id,
		"error_count":    float64(errors),
		"total_readings": float64(readings),
		"current_status": "Error",
	}
}

func TestRankHighErrorDevices(t *testing.T) {
	rows := []store.Row{
		deviceRow("dev-a", 12, 100), // 12%
		deviceRow("dev-b", 25, 100), // 25%
		deviceRow("dev-c", 8, 100),  // 8%
		deviceRow("dev-d", 18, 100), // 18%
	}

	report := RankHighErrorDevices(rows, 5)

	wantOrder := []string{"dev-b", "dev-d", "dev-a", "dev-c"}
	for i, want := range wantOrder {
		if report.Devices[i].DeviceID != want {
			t.Fatalf("position %d = %s, want %s", i, report.Devices[i].DeviceID, want)
		}
	}

	if report.Alerts.Critical != 1 {
		t.Fatalf("critical = %d, want 1", report.Alerts.Critical)
	}
	if report.Alerts.HighPriority != 2 {
		t.Fatalf("high priority = %d, want 2", report.Alerts.HighPriority)
	}
	if report.Alerts.Total != 4 || report.Alerts.Threshold != 5 {
		t.Fatalf("alerts = %+v", report.Alerts)
	}
	if report.MostCritical == nil || report.MostCritical.DeviceID != "dev-b" {
		t.Fatalf("most critical = %+v", report.MostCritical)
	}
}

func TestRankHighErrorDevicesStableOnTies(t *testing.T) {
	rows := []store.Row{
		deviceRow("first", 10, 100),
		deviceRow("second", 10, 100),
	}
	report := RankHighErrorDevices(rows, 5)
	if report.Devices[0].DeviceID != "first" || report.Devices[1].DeviceID != "second" {
		t.Fatalf("tie order broken: %s, %s", report.Devices[0].DeviceID, report.Devices[1].DeviceID)
	}
}

func TestRankHighErrorDevicesEmpty(t *testing.T) {
	report := RankHighErrorDevices(nil, 5)
	if len(report.Devices) != 0 || report.MostCritical != nil {
		t.Fatalf("empty report = %+v", report)
	}
}

func TestDeviceFromRowRederivesRate(t *testing.T) {
	// проценту из источника не доверяем, считаем по счетчикам
	row := deviceRow("dev-x", 1, 3)
	row["error_rate_percent"] = 99.0
	d := DeviceFromRow(row)
	if d.ErrorRatePercent != 33.33 {
		t.Fatalf("error rate = %v, want 33.33", d.ErrorRatePercent)
	}
}

func TestDeviceFromRowZeroReadings(t *testing.T) {
	d := DeviceFromRow(deviceRow("dev-y", 5, 0))
	if d.ErrorRatePercent != 0 {
		t.Fatalf("error rate = %v, want 0", d.ErrorRatePercent)
	}
}
