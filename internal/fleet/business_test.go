package fleet

import (
	"testing"

	"github.com/dextro-platform/fleet-console/internal/store"
)

func TestBuildBusinessSummary(t *testing.T) {
	rows := []store.Row{
		{"metric_name": "new_devices_installed", "metric_value": 12.0},
		{"metric_name": "co2_savings_tonnes", "metric_value": 48.0},
		{"metric_name": "top_energy_location", "metric_value": 118.4, "additional_info": "Satara"},
		{"metric_name": "total_active_devices", "metric_value": 230.0},
		{"metric_name": "average_efficiency", "metric_value": 86.2},
		{"metric_name": "fleet_uptime_percent", "metric_value": 97.4},
	}

	s := BuildBusinessSummary(rows, 30)

	if s.NewDevicesInstalled != 12 {
		t.Fatalf("new devices = %d, want 12", s.NewDevicesInstalled)
	}
	if s.Environmental.CO2SavingsTonnesAnnual != 48 {
		t.Fatalf("co2 = %d, want 48", s.Environmental.CO2SavingsTonnesAnnual)
	}
	if s.TopPerformer.Location != "Satara" || s.TopPerformer.EnergyConsumed != 118.4 {
		t.Fatalf("top performer = %+v", s.TopPerformer)
	}
	if s.FleetMetrics.TotalActiveDevices != 230 {
		t.Fatalf("active devices = %d, want 230", s.FleetMetrics.TotalActiveDevices)
	}
	if s.HealthOverview.FleetUptimePercent != 97.4 {
		t.Fatalf("uptime = %v, want 97.4", s.HealthOverview.FleetUptimePercent)
	}
	if s.Timeframe != "Last 30 days" {
		t.Fatalf("timeframe = %q", s.Timeframe)
	}
	want := "12 new devices were installed in the last 30 day(s), saving approximately 48 tonnes of CO2 annually"
	if s.Environmental.ImpactStatement != want {
		t.Fatalf("impact statement = %q", s.Environmental.ImpactStatement)
	}
}

func TestBuildBusinessSummaryEmpty(t *testing.T) {
	s := BuildBusinessSummary(nil, 7)
	if s.TopPerformer.Location != "Unknown" {
		t.Fatalf("top performer default = %q, want Unknown", s.TopPerformer.Location)
	}
	if s.Timeframe != "Last 7 days" {
		t.Fatalf("timeframe = %q", s.Timeframe)
	}
}
