package fleet

import (
	"testing"

	"github.com/dextro-platform/fleet-console/internal/store"
)

func TestHealthScore(t *testing.T) {
	cases := []struct {
		name    string
		summary MetricBundle
		want    float64
	}{
		{
			name: "all active no errors",
			summary: MetricBundle{
				"total_devices":  {Value: 10},
				"active_devices": {Value: 10},
				"error_devices":  {Value: 0},
			},
			want: 100.0,
		},
		{
			name: "half active half failing",
			summary: MetricBundle{
				"total_devices":  {Value: 10},
				"active_devices": {Value: 5},
				"error_devices":  {Value: 5},
			},
			want: 25.0,
		},
		{
			name:    "missing total_devices",
			summary: MetricBundle{"active_devices": {Value: 5}},
			want:    50.0,
		},
		{
			name: "zero total avoids division",
			summary: MetricBundle{
				"total_devices": {Value: 0},
				"error_devices": {Value: 0},
			},
			want: 40.0,
		},
		{
			name: "rounded to one decimal",
			summary: MetricBundle{
				"total_devices":  {Value: 3},
				"active_devices": {Value: 2},
				"error_devices":  {Value: 1},
			},
			// 2/3*60 - 1/3*30 + 10 = 40
			want: 40.0,
		},
	}
	for _, tc := range cases {
		if got := HealthScore(tc.summary); got != tc.want {
			t.Fatalf("%s: HealthScore = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHealthScoreClamped(t *testing.T) {
	summary := MetricBundle{
		"total_devices":  {Value: 2},
		"active_devices": {Value: 0},
		"error_devices":  {Value: 2},
	}
	// 0 - 30 + 10 = -20, зажимается в 0
	if got := HealthScore(summary); got != 0 {
		t.Fatalf("HealthScore = %v, want 0", got)
	}
}

func TestBuildFleetHealth(t *testing.T) {
	rows := []store.Row{
		{"health_category": "fleet_summary", "metric_name": "total_devices", "metric_value": 20.0},
		{"health_category": "fleet_summary", "metric_name": "active_devices", "metric_value": 20.0},
		{"health_category": "fleet_summary", "metric_name": "error_devices", "metric_value": 0.0},
		{"health_category": "fleet_summary", "metric_name": "uptime_percent", "metric_value": 99.5},
		{"health_category": "performance", "metric_name": "water_production", "metric_value": 1200.0, "metric_unit": "litres"},
		{"health_category": "performance", "metric_name": "temperature", "metric_value": 42.0},
		{"health_category": "geographic_health", "metric_name": "Pune", "metric_value": 92.0, "status_description": "all pumps reporting"},
		{"health_category": "geographic_health", "metric_name": "Nashik", "metric_value": 64.0},
	}

	fh := BuildFleetHealth(rows)

	if fh.Summary.TotalDevices != 20 || fh.Summary.ActiveDevices != 20 {
		t.Fatalf("summary = %+v", fh.Summary)
	}
	if fh.Performance.WaterProduction != 1200 {
		t.Fatalf("water production = %v, want 1200", fh.Performance.WaterProduction)
	}
	if fh.HealthScore != 100.0 {
		t.Fatalf("health score = %v, want 100.0", fh.HealthScore)
	}

	statuses := map[string]string{}
	for _, d := range fh.GeographicHealth {
		statuses[d.District] = d.Status
	}
	if statuses["Pune"] != "Healthy" {
		t.Fatalf("Pune status = %q, want Healthy", statuses["Pune"])
	}
	if statuses["Nashik"] != "Needs Attention" {
		t.Fatalf("Nashik status = %q, want Needs Attention", statuses["Nashik"])
	}

	// аптайм > 95 при нуле ошибок дает ровно одну похвалу аптайма
	if len(fh.Recommendations) != 1 || fh.Recommendations[0] != recUptimeHigh {
		t.Fatalf("recommendations = %v", fh.Recommendations)
	}
}
