package fleet

import (
	"testing"

	"github.com/dextro-platform/fleet-console/internal/store"
)

func TestBuildBundle(t *testing.T) {
	rows := []store.Row{
		{"metric_name": "total_active_devices", "metric_value": 42.0, "metric_description": "devices online"},
		{"metric_name": "top_energy_location", "metric_value": 118.4, "additional_info": "Satara"},
		{"metric_name": "broken_metric", "metric_value": nil},
		{"metric_name": "", "metric_value": 7.0},
	}

	bundle := BuildBundle(rows, SummaryKeys())

	if len(bundle) != 3 {
		t.Fatalf("bundle size = %d, want 3", len(bundle))
	}
	if v := bundle.ValueOr("total_active_devices", -1); v != 42 {
		t.Fatalf("total_active_devices = %v, want 42", v)
	}
	if info := bundle.InfoOr("top_energy_location", "Unknown"); info != "Satara" {
		t.Fatalf("info = %q, want Satara", info)
	}
	// null значение деградирует в 0, метрика при этом присутствует
	if v, ok := bundle.Value("broken_metric"); !ok || v != 0 {
		t.Fatalf("broken_metric = (%v, %v), want (0, true)", v, ok)
	}
}

func TestBuildBundlesGroupsByCategory(t *testing.T) {
	rows := []store.Row{
		{"health_category": "fleet_summary", "metric_name": "total_devices", "metric_value": 10.0},
		{"health_category": "performance", "metric_name": "efficiency", "metric_value": 87.5},
		{"health_category": "performance", "metric_name": "temperature", "metric_value": "44.5"},
	}

	bundles := BuildBundles(rows, HealthKeys())

	if len(bundles) != 2 {
		t.Fatalf("categories = %d, want 2", len(bundles))
	}
	if v := bundles["fleet_summary"].ValueOr("total_devices", -1); v != 10 {
		t.Fatalf("total_devices = %v, want 10", v)
	}
	// текстовое число из TABLE-ответа тоже разбирается
	if v := bundles["performance"].ValueOr("temperature", -1); v != 44.5 {
		t.Fatalf("temperature = %v, want 44.5", v)
	}
}

func TestMetricBundleDefaults(t *testing.T) {
	var empty MetricBundle
	if v := empty.ValueOr("anything", 7); v != 7 {
		t.Fatalf("ValueOr on nil bundle = %v, want 7", v)
	}
	if v := empty.IntOr("anything", 3); v != 3 {
		t.Fatalf("IntOr on nil bundle = %v, want 3", v)
	}
	if s := empty.DescriptionOr("anything", "n/a"); s != "n/a" {
		t.Fatalf("DescriptionOr on nil bundle = %q, want n/a", s)
	}
}
