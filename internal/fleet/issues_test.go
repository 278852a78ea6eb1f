package fleet

import (
	"testing"

	"github.com/dextro-platform/fleet-console/internal/store"
)

func TestParseIssuesKeepsSourceOrder(t *testing.T) {
	rows := []store.Row{
		{"priority_rank": 1.0, "issue_type": "overvoltage", "severity_level": "Critical", "affected_devices": 4.0},
		{"priority_rank": 2.0, "issue_type": "pump_fault", "severity_level": "High", "affected_devices": 2.0},
		{"priority_rank": 3.0, "issue_type": "sensor_drift", "severity_level": "bogus", "affected_devices": 1.0},
	}

	issues := ParseIssues(rows)

	if len(issues) != 3 {
		t.Fatalf("issues = %d, want 3", len(issues))
	}
	if issues[0].Type != "overvoltage" || issues[0].Priority != 1 {
		t.Fatalf("first issue = %+v", issues[0])
	}
	// неизвестная серьезность деградирует в Low, а не отбрасывается
	if issues[2].Severity != SeverityLow {
		t.Fatalf("severity = %q, want Low", issues[2].Severity)
	}
}

func TestSummarizeIssues(t *testing.T) {
	issues := []Issue{
		{Severity: SeverityCritical, AffectedDevices: 4},
		{Severity: SeverityHigh, AffectedDevices: 2},
		{Severity: SeverityHigh, AffectedDevices: 3},
		{Severity: SeverityLow, AffectedDevices: 1},
	}

	s := SummarizeIssues(issues)

	if s.TotalIssues != 4 {
		t.Fatalf("total = %d, want 4", s.TotalIssues)
	}
	if s.CriticalCount != 1 || s.HighCount != 2 || s.MediumCount != 0 || s.LowCount != 1 {
		t.Fatalf("buckets = %+v", s)
	}
	if s.TotalDevicesAffected != 10 {
		t.Fatalf("devices affected = %d, want 10", s.TotalDevicesAffected)
	}
}
