package fleet

import "github.com/dextro-platform/fleet-console/internal/store"

// Severity — корзина серьезности проблемы.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// ParseSeverity нормализует текст источника; неизвестное значение — Low.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return Severity(s)
	}
	return SeverityLow
}

// Issue — одна проблема из rpc_critical_issues_analysis.
// Priority назначается источником (1 — самая срочная); движок порядок
// не меняет.
type Issue struct {
	Priority        int      `json:"priority"`
	Type            string   `json:"type"`
	Severity        Severity `json:"severity"`
	AffectedDevices int      `json:"affected_devices"`
	Description     string   `json:"description"`
	Recommendation  string   `json:"recommendation"`
	BusinessImpact  string   `json:"business_impact"`
}

// IssueSummary — сводка по корзинам для шапки дашборда.
type IssueSummary struct {
	TotalIssues          int `json:"total_issues"`
	CriticalCount        int `json:"critical_count"`
	HighCount            int `json:"high_count"`
	MediumCount          int `json:"medium_count"`
	LowCount             int `json:"low_count"`
	TotalDevicesAffected int `json:"total_devices_affected"`
}

// ParseIssues разбирает TABLE-ответ анализа критичных проблем,
// сохраняя порядок источника.
func ParseIssues(rows []store.Row) []Issue {
	issues := make([]Issue, 0, len(rows))
	for _, row := range rows {
		issues = append(issues, Issue{
			Priority:        row.Int("priority_rank"),
			Type:            row.String("issue_type"),
			Severity:        ParseSeverity(row.String("severity_level")),
			AffectedDevices: row.Int("affected_devices"),
			Description:     row.String("description"),
			Recommendation:  row.String("recommendation"),
			BusinessImpact:  row.String("business_impact"),
		})
	}
	return issues
}

// SummarizeIssues считает корзины и суммарное число затронутых устройств.
func SummarizeIssues(issues []Issue) IssueSummary {
	s := IssueSummary{TotalIssues: len(issues)}
	for _, issue := range issues {
		s.TotalDevicesAffected += issue.AffectedDevices
		switch issue.Severity {
		case SeverityCritical:
			s.CriticalCount++
		case SeverityHigh:
			s.HighCount++
		case SeverityMedium:
			s.MediumCount++
		case SeverityLow:
			s.LowCount++
		}
	}
	return s
}
