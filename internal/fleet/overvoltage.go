package fleet

import "github.com/dextro-platform/fleet-console/internal/store"

// Приоритеты бизнес-реакции на перенапряжение.
const (
	PriorityHigh     = "High - multiple devices at risk"
	PriorityCritical = "Critical - dangerous voltage levels detected"
	PriorityMedium   = "Medium - monitor and plan preventive action"
	PriorityNormal   = "Normal - no overvoltage issues detected"
)

// OvervoltageSummary — сводка из категории summary.
type OvervoltageSummary struct {
	AffectedDevices int     `json:"affected_devices"`
	FleetPercentage float64 `json:"fleet_percentage"`
	TotalReadings   int     `json:"total_readings"`
}

// VoltageStatistics — категория voltage_stats.
type VoltageStatistics struct {
	Threshold       float64 `json:"threshold"`
	MinVoltage      float64 `json:"min_voltage"`
	MaxVoltage      float64 `json:"max_voltage"`
	AvgVoltage      float64 `json:"avg_voltage"`
	DangerousSpikes int     `json:"dangerous_spikes"`
}

// ProductionImpact — категория production_impact.
type ProductionImpact struct {
	EstimatedLossLitres   float64 `json:"estimated_loss_litres"`
	EfficiencyDropPercent float64 `json:"efficiency_drop_percent"`
}

// TemporalAnalysis — категория temporal.
type TemporalAnalysis struct {
	MostRecent   string `json:"most_recent"`
	Frequency24h int    `json:"frequency_24h"`
}

// OvervoltageAnalysis — типизированный результат rpc_overvoltage_analysis.
type OvervoltageAnalysis struct {
	Summary          OvervoltageSummary `json:"summary"`
	VoltageStats     VoltageStatistics  `json:"voltage_statistics"`
	ProductionImpact ProductionImpact   `json:"production_impact"`
	Temporal         TemporalAnalysis   `json:"temporal_analysis"`
	Recommendations  []string           `json:"recommendations"`
	BusinessPriority string             `json:"business_priority"`
}

// Рекомендации по перенапряжению фиксированы: их формирует инженерная
// практика, а не данные.
func overvoltageRecommendations() []string {
	return []string{
		"Install automatic voltage regulators (AVR) on affected devices",
		"Implement voltage monitoring alerts for proactive management",
		"Schedule electrical system inspection during peak solar hours",
		"Consider grid connection quality assessment",
		"Install surge protectors for equipment protection",
	}
}

// ClassifyOvervoltagePriority — приоритет реакции, первый сработавший
// критерий побеждает. Число затронутых устройств проверяется раньше
// порога напряжения намеренно: изменение порядка поменяло бы наблюдаемую
// классификацию.
func ClassifyOvervoltagePriority(affectedDevices int, maxVoltage float64) string {
	switch {
	case affectedDevices > 5:
		return PriorityHigh
	case maxVoltage > 800:
		return PriorityCritical
	case affectedDevices > 0:
		return PriorityMedium
	default:
		return PriorityNormal
	}
}

// BuildOvervoltageAnalysis нормализует TABLE-ответ анализа перенапряжений.
func BuildOvervoltageAnalysis(rows []store.Row) *OvervoltageAnalysis {
	bundles := BuildBundles(rows, AnalysisKeys())

	summary := bundles["summary"]
	voltage := bundles["voltage_stats"]
	production := bundles["production_impact"]
	temporal := bundles["temporal"]

	a := &OvervoltageAnalysis{
		Summary: OvervoltageSummary{
			AffectedDevices: summary.IntOr("affected_devices", 0),
			FleetPercentage: summary.ValueOr("fleet_percentage", 0),
			TotalReadings:   summary.IntOr("total_readings", 0),
		},
		VoltageStats: VoltageStatistics{
			Threshold:       voltage.ValueOr("threshold", 750),
			MinVoltage:      voltage.ValueOr("minimum", 0),
			MaxVoltage:      voltage.ValueOr("maximum", 0),
			AvgVoltage:      voltage.ValueOr("average", 0),
			DangerousSpikes: voltage.IntOr("dangerous_spikes", 0),
		},
		ProductionImpact: ProductionImpact{
			EstimatedLossLitres:   production.ValueOr("estimated_loss", 0),
			EfficiencyDropPercent: production.ValueOr("efficiency_drop", 15),
		},
		Temporal: TemporalAnalysis{
			MostRecent:   temporal.DescriptionOr("most_recent", "Unknown"),
			Frequency24h: temporal.IntOr("frequency_24h", 0),
		},
		Recommendations: overvoltageRecommendations(),
	}

	a.BusinessPriority = ClassifyOvervoltagePriority(a.Summary.AffectedDevices, a.VoltageStats.MaxVoltage)
	return a
}
