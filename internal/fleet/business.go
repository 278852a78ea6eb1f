package fleet

import (
	"fmt"

	"github.com/dextro-platform/fleet-console/internal/store"
)

// TopPerformer — локация с наибольшим энергопотреблением за период.
type TopPerformer struct {
	Location       string  `json:"location"`
	EnergyConsumed float64 `json:"energy_consumed"`
}

// EnvironmentalImpact — экологический эффект новых установок.
type EnvironmentalImpact struct {
	CO2SavingsTonnesAnnual int    `json:"co2_savings_tonnes_annual"`
	ImpactStatement        string `json:"impact_statement"`
}

// FleetMetrics — агрегаты производительности флота за период.
type FleetMetrics struct {
	TotalActiveDevices      int     `json:"total_active_devices"`
	AverageEfficiency       float64 `json:"average_efficiency"`
	TotalWaterProducedToday float64 `json:"total_water_produced_today"`
	TotalEnergyConsumed     float64 `json:"total_energy_consumed"`
}

// HealthOverview — счетчики здоровья из бизнес-сводки.
type HealthOverview struct {
	DevicesWithErrors  int     `json:"devices_with_errors"`
	OperationalDevices int     `json:"operational_devices"`
	FleetUptimePercent float64 `json:"fleet_uptime_percent"`
}

// BusinessSummary — типизированный результат rpc_business_performance_summary.
type BusinessSummary struct {
	NewDevicesInstalled int                 `json:"new_devices_installed"`
	Environmental       EnvironmentalImpact `json:"environmental_impact"`
	TopPerformer        TopPerformer        `json:"top_performer"`
	FleetMetrics        FleetMetrics        `json:"fleet_metrics"`
	HealthOverview      HealthOverview      `json:"health_overview"`
	Timeframe           string              `json:"timeframe"`
}

// BuildBusinessSummary нормализует плоский TABLE-ответ бизнес-сводки.
func BuildBusinessSummary(rows []store.Row, dateRangeDays int) *BusinessSummary {
	metrics := BuildBundle(rows, SummaryKeys())

	newDevices := metrics.IntOr("new_devices_installed", 0)
	co2 := metrics.IntOr("co2_savings_tonnes", 0)

	return &BusinessSummary{
		NewDevicesInstalled: newDevices,
		Environmental: EnvironmentalImpact{
			CO2SavingsTonnesAnnual: co2,
			ImpactStatement: fmt.Sprintf(
				"%d new devices were installed in the last %d day(s), saving approximately %d tonnes of CO2 annually",
				newDevices, dateRangeDays, co2),
		},
		TopPerformer: TopPerformer{
			Location:       metrics.InfoOr("top_energy_location", "Unknown"),
			EnergyConsumed: metrics.ValueOr("top_energy_location", 0),
		},
		FleetMetrics: FleetMetrics{
			TotalActiveDevices:      metrics.IntOr("total_active_devices", 0),
			AverageEfficiency:       metrics.ValueOr("average_efficiency", 0),
			TotalWaterProducedToday: metrics.ValueOr("total_water_production", 0),
			TotalEnergyConsumed:     metrics.ValueOr("total_energy_consumption", 0),
		},
		HealthOverview: HealthOverview{
			DevicesWithErrors:  metrics.IntOr("devices_with_errors", 0),
			OperationalDevices: metrics.IntOr("operational_devices", 0),
			FleetUptimePercent: metrics.ValueOr("fleet_uptime_percent", 0),
		},
		Timeframe: fmt.Sprintf("Last %d days", dateRangeDays),
	}
}
