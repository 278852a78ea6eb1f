package fleet

import (
	"math"

	"github.com/dextro-platform/fleet-console/internal/store"
)

// FleetSummary — сводные счетчики флота из категории fleet_summary.
type FleetSummary struct {
	TotalDevices  int     `json:"total_devices"`
	ActiveDevices int     `json:"active_devices"`
	ErrorDevices  int     `json:"error_devices"`
	UptimePercent float64 `json:"uptime_percent"`
}

// PerformanceMetrics — производственные показатели из категории performance.
type PerformanceMetrics struct {
	WaterProduction    float64 `json:"water_production"`
	EnergyConsumption  float64 `json:"energy_consumption"`
	Efficiency         float64 `json:"efficiency"`
	AverageTemperature float64 `json:"average_temperature"`
}

// DistrictHealth — здоровье одного района из категории geographic_health.
type DistrictHealth struct {
	District    string  `json:"district"`
	HealthScore float64 `json:"health_score"`
	Status      string  `json:"status"`
	Description string  `json:"description,omitempty"`
}

// FleetHealth — типизированный результат rpc_fleet_health_overview:
// вместо вложенных словарей — дискриминированные структуры по категориям.
type FleetHealth struct {
	Summary           FleetSummary       `json:"summary"`
	Performance       PerformanceMetrics `json:"performance"`
	ErrorDistribution MetricBundle       `json:"error_distribution"`
	GeographicHealth  []DistrictHealth   `json:"geographic_health"`
	HealthScore       float64            `json:"health_score"`
	Recommendations   []string           `json:"recommendations"`
}

const healthyDistrictThreshold = 80

// BuildFleetHealth нормализует TABLE-ответ обзора здоровья флота.
func BuildFleetHealth(rows []store.Row) *FleetHealth {
	bundles := BuildBundles(rows, HealthKeys())

	summary := bundles["fleet_summary"]
	performance := bundles["performance"]

	fh := &FleetHealth{
		Summary: FleetSummary{
			TotalDevices:  summary.IntOr("total_devices", 0),
			ActiveDevices: summary.IntOr("active_devices", 0),
			ErrorDevices:  summary.IntOr("error_devices", 0),
			UptimePercent: summary.ValueOr("uptime_percent", 0),
		},
		Performance: PerformanceMetrics{
			WaterProduction:    performance.ValueOr("water_production", 0),
			EnergyConsumption:  performance.ValueOr("energy_consumption", 0),
			Efficiency:         performance.ValueOr("efficiency", 0),
			AverageTemperature: performance.ValueOr("temperature", 0),
		},
		ErrorDistribution: bundles["error_distribution"],
	}

	for district, m := range bundles["geographic_health"] {
		status := "Needs Attention"
		if m.Value > healthyDistrictThreshold {
			status = "Healthy"
		}
		fh.GeographicHealth = append(fh.GeographicHealth, DistrictHealth{
			District:    district,
			HealthScore: m.Value,
			Status:      status,
			Description: m.Description,
		})
	}

	fh.HealthScore = HealthScore(summary)
	fh.Recommendations = Recommendations(summary, performance, bundles["error_distribution"])
	return fh
}

// HealthScore выводит синтетический балл здоровья флота 0–100:
// до 60 баллов за долю активных устройств, до -30 штрафа за долю сбойных,
// бонус 40 при нуле ошибок (иначе 10). При неполных данных отчет должен
// деградировать, а не падать — возвращаем нейтральные 50.0.
func HealthScore(fleetSummary MetricBundle) float64 {
	total, ok := fleetSummary.Value("total_devices")
	if !ok {
		return 50.0
	}
	active := fleetSummary.ValueOr("active_devices", 0)
	errDevices := fleetSummary.ValueOr("error_devices", 0)

	var activeScore, errorPenalty float64
	if total > 0 {
		activeScore = active / total * 60
		errorPenalty = errDevices / total * 30
	}

	noErrorBonus := 10.0
	if errDevices == 0 {
		noErrorBonus = 40.0
	}

	score := activeScore - errorPenalty + noErrorBonus
	score = math.Max(0, math.Min(100, score))
	return math.Round(score*10) / 10
}
