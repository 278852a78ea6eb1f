package fleet

import (
	"math"
	"strings"

	"github.com/dextro-platform/fleet-console/internal/store"
)

// Коды PumpError, означающие штатную работу насоса. Коды 1-36 — реальные
// неисправности, "9999" источник пишет как "No Fault".
var normalErrorCodes = map[string]struct{}{
	"":       {},
	"0":      {},
	"9999":   {},
	"NORMAL": {},
}

// IsNormalErrorCode сообщает, означает ли код штатную работу.
// Сравнение после trim: источник иногда отдает код с пробелами.
func IsNormalErrorCode(code string) bool {
	_, ok := normalErrorCodes[strings.TrimSpace(code)]
	return ok
}

// LogEntry — одна запись device_power_logs в представлении дашборда.
type LogEntry struct {
	DeviceID    string  `json:"device_id"`
	Location    string  `json:"location"`
	District    string  `json:"district"`
	Timestamp   string  `json:"timestamp"`
	PowerStatus string  `json:"power_status"`
	PumpError   string  `json:"pump_error"`
	Voltage     float64 `json:"voltage"`
	Current     float64 `json:"current"`
	Temperature float64 `json:"temperature"`
	WaterLPM    float64 `json:"water_output_lpm"`
	TodayLitres float64 `json:"today_litres"`
	RuntimeMin  float64 `json:"runtime_min"`
	KW          float64 `json:"kw"`
	Project     string  `json:"project"`
	Franchise   string  `json:"franchise"`
}

// FormatLogEntries переводит сырые строки device_power_logs в плоские
// записи для таблицы. PowerStatus в источнике — bigint, 1 означает Active.
func FormatLogEntries(rows []store.Row) []LogEntry {
	entries := make([]LogEntry, 0, len(rows))
	for _, row := range rows {
		status := "Inactive"
		if row.Int("PowerStatus") == 1 {
			status = "Active"
		}
		entries = append(entries, LogEntry{
			DeviceID:    row.String("device_id"),
			Location:    row.String("Location"),
			District:    row.String("District"),
			Timestamp:   row.String("CreatedOnDate"),
			PowerStatus: status,
			PumpError:   row.String("PumpError"),
			Voltage:     row.Float("Voltage"),
			Current:     row.Float("Current"),
			Temperature: row.Float("Temperature"),
			WaterLPM:    row.Float("LPM"),
			TodayLitres: row.Float("TodayLitre"),
			RuntimeMin:  row.Float("TodayRunTime"),
			KW:          row.Float("KW"),
			Project:     row.String("Project"),
			Franchise:   row.String("Franchise"),
		})
	}
	return entries
}

// LocationMetrics — агрегаты по локации или округу.
type LocationMetrics struct {
	TotalDevices          int     `json:"total_devices"`
	TotalWaterToday       float64 `json:"total_water_production_today"`
	TotalEnergyConsumed   float64 `json:"total_energy_consumption"`
	ErrorRatePercent      float64 `json:"error_rate_percent"`
	OperationalEfficiency string  `json:"operational_efficiency"`
}

// AggregateLocationMetrics считает агрегаты по сырым логам одной выборки.
// Устройства дедуплицируются по device_id, записи с нештатным PumpError
// дают вклад в error rate.
func AggregateLocationMetrics(rows []store.Row) LocationMetrics {
	m := LocationMetrics{OperationalEfficiency: "Normal"}
	if len(rows) == 0 {
		return m
	}

	seen := make(map[string]struct{})
	errorCount := 0
	for _, row := range rows {
		seen[row.String("device_id")] = struct{}{}
		m.TotalWaterToday += row.Float("TodayLitre")
		m.TotalEnergyConsumed += row.Float("Power_KWH")
		if !IsNormalErrorCode(row.String("PumpError")) {
			errorCount++
		}
	}

	m.TotalDevices = len(seen)
	m.TotalWaterToday = round2(m.TotalWaterToday)
	m.TotalEnergyConsumed = round2(m.TotalEnergyConsumed)
	m.ErrorRatePercent = round2(float64(errorCount) / float64(len(rows)) * 100)
	if errorCount > 0 {
		m.OperationalEfficiency = "Issues Detected"
	}
	return m
}

// PowerStatistics — статистика по столбцу Power.
type PowerStatistics struct {
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
}

// TimeRange — границы выборки по CreatedOnDate. Выборка приходит
// отсортированной по убыванию, так что первая запись — самая свежая.
type TimeRange struct {
	Latest string `json:"latest"`
	Oldest string `json:"oldest"`
}

// PowerDataAnalysis — инсайты по выборке device_power_logs. Блоки
// заполняются только для реально запрошенных столбцов.
type PowerDataAnalysis struct {
	TotalRecords     int              `json:"total_records"`
	ColumnsRetrieved []string         `json:"columns_retrieved"`
	ErrorCount       *int             `json:"error_count,omitempty"`
	ErrorRate        *float64         `json:"error_rate,omitempty"`
	UniqueErrorCodes []string         `json:"unique_error_codes,omitempty"`
	PowerStats       *PowerStatistics `json:"power_statistics,omitempty"`
	TimeRange        *TimeRange       `json:"time_range,omitempty"`
}

// AnalyzePowerData строит анализ выборки в зависимости от выбранных
// столбцов. columns — список из select, "*" включает все блоки.
func AnalyzePowerData(rows []store.Row, columns []string) PowerDataAnalysis {
	analysis := PowerDataAnalysis{
		TotalRecords:     len(rows),
		ColumnsRetrieved: columns,
	}

	if columnSelected(columns, "PumpError") {
		uniqueCodes := make(map[string]struct{})
		errorCount := 0
		for _, row := range rows {
			code := row.String("PumpError")
			if IsNormalErrorCode(code) {
				continue
			}
			errorCount++
			uniqueCodes[code] = struct{}{}
		}
		rate := 0.0
		if len(rows) > 0 {
			rate = float64(errorCount) / float64(len(rows))
		}
		analysis.ErrorCount = &errorCount
		analysis.ErrorRate = &rate
		analysis.UniqueErrorCodes = make([]string, 0, len(uniqueCodes))
		for code := range uniqueCodes {
			analysis.UniqueErrorCodes = append(analysis.UniqueErrorCodes, code)
		}
	}

	if columnSelected(columns, "Power") && len(rows) > 0 {
		stats := PowerStatistics{Min: math.Inf(1), Max: math.Inf(-1)}
		sum := 0.0
		for _, row := range rows {
			v := row.Float("Power")
			sum += v
			stats.Min = math.Min(stats.Min, v)
			stats.Max = math.Max(stats.Max, v)
		}
		stats.Average = sum / float64(len(rows))
		analysis.PowerStats = &stats
	}

	if columnSelected(columns, "CreatedOnDate") && len(rows) > 0 {
		analysis.TimeRange = &TimeRange{
			Latest: rows[0].String("CreatedOnDate"),
			Oldest: rows[len(rows)-1].String("CreatedOnDate"),
		}
	}

	return analysis
}

func columnSelected(columns []string, name string) bool {
	for _, c := range columns {
		c = strings.TrimSpace(c)
		if c == name || c == "*" {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
