package fleet

import (
	"github.com/dextro-platform/fleet-console/internal/store"
)

// Metric — одно нормализованное значение из TABLE-формата RPC-эндпоинта.
type Metric struct {
	Value       float64 `json:"value"`
	Unit        string  `json:"unit,omitempty"`
	Description string  `json:"description,omitempty"`
	Info        string  `json:"info,omitempty"`
}

// MetricBundle — метрики одной категории: имя метрики → значение.
// Собирается один раз на вызов хранилища и после этого не меняется.
type MetricBundle map[string]Metric

// Value возвращает значение метрики и признак ее наличия.
func (b MetricBundle) Value(name string) (float64, bool) {
	m, ok := b[name]
	return m.Value, ok
}

// ValueOr — значение метрики либо дефолт, если ее нет в бандле.
func (b MetricBundle) ValueOr(name string, def float64) float64 {
	if m, ok := b[name]; ok {
		return m.Value
	}
	return def
}

// IntOr — целочисленный вариант ValueOr (счетчики устройств и ошибок).
func (b MetricBundle) IntOr(name string, def int) int {
	if m, ok := b[name]; ok {
		return int(m.Value)
	}
	return def
}

// InfoOr — дополнительная текстовая нагрузка метрики либо дефолт.
func (b MetricBundle) InfoOr(name, def string) string {
	if m, ok := b[name]; ok && m.Info != "" {
		return m.Info
	}
	return def
}

// DescriptionOr — описание метрики либо дефолт.
func (b MetricBundle) DescriptionOr(name, def string) string {
	if m, ok := b[name]; ok && m.Description != "" {
		return m.Description
	}
	return def
}

// BundleKeys описывает, в каких колонках TABLE-ответа лежат категория,
// имя, значение и сопровождающий текст. У разных RPC-эндпоинтов колонки
// называются по-разному.
type BundleKeys struct {
	Category    string
	Name        string
	Value       string
	Unit        string
	Description string
	Info        string
}

// HealthKeys — схема rpc_fleet_health_overview.
func HealthKeys() BundleKeys {
	return BundleKeys{
		Category:    "health_category",
		Name:        "metric_name",
		Value:       "metric_value",
		Unit:        "metric_unit",
		Description: "status_description",
	}
}

// AnalysisKeys — схема rpc_overvoltage_analysis.
func AnalysisKeys() BundleKeys {
	return BundleKeys{
		Category:    "analysis_category",
		Name:        "metric_name",
		Value:       "metric_value",
		Unit:        "metric_unit",
		Description: "description",
	}
}

// SummaryKeys — схема rpc_business_performance_summary (плоская, без категорий).
func SummaryKeys() BundleKeys {
	return BundleKeys{
		Name:        "metric_name",
		Value:       "metric_value",
		Description: "metric_description",
		Info:        "additional_info",
	}
}

// BuildBundle собирает плоский бандл из строк без категорий.
// Битая строка портит только свою метрику (значение деградирует в 0),
// остальной бандл собирается как обычно.
func BuildBundle(rows []store.Row, keys BundleKeys) MetricBundle {
	bundle := MetricBundle{}
	for _, row := range rows {
		name := row.String(keys.Name)
		if name == "" {
			continue
		}
		bundle[name] = metricFromRow(row, keys)
	}
	return bundle
}

// BuildBundles группирует строки TABLE-ответа по категории.
func BuildBundles(rows []store.Row, keys BundleKeys) map[string]MetricBundle {
	out := map[string]MetricBundle{}
	for _, row := range rows {
		name := row.String(keys.Name)
		if name == "" {
			continue
		}
		category := row.String(keys.Category)
		bundle, ok := out[category]
		if !ok {
			bundle = MetricBundle{}
			out[category] = bundle
		}
		bundle[name] = metricFromRow(row, keys)
	}
	return out
}

func metricFromRow(row store.Row, keys BundleKeys) Metric {
	m := Metric{
		Value:       row.Float(keys.Value), // null/мусор → 0
		Description: row.String(keys.Description),
	}
	if keys.Unit != "" {
		m.Unit = row.String(keys.Unit)
	}
	if keys.Info != "" {
		m.Info = row.String(keys.Info)
	}
	return m
}
