package store

import (
	"strconv"
	"strings"
)

// Row — одна сырая запись из хранилища. Значения нетипизированы:
// число может прийти строкой, строка — null. Коэрсеры ниже никогда
// не возвращают ошибку — битое значение деградирует в ноль/пустую строку.
type Row map[string]any

// Result — ответ провайдера на одну операцию чтения/RPC.
type Result struct {
	Data []Row `json:"data"`
}

// Float достает числовое значение с терпимостью к текстовым форматам
// ("42", "150W", null). Единичное битое значение — это 0, а не авария.
func (r Row) Float(key string) float64 {
	v, ok := r[key]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		return parseLooseFloat(t)
	}
	return 0
}

// Int — целочисленный коэрсер поверх Float (счетчики, количества).
func (r Row) Int(key string) int {
	return int(r.Float(key))
}

// String возвращает строковое представление либо "".
func (r Row) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON-числа приходят как float64; целые печатаем без мантиссы
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

// parseLooseFloat разбирает числа с мусорными суффиксами вроде "150W".
func parseLooseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Отрезаем хвост после последней цифры (единицы измерения)
	end := 0
	for i, c := range s {
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' {
			end = i + 1
			continue
		}
		break
	}
	if end == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}
