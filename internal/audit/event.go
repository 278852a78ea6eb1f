package audit

import "time"

// Event — одна инвокация инструмента агентом.
type Event struct {
	ID      string         `json:"id"`       // UUID инвокации
	TraceID string         `json:"trace_id"` // Сквозной ID диалога/запроса
	UserID  string         `json:"user_id"`  // Кто спрашивал
	Tool    string         `json:"tool"`     // Какой инструмент дернули
	Args    map[string]any `json:"args"`     // С какими аргументами

	// Результат
	Status     string    `json:"status"`  // "SUCCESS" или "FAILED"
	Summary    string    `json:"summary"` // Усеченный результат для журнала
	Error      string    `json:"error"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}
