package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dextro-platform/fleet-console/internal/console/service"
	"github.com/dextro-platform/fleet-console/internal/engine"
)

// Конверт ответа API. Success=true с nil Data — корректный запрос
// к пустой выборке, фронт показывает "нет данных", а не ошибку.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func writeNoData(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "no data found for the specified criteria"})
}

// writeOpError переводит таксономию отказов в HTTP-статусы:
// permission → 403, все остальное (fatal после исчерпания ретраев) → 502.
func writeOpError(w http.ResponseWriter, opErr *service.OpError) {
	status := http.StatusBadGateway
	if opErr.Kind == engine.KindPermission {
		status = http.StatusForbidden
	}
	writeJSON(w, status, envelope{Success: false, Message: opErr.Message, Kind: string(opErr.Kind)})
}
