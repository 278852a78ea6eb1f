package store

import (
	"errors"
	"fmt"
	"strings"
)

// APIError — структурированная ошибка провайдера данных (PostgREST-совместимый
// формат: код, сообщение, HTTP-статус).
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("store api error [%s]: %s (http %d)", e.Code, e.Message, e.StatusCode)
}

// IsNoRows определяет ответы вида "запрос корректен, данных нет".
// PGRST116 — код PostgREST для "no rows returned".
func IsNoRows(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	msg := strings.ToLower(apiErr.Message)
	return apiErr.StatusCode == 404 ||
		strings.Contains(msg, "no rows") ||
		strings.EqualFold(apiErr.Code, "PGRST116")
}

// IsPermissionDenied определяет отказы авторизации. Ретраить их бессмысленно.
func IsPermissionDenied(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == 401 || apiErr.StatusCode == 403 ||
		strings.Contains(strings.ToLower(apiErr.Message), "permission denied")
}
