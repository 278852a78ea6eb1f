package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dextro-platform/fleet-console/internal/console/service"
	"github.com/dextro-platform/fleet-console/internal/domain"
)

// AuthHandler обслуживает выдачу токенов. Единственный эндпоинт вне
// защищенного периметра, который принимает тело запроса.
type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Login: POST /auth/token. Тело — domain.LoginRequest, ответ —
// domain.TokenResponse без конверта (формат совместим с OAuth-клиентами).
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	resp, err := h.service.GenerateToken(r.Context(), req.Username, req.Password)
	if err != nil {
		// не уточняем, что именно неверно (логин или пароль) для защиты от перебора
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
