package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dextro-platform/fleet-console/internal/agent"
	"github.com/dextro-platform/fleet-console/internal/infra/auth"
)

type ChatRequest struct {
	Question string `json:"question"`
}

type ChatHandler struct {
	agent  *agent.Agent
	logger *zap.Logger
}

func NewChatHandler(a *agent.Agent, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{agent: a, logger: logger.Named("chat-handler")}
}

// Ask — POST /api/v1/chat
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "bad request"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "question is required"})
		return
	}

	answer, err := h.agent.Ask(r.Context(), auth.UserID(r.Context()), req.Question)
	if err != nil {
		h.logger.Error("chat dialog failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, envelope{Success: false, Message: "assistant is unavailable"})
		return
	}
	writeData(w, answer)
}
