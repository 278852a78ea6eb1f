package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dextro-platform/fleet-console/internal/audit"
)

const (
	defaultMaxTurns = 8
	summaryLimit    = 500 // байт результата в журнале инвокаций
)

// Invocation — один выполненный вызов инструмента в порядке исполнения.
type Invocation struct {
	Tool       string         `json:"tool"`
	Args       map[string]any `json:"args,omitempty"`
	DurationMs int64          `json:"duration_ms"`
	Summary    string         `json:"summary,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Answer — итог диалога: финальный текст и журнал инвокаций.
type Answer struct {
	Text        string       `json:"text"`
	TraceID     string       `json:"trace_id"`
	Invocations []Invocation `json:"invocations,omitempty"`
}

// Agent — чат-агент дашборда. Крутит цикл "модель → инструменты → модель"
// со строго последовательным исполнением вызовов: следующий инструмент
// стартует только после результата предыдущего.
type Agent struct {
	llm          LLM
	registry     *Registry
	recorder     audit.Recorder // может быть nil
	systemPrompt string
	maxTurns     int
	logger       *zap.Logger
}

func New(llm LLM, registry *Registry, recorder audit.Recorder, systemPrompt string, maxTurns int, logger *zap.Logger) *Agent {
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	return &Agent{
		llm:          llm,
		registry:     registry,
		recorder:     recorder,
		systemPrompt: systemPrompt,
		maxTurns:     maxTurns,
		logger:       logger.Named("agent"),
	}
}

// Ask ведет диалог до финального текстового ответа либо исчерпания
// бюджета ходов. Сбой инструмента не прерывает диалог: модель получает
// структурированный payload с ошибкой и решает сама, что делать дальше.
func (a *Agent) Ask(ctx context.Context, userID, question string) (*Answer, error) {
	traceID := uuid.New().String()
	answer := &Answer{TraceID: traceID}

	messages := []Message{{Role: RoleUser, Content: question}}

	for turn := 0; turn < a.maxTurns; turn++ {
		comp, err := a.llm.Complete(ctx, Request{System: a.systemPrompt, Messages: messages})
		if err != nil {
			return nil, fmt.Errorf("llm completion: %w", err)
		}

		if len(comp.ToolCalls) == 0 {
			answer.Text = comp.Text
			return answer, nil
		}

		if comp.Text != "" {
			messages = append(messages, Message{Role: RoleAssistant, Content: comp.Text})
		}

		// Строго по одному: результат каждого вызова дожидаемся
		// до старта следующего
		for _, call := range comp.ToolCalls {
			payload, inv := a.dispatch(ctx, traceID, userID, call)
			answer.Invocations = append(answer.Invocations, inv)
			messages = append(messages, Message{
				Role:       RoleTool,
				Content:    payload,
				ToolCallID: call.ID,
				ToolName:   call.Name,
			})
		}
	}

	a.logger.Warn("turn budget exhausted",
		zap.String("trace_id", traceID),
		zap.Int("max_turns", a.maxTurns))
	answer.Text = "I could not finish the analysis within the allotted steps. Please narrow the question."
	return answer, nil
}

// dispatch выполняет один вызов инструмента, пишет аудит и возвращает
// JSON-payload для модели плюс запись журнала для клиента.
func (a *Agent) dispatch(ctx context.Context, traceID, userID string, call ToolCall) (string, Invocation) {
	start := time.Now()
	result, err := a.registry.Call(ctx, call.Name, call.Args)
	elapsed := time.Since(start).Milliseconds()

	inv := Invocation{
		Tool:       call.Name,
		Args:       call.Args,
		DurationMs: elapsed,
	}
	event := audit.Event{
		ID:         uuid.New().String(),
		TraceID:    traceID,
		UserID:     userID,
		Tool:       call.Name,
		Args:       call.Args,
		DurationMs: elapsed,
		Timestamp:  start,
	}

	var payload string
	if err != nil {
		a.logger.Warn("tool call failed",
			zap.String("tool", call.Name),
			zap.String("trace_id", traceID),
			zap.Error(err))
		inv.Error = err.Error()
		event.Status = "FAILED"
		event.Error = err.Error()
		raw, _ := json.Marshal(map[string]any{"success": false, "error": err.Error()})
		payload = string(raw)
	} else {
		raw, marshalErr := json.Marshal(result)
		if marshalErr != nil {
			raw = []byte(fmt.Sprintf(`{"success": false, "error": %q}`, marshalErr.Error()))
		}
		payload = string(raw)
		inv.Summary = truncate(payload, summaryLimit)
		event.Status = "SUCCESS"
		event.Summary = inv.Summary
	}

	if a.recorder != nil {
		a.recorder.Record(event)
	}
	return payload, inv
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
