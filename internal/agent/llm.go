package agent

import "context"

// Role сообщений диалога.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message — одно сообщение диалога с моделью. Для RoleTool поле
// ToolCallID связывает результат с конкретным вызовом инструмента.
type Message struct {
	Role       string `json:"role"`
	Content    string `json:"content"`
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolName   string `json:"tool_name,omitempty"`
}

// ToolCall — запрошенный моделью вызов инструмента.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Completion — ответ модели: текст и/или запросы инструментов.
type Completion struct {
	Text      string     `json:"text"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Request — один запрос к модели: системный промпт и история диалога.
type Request struct {
	System   string    `json:"system"`
	Messages []Message `json:"messages"`
}

// LLM — непрозрачный интерфейс языковой модели. Консоль не знает ни
// провайдера, ни формата промптов: ей важны только текст ответа и
// структурированные запросы инструментов.
type LLM interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}
