package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/dextro-platform/fleet-console/internal/audit"
)

// scriptedLLM отдает заранее заданные ответы по очереди.
type scriptedLLM struct {
	steps    []Completion
	requests []Request
}

func (s *scriptedLLM) Complete(ctx context.Context, req Request) (*Completion, error) {
	s.requests = append(s.requests, req)
	if len(s.steps) == 0 {
		return &Completion{Text: "done"}, nil
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	return &step, nil
}

type memRecorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (m *memRecorder) Record(e audit.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func TestAskPlainAnswer(t *testing.T) {
	llm := &scriptedLLM{steps: []Completion{{Text: "fleet is healthy"}}}
	a := New(llm, NewRegistry(), nil, "", 4, zap.NewNop())

	ans, err := a.Ask(context.Background(), "user-1", "how is the fleet?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if ans.Text != "fleet is healthy" {
		t.Fatalf("text = %q", ans.Text)
	}
	if len(ans.Invocations) != 0 {
		t.Fatalf("invocations = %d, want 0", len(ans.Invocations))
	}
}

func TestAskSequentialToolDispatch(t *testing.T) {
	var order []string
	reg := NewRegistry()
	reg.Register("first_tool", func(ctx context.Context, args map[string]any) (any, error) {
		order = append(order, "first_tool")
		return map[string]any{"value": 1}, nil
	})
	reg.Register("second_tool", func(ctx context.Context, args map[string]any) (any, error) {
		order = append(order, "second_tool")
		return map[string]any{"value": 2}, nil
	})

	llm := &scriptedLLM{steps: []Completion{
		{ToolCalls: []ToolCall{
			{ID: "c1", Name: "first_tool"},
			{ID: "c2", Name: "second_tool"},
		}},
		{Text: "combined answer"},
	}}

	rec := &memRecorder{}
	a := New(llm, reg, rec, "system prompt", 4, zap.NewNop())

	ans, err := a.Ask(context.Background(), "user-1", "question")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if ans.Text != "combined answer" {
		t.Fatalf("text = %q", ans.Text)
	}

	if len(order) != 2 || order[0] != "first_tool" || order[1] != "second_tool" {
		t.Fatalf("dispatch order = %v", order)
	}
	if len(ans.Invocations) != 2 {
		t.Fatalf("invocations = %d, want 2", len(ans.Invocations))
	}
	if ans.Invocations[0].Tool != "first_tool" || ans.Invocations[1].Tool != "second_tool" {
		t.Fatalf("invocation tools = %+v", ans.Invocations)
	}

	// Результаты инструментов ушли второй репликой модели
	second := llm.requests[1]
	toolMsgs := 0
	for _, m := range second.Messages {
		if m.Role == RoleTool {
			toolMsgs++
		}
	}
	if toolMsgs != 2 {
		t.Fatalf("tool messages in second request = %d, want 2", toolMsgs)
	}

	// Аудит получил обе инвокации с общим trace_id
	if len(rec.events) != 2 {
		t.Fatalf("audit events = %d, want 2", len(rec.events))
	}
	if rec.events[0].TraceID != rec.events[1].TraceID {
		t.Fatal("trace ids differ between invocations of one dialog")
	}
	if rec.events[0].Status != "SUCCESS" {
		t.Fatalf("audit status = %q", rec.events[0].Status)
	}
}

func TestAskToolFailureFeedsBack(t *testing.T) {
	reg := NewRegistry()
	reg.Register("flaky_tool", func(ctx context.Context, args map[string]any) (any, error) {
		return nil, errors.New("store unreachable")
	})

	llm := &scriptedLLM{steps: []Completion{
		{ToolCalls: []ToolCall{{ID: "c1", Name: "flaky_tool"}}},
		{Text: "I could not fetch the data"},
	}}

	rec := &memRecorder{}
	a := New(llm, reg, rec, "", 4, zap.NewNop())

	ans, err := a.Ask(context.Background(), "user-1", "question")
	if err != nil {
		t.Fatalf("ask must not fail on tool error: %v", err)
	}
	if ans.Text != "I could not fetch the data" {
		t.Fatalf("text = %q", ans.Text)
	}
	if ans.Invocations[0].Error == "" {
		t.Fatal("invocation error missing")
	}

	// Модель получила структурированный payload об ошибке
	var toolPayload string
	for _, m := range llm.requests[1].Messages {
		if m.Role == RoleTool {
			toolPayload = m.Content
		}
	}
	if !strings.Contains(toolPayload, `"success":false`) || !strings.Contains(toolPayload, "store unreachable") {
		t.Fatalf("tool payload = %q", toolPayload)
	}
	if rec.events[0].Status != "FAILED" {
		t.Fatalf("audit status = %q", rec.events[0].Status)
	}
}

func TestAskUnknownToolDoesNotAbort(t *testing.T) {
	llm := &scriptedLLM{steps: []Completion{
		{ToolCalls: []ToolCall{{ID: "c1", Name: "no_such_tool"}}},
		{Text: "recovered"},
	}}
	a := New(llm, NewRegistry(), nil, "", 4, zap.NewNop())

	ans, err := a.Ask(context.Background(), "user-1", "question")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if ans.Text != "recovered" {
		t.Fatalf("text = %q", ans.Text)
	}
	if !strings.Contains(ans.Invocations[0].Error, "unknown tool") {
		t.Fatalf("invocation error = %q", ans.Invocations[0].Error)
	}
}

func TestAskTurnBudget(t *testing.T) {
	reg := NewRegistry()
	calls := 0
	reg.Register("looping_tool", func(ctx context.Context, args map[string]any) (any, error) {
		calls++
		return map[string]any{"ok": true}, nil
	})

	// Модель бесконечно просит инструмент; бюджет должен оборвать цикл
	llm := &scriptedLLM{steps: []Completion{
		{ToolCalls: []ToolCall{{ID: "1", Name: "looping_tool"}}},
		{ToolCalls: []ToolCall{{ID: "2", Name: "looping_tool"}}},
		{ToolCalls: []ToolCall{{ID: "3", Name: "looping_tool"}}},
		{ToolCalls: []ToolCall{{ID: "4", Name: "looping_tool"}}},
	}}
	a := New(llm, reg, nil, "", 2, zap.NewNop())

	ans, err := a.Ask(context.Background(), "user-1", "question")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if calls != 2 {
		t.Fatalf("tool calls = %d, want 2 (one per turn)", calls)
	}
	if ans.Text == "" {
		t.Fatal("budget exhaustion must still produce a text answer")
	}
}

func TestRegistryNames(t *testing.T) {
	reg := NewRegistry()
	reg.Register("b_tool", func(ctx context.Context, args map[string]any) (any, error) { return nil, nil })
	reg.Register("a_tool", func(ctx context.Context, args map[string]any) (any, error) { return nil, nil })

	names := reg.Names()
	if len(names) != 2 || names[0] != "a_tool" || names[1] != "b_tool" {
		t.Fatalf("names = %v", names)
	}
}
