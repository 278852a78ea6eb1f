package agent

import (
	"context"
	"fmt"
	"sort"
)

// ToolFunc — один инструмент агента. Ошибка не прерывает диалог:
// цикл агента превращает ее в структурированный ответ модели.
type ToolFunc func(ctx context.Context, args map[string]any) (any, error)

// Registry — реестр инструментов по имени. Заполняется один раз при
// сборке приложения, после этого только читается.
type Registry struct {
	tools map[string]ToolFunc
}

func NewRegistry() *Registry {
	return &Registry{tools: map[string]ToolFunc{}}
}

func (r *Registry) Register(name string, fn ToolFunc) {
	r.tools[name] = fn
}

// Call выполняет инструмент по имени. Неизвестное имя — ошибка вызова,
// а не паника: модель может запросить несуществующий инструмент.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	fn, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	return fn(ctx, args)
}

// Names — отсортированный список зарегистрированных инструментов.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
