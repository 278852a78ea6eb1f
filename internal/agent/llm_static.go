package agent

import "context"

// StaticLLM — заглушка модели: всегда отвечает одним и тем же текстом,
// инструментов не запрашивает. Используется, пока реальный провайдер
// модели не подключен, и в dev-окружениях.
type StaticLLM struct {
	Text string
}

func (s StaticLLM) Complete(ctx context.Context, req Request) (*Completion, error) {
	return &Completion{Text: s.Text}, nil
}
