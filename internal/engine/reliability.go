package engine

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/dextro-platform/fleet-console/internal/infra"
	"github.com/dextro-platform/fleet-console/internal/store"
)

// Reliability оборачивает операции хранилища в Rate Limiter и Circuit Breaker.
// Отказы предохранителя не меняют правил классификации: Classify сочтет
// их transient, и Executor спишет попытку из общего бюджета.
type Reliability struct {
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

func NewReliability(cfg infra.EngineConfig, metrics *Metrics) *Reliability {
	// Настройка предохранителя
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "store-transport",
		MaxRequests: cfg.CBMaxRequests,
		Interval:    cfg.CBInterval,
		Timeout:     cfg.CBTimeout, // Время, через которое CB попробует "закрыться"
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Если более 5 ошибок подряд — открываемся (блокируем трафик)
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if metrics == nil {
				return
			}
			if to == gobreaker.StateOpen {
				metrics.CircuitBreakerState.Set(1)
			} else {
				metrics.CircuitBreakerState.Set(0)
			}
		},
	})

	limit := rate.Limit(cfg.RateLimit)
	if limit <= 0 {
		limit = rate.Limit(100)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 20
	}

	return &Reliability{
		cb:      cb,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Wrap возвращает операцию, проходящую через лимитер и предохранитель.
func (w *Reliability) Wrap(op Operation) Operation {
	return func(ctx context.Context) (*store.Result, error) {
		// 1. Rate Limiter
		if err := w.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit exceeded: %w", err)
		}

		// 2. Circuit Breaker
		cbResult, err := w.cb.Execute(func() (interface{}, error) {
			return op(ctx)
		})
		if err != nil {
			return nil, err
		}
		res, _ := cbResult.(*store.Result)
		return res, nil
	}
}

// Provider оборачивает каждый метод провайдера данных в Wrap, не меняя
// его поверхности. Сервисный слой получает защищенный провайдер и о
// предохранителе не знает.
func (w *Reliability) Provider(inner store.Provider) store.Provider {
	return &guardedProvider{inner: inner, rel: w}
}

type guardedProvider struct {
	inner store.Provider
	rel   *Reliability
}

func (g *guardedProvider) RPC(ctx context.Context, name string, params map[string]any) (*store.Result, error) {
	return g.rel.Wrap(func(ctx context.Context) (*store.Result, error) {
		return g.inner.RPC(ctx, name, params)
	})(ctx)
}

func (g *guardedProvider) DeviceLogs(ctx context.Context, q store.LogQuery) (*store.Result, error) {
	return g.rel.Wrap(func(ctx context.Context) (*store.Result, error) {
		return g.inner.DeviceLogs(ctx, q)
	})(ctx)
}

func (g *guardedProvider) CustomerByDevice(ctx context.Context, deviceID string) (*store.Result, error) {
	return g.rel.Wrap(func(ctx context.Context) (*store.Result, error) {
		return g.inner.CustomerByDevice(ctx, deviceID)
	})(ctx)
}

func (g *guardedProvider) Ping(ctx context.Context) error {
	if !g.rel.Healthy() {
		return fmt.Errorf("store circuit breaker is open")
	}
	return g.inner.Ping(ctx)
}

// Healthy сообщает, пропускает ли предохранитель трафик (для /health).
func (w *Reliability) Healthy() bool {
	return w.cb.State() != gobreaker.StateOpen
}
