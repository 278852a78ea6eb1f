package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v5"
	"go.uber.org/zap"

	"github.com/dextro-platform/fleet-console/internal/infra"
	"github.com/dextro-platform/fleet-console/internal/store"
)

// Operation — отложенный вызов одной операции чтения/RPC. По контракту
// идемпотентен: повтор обязан быть безопасным.
type Operation func(ctx context.Context) (*store.Result, error)

// Executor — слой надежного доступа к данным. Выполняет операцию,
// классифицирует отказы единым классификатором и ретраит только
// мгновенные сбои. Наружу всегда выходит Outcome, ошибки не пробрасываются.
type Executor struct {
	maxAttempts uint
	callTimeout time.Duration
	metrics     *Metrics
	logger      *zap.Logger
}

func NewExecutor(cfg infra.EngineConfig, metrics *Metrics, logger *zap.Logger) *Executor {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Executor{
		maxAttempts: uint(attempts),
		callTimeout: timeout,
		metrics:     metrics,
		logger:      logger.Named("executor"),
	}
}

type execOptions struct {
	maxAttempts uint
}

type ExecOption func(*execOptions)

// WithMaxAttempts перекрывает бюджет попыток для одной операции.
func WithMaxAttempts(n uint) ExecOption {
	return func(o *execOptions) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// Execute выполняет операцию с ограниченным ретраем.
// Правила классификации:
//   - непустой ответ → Success;
//   - явное "нет строк"/not found → Empty сразу, без ретрая;
//   - permission denied → Failed(permission), без ретрая;
//   - все прочее → transient, ретраим до исчерпания бюджета,
//     затем Failed(fatal, "operation failed after N attempts: ...").
func (e *Executor) Execute(ctx context.Context, name string, op Operation, opts ...ExecOption) (out Outcome) {
	options := execOptions{maxAttempts: e.maxAttempts}
	for _, apply := range opts {
		apply(&options)
	}

	e.metrics.OperationsTotal.WithLabelValues(name).Inc()
	start := time.Now()
	defer func() {
		e.metrics.OperationDuration.WithLabelValues(name, string(out.Status)).Observe(time.Since(start).Seconds())
		if out.IsFailed() {
			e.metrics.FailuresTotal.WithLabelValues(string(out.Kind)).Inc()
		}
	}()

	var res *store.Result
	attempts := 0

	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(options.maxAttempts),
		retry.LastErrorOnly(true),
		// Единый классификатор решает, имеет ли смысл повтор.
		// Структурированные и произвольные ошибки делят один счетчик попыток.
		retry.RetryIf(func(err error) bool {
			return Classify(err) == KindTransient
		}),
	)

	err := r.Do(func() error {
		attempts++
		e.metrics.AttemptsTotal.WithLabelValues(name).Inc()

		callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
		defer cancel()

		var callErr error
		res, callErr = op(callCtx)
		return callErr
	})

	if err == nil {
		if res == nil || len(res.Data) == 0 {
			e.logger.Debug("operation returned no rows", zap.String("operation", name))
			return Empty()
		}
		return Success(res.Data)
	}

	switch Classify(err) {
	case KindNotFound:
		e.logger.Debug("no data found for operation",
			zap.String("operation", name))
		return Empty()
	case KindPermission:
		e.logger.Warn("permission denied by remote store",
			zap.String("operation", name),
			zap.Error(err))
		return Failed(KindPermission, "insufficient permissions to access this data")
	default:
		e.logger.Error("operation failed after retries",
			zap.String("operation", name),
			zap.Int("attempts", attempts),
			zap.Error(err))
		return Failed(KindFatal, fmt.Sprintf("operation failed after %d attempts: %v", attempts, err))
	}
}
