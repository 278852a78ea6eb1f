package audit

/*
Файл trail.go реализует журнал инвокаций инструментов — асинхронный
сборщик аудита диалогов с агентом.

Ключевые особенности архитектуры:
- Non-blocking Logging: события уходят в буферизованный канал, задержки
  записи в БД не влияют на время ответа чат-эндпоинта.
- Batching: накопление событий в памяти и пакетная запись (Bulk Insert)
  в PostgreSQL по таймеру или при достижении лимита пачки.
- Drain Pattern & Graceful Shutdown: при остановке канал закрывается,
  воркер вычитывает остатки и делает финальный flush — событья при
  перезапуске не теряются.
*/

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// StorageInterface определяет, куда физически будут сохраняться записи
type StorageInterface interface {
	// WriteBatch сохраняет пачку событий за один раз
	WriteBatch(ctx context.Context, events []Event) error
}

type Recorder interface {
	Record(event Event)
}

const defaultBufferSize = 10000

type Trail struct {
	ch         chan Event
	repo       StorageInterface
	logger     *zap.Logger
	bufferFill prometheus.Gauge // может быть nil
	flushEvery time.Duration
	wg         sync.WaitGroup
	// Защита от записи после остановки
	isClosed int32 // Атомарный флаг (0 - открыт, 1 - закрыт)
}

func NewTrail(repo StorageInterface, bufferSize int, flushEvery time.Duration, bufferFill prometheus.Gauge, logger *zap.Logger) *Trail {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	if flushEvery <= 0 {
		flushEvery = 500 * time.Millisecond
	}
	return &Trail{
		ch:         make(chan Event, bufferSize),
		repo:       repo,
		logger:     logger.With(zap.String("mod", "audit-trail")),
		bufferFill: bufferFill,
		flushEvery: flushEvery,
	}
}

func (t *Trail) Start() {
	t.wg.Add(1)
	go t.worker()
}

// Stop «запирает» вход в канал и ждет, пока воркер всё допишет.
func (t *Trail) Stop() {
	atomic.StoreInt32(&t.isClosed, 1)

	// Даем крошечную паузу, чтобы текущие Record успели проскочить
	time.Sleep(10 * time.Millisecond)

	t.logger.Info("stopping audit trail: closing channel and flushing buffer...")
	close(t.ch)
	t.wg.Wait()
	t.logger.Info("audit trail stopped gracefully")
}

func (t *Trail) Record(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if atomic.LoadInt32(&t.isClosed) == 1 {
		t.logger.Warn("audit event dropped: trail is stopping", zap.String("id", event.ID))
		return
	}

	// Load Shedding: при переполнении буфера событие уходит в обычный лог,
	// а не блокирует чат-эндпоинт
	select {
	case t.ch <- event:
		t.observeFill()
	default:
		t.logger.Error("audit_buffer_overflow",
			zap.String("tool", event.Tool),
			zap.String("trace_id", event.TraceID),
		)
	}
}

func (t *Trail) observeFill() {
	if t.bufferFill != nil {
		t.bufferFill.Set(float64(len(t.ch)))
	}
}

func (t *Trail) worker() {
	defer t.wg.Done()

	batch := make([]Event, 0, 100)
	ticker := time.NewTicker(t.flushEvery)
	defer ticker.Stop()

	flush := func() {
		if len(batch) > 0 {
			// Background: основной контекст на выходе уже может быть закрыт
			if err := t.repo.WriteBatch(context.Background(), batch); err != nil {
				t.logger.Error("audit flush failed", zap.Error(err))
			}
			batch = batch[:0]
		}
		t.observeFill()
	}

	for {
		select {
		case event, ok := <-t.ch:
			if !ok {
				// Канал закрыт в Stop(): воркер сначала вычитал остатки,
				// теперь финальный сброс и выход
				flush()
				t.logger.Info("audit worker finished")
				return
			}
			batch = append(batch, event)
			if len(batch) >= 100 {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
