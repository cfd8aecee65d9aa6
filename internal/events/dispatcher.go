package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

const defaultPublishTimeout = 5 * time.Second

// Publisher доставляет событие во внешний мир (брокер, лог)
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// MetricsRecorder счетчик опубликованных событий
type MetricsRecorder interface {
	RecordEvent(eventType string, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Dispatcher отправляет доменные события после коммита.
// Отправка fire-and-forget: ошибки логируются и считаются, но не возвращаются вызывающему
// и не откатывают изменение, которое породило событие.
// События публикует один воркер из общей очереди, порядок Emit сохраняется между вызовами.
type Dispatcher struct {
	publisher Publisher
	metrics   MetricsRecorder
	logger    Logger
	timeout   time.Duration

	mu      sync.Mutex
	queue   []domain.Event
	running bool
	wg      sync.WaitGroup
}

// NewDispatcher metrics может быть nil
func NewDispatcher(publisher Publisher, metrics MetricsRecorder, timeout time.Duration, logger Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &Dispatcher{
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		timeout:   timeout,
	}
}

// Emit ставит события в очередь и сразу возвращается.
// Контекст запроса не используется для отправки: отмена запроса не должна терять событие.
func (d *Dispatcher) Emit(_ context.Context, events ...domain.Event) {
	if len(events) == 0 {
		return
	}

	for i := range events {
		if events[i].ID == "" {
			events[i].ID = uuid.NewString()
		}
		if events[i].OccurredAt.IsZero() {
			events[i].OccurredAt = time.Now().UTC()
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, events...)
	if !d.running {
		d.running = true
		d.wg.Add(1)
		go d.drain()
	}
}

// Wait ждет отправки всех событий (graceful shutdown)
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// drain публикует события, пока очередь не опустеет
func (d *Dispatcher) drain() {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			d.running = false
			d.mu.Unlock()
			return
		}
		event := d.queue[0]
		d.queue[0] = domain.Event{}
		d.queue = d.queue[1:]
		d.mu.Unlock()

		d.publish(event)
	}
}

func (d *Dispatcher) publish(event domain.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("Events: publisher panicked on %s booking=%d: %v", event.Type, event.BookingID, p)
		}
	}()

	err := d.publisher.Publish(ctx, event)
	if d.metrics != nil {
		d.metrics.RecordEvent(string(event.Type), err)
	}
	if err != nil {
		d.logger.Error("Events: failed to publish %s id=%s booking=%d: %v", event.Type, event.ID, event.BookingID, err)
		return
	}
	d.logger.Info("Events: published %s id=%s booking=%d", event.Type, event.ID, event.BookingID)
}
