package notify

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/oculare/shop-backend/internal/domain/event"
	"go.uber.org/zap"
)

const handlerTimeout = 30 * time.Second

// Bus is an in-memory event bus decoupling notification dispatch from
// the request/response lifecycle. It is not durable: events in flight are
// lost on shutdown.
type Bus struct {
	mu        sync.RWMutex
	subs      map[string][]event.Handler
	queue     chan event.Event
	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	logger    *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		subs:   make(map[string][]event.Handler),
		queue:  make(chan event.Event, 256),
		logger: logger.With(zap.String("component", "notify_bus")),
	}
}

func (b *Bus) Subscribe(eventName string, h event.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventName] = append(b.subs[eventName], h)
}

func (b *Bus) Start(ctx context.Context) {
	b.startOnce.Do(func() {
		bg, cancel := context.WithCancel(ctx)
		b.cancel = cancel
		go b.dispatchLoop(bg)
		b.logger.Info("notify_bus_started")
	})
}

func (b *Bus) Stop(ctx context.Context) {
	_ = ctx
	b.stopOnce.Do(func() {
		if b.cancel != nil {
			b.cancel()
		}
		close(b.queue)
		b.logger.Info("notify_bus_stopped")
	})
}

func (b *Bus) Publish(ctx context.Context, e event.Event) error {
	if e == nil {
		return nil
	}
	select {
	case b.queue <- e:
		b.logger.Debug("event_enqueued", zap.String("event", e.EventName()))
		return nil
	case <-ctx.Done():
		b.logger.Warn("event_enqueue_aborted",
			zap.String("event", e.EventName()),
			zap.Error(ctx.Err()),
		)
		return ctx.Err()
	}
}

func (b *Bus) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-b.queue:
			if !ok {
				return
			}
			b.dispatch(ctx, e)
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, e event.Event) {
	name := e.EventName()

	b.mu.RLock()
	handlers := append([]event.Handler(nil), b.subs[name]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("event_dropped_no_subscriber", zap.String("event", name))
		return
	}

	for _, h := range handlers {
		b.run(context.WithoutCancel(ctx), name, h, e)
	}
}

func (b *Bus) run(ctx context.Context, name string, h event.Handler, e event.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event_handler_panic",
				zap.String("event", name),
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()

	if err := h(ctx, e); err != nil {
		b.logger.Warn("event_handler_error",
			zap.String("event", name),
			zap.Error(err),
		)
	}
}
