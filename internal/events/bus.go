package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ytget/ytdown/internal/model"
)

var (
	ErrAlreadySubscribed = errors.New("handler already registered for event kind")
	ErrBusStarted        = errors.New("event bus already dispatching")
	ErrNilHandler        = errors.New("nil event handler")
)

// Bus relays job events from the coordinator to a single subscriber.
// Publish never blocks; one dispatcher goroutine calls the handlers in
// publish order.
type Bus struct {
	logger zerolog.Logger

	mu       sync.Mutex
	handlers map[model.EventKind]func(model.JobEvent)
	pending  []model.JobEvent
	started  bool
	closed   bool

	ready chan struct{}
	done  chan struct{}
}

// NewBus creates a bus with no handlers
func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		logger:   logger.With().Str("component", "events").Logger(),
		handlers: make(map[model.EventKind]func(model.JobEvent)),
		ready:    make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// OnTitleResolved registers the title handler
func (b *Bus) OnTitleResolved(fn func(url, title string)) error {
	if fn == nil {
		return ErrNilHandler
	}
	return b.subscribe(model.KindTitleResolved, func(ev model.JobEvent) {
		e := ev.(model.TitleResolved)
		fn(e.URL, e.Title)
	})
}

// OnProgress registers the progress handler
func (b *Bus) OnProgress(fn func(url string, percent int)) error {
	if fn == nil {
		return ErrNilHandler
	}
	return b.subscribe(model.KindProgress, func(ev model.JobEvent) {
		e := ev.(model.Progress)
		fn(e.URL, e.Percent)
	})
}

// OnStatus registers the status handler
func (b *Bus) OnStatus(fn func(url, message string)) error {
	if fn == nil {
		return ErrNilHandler
	}
	return b.subscribe(model.KindStatusChanged, func(ev model.JobEvent) {
		e := ev.(model.StatusChanged)
		fn(e.URL, e.Message)
	})
}

// OnFinished registers the completion handler
func (b *Bus) OnFinished(fn func(url, filePath string)) error {
	if fn == nil {
		return ErrNilHandler
	}
	return b.subscribe(model.KindFinished, func(ev model.JobEvent) {
		e := ev.(model.Finished)
		fn(e.URL, e.FilePath)
	})
}

// Subscribe registers fn for every event kind not yet handled. Used by
// subscribers that forward events as values, like the terminal UI.
func (b *Bus) Subscribe(fn func(model.JobEvent)) error {
	if fn == nil {
		return ErrNilHandler
	}
	kinds := []model.EventKind{
		model.KindTitleResolved,
		model.KindProgress,
		model.KindStatusChanged,
		model.KindFinished,
	}
	for _, kind := range kinds {
		if err := b.subscribe(kind, fn); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bus) subscribe(kind model.EventKind, fn func(model.JobEvent)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return ErrBusStarted
	}
	if _, ok := b.handlers[kind]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadySubscribed, kind)
	}
	b.handlers[kind] = fn
	return nil
}

// Publish queues ev for dispatch. Safe for concurrent use; events
// published after Close are dropped.
func (b *Bus) Publish(ev model.JobEvent) {
	if ev == nil {
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.logger.Debug().Str("url", ev.JobURL()).Stringer("kind", ev.Kind()).Msg("dropping event after close")
		return
	}
	b.pending = append(b.pending, ev)
	b.mu.Unlock()

	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// Close stops accepting events. The dispatcher delivers what is already
// queued and then Run returns.
func (b *Bus) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// Done is closed when the dispatcher has returned
func (b *Bus) Done() <-chan struct{} {
	return b.done
}

// Start runs the dispatcher in its own goroutine
func (b *Bus) Start(ctx context.Context) error {
	if err := b.markStarted(); err != nil {
		return err
	}
	go func() {
		if err := b.dispatch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			b.logger.Error().Err(err).Msg("event dispatcher stopped")
		}
	}()
	return nil
}

// Run dispatches events until Close is called (nil) or ctx is done
// (ctx.Err()). Handler registration is frozen once Run starts.
func (b *Bus) Run(ctx context.Context) error {
	if err := b.markStarted(); err != nil {
		return err
	}
	return b.dispatch(ctx)
}

func (b *Bus) markStarted() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return ErrBusStarted
	}
	b.started = true
	return nil
}

func (b *Bus) dispatch(ctx context.Context) error {
	defer close(b.done)

	for {
		b.mu.Lock()
		batch := b.pending
		b.pending = nil
		closed := b.closed
		b.mu.Unlock()

		for _, ev := range batch {
			b.deliver(ev)
		}
		if len(batch) > 0 {
			continue
		}
		if closed {
			return nil
		}

		select {
		case <-b.ready:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// deliver calls the handler for ev. A panicking handler is logged and
// does not stop dispatch.
func (b *Bus) deliver(ev model.JobEvent) {
	fn := b.handlers[ev.Kind()]
	if fn == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("url", ev.JobURL()).
				Stringer("kind", ev.Kind()).
				Interface("panic", r).
				Msg("event handler panicked")
		}
	}()
	fn(ev)
}
