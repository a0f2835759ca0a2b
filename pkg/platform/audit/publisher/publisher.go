// Package publisher captures structured audit events. It is append-only and
// uses the storage layer for persistence so tests can swap sinks easily.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/audit"
)

type Publisher struct {
	store  audit.Store
	events chan audit.Event
	wg     sync.WaitGroup
	logger *slog.Logger
	async  bool
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithAsyncBuffer enables async processing with the specified buffer size.
// Events are queued and persisted in a background goroutine.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan audit.Event, size)
			p.async = true
		}
	}
}

// WithLogger sets a logger for async error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.processEvents()
	}
	return p
}

func (p *Publisher) processEvents() {
	defer p.wg.Done()
	for event := range p.events {
		if err := p.store.Append(context.Background(), event); err != nil {
			if p.logger != nil {
				p.logger.Error("failed to persist audit event",
					"error", err,
					"action", event.Action,
					"principal", event.Principal,
				)
			}
		}
	}
}

// Emit records one event. Missing ID and Timestamp are filled in here so
// emitters stay terse. In async mode a full buffer drops the event rather
// than blocking the hot path.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if !p.async {
		return p.store.Append(ctx, event)
	}

	select {
	case p.events <- event:
		return nil
	default:
		if p.logger != nil {
			p.logger.Warn("audit buffer full, dropping event", "action", event.Action)
		}
		return nil
	}
}

// Close drains the async queue and waits for the worker to finish.
func (p *Publisher) Close() {
	if p.async {
		close(p.events)
		p.wg.Wait()
	}
}
