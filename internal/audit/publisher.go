package audit

import (
	"context"
	"log/slog"
	"time"

	"certifi/internal/platform/metrics"
	"certifi/pkg/requestcontext"
)

const defaultQueueSize = 256

// Publisher buffers audit events for a background Worker. Emit never
// blocks the request path: when the queue is full the event is dropped
// and counted.
type Publisher struct {
	queue   chan Event
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewPublisher(logger *slog.Logger, m *metrics.Metrics) *Publisher {
	return &Publisher{
		queue:   make(chan Event, defaultQueueSize),
		logger:  logger,
		metrics: m,
	}
}

// Emit queues an audit event, stamping it with the request time when
// the caller did not.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.DocumentID == "" {
		event.DocumentID = requestcontext.DocumentID(ctx)
	}

	select {
	case p.queue <- event:
	default:
		if p.metrics != nil {
			p.metrics.AuditEventsDropped.Inc()
		}
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit queue full, event dropped",
				"action", event.Action, "record_id", event.RecordID)
		}
	}
}

// Queue exposes the consumer side for the Worker.
func (p *Publisher) Queue() <-chan Event {
	return p.queue
}

// Worker drains a Publisher queue into a Store until ctx is cancelled,
// then flushes whatever is still buffered.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.append(ctx, event)
		}
	}
}

func (w *Worker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case event := <-w.inbox:
			w.append(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) append(ctx context.Context, event Event) {
	if err := w.store.Append(ctx, event); err != nil && w.logger != nil {
		w.logger.ErrorContext(ctx, "audit append failed",
			"action", event.Action, "record_id", event.RecordID, "error", err)
	}
}
