package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certifi/internal/platform/metrics"
	"certifi/pkg/requestcontext"
)

func newTestPublisher(m *metrics.Metrics) *Publisher {
	return NewPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)), m)
}

func Test_Publisher_StampsRequestTime(t *testing.T) {
	pub := newTestPublisher(nil)
	at := time.Date(2026, time.April, 2, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), at)

	pub.Emit(ctx, Event{Action: ActionProcessed, RecordID: "rec-1"})

	got := <-pub.Queue()
	assert.Equal(t, at, got.Timestamp)
	assert.Equal(t, ActionProcessed, got.Action)
}

func Test_Publisher_DropsWhenQueueFull(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWith(reg)
	pub := newTestPublisher(m)

	for range defaultQueueSize + 3 {
		pub.Emit(context.Background(), Event{Action: ActionProcessed})
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(m.AuditEventsDropped))
	assert.Len(t, pub.Queue(), defaultQueueSize)
}

func Test_Worker_DrainsQueueIntoStore(t *testing.T) {
	pub := newTestPublisher(nil)
	store := NewMemoryStore()
	worker := NewWorker(store, pub.Queue(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	pub.Emit(ctx, Event{Action: ActionProcessed, RecordID: "rec-1"})
	pub.Emit(ctx, Event{Action: ActionDuplicate, RecordID: "rec-2"})

	require.Eventually(t, func() bool {
		return len(store.Events()) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	events := store.Events()
	assert.Equal(t, ActionProcessed, events[0].Action)
	assert.Equal(t, "rec-2", events[1].RecordID)
}

func Test_Worker_FlushesBufferedEventsOnShutdown(t *testing.T) {
	pub := newTestPublisher(nil)
	store := NewMemoryStore()
	worker := NewWorker(store, pub.Queue(), nil)

	pub.Emit(context.Background(), Event{Action: ActionProcessed, RecordID: "rec-1"})
	pub.Emit(context.Background(), Event{Action: ActionProcessed, RecordID: "rec-2"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, worker.Run(ctx), context.Canceled)

	assert.Len(t, store.Events(), 2)
}
