// Package worker drains the transactional outbox into Kafka.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hrgate/pkg/platform/events/outbox"
)

// Publisher is the delivery side, satisfied by publisher.Kafka.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// Outbox is the fetch/mark surface, satisfied by outbox.Postgres and
// outbox.Memory.
type Outbox interface {
	FetchUnpublished(ctx context.Context, limit int) ([]outbox.Entry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

// Worker polls the outbox and publishes pending entries in order. Entries
// are marked published only after delivery succeeds, so consumers get
// at-least-once semantics and must deduplicate on event id.
type Worker struct {
	outbox    Outbox
	publisher Publisher
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

func NewWorker(ob Outbox, pub Publisher, logger *slog.Logger, interval time.Duration, batchSize int) *Worker {
	if interval <= 0 {
		interval = time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Worker{outbox: ob, publisher: pub, logger: logger, interval: interval, batchSize: batchSize}
}

// Run drains until ctx is cancelled. Errors are logged and retried on the
// next tick rather than stopping the loop; a broker outage must not take
// the API down with it.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drain(ctx); err != nil && ctx.Err() == nil {
				w.logger.ErrorContext(ctx, "outbox drain failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (w *Worker) drain(ctx context.Context) error {
	for {
		entries, err := w.outbox.FetchUnpublished(ctx, w.batchSize)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		published := make([]uuid.UUID, 0, len(entries))
		for _, e := range entries {
			if err := w.publisher.Publish(ctx, e.Key, e.Payload); err != nil {
				// Stop at the first failure to preserve per-key ordering.
				if markErr := w.outbox.MarkPublished(ctx, published); markErr != nil {
					return markErr
				}
				return err
			}
			published = append(published, e.ID)
		}
		if err := w.outbox.MarkPublished(ctx, published); err != nil {
			return err
		}
		if len(entries) < w.batchSize {
			return nil
		}
	}
}
