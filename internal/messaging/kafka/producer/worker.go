package producer

import (
	"context"
	"time"

	"platoon-pulse/internal/messaging/kafka"

	"go.uber.org/zap"
)

const (
	defaultPollInterval = 3 * time.Second
	defaultBatchSize    = 50
	defaultRetention    = 7 * 24 * time.Hour
	purgeEvery          = time.Hour
)

type Options struct {
	PollInterval time.Duration
	BatchSize    int
	// Retention is how long sent rows are kept before PurgeSent removes them.
	Retention time.Duration
}

// Worker relays outbox rows to kafka.
type Worker struct {
	repo       kafka.OutboxRepository
	writer     MessageWriter
	opts       Options
	log        *zap.Logger
	now        func() time.Time
	lastPurged time.Time
}

func NewWorker(repo kafka.OutboxRepository, writer MessageWriter, opts Options, logger *zap.Logger) *Worker {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.Retention <= 0 {
		opts.Retention = defaultRetention
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Worker{
		repo:   repo,
		writer: writer,
		opts:   opts,
		log:    logger.Named("kafka.producer.worker"),
		now:    time.Now,
	}
}

// Run drains the outbox on every tick until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	w.log.Info("outbox worker started",
		zap.Duration("poll_interval", w.opts.PollInterval),
		zap.Int("batch_size", w.opts.BatchSize),
	)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if _, _, err := w.Drain(ctx); err != nil && ctx.Err() == nil {
				w.log.Error("drain outbox failed", zap.Error(err))
			}
			w.purge(ctx)
		}
	}
}

// Drain publishes due rows batch by batch until a batch comes back short.
func (w *Worker) Drain(ctx context.Context) (sent, failed int, err error) {
	for ctx.Err() == nil {
		events, err := w.repo.ListPending(ctx, w.opts.BatchSize)
		if err != nil {
			return sent, failed, err
		}
		if len(events) == 0 {
			return sent, failed, nil
		}

		s, f := w.publish(ctx, events)
		sent += s
		failed += f

		if len(events) < w.opts.BatchSize {
			break
		}
	}
	return sent, failed, nil
}

func (w *Worker) publish(ctx context.Context, events []kafka.OutboxEvent) (sent, failed int) {
	for _, event := range events {
		log := w.log.With(
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)

		if err := w.writer.WriteMessages(ctx, toMessage(event)); err != nil {
			failed++
			log.Error("publish outbox event failed",
				zap.String("request_id", event.RequestID),
				zap.Int("attempt", event.RetryCount+1),
				zap.Error(err),
			)
			if event.RetryCount+1 >= kafka.MaxPublishAttempts {
				log.Warn("outbox event exhausted its attempts and is now dead")
			}
			if markErr := w.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				log.Error("mark outbox failed failed", zap.Error(markErr))
			}
			continue
		}

		if err := w.repo.MarkSent(ctx, event.ID); err != nil {
			log.Error("mark outbox sent failed", zap.Error(err))
			continue
		}
		sent++
		log.Debug("outbox event sent")
	}
	return sent, failed
}

func (w *Worker) purge(ctx context.Context) {
	now := w.now()
	if now.Sub(w.lastPurged) < purgeEvery {
		return
	}
	w.lastPurged = now

	n, err := w.repo.PurgeSent(ctx, now.Add(-w.opts.Retention))
	if err != nil {
		w.log.Warn("purge sent outbox rows failed", zap.Error(err))
		return
	}
	if n > 0 {
		w.log.Info("purged sent outbox rows", zap.Int64("count", n))
	}
}
