package consumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type HandlerFunc func(ctx context.Context, msg kafkago.Message) error

var errUndecodable = errors.New("undecodable message")

func undecodable(err error) error {
	return fmt.Errorf("%w: %v", errUndecodable, err)
}

// Pause between attempts after a fetch or handler failure.
var retryBackoff = time.Second

// Handler attempts per message before it is dropped.
const maxHandleAttempts = 3

// wait sleeps for d and reports false if ctx ended first.
func wait(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Consume runs handle for every fetched message until ctx is cancelled.
// A failing handler is retried up to maxHandleAttempts times. After that
// the message is logged and committed, so it is dropped: kafka offsets are
// positional and a later commit would skip it anyway. Undecodable messages
// are committed and skipped straight away.
func Consume(ctx context.Context, reader MessageReader, name string, handle HandlerFunc, logger *zap.Logger) {
	log := logger.Named("kafka.consumer." + name)
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			if !wait(ctx, retryBackoff) {
				log.Info("consumer stopped")
				return
			}
			continue
		}

		if err := handleWithRetry(ctx, msg, handle, log); err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped", zap.Int64("uncommitted_offset", msg.Offset))
				return
			}
			if errors.Is(err, errUndecodable) {
				log.Error("decode message failed, skipping", zap.Int64("offset", msg.Offset), zap.Error(err))
			} else {
				log.Error("handle message failed, dropping",
					zap.Int64("offset", msg.Offset),
					zap.String("key", string(msg.Key)),
					zap.Int("attempts", maxHandleAttempts),
					zap.Error(err),
				)
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

func handleWithRetry(ctx context.Context, msg kafkago.Message, handle HandlerFunc, log *zap.Logger) error {
	var err error
	for attempt := 1; attempt <= maxHandleAttempts; attempt++ {
		if err = handle(ctx, msg); err == nil || errors.Is(err, errUndecodable) {
			return err
		}
		if attempt == maxHandleAttempts {
			break
		}
		log.Warn("handle message failed, retrying",
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if !wait(ctx, retryBackoff) {
			return ctx.Err()
		}
	}
	return err
}
