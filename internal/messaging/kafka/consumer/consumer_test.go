package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"platoon-pulse/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeReader serves queued messages, then cancels the consumer context.
type fakeReader struct {
	mu        sync.Mutex
	fetchErrs []error
	messages  []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		return kafkago.Message{}, err
	}
	if len(r.messages) == 0 {
		r.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type fakeMedical struct {
	created map[string]bool
	err     error
}

func (f *fakeMedical) InitializeForCadet(_ context.Context, cadetID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.created == nil {
		f.created = map[string]bool{}
	}
	if f.created[cadetID] {
		return false, nil
	}
	f.created[cadetID] = true
	return true, nil
}

type fakeDashboards struct {
	invalidated []string
}

func (f *fakeDashboards) InvalidateForCadet(_ context.Context, cadetID string) error {
	f.invalidated = append(f.invalidated, cadetID)
	return nil
}

func encode(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	assert.NoError(t, err)
	return b
}

func init() {
	retryBackoff = time.Millisecond
}

func run(reader *fakeReader, handle HandlerFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	reader.cancel = cancel
	Consume(ctx, reader, "test", handle, zap.NewNop())
}

func TestConsume_CadetCreated(t *testing.T) {
	medical := &fakeMedical{}
	reader := &fakeReader{messages: []kafkago.Message{
		{Offset: 1, Value: encode(t, events.CadetCreatedEvent{EventType: "cadet_created", CadetID: "c-1"})},
		{Offset: 2, Value: encode(t, events.CadetCreatedEvent{EventType: "cadet_created", CadetID: "c-1"})},
		{Offset: 3, Value: []byte("not-json")},
	}}

	run(reader, CadetCreatedHandler(medical, zap.NewNop()))

	assert.True(t, medical.created["c-1"])
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
}

func TestConsume_HandlerFailure(t *testing.T) {
	t.Run("retried until it succeeds", func(t *testing.T) {
		calls := 0
		reader := &fakeReader{messages: []kafkago.Message{{Offset: 7}}}

		run(reader, func(context.Context, kafkago.Message) error {
			calls++
			if calls < maxHandleAttempts {
				return errors.New("db down")
			}
			return nil
		})

		assert.Equal(t, maxHandleAttempts, calls)
		assert.Equal(t, []int64{7}, reader.committed)
	})

	t.Run("dropped after the last attempt", func(t *testing.T) {
		medical := &fakeMedical{err: errors.New("db down")}
		reader := &fakeReader{messages: []kafkago.Message{
			{Offset: 7, Value: encode(t, events.CadetCreatedEvent{CadetID: "c-1"})},
			{Offset: 8, Value: encode(t, events.CadetCreatedEvent{CadetID: "c-2"})},
		}}

		run(reader, CadetCreatedHandler(medical, zap.NewNop()))

		assert.Equal(t, []int64{7, 8}, reader.committed)
	})

	t.Run("cancel during backoff leaves the message uncommitted", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{messages: []kafkago.Message{{Offset: 9}}, cancel: cancel}

		Consume(ctx, reader, "test", func(context.Context, kafkago.Message) error {
			cancel()
			return errors.New("db down")
		}, zap.NewNop())

		assert.Empty(t, reader.committed)
	})
}

func TestConsume_FetchErrorBacksOffAndContinues(t *testing.T) {
	dashboards := &fakeDashboards{}
	reader := &fakeReader{
		fetchErrs: []error{errors.New("broker unavailable")},
		messages: []kafkago.Message{
			{Offset: 4, Value: encode(t, events.AttendanceMarkedEvent{CadetID: "c-4", SessionID: "s-1", Mark: events.AttendanceMarkExit})},
		},
	}

	run(reader, AttendanceMarkedHandler(dashboards, zap.NewNop()))

	assert.Equal(t, []string{"c-4"}, dashboards.invalidated)
	assert.Equal(t, []int64{4}, reader.committed)
}

func TestConsume_AttendanceMarked(t *testing.T) {
	dashboards := &fakeDashboards{}
	reader := &fakeReader{messages: []kafkago.Message{
		{Offset: 1, Value: encode(t, events.AttendanceMarkedEvent{CadetID: "c-9", SessionID: "s-1", Mark: events.AttendanceMarkEntry})},
		{Offset: 2, Value: encode(t, events.AttendanceMarkedEvent{SessionID: "s-1"})},
	}}

	run(reader, AttendanceMarkedHandler(dashboards, zap.NewNop()))

	assert.Equal(t, []string{"c-9"}, dashboards.invalidated)
	assert.Equal(t, []int64{1, 2}, reader.committed)
}
