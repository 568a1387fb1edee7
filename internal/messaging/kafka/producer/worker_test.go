package producer

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"platoon-pulse/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeOutbox hands out pending rows in batches and forgets what it handed out.
type fakeOutbox struct {
	pending  []kafka.OutboxEvent
	listErr  error
	lists    int
	sent     []string
	failed   map[string]string
	purgedAt []time.Time
}

func (f *fakeOutbox) WithTx(*sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(context.Context, kafka.OutboxEvent) error {
	return nil
}
func (f *fakeOutbox) ListPending(_ context.Context, limit int) ([]kafka.OutboxEvent, error) {
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	n := min(limit, len(f.pending))
	batch := f.pending[:n]
	f.pending = f.pending[n:]
	return batch, nil
}
func (f *fakeOutbox) MarkSent(_ context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}
func (f *fakeOutbox) MarkFailed(_ context.Context, id string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}
func (f *fakeOutbox) PurgeSent(_ context.Context, before time.Time) (int64, error) {
	f.purgedAt = append(f.purgedAt, before)
	return 3, nil
}

type fakeWriter struct {
	written []kafkago.Message
	failOn  string
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if string(m.Key) == w.failOn {
			return errors.New("broker unavailable")
		}
		w.written = append(w.written, m)
	}
	return nil
}

func TestWorker_Drain(t *testing.T) {
	repo := &fakeOutbox{pending: []kafka.OutboxEvent{
		{ID: "ev-1", AggregateID: "rec-1", EventType: "attendance_marked", Topic: "a", Payload: []byte("{}"), RequestID: "rid"},
		{ID: "ev-2", AggregateID: "rec-2", EventType: "attendance_marked", Topic: "a", Payload: []byte("{}")},
		{ID: "ev-3", AggregateID: "cad-1", EventType: "cadet_created", Topic: "c", Payload: []byte("{}")},
	}}
	writer := &fakeWriter{failOn: "rec-2"}
	w := NewWorker(repo, writer, Options{BatchSize: 2}, zap.NewNop())

	sent, failed, err := w.Drain(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 2, repo.lists)
	assert.Equal(t, []string{"ev-1", "ev-3"}, repo.sent)
	assert.Equal(t, "broker unavailable", repo.failed["ev-2"])

	first := writer.written[0]
	assert.Equal(t, "a", first.Topic)
	assert.Equal(t, "rec-1", string(first.Key))
	headers := map[string]string{}
	for _, h := range first.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, map[string]string{
		"outbox_id":      "ev-1",
		"event_type":     "attendance_marked",
		"aggregate_type": "",
		"request_id":     "rid",
	}, headers)
}

func TestWorker_DrainListError(t *testing.T) {
	w := NewWorker(&fakeOutbox{listErr: errors.New("db down")}, &fakeWriter{}, Options{}, zap.NewNop())
	_, _, err := w.Drain(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestWorker_PurgeIsThrottled(t *testing.T) {
	repo := &fakeOutbox{}
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	w := NewWorker(repo, &fakeWriter{}, Options{Retention: 24 * time.Hour}, zap.NewNop())
	w.now = func() time.Time { return now }

	w.purge(context.Background())
	w.purge(context.Background())
	assert.Equal(t, []time.Time{now.Add(-24 * time.Hour)}, repo.purgedAt)

	now = now.Add(2 * time.Hour)
	w.purge(context.Background())
	assert.Len(t, repo.purgedAt, 2)
}

func TestWorker_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewWorker(&fakeOutbox{}, &fakeWriter{}, Options{}, zap.NewNop()).Run(ctx)
		close(done)
	}()
	cancel()
	<-done
}
