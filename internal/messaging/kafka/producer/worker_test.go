package producer_test

import (
	"context"
	"errors"
	"testing"

	"go-vacation/internal/messaging/kafka"
	kafkaMock "go-vacation/internal/messaging/kafka/mock"
	"go-vacation/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	failKeys map[string]bool
	written  []kafkago.Message
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if w.failKeys[string(m.Key)] {
			return errors.New("leader not available")
		}
		w.written = append(w.written, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("sends and marks each row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{failKeys: map[string]bool{"9": true}}

		repo.EXPECT().ListPending(ctx, 50).Return([]kafka.OutboxEvent{
			{ID: "a", AggregateType: "department", AggregateID: "4", EventType: "roster.position_assigned", Topic: "hr.org.roster.v1", Payload: []byte(`{}`), RequestID: "req-7"},
			{ID: "b", AggregateType: "department", AggregateID: "9", EventType: "roster.position_unassigned", Topic: "hr.org.roster.v1", Payload: []byte(`{}`)},
		}, nil)
		repo.EXPECT().MarkSent(ctx, "a").Return(nil)
		repo.EXPECT().MarkFailed(ctx, "b", "leader not available").Return(nil)

		sent, err := producer.ProcessPendingEvents(ctx, repo, writer, zap.NewNop())

		assert.NoError(t, err)
		assert.Equal(t, 1, sent)
		assert.Len(t, writer.written, 1)
		msg := writer.written[0]
		assert.Equal(t, "hr.org.roster.v1", msg.Topic)
		assert.Equal(t, []byte("4"), msg.Key)
		assert.Equal(t, []kafkago.Header{
			{Key: "event_type", Value: []byte("roster.position_assigned")},
			{Key: "aggregate_type", Value: []byte("department")},
			{Key: "request_id", Value: []byte("req-7")},
		}, msg.Headers)
	})

	t.Run("nothing pending", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)

		repo.EXPECT().ListPending(ctx, 50).Return(nil, nil)

		sent, err := producer.ProcessPendingEvents(ctx, repo, &fakeWriter{}, zap.NewNop())

		assert.NoError(t, err)
		assert.Zero(t, sent)
	})

	t.Run("list error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)

		repo.EXPECT().ListPending(ctx, 50).Return(nil, errors.New("db down"))

		_, err := producer.ProcessPendingEvents(ctx, repo, &fakeWriter{}, zap.NewNop())

		assert.EqualError(t, err, "db down")
	})
}
