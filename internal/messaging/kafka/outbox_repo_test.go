package kafka_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"go-vacation/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestOutboxRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	event := kafka.OutboxEvent{
		ID:            "3b1f7c1e-8a7e-4c3e-9f0e-6b1c2d3e4f50",
		RequestID:     "req-1",
		AggregateType: "department",
		AggregateID:   "12",
		EventType:     "roster.position_assigned",
		Topic:         "hr.org.roster.v1",
		Payload:       []byte(`{"event_type":"roster.position_assigned"}`),
		Status:        kafka.OutboxStatusPending,
	}

	t.Run("inside transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events (id,request_id,aggregate_type,aggregate_id,event_type,topic,payload,status)")).
			WithArgs(event.ID, event.RequestID, event.AggregateType, event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.Begin()
		assert.NoError(t, err)

		err = kafka.NewOutboxRepository(db).WithTx(tx).Create(context.Background(), event)
		assert.NoError(t, err)
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid event never reaches the database", func(t *testing.T) {
		bad := event
		bad.Payload = nil

		err := kafka.NewOutboxRepository(db).Create(context.Background(), bad)

		assert.EqualError(t, err, "outbox payload is required")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	leaseUntil := time.Date(2026, 3, 1, 10, 1, 0, 0, time.UTC)
	older := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	newer := older.Add(time.Minute)
	rows := sqlmock.NewRows([]string{
		"id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count", "next_retry_at", "created_at",
	}).
		AddRow("evt-2", "department", "4", "roster.position_unassigned", "hr.org.roster.v1", []byte(`{}`), "failed", 2, leaseUntil, newer).
		AddRow("evt-1", "department", "4", "roster.position_assigned", "hr.org.roster.v1", []byte(`{}`), "pending", 0, leaseUntil, older)

	mock.ExpectQuery(regexp.QuoteMeta(
		"UPDATE outbox_events SET next_retry_at = NOW() + INTERVAL '60 seconds', updated_at = NOW() " +
			"WHERE id IN (SELECT id FROM outbox_events WHERE status IN ($1,$2) " +
			"AND (next_retry_at IS NULL OR next_retry_at <= NOW()) AND retry_count < $3 " +
			"ORDER BY created_at ASC LIMIT 50 FOR UPDATE SKIP LOCKED) RETURNING id,",
	)).
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, kafka.MaxOutboxRetries).
		WillReturnRows(rows)

	events, err := kafka.NewOutboxRepository(db).ListPending(context.Background(), 50)

	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, "evt-2", events[1].ID)
	assert.Equal(t, 2, events[1].RetryCount)
	assert.True(t, leaseUntil.Equal(events[0].NextRetryAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_Mark(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox_events SET status = $1")).
		WithArgs(kafka.OutboxStatusSent, nil, "evt-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.MarkSent(context.Background(), "evt-1"))

	mock.ExpectExec(regexp.QuoteMeta("retry_count = retry_count + 1, error_message = LEFT($2, 500)")).
		WithArgs(kafka.OutboxStatusFailed, "broker down", "evt-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.MarkFailed(context.Background(), "evt-2", "broker down"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{ID: "x", Topic: "t", Payload: []byte("{}"), Status: kafka.OutboxStatusPending}
	assert.NoError(t, kafka.ValidateOutboxEvent(valid))

	noID := valid
	noID.ID = ""
	assert.EqualError(t, kafka.ValidateOutboxEvent(noID), "outbox id is required")

	badStatus := valid
	badStatus.Status = "queued"
	assert.EqualError(t, kafka.ValidateOutboxEvent(badStatus), "invalid outbox status: queued")
}
