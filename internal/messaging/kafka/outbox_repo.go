package kafka

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

const (
	outboxTable      = "outbox_events"
	outboxClaimLease = "60 seconds"

	// MaxOutboxRetries is how many failed publishes a row gets before it is
	// left in the failed state for manual inspection.
	MaxOutboxRetries = 10
)

type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
	CreatedAt     time.Time
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type outboxRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

func (r *outboxRepository) querier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if err := ValidateOutboxEvent(event); err != nil {
		return err
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(outboxTable).
		Columns("id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status").
		Values(event.ID, event.RequestID, event.AggregateType, event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.querier().ExecContext(ctx, query, args...)
	return err
}

// ListPending claims up to limit due rows and returns them. Claimed rows get
// next_retry_at pushed out by outboxClaimLease, so concurrent workers skip
// them until MarkSent or MarkFailed settles the row or the lease runs out.
// Rows that failed MaxOutboxRetries times are never claimed again.
func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	due, dueArgs, err := sq.Select("id").
		From(outboxTable).
		Where(sq.Eq{"status": []string{OutboxStatusPending, OutboxStatusFailed}}).
		Where(sq.Or{sq.Eq{"next_retry_at": nil}, sq.Expr("next_retry_at <= NOW()")}).
		Where(sq.Lt{"retry_count": MaxOutboxRetries}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, err
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(outboxTable).
		Set("next_retry_at", sq.Expr("NOW() + INTERVAL '"+outboxClaimLease+"'")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Expr("id IN ("+due+")", dueArgs...)).
		Suffix("RETURNING id, aggregate_type, aggregate_id, event_type, topic, payload, status, retry_count, next_retry_at, created_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.querier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]OutboxEvent, 0, limit)
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(
			&e.ID,
			&e.AggregateType,
			&e.AggregateID,
			&e.EventType,
			&e.Topic,
			&e.Payload,
			&e.Status,
			&e.RetryCount,
			&e.NextRetryAt,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// RETURNING has no order; publish oldest first.
	slices.SortStableFunc(events, func(a, b OutboxEvent) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return events, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(outboxTable).
		Set("status", OutboxStatusSent).
		Set("processed_at", sq.Expr("NOW()")).
		Set("error_message", nil).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.querier().ExecContext(ctx, query, args...)
	return err
}

// MarkFailed schedules a retry with a linear backoff capped at 150s.
func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(outboxTable).
		Set("status", OutboxStatusFailed).
		Set("retry_count", sq.Expr("retry_count + 1")).
		Set("error_message", sq.Expr("LEFT(?, 500)", reason)).
		Set("next_retry_at", sq.Expr("NOW() + (LEAST(retry_count + 1, 10) * INTERVAL '15 seconds')")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.querier().ExecContext(ctx, query, args...)
	return err
}

func ValidateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox id is required")
	}
	if event.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if len(event.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	switch event.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", event.Status)
	}
}
