package kafka

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// OutboxStatus is the delivery state of a queued event.
type OutboxStatus string

const (
	OutboxPending   OutboxStatus = "pending"
	OutboxPublished OutboxStatus = "published"
	OutboxFailed    OutboxStatus = "failed"
)

// OutboxEvent is a row in leave_outbox. Decisions write their event here in
// the same transaction as the status change; the producer worker drains the
// table to the broker. PartitionKey is the employee id, so one employee's
// decisions stay ordered on a single partition.
type OutboxEvent struct {
	ID           string
	RequestID    string
	EventType    string
	Topic        string
	PartitionKey string
	Payload      []byte
	Status       OutboxStatus
	Attempts     int
	NotBefore    time.Time
}

// Validate rejects an event that could never be delivered.
func (e OutboxEvent) Validate() error {
	if e.ID == "" {
		return errors.New("outbox id is required")
	}
	if e.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if e.PartitionKey == "" {
		return errors.New("outbox partition key is required")
	}
	if len(e.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	switch e.Status {
	case OutboxPending, OutboxPublished, OutboxFailed:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", e.Status)
	}
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListDue(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkPublished(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
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

type dbtx interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}

func (r *outboxRepository) conn() dbtx {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	const query = `
INSERT INTO leave_outbox (id, request_id, event_type, topic, partition_key, payload, status, not_before)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
`
	_, err := r.conn().ExecContext(ctx, query,
		event.ID, event.RequestID, event.EventType,
		event.Topic, event.PartitionKey, event.Payload, event.Status,
	)
	return err
}

// ListDue returns undelivered events whose backoff window has passed, oldest
// first.
func (r *outboxRepository) ListDue(ctx context.Context, limit int) ([]OutboxEvent, error) {
	const query = `
SELECT id::text, request_id, event_type, topic, partition_key, payload, status, attempts, not_before
FROM leave_outbox
WHERE status <> $1 AND not_before <= NOW()
ORDER BY created_at
LIMIT $2
`
	rows, err := r.conn().QueryContext(ctx, query, OutboxPublished, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]OutboxEvent, 0, limit)
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(
			&e.ID, &e.RequestID, &e.EventType, &e.Topic,
			&e.PartitionKey, &e.Payload, &e.Status, &e.Attempts, &e.NotBefore,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *outboxRepository) MarkPublished(ctx context.Context, id string) error {
	const query = `
UPDATE leave_outbox
SET status = $2, published_at = NOW(), last_error = NULL
WHERE id = $1
`
	_, err := r.conn().ExecContext(ctx, query, id, OutboxPublished)
	return err
}

// MarkFailed schedules a retry with exponential backoff: 1s doubling per
// attempt, capped at 5 minutes so a poison event cannot flood the broker.
func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	const query = `
UPDATE leave_outbox
SET status = $2,
	attempts = attempts + 1,
	last_error = LEFT($3, 500),
	not_before = NOW() + LEAST(POWER(2, attempts), 300) * INTERVAL '1 second'
WHERE id = $1
`
	_, err := r.conn().ExecContext(ctx, query, id, OutboxFailed, reason)
	return err
}
