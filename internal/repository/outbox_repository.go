package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/domain"
)

type eventOutbox struct {
	db *sqlx.DB
}

// NewEventOutbox returns the publisher side of the Postgres event outbox.
func NewEventOutbox(db *sqlx.DB) EventOutbox {
	return &eventOutbox{db: db}
}

// insertEvents writes drained events as unpublished outbox rows inside the
// caller's transaction.
func insertEvents(ctx context.Context, tx *sqlx.Tx, contractID int64, events []domain.Event) error {
	query := `
		INSERT INTO domain_events (event_id, contract_id, event_type, payload, occurred_at, published)
		VALUES ($1, $2, $3, $4, $5, false)
	`
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query,
			event.EventID(),
			contractID,
			event.EventType(),
			payload,
			event.OccurredOn(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (o *eventOutbox) FetchUnpublished(ctx context.Context, limit int) ([]*StoredEvent, error) {
	var rows []*StoredEvent
	err := o.db.SelectContext(ctx, &rows, `
		SELECT event_id, contract_id, event_type, payload, occurred_at
		FROM domain_events
		WHERE published = false
		ORDER BY occurred_at, event_id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (o *eventOutbox) CountEventsByType(ctx context.Context, eventType string, from, to time.Time) (int64, error) {
	var count int64
	err := o.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM domain_events
		WHERE event_type = $1 AND occurred_at >= $2 AND occurred_at < $3
	`, eventType, from, to)
	return count, err
}

func (o *eventOutbox) MarkPublished(ctx context.Context, eventIDs []string) error {
	if len(eventIDs) == 0 {
		return nil
	}
	_, err := o.db.ExecContext(ctx, `
		UPDATE domain_events
		SET published = true, published_at = NOW()
		WHERE event_id = ANY($1)
	`, pq.Array(eventIDs))
	return err
}
