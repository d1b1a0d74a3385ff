package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"charges-hub/internal/eventing"
)

const (
	defaultOutboxTable = "event_outbox"
	defaultListLimit   = 50
)

// OutboxStore persists envelopes for asynchronous dispatch. Each record
// carries the sender and document ids alongside the serialized envelope so
// pending receipts can be queried per submission.
type OutboxStore struct {
	db    *sql.DB
	table string
}

// OutboxOption configures the outbox store.
type OutboxOption func(*OutboxStore)

// WithOutboxTable overrides the table name.
func WithOutboxTable(table string) OutboxOption {
	return func(s *OutboxStore) {
		if table != "" {
			s.table = table
		}
	}
}

// NewOutboxStore constructs an outbox store.
func NewOutboxStore(db *sql.DB, opts ...OutboxOption) *OutboxStore {
	s := &OutboxStore{db: db, table: defaultOutboxTable}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert writes the envelope as a pending record and returns the record id.
func (s *OutboxStore) Insert(ctx context.Context, env eventing.Envelope) (string, error) {
	if s == nil || s.db == nil {
		return "", errors.New("outbox store: nil db")
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	id := eventing.NewEventID()
	query := fmt.Sprintf(
		`INSERT INTO %s (id, event_id, event_type, sender_id, document_id, payload, status, attempts)
		 VALUES ($1, $2, $3, $4, $5, $6, 'pending', 0)
		 ON CONFLICT (id) DO NOTHING`,
		s.table,
	)
	if _, err := s.db.ExecContext(ctx, query,
		id, env.EventID, env.EventType, env.SenderID, env.DocumentID, payload); err != nil {
		return "", err
	}
	return id, nil
}

// ListPending returns up to limit pending records in insertion order.
func (s *OutboxStore) ListPending(ctx context.Context, limit int) ([]eventing.OutboxRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("outbox store: nil db")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := fmt.Sprintf(
		`SELECT id, payload FROM %s WHERE status = 'pending' ORDER BY created_at ASC LIMIT $1`,
		s.table,
	)
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []eventing.OutboxRecord
	for rows.Next() {
		var (
			id      string
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		var env eventing.Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			return nil, err
		}
		records = append(records, eventing.OutboxRecord{ID: id, Envelope: env})
	}
	return records, rows.Err()
}

// MarkSent transitions the record to sent.
func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return errors.New("outbox store: nil db")
	}
	query := fmt.Sprintf(`UPDATE %s SET status = 'sent', sent_at = $1 WHERE id = $2`, s.table)
	_, err := s.db.ExecContext(ctx, query, time.Now().UTC(), id)
	return err
}

// MarkFailed transitions the record to failed and counts the attempt.
func (s *OutboxStore) MarkFailed(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return errors.New("outbox store: nil db")
	}
	query := fmt.Sprintf(`UPDATE %s SET status = 'failed', attempts = attempts + 1 WHERE id = $1`, s.table)
	_, err := s.db.ExecContext(ctx, query, id)
	return err
}
