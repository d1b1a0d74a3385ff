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

const defaultDLQTable = "dead_letter_events"

// DLQStore archives envelopes that could not be delivered, keyed by event
// id, together with the sender and document they belong to so operators can
// trace a stuck receipt back to its submission.
type DLQStore struct {
	db    *sql.DB
	table string
}

// DLQOption configures the DLQ store.
type DLQOption func(*DLQStore)

// WithDLQTable overrides the table name.
func WithDLQTable(table string) DLQOption {
	return func(s *DLQStore) {
		if table != "" {
			s.table = table
		}
	}
}

// NewDLQStore constructs a DLQ store.
func NewDLQStore(db *sql.DB, opts ...DLQOption) *DLQStore {
	s := &DLQStore{db: db, table: defaultDLQTable}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordFailure upserts a dead-letter record for the envelope. Repeated
// failures of the same event bump the attempt counter and keep the latest
// error message.
func (s *DLQStore) RecordFailure(ctx context.Context, env eventing.Envelope, cause error) error {
	if s == nil || s.db == nil {
		return errors.New("dlq store: nil db")
	}
	if env.EventID == "" {
		return errors.New("dlq store: empty event id")
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	message := ""
	if cause != nil {
		message = cause.Error()
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (event_id, event_type, sender_id, document_id, payload, error, first_seen_at, last_seen_at, attempts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7, 1)
		 ON CONFLICT (event_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			error = EXCLUDED.error,
			last_seen_at = EXCLUDED.last_seen_at,
			attempts = %s.attempts + 1`,
		s.table, s.table,
	)
	_, err = s.db.ExecContext(ctx, query,
		env.EventID, env.EventType, env.SenderID, env.DocumentID, payload, message, time.Now().UTC())
	return err
}
