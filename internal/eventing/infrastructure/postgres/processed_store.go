package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const defaultProcessedTable = "processed_events"

// ProcessedStore keeps the per-consumer record of delivered event ids that
// makes receipt consumers idempotent.
type ProcessedStore struct {
	db    *sql.DB
	table string
}

// ProcessedOption configures the processed store.
type ProcessedOption func(*ProcessedStore)

// WithProcessedTable overrides the table name.
func WithProcessedTable(table string) ProcessedOption {
	return func(s *ProcessedStore) {
		if table != "" {
			s.table = table
		}
	}
}

// NewProcessedStore constructs a processed store.
func NewProcessedStore(db *sql.DB, opts ...ProcessedOption) *ProcessedStore {
	s := &ProcessedStore{db: db, table: defaultProcessedTable}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ProcessedStore) guard(eventID, consumer string) error {
	if s == nil || s.db == nil {
		return errors.New("processed store: nil db")
	}
	if eventID == "" || consumer == "" {
		return errors.New("processed store: event id and consumer are required")
	}
	return nil
}

// HasProcessed reports whether the consumer already handled the event.
func (s *ProcessedStore) HasProcessed(ctx context.Context, eventID, consumer string) (bool, error) {
	if err := s.guard(eventID, consumer); err != nil {
		return false, err
	}
	query := fmt.Sprintf(
		`SELECT EXISTS (SELECT 1 FROM %s WHERE event_id = $1 AND consumer_name = $2)`,
		s.table,
	)
	var seen bool
	if err := s.db.QueryRowContext(ctx, query, eventID, consumer).Scan(&seen); err != nil {
		return false, err
	}
	return seen, nil
}

// MarkProcessed records the event as handled by the consumer. Re-marking an
// already processed event is a no-op.
func (s *ProcessedStore) MarkProcessed(ctx context.Context, eventID, consumer string) error {
	if err := s.guard(eventID, consumer); err != nil {
		return err
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (event_id, consumer_name, processed_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (event_id, consumer_name) DO NOTHING`,
		s.table,
	)
	_, err := s.db.ExecContext(ctx, query, eventID, consumer, time.Now().UTC())
	return err
}
