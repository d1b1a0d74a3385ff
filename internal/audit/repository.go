package audit

import (
	"context"
	"database/sql"
	"errors"
)

const insertEntry = `
INSERT INTO audit_logs (
	id, sender_id, actor, role, action, resource_type, resource_id, document_id,
	metadata, payload_digest, ip, user_agent, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

// Repository persists audit entries to Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs an audit repository.
func NewRepository(db *sql.DB) *Repository {
	if db == nil {
		return nil
	}
	return &Repository{db: db}
}

// Log writes the entry, generating id, timestamp and digest when absent.
func (r *Repository) Log(ctx context.Context, entry Entry) error {
	if r == nil || r.db == nil {
		return errors.New("audit repo: nil db")
	}
	e := entry.normalized()
	_, err := r.db.ExecContext(ctx, insertEntry,
		e.ID, e.SenderID, e.Actor, e.Role, e.Action, e.ResourceType, e.ResourceID,
		e.DocumentID, e.Metadata, e.PayloadDigest, e.IP, e.UserAgent, e.CreatedAt)
	return err
}
