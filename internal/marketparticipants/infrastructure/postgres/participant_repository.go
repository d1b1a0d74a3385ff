package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	marketparticipants "charges-hub/internal/marketparticipants/domain"
)

const defaultParticipantsTable = "market_participants"

// ParticipantRepository is a Postgres implementation for market participants.
type ParticipantRepository struct {
	db    *sql.DB
	table string
}

// NewParticipantRepository constructs a repository.
func NewParticipantRepository(db *sql.DB, opts ...ParticipantOption) *ParticipantRepository {
	repo := &ParticipantRepository{db: db, table: defaultParticipantsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// ParticipantOption configures the repository.
type ParticipantOption func(*ParticipantRepository)

// WithParticipantsTable overrides the default table name.
func WithParticipantsTable(table string) ParticipantOption {
	return func(repo *ParticipantRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// GetByActorID loads a participant by its GLN/EIC actor id.
func (r *ParticipantRepository) GetByActorID(ctx context.Context, actorID string) (*marketparticipants.MarketParticipant, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("participant repo: nil db")
	}
	if actorID == "" {
		return nil, errors.New("participant repo: empty actor id")
	}

	query := fmt.Sprintf(`
SELECT id, actor_id, role, is_active
FROM %s
WHERE actor_id = $1
LIMIT 1`, r.table)

	var participant marketparticipants.MarketParticipant
	if err := r.db.QueryRowContext(ctx, query, actorID).Scan(
		&participant.ID,
		&participant.ActorID,
		&participant.Role,
		&participant.IsActive,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, marketparticipants.ErrParticipantNotFound
		}
		return nil, err
	}
	return &participant, nil
}
