package auth

import (
	"context"
	"database/sql"
	"errors"

	marketparticipants "charges-hub/internal/marketparticipants/domain"
	participantrepo "charges-hub/internal/marketparticipants/infrastructure/postgres"
)

var (
	// ErrSenderMismatch indicates the document sender differs from the
	// authenticated actor.
	ErrSenderMismatch = errors.New("sender mismatch")
	// ErrSenderNotRegistered indicates the sender is not an active market
	// participant.
	ErrSenderNotRegistered = errors.New("sender not registered")
)

// SenderAuthorizer validates document sender identity.
type SenderAuthorizer interface {
	EnsureSender(ctx context.Context, actorID, senderID string) error
}

// SenderChecker checks sender identity against the participant register.
type SenderChecker struct {
	repo marketparticipants.Repository
}

// NewSenderChecker constructs a SenderChecker backed by Postgres.
func NewSenderChecker(db *sql.DB) *SenderChecker {
	if db == nil {
		return nil
	}
	return &SenderChecker{repo: participantrepo.NewParticipantRepository(db)}
}

// NewSenderCheckerWithRepository constructs a SenderChecker over any
// participant repository.
func NewSenderCheckerWithRepository(repo marketparticipants.Repository) *SenderChecker {
	if repo == nil {
		return nil
	}
	return &SenderChecker{repo: repo}
}

// EnsureSender verifies the document sender matches the authenticated actor
// and is a registered, active market participant.
func (c *SenderChecker) EnsureSender(ctx context.Context, actorID, senderID string) error {
	if c == nil || c.repo == nil {
		return nil
	}
	if actorID == "" || senderID == "" {
		return nil
	}
	if actorID != senderID {
		return ErrSenderMismatch
	}
	participant, err := c.repo.GetByActorID(ctx, senderID)
	if err != nil {
		if errors.Is(err, marketparticipants.ErrParticipantNotFound) {
			return ErrSenderNotRegistered
		}
		return err
	}
	if participant == nil || !participant.IsActive {
		return ErrSenderNotRegistered
	}
	return nil
}
