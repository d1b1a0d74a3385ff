package memory

import (
	"context"
	"sync"

	marketparticipants "charges-hub/internal/marketparticipants/domain"
)

// ParticipantRepository is an in-memory repository for demo/testing.
type ParticipantRepository struct {
	mu   sync.RWMutex
	data map[string]*marketparticipants.MarketParticipant
}

// NewParticipantRepository constructs a repository.
func NewParticipantRepository() *ParticipantRepository {
	return &ParticipantRepository{
		data: make(map[string]*marketparticipants.MarketParticipant),
	}
}

// Put registers a participant.
func (r *ParticipantRepository) Put(participant marketparticipants.MarketParticipant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := participant
	r.data[participant.ActorID] = &copied
}

// GetByActorID loads a participant by actor id.
func (r *ParticipantRepository) GetByActorID(ctx context.Context, actorID string) (*marketparticipants.MarketParticipant, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	participant := r.data[actorID]
	if participant == nil {
		return nil, marketparticipants.ErrParticipantNotFound
	}
	copied := *participant
	return &copied, nil
}
