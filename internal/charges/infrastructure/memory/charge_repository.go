package memory

import (
	"context"
	"sync"

	charges "charges-hub/internal/charges/domain"
)

// ChargeRepository is an in-memory repository for demo/testing.
type ChargeRepository struct {
	mu   sync.RWMutex
	data map[charges.ChargeIdentity]*charges.Charge
}

// NewChargeRepository constructs a repository.
func NewChargeRepository() *ChargeRepository {
	return &ChargeRepository{
		data: make(map[charges.ChargeIdentity]*charges.Charge),
	}
}

// GetByIdentity loads a charge by identity tuple.
func (r *ChargeRepository) GetByIdentity(ctx context.Context, identity charges.ChargeIdentity) (*charges.Charge, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	charge := r.data[identity]
	if charge == nil {
		return nil, charges.ErrChargeNotFound
	}
	copied := *charge
	copied.Points = append([]charges.ChargePoint(nil), charge.Points...)
	return &copied, nil
}

// Save stores a charge keyed by identity.
func (r *ChargeRepository) Save(ctx context.Context, charge *charges.Charge) error {
	_ = ctx
	if charge == nil {
		return charges.ErrNilOperation
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *charge
	copied.Points = append([]charges.ChargePoint(nil), charge.Points...)
	r.data[charge.Identity] = &copied
	return nil
}

// ListByOwner returns every charge owned by the given actor.
func (r *ChargeRepository) ListByOwner(ctx context.Context, ownerID string) ([]*charges.Charge, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*charges.Charge
	for _, charge := range r.data {
		if charge.Identity.OwnerID == ownerID {
			copied := *charge
			copied.Points = append([]charges.ChargePoint(nil), charge.Points...)
			out = append(out, &copied)
		}
	}
	return out, nil
}
