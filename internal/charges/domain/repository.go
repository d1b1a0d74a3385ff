package charges

import "context"

// Repository persists charge aggregates.
type Repository interface {
	// GetByIdentity returns the charge for the identity tuple,
	// or nil when no such charge exists.
	GetByIdentity(ctx context.Context, identity ChargeIdentity) (*Charge, error)
	Save(ctx context.Context, charge *Charge) error
	ListByOwner(ctx context.Context, ownerID string) ([]*Charge, error)
}
