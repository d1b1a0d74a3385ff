package marketparticipants

import (
	"context"
	"errors"
)

// MarketParticipant is a registered market actor (sender or charge owner).
type MarketParticipant struct {
	ID       string
	ActorID  string
	Role     string
	IsActive bool
}

var (
	// ErrParticipantNotFound is returned when an actor id is not registered.
	ErrParticipantNotFound = errors.New("marketparticipants: not found")
)

// Repository resolves registered market participants.
type Repository interface {
	GetByActorID(ctx context.Context, actorID string) (*MarketParticipant, error)
}

const (
	glnLength = 13
	eicLength = 16
)

// IsValidActorID reports whether the id is a well-formed GLN or EIC code.
func IsValidActorID(id string) bool {
	switch len(id) {
	case glnLength:
		return isValidGLN(id)
	case eicLength:
		return isValidEIC(id)
	default:
		return false
	}
}

// isValidGLN checks 13 digits with a GS1 mod-10 check digit.
func isValidGLN(id string) bool {
	sum := 0
	for i, r := range id {
		if r < '0' || r > '9' {
			return false
		}
		digit := int(r - '0')
		// odd positions (1-based) weight 1, even positions weight 3
		if i%2 == 0 {
			sum += digit
		} else {
			sum += digit * 3
		}
	}
	return sum%10 == 0
}

// isValidEIC checks 16 characters from the EIC alphabet.
func isValidEIC(id string) bool {
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z':
		case r == '-':
		default:
			return false
		}
	}
	return true
}
