package charges

import "errors"

var (
	// ErrNilOperation is returned when a nil operation is passed to a factory or validator.
	ErrNilOperation = errors.New("charges: nil operation")
	// ErrNilCommand is returned when a nil command is passed to a factory or validator.
	ErrNilCommand = errors.New("charges: nil command")
	// ErrChargeNotFound is returned when no charge exists for an identity tuple.
	ErrChargeNotFound = errors.New("charges: charge not found")
	// ErrMixedChargeIdentity is returned when command operations target different charges.
	ErrMixedChargeIdentity = errors.New("charges: operations target different charge identities")
	// ErrUnsupportedResolution signals an enum value no rule mapping exists for.
	// This is a programming defect upstream, never a validation failure.
	ErrUnsupportedResolution = errors.New("charges: unsupported resolution value")
	// ErrUnsupportedChargeType signals an enum value no rule mapping exists for.
	ErrUnsupportedChargeType = errors.New("charges: unsupported charge type value")
)
