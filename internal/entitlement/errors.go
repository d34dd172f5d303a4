package entitlement

import "errors"

var (
	// ErrAuthenticationRequired is returned when a mutation is attempted without a signed-in user.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrInvalidPlan is returned for a tier identifier that is not a purchasable plan.
	ErrInvalidPlan = errors.New("invalid plan")
)
