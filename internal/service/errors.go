package service

import "errors"

// Error classes. Handlers branch on these with errors.Is; anything outside
// them is a store failure and surfaces as a generic error.
var (
	// ErrValidation marks input rejected before any store round-trip.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is returned for a bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when signing up with an email that is
	// already registered.
	ErrEmailTaken = errors.New("email already registered")
)
