package providers

import "errors"

var (
	// ErrProviderNotFound is returned when no provider matches the lookup.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrNoProfile is returned when the authenticated user has no provider profile.
	ErrNoProfile = errors.New("provider profile not found")
)
