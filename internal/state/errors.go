package state

import "errors"

var (
	// ErrInvalidState is returned when an operation is not allowed in the
	// current history state, e.g. BeginStroke while a stroke is pending.
	ErrInvalidState = errors.New("invalid state")

	// ErrNetworkFailure wraps failed folder/image fetches.
	ErrNetworkFailure = errors.New("network failure")

	// ErrValidation is returned for rejected user input (interval, colour, size).
	ErrValidation = errors.New("validation failure")
)
