package exchange

import "errors"

var (
	// ErrMissingField indicates a required envelope field is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrNoVersion indicates the payload predates versioned envelopes.
	ErrNoVersion = errors.New("envelope carries no version")
	// ErrIncompatibleVersion indicates a major release mismatch.
	ErrIncompatibleVersion = errors.New("incompatible release version")
)
