package participant

import "errors"

var (
	// ErrMissingName indicates a participant without a name.
	ErrMissingName = errors.New("participant name required")
	// ErrDuplicateName indicates two participants sharing a name.
	ErrDuplicateName = errors.New("participant name must be unique")
	// ErrInvalidSurface indicates a lot with a non-positive surface.
	ErrInvalidSurface = errors.New("lot surface must be positive")
	// ErrLotDateOrder indicates a lot sold before it was acquired.
	ErrLotDateOrder = errors.New("lot sold before acquisition")
	// ErrExitBeforeEntry indicates an exit date preceding the entry date.
	ErrExitBeforeEntry = errors.New("exit date precedes entry date")
	// ErrNegativeRate indicates a negative percentage rate.
	ErrNegativeRate = errors.New("rate must not be negative")
)
