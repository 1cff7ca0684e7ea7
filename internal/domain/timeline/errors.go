package timeline

import "errors"

var (
	// ErrUnknownEventType indicates an event with an unrecognized discriminant.
	ErrUnknownEventType = errors.New("unknown event type")
	// ErrEventOrder indicates events out of non-decreasing date order.
	ErrEventOrder = errors.New("events must be in non-decreasing date order")
	// ErrMalformedPayload indicates an event payload missing required fields.
	ErrMalformedPayload = errors.New("malformed event payload")
	// ErrUnknownSeller indicates a sale referencing an absent seller.
	ErrUnknownSeller = errors.New("seller not found")
	// ErrUnknownParticipant indicates an event referencing an absent participant.
	ErrUnknownParticipant = errors.New("participant not found")
	// ErrUnknownLot indicates an event referencing an absent lot.
	ErrUnknownLot = errors.New("lot not found")
	// ErrEventNotFound indicates the requested event doesn't exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrInvalidInput indicates invalid input for timeline operations.
	ErrInvalidInput = errors.New("invalid timeline input")
)
