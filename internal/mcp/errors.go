package mcp

import (
	"errors"
	"fmt"

	"github.com/maraval/coprojet/internal/domain/participant"
	"github.com/maraval/coprojet/internal/domain/project"
	"github.com/maraval/coprojet/internal/domain/timeline"
	"github.com/maraval/coprojet/internal/exchange"
	"github.com/maraval/coprojet/internal/repository"
)

// APIError is the error shape returned to tool callers.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to API error codes. Unrecognized errors map
// to nil; callers pass those through unchanged.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check the project id, or call list_projects"}
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Create the project before appending events"}
	case errors.Is(err, project.ErrConflict):
		return &APIError{Code: "CONFLICT", Message: "project modified concurrently", RecoveryHint: "Re-read the project and retry against its current version"}
	case errors.Is(err, timeline.ErrUnknownEventType):
		return &APIError{Code: "UNKNOWN_EVENT_TYPE", Message: "unknown event type", RecoveryHint: "Use one of the documented event types"}
	case errors.Is(err, timeline.ErrEventOrder):
		return &APIError{Code: "EVENT_ORDER", Message: "event predates the log head", RecoveryHint: "Events must carry non-decreasing dates; check list_events for the head date"}
	case errors.Is(err, timeline.ErrMalformedPayload):
		return &APIError{Code: "MALFORMED_PAYLOAD", Message: "event payload missing required fields", RecoveryHint: "Check the payload shape for this event type"}
	case errors.Is(err, timeline.ErrUnknownSeller):
		return &APIError{Code: "UNKNOWN_SELLER", Message: "seller not found in project", RecoveryHint: "The seller must be an existing participant"}
	case errors.Is(err, timeline.ErrUnknownParticipant):
		return &APIError{Code: "UNKNOWN_PARTICIPANT", Message: "participant not found in project"}
	case errors.Is(err, timeline.ErrUnknownLot):
		return &APIError{Code: "UNKNOWN_LOT", Message: "lot not found in project", RecoveryHint: "Check the lot id against the current state"}
	case errors.Is(err, timeline.ErrEventNotFound):
		return &APIError{Code: "EVENT_NOT_FOUND", Message: "event not found"}
	case errors.Is(err, participant.ErrDuplicateName):
		return &APIError{Code: "DUPLICATE_PARTICIPANT", Message: "participant names must be unique within a project"}
	case errors.Is(err, participant.ErrMissingName),
		errors.Is(err, participant.ErrInvalidSurface),
		errors.Is(err, participant.ErrLotDateOrder),
		errors.Is(err, participant.ErrExitBeforeEntry),
		errors.Is(err, participant.ErrNegativeRate):
		return &APIError{Code: "INVALID_PARTICIPANT", Message: err.Error()}
	case errors.Is(err, exchange.ErrNoVersion):
		return &APIError{Code: "NO_VERSION", Message: "save file carries no envelope version", RecoveryHint: "The file predates versioned saves; re-export it from a current release"}
	case errors.Is(err, exchange.ErrIncompatibleVersion):
		return &APIError{Code: "INCOMPATIBLE_VERSION", Message: "save file from an incompatible release"}
	case errors.Is(err, exchange.ErrMissingField):
		return &APIError{Code: "MISSING_FIELD", Message: err.Error()}
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, timeline.ErrInvalidInput),
		errors.Is(err, repository.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
