package timeline

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Type identifies the kind of a project history event.
type Type string

const (
	// TypeInitialPurchase records the founding purchase at the deed date.
	TypeInitialPurchase Type = "project.initial_purchase"
	// TypeNewcomerJoins records a newcomer buying a carried unit from a founder.
	TypeNewcomerJoins Type = "participant.newcomer_joins"
	// TypeHiddenLotRevealed records the sale of a copro-held lot to a buyer.
	TypeHiddenLotRevealed Type = "copro.hidden_lot_revealed"
	// TypePortageSettlement records the transfer of a carried lot to its buyer.
	TypePortageSettlement Type = "portage.settlement"
	// TypeCoproLoanTaken records a loan taken by the copropriété.
	TypeCoproLoanTaken Type = "copro.loan_taken"
	// TypeParticipantExits records a participant leaving the project.
	TypeParticipantExits Type = "participant.exits"
)

// Event is one immutable, dated fact in the project history. The event log
// is append-only and the only persisted representation of the timeline;
// every snapshot is derived by replay.
type Event struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"project_id,omitempty"`
	// Seq is the position in the project log (starts at 1). Assigned by
	// storage on append.
	Seq     uint64          `json:"seq,omitempty"`
	Date    time.Time       `json:"date"`
	Type    Type            `json:"type"`
	Label   string          `json:"label,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// IsValid reports whether the event type is one of the known kinds.
func (t Type) IsValid() bool {
	switch t {
	case TypeInitialPurchase, TypeNewcomerJoins, TypeHiddenLotRevealed,
		TypePortageSettlement, TypeCoproLoanTaken, TypeParticipantExits:
		return true
	}
	return false
}

// Domain returns the prefix of the event type (e.g. "copro").
func (t Type) Domain() string {
	if i := strings.IndexByte(string(t), '.'); i >= 0 {
		return string(t[:i])
	}
	return string(t)
}

// NewEvent builds an event with the payload marshalled in place. The ID and
// sequence are assigned by the service and storage on append.
func NewEvent(eventType Type, date time.Time, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encoding %s payload: %w", eventType, err)
	}
	return Event{Date: date, Type: eventType, Payload: raw}, nil
}
