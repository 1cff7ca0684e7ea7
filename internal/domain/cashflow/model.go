package cashflow

import (
	"time"

	"github.com/maraval/coprojet/internal/domain/finance"
	"github.com/maraval/coprojet/internal/domain/timeline"
)

// Summary aggregates a ledger. Invested and received are absolute values;
// the burn rate averages recurring outflows over the months that have any.
type Summary struct {
	TotalInvested   float64 `json:"total_invested"`
	TotalReceived   float64 `json:"total_received"`
	NetPosition     float64 `json:"net_position"`
	MonthlyBurnRate float64 `json:"monthly_burn_rate"`
}

// ParticipantCashFlow is the dated transaction ledger of one participant,
// with running balances folded in date order.
type ParticipantCashFlow struct {
	ParticipantName string                 `json:"participant_name"`
	StartDate       time.Time              `json:"start_date,omitempty"`
	EndDate         time.Time              `json:"end_date,omitempty"`
	Transactions    []timeline.Transaction `json:"transactions"`
	Summary         Summary                `json:"summary"`
}

// CoproCashFlow is the copropriété's ledger over the same mechanics.
type CoproCashFlow struct {
	StartDate    time.Time              `json:"start_date,omitempty"`
	EndDate      time.Time              `json:"end_date,omitempty"`
	Transactions []timeline.Transaction `json:"transactions"`
	Summary      Summary                `json:"summary"`
}

// PhaseProjection is the full derived view after one event: the reduced
// state, a cost snapshot, and cash-flow summaries up to that date.
type PhaseProjection struct {
	EventID      string                     `json:"event_id,omitempty"`
	EventType    timeline.Type              `json:"event_type"`
	Date         time.Time                  `json:"date"`
	Label        string                     `json:"label,omitempty"`
	State        timeline.ProjectionState   `json:"state"`
	Results      finance.CalculationResults `json:"results"`
	Flows        map[string]Summary         `json:"flows,omitempty"`
	CoproSummary Summary                    `json:"copro_summary"`
}
