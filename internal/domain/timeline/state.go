package timeline

import (
	"time"

	"github.com/maraval/coprojet/internal/domain/finance"
	"github.com/maraval/coprojet/internal/domain/participant"
)

// TransactionKind tags a ledger entry.
type TransactionKind string

const (
	KindLotPurchase     TransactionKind = "LOT_PURCHASE"
	KindNotaryFees      TransactionKind = "NOTARY_FEES"
	KindLoanPayment     TransactionKind = "LOAN_PAYMENT"
	KindPortageInterest TransactionKind = "PORTAGE_INTEREST"
	KindPropertyTax     TransactionKind = "PROPERTY_TAX"
	KindInsurance       TransactionKind = "INSURANCE"
	KindLotSale         TransactionKind = "LOT_SALE"
	KindRedistribution  TransactionKind = "REDISTRIBUTION"
	KindSettlement      TransactionKind = "SETTLEMENT"
	KindLoanDrawdown    TransactionKind = "LOAN_DRAWDOWN"
)

// Flow distinguishes one-shot movements from recurring monthly ones.
type Flow string

const (
	FlowOneShot   Flow = "ONE_SHOT"
	FlowRecurring Flow = "RECURRING"
)

// Transaction is one dated monetary movement. In the shared state ledger
// the amount is the positive magnitude and From pays To; per-owner ledgers
// re-sign it relative to the owner, negative for cash out.
type Transaction struct {
	Date            time.Time       `json:"date"`
	Kind            TransactionKind `json:"kind"`
	Flow            Flow            `json:"flow"`
	Amount          float64         `json:"amount"`
	From            string          `json:"from,omitempty"`
	To              string          `json:"to,omitempty"`
	Label           string          `json:"label,omitempty"`
	RunningBalance  float64         `json:"running_balance"`
	MonthsSinceDeed int             `json:"months_since_deed,omitempty"`
}

// ProjectionState is the derived snapshot of the project after replaying a
// prefix of the event log. It is a value: Apply never mutates its input and
// returns a fresh state.
type ProjectionState struct {
	CurrentDate  time.Time                 `json:"current_date"`
	DeedDate     time.Time                 `json:"deed_date"`
	Participants []participant.Participant `json:"participants"`
	Copro        participant.CoproEntity   `json:"copro"`
	Params       finance.ProjectParams     `json:"params"`
	Transactions []Transaction             `json:"transactions,omitempty"`
}

// NewState returns the empty state replay starts from.
func NewState() ProjectionState {
	return ProjectionState{}
}

// ParticipantByName returns the index of the named participant, or -1.
func (s ProjectionState) ParticipantByName(name string) int {
	for i, p := range s.Participants {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// TotalSurface sums the effective surface of all participants.
func (s ProjectionState) TotalSurface() float64 {
	var total float64
	for _, p := range s.Participants {
		total += p.EffectiveSurface()
	}
	return total
}

// clone returns a deep copy sharing nothing mutable with the receiver.
func (s ProjectionState) clone() ProjectionState {
	out := s
	out.Participants = cloneParticipants(s.Participants)
	out.Transactions = append([]Transaction(nil), s.Transactions...)
	out.Copro.Lots = append([]participant.CoproLot(nil), s.Copro.Lots...)
	out.Copro.Loans = append([]participant.CoproLoan(nil), s.Copro.Loans...)
	out.Params.Units = cloneUnits(s.Params.Units)
	return out
}

func cloneParticipants(in []participant.Participant) []participant.Participant {
	if in == nil {
		return nil
	}
	out := make([]participant.Participant, len(in))
	for i, p := range in {
		out[i] = cloneParticipant(p)
	}
	return out
}

func cloneParticipant(p participant.Participant) participant.Participant {
	out := p
	out.Lots = append([]participant.Lot(nil), p.Lots...)
	out.ExitDate = cloneTime(p.ExitDate)
	out.CascoSqm = cloneFloat(p.CascoSqm)
	out.ParachevementsPerM2 = cloneFloat(p.ParachevementsPerM2)
	out.ParachevementsSqm = cloneFloat(p.ParachevementsSqm)
	if p.PurchaseDetails != nil {
		details := *p.PurchaseDetails
		out.PurchaseDetails = &details
	}
	for i, lot := range out.Lots {
		out.Lots[i].SoldDate = cloneTime(lot.SoldDate)
	}
	return out
}

func cloneUnits(in map[string]finance.UnitDetail) map[string]finance.UnitDetail {
	if in == nil {
		return nil
	}
	out := make(map[string]finance.UnitDetail, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	out := *t
	return &out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	out := *f
	return &out
}
