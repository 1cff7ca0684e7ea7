package participant

import "time"

// CoproEntity holds lots and financial obligations owned collectively by
// the copropriété rather than by an individual participant.
type CoproEntity struct {
	Lots               []CoproLot         `json:"lots,omitempty"`
	CashReserve        float64            `json:"cash_reserve"`
	Loans              []CoproLoan        `json:"loans,omitempty"`
	MonthlyObligations MonthlyObligations `json:"monthly_obligations"`
}

// CoproLot represents a hidden lot held by the copropriété until revealed
// and sold to a buyer.
type CoproLot struct {
	ID                       string    `json:"id"`
	Surface                  float64   `json:"surface"`
	UnitID                   string    `json:"unit_id"`
	AcquiredDate             time.Time `json:"acquired_date"`
	OriginalPrice            float64   `json:"original_price"`
	OriginalNotaryFees       float64   `json:"original_notary_fees"`
	OriginalConstructionCost float64   `json:"original_construction_cost"`
}

// CoproLoan represents a loan taken by the copropriété. MonthlyPayment is
// computed once when the loan is recorded.
type CoproLoan struct {
	ID             string    `json:"id"`
	Amount         float64   `json:"amount"`
	AnnualRatePct  float64   `json:"annual_rate_pct"`
	Years          int       `json:"years"`
	StartDate      time.Time `json:"start_date"`
	MonthlyPayment float64   `json:"monthly_payment"`
}

// MonthlyObligations are the fixed monthly charges carried by the copropriété.
type MonthlyObligations struct {
	Insurance   float64 `json:"insurance"`
	Accounting  float64 `json:"accounting"`
	Maintenance float64 `json:"maintenance,omitempty"`
}

// Total returns the combined monthly obligation.
func (m MonthlyObligations) Total() float64 {
	return m.Insurance + m.Accounting + m.Maintenance
}

// LotByID returns the copro lot with the given ID.
func (c CoproEntity) LotByID(id string) (CoproLot, bool) {
	for _, lot := range c.Lots {
		if lot.ID == id {
			return lot, true
		}
	}
	return CoproLot{}, false
}

// TotalSurface returns the summed surface of the copro-held lots.
func (c CoproEntity) TotalSurface() float64 {
	var total float64
	for _, lot := range c.Lots {
		total += lot.Surface
	}
	return total
}
