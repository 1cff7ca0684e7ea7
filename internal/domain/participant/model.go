package participant

import "time"

// Participant represents a co-owner in the project. Name is the identity
// key within a project and must be unique.
type Participant struct {
	Name            string           `json:"name"`
	Capital         float64          `json:"capital"`
	NotaryRatePct   float64          `json:"notary_rate_pct"`
	LoanRatePct     float64          `json:"loan_rate_pct"`
	LoanYears       int              `json:"loan_years"`
	Founder         bool             `json:"founder"`
	EntryDate       time.Time        `json:"entry_date"`
	ExitDate        *time.Time       `json:"exit_date,omitempty"`
	Quantity        int              `json:"quantity,omitempty"`
	Lots            []Lot            `json:"lots,omitempty"`
	PurchaseDetails *PurchaseDetails `json:"purchase_details,omitempty"`

	// Construction overrides. Nil means the standard resolution applies.
	CascoSqm            *float64 `json:"casco_sqm,omitempty"`
	ParachevementsPerM2 *float64 `json:"parachevements_per_m2,omitempty"`
	ParachevementsSqm   *float64 `json:"parachevements_sqm,omitempty"`
}

// Lot represents a physical unit or portage allocation owned by a participant.
type Lot struct {
	ID                       string     `json:"id"`
	Surface                  float64    `json:"surface"`
	UnitID                   string     `json:"unit_id"`
	IsPortage                bool       `json:"is_portage,omitempty"`
	AllocatedSurface         float64    `json:"allocated_surface,omitempty"`
	AcquiredDate             time.Time  `json:"acquired_date"`
	OriginalPrice            float64    `json:"original_price"`
	OriginalNotaryFees       float64    `json:"original_notary_fees"`
	OriginalConstructionCost float64    `json:"original_construction_cost"`
	MonthlyCarryingCost      float64    `json:"monthly_carrying_cost,omitempty"`
	SoldDate                 *time.Time `json:"sold_date,omitempty"`
	SoldTo                   string     `json:"sold_to,omitempty"`
	SalePrice                float64    `json:"sale_price,omitempty"`
}

// PurchaseDetails records how a newcomer acquired their lot.
type PurchaseDetails struct {
	Seller        string  `json:"seller"`
	LotID         string  `json:"lot_id"`
	Price         float64 `json:"price"`
	NotaryFees    float64 `json:"notary_fees"`
	Indexation    float64 `json:"indexation,omitempty"`
	CarryingCosts float64 `json:"carrying_costs,omitempty"`
}

// Units returns the number of units the participant finances. A zero
// Quantity counts as one.
func (p Participant) Units() int {
	if p.Quantity < 1 {
		return 1
	}
	return p.Quantity
}

// TotalSurface returns the summed surface of the participant's lots.
func (p Participant) TotalSurface() float64 {
	var total float64
	for _, lot := range p.Lots {
		total += lot.Surface
	}
	return total
}

// EffectiveSurface returns the surface the participant finances. Quantity
// scales the lot surface when carried units are not listed as separate lots;
// list a unit either as its own lot or through Quantity, never both.
func (p Participant) EffectiveSurface() float64 {
	return p.TotalSurface() * float64(p.Units())
}

// ActiveAt reports whether the participant is in the project at the given
// date. Exit date is exclusive.
func (p Participant) ActiveAt(at time.Time) bool {
	if at.Before(p.EntryDate) {
		return false
	}
	if p.ExitDate != nil && !at.Before(*p.ExitDate) {
		return false
	}
	return true
}

// Sold reports whether the lot has been sold.
func (l Lot) Sold() bool {
	return l.SoldDate != nil
}
