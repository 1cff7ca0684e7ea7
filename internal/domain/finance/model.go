package finance

import "time"

// Fixed charges from the Walloon cost schedule. Annual amounts unless noted.
const (
	// DefaultNotaryRatePct is the Walloon registration duty rate.
	DefaultNotaryRatePct = 12.5
	// DefaultParachevementsPerM2 applies when no override or unit table
	// rate is available.
	DefaultParachevementsPerM2 = 500.0

	// AnnualPropertyTax is the précompte immobilier.
	AnnualPropertyTax = 388.38
	// AnnualAccountingFee is the comptable charge.
	AnnualAccountingFee = 1000.0
	// AnnualSubscription is the abonnement charge.
	AnnualSubscription = 600.0
	// AnnualInsurance is the building insurance premium.
	AnnualInsurance = 2000.0
	// AnnualReservation is the réservation charge.
	AnnualReservation = 2000.0
	// AnnualContingency is the imprévus provision.
	AnnualContingency = 2000.0
	// CreditFileFee is the one-time frais de dossier crédit.
	CreditFileFee = 500.0
	// CreditManagementFee is the one-time frais de gestion crédit.
	CreditManagementFee = 45.0
)

const (
	daysPerYear = 365.25

	// Honoraires: 15% of the CASCO base, of which 30% falls due over the
	// first three years.
	honorairesRate  = 0.15
	honorairesShare = 0.30

	// Registration duties restituted by the region when a lot is resold
	// strictly under two years after acquisition (3/5 of duties paid).
	dutyRestitutionShare = 3.0 / 5.0
	dutyRestitutionYears = 2.0
)

// ProjectParams holds the project-level inputs of the cost calculation.
type ProjectParams struct {
	TotalPurchase  float64               `json:"total_purchase"`
	ReductionPct   float64               `json:"reduction_pct,omitempty"`
	CascoPerM2     float64               `json:"casco_per_m2"`
	TravauxCommuns float64               `json:"travaux_communs"`
	Portage        PortageFormula        `json:"portage"`
	Units          map[string]UnitDetail `json:"units,omitempty"`
}

// UnitDetail is one row of the unit cost table: a stored parachèvements
// total and the reference surface it was quoted for.
type UnitDetail struct {
	Surface        float64 `json:"surface"`
	Parachevements float64 `json:"parachevements"`
}

// PortageFormula parameterizes portage resale pricing.
type PortageFormula struct {
	IndexationRatePct float64 `json:"indexation_rate_pct"`
	InterestRatePct   float64 `json:"interest_rate_pct"`
}

// ConstructionOptions overrides the standard construction cost resolution.
// Nil fields keep the defaults.
type ConstructionOptions struct {
	ParachevementsPerM2 *float64
	CascoSqm            *float64
	ParachevementsSqm   *float64
}

// ConstructionCosts breaks a unit's construction cost into shell and
// finishing parts.
type ConstructionCosts struct {
	Casco          float64 `json:"casco"`
	Parachevements float64 `json:"parachevements"`
}

// Total returns casco plus parachèvements.
func (c ConstructionCosts) Total() float64 {
	return c.Casco + c.Parachevements
}

// CarryingCosts breaks down the monthly cost of holding a portage lot.
type CarryingCosts struct {
	MonthlyInterest  float64 `json:"monthly_interest"`
	MonthlyTax       float64 `json:"monthly_tax"`
	MonthlyInsurance float64 `json:"monthly_insurance"`
	TotalMonthly     float64 `json:"total_monthly"`
	Months           int     `json:"months"`
	TotalForPeriod   float64 `json:"total_for_period"`
}

// ResalePrice is the priced breakdown of a portage lot sale.
type ResalePrice struct {
	Base           float64 `json:"base"`
	Indexation     float64 `json:"indexation"`
	CarryingCosts  float64 `json:"carrying_costs"`
	Renovations    float64 `json:"renovations,omitempty"`
	DutyRefund     float64 `json:"duty_refund,omitempty"`
	Total          float64 `json:"total"`
	SurfaceImposed bool    `json:"surface_imposed"`
}

// SurfaceShare is a redistribution input keyed by surface quotité.
type SurfaceShare struct {
	Name    string  `json:"name"`
	Surface float64 `json:"surface"`
}

// TimeShare is a redistribution input weighted by time in the project.
type TimeShare struct {
	Name      string    `json:"name"`
	EntryDate time.Time `json:"entry_date"`
}

// RedistributionEntry is one recipient's share of sale proceeds.
type RedistributionEntry struct {
	Name    string  `json:"name"`
	Quotite float64 `json:"quotite"`
	Amount  float64 `json:"amount"`
}

// AmortizationEntry is one month of a loan repayment schedule.
type AmortizationEntry struct {
	Month     int       `json:"month"`
	Date      time.Time `json:"date"`
	Payment   float64   `json:"payment"`
	Principal float64   `json:"principal"`
	Interest  float64   `json:"interest"`
	Remaining float64   `json:"remaining"`
}

// ParticipantCosts is the per-participant slice of a cost snapshot.
type ParticipantCosts struct {
	Name           string  `json:"name"`
	Surface        float64 `json:"surface"`
	Units          int     `json:"units"`
	PurchaseShare  float64 `json:"purchase_share"`
	NotaryFees     float64 `json:"notary_fees"`
	Casco          float64 `json:"casco"`
	Parachevements float64 `json:"parachevements"`
	Construction   float64 `json:"construction"`
	SharedCosts    float64 `json:"shared_costs"`
	TotalCost      float64 `json:"total_cost"`
	Capital        float64 `json:"capital"`
	LoanNeeded     float64 `json:"loan_needed"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalInterest  float64 `json:"total_interest"`
}

// Totals aggregates a cost snapshot. Averages over an empty participant
// list are NaN; callers guard.
type Totals struct {
	Surface               float64 `json:"surface"`
	Purchase              float64 `json:"purchase"`
	NotaryFees            float64 `json:"notary_fees"`
	Construction          float64 `json:"construction"`
	Shared                float64 `json:"shared"`
	Total                 float64 `json:"total"`
	Capital               float64 `json:"capital"`
	LoanNeeded            float64 `json:"loan_needed"`
	AveragePerParticipant float64 `json:"average_per_participant"`
	AverageCostPerM2      float64 `json:"average_cost_per_m2"`
}

// CalculationResults is a complete point-in-time cost snapshot.
type CalculationResults struct {
	PricePerM2    float64            `json:"price_per_m2"`
	FraisGeneraux float64            `json:"frais_generaux"`
	Participants  []ParticipantCosts `json:"participants"`
	Totals        Totals             `json:"totals"`
}
