package finance

import (
	"github.com/maraval/coprojet/internal/domain/participant"
)

// PricePerM2 returns the per-m² base price after reduction. A zero total
// surface yields ±Inf or NaN; callers guard.
func PricePerM2(totalPurchase, totalSurface, reductionPct float64) float64 {
	return totalPurchase * (1 - reductionPct/100) / totalSurface
}

// PurchaseShare returns the purchase price for the given surface. Surface
// is the participant's total surface; multi-unit purchases pass the sum.
func PurchaseShare(surface, pricePerM2 float64) float64 {
	return surface * pricePerM2
}

// NotaryFees returns the registration duties on a purchase share.
func NotaryFees(purchaseShare, ratePct float64) float64 {
	return purchaseShare * ratePct / 100
}

// ParachevementsRate resolves the per-m² finishing rate. Resolvers run in
// order: explicit override, rate implied by the unit table entry, default.
// A unit entry with a zero reference surface cannot imply a rate and is
// skipped.
func ParachevementsRate(unitID string, units map[string]UnitDetail, override *float64) float64 {
	resolvers := []func() (float64, bool){
		func() (float64, bool) {
			if override == nil {
				return 0, false
			}
			return *override, true
		},
		func() (float64, bool) {
			detail, ok := units[unitID]
			if !ok || detail.Surface == 0 {
				return 0, false
			}
			return detail.Parachevements / detail.Surface, true
		},
		func() (float64, bool) {
			return DefaultParachevementsPerM2, true
		},
	}
	for _, resolve := range resolvers {
		if rate, ok := resolve(); ok {
			return rate
		}
	}
	return DefaultParachevementsPerM2
}

// Construction computes a unit's shell and finishing costs. CASCO always
// uses the global per-m² rate over the renovated sqm (full surface when
// unset); parachèvements resolution is independent of CASCO resolution.
func Construction(unitID string, surface float64, units map[string]UnitDetail, cascoPerM2 float64, opts ConstructionOptions) ConstructionCosts {
	cascoSqm := surface
	if opts.CascoSqm != nil {
		cascoSqm = *opts.CascoSqm
	}
	parachevementsSqm := surface
	if opts.ParachevementsSqm != nil {
		parachevementsSqm = *opts.ParachevementsSqm
	}
	return ConstructionCosts{
		Casco:          cascoPerM2 * cascoSqm,
		Parachevements: ParachevementsRate(unitID, units, opts.ParachevementsPerM2) * parachevementsSqm,
	}
}

// FraisGeneraux3Ans returns the shared general costs over the first three
// years: honoraires on the full CASCO base (participant units plus travaux
// communs), three years of fixed recurring charges, and the one-time
// credit fees.
func FraisGeneraux3Ans(participants []participant.Participant, params ProjectParams, units map[string]UnitDetail) float64 {
	var cascoBase float64
	for _, p := range participants {
		var casco float64
		for _, lot := range p.Lots {
			casco += Construction(lot.UnitID, lot.Surface, units, params.CascoPerM2, constructionOptions(p)).Casco
		}
		cascoBase += casco * float64(p.Units())
	}
	cascoBase += params.TravauxCommuns

	honoraires := cascoBase * honorairesRate * honorairesShare
	recurring := 3 * (AnnualPropertyTax + AnnualAccountingFee + AnnualSubscription +
		AnnualInsurance + AnnualReservation + AnnualContingency)
	return honoraires + recurring + CreditFileFee + CreditManagementFee
}

// CalculateAll computes the full cost snapshot for a participant set. Pure:
// identical inputs yield identical outputs. An empty participant list
// produces NaN/Inf averages, never a panic.
func CalculateAll(participants []participant.Participant, params ProjectParams, units map[string]UnitDetail) CalculationResults {
	var totalSurface float64
	var totalUnits int
	for _, p := range participants {
		totalSurface += p.EffectiveSurface()
		totalUnits += p.Units()
	}

	pricePerM2 := PricePerM2(params.TotalPurchase, totalSurface, params.ReductionPct)
	fraisGeneraux := FraisGeneraux3Ans(participants, params, units)
	sharedTotal := params.TravauxCommuns + fraisGeneraux
	sharedPerUnit := sharedTotal / float64(totalUnits)

	results := CalculationResults{
		PricePerM2:    pricePerM2,
		FraisGeneraux: fraisGeneraux,
		Participants:  make([]ParticipantCosts, 0, len(participants)),
	}

	for _, p := range participants {
		units64 := float64(p.Units())
		var construction ConstructionCosts
		for _, lot := range p.Lots {
			lotCosts := Construction(lot.UnitID, lot.Surface, units, params.CascoPerM2, constructionOptions(p))
			construction.Casco += lotCosts.Casco
			construction.Parachevements += lotCosts.Parachevements
		}
		construction.Casco *= units64
		construction.Parachevements *= units64

		share := PurchaseShare(p.EffectiveSurface(), pricePerM2)
		notary := NotaryFees(share, p.NotaryRatePct)
		shared := sharedPerUnit * units64
		totalCost := share + notary + construction.Total() + shared
		loanNeeded := totalCost - p.Capital
		monthly := MonthlyPayment(loanNeeded, p.LoanRatePct, p.LoanYears)

		costs := ParticipantCosts{
			Name:           p.Name,
			Surface:        p.EffectiveSurface(),
			Units:          p.Units(),
			PurchaseShare:  share,
			NotaryFees:     notary,
			Casco:          construction.Casco,
			Parachevements: construction.Parachevements,
			Construction:   construction.Total(),
			SharedCosts:    shared,
			TotalCost:      totalCost,
			Capital:        p.Capital,
			LoanNeeded:     loanNeeded,
			MonthlyPayment: monthly,
			TotalInterest:  TotalInterest(monthly, p.LoanYears, loanNeeded),
		}
		results.Participants = append(results.Participants, costs)

		results.Totals.Surface += costs.Surface
		results.Totals.Purchase += costs.PurchaseShare
		results.Totals.NotaryFees += costs.NotaryFees
		results.Totals.Construction += costs.Construction
		results.Totals.Shared += costs.SharedCosts
		results.Totals.Total += costs.TotalCost
		results.Totals.Capital += costs.Capital
		results.Totals.LoanNeeded += costs.LoanNeeded
	}

	results.Totals.AveragePerParticipant = results.Totals.Total / float64(len(participants))
	results.Totals.AverageCostPerM2 = results.Totals.Total / results.Totals.Surface
	return results
}

func constructionOptions(p participant.Participant) ConstructionOptions {
	return ConstructionOptions{
		ParachevementsPerM2: p.ParachevementsPerM2,
		CascoSqm:            p.CascoSqm,
		ParachevementsSqm:   p.ParachevementsSqm,
	}
}
