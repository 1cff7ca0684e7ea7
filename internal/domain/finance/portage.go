package finance

import (
	"math"
	"time"
)

// YearsHeld returns the holding period in 365.25-day years, clamped to
// zero when end precedes start.
func YearsHeld(start, end time.Time) float64 {
	years := end.Sub(start).Hours() / 24 / daysPerYear
	if years < 0 {
		return 0
	}
	return years
}

// ComputeCarryingCosts returns the monthly cost of holding a portage lot:
// interest on the financed part, prorated property tax and insurance.
func ComputeCarryingCosts(acquisitionCost, capital float64, months int, annualRatePct float64) CarryingCosts {
	costs := CarryingCosts{
		MonthlyInterest:  (acquisitionCost - capital) * annualRatePct / 100 / 12,
		MonthlyTax:       AnnualPropertyTax / 12,
		MonthlyInsurance: AnnualInsurance / 12,
		Months:           months,
	}
	costs.TotalMonthly = costs.MonthlyInterest + costs.MonthlyTax + costs.MonthlyInsurance
	costs.TotalForPeriod = costs.TotalMonthly * float64(months)
	return costs
}

// RegistrationDutyRefund returns the duties the seller recovers when the
// lot is resold strictly under two years after acquisition (restitution of
// 3/5 of the duties paid). At two years or more the refund is zero.
func RegistrationDutyRefund(dutiesPaid, yearsHeld float64) float64 {
	if yearsHeld >= dutyRestitutionYears {
		return 0
	}
	return dutiesPaid * dutyRestitutionShare
}

// PortagePrice prices a founder-held portage lot for resale. The base folds
// the original notary fees into the indexed amount rather than recovering
// them separately; the duty refund is deducted from the buyer's total.
// The surface is fixed by the carried lot.
func PortagePrice(originalPrice, originalNotaryFees, originalConstruction, yearsHeld float64, formula PortageFormula, carrying CarryingCosts, renovations float64) ResalePrice {
	base := originalPrice + originalNotaryFees + originalConstruction
	indexation := base * (math.Pow(1+formula.IndexationRatePct/100, yearsHeld) - 1)
	refund := RegistrationDutyRefund(originalNotaryFees, yearsHeld)
	return ResalePrice{
		Base:           base,
		Indexation:     indexation,
		CarryingCosts:  carrying.TotalForPeriod,
		Renovations:    renovations,
		DutyRefund:     refund,
		Total:          base + indexation + carrying.TotalForPeriod + renovations - refund,
		SurfaceImposed: true,
	}
}

// PortagePriceFromCopro prices a surface chosen out of a copro-held lot.
// Base and carrying costs are prorated by the chosen surface; the buyer
// picks the surface.
func PortagePriceFromCopro(surfaceChosen, totalLotSurface, totalOriginalPrice, yearsHeld float64, formula PortageFormula, totalCarrying CarryingCosts) ResalePrice {
	ratio := surfaceChosen / totalLotSurface
	base := totalOriginalPrice * ratio
	indexation := base * (math.Pow(1+formula.IndexationRatePct/100, yearsHeld) - 1)
	carrying := totalCarrying.TotalForPeriod * ratio
	return ResalePrice{
		Base:           base,
		Indexation:     indexation,
		CarryingCosts:  carrying,
		Total:          base + indexation + carrying,
		SurfaceImposed: false,
	}
}
