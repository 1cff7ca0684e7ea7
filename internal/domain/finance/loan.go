package finance

import (
	"math"
	"time"
)

// MonthlyPayment returns the standard amortizing-loan payment. Loans of
// zero or less cost nothing; a zero rate splits the principal linearly.
func MonthlyPayment(loanAmount, annualRatePct float64, years int) float64 {
	if loanAmount <= 0 {
		return 0
	}
	months := float64(years) * 12
	monthlyRate := annualRatePct / 100 / 12
	if monthlyRate == 0 {
		return loanAmount / months
	}
	return loanAmount * monthlyRate / (1 - math.Pow(1+monthlyRate, -months))
}

// TotalInterest returns the interest paid over the full loan term.
func TotalInterest(monthlyPayment float64, years int, loanAmount float64) float64 {
	if loanAmount <= 0 {
		return 0
	}
	return monthlyPayment*float64(years)*12 - loanAmount
}

// MonthlyInterest returns one month of interest on the outstanding amount.
func MonthlyInterest(outstanding, annualRatePct float64) float64 {
	if outstanding <= 0 {
		return 0
	}
	return outstanding * annualRatePct / 100 / 12
}

// AmortizationSchedule expands a loan into its per-month repayment rows.
// The last row retires the full remaining principal so the schedule closes
// at zero. Returns nil for non-positive loans or terms.
func AmortizationSchedule(loanAmount, annualRatePct float64, years int, start time.Time) []AmortizationEntry {
	if loanAmount <= 0 || years <= 0 {
		return nil
	}
	payment := MonthlyPayment(loanAmount, annualRatePct, years)
	monthlyRate := annualRatePct / 100 / 12
	months := years * 12
	remaining := loanAmount

	schedule := make([]AmortizationEntry, 0, months)
	for m := 1; m <= months; m++ {
		interest := remaining * monthlyRate
		principal := payment - interest
		if m == months {
			principal = remaining
		}
		remaining -= principal
		schedule = append(schedule, AmortizationEntry{
			Month:     m,
			Date:      start.AddDate(0, m, 0),
			Payment:   principal + interest,
			Principal: principal,
			Interest:  interest,
			Remaining: remaining,
		})
	}
	return schedule
}
