package cashflow

import (
	"sort"
	"time"

	"github.com/maraval/coprojet/internal/domain/timeline"
)

// BuildCoproCashFlow derives the co-ownership entity's own ledger from
// the event log: proceeds it collects and redistributes, loan drawdowns
// and repayments, and its recurring obligations (insurance, accounting,
// maintenance). A zero endDate means the date of the last event.
func BuildCoproCashFlow(events []timeline.Event, endDate time.Time) (CoproCashFlow, error) {
	flow := CoproCashFlow{Transactions: []timeline.Transaction{}}
	if len(events) == 0 {
		return flow, nil
	}
	if endDate.IsZero() {
		endDate = events[len(events)-1].Date
	}

	state, err := timeline.Reduce(events)
	if err != nil {
		return flow, err
	}

	flow.StartDate = state.DeedDate
	flow.EndDate = endDate

	var transactions []timeline.Transaction
	for _, tx := range state.Transactions {
		if tx.Date.After(endDate) {
			continue
		}
		switch {
		case tx.To == timeline.Copro:
			// inflow, amount stays positive
		case tx.From == timeline.Copro:
			tx.Amount = -tx.Amount
		default:
			continue
		}
		transactions = append(transactions, tx)
	}

	monthly := state.Copro.MonthlyObligations.Total()
	if monthly > 0 {
		stop := func(at time.Time, _ int) bool { return at.After(endDate) }
		transactions = append(transactions, monthlySeries(state.DeedDate, stop, func(at time.Time, month int) []timeline.Transaction {
			return []timeline.Transaction{{
				Date:            at,
				Kind:            timeline.KindInsurance,
				Flow:            timeline.FlowRecurring,
				Amount:          -monthly,
				From:            timeline.Copro,
				Label:           "co-ownership charges",
				MonthsSinceDeed: month,
			}}
		})...)
	}

	for _, loan := range state.Copro.Loans {
		if loan.MonthlyPayment <= 0 {
			continue
		}
		stop := func(at time.Time, month int) bool {
			return month > loan.Years*12 || at.After(endDate)
		}
		transactions = append(transactions, monthlySeries(loan.StartDate, stop, func(at time.Time, month int) []timeline.Transaction {
			return []timeline.Transaction{{
				Date:            at,
				Kind:            timeline.KindLoanPayment,
				Flow:            timeline.FlowRecurring,
				Amount:          -loan.MonthlyPayment,
				From:            timeline.Copro,
				To:              timeline.Bank,
				Label:           "loan repayment",
				MonthsSinceDeed: month,
			}}
		})...)
	}

	sort.SliceStable(transactions,
		func(i, j int) bool { return transactions[i].Date.Before(transactions[j].Date) })

	var balance float64
	for i := range transactions {
		balance += transactions[i].Amount
		transactions[i].RunningBalance = balance
	}
	if len(transactions) > 0 {
		flow.Transactions = transactions
	}
	flow.Summary = summarize(transactions)
	return flow, nil
}
