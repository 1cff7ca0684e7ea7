package cashflow

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/maraval/coprojet/internal/domain/finance"
	"github.com/maraval/coprojet/internal/domain/participant"
	"github.com/maraval/coprojet/internal/domain/timeline"
)

// BuildParticipantCashFlow derives the named participant's transaction
// ledger from the event log up to endDate. A zero endDate means the date
// of the last event; the engine itself never reads the clock.
//
// One-shots (purchase, notary fees) fall on each lot's acquisition date.
// Recurring payments run on calendar months, the first one exactly one
// calendar month after acquisition: full amortization for regular lots,
// interest plus prorated tax and insurance for carried portage lots.
// Sale, settlement and redistribution income lands on its event date.
//
// A name absent from the log yields an empty ledger and a zero summary,
// not an error.
func BuildParticipantCashFlow(events []timeline.Event, name string, endDate time.Time) (ParticipantCashFlow, error) {
	flow := ParticipantCashFlow{
		ParticipantName: name,
		Transactions:    []timeline.Transaction{},
	}
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
	idx := state.ParticipantByName(name)
	if idx < 0 {
		return flow, nil
	}
	p := state.Participants[idx]

	flow.StartDate = p.EntryDate
	flow.EndDate = endDate

	var transactions []timeline.Transaction
	for _, lot := range p.Lots {
		transactions = append(transactions, lotOneShots(p.Name, lot)...)
	}
	income, err := incomeTransactions(events, name, endDate)
	if err != nil {
		return flow, err
	}
	transactions = append(transactions, income...)
	transactions = append(transactions, recurringTransactions(p, endDate)...)

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

func lotOneShots(owner string, lot participant.Lot) []timeline.Transaction {
	shots := []timeline.Transaction{{
		Date:   lot.AcquiredDate,
		Kind:   timeline.KindLotPurchase,
		Flow:   timeline.FlowOneShot,
		Amount: -lot.OriginalPrice,
		From:   owner,
		Label:  fmt.Sprintf("purchase of %s", lot.ID),
	}}
	if lot.OriginalNotaryFees != 0 {
		shots = append(shots, timeline.Transaction{
			Date:   lot.AcquiredDate,
			Kind:   timeline.KindNotaryFees,
			Flow:   timeline.FlowOneShot,
			Amount: -lot.OriginalNotaryFees,
			From:   owner,
			To:     timeline.Notary,
			Label:  fmt.Sprintf("registration duties on %s", lot.ID),
		})
	}
	return shots
}

// incomeTransactions walks the log for money flowing to the named
// participant: sales of carried units, portage settlements, redistributed
// copro proceeds.
func incomeTransactions(events []timeline.Event, name string, endDate time.Time) ([]timeline.Transaction, error) {
	var income []timeline.Transaction
	for _, evt := range events {
		if evt.Date.After(endDate) {
			break
		}
		switch evt.Type {
		case timeline.TypeNewcomerJoins:
			var payload timeline.NewcomerJoinsPayload
			if err := json.Unmarshal(evt.Payload, &payload); err != nil {
				return nil, fmt.Errorf("decode %s payload: %w", evt.Type, err)
			}
			details := payload.Newcomer.PurchaseDetails
			if details == nil || details.Seller != name {
				continue
			}
			income = append(income, timeline.Transaction{
				Date:   evt.Date,
				Kind:   timeline.KindLotSale,
				Flow:   timeline.FlowOneShot,
				Amount: details.Price,
				From:   payload.Newcomer.Name,
				To:     name,
				Label:  fmt.Sprintf("sale of %s to %s", details.LotID, payload.Newcomer.Name),
			})
		case timeline.TypeHiddenLotRevealed:
			var payload timeline.HiddenLotRevealedPayload
			if err := json.Unmarshal(evt.Payload, &payload); err != nil {
				return nil, fmt.Errorf("decode %s payload: %w", evt.Type, err)
			}
			for _, entry := range payload.Redistribution {
				if entry.Name != name {
					continue
				}
				income = append(income, timeline.Transaction{
					Date:   evt.Date,
					Kind:   timeline.KindRedistribution,
					Flow:   timeline.FlowOneShot,
					Amount: entry.Amount,
					From:   timeline.Copro,
					To:     name,
					Label:  fmt.Sprintf("redistribution of %s proceeds", payload.LotID),
				})
			}
		case timeline.TypePortageSettlement:
			var payload timeline.PortageSettlementPayload
			if err := json.Unmarshal(evt.Payload, &payload); err != nil {
				return nil, fmt.Errorf("decode %s payload: %w", evt.Type, err)
			}
			if payload.Seller != name {
				continue
			}
			income = append(income,
				timeline.Transaction{
					Date:   evt.Date,
					Kind:   timeline.KindLotSale,
					Flow:   timeline.FlowOneShot,
					Amount: payload.Price.Total - payload.Price.CarryingCosts,
					From:   payload.Buyer.Name,
					To:     name,
					Label:  fmt.Sprintf("portage lot %s transferred", payload.LotID),
				},
				timeline.Transaction{
					Date:   evt.Date,
					Kind:   timeline.KindSettlement,
					Flow:   timeline.FlowOneShot,
					Amount: payload.Price.CarryingCosts,
					From:   payload.Buyer.Name,
					To:     name,
					Label:  fmt.Sprintf("carrying costs recovered on %s", payload.LotID),
				},
			)
		}
	}
	return income, nil
}

// recurringTransactions expands the participant's monthly outflows through
// endDate: one amortized loan payment stream over the non-portage lots,
// and per portage lot an interest-only stream with tax and insurance.
func recurringTransactions(p participant.Participant, endDate time.Time) []timeline.Transaction {
	var recurring []timeline.Transaction

	var loanBase float64
	for _, lot := range p.Lots {
		if lot.IsPortage {
			continue
		}
		loanBase += lot.OriginalPrice + lot.OriginalNotaryFees + lot.OriginalConstructionCost
	}
	loanBase -= p.Capital
	payment := finance.MonthlyPayment(loanBase, p.LoanRatePct, p.LoanYears)
	if payment > 0 {
		stop := func(at time.Time, month int) bool {
			return month > p.LoanYears*12 || beyond(at, endDate, p.ExitDate)
		}
		recurring = append(recurring, monthlySeries(p.EntryDate, stop, func(at time.Time, month int) []timeline.Transaction {
			return []timeline.Transaction{{
				Date:            at,
				Kind:            timeline.KindLoanPayment,
				Flow:            timeline.FlowRecurring,
				Amount:          -payment,
				From:            p.Name,
				Label:           "loan payment",
				MonthsSinceDeed: month,
			}}
		})...)
	}

	for _, lot := range p.Lots {
		if !lot.IsPortage {
			continue
		}
		interest := lot.MonthlyCarryingCost
		if interest == 0 {
			acquisition := lot.OriginalPrice + lot.OriginalNotaryFees + lot.OriginalConstructionCost
			interest = finance.MonthlyInterest(acquisition, p.LoanRatePct)
		}
		lotID := lot.ID
		soldDate := lot.SoldDate
		stop := func(at time.Time, _ int) bool {
			if soldDate != nil && !at.Before(*soldDate) {
				return true
			}
			return beyond(at, endDate, p.ExitDate)
		}
		recurring = append(recurring, monthlySeries(lot.AcquiredDate, stop, func(at time.Time, month int) []timeline.Transaction {
			return []timeline.Transaction{
				{
					Date:            at,
					Kind:            timeline.KindPortageInterest,
					Flow:            timeline.FlowRecurring,
					Amount:          -interest,
					From:            p.Name,
					Label:           fmt.Sprintf("portage interest on %s", lotID),
					MonthsSinceDeed: month,
				},
				{
					Date:            at,
					Kind:            timeline.KindPropertyTax,
					Flow:            timeline.FlowRecurring,
					Amount:          -finance.AnnualPropertyTax / 12,
					From:            p.Name,
					Label:           fmt.Sprintf("property tax on %s", lotID),
					MonthsSinceDeed: month,
				},
				{
					Date:            at,
					Kind:            timeline.KindInsurance,
					Flow:            timeline.FlowRecurring,
					Amount:          -finance.AnnualInsurance / 12,
					From:            p.Name,
					Label:           fmt.Sprintf("insurance on %s", lotID),
					MonthsSinceDeed: month,
				},
			}
		})...)
	}
	return recurring
}

// monthlySeries emits transactions on calendar months counted from start.
// The first emission is one calendar month after start; month ordinals
// begin at 1.
func monthlySeries(start time.Time, stop func(time.Time, int) bool, emit func(time.Time, int) []timeline.Transaction) []timeline.Transaction {
	var out []timeline.Transaction
	for month := 1; ; month++ {
		at := start.AddDate(0, month, 0)
		if stop(at, month) {
			return out
		}
		out = append(out, emit(at, month)...)
	}
}

// beyond reports whether a recurring payment at the given date falls
// outside the ledger window. The exit date is exclusive.
func beyond(at, endDate time.Time, exit *time.Time) bool {
	if at.After(endDate) {
		return true
	}
	return exit != nil && !at.Before(*exit)
}

func summarize(transactions []timeline.Transaction) Summary {
	var s Summary
	recurringMonths := map[string]struct{}{}
	var recurringOut float64
	for _, tx := range transactions {
		if tx.Amount < 0 {
			s.TotalInvested -= tx.Amount
		} else {
			s.TotalReceived += tx.Amount
		}
		if tx.Flow == timeline.FlowRecurring && tx.Amount < 0 {
			recurringOut -= tx.Amount
			recurringMonths[tx.Date.Format("2006-01")] = struct{}{}
		}
	}
	s.NetPosition = s.TotalReceived - s.TotalInvested
	if len(recurringMonths) > 0 {
		s.MonthlyBurnRate = recurringOut / float64(len(recurringMonths))
	}
	return s
}
