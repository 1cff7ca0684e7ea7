package timeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/maraval/coprojet/internal/domain/finance"
	"github.com/maraval/coprojet/internal/domain/participant"
)

// Copro is the ledger name of the collective entity in transactions.
const Copro = "copropriété"

// Notary is the ledger name of the notary in fee transactions.
const Notary = "notaire"

// Bank is the ledger name of the lender in drawdown transactions.
const Bank = "banque"

// Apply folds one event into the state and returns the next state. The
// input state is never mutated. An unrecognized event type fails loudly;
// the log must not contain kinds the reducer cannot interpret.
func Apply(state ProjectionState, evt Event) (ProjectionState, error) {
	switch evt.Type {
	case TypeInitialPurchase:
		return applyInitialPurchase(state, evt)
	case TypeNewcomerJoins:
		return applyNewcomerJoins(state, evt)
	case TypeHiddenLotRevealed:
		return applyHiddenLotRevealed(state, evt)
	case TypePortageSettlement:
		return applyPortageSettlement(state, evt)
	case TypeCoproLoanTaken:
		return applyCoproLoanTaken(state, evt)
	case TypeParticipantExits:
		return applyParticipantExits(state, evt)
	default:
		return state, fmt.Errorf("%w: %q", ErrUnknownEventType, evt.Type)
	}
}

func applyInitialPurchase(_ ProjectionState, evt Event) (ProjectionState, error) {
	var payload InitialPurchasePayload
	if err := decodePayload(evt, &payload); err != nil {
		return ProjectionState{}, err
	}
	if len(payload.Participants) == 0 {
		return ProjectionState{}, fmt.Errorf("%s: participants required: %w", evt.Type, ErrMalformedPayload)
	}

	// The founding purchase replaces everything: prior state is discarded.
	next := NewState()
	next.CurrentDate = evt.Date
	next.DeedDate = evt.Date
	next.Params = payload.Params
	next.Params.Units = cloneUnits(payload.Params.Units)
	next.Participants = cloneParticipants(payload.Participants)
	for i := range next.Participants {
		p := &next.Participants[i]
		if p.EntryDate.IsZero() {
			p.EntryDate = evt.Date
		}
		for j := range p.Lots {
			if p.Lots[j].AcquiredDate.IsZero() {
				p.Lots[j].AcquiredDate = evt.Date
			}
		}
	}
	next.Copro = participant.CoproEntity{
		Lots: append([]participant.CoproLot(nil), payload.HiddenLots...),
		MonthlyObligations: participant.MonthlyObligations{
			Insurance:  finance.AnnualInsurance / 12,
			Accounting: finance.AnnualAccountingFee / 12,
		},
	}
	for i := range next.Copro.Lots {
		if next.Copro.Lots[i].AcquiredDate.IsZero() {
			next.Copro.Lots[i].AcquiredDate = evt.Date
		}
	}
	return next, nil
}

func applyNewcomerJoins(state ProjectionState, evt Event) (ProjectionState, error) {
	var payload NewcomerJoinsPayload
	if err := decodePayload(evt, &payload); err != nil {
		return state, err
	}
	details := payload.Newcomer.PurchaseDetails
	if strings.TrimSpace(payload.Newcomer.Name) == "" || details == nil {
		return state, fmt.Errorf("%s: newcomer with purchase details required: %w", evt.Type, ErrMalformedPayload)
	}

	next := state.clone()
	next.CurrentDate = evt.Date

	sellerIdx := next.ParticipantByName(details.Seller)
	if sellerIdx < 0 {
		return state, fmt.Errorf("%s: %q: %w", evt.Type, details.Seller, ErrUnknownSeller)
	}
	if next.Participants[sellerIdx].Quantity > 1 {
		next.Participants[sellerIdx].Quantity--
	}

	newcomer := cloneParticipant(payload.Newcomer)
	if newcomer.EntryDate.IsZero() {
		newcomer.EntryDate = evt.Date
	}
	for i := range newcomer.Lots {
		if newcomer.Lots[i].AcquiredDate.IsZero() {
			newcomer.Lots[i].AcquiredDate = evt.Date
		}
	}
	// A single-lot newcomer inherits the deal terms onto the lot so
	// downstream ledgers stay per-lot.
	if len(newcomer.Lots) == 1 {
		if newcomer.Lots[0].OriginalPrice == 0 {
			newcomer.Lots[0].OriginalPrice = details.Price
		}
		if newcomer.Lots[0].OriginalNotaryFees == 0 {
			newcomer.Lots[0].OriginalNotaryFees = details.NotaryFees
		}
	}
	next.Participants = append(next.Participants, newcomer)

	next.Transactions = append(next.Transactions,
		Transaction{
			Date:   evt.Date,
			Kind:   KindLotSale,
			Flow:   FlowOneShot,
			Amount: details.Price,
			From:   newcomer.Name,
			To:     details.Seller,
			Label:  fmt.Sprintf("sale of %s to %s", details.LotID, newcomer.Name),
		},
		Transaction{
			Date:   evt.Date,
			Kind:   KindNotaryFees,
			Flow:   FlowOneShot,
			Amount: details.NotaryFees,
			From:   newcomer.Name,
			To:     Notary,
			Label:  fmt.Sprintf("registration duties for %s", newcomer.Name),
		},
	)
	return next, nil
}

func applyHiddenLotRevealed(state ProjectionState, evt Event) (ProjectionState, error) {
	var payload HiddenLotRevealedPayload
	if err := decodePayload(evt, &payload); err != nil {
		return state, err
	}
	if strings.TrimSpace(payload.Buyer.Name) == "" || strings.TrimSpace(payload.LotID) == "" {
		return state, fmt.Errorf("%s: buyer and lot required: %w", evt.Type, ErrMalformedPayload)
	}

	next := state.clone()
	next.CurrentDate = evt.Date

	lot, found := next.Copro.LotByID(payload.LotID)
	if !found {
		return state, fmt.Errorf("%s: %q: %w", evt.Type, payload.LotID, ErrUnknownLot)
	}
	kept := next.Copro.Lots[:0]
	for _, l := range next.Copro.Lots {
		if l.ID != payload.LotID {
			kept = append(kept, l)
		}
	}
	next.Copro.Lots = kept

	buyer := cloneParticipant(payload.Buyer)
	if buyer.EntryDate.IsZero() {
		buyer.EntryDate = evt.Date
	}
	if len(buyer.Lots) == 0 {
		buyer.Lots = []participant.Lot{{
			ID:                 lot.ID,
			Surface:            lot.Surface,
			UnitID:             lot.UnitID,
			AcquiredDate:       evt.Date,
			OriginalPrice:      payload.SalePrice,
			OriginalNotaryFees: payload.NotaryFees,
		}}
	}
	next.Participants = append(next.Participants, buyer)

	// The reserve keeps exactly the share not redistributed.
	next.Copro.CashReserve += payload.SalePrice
	next.Transactions = append(next.Transactions, Transaction{
		Date:   evt.Date,
		Kind:   KindLotSale,
		Flow:   FlowOneShot,
		Amount: payload.SalePrice,
		From:   buyer.Name,
		To:     Copro,
		Label:  fmt.Sprintf("sale of hidden lot %s", lot.ID),
	})
	if payload.NotaryFees > 0 {
		next.Transactions = append(next.Transactions, Transaction{
			Date:   evt.Date,
			Kind:   KindNotaryFees,
			Flow:   FlowOneShot,
			Amount: payload.NotaryFees,
			From:   buyer.Name,
			To:     Notary,
			Label:  fmt.Sprintf("registration duties for %s", buyer.Name),
		})
	}
	for _, entry := range payload.Redistribution {
		next.Copro.CashReserve -= entry.Amount
		next.Transactions = append(next.Transactions, Transaction{
			Date:   evt.Date,
			Kind:   KindRedistribution,
			Flow:   FlowOneShot,
			Amount: entry.Amount,
			From:   Copro,
			To:     entry.Name,
			Label:  fmt.Sprintf("redistribution of %s proceeds", lot.ID),
		})
	}
	return next, nil
}

func applyPortageSettlement(state ProjectionState, evt Event) (ProjectionState, error) {
	var payload PortageSettlementPayload
	if err := decodePayload(evt, &payload); err != nil {
		return state, err
	}
	if strings.TrimSpace(payload.Seller) == "" || strings.TrimSpace(payload.Buyer.Name) == "" ||
		strings.TrimSpace(payload.LotID) == "" {
		return state, fmt.Errorf("%s: seller, buyer and lot required: %w", evt.Type, ErrMalformedPayload)
	}

	next := state.clone()
	next.CurrentDate = evt.Date

	sellerIdx := next.ParticipantByName(payload.Seller)
	if sellerIdx < 0 {
		return state, fmt.Errorf("%s: %q: %w", evt.Type, payload.Seller, ErrUnknownSeller)
	}
	seller := &next.Participants[sellerIdx]
	lotIdx := -1
	for i, lot := range seller.Lots {
		if lot.ID == payload.LotID {
			lotIdx = i
			break
		}
	}
	if lotIdx < 0 {
		return state, fmt.Errorf("%s: %q: %w", evt.Type, payload.LotID, ErrUnknownLot)
	}

	sold := seller.Lots[lotIdx]
	soldDate := evt.Date
	seller.Lots[lotIdx].SoldDate = &soldDate
	seller.Lots[lotIdx].SoldTo = payload.Buyer.Name
	seller.Lots[lotIdx].SalePrice = payload.Price.Total

	surface := sold.Surface
	if sold.AllocatedSurface > 0 {
		surface = sold.AllocatedSurface
	}
	acquired := participant.Lot{
		ID:                 sold.ID,
		Surface:            surface,
		UnitID:             sold.UnitID,
		AcquiredDate:       evt.Date,
		OriginalPrice:      payload.Price.Total,
		OriginalNotaryFees: payload.NotaryFees,
	}

	if buyerIdx := next.ParticipantByName(payload.Buyer.Name); buyerIdx >= 0 {
		next.Participants[buyerIdx].Lots = append(next.Participants[buyerIdx].Lots, acquired)
	} else {
		buyer := cloneParticipant(payload.Buyer)
		if buyer.EntryDate.IsZero() {
			buyer.EntryDate = evt.Date
		}
		buyer.Lots = append(buyer.Lots, acquired)
		if buyer.PurchaseDetails == nil {
			buyer.PurchaseDetails = &participant.PurchaseDetails{
				Seller:        payload.Seller,
				LotID:         payload.LotID,
				Price:         payload.Price.Total,
				NotaryFees:    payload.NotaryFees,
				Indexation:    payload.Price.Indexation,
				CarryingCosts: payload.Price.CarryingCosts,
			}
		}
		next.Participants = append(next.Participants, buyer)
	}

	next.Transactions = append(next.Transactions,
		Transaction{
			Date:   evt.Date,
			Kind:   KindLotSale,
			Flow:   FlowOneShot,
			Amount: payload.Price.Total - payload.Price.CarryingCosts,
			From:   payload.Buyer.Name,
			To:     payload.Seller,
			Label:  fmt.Sprintf("portage lot %s transferred", payload.LotID),
		},
		Transaction{
			Date:   evt.Date,
			Kind:   KindSettlement,
			Flow:   FlowOneShot,
			Amount: payload.Price.CarryingCosts,
			From:   payload.Buyer.Name,
			To:     payload.Seller,
			Label:  fmt.Sprintf("carrying costs recovered on %s", payload.LotID),
		},
	)
	if payload.NotaryFees > 0 {
		next.Transactions = append(next.Transactions, Transaction{
			Date:   evt.Date,
			Kind:   KindNotaryFees,
			Flow:   FlowOneShot,
			Amount: payload.NotaryFees,
			From:   payload.Buyer.Name,
			To:     Notary,
			Label:  fmt.Sprintf("registration duties for %s", payload.Buyer.Name),
		})
	}
	return next, nil
}

func applyCoproLoanTaken(state ProjectionState, evt Event) (ProjectionState, error) {
	var payload CoproLoanPayload
	if err := decodePayload(evt, &payload); err != nil {
		return state, err
	}
	if payload.Amount <= 0 || payload.Years <= 0 {
		return state, fmt.Errorf("%s: positive amount and term required: %w", evt.Type, ErrMalformedPayload)
	}

	next := state.clone()
	next.CurrentDate = evt.Date
	next.Copro.Loans = append(next.Copro.Loans, participant.CoproLoan{
		ID:             evt.ID,
		Amount:         payload.Amount,
		AnnualRatePct:  payload.AnnualRatePct,
		Years:          payload.Years,
		StartDate:      evt.Date,
		MonthlyPayment: finance.MonthlyPayment(payload.Amount, payload.AnnualRatePct, payload.Years),
	})
	next.Copro.CashReserve += payload.Amount

	label := payload.Label
	if label == "" {
		label = "copropriété loan drawdown"
	}
	next.Transactions = append(next.Transactions, Transaction{
		Date:   evt.Date,
		Kind:   KindLoanDrawdown,
		Flow:   FlowOneShot,
		Amount: payload.Amount,
		From:   Bank,
		To:     Copro,
		Label:  label,
	})
	return next, nil
}

func applyParticipantExits(state ProjectionState, evt Event) (ProjectionState, error) {
	var payload ParticipantExitsPayload
	if err := decodePayload(evt, &payload); err != nil {
		return state, err
	}
	if strings.TrimSpace(payload.Name) == "" {
		return state, fmt.Errorf("%s: name required: %w", evt.Type, ErrMalformedPayload)
	}

	next := state.clone()
	next.CurrentDate = evt.Date

	idx := next.ParticipantByName(payload.Name)
	if idx < 0 {
		return state, fmt.Errorf("%s: %q: %w", evt.Type, payload.Name, ErrUnknownParticipant)
	}

	leaving := &next.Participants[idx]
	exitDate := evt.Date
	leaving.ExitDate = &exitDate

	// Unsold lots fall back to the copropriété; the participant stays in
	// the list with their exit date.
	var kept []participant.Lot
	for _, lot := range leaving.Lots {
		if lot.Sold() {
			kept = append(kept, lot)
			continue
		}
		next.Copro.Lots = append(next.Copro.Lots, participant.CoproLot{
			ID:                       lot.ID,
			Surface:                  lot.Surface,
			UnitID:                   lot.UnitID,
			AcquiredDate:             lot.AcquiredDate,
			OriginalPrice:            lot.OriginalPrice,
			OriginalNotaryFees:       lot.OriginalNotaryFees,
			OriginalConstructionCost: lot.OriginalConstructionCost,
		})
	}
	leaving.Lots = kept
	return next, nil
}

func decodePayload(evt Event, into any) error {
	if len(evt.Payload) == 0 {
		return fmt.Errorf("%s: empty payload: %w", evt.Type, ErrMalformedPayload)
	}
	if err := json.Unmarshal(evt.Payload, into); err != nil {
		return fmt.Errorf("decode %s payload: %w", evt.Type, err)
	}
	return nil
}
