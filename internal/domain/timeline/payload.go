package timeline

import (
	"github.com/maraval/coprojet/internal/domain/finance"
	"github.com/maraval/coprojet/internal/domain/participant"
)

// InitialPurchasePayload captures the payload for project.initial_purchase
// events: the full founding snapshot.
type InitialPurchasePayload struct {
	Participants []participant.Participant `json:"participants"`
	Params       finance.ProjectParams     `json:"params"`
	HiddenLots   []participant.CoproLot    `json:"hidden_lots,omitempty"`
}

// NewcomerJoinsPayload captures the payload for participant.newcomer_joins
// events. The newcomer's PurchaseDetails names the seller and the price.
type NewcomerJoinsPayload struct {
	Newcomer participant.Participant `json:"newcomer"`
}

// HiddenLotRevealedPayload captures the payload for copro.hidden_lot_revealed
// events. Redistribution entries are computed when the event is built so the
// recorded fact carries the exact amounts paid out.
type HiddenLotRevealedPayload struct {
	Buyer          participant.Participant       `json:"buyer"`
	LotID          string                        `json:"lot_id"`
	SalePrice      float64                       `json:"sale_price"`
	NotaryFees     float64                       `json:"notary_fees"`
	Redistribution []finance.RedistributionEntry `json:"redistribution,omitempty"`
}

// PortageSettlementPayload captures the payload for portage.settlement
// events: a carried lot moves from its founder to the buyer at the quoted
// resale price.
type PortageSettlementPayload struct {
	Seller     string                  `json:"seller"`
	Buyer      participant.Participant `json:"buyer"`
	LotID      string                  `json:"lot_id"`
	Price      finance.ResalePrice     `json:"price"`
	NotaryFees float64                 `json:"notary_fees"`
}

// CoproLoanPayload captures the payload for copro.loan_taken events. The
// monthly payment is derived when the event is applied.
type CoproLoanPayload struct {
	Amount        float64 `json:"amount"`
	AnnualRatePct float64 `json:"annual_rate_pct"`
	Years         int     `json:"years"`
	Label         string  `json:"label,omitempty"`
}

// ParticipantExitsPayload captures the payload for participant.exits events.
type ParticipantExitsPayload struct {
	Name string `json:"name"`
}
