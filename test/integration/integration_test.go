package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/maraval/coprojet/internal/domain/activity"
	"github.com/maraval/coprojet/internal/domain/cashflow"
	"github.com/maraval/coprojet/internal/domain/finance"
	"github.com/maraval/coprojet/internal/domain/participant"
	"github.com/maraval/coprojet/internal/domain/project"
	"github.com/maraval/coprojet/internal/domain/timeline"
	"github.com/maraval/coprojet/internal/exchange"
	"github.com/maraval/coprojet/internal/sqlite"
	"github.com/stretchr/testify/require"
)

const testRelease = "0.3.0-test"

// testEnv wires the full service stack over one in-memory database.
type testEnv struct {
	db          *sqlite.DB
	projectSvc  *project.Service
	timelineSvc *timeline.Service
	activitySvc *activity.Service
	exchangeSvc *exchange.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	projectRepo := sqlite.NewProjectRepository(db)
	eventRepo := sqlite.NewEventRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	return &testEnv{
		db:          db,
		projectSvc:  project.NewService(projectRepo, activityRepo, nil),
		timelineSvc: timeline.NewService(eventRepo, activityRepo, nil),
		activitySvc: activity.NewService(activityRepo, nil),
		exchangeSvc: exchange.NewService(projectRepo, eventRepo, activityRepo, testRelease, nil),
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// founders is the baseline of the test project: Anne carries two identical
// units, Bernard lives in one unit and carries a portage lot.
func founders() []participant.Participant {
	return []participant.Participant{
		{
			Name:          "Anne",
			Capital:       150000,
			NotaryRatePct: 12.5,
			LoanRatePct:   4.5,
			LoanYears:     25,
			Founder:       true,
			Quantity:      2,
			Lots: []participant.Lot{{
				ID:            "lot-a",
				Surface:       112,
				UnitID:        "A",
				OriginalPrice: 154237,
			}},
		},
		{
			Name:          "Bernard",
			Capital:       90000,
			NotaryRatePct: 12.5,
			LoanRatePct:   4.2,
			LoanYears:     20,
			Founder:       true,
			Lots: []participant.Lot{
				{
					ID:            "lot-b",
					Surface:       134,
					UnitID:        "B",
					OriginalPrice: 184534,
				},
				{
					ID:                  "lot-p",
					Surface:             50,
					UnitID:              "P",
					IsPortage:           true,
					OriginalPrice:       68850,
					OriginalNotaryFees:  8606.25,
					MonthlyCarryingCost: 547.79,
				},
			},
		},
	}
}

func baseParams() finance.ProjectParams {
	return finance.ProjectParams{
		TotalPurchase:  650000,
		CascoPerM2:     2200,
		TravauxCommuns: 80980,
		Portage: finance.PortageFormula{
			IndexationRatePct: 2,
			InterestRatePct:   4.5,
		},
	}
}

func createProject(t *testing.T, env *testEnv) *project.Project {
	t.Helper()
	proj, err := env.projectSvc.Create(context.Background(), project.CreateRequest{
		Name:         "Les Tilleuls",
		Description:  "habitat groupé wallon",
		DeedDate:     date(2024, time.June, 1),
		Participants: founders(),
		Params:       baseParams(),
	})
	require.NoError(t, err)
	return proj
}

func appendEvent(t *testing.T, env *testEnv, projectID string, eventType timeline.Type, at time.Time, payload any) *timeline.Event {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	evt, err := env.timelineSvc.Append(context.Background(), timeline.AppendRequest{
		ProjectID: projectID,
		Type:      eventType,
		Date:      at,
		Payload:   raw,
	})
	require.NoError(t, err)
	return evt
}

func appendInitialPurchase(t *testing.T, env *testEnv, projectID string) *timeline.Event {
	t.Helper()
	return appendEvent(t, env, projectID, timeline.TypeInitialPurchase, date(2024, time.June, 1), timeline.InitialPurchasePayload{
		Participants: founders(),
		Params:       baseParams(),
		HiddenLots: []participant.CoproLot{{
			ID:            "lot-h",
			Surface:       95,
			UnitID:        "H",
			OriginalPrice: 130822,
		}},
	})
}

// TestColdStartWorkflow drives the full happy path: create a project,
// record its founding purchase, a copro loan and a newcomer, then read the
// derived state, the cost snapshot and the cash-flow ledgers back.
func TestColdStartWorkflow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	proj := createProject(t, env)
	require.NotEmpty(t, proj.ID)
	require.Equal(t, int64(1), proj.Version)

	evt := appendInitialPurchase(t, env, proj.ID)
	require.Equal(t, uint64(1), evt.Seq)

	state, err := env.timelineSvc.CurrentState(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, state.Participants, 2)
	require.Equal(t, "2024-06-01", state.DeedDate.Format("2006-01-02"))
	require.Equal(t, "2024-06-01", state.Participants[0].EntryDate.Format("2006-01-02"))
	require.Equal(t, "2024-06-01", state.Participants[0].Lots[0].AcquiredDate.Format("2006-01-02"))
	require.Len(t, state.Copro.Lots, 1)
	require.Equal(t, "2024-06-01", state.Copro.Lots[0].AcquiredDate.Format("2006-01-02"))
	require.InDelta(t, finance.AnnualInsurance/12, state.Copro.MonthlyObligations.Insurance, 0.001)
	require.InDelta(t, finance.AnnualAccountingFee/12, state.Copro.MonthlyObligations.Accounting, 0.001)
	require.Zero(t, state.Copro.CashReserve)

	appendEvent(t, env, proj.ID, timeline.TypeCoproLoanTaken, date(2024, time.September, 1), timeline.CoproLoanPayload{
		Amount:        50000,
		AnnualRatePct: 3.5,
		Years:         15,
	})

	state, err = env.timelineSvc.CurrentState(ctx, proj.ID)
	require.NoError(t, err)
	require.InDelta(t, 50000, state.Copro.CashReserve, 0.001)
	require.Len(t, state.Copro.Loans, 1)
	require.Greater(t, state.Copro.Loans[0].MonthlyPayment, 0.0)
	require.Equal(t, finance.MonthlyPayment(50000, 3.5, 15), state.Copro.Loans[0].MonthlyPayment)

	appendEvent(t, env, proj.ID, timeline.TypeNewcomerJoins, date(2025, time.June, 1), timeline.NewcomerJoinsPayload{
		Newcomer: participant.Participant{
			Name:          "Claire",
			Capital:       60000,
			NotaryRatePct: 12.5,
			LoanRatePct:   4.2,
			LoanYears:     20,
			Lots:          []participant.Lot{{ID: "lot-c", Surface: 112, UnitID: "A"}},
			PurchaseDetails: &participant.PurchaseDetails{
				Seller:     "Anne",
				LotID:      "lot-c",
				Price:      140000,
				NotaryFees: 17500,
			},
		},
	})

	state, err = env.timelineSvc.CurrentState(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, state.Participants, 3)
	require.Equal(t, 1, state.Participants[0].Quantity)
	claire := state.Participants[2]
	require.Equal(t, "Claire", claire.Name)
	require.Equal(t, "2025-06-01", claire.EntryDate.Format("2006-01-02"))
	require.InDelta(t, 140000, claire.Lots[0].OriginalPrice, 0.001)
	require.InDelta(t, 17500, claire.Lots[0].OriginalNotaryFees, 0.001)

	kinds := map[timeline.TransactionKind]int{}
	for _, tx := range state.Transactions {
		kinds[tx.Kind]++
	}
	require.Equal(t, 1, kinds[timeline.KindLoanDrawdown])
	require.Equal(t, 1, kinds[timeline.KindLotSale])
	require.Equal(t, 1, kinds[timeline.KindNotaryFees])

	page, err := env.timelineSvc.List(ctx, proj.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	rest, err := env.timelineSvc.List(ctx, proj.ID, page[1].Seq, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, timeline.TypeNewcomerJoins, rest[0].Type)

	// The cost snapshot runs on the stored baseline, not the replayed state.
	results, err := env.projectSvc.Compute(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, results.Participants, 2)
	require.InDelta(t, 408, results.Totals.Surface, 0.001)
	require.InDelta(t, 650000/408.0, results.PricePerM2, 0.01)
	require.Greater(t, results.Totals.Total, results.Totals.Purchase)

	events, err := env.timelineSvc.All(ctx, proj.ID)
	require.NoError(t, err)
	flow, err := cashflow.BuildParticipantCashFlow(events, "Claire", date(2026, time.June, 1))
	require.NoError(t, err)
	require.Equal(t, "Claire", flow.ParticipantName)
	require.NotEmpty(t, flow.Transactions)
	require.GreaterOrEqual(t, flow.Summary.TotalInvested, 157500.0)
	require.Less(t, flow.Summary.NetPosition, 0.0)

	coproFlow, err := cashflow.BuildCoproCashFlow(events, date(2026, time.June, 1))
	require.NoError(t, err)
	require.GreaterOrEqual(t, coproFlow.Summary.TotalReceived, 50000.0)
}

// TestSnapshotConflictDetection exercises the optimistic concurrency guard
// around the project baseline.
func TestSnapshotConflictDetection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	proj := createProject(t, env)

	edited := founders()
	edited[0].Capital = 180000

	saved, conflict, err := env.projectSvc.SaveSnapshot(ctx, project.SaveSnapshotRequest{
		ProjectID:    proj.ID,
		Participants: edited,
		Params:       baseParams(),
		BaseVersion:  1,
	})
	require.NoError(t, err)
	require.Nil(t, conflict)
	require.Equal(t, int64(2), saved.Version)
	require.InDelta(t, 180000, saved.Participants[0].Capital, 0.001)

	stale, conflict, err := env.projectSvc.SaveSnapshot(ctx, project.SaveSnapshotRequest{
		ProjectID:    proj.ID,
		Participants: founders(),
		Params:       baseParams(),
		BaseVersion:  1,
	})
	require.NoError(t, err)
	require.Nil(t, stale)
	require.NotNil(t, conflict)
	require.Equal(t, int64(1), conflict.BaseVersion)
	require.Equal(t, int64(2), conflict.CurrentVersion)
	require.NotNil(t, conflict.Remote)
	require.Equal(t, int64(2), conflict.Remote.Version)

	// The conflicting attempt left the stored baseline untouched.
	current, err := env.projectSvc.Get(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), current.Version)
	require.InDelta(t, 180000, current.Participants[0].Capital, 0.001)

	forced, conflict, err := env.projectSvc.SaveSnapshot(ctx, project.SaveSnapshotRequest{
		ProjectID:    proj.ID,
		Participants: founders(),
		Params:       baseParams(),
		BaseVersion:  1,
		Force:        true,
	})
	require.NoError(t, err)
	require.Nil(t, conflict)
	require.Equal(t, int64(3), forced.Version)

	entries, err := env.activitySvc.Recent(ctx, activity.ListOptions{ProjectID: proj.ID, Limit: 10})
	require.NoError(t, err)
	var conflicts int
	for _, entry := range entries {
		if entry.Type == activity.TypeConflictDetected {
			conflicts++
		}
	}
	require.Equal(t, 1, conflicts)
}

// TestEventOrderEnforcement verifies that appends are validated against the
// log head and the replayed state before anything is stored.
func TestEventOrderEnforcement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	proj := createProject(t, env)
	appendInitialPurchase(t, env, proj.ID)
	appendEvent(t, env, proj.ID, timeline.TypeCoproLoanTaken, date(2024, time.September, 1), timeline.CoproLoanPayload{
		Amount:        50000,
		AnnualRatePct: 3.5,
		Years:         15,
	})

	raw, err := json.Marshal(timeline.CoproLoanPayload{Amount: 20000, AnnualRatePct: 3.5, Years: 10})
	require.NoError(t, err)

	_, err = env.timelineSvc.Append(ctx, timeline.AppendRequest{
		ProjectID: proj.ID,
		Type:      timeline.TypeCoproLoanTaken,
		Date:      date(2024, time.August, 1),
		Payload:   raw,
	})
	require.ErrorIs(t, err, timeline.ErrEventOrder)

	_, err = env.timelineSvc.Append(ctx, timeline.AppendRequest{
		ProjectID: proj.ID,
		Type:      timeline.Type("copro.dividend_paid"),
		Date:      date(2025, time.January, 1),
		Payload:   raw,
	})
	require.ErrorIs(t, err, timeline.ErrUnknownEventType)

	newcomer, err := json.Marshal(timeline.NewcomerJoinsPayload{
		Newcomer: participant.Participant{
			Name: "Claire",
			Lots: []participant.Lot{{ID: "lot-c", Surface: 95, UnitID: "C"}},
			PurchaseDetails: &participant.PurchaseDetails{
				Seller: "Zoé",
				LotID:  "lot-c",
				Price:  100000,
			},
		},
	})
	require.NoError(t, err)
	_, err = env.timelineSvc.Append(ctx, timeline.AppendRequest{
		ProjectID: proj.ID,
		Type:      timeline.TypeNewcomerJoins,
		Date:      date(2025, time.January, 1),
		Payload:   newcomer,
	})
	require.ErrorIs(t, err, timeline.ErrUnknownSeller)

	_, err = env.timelineSvc.Append(ctx, timeline.AppendRequest{
		ProjectID: proj.ID,
		Type:      timeline.TypeCoproLoanTaken,
		Payload:   raw,
	})
	require.ErrorIs(t, err, timeline.ErrInvalidInput)

	// Rejected appends leave the log untouched.
	events, err := env.timelineSvc.All(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Order is non-decreasing, not strict: same-date appends are fine.
	evt := appendEvent(t, env, proj.ID, timeline.TypeCoproLoanTaken, date(2024, time.September, 1), timeline.CoproLoanPayload{
		Amount:        20000,
		AnnualRatePct: 3.0,
		Years:         10,
	})
	require.Equal(t, uint64(3), evt.Seq)
}

// TestPortageSettlementWorkflow walks a carried lot from founder to buyer
// and then the founder out of the project.
func TestPortageSettlementWorkflow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	proj := createProject(t, env)
	appendInitialPurchase(t, env, proj.ID)

	carrying := 547.79 * 27
	price := finance.ResalePrice{
		Base:           77456.25,
		Indexation:     3500.86,
		CarryingCosts:  carrying,
		Total:          77456.25 + 3500.86 + carrying,
		SurfaceImposed: true,
	}
	appendEvent(t, env, proj.ID, timeline.TypePortageSettlement, date(2026, time.September, 1), timeline.PortageSettlementPayload{
		Seller: "Bernard",
		Buyer: participant.Participant{
			Name:          "Claire",
			Capital:       40000,
			NotaryRatePct: 12.5,
			LoanRatePct:   4.2,
			LoanYears:     20,
		},
		LotID:      "lot-p",
		Price:      price,
		NotaryFees: 9682.03,
	})

	state, err := env.timelineSvc.CurrentState(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, state.Participants, 3)

	bernard := state.Participants[1]
	var sold participant.Lot
	for _, lot := range bernard.Lots {
		if lot.ID == "lot-p" {
			sold = lot
		}
	}
	require.True(t, sold.Sold())
	require.Equal(t, "Claire", sold.SoldTo)
	require.InDelta(t, price.Total, sold.SalePrice, 0.001)

	claire := state.Participants[2]
	require.Equal(t, "Claire", claire.Name)
	require.Len(t, claire.Lots, 1)
	require.Equal(t, "lot-p", claire.Lots[0].ID)
	require.InDelta(t, 50, claire.Lots[0].Surface, 0.001)
	require.InDelta(t, price.Total, claire.Lots[0].OriginalPrice, 0.001)
	require.Equal(t, "2026-09-01", claire.Lots[0].AcquiredDate.Format("2006-01-02"))
	require.NotNil(t, claire.PurchaseDetails)
	require.Equal(t, "Bernard", claire.PurchaseDetails.Seller)

	var sale, settlement timeline.Transaction
	for _, tx := range state.Transactions {
		switch tx.Kind {
		case timeline.KindLotSale:
			sale = tx
		case timeline.KindSettlement:
			settlement = tx
		}
	}
	require.InDelta(t, price.Total-carrying, sale.Amount, 0.001)
	require.Equal(t, "Claire", sale.From)
	require.Equal(t, "Bernard", sale.To)
	require.InDelta(t, carrying, settlement.Amount, 0.001)

	// The seller's ledger shows the sale and the carrying costs coming back.
	events, err := env.timelineSvc.All(ctx, proj.ID)
	require.NoError(t, err)
	sellerFlow, err := cashflow.BuildParticipantCashFlow(events, "Bernard", date(2026, time.December, 1))
	require.NoError(t, err)
	require.GreaterOrEqual(t, sellerFlow.Summary.TotalReceived, price.Total)

	// Bernard leaves; his unsold lot falls back to the copropriété, the
	// sold one stays on his record.
	appendEvent(t, env, proj.ID, timeline.TypeParticipantExits, date(2027, time.January, 1), timeline.ParticipantExitsPayload{Name: "Bernard"})

	state, err = env.timelineSvc.CurrentState(ctx, proj.ID)
	require.NoError(t, err)
	bernard = state.Participants[1]
	require.NotNil(t, bernard.ExitDate)
	require.Len(t, bernard.Lots, 1)
	require.Equal(t, "lot-p", bernard.Lots[0].ID)
	require.False(t, bernard.ActiveAt(date(2027, time.February, 1)))

	ids := make([]string, 0, len(state.Copro.Lots))
	for _, lot := range state.Copro.Lots {
		ids = append(ids, lot.ID)
	}
	require.Contains(t, ids, "lot-h")
	require.Contains(t, ids, "lot-b")

	states, err := env.timelineSvc.States(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, states, 3)
	require.Len(t, states[0].Participants, 2)
	require.Len(t, states[1].Participants, 3)
}

// TestHiddenLotRevealWorkflow sells a copro-held lot and checks the cash
// reserve keeps exactly what the recorded redistribution leaves behind.
func TestHiddenLotRevealWorkflow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	proj := createProject(t, env)
	appendInitialPurchase(t, env, proj.ID)

	appendEvent(t, env, proj.ID, timeline.TypeHiddenLotRevealed, date(2026, time.March, 1), timeline.HiddenLotRevealedPayload{
		Buyer: participant.Participant{
			Name:          "Denis",
			Capital:       70000,
			NotaryRatePct: 12.5,
			LoanRatePct:   4.0,
			LoanYears:     20,
		},
		LotID:      "lot-h",
		SalePrice:  140000,
		NotaryFees: 17500,
		Redistribution: []finance.RedistributionEntry{
			{Name: "Anne", Quotite: 0.6, Amount: 60000},
			{Name: "Bernard", Quotite: 0.4, Amount: 40000},
		},
	})

	state, err := env.timelineSvc.CurrentState(ctx, proj.ID)
	require.NoError(t, err)
	require.Empty(t, state.Copro.Lots)
	require.InDelta(t, 40000, state.Copro.CashReserve, 0.001)

	denis := state.Participants[2]
	require.Equal(t, "Denis", denis.Name)
	require.Len(t, denis.Lots, 1)
	require.Equal(t, "lot-h", denis.Lots[0].ID)
	require.InDelta(t, 95, denis.Lots[0].Surface, 0.001)
	require.InDelta(t, 140000, denis.Lots[0].OriginalPrice, 0.001)
	require.InDelta(t, 17500, denis.Lots[0].OriginalNotaryFees, 0.001)

	var payouts []timeline.Transaction
	for _, tx := range state.Transactions {
		if tx.Kind == timeline.KindRedistribution {
			payouts = append(payouts, tx)
		}
	}
	require.Len(t, payouts, 2)
	require.Equal(t, timeline.Copro, payouts[0].From)
	require.Equal(t, "Anne", payouts[0].To)
	require.InDelta(t, 60000, payouts[0].Amount, 0.001)
	require.Equal(t, "Bernard", payouts[1].To)

	// Revealing the same lot twice fails the dry run.
	raw, err := json.Marshal(timeline.HiddenLotRevealedPayload{
		Buyer:     participant.Participant{Name: "Émile"},
		LotID:     "lot-h",
		SalePrice: 150000,
	})
	require.NoError(t, err)
	_, err = env.timelineSvc.Append(ctx, timeline.AppendRequest{
		ProjectID: proj.ID,
		Type:      timeline.TypeHiddenLotRevealed,
		Date:      date(2026, time.April, 1),
		Payload:   raw,
	})
	require.ErrorIs(t, err, timeline.ErrUnknownLot)

	// Anne's ledger shows the payout coming in.
	events, err := env.timelineSvc.All(ctx, proj.ID)
	require.NoError(t, err)
	flow, err := cashflow.BuildParticipantCashFlow(events, "Anne", date(2026, time.June, 1))
	require.NoError(t, err)
	require.GreaterOrEqual(t, flow.Summary.TotalReceived, 60000.0)
}

// TestExportImportRoundTrip proves an exported envelope reimports as an
// independent project that replays to the same state.
func TestExportImportRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	proj := createProject(t, env)
	appendInitialPurchase(t, env, proj.ID)
	appendEvent(t, env, proj.ID, timeline.TypeCoproLoanTaken, date(2024, time.September, 1), timeline.CoproLoanPayload{
		Amount:        50000,
		AnnualRatePct: 3.5,
		Years:         15,
	})

	envelope, err := env.exchangeSvc.ExportProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, exchange.SchemaVersion, envelope.Version)
	require.Equal(t, testRelease, envelope.ReleaseVersion)
	require.Equal(t, "Les Tilleuls", envelope.Name)
	require.NotNil(t, envelope.DeedDate)
	require.NotNil(t, envelope.Params)
	require.Len(t, envelope.Events, 2)

	data, err := json.Marshal(envelope)
	require.NoError(t, err)

	imported, err := env.exchangeSvc.ImportProject(ctx, data)
	require.NoError(t, err)
	require.NotEqual(t, proj.ID, imported.ID)
	require.Equal(t, proj.Name, imported.Name)
	require.Equal(t, int64(1), imported.Version)

	originalEvents, err := env.timelineSvc.All(ctx, proj.ID)
	require.NoError(t, err)
	importedEvents, err := env.timelineSvc.All(ctx, imported.ID)
	require.NoError(t, err)
	require.Len(t, importedEvents, len(originalEvents))
	for i := range importedEvents {
		require.NotEqual(t, originalEvents[i].ID, importedEvents[i].ID)
		require.Equal(t, originalEvents[i].Type, importedEvents[i].Type)
		require.Equal(t, originalEvents[i].Seq, importedEvents[i].Seq)
		require.JSONEq(t, string(originalEvents[i].Payload), string(importedEvents[i].Payload))
	}

	originalState, err := env.timelineSvc.CurrentState(ctx, proj.ID)
	require.NoError(t, err)
	importedState, err := env.timelineSvc.CurrentState(ctx, imported.ID)
	require.NoError(t, err)
	require.Len(t, importedState.Participants, len(originalState.Participants))
	require.InDelta(t, originalState.Copro.CashReserve, importedState.Copro.CashReserve, 0.001)
	require.True(t, importedState.DeedDate.Equal(originalState.DeedDate))

	// Importing the same file again yields a third, independent project.
	second, err := env.exchangeSvc.ImportProject(ctx, data)
	require.NoError(t, err)
	require.NotEqual(t, imported.ID, second.ID)

	summaries, err := env.projectSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
}

// TestActivityTrail checks the audit trail records every mutation newest
// first and filters by event.
func TestActivityTrail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	proj := createProject(t, env)
	evt := appendInitialPurchase(t, env, proj.ID)
	_, err := env.exchangeSvc.ExportProject(ctx, proj.ID)
	require.NoError(t, err)

	entries, err := env.activitySvc.Recent(ctx, activity.ListOptions{ProjectID: proj.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, activity.TypeProjectExported, entries[0].Type)
	require.Equal(t, activity.TypeEventAppended, entries[1].Type)
	require.Equal(t, activity.TypeProjectCreated, entries[2].Type)
	require.NotNil(t, entries[1].EventID)
	require.Equal(t, evt.ID, *entries[1].EventID)
	require.Equal(t, int64(1), entries[1].Version)

	appended, err := env.activitySvc.Recent(ctx, activity.ListOptions{ProjectID: proj.ID, EventID: &evt.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, appended, 1)
	require.Equal(t, activity.TypeEventAppended, appended[0].Type)

	newest, err := env.activitySvc.Recent(ctx, activity.ListOptions{ProjectID: proj.ID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, newest, 1)
	require.Equal(t, activity.TypeProjectExported, newest[0].Type)
}
