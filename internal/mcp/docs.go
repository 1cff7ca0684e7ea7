package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `coprojet prices shared-ownership housing projects: who pays what, when, and what a carried lot costs to resell.

Core concepts (keep this mental model small):
- Project: a stored baseline (participants, lots, parameters, deed date) with a version bumped on every write.
- Event log: append-only dated facts (purchases, arrivals, sales, loans, exits). Replay derives every view; nothing derived is stored.
- Snapshot vs history: compute_costs prices the stored baseline as of today; the timeline tools replay the log for evolution and cash flows.
- Portage: founders carry extra lots for future newcomers; the resale price recovers indexation and carrying costs.
- Copropriété: the collective entity; it can hold hidden lots, take loans, and redistribute sale proceeds.

Rules of engagement (default workflow):
1) Orient: list_projects, then get_project for the baseline.
2) Price: compute_costs for the full per-participant breakdown.
3) Record history: append_event with a dated, typed payload. Events must not predate the log head; the payload is validated against the replayed state before anything is stored.
4) Inspect: list_events pages the raw log; project_timeline returns state and costs after each event.
5) Project cash: participant_cashflow / copro_cashflow build dated ledgers with running balances. Negative amounts are cash out of the owner's pocket.
6) Quote sales: portage_quote prices a carried or copro-held lot; redistribution_quote splits proceeds by surface or time.
7) Move files: export_project / import_project exchange versioned envelopes. Import always creates a new project.
8) Audit: get_recent_activity lists who changed what, newest first.

Concurrent edits: save_snapshot carries the base_version you read. A stale version returns a conflict with the remote project instead of writing; merge and retry, or pass force=true deliberately.

Docs (read on demand):
- coprojet://docs/index (what to read when)
- coprojet://docs/concepts (glossary + invariants)
- coprojet://docs/event-types (payload shapes for append_event)
- coprojet://docs/workflows/getting-started
- coprojet://docs/portage (resale pricing and redistribution)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "coprojet://docs/index",
		Name:        "docs_index",
		Title:       "coprojet docs index",
		Description: "Entry point for agent-facing docs: what exists and what to read when.",
		Content: `# coprojet: Agent Docs Index

Keep your baseline context small and load deeper docs only when needed.

## Quick start (no deep docs)

1. ` + "`list_projects`" + ` then ` + "`get_project`" + ` to orient.
2. ` + "`compute_costs`" + ` for the per-participant cost breakdown.
3. ` + "`append_event`" + ` to record what happened (see ` + "`coprojet://docs/event-types`" + ` for payloads).
4. ` + "`project_timeline`" + ` to see how costs evolved event by event.
5. ` + "`participant_cashflow`" + ` / ` + "`copro_cashflow`" + ` for dated ledgers.
6. ` + "`portage_quote`" + ` / ` + "`redistribution_quote`" + ` before recording a sale.

## Docs (read on demand)

- ` + "`coprojet://docs/concepts`" + ` — glossary + invariants (event ordering, money direction, snapshot vs history).
- ` + "`coprojet://docs/event-types`" + ` — the payload shape of every event type.
- ` + "`coprojet://docs/workflows/getting-started`" + ` — from empty database to a priced project.
- ` + "`coprojet://docs/portage`" + ` — how carried lots are priced and proceeds split.

## Intentional limitations

- All amounts are float64 euros; compare with tolerances, not equality.
- The event log is append-only. To correct history, export, edit the envelope, and import as a new project.
- Browse tools can return large result sets; pass ` + "`limit`" + ` to control token usage.
`,
	},
	{
		URI:         "coprojet://docs/concepts",
		Name:        "docs_concepts",
		Title:       "Concepts and invariants",
		Description: "Mental model + invariant rules: event ordering, replay determinism, money direction.",
		Content: `# Concepts and invariants

## Glossary

- **Project**: stored baseline of **participants**, their **lots**, and global **params** (total purchase, casco price per m², travaux communs, portage formula). Carries a **version** bumped on every write.
- **Event**: one immutable dated fact. The log is the only persisted history; every view is derived by replay.
- **Projection state**: the derived snapshot after replaying a prefix of the log: participants, copro entity, running transaction ledger.
- **Founder**: participant present at the deed; may carry extra lots (**portage**) for future newcomers.
- **Newcomer**: joins later by buying a carried lot from a founder.
- **Copropriété**: the collective entity. Holds hidden lots, cash reserve, loans, and fixed monthly obligations.
- **Quotité**: a participant's proportional share, by surface or by time in the project.

## Invariants

- Events carry **non-decreasing dates**. Appending an event dated before the log head fails with EVENT_ORDER.
- Replay is **deterministic**: same log, same state. The reducer never mutates its input.
- An event whose payload does not apply cleanly to the replayed state is **rejected before storage**; the log never contains uninterpretable facts.
- **Money direction**: in the shared ledger every amount is positive and flows From → To. Per-owner ledgers re-sign: negative means cash out of that owner's pocket.
- Surfaces are m²; rates are percentages (4.5 means 4.5%); money is float64 euros.

## Snapshot vs history

` + "`compute_costs`" + ` prices the **stored baseline** (what the project looks like now).
` + "`project_timeline`" + ` replays the **event log** (how it got there, phase by phase).
Keep the baseline in sync with reality via ` + "`save_snapshot`" + `; record history via ` + "`append_event`" + `.

## Version conflicts

` + "`save_snapshot`" + ` writes only when ` + "`base_version`" + ` matches the stored version. On a stale base you get ` + "`conflict`" + ` with the remote project instead of a write: merge, then retry with the current version, or pass ` + "`force=true`" + ` to overwrite deliberately.
`,
	},
	{
		URI:         "coprojet://docs/event-types",
		Name:        "docs_event_types",
		Title:       "Event types and payloads",
		Description: "The payload shape of every event type append_event accepts.",
		Content: `# Event types and payloads

Every event has ` + "`type`" + `, ` + "`date`" + ` (YYYY-MM-DD), optional ` + "`label`" + `, and a typed ` + "`payload`" + `.

## project.initial_purchase

The founding purchase. Replaces all prior state; normally the first event.

    {"participants": [...], "params": {...}, "hidden_lots": [{"id": "lot-c", "surface": 40, "unit_id": "C", "original_price": 55000}]}

Participants and params use the same shapes as the project baseline. Entry dates and lot acquisition dates default to the event date.

## participant.newcomer_joins

A newcomer buys a carried unit from a founder. The purchase details name the seller and price.

    {"newcomer": {"name": "Claire", "capital": 60000, "loan_rate_pct": 4.2, "loan_years": 20,
      "purchase_details": {"seller": "Anne", "lot_id": "lot-b", "price": 161000, "notary_fees": 4025}}}

Fails with UNKNOWN_SELLER if the seller is not a participant. A seller holding multiple units via ` + "`quantity`" + ` gives one up.

## copro.hidden_lot_revealed

The copropriété sells a hidden lot to a buyer. Redistribution entries are computed beforehand (use ` + "`redistribution_quote`" + `) and recorded in the payload so the log carries the exact amounts paid out.

    {"buyer": {"name": "David", "capital": 80000}, "lot_id": "lot-c", "sale_price": 95000,
     "notary_fees": 11875, "redistribution": [{"name": "Anne", "quotite": 0.6, "amount": 57000}, ...]}

The unredistributed remainder stays in the copro cash reserve.

## portage.settlement

A carried lot transfers from its founder to the buyer at the quoted resale price (use ` + "`portage_quote`" + `).

    {"seller": "Anne", "buyer": {"name": "Emma", "capital": 70000}, "lot_id": "lot-b",
     "price": {"base": 170000, "indexation": 10459, "carrying_costs": 14280, "total": 194739}, "notary_fees": 4868}

## copro.loan_taken

The copropriété takes a loan; the monthly payment is derived when the event applies.

    {"amount": 50000, "annual_rate_pct": 3.0, "years": 10, "label": "roof renovation"}

## participant.exits

A participant leaves. Unsold lots transfer to the copropriété; their recurring cash flows stop at the exit month.

    {"name": "Bernard"}
`,
	},
	{
		URI:         "coprojet://docs/workflows/getting-started",
		Name:        "docs_workflow_getting_started",
		Title:       "Workflow: getting started",
		Description: "From empty database to a priced project with a history.",
		Content: `# Workflow: getting started

## 1) Create the project

Call ` + "`create_project`" + ` with the participant baseline and params:

- each participant: ` + "`name`" + `, ` + "`capital`" + `, ` + "`loan_rate_pct`" + `, ` + "`loan_years`" + `, lots with surfaces
- params: ` + "`total_purchase`" + `, ` + "`casco_per_m2`" + `, ` + "`travaux_communs`" + `, portage rates
- founders carrying extra units: either list each carried lot, or set ` + "`quantity`" + ` on a single lot

## 2) Price it

` + "`compute_costs`" + ` returns per participant: purchase share (surface × price per m²), registration duties, construction (casco + parachèvements), shared costs, loan needed, monthly payment, total interest. Totals and per-m² averages follow.

## 3) Record the founding purchase

Append ` + "`project.initial_purchase`" + ` dated at the deed with the same baseline. This anchors the timeline; every later event builds on it.

## 4) Let the history accumulate

As the project lives, append events: newcomers joining, hidden lots revealed, portage settlements, copro loans, exits. Use ` + "`portage_quote`" + ` and ` + "`redistribution_quote`" + ` to price before recording.

## 5) Inspect

- ` + "`project_timeline`" + ` — state and cost snapshot after each event.
- ` + "`participant_cashflow`" + ` — one owner's dated ledger: purchases and duties out, loan payments monthly, sale proceeds in.
- ` + "`copro_cashflow`" + ` — the collective ledger: sales in, obligations and loan payments out.

## 6) Keep the baseline current

After structural changes agreed outside the log (a renegotiated price, a corrected surface), ` + "`save_snapshot`" + ` with the ` + "`base_version`" + ` you read in step 1.
`,
	},
	{
		URI:         "coprojet://docs/portage",
		Name:        "docs_portage",
		Title:       "Portage pricing and redistribution",
		Description: "How carried lots are priced at resale and how sale proceeds are split.",
		Content: `# Portage pricing and redistribution

## Founder-held lots

A founder who carried a lot resells it at cost, indexed, plus what carrying it cost them:

- **base**: original price + original registration duties + construction paid
- **indexation**: base × ((1 + indexation rate)^years − 1)
- **carrying costs**: monthly interest + prorated property tax and insurance, × months held
- **renovations**: passed through at cost
- **duty refund**: resold strictly under 2 years, the region refunds 3/5 of the duties paid; deducted from the buyer's total

` + "`portage_quote`" + ` with a ` + "`lot_id`" + ` held by a participant returns this breakdown. The surface is fixed by the carried lot (` + "`surface_imposed: true`" + `).

## Copro-held lots

For a hidden lot held by the copropriété the buyer picks a surface; base and carrying costs are prorated by chosen ÷ total surface. Quote with ` + "`surface_chosen`" + `; omit it to price the whole lot.

## Redistribution

When the copropriété sells, proceeds are split across active participants:

- **surface** (default): each share is effective surface ÷ total surface.
- **time**: shares weighted by time in the project since each entry date.

` + "`redistribution_quote`" + ` returns per-participant quotité and amount. Record the entries verbatim in the ` + "`copro.hidden_lot_revealed`" + ` payload; the reducer pays out exactly what the event says and keeps the remainder in the cash reserve.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
