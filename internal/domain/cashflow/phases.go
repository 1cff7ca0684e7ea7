package cashflow

import (
	"github.com/maraval/coprojet/internal/domain/finance"
	"github.com/maraval/coprojet/internal/domain/timeline"
)

// BuildPhases replays the event log and attaches, to each intermediate
// state, the full cost snapshot and per-participant cash-flow summaries
// as of that event's date. One phase per event, in log order.
func BuildPhases(events []timeline.Event) ([]PhaseProjection, error) {
	states, err := timeline.Replay(events)
	if err != nil {
		return nil, err
	}

	phases := make([]PhaseProjection, 0, len(states))
	for i, state := range states {
		evt := events[i]
		phase := PhaseProjection{
			EventID:   evt.ID,
			EventType: evt.Type,
			Date:      evt.Date,
			Label:     evt.Label,
			State:     state,
			Results:   finance.CalculateAll(state.Participants, state.Params, state.Params.Units),
			Flows:     make(map[string]Summary, len(state.Participants)),
		}

		prefix := events[:i+1]
		for _, p := range state.Participants {
			flow, err := BuildParticipantCashFlow(prefix, p.Name, evt.Date)
			if err != nil {
				return nil, err
			}
			phase.Flows[p.Name] = flow.Summary
		}
		coproFlow, err := BuildCoproCashFlow(prefix, evt.Date)
		if err != nil {
			return nil, err
		}
		phase.CoproSummary = coproFlow.Summary

		phases = append(phases, phase)
	}
	return phases, nil
}
