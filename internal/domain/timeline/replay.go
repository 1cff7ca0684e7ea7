package timeline

import (
	"fmt"
	"time"
)

// Replay folds the event log from the empty state and returns the state
// after each event. Events must already be in non-decreasing date order;
// replaying the same log twice yields structurally identical states. The
// reducer reads no clock, so replay is deterministic.
func Replay(events []Event) ([]ProjectionState, error) {
	states := make([]ProjectionState, 0, len(events))
	state := NewState()
	var last time.Time
	for i, evt := range events {
		if i > 0 && evt.Date.Before(last) {
			return nil, fmt.Errorf("event %d (%s) dated %s: %w",
				i, evt.Type, evt.Date.Format("2006-01-02"), ErrEventOrder)
		}
		last = evt.Date

		next, err := Apply(state, evt)
		if err != nil {
			return nil, fmt.Errorf("applying event %d: %w", i, err)
		}
		state = next
		states = append(states, state)
	}
	return states, nil
}

// Reduce folds the full log into its final state. An empty log yields the
// empty state.
func Reduce(events []Event) (ProjectionState, error) {
	states, err := Replay(events)
	if err != nil {
		return ProjectionState{}, err
	}
	if len(states) == 0 {
		return NewState(), nil
	}
	return states[len(states)-1], nil
}

// StateAt folds the log up to and including the given date.
func StateAt(events []Event, at time.Time) (ProjectionState, error) {
	upTo := make([]Event, 0, len(events))
	for _, evt := range events {
		if evt.Date.After(at) {
			break
		}
		upTo = append(upTo, evt)
	}
	return Reduce(upTo)
}
