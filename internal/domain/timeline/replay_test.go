package timeline_test

import (
	"testing"
	"time"

	"github.com/maraval/coprojet/internal/domain/timeline"
	"github.com/stretchr/testify/require"
)

func fullLog(t *testing.T) []timeline.Event {
	t.Helper()
	return []timeline.Event{
		initialEvent(t),
		newcomerEvent(t),
		revealEvent(t),
		loanEvent(t),
		settlementEvent(t),
		mustEvent(t, timeline.TypeParticipantExits, date(2026, time.December, 1),
			timeline.ParticipantExitsPayload{Name: "Bernard"}),
	}
}

func TestReplay_OneStatePerEvent(t *testing.T) {
	events := fullLog(t)
	states, err := timeline.Replay(events)
	require.NoError(t, err)

	require.Len(t, states, len(events))
	require.Len(t, states[0].Participants, 2)
	require.Len(t, states[1].Participants, 3)
	require.Len(t, states[2].Participants, 4)
	require.Len(t, states[4].Participants, 5)
	for i, state := range states {
		require.Equal(t, events[i].Date, state.CurrentDate)
	}
}

func TestReplay_Idempotent(t *testing.T) {
	events := fullLog(t)
	first, err := timeline.Replay(events)
	require.NoError(t, err)
	second, err := timeline.Replay(events)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestReplay_OrderViolation(t *testing.T) {
	events := []timeline.Event{
		initialEvent(t),
		mustEvent(t, timeline.TypeParticipantExits, date(2023, time.January, 1),
			timeline.ParticipantExitsPayload{Name: "Anne"}),
	}
	_, err := timeline.Replay(events)
	require.ErrorIs(t, err, timeline.ErrEventOrder)
}

func TestReplay_SameDateAllowed(t *testing.T) {
	events := []timeline.Event{
		initialEvent(t),
		mustEvent(t, timeline.TypeParticipantExits, deedDate(),
			timeline.ParticipantExitsPayload{Name: "Anne"}),
	}
	_, err := timeline.Replay(events)
	require.NoError(t, err)
}

func TestReduce_EmptyLog(t *testing.T) {
	state, err := timeline.Reduce(nil)
	require.NoError(t, err)
	require.Equal(t, timeline.NewState(), state)
}

func TestStateAt_CutsAtDate(t *testing.T) {
	events := fullLog(t)

	state, err := timeline.StateAt(events, date(2025, time.March, 1))
	require.NoError(t, err)
	require.Len(t, state.Participants, 3)

	state, err = timeline.StateAt(events, date(2027, time.January, 1))
	require.NoError(t, err)
	require.Len(t, state.Participants, 5)
	require.NotNil(t, state.Participants[1].ExitDate)
}
