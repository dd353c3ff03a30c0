package bookings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseState(t *testing.T) {
	tests := []struct {
		raw     string
		want    State
		wantErr bool
	}{
		{"", StateAll, false},
		{"ALL", StateAll, false},
		{"current", StateCurrent, false},
		{"Past", StatePast, false},
		{"FUTURE", StateFuture, false},
		{"WAITING", StateWaiting, false},
		{"REJECTED", StateRejected, false},
		{"APPROVED", "", true},
		{"bogus", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			st, err := ParseState(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, st)
		})
	}
}

func TestStateMatches(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	current := Booking{Start: now.Add(-time.Hour), End: now.Add(time.Hour), Status: StatusApproved}
	past := Booking{Start: now.Add(-3 * time.Hour), End: now.Add(-time.Hour), Status: StatusApproved}
	future := Booking{Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), Status: StatusWaiting}
	rejected := Booking{Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), Status: StatusRejected}

	all := []Booking{current, past, future, rejected}

	count := func(st State) int {
		n := 0
		for i := range all {
			if st.Matches(&all[i], now) {
				n++
			}
		}
		return n
	}

	assert.Equal(t, 4, count(StateAll))
	assert.Equal(t, 1, count(StateCurrent))
	assert.True(t, StateCurrent.Matches(&current, now))
	assert.Equal(t, 1, count(StatePast))
	assert.True(t, StatePast.Matches(&past, now))
	assert.Equal(t, 2, count(StateFuture))
	assert.Equal(t, 1, count(StateWaiting))
	assert.True(t, StateWaiting.Matches(&future, now))
	assert.Equal(t, 1, count(StateRejected))
	assert.True(t, StateRejected.Matches(&rejected, now))
}

func TestStateMatchesBoundaries(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	// start == now counts as current, not future
	startingNow := Booking{Start: now, End: now.Add(time.Hour)}
	assert.True(t, StateCurrent.Matches(&startingNow, now))
	assert.False(t, StateFuture.Matches(&startingNow, now))

	// end == now is neither current nor past: current needs end > now,
	// past needs end < now
	endingNow := Booking{Start: now.Add(-time.Hour), End: now}
	assert.False(t, StateCurrent.Matches(&endingNow, now))
	assert.False(t, StatePast.Matches(&endingNow, now))
}
