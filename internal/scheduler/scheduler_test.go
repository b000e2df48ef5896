package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kangtastic/timesignal/internal/calendar"
	"github.com/kangtastic/timesignal/internal/station"
)

func TestNewStartsUnsynced(t *testing.T) {
	s := New(station.WWVB, 48000)
	assert.Equal(t, Unsynced, s.State())
}

func TestFirstSampleResyncsAndProducesFiniteOutput(t *testing.T) {
	s := New(station.WWVB, 48000)
	now := calendar.Make(2024, 6, 15, 12, 0, 0, 0, 0)

	resynced := false
	s.OnResync = func(int64) { resynced = true }

	v := s.Next(now)
	assert.True(t, resynced)
	assert.LessOrEqual(t, v, 1.0)
	assert.GreaterOrEqual(t, v, -1.0)
	assert.NotEqual(t, Unsynced, s.State())
}

func TestAdvancesThroughTicksWithinAMinute(t *testing.T) {
	s := New(station.WWVB, 8000)
	now := calendar.Make(2024, 6, 15, 12, 0, 0, 0, 0)

	for i := 0; i < s.samplesPerTick+1; i++ {
		s.Next(now + int64(i)*1000/8000)
	}
	assert.GreaterOrEqual(t, s.tick, 1)
}

func TestSetRateForcesResync(t *testing.T) {
	s := New(station.WWVB, 48000)
	s.Next(calendar.Make(2024, 6, 15, 12, 0, 0, 0, 0))
	s.SetRate(8000)
	assert.Equal(t, Unsynced, s.State())
	assert.EqualValues(t, 8000, s.SampleRate)
}
