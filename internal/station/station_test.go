package station

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kangtastic/timesignal/internal/calendar"
)

func TestParseStationNames(t *testing.T) {
	cases := map[string]ID{
		"bpc": BPC, "BPC": BPC,
		"dcf77": DCF77,
		"jjy":   JJY, "JJY40": JJY, "jjy40": JJY,
		"jjy60": JJY60,
		"msf":   MSF,
		"wwvb":  WWVB,
	}
	for name, want := range cases {
		id, ok := Parse(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, id, name)
	}
	_, ok := Parse("bogus")
	assert.False(t, ok)
}

func TestEvenOddParity(t *testing.T) {
	bits := []uint8{1, 0, 1, 1, 0}
	assert.EqualValues(t, 1, evenParity(bits, 0, 5)) // 3 set bits -> odd -> 1
	assert.EqualValues(t, 0, oddParity(bits, 0, 5))
}

// known WWVB minute from S6-style scenario: 2099-12-31 12:34 UTC, dut1=0.
func TestWWVBFrameSyncAndFields(t *testing.T) {
	ts := calendar.Make(2099, 12, 31, 12, 34, 0, 0, 0)
	f := Update(WWVB, ts, 0)

	// Slot 0 is a sync marker: low for 800ms (16 ticks) then high for
	// the remaining 200ms (ticks 16..19) of the second.
	assert.False(t, f.Tick(0))
	assert.True(t, f.Tick(19))
	assert.Contains(t, f.Readout, "S")
	assert.Contains(t, f.Meaning, "2099")
}

func TestBPCRepeatsThreeTimesWithMarkerFlag(t *testing.T) {
	ts := calendar.Make(2024, 6, 15, 8, 30, 0, 0, 8*60)
	f := xmitBPC(ts)
	assert.NotEmpty(t, f.Readout)

	// Each 20-second repetition opens with a fully-high sync second; slot
	// 1 then holds 0, 1<<1 and 1<<2, i.e. 100, 300 and 500ms low.
	for p, loTicks := range []int{2, 6, 10} {
		base := p * 20 * TicksPerSec
		assert.True(t, f.Tick(base), "repetition %d sync", p)
		assert.False(t, f.Tick(base+TicksPerSec+loTicks-1), "repetition %d slot 1", p)
		assert.True(t, f.Tick(base+TicksPerSec+loTicks), "repetition %d slot 1", p)
	}
	assert.Equal(t, byte('4'), f.Readout[1])
}

func TestJJYMorseMinuteOverwritesTicks(t *testing.T) {
	ts := calendar.Make(2024, 6, 15, 8, 15, 0, 0, 9*60)
	f := xmitJJY(JJY, ts)
	assert.Contains(t, f.Meaning, "callsign")

	lo, hi := MorseWindow()
	assert.True(t, lo < hi)

	// Slot 40 would start high for a plain 0 bit; in an announcement
	// minute it is cleared until the first dit at 40.550s.
	assert.False(t, f.Tick(40*TicksPerSec))
	assert.True(t, f.Tick(lo))
}

func TestDCF77NextMinuteConvention(t *testing.T) {
	ts := calendar.Make(2024, 1, 1, 0, 0, 0, 0, 60)
	f := xmitDCF77(ts)
	assert.Contains(t, f.Meaning, "next-minute")
	// The minute starting at 00:00 CET carries the time of 00:01.
	assert.Contains(t, f.Meaning, "2024-01-01 00:01")
}

func TestMSFSecondaryMinuteMarker(t *testing.T) {
	ts := calendar.Make(2024, 1, 1, 0, 0, 0, 0, 0)
	f := xmitMSF(ts, 0)
	// Slot 0 is a sync marker: low for 500ms (10 ticks), then high.
	assert.False(t, f.Tick(0))
	assert.True(t, f.Tick(19))

	// Slots 53..58 carry the secondary marker: each is low 100ms longer
	// than an ordinary slot, so a 0 bit in slot 53 is low for 200ms (4
	// ticks) where slot 52's 0 bit is low for only 100ms (2 ticks).
	assert.True(t, f.Tick(52*TicksPerSec+2))
	assert.False(t, f.Tick(53*TicksPerSec+3))
	assert.True(t, f.Tick(53*TicksPerSec+4))
}
