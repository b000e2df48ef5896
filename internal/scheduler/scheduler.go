// Package scheduler drives one station's real-time sample-by-sample
// state machine: it walks the ticks of the station's current minute
// Frame, re-decodes the Frame at each minute boundary, detects and
// corrects clock drift against the wall clock, and feeds each sample
// through the Mixer and Oscillator. Ported from tsig_station_cb in
// _examples/original_source/src/station.c.
package scheduler

import (
	"sync"
	"time"

	"github.com/kangtastic/timesignal/internal/calendar"
	"github.com/kangtastic/timesignal/internal/mixer"
	"github.com/kangtastic/timesignal/internal/oscillator"
	"github.com/kangtastic/timesignal/internal/station"
)

// State names one of the four phases of the per-sample state machine.
type State int

const (
	Unsynced State = iota
	InMinute
	AtTickBoundary
	AtMinuteWrap
)

func (s State) String() string {
	switch s {
	case Unsynced:
		return "UNSYNCED"
	case InMinute:
		return "IN_MINUTE"
	case AtTickBoundary:
		return "AT_TICK_BOUNDARY"
	case AtMinuteWrap:
		return "AT_MINUTE_WRAP"
	default:
		return "UNKNOWN"
	}
}

const (
	msecsPerTick = 50
	ticksPerSec  = station.TicksPerSec
	ticksPerMin  = station.TicksPerMin

	// driftThresholdMs is the wall-clock/generated-clock divergence past
	// which the scheduler abandons incremental tracking and resyncs.
	driftThresholdMs = 500
)

// Now returns the current wall-clock time in Unix milliseconds. It is a
// variable so tests can substitute a deterministic clock.
var Now = func() int64 { return time.Now().UnixMilli() }

// Scheduler owns one station's live encode/modulate loop.
type Scheduler struct {
	mu sync.Mutex

	ID       station.ID
	SampleRate  uint32
	DUT1Ms      int16
	Ultrasound  bool
	Audible     bool
	SmoothGain  bool

	state State
	osc   *oscillator.Oscillator
	mix   mixer.Mixer

	frame        station.Frame
	minuteOrigin int64 // UTC ms at the start of the currently-decoded minute
	tick         int   // [0, ticksPerMin)
	sampleInTick int   // [0, samplesPerTick)

	carrierFreq    uint32
	samplesPerTick int

	// OnResync, if set, is called whenever the scheduler detects drift
	// and recomputes minuteOrigin from the wall clock.
	OnResync func(driftMs int64)
}

// New constructs a Scheduler for the given station and output sample
// rate. It starts Unsynced; the first Next() call resyncs to the wall
// clock and then returns the first sample of the resynced position.
func New(id station.ID, sampleRate uint32) *Scheduler {
	s := &Scheduler{
		ID:         id,
		SampleRate: sampleRate,
		SmoothGain: true,
		state:      Unsynced,
	}
	s.mix.Smooth = s.SmoothGain
	s.selectCarrier()
	return s
}

func (s *Scheduler) selectCarrier() {
	nominal := station.GetInfo(s.ID).NominalFreq
	ceiling := mixer.Ceiling(s.Audible, s.Ultrasound, s.SampleRate)
	s.carrierFreq = mixer.Subharmonic(nominal, ceiling)
	s.samplesPerTick = int(s.SampleRate) * msecsPerTick / 1000
}

// resync recomputes minuteOrigin/tick/sampleInTick from the wall clock
// and reinitializes the oscillator phase-aligned to the new tick
// boundary, mirroring tsig_station_cb's drift-correction branch.
func (s *Scheduler) resync(nowMs int64) {
	dt := calendar.Parse(nowMs)
	minuteStart := calendar.Make(dt.Year, dt.Mon, dt.Day, dt.Hour, dt.Min, 0, 0, 0)
	msIntoMinute := nowMs - minuteStart

	s.minuteOrigin = minuteStart
	s.tick = int(msIntoMinute / msecsPerTick)
	s.sampleInTick = int((msIntoMinute%msecsPerTick)*int64(s.SampleRate)/1000) % max(1, s.samplesPerTick)

	s.frame = station.Update(s.ID, s.minuteOrigin, s.DUT1Ms)
	s.osc = oscillator.New(s.carrierFreq, s.SampleRate, s.sampleInTick)
	s.state = AtTickBoundary
}

// advanceTick moves to the next tick, re-decoding the Frame and rolling
// minuteOrigin forward at minute boundaries.
func (s *Scheduler) advanceTick() {
	s.tick++
	s.sampleInTick = 0
	if s.tick >= ticksPerMin {
		s.tick = 0
		s.minuteOrigin += 60000
		s.frame = station.Update(s.ID, s.minuteOrigin, s.DUT1Ms)
		s.state = AtMinuteWrap
	} else {
		s.state = AtTickBoundary
	}
	s.osc = oscillator.New(s.carrierFreq, s.SampleRate, 0)
}

// morseSilent reports whether the current tick falls in JJY's Morse
// on-off-keying silence window during an announcement minute.
func (s *Scheduler) morseSilent() bool {
	if s.ID != station.JJY && s.ID != station.JJY60 {
		return false
	}
	d := calendar.Parse(s.minuteOrigin + int64(station.GetInfo(s.ID).UTCOffsetMs))
	if !station.IsJJYMorseMinute(d.Min) {
		return false
	}
	lo, hi := station.MorseWindow()
	return s.tick >= lo && s.tick < hi
}

// Next produces the next output sample in [-1, 1] for wall-clock time
// nowMs (the instant this sample is to be rendered). Callers driving a
// fixed-rate audio callback may call Next in a loop with one nowMs per
// buffer, as driver.Context does; Next itself does not sleep and only
// blocks on the Scheduler's mutex.
func (s *Scheduler) Next(nowMs int64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next(nowMs)
}

func (s *Scheduler) next(nowMs int64) float64 {
	if s.state == Unsynced {
		s.resync(nowMs)
		if s.OnResync != nil {
			s.OnResync(0)
		}
	} else {
		expected := s.minuteOrigin + int64(s.tick)*msecsPerTick +
			int64(s.sampleInTick)*1000/int64(s.SampleRate)
		drift := nowMs - expected
		if drift < 0 {
			drift = -drift
		}
		if drift > driftThresholdMs {
			s.resync(nowMs)
			if s.OnResync != nil {
				s.OnResync(nowMs - expected)
			}
		}
	}

	isHigh := s.frame.Tick(s.tick)
	carrier := s.osc.Next()
	s.mix.Smooth = s.SmoothGain
	sample := s.mix.Sample(isHigh, s.morseSilent(), station.GetInfo(s.ID).XmitLow, carrier)

	s.sampleInTick++
	if s.sampleInTick >= s.samplesPerTick {
		s.advanceTick()
	} else {
		s.state = InMinute
	}

	return sample
}

// State returns the scheduler's current state-machine phase.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Frame returns a copy of the currently-decoded minute Frame.
func (s *Scheduler) Frame() station.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// SetRate changes the output sample rate, reselecting the subharmonic
// carrier and marking the scheduler Unsynced so the next sample
// resyncs and reinitializes the oscillator at the new rate.
func (s *Scheduler) SetRate(rate uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SampleRate = rate
	s.selectCarrier()
	s.state = Unsynced
}
