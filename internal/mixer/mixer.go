// Package mixer selects the per-sample target amplitude from the
// station's tick bitmap, optionally smooths rapid gain changes, and
// multiplies the result by the oscillator's carrier sample. Ported from
// the gain-selection and station_lerp portion of
// _examples/original_source/src/station.c's tsig_station_cb.
package mixer

const (
	lerpRate     = 0.015
	lerpMinDelta = 0.005

	// AudibleCeilingHz is the ceiling used for an audible monitoring
	// tone and DefaultCeilingHz the ceiling used otherwise; with
	// ultrasound allowed, Ceiling returns the Nyquist rate instead.
	AudibleCeilingHz     = 1000
	DefaultCeilingHz     = 20000
)

// Mixer holds the running smoothed gain across samples.
type Mixer struct {
	Smooth bool
	gain   float64
}

// Lerp performs one exponential step of gain towards target, clamping to
// target once within lerpMinDelta to avoid asymptotic jitter.
func Lerp(target, gain float64) float64 {
	diff := target - gain
	if diff < 0 {
		diff = -diff
	}
	if diff > lerpMinDelta {
		return (1.0-lerpRate)*gain + lerpRate*target
	}
	return target
}

// Sample returns the next output sample given whether the current tick
// is transmitting high, whether Morse on-off keying silence applies, the
// station's configured low gain, and the oscillator's carrier sample.
func (m *Mixer) Sample(isHigh, isMorseSilent bool, xmitLow, carrier float64) float64 {
	target := xmitLow
	switch {
	case isHigh:
		target = 1.0
	case isMorseSilent:
		target = 0.0
	}

	if m.Smooth {
		m.gain = Lerp(target, m.gain)
	} else {
		m.gain = target
	}

	return m.gain * carrier
}

// Gain returns the mixer's current smoothed gain.
func (m *Mixer) Gain() float64 { return m.gain }

// Subharmonic computes the largest odd subharmonic of nominal that fits
// within limitHz, i.e. the smallest odd k>=1 such that nominal/k<=limitHz.
func Subharmonic(nominalHz uint32, limitHz uint32) uint32 {
	k := uint32(1)
	for nominalHz/k > limitHz {
		k += 2
	}
	return nominalHz / k
}

// Ceiling picks the subharmonic-selection ceiling frequency for the
// given audible/ultrasound mode, per spec.md 4.E.
func Ceiling(audible, ultrasound bool, sampleRate uint32) uint32 {
	switch {
	case audible:
		return AudibleCeilingHz
	case ultrasound:
		return sampleRate / 2
	default:
		return DefaultCeilingHz
	}
}
