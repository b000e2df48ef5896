// Package oscillator generates sine-wave samples with a 2nd-order
// infinite impulse response (IIR) recurrence, the technique used by the
// TI TMS320C62x DSP for sine generation:
//
//	y[n] = a*y[n-1] - y[n-2],  a = 2*cos(2*pi*f/r)
//
// The recurrence is reset to its seed values at the start of every
// period, bounding accumulated floating-point error to at most one
// period's worth regardless of how long the oscillator runs. This
// package is the Go port of _examples/original_source/src/iir.c; the
// teacher repo's gen_tone.go generates tones by phase-accumulator plus a
// lookup table instead, which does not exhibit the bounded-drift
// property this spec requires, so the recurrence approach from the
// original source is used verbatim rather than the teacher's technique.
package oscillator

// Oscillator is a 2nd-order IIR recurrence sine-wave generator.
type Oscillator struct {
	freq uint32
	rate uint32

	a      float64
	period uint32

	initY0, initY1 float64

	sample uint32
	y0, y1 float64
}

func gcd(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// New constructs an Oscillator for frequency freq at sample rate rate,
// with an initial phase offset of phaseSamples samples (may be negative
// or larger than the period; it is reduced modulo the period).
func New(freq, rate uint32, phaseSamples int) *Oscillator {
	o := &Oscillator{freq: freq, rate: rate}

	g := gcd(freq, rate)
	phaseDelta := int64(freq / g)
	phaseBase := int64(rate / g)
	o.period = uint32(phaseBase)

	angle := twoPi * float64(phaseDelta) / float64(phaseBase)
	o.a = 2.0 * cos(angle)

	phase := int64(phaseSamples) % phaseBase
	if phase < 0 {
		phase += phaseBase
	}

	// phase now denotes the numerator of a fraction of 2*pi, not a
	// sample count, matching tsig_iir_init.
	phase = (phase * phaseDelta) % phaseBase

	angle = twoPi * float64(phase) / float64(phaseBase)
	o.initY0 = sin(angle)

	phase += phaseDelta
	if phase >= phaseBase {
		phase -= phaseBase
	}

	angle = twoPi * float64(phase) / float64(phaseBase)
	o.initY1 = sin(angle)

	o.sample = 0

	return o
}

// Period returns the oscillator's period in samples.
func (o *Oscillator) Period() uint32 { return o.period }

// Coefficient returns the IIR recurrence coefficient a.
func (o *Oscillator) Coefficient() float64 { return o.a }

// Seeds returns the priming sample values (init_y0, init_y1).
func (o *Oscillator) Seeds() (float64, float64) { return o.initY0, o.initY1 }

// Current returns the oscillator's running pair (y0, y1) and its index
// within the period. Exposed for testing the reset invariant.
func (o *Oscillator) Current() (y0, y1 float64, sample uint32) {
	return o.y0, o.y1, o.sample
}

// Next returns the current sample and advances the oscillator by one
// sample. At the start of every period the running pair is reset to the
// priming seeds, eliminating accumulated floating-point error.
func (o *Oscillator) Next() float64 {
	if o.sample == 0 {
		o.y0 = o.initY0
		o.y1 = o.initY1
	}

	ret := o.y0

	switch {
	case o.sample+2 < o.period:
		next := o.a*o.y1 - o.y0
		o.y0, o.y1 = o.y1, next
		o.sample++
	case o.sample+1 < o.period:
		o.y0 = o.y1
		o.sample++
	default:
		o.y0 = o.initY0
		o.y1 = o.initY1
		o.sample = 0
	}

	return ret
}
