package oscillator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNewMatchesKnownCoefficients(t *testing.T) {
	o := New(20000, 48000, 0)
	assert.EqualValues(t, 12, o.Period())
	assert.InDelta(t, -1.732050808, o.Coefficient(), 1e-8)

	y0, y1 := o.Seeds()
	assert.InDelta(t, 0, y0, 1e-9)
	assert.InDelta(t, 0.5, y1, 1e-9)
}

func TestNextAlternatesSignAcrossPeriod(t *testing.T) {
	o := New(20000, 48000, 0)
	want := []float64{0, 0.5, -0.8660254, 1.0, -0.8660254, 0.5, 0, -0.5, 0.8660254, -1.0, 0.8660254, -0.5}
	for i, w := range want {
		got := o.Next()
		assert.InDeltaf(t, w, got, 1e-6, "sample %d", i)
	}
}

func TestPeriodResetProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		freq := uint32(rapid.IntRange(1, 20000).Draw(rt, "freq"))
		rate := uint32(rapid.SampledFrom([]int{8000, 16000, 44100, 48000, 96000}).Draw(rt, "rate"))
		phase := rapid.IntRange(-1000, 1000).Draw(rt, "phase")

		o := New(freq, rate, phase)
		period := int(o.Period())

		for i := 0; i < period; i++ {
			o.Next()
		}
		y0, y1, sample := o.Current()
		assert.Equal(rt, uint32(0), sample)
		assert.InDelta(rt, o.initY0, y0, 1e-6)
		assert.InDelta(rt, o.initY1, y1, 1e-6)

		for i := 0; i < period; i++ {
			v := o.Next()
			assert.False(rt, math.IsNaN(v))
			assert.LessOrEqual(rt, math.Abs(v), 1.0+1e-6)
		}
	})
}
