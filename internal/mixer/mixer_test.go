package mixer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLerpClampsNearTarget(t *testing.T) {
	g := Lerp(1.0, 0.999)
	assert.Equal(t, 1.0, g)
}

func TestLerpStepsTowardTarget(t *testing.T) {
	g := Lerp(1.0, 0.0)
	assert.InDelta(t, 0.015, g, 1e-9)
}

func TestSampleSelectsAmplitude(t *testing.T) {
	m := &Mixer{Smooth: false}
	assert.Equal(t, 1.0, m.Sample(true, false, 0.3, 1.0))
	assert.Equal(t, 0.0, m.Sample(false, true, 0.3, 1.0))
	assert.Equal(t, 0.3, m.Sample(false, false, 0.3, 1.0))
}

func TestSubharmonicPicksLargestOddUnderCeiling(t *testing.T) {
	assert.EqualValues(t, 20000, Subharmonic(60000, 20000))
	assert.EqualValues(t, 13333, Subharmonic(40000, 20000))
}
