package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSample = -0.40869600005658424

func TestEncodeS16(t *testing.T) {
	le := Codec{Format: S16LE, Channels: 1}
	assert.Equal(t, []byte{0xAF, 0xCB}, le.Encode(nil, testSample))

	be := Codec{Format: S16BE, Channels: 1}
	assert.Equal(t, []byte{0xCB, 0xAF}, be.Encode(nil, testSample))
}

func TestEncodeU16LE(t *testing.T) {
	c := Codec{Format: U16LE, Channels: 1}
	assert.Equal(t, []byte{0xAF, 0x4B}, c.Encode(nil, testSample))
}

func TestEncodeBroadcastsChannels(t *testing.T) {
	c := Codec{Format: S16LE, Channels: 3}
	buf := c.Encode(nil, testSample)
	assert.Len(t, buf, 6)
	assert.Equal(t, buf[0:2], buf[2:4])
	assert.Equal(t, buf[0:2], buf[4:6])
}

func TestEncodeFloatRoundTrips(t *testing.T) {
	// Float formats are quantized to 16 bits first, so the decoded value
	// is the quantized one: int16(testSample*32768) / 32768 = -13392/32768.
	const quantized = -0.40869140625

	c32 := Codec{Format: Float32LE, Channels: 1}
	buf := c32.Encode(nil, testSample)
	bits := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	assert.Equal(t, quantized, float64(math.Float32frombits(bits)))

	c64 := Codec{Format: Float64LE, Channels: 1}
	buf = c64.Encode(nil, testSample)
	var bits64 uint64
	for i := 7; i >= 0; i-- {
		bits64 = bits64<<8 | uint64(buf[i])
	}
	assert.Equal(t, quantized, math.Float64frombits(bits64))
}

func TestEncode24BitWidensIntoHighByte(t *testing.T) {
	c := Codec{Format: S24LE, Channels: 1}
	buf := c.Encode(nil, testSample)
	// The 16-bit quantized value (0xFFFFCBAF) is left-shifted 8 bits into
	// a 3-byte physical slot, so the low byte is always 0 and the
	// original 16-bit value occupies the upper two bytes.
	assert.Equal(t, []byte{0x00, 0xAF, 0xCB}, buf)
}

func TestParseFormatAndRate(t *testing.T) {
	f, ok := ParseFormat("s16_le")
	assert.True(t, ok)
	assert.Equal(t, S16LE, f)

	_, ok = ParseFormat("bogus")
	assert.False(t, ok)

	r, ok := ParseRate("48000")
	assert.True(t, ok)
	assert.Equal(t, Rate48000, r)
}

func TestFrameSize(t *testing.T) {
	c := Codec{Format: S24LE, Channels: 2}
	assert.Equal(t, 6, c.FrameSize())
}
