package codec

import "math"

// Rate enumerates the 8 output sample rates the original driver layer
// supported.
type Rate uint32

const (
	Rate8000  Rate = 8000
	Rate11025 Rate = 11025
	Rate16000 Rate = 16000
	Rate22050 Rate = 22050
	Rate32000 Rate = 32000
	Rate44100 Rate = 44100
	Rate48000 Rate = 48000
	Rate96000 Rate = 96000
)

// ParseRate matches a decimal sample-rate string against the supported
// set, as cfg_rates does.
func ParseRate(s string) (Rate, bool) {
	for _, r := range []Rate{Rate8000, Rate11025, Rate16000, Rate22050,
		Rate32000, Rate44100, Rate48000, Rate96000} {
		if itoa(uint32(r)) == s {
			return r, true
		}
	}
	return 0, false
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// Codec converts float64 samples in [-1, 1] into a channel-broadcast
// physical PCM buffer of a given Format.
type Codec struct {
	Format   Format
	Channels int
}

// FrameSize returns the number of bytes one multi-channel sample frame
// occupies in the encoded buffer.
func (c Codec) FrameSize() int {
	return c.Format.PhysWidth() * c.Channels
}

// Encode appends the PCM encoding of one sample to dst and returns the
// extended slice, broadcasting the same quantized value to every
// channel. This reproduces tsig_audio_fill_buffer's per-sample
// quantize-to-16-bit-then-rewiden algorithm: float formats scale by
// -INT16_MIN and widen directly; integer formats first rescale into
// unsigned 16-bit range then re-center for signed formats, matching the
// original's "n.i64 = (1.0+cb_buf[i]) * UINT16_MAX * 0.5" step.
func (c Codec) Encode(dst []byte, sample float64) []byte {
	phys := c.Format.PhysWidth()
	le := c.Format.IsLE()

	var word uint64
	if c.Format.IsFloat() {
		q := sample * -math.MinInt16
		if q > math.MaxInt16 {
			q = math.MaxInt16
		}
		v := float64(int16(q)) / -math.MinInt16
		if phys == 8 {
			word = math.Float64bits(v)
		} else {
			word = uint64(math.Float32bits(float32(v)))
		}
	} else {
		n := int64((1.0 + sample) * math.MaxUint16 * 0.5)
		if c.Format.IsSigned() {
			n += math.MinInt16
		}
		// Widen the quantized 16-bit value into the high bits of the
		// physical sample width, leaving the low bits zero, mirroring
		// tsig_audio_fill_buffer's left-shift-by-16/8/0 rewidening.
		shift := uint((phys - 2) * 8)
		word = uint64(uint32(int32(n))) << shift
	}

	sampleBytes := make([]byte, phys)
	for i := 0; i < phys; i++ {
		shift := uint(i * 8)
		if !le {
			shift = uint((phys - 1 - i) * 8)
		}
		sampleBytes[i] = byte(word >> shift)
	}

	for ch := 0; ch < c.Channels; ch++ {
		dst = append(dst, sampleBytes...)
	}
	return dst
}

// EncodeBuffer encodes a slice of samples into a single contiguous PCM
// byte buffer, channels broadcast per sample.
func (c Codec) EncodeBuffer(samples []float64) []byte {
	out := make([]byte, 0, len(samples)*c.FrameSize())
	for _, s := range samples {
		out = c.Encode(out, s)
	}
	return out
}
