// Package codec converts the Scheduler's float64 samples in [-1, 1]
// into physical PCM byte buffers across the 24 sample formats and 8
// sample rates the original project supported, plus N-channel mono
// broadcast. Ported from _examples/original_source/src/audio.c's
// tsig_audio_fill_buffer and its format/rate name tables.
package codec

import (
	"fmt"
	"strings"
	"unsafe"
)

// Format identifies one physical PCM sample encoding.
type Format int

const (
	S16 Format = iota
	S16LE
	S16BE
	U16
	U16LE
	U16BE
	S24
	S24LE
	S24BE
	U24
	U24LE
	U24BE
	S32
	S32LE
	S32BE
	U32
	U32LE
	U32BE
	Float32
	Float32LE
	Float32BE
	Float64
	Float64LE
	Float64BE
)

var formatNames = [...]string{
	S16: "S16", S16LE: "S16_LE", S16BE: "S16_BE",
	U16: "U16", U16LE: "U16_LE", U16BE: "U16_BE",
	S24: "S24", S24LE: "S24_LE", S24BE: "S24_BE",
	U24: "U24", U24LE: "U24_LE", U24BE: "U24_BE",
	S32: "S32", S32LE: "S32_LE", S32BE: "S32_BE",
	U32: "U32", U32LE: "U32_LE", U32BE: "U32_BE",
	Float32: "FLOAT32", Float32LE: "FLOAT32_LE", Float32BE: "FLOAT32_BE",
	Float64: "FLOAT64", Float64LE: "FLOAT64_LE", Float64BE: "FLOAT64_BE",
}

func (f Format) String() string {
	if int(f) < 0 || int(f) >= len(formatNames) {
		return "UNKNOWN"
	}
	return formatNames[f]
}

// ParseFormat matches a format name case-insensitively, as cfg_formats
// does in the original config parser.
func ParseFormat(name string) (Format, bool) {
	u := strings.ToUpper(name)
	for i, n := range formatNames {
		if n == u {
			return Format(i), true
		}
	}
	return 0, false
}

// IsCPULittleEndian reports the host byte order, matching
// tsig_audio_is_cpu_le's runtime union-based probe of a stored uint16.
func IsCPULittleEndian() bool {
	var x uint16 = 1
	b := (*[2]byte)(unsafe.Pointer(&x))
	return b[0] == 1
}

// IsFloat reports whether f is a floating-point format.
func (f Format) IsFloat() bool {
	switch f {
	case Float32, Float32LE, Float32BE, Float64, Float64LE, Float64BE:
		return true
	default:
		return false
	}
}

// IsSigned reports whether f is signed-integer (or float, which this
// package treats as signed for quantization purposes).
func (f Format) IsSigned() bool {
	switch f {
	case U16, U16LE, U16BE, U24, U24LE, U24BE, U32, U32LE, U32BE:
		return false
	default:
		return true
	}
}

// IsLE reports whether f is little-endian; native formats (no _LE/_BE
// suffix) report the host's native order.
func (f Format) IsLE() bool {
	switch f {
	case S16LE, U16LE, S24LE, U24LE, S32LE, U32LE, Float32LE, Float64LE:
		return true
	case S16BE, U16BE, S24BE, U24BE, S32BE, U32BE, Float32BE, Float64BE:
		return false
	default:
		return IsCPULittleEndian()
	}
}

// Width returns the per-sample container width in bytes: 4 for the
// 24-bit formats. It is not the physical byte count on the wire for
// 24-bit formats; Encode derives both its shift-widen amount and the
// bytes it writes from PhysWidth.
func (f Format) Width() int {
	switch f {
	case S16, S16LE, S16BE, U16, U16LE, U16BE:
		return 2
	case S24, S24LE, S24BE, U24, U24LE, U24BE:
		return 4
	case S32, S32LE, S32BE, U32, U32LE, U32BE, Float32, Float32LE, Float32BE:
		return 4
	case Float64, Float64LE, Float64BE:
		return 8
	default:
		panic(fmt.Sprintf("codec: unknown format %d", f))
	}
}

// PhysWidth returns the number of bytes actually written per sample per
// channel on the wire: identical to Width except for the 24-bit
// formats, which occupy only 3 physical bytes despite being widened
// through a 4-byte (32-bit) intermediate during quantization.
func (f Format) PhysWidth() int {
	switch f {
	case S24, S24LE, S24BE, U24, U24LE, U24BE:
		return 3
	default:
		return f.Width()
	}
}
