// Package gpiosink implements driver.Sink by bit-banging a GPIO pin
// high/low in step with the PCM stream's sign, the way hobbyist WWVB/
// DCF77 transmitters built from a Raspberry Pi and a loop antenna
// square-wave the carrier directly from a GPIO line instead of a DAC.
// Demonstrates that the Scheduler/Mixer/Codec core is transport-
// agnostic: this backend never touches an audio device at all.
package gpiosink

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/kangtastic/timesignal/internal/codec"
)

// Sink keys a GPIO output line from the sign of each S16LE sample,
// approximating the carrier as a square wave at the station's
// subharmonic frequency. Intended for low sample rates (a few kHz) that
// a GPIO line can plausibly toggle at.
type Sink struct {
	Chip string
	Line int

	line   *gpiocdev.Line
	rate   codec.Rate
	period time.Duration
}

// New constructs a gpiosink.Sink bound to the given gpiochip device and
// offset, e.g. New("gpiochip0", 18).
func New(chip string, line int) *Sink {
	return &Sink{Chip: chip, Line: line}
}

// Init requests the configured line (s.Line) as an output on s.Chip. format
// must be S16 (or S16LE) mono; channels>1 is rejected since a single
// GPIO pin cannot broadcast to multiple receivers.
func (s *Sink) Init(rate codec.Rate, format codec.Format, channels int) (int, error) {
	if format != codec.S16 && format != codec.S16LE {
		return 0, fmt.Errorf("gpiosink: format %s unsupported, use S16_LE", format)
	}
	if channels != 1 {
		return 0, fmt.Errorf("gpiosink: channels must be 1, got %d", channels)
	}

	l, err := gpiocdev.RequestLine(s.Chip, s.Line, gpiocdev.AsOutput(0))
	if err != nil {
		return 0, fmt.Errorf("gpiosink: request line: %w", err)
	}
	s.line = l
	s.rate = rate
	s.period = time.Second / time.Duration(rate)

	return 240, nil // 5ms @ 48kHz; rescaled implicitly by rate
}

// Write toggles the GPIO line high for each positive-sign S16LE sample
// and low otherwise, pacing each sample by one output period.
func (s *Sink) Write(buf []byte) error {
	if s.line == nil {
		return fmt.Errorf("gpiosink: write before init")
	}
	for off := 0; off+2 <= len(buf); off += 2 {
		v := int16(uint16(buf[off]) | uint16(buf[off+1])<<8)
		level := 0
		if v > 0 {
			level = 1
		}
		if err := s.line.SetValue(level); err != nil {
			return fmt.Errorf("gpiosink: set value: %w", err)
		}
		time.Sleep(s.period)
	}
	return nil
}

// Deinit drives the line low and releases it.
func (s *Sink) Deinit() error {
	if s.line == nil {
		return nil
	}
	s.line.SetValue(0)
	err := s.line.Close()
	s.line = nil
	return err
}
