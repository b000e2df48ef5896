// Package portaudiosink implements driver.Sink atop
// github.com/gordonklaus/portaudio, the cgo binding the upstream
// project itself links for low-latency native output. Kept as an
// alternate backend for hosts where PortAudio's ASIO/JACK/WASAPI
// backend selection is wanted over oto's simpler device defaults.
package portaudiosink

import (
	"fmt"
	"math"

	"github.com/gordonklaus/portaudio"

	"github.com/kangtastic/timesignal/internal/codec"
)

const framesPerBuffer = 960

// Sink streams float32 PCM to PortAudio's default output device.
// PortAudio's Go binding works natively in float32 and Write decodes
// little-endian bytes, so Init requires codec.Float32LE, or codec.Float32
// on a little-endian host.
type Sink struct {
	stream  *portaudio.Stream
	out     []float32
	channels int
}

// New constructs an uninitialized portaudiosink.Sink.
func New() *Sink { return &Sink{} }

// Init opens a PortAudio output stream at the given rate/channels.
func (s *Sink) Init(rate codec.Rate, format codec.Format, channels int) (int, error) {
	if !format.IsFloat() || format.Width() != 4 || !format.IsLE() {
		return 0, fmt.Errorf("portaudiosink: format %s unsupported, use FLOAT32_LE", format)
	}

	if err := portaudio.Initialize(); err != nil {
		return 0, fmt.Errorf("portaudiosink: initialize: %w", err)
	}

	s.channels = channels
	s.out = make([]float32, framesPerBuffer*channels)

	stream, err := portaudio.OpenDefaultStream(0, channels, float64(rate), framesPerBuffer, s.out)
	if err != nil {
		portaudio.Terminate()
		return 0, fmt.Errorf("portaudiosink: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return 0, fmt.Errorf("portaudiosink: start stream: %w", err)
	}
	s.stream = stream

	return framesPerBuffer, nil
}

// Write copies buf's raw float32 LE samples into the stream's output
// buffer and writes one period to the device.
func (s *Sink) Write(buf []byte) error {
	if s.stream == nil {
		return fmt.Errorf("portaudiosink: write before init")
	}
	for i := range s.out {
		off := i * 4
		if off+4 > len(buf) {
			s.out[i] = 0
			continue
		}
		bits := uint32(buf[off]) | uint32(buf[off+1])<<8 |
			uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
		s.out[i] = math.Float32frombits(bits)
	}
	return s.stream.Write()
}

// Deinit stops and closes the PortAudio stream and terminates the
// library, matching lib_deinit in the original backend contract.
func (s *Sink) Deinit() error {
	if s.stream == nil {
		return nil
	}
	s.stream.Stop()
	err := s.stream.Close()
	s.stream = nil
	portaudio.Terminate()
	return err
}
