// Package otosink implements driver.Sink using ebitengine/oto, a
// pure-Go cross-platform audio output library. This is the default
// backend: unlike the cgo-based alternatives in sibling packages, it
// requires no C toolchain and no system audio development headers.
package otosink

import (
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/kangtastic/timesignal/internal/codec"
)

const framesPerBuffer = 960 // 20ms @ 48kHz; Init returns it unchanged at every rate

// Sink streams PCM buffers to the system's default audio device via
// oto's player/context model. The oto Context is always opened for
// signed 16-bit little-endian PCM, so Init accepts only codec.S16LE or
// codec.S16, and Write passes the caller's bytes through unchanged.
type Sink struct {
	mu     sync.Mutex
	ctx    *oto.Context
	player oto.Player
	pr     *io.PipeReader
	pw     *io.PipeWriter
}

// New constructs an uninitialized otosink.Sink.
func New() *Sink { return &Sink{} }

// Init prepares an oto playback context at the given rate/channels. oto
// is configured for signed 16-bit little-endian samples, so Init returns
// an error for any format other than codec.S16LE or codec.S16.
func (s *Sink) Init(rate codec.Rate, format codec.Format, channels int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if format != codec.S16LE && format != codec.S16 {
		return 0, fmt.Errorf("otosink: format %s unsupported, use S16_LE", format)
	}

	op := &oto.NewContextOptions{
		SampleRate:   int(rate),
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return 0, fmt.Errorf("otosink: new context: %w", err)
	}
	<-ready

	pr, pw := io.Pipe()
	s.ctx = ctx
	s.pr = pr
	s.pw = pw
	s.player = ctx.NewPlayer(pr)
	s.player.Play()

	return framesPerBuffer, nil
}

// Write streams buf to the oto player via the pipe established in Init.
func (s *Sink) Write(buf []byte) error {
	s.mu.Lock()
	pw := s.pw
	s.mu.Unlock()
	if pw == nil {
		return fmt.Errorf("otosink: write before init")
	}
	_, err := pw.Write(buf)
	return err
}

// Deinit stops playback and releases the pipe.
func (s *Sink) Deinit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player != nil {
		s.player.Close()
		s.player = nil
	}
	if s.pw != nil {
		s.pw.Close()
		s.pw = nil
	}
	return nil
}
