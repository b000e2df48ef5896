// Package driver defines the Sink contract that output backends
// implement, and a Context that pulls samples from a Scheduler, encodes
// them via a Codec, and pushes PCM buffers to a Sink on each callback.
// Modeled on tsig_backend_info_t's init/loop/deinit function-pointer
// contract in _examples/original_source/include/backend.h.
package driver

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kangtastic/timesignal/internal/codec"
	"github.com/kangtastic/timesignal/internal/scheduler"
)

// Sink is implemented by an output backend (audio device, GPIO pin,
// etc). Init is called once before the first Write; Write should block
// until it has consumed one buffer's worth of audio (or return promptly
// if the backend is itself callback-driven); Deinit releases backend
// resources.
type Sink interface {
	// Init prepares the backend for the given rate/format/channel
	// configuration and returns its preferred buffer size in frames.
	Init(rate codec.Rate, format codec.Format, channels int) (framesPerBuffer int, err error)
	// Write delivers one encoded PCM buffer to the backend, blocking
	// until it is consumed or queued.
	Write(buf []byte) error
	// Deinit releases backend resources. Safe to call multiple times.
	Deinit() error
}

// Context wires one Scheduler to one Sink through a Codec, running the
// pull loop that feeds the backend until Stop is called.
type Context struct {
	Scheduler *scheduler.Scheduler
	Sink      Sink
	Codec     codec.Codec
	Rate      codec.Rate

	Logger *log.Logger

	stop chan struct{}
	done chan struct{}
}

// NewContext builds a driver Context. If logger is nil a default
// charmbracelet/log logger writing to stderr is used.
func NewContext(sched *scheduler.Scheduler, sink Sink, format codec.Format, channels int, rate codec.Rate, logger *log.Logger) *Context {
	if logger == nil {
		logger = log.Default()
	}
	return &Context{
		Scheduler: sched,
		Sink:      sink,
		Codec:     codec.Codec{Format: format, Channels: channels},
		Rate:      rate,
		Logger:    logger,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Run initializes the Sink and drives the pull loop synchronously until
// Stop is called or the Sink returns an error. It reproduces
// tsig_station_cb's role as the audio callback consumer: each iteration
// pulls one buffer's worth of Scheduler samples, logs a resync/drift
// notice if one occurred, encodes, and writes.
func (c *Context) Run() error {
	frames, err := c.Sink.Init(c.Rate, c.Codec.Format, c.Codec.Channels)
	if err != nil {
		return fmt.Errorf("driver: sink init: %w", err)
	}
	defer c.Sink.Deinit()

	c.Scheduler.SetRate(uint32(c.Rate))
	c.Scheduler.OnResync = func(driftMs int64) {
		if driftMs == 0 {
			c.Logger.Debug("scheduler synced to wall clock", "station", c.Scheduler.ID)
		} else {
			c.Logger.Warn("scheduler resync due to drift",
				"station", c.Scheduler.ID, "drift_ms", driftMs)
		}
	}

	samples := make([]float64, frames)
	for {
		select {
		case <-c.stop:
			close(c.done)
			return nil
		default:
		}

		now := scheduler.Now()
		for i := range samples {
			samples[i] = c.Scheduler.Next(now)
		}

		buf := c.Codec.EncodeBuffer(samples)
		if err := c.Sink.Write(buf); err != nil {
			close(c.done)
			return fmt.Errorf("driver: sink write: %w", err)
		}
	}
}

// Stop signals Run to exit after its current buffer and blocks until it
// has done so.
func (c *Context) Stop() {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	<-c.done
}

// statusInterval is how often a status line is worth logging for a
// long-running foreground session; callers decide whether to use it.
const statusInterval = time.Minute
