// Command timesignal emulates a time-code radio broadcast (BPC, DCF77,
// JJY, JJY60, MSF, or WWVB) and plays it over a chosen output backend.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"

	"github.com/kangtastic/timesignal/internal/config"
	"github.com/kangtastic/timesignal/internal/discovery"
	"github.com/kangtastic/timesignal/internal/driver"
	"github.com/kangtastic/timesignal/internal/scheduler"
	"github.com/kangtastic/timesignal/internal/sink/gpiosink"
	"github.com/kangtastic/timesignal/internal/sink/otosink"
	"github.com/kangtastic/timesignal/internal/sink/portaudiosink"
)

var readoutTimeFormat = strftime.MustNew("%Y-%m-%d %H:%M:%S %Z")

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "timesignal:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	switch {
	case cfg.Verbose >= 2:
		logger.SetLevel(log.DebugLevel)
	case cfg.Verbose == 1:
		logger.SetLevel(log.InfoLevel)
	default:
		logger.SetLevel(log.WarnLevel)
	}

	offsetMs := cfg.OffsetMs
	scheduler.Now = func() int64 { return time.Now().UnixMilli() + offsetMs }

	sched := scheduler.New(cfg.Station, uint32(cfg.Rate))
	sched.DUT1Ms = cfg.DUT1Ms
	sched.Ultrasound = cfg.Ultrasound
	sched.Audible = cfg.Audible
	sched.SmoothGain = cfg.Smooth

	var sink driver.Sink
	switch cfg.Backend {
	case "oto":
		sink = otosink.New()
	case "portaudio":
		sink = portaudiosink.New()
	case "gpio":
		sink = gpiosink.New(cfg.GPIOChip, cfg.GPIOLine)
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	ctx := driver.NewContext(sched, sink, cfg.Format, cfg.Channels, cfg.Rate, logger)

	var adv *discovery.Advertiser
	if cfg.Advertise {
		adv, err = discovery.Advertise("timesignal", 0, cfg.Station, cfg.Format, cfg.Rate)
		if err != nil {
			logger.Warn("mDNS advertisement failed", "err", err)
		} else {
			defer adv.Shutdown()
		}
	}

	logger.Info("starting emulation",
		"station", cfg.Station, "format", cfg.Format, "rate", cfg.Rate,
		"channels", cfg.Channels, "backend", cfg.Backend)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	statusDone := make(chan struct{})
	if cfg.Verbose >= 1 {
		go statusLoop(sched, logger, statusDone)
	}

	runErr := make(chan error, 1)
	go func() { runErr <- ctx.Run() }()

	select {
	case <-sigc:
		logger.Info("shutting down")
		ctx.Stop()
		close(statusDone)
		return nil
	case err := <-runErr:
		close(statusDone)
		return err
	}
}

// statusLoop periodically logs the scheduler's current frame readout
// and meaning, formatted with strftime the way the original project's
// human-readable log lines timestamp themselves.
func statusLoop(sched *scheduler.Scheduler, logger *log.Logger, done <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			frame := sched.Frame()
			ts, _ := readoutTimeFormat.FormatString(time.Now().UTC())
			logger.Info("status",
				"time", ts,
				"state", sched.State(),
				"readout", frame.Readout,
				"meaning", frame.Meaning,
			)
		}
	}
}
