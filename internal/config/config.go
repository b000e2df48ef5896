// Package config implements the demo host's command-line and file
// configuration surface: flag parsing via spf13/pflag, an optional YAML
// overlay via gopkg.in/yaml.v3, and the validation ranges and offset
// grammar ported from _examples/original_source/src/cfg.c's
// tsig_cfg_init and cfg_parse_offset. This is a host-level concern, not
// part of the core broadcast engine in internal/station, internal/
// scheduler, etc., which take their parameters as plain Go values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/kangtastic/timesignal/internal/codec"
	"github.com/kangtastic/timesignal/internal/station"
)

const (
	offsetMin = -86400000 + 1
	offsetMax = 86400000 - 1
	dut1Min   = -1000 + 1
	dut1Max   = 1000 - 1
	channelsMin = 1
	channelsMax = 1024 - 1
)

// Config holds one fully-validated run configuration.
type Config struct {
	Station    station.ID
	Format     codec.Format
	Rate       codec.Rate
	Channels   int
	OffsetMs   int64
	DUT1Ms     int16
	Ultrasound bool
	Audible    bool
	Smooth     bool
	Verbose    int
	Backend    string
	GPIOChip   string
	GPIOLine   int
	Advertise  bool
	ConfigFile string
}

// Default returns the host's baseline configuration before flags or a
// config file are applied.
func Default() Config {
	return Config{
		Station:  station.WWVB,
		Format:   codec.S16LE,
		Rate:     codec.Rate48000,
		Channels: 1,
		Smooth:   true,
		Backend:  "oto",
		GPIOChip: "gpiochip0",
		GPIOLine: 18,
	}
}

// yamlOverlay mirrors the subset of Config a YAML file may override;
// pointer fields distinguish "absent" from "explicitly zero".
type yamlOverlay struct {
	Station    *string `yaml:"station"`
	Format     *string `yaml:"format"`
	Rate       *int    `yaml:"rate"`
	Channels   *int    `yaml:"channels"`
	Offset     *string `yaml:"offset"`
	DUT1       *int    `yaml:"dut1"`
	Ultrasound *bool   `yaml:"ultrasound"`
	Audible    *bool   `yaml:"audible"`
	Smooth     *bool   `yaml:"smooth"`
	Backend    *string `yaml:"backend"`
	GPIOChip   *string `yaml:"gpio_chip"`
	GPIOLine   *int    `yaml:"gpio_line"`
	Advertise  *bool   `yaml:"advertise"`
}

// FlagSet builds the pflag.FlagSet for the demo CLI, modeled on cfg.c's
// getopt_long option table. It keeps a subset of that table's options
// (station, format, rate, channels, offset, dut1, ultrasound), replaces
// smooth with --no-smooth, and adds this host's own flags (audible,
// backend, gpio-chip, gpio-line, advertise, config, verbose).
func FlagSet(cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("timesignal", pflag.ContinueOnError)

	station := "wwvb"
	format := "s16_le"
	var rate, channels, dut1, gpioLine int
	var offset string
	var ultrasound, audible, noSmooth, advertise bool
	var verbose []bool
	var configFile string

	fs.StringVarP(&station, "station", "s", station, "time station to emulate (bpc, dcf77, jjy, jjy60, msf, wwvb)")
	fs.StringVarP(&format, "format", "f", format, "output sample format")
	fs.IntVarP(&rate, "rate", "r", int(cfg.Rate), "output sample rate, Hz")
	fs.IntVarP(&channels, "channels", "c", cfg.Channels, "output channel count")
	fs.StringVarP(&offset, "offset", "o", "", "clock offset [[[+-]HH:]mm:]ss[.SSS]")
	fs.IntVarP(&dut1, "dut1", "d", 0, "DUT1 correction, ms")
	fs.BoolVarP(&ultrasound, "ultrasound", "u", false, "allow carriers up to the Nyquist frequency (rate/2)")
	fs.BoolVarP(&audible, "audible", "a", false, "force an audible monitoring carrier")
	fs.BoolVar(&noSmooth, "no-smooth", false, "disable exponential gain smoothing")
	fs.StringVarP(&cfg.Backend, "backend", "b", cfg.Backend, "output backend (oto, portaudio, gpio)")
	fs.StringVar(&cfg.GPIOChip, "gpio-chip", cfg.GPIOChip, "gpiochip device for the gpio backend")
	fs.IntVar(&gpioLine, "gpio-line", cfg.GPIOLine, "GPIO line offset for the gpio backend")
	fs.BoolVar(&advertise, "advertise", false, "advertise this station over mDNS")
	fs.StringVar(&configFile, "config", "", "YAML config file overlay")
	fs.BoolSliceVarP(&verbose, "verbose", "v", nil, "increase log verbosity (repeatable)")

	fs.SortFlags = false

	return fs
}

// ParseOffset parses the "[[[+-]HH:]mm:]ss[.SSS]" offset grammar from
// cfg_parse_offset, returning milliseconds (negative if the optional
// sign is '-').
func ParseOffset(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("config: too many ':'-separated offset fields in %q", s)
	}

	var hh, mm int64
	secStr := parts[len(parts)-1]
	switch len(parts) {
	case 3:
		v, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("config: bad hour in offset %q: %w", s, err)
		}
		hh = v
		v, err = strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("config: bad minute in offset %q: %w", s, err)
		}
		mm = v
	case 2:
		v, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("config: bad minute in offset %q: %w", s, err)
		}
		mm = v
	}

	secParts := strings.SplitN(secStr, ".", 2)
	sec, err := strconv.ParseInt(secParts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: bad seconds in offset %q: %w", s, err)
	}
	var msec int64
	if len(secParts) == 2 {
		frac := secParts[1]
		for len(frac) < 3 {
			frac += "0"
		}
		frac = frac[:3]
		v, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("config: bad fractional seconds in offset %q: %w", s, err)
		}
		msec = v
	}

	total := ((hh*60+mm)*60+sec)*1000 + msec
	if neg {
		total = -total
	}
	return total, nil
}

// Load builds a Config from defaults, an optional YAML file, and
// parsed pflag values, validating every field against cfg.c's ranges.
func Load(args []string) (Config, error) {
	cfg := Default()
	fs := FlagSet(&cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cf, _ := fs.GetString("config"); cf != "" {
		if err := applyYAMLFile(&cfg, cf); err != nil {
			return cfg, err
		}
	}
	if fs.Changed("backend") {
		cfg.Backend, _ = fs.GetString("backend")
	}
	if fs.Changed("gpio-chip") {
		cfg.GPIOChip, _ = fs.GetString("gpio-chip")
	}

	if v, _ := fs.GetString("station"); fs.Changed("station") {
		id, ok := station.Parse(v)
		if !ok {
			return cfg, fmt.Errorf("config: unknown station %q", v)
		}
		cfg.Station = id
	}
	if v, _ := fs.GetString("format"); fs.Changed("format") {
		f, ok := codec.ParseFormat(v)
		if !ok {
			return cfg, fmt.Errorf("config: unknown format %q", v)
		}
		cfg.Format = f
	}
	if fs.Changed("rate") {
		v, _ := fs.GetInt("rate")
		r, ok := codec.ParseRate(strconv.Itoa(v))
		if !ok {
			return cfg, fmt.Errorf("config: unsupported rate %d", v)
		}
		cfg.Rate = r
	}
	if fs.Changed("channels") {
		v, _ := fs.GetInt("channels")
		cfg.Channels = v
	}
	if fs.Changed("offset") {
		v, _ := fs.GetString("offset")
		off, err := ParseOffset(v)
		if err != nil {
			return cfg, err
		}
		cfg.OffsetMs = off
	}
	if fs.Changed("dut1") {
		v, _ := fs.GetInt("dut1")
		cfg.DUT1Ms = int16(v)
	}
	if fs.Changed("ultrasound") {
		cfg.Ultrasound, _ = fs.GetBool("ultrasound")
	}
	if fs.Changed("audible") {
		cfg.Audible, _ = fs.GetBool("audible")
	}
	if fs.Changed("no-smooth") {
		noSmooth, _ := fs.GetBool("no-smooth")
		cfg.Smooth = !noSmooth
	}
	if fs.Changed("advertise") {
		cfg.Advertise, _ = fs.GetBool("advertise")
	}
	if fs.Changed("gpio-line") {
		cfg.GPIOLine, _ = fs.GetInt("gpio-line")
	}
	if vs, _ := fs.GetBoolSlice("verbose"); len(vs) > 0 {
		cfg.Verbose = len(vs)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var ov yamlOverlay
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	if ov.Station != nil {
		id, ok := station.Parse(*ov.Station)
		if !ok {
			return fmt.Errorf("config: unknown station %q in %s", *ov.Station, path)
		}
		cfg.Station = id
	}
	if ov.Format != nil {
		f, ok := codec.ParseFormat(*ov.Format)
		if !ok {
			return fmt.Errorf("config: unknown format %q in %s", *ov.Format, path)
		}
		cfg.Format = f
	}
	if ov.Rate != nil {
		r, ok := codec.ParseRate(strconv.Itoa(*ov.Rate))
		if !ok {
			return fmt.Errorf("config: unsupported rate %d in %s", *ov.Rate, path)
		}
		cfg.Rate = r
	}
	if ov.Channels != nil {
		cfg.Channels = *ov.Channels
	}
	if ov.Offset != nil {
		off, err := ParseOffset(*ov.Offset)
		if err != nil {
			return err
		}
		cfg.OffsetMs = off
	}
	if ov.DUT1 != nil {
		cfg.DUT1Ms = int16(*ov.DUT1)
	}
	if ov.Ultrasound != nil {
		cfg.Ultrasound = *ov.Ultrasound
	}
	if ov.Audible != nil {
		cfg.Audible = *ov.Audible
	}
	if ov.Smooth != nil {
		cfg.Smooth = *ov.Smooth
	}
	if ov.Backend != nil {
		cfg.Backend = *ov.Backend
	}
	if ov.GPIOChip != nil {
		cfg.GPIOChip = *ov.GPIOChip
	}
	if ov.GPIOLine != nil {
		cfg.GPIOLine = *ov.GPIOLine
	}
	if ov.Advertise != nil {
		cfg.Advertise = *ov.Advertise
	}
	return nil
}

// Validate checks cfg's numeric fields against cfg.c's exclusive
// min/max ranges.
func (cfg Config) Validate() error {
	if cfg.OffsetMs < offsetMin || cfg.OffsetMs > offsetMax {
		return fmt.Errorf("config: offset %dms out of range (+-86400000 exclusive)", cfg.OffsetMs)
	}
	if int64(cfg.DUT1Ms) < dut1Min || int64(cfg.DUT1Ms) > dut1Max {
		return fmt.Errorf("config: dut1 %dms out of range (+-1000 exclusive)", cfg.DUT1Ms)
	}
	if cfg.Channels < channelsMin || cfg.Channels > channelsMax {
		return fmt.Errorf("config: channels %d out of range (0, 1024 exclusive)", cfg.Channels)
	}
	switch cfg.Backend {
	case "oto", "portaudio", "gpio":
	default:
		return fmt.Errorf("config: unknown backend %q", cfg.Backend)
	}
	return nil
}
