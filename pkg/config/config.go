// Package config loads the intersection controller settings from YAML
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/anggasct/crossing"
	"github.com/anggasct/crossing/pkg/display"
	"github.com/anggasct/crossing/pkg/input"
	"github.com/anggasct/crossing/pkg/policy"
)

// LogLevels maps the accepted log level names to logrus levels
var LogLevels = map[string]logrus.Level{
	"trace":    logrus.TraceLevel,
	"debug":    logrus.DebugLevel,
	"info":     logrus.InfoLevel,
	"warn":     logrus.WarnLevel,
	"error":    logrus.ErrorLevel,
	"critical": logrus.FatalLevel,
	"off":      logrus.PanicLevel,
}

// Timing holds the fixed phase lengths
type Timing struct {
	YellowSeconds int `yaml:"yellow_seconds"`
	WalkSeconds   int `yaml:"walk_seconds"`
	StopNoticeMs  int `yaml:"stop_notice_ms"` // pedestrian STOP notice
	BannerMs      int `yaml:"banner_ms"`      // each boot screen
}

// Policy is the green time step table
type Policy struct {
	BaseSeconds int           `yaml:"base_seconds"`
	Steps       []policy.Step `yaml:"steps"`
}

// Input configures button sampling
type Input struct {
	Polls      int  `yaml:"polls"`       // samples per second
	IntervalMs int  `yaml:"interval_ms"` // delay after each sample
	SettleMs   int  `yaml:"settle_ms"`   // debounce window
	ActiveLow  bool `yaml:"active_low"`  // pull-up wiring
}

// Display configures the status panel
type Display struct {
	Width int `yaml:"width"` // 0 disables clipping
}

// Log configures logging
type Log struct {
	Level string `yaml:"level"`
}

// Config is the whole controller configuration
type Config struct {
	Timing  Timing  `yaml:"timing"`
	Policy  Policy  `yaml:"policy"`
	Input   Input   `yaml:"input"`
	Display Display `yaml:"display"`
	Log     Log     `yaml:"log"`
}

// Default returns the stock configuration of the intersection
func Default() Config {
	timing := crossing.DefaultTiming()
	table := policy.Default()
	return Config{
		Timing: Timing{
			YellowSeconds: timing.YellowSeconds,
			WalkSeconds:   timing.WalkSeconds,
			StopNoticeMs:  int(timing.StopNotice / time.Millisecond),
			BannerMs:      int(timing.Banner / time.Millisecond),
		},
		Policy: Policy{
			BaseSeconds: table.Base,
			Steps:       table.Steps,
		},
		Input: Input{
			Polls:      input.DefaultPolls,
			IntervalMs: int(input.DefaultInterval / time.Millisecond),
			SettleMs:   int(input.DefaultSettle / time.Millisecond),
		},
		Display: Display{Width: display.DefaultWidth},
		Log:     Log{Level: "info"},
	}
}

// Load reads and validates the file at path. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, crossing.NewConfigurationError("Config", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once
func (c Config) Validate() error {
	var result *multierror.Error

	if err := c.ControllerTiming().Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.GreenPolicy().Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Input.Polls <= 0 {
		result = multierror.Append(result, fmt.Errorf("input polls must be positive, got %d", c.Input.Polls))
	}
	if c.Input.IntervalMs < 0 {
		result = multierror.Append(result, fmt.Errorf("input interval must not be negative, got %dms", c.Input.IntervalMs))
	}
	if c.Input.SettleMs < 0 {
		result = multierror.Append(result, fmt.Errorf("input settle must not be negative, got %dms", c.Input.SettleMs))
	}
	if c.Display.Width < 0 {
		result = multierror.Append(result, fmt.Errorf("display width must not be negative, got %d", c.Display.Width))
	}
	if !lo.HasKey(LogLevels, c.Log.Level) {
		result = multierror.Append(result, fmt.Errorf("log level must be one of %v, got %q", lo.Keys(LogLevels), c.Log.Level))
	}

	if err := result.ErrorOrNil(); err != nil {
		return crossing.NewConfigurationError("Config", err)
	}
	return nil
}

// ControllerTiming converts the timing section
func (c Config) ControllerTiming() crossing.Timing {
	return crossing.Timing{
		YellowSeconds: c.Timing.YellowSeconds,
		WalkSeconds:   c.Timing.WalkSeconds,
		StopNotice:    time.Duration(c.Timing.StopNoticeMs) * time.Millisecond,
		Banner:        time.Duration(c.Timing.BannerMs) * time.Millisecond,
	}
}

// GreenPolicy builds the step table
func (c Config) GreenPolicy() *policy.StepPolicy {
	return &policy.StepPolicy{
		Base:  c.Policy.BaseSeconds,
		Steps: append([]policy.Step(nil), c.Policy.Steps...),
	}
}

// ClockOptions converts the input section
func (c Config) ClockOptions() []input.Option {
	return []input.Option{
		input.WithPolls(c.Input.Polls, time.Duration(c.Input.IntervalMs)*time.Millisecond),
		input.WithSettle(time.Duration(c.Input.SettleMs) * time.Millisecond),
		input.WithActiveLow(c.Input.ActiveLow),
	}
}

// Presenter builds the display formatter
func (c Config) Presenter() *display.Presenter {
	return display.NewPresenter(c.Display.Width)
}

// ControllerOptions converts everything the controller takes
func (c Config) ControllerOptions() []crossing.Option {
	return []crossing.Option{
		crossing.WithTiming(c.ControllerTiming()),
		crossing.WithPolicy(c.GreenPolicy()),
		crossing.WithPresenter(c.Presenter()),
	}
}

// LogLevel returns the configured logrus level
func (c Config) LogLevel() logrus.Level {
	if level, ok := LogLevels[c.Log.Level]; ok {
		return level
	}
	return logrus.InfoLevel
}
