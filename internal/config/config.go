// Package config loads the boxdemo YAML configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/furry-toolbelt/runtime"
)

// DefaultFile is the configuration file name looked up by the demo.
const DefaultFile = "boxdemo.yaml"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config represents boxdemo.yaml.
type Config struct {
	Loop    LoopConfig    `yaml:"loop"`
	Counter CounterConfig `yaml:"counter"`
	Log     LogConfig     `yaml:"log"`
}

// LoopConfig contains evaluation loop settings.
type LoopConfig struct {
	TickRate      time.Duration `yaml:"tick_rate,omitempty"`
	MessageBuffer int           `yaml:"message_buffer,omitempty"`
	FlushPolicy   string        `yaml:"flush_policy,omitempty"`
}

// CounterConfig seeds the demo counter.
type CounterConfig struct {
	Initial int    `yaml:"initial"`
	Step    int    `yaml:"step,omitempty"`
	Min     *int   `yaml:"min,omitempty"`
	Max     *int   `yaml:"max,omitempty"`
	Label   string `yaml:"label,omitempty"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Loop: LoopConfig{
			TickRate:      250 * time.Millisecond,
			MessageBuffer: 128,
			FlushPolicy:   runtime.FlushOnMessageAndTick.String(),
		},
		Counter: CounterConfig{
			Step:  1,
			Label: "clicks",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads and validates the file at path. Fields missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadOptional is Load, except that a missing file yields the defaults.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Loop.TickRate < 0 {
		return fmt.Errorf("%w: loop.tick_rate must not be negative", ErrInvalid)
	}
	if c.Loop.MessageBuffer < 0 {
		return fmt.Errorf("%w: loop.message_buffer must not be negative", ErrInvalid)
	}
	if _, ok := runtime.ParseFlushPolicy(c.Loop.FlushPolicy); !ok {
		return fmt.Errorf("%w: unknown loop.flush_policy %q", ErrInvalid, c.Loop.FlushPolicy)
	}
	if c.Counter.Step <= 0 {
		return fmt.Errorf("%w: counter.step must be positive", ErrInvalid)
	}
	if c.Counter.Min != nil && c.Counter.Max != nil && *c.Counter.Min > *c.Counter.Max {
		return fmt.Errorf("%w: counter.min is greater than counter.max", ErrInvalid)
	}
	if c.Counter.Min != nil && c.Counter.Initial < *c.Counter.Min {
		return fmt.Errorf("%w: counter.initial is below counter.min", ErrInvalid)
	}
	if c.Counter.Max != nil && c.Counter.Initial > *c.Counter.Max {
		return fmt.Errorf("%w: counter.initial is above counter.max", ErrInvalid)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// FlushPolicy returns the configured queue flush policy.
func (c *Config) FlushPolicy() runtime.QueueFlushPolicy {
	policy, _ := runtime.ParseFlushPolicy(c.Loop.FlushPolicy)
	return policy
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Clamp limits v to the configured counter bounds.
func (c CounterConfig) Clamp(v int) int {
	if c.Min != nil && v < *c.Min {
		return *c.Min
	}
	if c.Max != nil && v > *c.Max {
		return *c.Max
	}
	return v
}
