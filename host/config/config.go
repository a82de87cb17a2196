// Package config loads the pour daemon's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// MotorConfig describes the stepper wiring and speed.
type MotorConfig struct {
	Pins               []int   `yaml:"pins"`
	StepsPerRevolution int     `yaml:"steps_per_revolution"`
	RPM                float64 `yaml:"rpm"`
}

// PourConfig describes one dispensing stroke.
type PourConfig struct {
	// Steps is the length of the forward stroke; the return stroke
	// mirrors it.
	Steps int `yaml:"steps"`
	// SettleMillis is the pause between strokes, letting the liquid
	// drain before the mechanism returns.
	SettleMillis int `yaml:"settle_ms"`
	// Cycles limits the number of pour cycles. Zero runs until the
	// daemon is stopped.
	Cycles int `yaml:"cycles"`
}

// Config is the root of the daemon configuration.
type Config struct {
	Motor    MotorConfig `yaml:"motor"`
	Pour     PourConfig  `yaml:"pour"`
	LogLevel string      `yaml:"log_level"`
}

// Default returns the built-in configuration: a four-wire stepper on
// GPIO16-19 turning one full revolution per pour at 60 RPM.
func Default() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

// Load reads a YAML file and fills any omitted fields with defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if len(cfg.Motor.Pins) == 0 {
		cfg.Motor.Pins = []int{16, 17, 18, 19}
	}
	if cfg.Motor.StepsPerRevolution == 0 {
		cfg.Motor.StepsPerRevolution = 200
	}
	if cfg.Motor.RPM == 0 {
		cfg.Motor.RPM = 60
	}
	if cfg.Pour.Steps == 0 {
		cfg.Pour.Steps = 200
	}
	if cfg.Pour.SettleMillis == 0 {
		cfg.Pour.SettleMillis = 500
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate rejects configurations the motor driver would refuse or
// that make no mechanical sense.
func (c Config) Validate() error {
	switch len(c.Motor.Pins) {
	case 2, 4, 5:
	default:
		return fmt.Errorf("config: motor needs 2, 4 or 5 pins, got %d", len(c.Motor.Pins))
	}
	if c.Motor.StepsPerRevolution <= 0 {
		return fmt.Errorf("config: steps_per_revolution must be positive, got %d", c.Motor.StepsPerRevolution)
	}
	if c.Motor.RPM <= 0 {
		return fmt.Errorf("config: rpm must be positive, got %v", c.Motor.RPM)
	}
	if c.Pour.Steps <= 0 {
		return fmt.Errorf("config: pour steps must be positive, got %d", c.Pour.Steps)
	}
	if c.Pour.SettleMillis < 0 {
		return fmt.Errorf("config: settle_ms must not be negative, got %d", c.Pour.SettleMillis)
	}
	if c.Pour.Cycles < 0 {
		return fmt.Errorf("config: cycles must not be negative, got %d", c.Pour.Cycles)
	}
	return nil
}

// Settle returns the between-stroke pause as a duration.
func (c Config) Settle() time.Duration {
	return time.Duration(c.Pour.SettleMillis) * time.Millisecond
}
