// Package config loads the game configuration from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Display modes.
const (
	DisplayWindow   = "window"
	DisplayConsole  = "console"
	DisplayHeadless = "headless"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config is the complete application configuration.
type Config struct {
	Camera   CameraConfig   `yaml:"camera"`
	Detector DetectorConfig `yaml:"detector"`
	Game     GameConfig     `yaml:"game"`
	Display  DisplayConfig  `yaml:"display"`
	Server   ServerConfig   `yaml:"server"`
	Tray     TrayConfig     `yaml:"tray"`
	Log      LogConfig      `yaml:"log"`
}

// CameraConfig selects the frame source.
type CameraConfig struct {
	// Source is a device index ("0") or a video file path.
	Source string `yaml:"source"`
	Mirror bool   `yaml:"mirror"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
}

type DetectorConfig struct {
	MaxHands int `yaml:"max_hands"`
}

// GameConfig holds the two gameplay timings plus presentation timing.
type GameConfig struct {
	HoldTime        time.Duration `yaml:"hold_time"`
	InstructionHold time.Duration `yaml:"instruction_hold"`
	TerminalHold    time.Duration `yaml:"terminal_hold"`
	// Seed fixes the instruction sequence; 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

type DisplayConfig struct {
	Mode string `yaml:"mode"`
}

type ServerConfig struct {
	// Addr enables the spectator server when non-empty, e.g. ":8080".
	Addr string `yaml:"addr"`
}

type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Camera: CameraConfig{
			Source: "0",
			Mirror: true,
			Width:  640,
			Height: 480,
			FPS:    30,
		},
		Detector: DetectorConfig{MaxHands: 1},
		Game: GameConfig{
			HoldTime:        time.Second,
			InstructionHold: 5 * time.Second,
			TerminalHold:    5 * time.Second,
		},
		Display: DisplayConfig{Mode: DisplayWindow},
		Log:     LogConfig{Level: "info", Format: "console"},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then SIMONSAYS_* environment variables. A .env file in
// the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.Camera.Source = getEnv("SIMONSAYS_CAMERA_SOURCE", c.Camera.Source)
	c.Camera.Mirror = getEnvAsBool("SIMONSAYS_CAMERA_MIRROR", c.Camera.Mirror)
	c.Camera.FPS = getEnvAsInt("SIMONSAYS_CAMERA_FPS", c.Camera.FPS)
	c.Game.HoldTime = getEnvAsDuration("SIMONSAYS_HOLD_TIME", c.Game.HoldTime)
	c.Game.InstructionHold = getEnvAsDuration("SIMONSAYS_INSTRUCTION_HOLD", c.Game.InstructionHold)
	c.Game.TerminalHold = getEnvAsDuration("SIMONSAYS_TERMINAL_HOLD", c.Game.TerminalHold)
	c.Game.Seed = int64(getEnvAsInt("SIMONSAYS_SEED", int(c.Game.Seed)))
	c.Display.Mode = getEnv("SIMONSAYS_DISPLAY", c.Display.Mode)
	c.Server.Addr = getEnv("SIMONSAYS_SERVER_ADDR", c.Server.Addr)
	c.Tray.Enabled = getEnvAsBool("SIMONSAYS_TRAY", c.Tray.Enabled)
	c.Log.Level = getEnv("SIMONSAYS_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("SIMONSAYS_LOG_FORMAT", c.Log.Format)
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.Game.HoldTime <= 0 {
		return fmt.Errorf("%w: game.hold_time must be positive, got %v", ErrInvalid, c.Game.HoldTime)
	}
	if c.Game.InstructionHold <= 0 {
		return fmt.Errorf("%w: game.instruction_hold must be positive, got %v", ErrInvalid, c.Game.InstructionHold)
	}
	if c.Game.TerminalHold <= 0 {
		return fmt.Errorf("%w: game.terminal_hold must be positive, got %v", ErrInvalid, c.Game.TerminalHold)
	}
	if c.Detector.MaxHands < 1 {
		return fmt.Errorf("%w: detector.max_hands must be at least 1, got %d", ErrInvalid, c.Detector.MaxHands)
	}
	switch c.Display.Mode {
	case DisplayWindow, DisplayConsole, DisplayHeadless:
	default:
		return fmt.Errorf("%w: unknown display.mode %q", ErrInvalid, c.Display.Mode)
	}
	if c.Camera.Source == "" {
		return fmt.Errorf("%w: camera.source is required", ErrInvalid)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
