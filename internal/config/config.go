package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Dataset layout
	DataDir   string `yaml:"data_dir"`
	OutputDir string `yaml:"output_dir"`
	Container string `yaml:"container"` // period video container, e.g. "mkv"

	// Extraction settings
	ClipDuration   float64 `yaml:"clip_duration_seconds"`
	MinOutputBytes int64   `yaml:"min_output_bytes"`
	Workers        int     `yaml:"workers"`
	GameLimit      int     `yaml:"game_limit"` // 0 = all games

	// Correlation windows
	Windows WindowConfig `yaml:"windows"`

	// Background sampling
	Background BackgroundConfig `yaml:"background"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
}

// WindowConfig bounds the look-back windows per rule, in seconds.
type WindowConfig struct {
	FreeKick float64 `yaml:"free_kick"`
	Penalty  float64 `yaml:"penalty"`
	ShotGoal float64 `yaml:"shot_goal"` // goal this close after a shot disqualifies it
}

type BackgroundConfig struct {
	ClipsPerGame int     `yaml:"clips_per_game"`
	GoalBuffer   float64 `yaml:"goal_buffer_seconds"` // exclusion half-window around goals
	Margin       float64 `yaml:"margin_seconds"`      // keep-out from period start/end
	MaxAttempts  int     `yaml:"max_attempts"`
	RandomSeed   int64   `yaml:"random_seed"`
}

type FFmpegConfig struct {
	Threads        int           `yaml:"threads"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"` // per strategy attempt, 0 disables
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		DataDir:        "./data",
		OutputDir:      "./clips",
		Container:      "mkv",
		ClipDuration:   15,
		MinOutputBytes: 1000,
		Workers:        4,
		Windows: WindowConfig{
			FreeKick: 10,
			Penalty:  120,
			ShotGoal: 2,
		},
		Background: BackgroundConfig{
			ClipsPerGame: 3,
			GoalBuffer:   30,
			Margin:       20,
			MaxAttempts:  50,
			RandomSeed:   42,
		},
		FFmpeg: FFmpegConfig{
			Threads:        0,
			AttemptTimeout: 120 * time.Second,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".matchclips", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
