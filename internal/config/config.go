package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Scratch space for intermediate audio files
	TempDir string `yaml:"temp_dir"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`

	// Decoded audio format
	Audio AudioConfig `yaml:"audio"`

	// Command defaults
	Edit  EditConfig  `yaml:"edit"`
	Merge MergeConfig `yaml:"merge"`

	Log LogConfig `yaml:"log"`
}

type FFmpegConfig struct {
	BinaryPath  string `yaml:"binary_path"`
	ProbePath   string `yaml:"probe_path"`
	Threads     int    `yaml:"threads"`
	Preset      string `yaml:"preset"`
	CRF         int    `yaml:"crf"`
	VideoCodec  string `yaml:"video_codec"`
	AudioCodec  string `yaml:"audio_codec"`
	PixelFormat string `yaml:"pixel_format"`
}

type AudioConfig struct {
	SampleRate int `yaml:"sample_rate"`
	Channels   int `yaml:"channels"`
}

type EditConfig struct {
	Output     string  `yaml:"output"`
	MaxSeconds float64 `yaml:"max_seconds"`
}

type MergeConfig struct {
	Output    string  `yaml:"output"`
	SongStart float64 `yaml:"song_start"`
}

type LogConfig struct {
	// auto, always or never
	Color string `yaml:"color"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := Default()

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
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		TempDir: os.TempDir(),
		FFmpeg: FFmpegConfig{
			BinaryPath:  "ffmpeg",
			ProbePath:   "ffprobe",
			Threads:     4,
			Preset:      "medium",
			CRF:         23,
			VideoCodec:  "libx264",
			AudioCodec:  "aac",
			PixelFormat: "yuv420p",
		},
		Audio: AudioConfig{
			SampleRate: 44100,
			Channels:   2,
		},
		Edit: EditConfig{
			Output:     "video",
			MaxSeconds: 0,
		},
		Merge: MergeConfig{
			Output:    "merged",
			SongStart: 0,
		},
		Log: LogConfig{
			Color: ColorAuto,
		},
	}
}

// DefaultPath is where `config init` writes the user configuration
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".vidfx", "config.yaml")
}

func findConfigFile() string {
	candidates := []string{
		"./vidfx.yaml",
		"./vidfx.yml",
		DefaultPath(),
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
	return Default()
}
