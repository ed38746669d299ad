package config

import (
	"errors"
	"fmt"
)

// Log color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var presets = map[string]bool{
	"ultrafast": true, "superfast": true, "veryfast": true, "faster": true, "fast": true,
	"medium": true, "slow": true, "slower": true, "veryslow": true,
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateCommands(); err != nil {
		return err
	}

	switch c.Log.Color {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid log.color %q (use 'auto', 'always' or 'never')", c.Log.Color)
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.BinaryPath == "" || c.FFmpeg.ProbePath == "" {
		return errors.New("ffmpeg.binary_path and ffmpeg.probe_path must be set")
	}
	if c.FFmpeg.Threads < 0 {
		return errors.New("ffmpeg.threads must not be negative")
	}
	if !presets[c.FFmpeg.Preset] {
		return fmt.Errorf("invalid ffmpeg.preset %q", c.FFmpeg.Preset)
	}
	if c.FFmpeg.CRF < 0 || c.FFmpeg.CRF > 51 {
		return errors.New("ffmpeg.crf must be between 0 and 51")
	}
	if c.FFmpeg.VideoCodec == "" || c.FFmpeg.AudioCodec == "" {
		return errors.New("ffmpeg.video_codec and ffmpeg.audio_codec must be set")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return errors.New("audio.sample_rate must be between 8000 and 192000")
	}
	switch c.Audio.Channels {
	case 1, 2:
		// valid
	default:
		return errors.New("invalid audio.channels (use 1 or 2)")
	}
	return nil
}

func (c *Config) validateCommands() error {
	if c.Edit.Output == "" || c.Merge.Output == "" {
		return errors.New("edit.output and merge.output must be set")
	}
	if c.Edit.MaxSeconds < 0 {
		return errors.New("edit.max_seconds must not be negative")
	}
	if c.Merge.SongStart < 0 {
		return errors.New("merge.song_start must not be negative")
	}
	return nil
}
