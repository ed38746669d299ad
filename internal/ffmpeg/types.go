package ffmpeg

import (
	"io"
	"time"
)

// VideoInfo contains metadata about a video file
type VideoInfo struct {
	FilePath        string
	Duration        time.Duration
	Width           int
	Height          int
	FPS             float64
	Bitrate         int64
	VideoCodec      string
	HasAudio        bool
	AudioCodec      string
	AudioSampleRate int
	AudioChannels   int
}

// Progress represents ffmpeg progress data
type Progress struct {
	Frame      int
	FPS        float64
	Bitrate    string
	Time       string
	Speed      string
	Percentage float64
}

// ProgressFunc is a callback for progress updates during ffmpeg operations.
// Called periodically with progress information as the operation executes.
type ProgressFunc func(*Progress)

// RunOptions configures ffmpeg execution
type RunOptions struct {
	Args            []string
	Stdin           io.Reader
	Stdout          io.Writer
	ProgressHandler ProgressFunc
	LogHandler      func(line string)
}

// DecodeOptions limits what is read from an input file
type DecodeOptions struct {
	// MaxDuration keeps only the start of the input; zero reads everything.
	MaxDuration time.Duration
	// TempDir holds decoded frame files. Empty uses the system default.
	TempDir string
	// Info skips probing when the caller already has it.
	Info *VideoInfo
}

// AudioFormat is the PCM layout audio is decoded to
type AudioFormat struct {
	SampleRate int
	Channels   int
}

// EncodeOptions configures the final render. Zero values fall back to the
// executor's configuration.
type EncodeOptions struct {
	VideoCodec   string
	AudioCodec   string
	CRF          int
	Preset       string
	PixelFormat  string
	TempDir      string
	ProgressFunc ProgressFunc
}
