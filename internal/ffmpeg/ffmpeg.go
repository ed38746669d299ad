package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/keagan/vidfx/internal/config"
)

// how many trailing stderr lines are kept for error messages
const stderrTail = 8

// Executor handles all ffmpeg operations with progress streaming
type Executor struct {
	logger      zerolog.Logger
	ffmpegPath  string
	ffprobePath string
	cfg         config.FFmpegConfig
}

// New creates a new ffmpeg executor
func New(logger zerolog.Logger, cfg config.FFmpegConfig) (*Executor, error) {
	ffmpegPath, err := exec.LookPath(cfg.BinaryPath)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	ffprobePath, err := exec.LookPath(cfg.ProbePath)
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found: %w", err)
	}

	return &Executor{
		logger:      logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		cfg:         cfg,
	}, nil
}

// Run executes ffmpeg with the given arguments and streams progress
func (e *Executor) Run(ctx context.Context, opts RunOptions) error {
	if len(opts.Args) == 0 {
		return fmt.Errorf("no arguments provided")
	}

	// Build args with threads BEFORE other arguments
	baseArgs := []string{"-y", "-hide_banner", "-loglevel", "info"}
	if opts.Stdin == nil {
		baseArgs = append(baseArgs, "-nostdin")
	}

	if e.cfg.Threads > 0 {
		baseArgs = append(baseArgs, "-threads", fmt.Sprintf("%d", e.cfg.Threads))
	}

	baseArgs = append(baseArgs, "-progress", "pipe:2")
	args := append(baseArgs, opts.Args...)

	e.logger.Debug().
		Str("cmd", "ffmpeg").
		Strs("args", args).
		Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	// Stream stderr (progress + logs)
	tail := e.streamOutput(stderr, opts.ProgressHandler, opts.LogHandler)

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if len(tail) > 0 {
			return fmt.Errorf("ffmpeg execution failed: %w: %s", err, strings.Join(tail, " | "))
		}
		return fmt.Errorf("ffmpeg execution failed: %w", err)
	}

	e.logger.Debug().Msg("ffmpeg execution completed")
	return nil
}

// streamOutput parses ffmpeg output, calls handlers and returns the last
// non-progress lines.
func (e *Executor) streamOutput(r io.Reader, progressHandler ProgressFunc, logHandler func(string)) []string {
	scanner := bufio.NewScanner(r)
	progressData := &Progress{}
	var tail []string

	for scanner.Scan() {
		line := scanner.Text()

		if logHandler != nil {
			logHandler(line)
		}

		// Parse progress lines
		if strings.HasPrefix(line, "frame=") {
			fmt.Sscanf(line, "frame=%d", &progressData.Frame)
		} else if strings.HasPrefix(line, "fps=") {
			fmt.Sscanf(line, "fps=%f", &progressData.FPS)
		} else if strings.HasPrefix(line, "bitrate=") {
			progressData.Bitrate = value(line)
		} else if strings.HasPrefix(line, "out_time=") {
			progressData.Time = value(line)
		} else if strings.HasPrefix(line, "speed=") {
			progressData.Speed = value(line)
		} else if strings.HasPrefix(line, "progress=") {
			// End of progress block
			if progressHandler != nil && progressData.Frame > 0 {
				progressHandler(progressData)
			}
			progressData = &Progress{}
		} else if !isProgressKey(line) {
			tail = append(tail, line)
			if len(tail) > stderrTail {
				tail = tail[1:]
			}
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		e.logger.Debug().Err(err).Msg("stderr stream ended")
	}
	return tail
}

func value(line string) string {
	_, v, _ := strings.Cut(line, "=")
	return strings.TrimSpace(v)
}

// isProgressKey reports whether line is one of the key=value pairs emitted
// by -progress.
func isProgressKey(line string) bool {
	key, _, ok := strings.Cut(line, "=")
	if !ok || strings.ContainsAny(key, " \t") {
		return false
	}
	switch key {
	case "stream_0_0_q", "total_size", "out_time_us", "out_time_ms", "dup_frames", "drop_frames":
		return true
	}
	return false
}
