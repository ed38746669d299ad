package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/keagan/vidfx/internal/audio"
	"github.com/keagan/vidfx/internal/clips"
	"github.com/keagan/vidfx/internal/config"
	"github.com/keagan/vidfx/internal/ffmpeg"
	"github.com/keagan/vidfx/internal/registry"
	"github.com/keagan/vidfx/pkg/util"
)

// ErrOutputLocked is returned when another process is writing the same
// output file.
var ErrOutputLocked = errors.New("output is locked by another run")

// Media decodes inputs and encodes results. *ffmpeg.Executor implements it.
type Media interface {
	ProbeVideo(ctx context.Context, path string) (*ffmpeg.VideoInfo, error)
	DecodeVideo(ctx context.Context, path string, opts ffmpeg.DecodeOptions) (*clips.Clip, error)
	DecodeAudio(ctx context.Context, path string, format ffmpeg.AudioFormat, opts ffmpeg.DecodeOptions) (*audio.Track, error)
	EncodeClip(ctx context.Context, clip *clips.Clip, output string, opts ffmpeg.EncodeOptions) error
}

// Runner drives the pipeline from files on disk to an encoded output file
type Runner struct {
	logger   zerolog.Logger
	cfg      *config.Config
	pipeline *Pipeline
	media    Media
}

// EditOptions configures EditFile
type EditOptions struct {
	Input   string
	Filters []string
	Effects []string
	// Output is a base name; ".mp4" is appended when missing.
	Output string
	// MaxSeconds keeps only the start of the input; zero keeps everything.
	MaxSeconds float64
	Progress   ffmpeg.ProgressFunc
}

// MergeOptions configures MergeFiles
type MergeOptions struct {
	Inputs []string
	// Transitions holds name@index bindings.
	Transitions []string
	SongPath    string
	SongStart   time.Duration
	Output      string
	Progress    ffmpeg.ProgressFunc
}

// NewRunner creates a runner backed by ffmpeg
func NewRunner(logger zerolog.Logger, cfg *config.Config, reg *registry.Registry) (*Runner, error) {
	exec, err := ffmpeg.New(logger, cfg.FFmpeg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ffmpeg: %w", err)
	}
	return NewRunnerWithMedia(logger, cfg, reg, exec), nil
}

// NewRunnerWithMedia creates a runner using the given media backend
func NewRunnerWithMedia(logger zerolog.Logger, cfg *config.Config, reg *registry.Registry, media Media) *Runner {
	return &Runner{
		logger:   logger.With().Str("component", "runner").Logger(),
		cfg:      cfg,
		pipeline: New(logger, reg),
		media:    media,
	}
}

// EditFile applies filters and effects to one input file and writes the
// result. It returns the path written.
func (r *Runner) EditFile(ctx context.Context, opts EditOptions) (string, error) {
	if err := requireFiles(opts.Input); err != nil {
		return "", err
	}
	if opts.MaxSeconds < 0 {
		return "", fmt.Errorf("max seconds must not be negative")
	}
	// Fail on bad names before spending time decoding
	if err := r.pipeline.CheckEdit(opts.Filters, opts.Effects); err != nil {
		return "", err
	}
	output := util.OutputPath(firstNonEmpty(opts.Output, r.cfg.Edit.Output))

	scratch, err := r.scratchDir()
	if err != nil {
		return "", err
	}
	defer r.removeScratch(scratch)

	clip, err := r.load(ctx, opts.Input, ffmpeg.DecodeOptions{
		MaxDuration: util.Seconds(opts.MaxSeconds),
		TempDir:     scratch,
	})
	if err != nil {
		return "", err
	}

	edited, err := r.pipeline.Edit(EditRequest{Clip: clip, Filters: opts.Filters, Effects: opts.Effects})
	if err != nil {
		return "", err
	}

	if err := r.export(ctx, edited, output, opts.Progress); err != nil {
		return "", err
	}
	return output, nil
}

// MergeFiles joins input files with transitions and optional background
// music and writes the result. It returns the path written.
func (r *Runner) MergeFiles(ctx context.Context, opts MergeOptions) (string, error) {
	if len(opts.Inputs) < 2 {
		return "", errors.New("merge needs at least two input files")
	}
	if err := requireFiles(opts.Inputs...); err != nil {
		return "", err
	}
	if opts.SongPath != "" {
		if err := requireFiles(opts.SongPath); err != nil {
			return "", err
		}
	}
	if opts.SongStart < 0 {
		return "", fmt.Errorf("song start must not be negative")
	}

	bindings, err := ParseBindings(opts.Transitions)
	if err != nil {
		return "", err
	}
	if err := r.pipeline.CheckMerge(len(opts.Inputs), bindings); err != nil {
		return "", err
	}
	output := util.OutputPath(firstNonEmpty(opts.Output, r.cfg.Merge.Output))

	scratch, err := r.scratchDir()
	if err != nil {
		return "", err
	}
	defer r.removeScratch(scratch)

	inputs := make([]*clips.Clip, len(opts.Inputs))
	for i, path := range opts.Inputs {
		clip, err := r.load(ctx, path, ffmpeg.DecodeOptions{TempDir: scratch})
		if err != nil {
			return "", err
		}
		inputs[i] = clip
	}

	var song *audio.Track
	if opts.SongPath != "" {
		song, err = r.media.DecodeAudio(ctx, opts.SongPath, r.audioFormat(), ffmpeg.DecodeOptions{})
		if err != nil {
			return "", fmt.Errorf("load song: %w", err)
		}
		r.logger.Info().
			Str("song", opts.SongPath).
			Dur("duration", song.Duration()).
			Dur("start", opts.SongStart).
			Msg("background audio loaded")
	}

	merged, err := r.pipeline.Merge(MergeRequest{
		Clips:       inputs,
		Transitions: bindings,
		Audio:       song,
		AudioStart:  opts.SongStart,
	})
	if err != nil {
		return "", err
	}

	if err := r.export(ctx, merged, output, opts.Progress); err != nil {
		return "", err
	}
	return output, nil
}

// load decodes the video of path and, when present, its audio.
func (r *Runner) load(ctx context.Context, path string, opts ffmpeg.DecodeOptions) (*clips.Clip, error) {
	info, err := r.media.ProbeVideo(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	opts.Info = info
	clip, err := r.media.DecodeVideo(ctx, path, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	if info.HasAudio {
		track, err := r.media.DecodeAudio(ctx, path, r.audioFormat(), opts)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		clip = clip.WithAudio(track)
	}

	r.logger.Info().
		Str("input", path).
		Str("clip", clip.ID).
		Int("frames", clip.Len()).
		Dur("duration", clip.Duration()).
		Bool("audio", clip.Audio != nil).
		Msg("input loaded")

	return clip, nil
}

// export encodes clip next to output and renames it into place, so output
// is either complete or untouched. A lock file keeps concurrent runs from
// writing the same output.
func (r *Runner) export(ctx context.Context, clip *clips.Clip, output string, progress ffmpeg.ProgressFunc) error {
	dir := filepath.Dir(output)
	if err := util.EnsureDir(dir); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	lockPath := output + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrOutputLocked, output)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn().Err(err).Str("lock", lockPath).Msg("failed to release output lock")
		}
		_ = os.Remove(lockPath)
	}()

	tmp, err := util.TempFile(dir, "."+strings.TrimSuffix(filepath.Base(output), ".mp4")+"-", ".mp4")
	if err != nil {
		return fmt.Errorf("create temporary output: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	err = r.media.EncodeClip(ctx, clip, tmpPath, ffmpeg.EncodeOptions{
		TempDir:      r.cfg.TempDir,
		ProgressFunc: progress,
	})
	if err != nil {
		util.CleanupFiles(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, output); err != nil {
		util.CleanupFiles(tmpPath)
		return fmt.Errorf("move output into place: %w", err)
	}

	r.logger.Info().
		Str("output", output).
		Dur("duration", clip.Duration()).
		Msg("export complete")
	return nil
}

// scratchDir creates the per-run directory decoded frame files live in.
func (r *Runner) scratchDir() (string, error) {
	if err := util.EnsureDir(r.cfg.TempDir); err != nil {
		return "", fmt.Errorf("create temp directory: %w", err)
	}
	dir, err := os.MkdirTemp(r.cfg.TempDir, "vidfx-run-")
	if err != nil {
		return "", fmt.Errorf("create scratch directory: %w", err)
	}
	return dir, nil
}

func (r *Runner) removeScratch(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		r.logger.Warn().Err(err).Str("dir", dir).Msg("failed to remove scratch directory")
	}
}

func (r *Runner) audioFormat() ffmpeg.AudioFormat {
	return ffmpeg.AudioFormat{SampleRate: r.cfg.Audio.SampleRate, Channels: r.cfg.Audio.Channels}
}

func requireFiles(paths ...string) error {
	for _, p := range paths {
		if !util.FileExists(p) {
			return fmt.Errorf("input %s: %w", p, os.ErrNotExist)
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
