package ffmpeg

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"os"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"github.com/keagan/vidfx/internal/audio"
	"github.com/keagan/vidfx/internal/clips"
	"github.com/keagan/vidfx/pkg/util"
)

// DecodeVideo decodes the first video stream of path into a raw RGBA frame
// file in opts.TempDir and returns a clip that reads frames from it on
// demand. The file stays on disk for the life of the clip; callers remove
// opts.TempDir when done. Audio is not read; see DecodeAudio.
func (e *Executor) DecodeVideo(ctx context.Context, path string, opts DecodeOptions) (*clips.Clip, error) {
	info := opts.Info
	if info == nil {
		probed, err := e.ProbeVideo(ctx, path)
		if err != nil {
			return nil, err
		}
		info = probed
	}
	if info.Width <= 0 || info.Height <= 0 || info.FPS <= 0 {
		return nil, fmt.Errorf("%s has no usable video stream", path)
	}

	// Without autorotation frames keep the coded size reported by ffprobe
	in := inputArgs(opts)
	in["noautorotate"] = ""
	args := ffmpeggo.Input(path, in).
		Output("pipe:1", ffmpeggo.KwArgs{
			"map":     "0:v:0",
			"format":  "rawvideo",
			"pix_fmt": "rgba",
		}).
		GetArgs()

	out, err := util.TempFile(opts.TempDir, "vidfx-frames-", ".rgba")
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	e.logger.Info().
		Str("input", path).
		Int("width", info.Width).
		Int("height", info.Height).
		Float64("fps", info.FPS).
		Str("frames", out.Name()).
		Msg("decoding video")

	err = e.Run(ctx, RunOptions{
		Args:   args,
		Stdout: out,
		LogHandler: func(line string) {
			e.logger.Trace().Str("ffmpeg", line).Msg("decode output")
		},
	})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		util.CleanupFiles(out.Name())
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	clip, err := e.frameFileClip(out.Name(), info.FPS, info.Width, info.Height)
	if err != nil {
		util.CleanupFiles(out.Name())
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	clip.Source = path
	return clip, nil
}

// frameFileClip wraps a file of tightly packed width x height RGBA frames.
// Only the frame being read is held in memory.
func (e *Executor) frameFileClip(path string, fps float64, width, height int) (*clips.Clip, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	frameSize := int64(width) * int64(height) * 4
	n := int(st.Size() / frameSize)
	if n == 0 {
		return nil, errors.New("no frames")
	}
	if rest := st.Size() % frameSize; rest != 0 {
		e.logger.Warn().Int64("bytes", rest).Msg("dropping incomplete trailing frame")
	}

	return clips.New(fps, width, height, n, func(i int) (*image.RGBA, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		frame := clips.NewFrame(width, height)
		if _, err := f.ReadAt(frame.Pix, int64(i)*frameSize); err != nil {
			return nil, fmt.Errorf("read frame %d: %w", i, err)
		}
		return frame, nil
	}), nil
}

// DecodeAudio reads the first audio stream of path as interleaved 16-bit
// PCM in the requested format.
func (e *Executor) DecodeAudio(ctx context.Context, path string, format AudioFormat, opts DecodeOptions) (*audio.Track, error) {
	args := ffmpeggo.Input(path, inputArgs(opts)).
		Output("pipe:1", ffmpeggo.KwArgs{
			"map":    "0:a:0",
			"format": "s16le",
			"acodec": "pcm_s16le",
			"ar":     format.SampleRate,
			"ac":     format.Channels,
		}).
		GetArgs()

	e.logger.Info().
		Str("input", path).
		Int("sample_rate", format.SampleRate).
		Int("channels", format.Channels).
		Msg("decoding audio")

	var raw bytes.Buffer
	err := e.Run(ctx, RunOptions{
		Args:   args,
		Stdout: &raw,
		LogHandler: func(line string) {
			e.logger.Trace().Str("ffmpeg", line).Msg("decode output")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("decode audio %s: %w", path, err)
	}

	frameBytes := 2 * format.Channels
	samples := make([]int16, raw.Len()/frameBytes*format.Channels)
	if err := binary.Read(bytes.NewReader(raw.Bytes()[:len(samples)*2]), binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("decode audio %s: %w", path, err)
	}
	return audio.New(format.SampleRate, format.Channels, samples)
}

func inputArgs(opts DecodeOptions) ffmpeggo.KwArgs {
	kw := ffmpeggo.KwArgs{}
	if opts.MaxDuration > 0 {
		kw["t"] = util.FormatDuration(opts.MaxDuration)
	}
	return kw
}
