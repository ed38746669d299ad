package ffmpeg

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"github.com/keagan/vidfx/internal/audio"
	"github.com/keagan/vidfx/internal/clips"
	"github.com/keagan/vidfx/pkg/util"
)

// EncodeClip renders clip to output. Frames are streamed to ffmpeg's stdin
// as raw RGBA; audio, when present, is staged in a temporary PCM file and
// muxed as a second input.
func (e *Executor) EncodeClip(ctx context.Context, clip *clips.Clip, output string, opts EncodeOptions) error {
	if clip == nil || clip.Len() == 0 {
		return fmt.Errorf("nothing to encode")
	}
	if output == "" {
		return fmt.Errorf("output path is required")
	}
	opts = e.withDefaults(opts)

	video := ffmpeggo.Input("pipe:0", ffmpeggo.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", clip.Width, clip.Height),
		"framerate": fmt.Sprintf("%g", clip.FPS),
	})
	streams := []*ffmpeggo.Stream{video}

	outArgs := ffmpeggo.KwArgs{
		"c:v":    opts.VideoCodec,
		"crf":    opts.CRF,
		"preset": opts.Preset,
		"vf": NewFilterBuilder().
			EvenDimensions(clip.Width, clip.Height).
			Format(opts.PixelFormat).
			Build(),
		"movflags": "+faststart",
		"format":   "mp4",
	}

	if clip.Audio != nil && clip.Audio.Frames() > 0 {
		pcm, err := writePCM(opts.TempDir, clip.Audio)
		if err != nil {
			return fmt.Errorf("stage audio: %w", err)
		}
		defer util.CleanupFiles(pcm)

		streams = append(streams, ffmpeggo.Input(pcm, ffmpeggo.KwArgs{
			"format": "s16le",
			"ar":     clip.Audio.SampleRate,
			"ac":     clip.Audio.Channels,
		}))
		outArgs["c:a"] = opts.AudioCodec
	}

	args := ffmpeggo.Output(streams, output, outArgs).GetArgs()

	e.logger.Info().
		Str("output", output).
		Int("frames", clip.Len()).
		Dur("duration", clip.Duration()).
		Bool("audio", clip.Audio != nil).
		Msg("encoding clip")

	pr, pw := io.Pipe()
	writeErr := make(chan error, 1)
	go func() {
		err := writeFrames(pw, clip)
		pw.CloseWithError(err)
		writeErr <- err
	}()

	total := clip.Len()
	err := e.Run(ctx, RunOptions{
		Args:  args,
		Stdin: pr,
		ProgressHandler: func(p *Progress) {
			p.Percentage = min(100, float64(p.Frame)*100/float64(total))
			if opts.ProgressFunc != nil {
				opts.ProgressFunc(p)
			}
		},
		LogHandler: func(line string) {
			e.logger.Trace().Str("ffmpeg", line).Msg("encode output")
		},
	})
	// unblock the writer if ffmpeg stopped reading early
	pr.Close()
	frameErr := <-writeErr

	if err != nil {
		return fmt.Errorf("encode %s: %w", output, err)
	}
	if frameErr != nil {
		return fmt.Errorf("encode %s: %w", output, frameErr)
	}

	e.logger.Info().Str("output", output).Msg("encode completed")
	return nil
}

func (e *Executor) withDefaults(opts EncodeOptions) EncodeOptions {
	if opts.VideoCodec == "" {
		opts.VideoCodec = e.cfg.VideoCodec
	}
	if opts.AudioCodec == "" {
		opts.AudioCodec = e.cfg.AudioCodec
	}
	if opts.CRF == 0 {
		opts.CRF = e.cfg.CRF
	}
	if opts.Preset == "" {
		opts.Preset = e.cfg.Preset
	}
	if opts.PixelFormat == "" {
		opts.PixelFormat = e.cfg.PixelFormat
	}
	return opts
}

// writeFrames streams every frame of clip as tightly packed RGBA rows.
func writeFrames(w io.Writer, clip *clips.Clip) error {
	bw := bufio.NewWriterSize(w, clip.Width*clip.Height*4)
	rowLen := clip.Width * 4
	for i := 0; i < clip.Len(); i++ {
		f, err := clip.Frame(i)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		for y := f.Rect.Min.Y; y < f.Rect.Max.Y; y++ {
			off := f.PixOffset(f.Rect.Min.X, y)
			if _, err := bw.Write(f.Pix[off : off+rowLen]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// writePCM stores track as raw little-endian PCM and returns the file path.
func writePCM(dir string, track *audio.Track) (string, error) {
	f, err := util.TempFile(dir, "vidfx-audio-", ".pcm")
	if err != nil {
		return "", err
	}
	bw := bufio.NewWriter(f)
	if err := binary.Write(bw, binary.LittleEndian, track.Samples); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), f.Close()
}
