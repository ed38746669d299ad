// Package testsupport builds synthetic clips and audio for package tests.
package testsupport

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/keagan/vidfx/internal/audio"
	"github.com/keagan/vidfx/internal/clips"
)

// Solid returns an n-frame clip where every pixel has color c.
func Solid(tb testing.TB, width, height, n int, fps float64, c color.RGBA) *clips.Clip {
	tb.Helper()
	frames := make([]*image.RGBA, n)
	for i := range frames {
		f := clips.NewFrame(width, height)
		for p := 0; p < len(f.Pix); p += 4 {
			f.Pix[p], f.Pix[p+1], f.Pix[p+2], f.Pix[p+3] = c.R, c.G, c.B, c.A
		}
		frames[i] = f
	}
	return mustClip(tb, fps, frames)
}

// Pattern returns an n-frame clip with a colored gradient that shifts with
// the frame index, so every frame differs from its neighbours.
func Pattern(tb testing.TB, width, height, n int, fps float64) *clips.Clip {
	tb.Helper()
	frames := make([]*image.RGBA, n)
	for i := range frames {
		f := clips.NewFrame(width, height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				f.SetRGBA(x, y, color.RGBA{
					R: uint8((x*255/max(width-1, 1) + i*7) % 256),
					G: uint8((y*255/max(height-1, 1) + i*3) % 256),
					B: uint8((x + y + i*11) * 13 % 256),
					A: 255,
				})
			}
		}
		frames[i] = f
	}
	return mustClip(tb, fps, frames)
}

// Tone returns a sine tone of the given duration.
func Tone(sampleRate, channels int, d time.Duration) *audio.Track {
	frames := int(math.Round(d.Seconds() * float64(sampleRate)))
	samples := make([]int16, frames*channels)
	for i := 0; i < frames; i++ {
		v := int16(8000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
		if v == 0 {
			v = 1
		}
		for c := 0; c < channels; c++ {
			samples[i*channels+c] = v
		}
	}
	return &audio.Track{SampleRate: sampleRate, Channels: channels, Samples: samples}
}

// Frames materializes every frame of c or fails the test.
func Frames(tb testing.TB, c *clips.Clip) []*image.RGBA {
	tb.Helper()
	frames, err := c.Frames()
	if err != nil {
		tb.Fatalf("materialize clip %s: %v", c.ID, err)
	}
	return frames
}

// SameFrames reports whether a and b have identical frames.
func SameFrames(tb testing.TB, a, b *clips.Clip) bool {
	tb.Helper()
	if a.Len() != b.Len() || a.Width != b.Width || a.Height != b.Height {
		return false
	}
	fa, fb := Frames(tb, a), Frames(tb, b)
	for i := range fa {
		if !bytes.Equal(fa[i].Pix, fb[i].Pix) {
			return false
		}
	}
	return true
}

func mustClip(tb testing.TB, fps float64, frames []*image.RGBA) *clips.Clip {
	tb.Helper()
	c, err := clips.FromFrames(fps, frames)
	if err != nil {
		tb.Fatalf("build clip: %v", err)
	}
	return c
}
