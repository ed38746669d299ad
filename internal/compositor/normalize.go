package compositor

import (
	"image"
	"image/color"
	"math"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"

	"github.com/keagan/vidfx/internal/audio"
	"github.com/keagan/vidfx/internal/clips"
)

// Format is the common frame and audio format of a timeline.
type Format struct {
	FPS    float64
	Width  int
	Height int

	// SampleRate and Channels are zero when no clip carries audio.
	SampleRate int
	Channels   int
}

// HasAudio reports whether the format includes an audio stream.
func (f Format) HasAudio() bool {
	return f.SampleRate > 0 && f.Channels > 0
}

// Normalize converts c to the given format: frame rate first, then
// resolution, then audio.
func Normalize(c *clips.Clip, f Format) (*clips.Clip, error) {
	out := Retime(c, f.FPS)
	out = Fit(out, f.Width, f.Height)
	if out.Audio != nil && f.HasAudio() && (out.Audio.SampleRate != f.SampleRate || out.Audio.Channels != f.Channels) {
		track, err := out.Audio.Convert(f.SampleRate, f.Channels)
		if err != nil {
			return nil, err
		}
		out = out.WithAudio(track)
	}
	return out, nil
}

// Retime resamples c to fps by picking, for every output frame, the
// nearest source frame at or before its timestamp. Duration is kept to
// within one frame.
func Retime(c *clips.Clip, fps float64) *clips.Clip {
	if math.Abs(c.FPS-fps) < 1e-9 {
		return c
	}
	n := int(math.Round(float64(c.Len()) * fps / c.FPS))
	if n < 1 {
		n = 1
	}
	ratio := c.FPS / fps
	return c.Retime(fps, n, func(i int) int {
		return int(math.Floor(float64(i)*ratio + 1e-9))
	})
}

// Fit scales c to fit inside width x height keeping its aspect ratio and
// centres it on a black canvas.
func Fit(c *clips.Clip, width, height int) *clips.Clip {
	if c.Width == width && c.Height == height {
		return c
	}
	scale := math.Min(float64(width)/float64(c.Width), float64(height)/float64(c.Height))
	sw := max(1, min(width, int(math.Round(float64(c.Width)*scale))))
	sh := max(1, min(height, int(math.Round(float64(c.Height)*scale))))
	at := image.Pt((width-sw)/2, (height-sh)/2)
	target := image.Rectangle{Min: at, Max: at.Add(image.Pt(sw, sh))}

	return c.MapFramesTo(width, height, func(src *image.RGBA) *image.RGBA {
		scaled := resize.Resize(uint(sw), uint(sh), src, resize.Bilinear)
		canvas := clips.NewFrame(width, height)
		draw.Draw(canvas, canvas.Rect, image.NewUniform(color.Black), image.Point{}, draw.Src)
		draw.Draw(canvas, target, scaled, scaled.Bounds().Min, draw.Src)
		return canvas
	})
}

// timelineFormat derives the target format from the first clip, and the
// audio format from the first clip that carries audio.
func timelineFormat(cs []*clips.Clip) Format {
	f := Format{FPS: cs[0].FPS, Width: cs[0].Width, Height: cs[0].Height}
	for _, c := range cs {
		if c.Audio != nil {
			f.SampleRate, f.Channels = c.Audio.SampleRate, c.Audio.Channels
			break
		}
	}
	return f
}

// clipAudio returns the audio of c, or silence in format f when it has
// none, fitted to the clip's video duration.
func clipAudio(c *clips.Clip, f Format) *audio.Track {
	track := c.Audio
	if track == nil {
		track = audio.Silence(f.SampleRate, f.Channels, 0)
	}
	return track.FitDuration(c.Duration())
}
