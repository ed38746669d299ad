package clips

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/keagan/vidfx/internal/audio"
	"github.com/keagan/vidfx/pkg/util"
)

// FrameFunc produces frame i of a clip. Returned frames are shared and must
// not be modified by the caller.
type FrameFunc func(i int) (*image.RGBA, error)

// Clip is an immutable, time-indexed sequence of frames with optional audio.
// Frames are produced lazily; every operation returns a new Clip.
type Clip struct {
	ID     string
	Source string
	FPS    float64
	Width  int
	Height int
	Audio  *audio.Track

	n     int
	frame FrameFunc
}

// New creates a clip of n frames produced by frame.
func New(fps float64, width, height, n int, frame FrameFunc) *Clip {
	return &Clip{
		ID:     uuid.NewString(),
		FPS:    fps,
		Width:  width,
		Height: height,
		n:      n,
		frame:  frame,
	}
}

// FromFrames wraps already decoded frames. All frames must share one size.
func FromFrames(fps float64, frames []*image.RGBA) (*Clip, error) {
	if len(frames) == 0 {
		return nil, errors.New("clip has no frames")
	}
	if fps <= 0 {
		return nil, fmt.Errorf("invalid frame rate %v", fps)
	}
	size := frames[0].Rect.Size()
	for i, f := range frames {
		if f.Rect.Size() != size {
			return nil, fmt.Errorf("frame %d is %v, expected %v", i, f.Rect.Size(), size)
		}
	}
	return New(fps, size.X, size.Y, len(frames), func(i int) (*image.RGBA, error) {
		return frames[i], nil
	}), nil
}

// NewFrame allocates a blank frame whose bounds start at the origin.
func NewFrame(width, height int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// Len returns the number of frames.
func (c *Clip) Len() int {
	return c.n
}

// Duration returns Len frames at FPS, rounded to the nanosecond. Timelines
// add up in frames: at rates such as 30000/1001 the rounded durations of
// parts can differ from the duration of the whole by a nanosecond.
func (c *Clip) Duration() time.Duration {
	return util.FramesToDuration(c.n, c.FPS)
}

// Frame returns frame i.
func (c *Clip) Frame(i int) (*image.RGBA, error) {
	if i < 0 || i >= c.n {
		return nil, fmt.Errorf("frame %d out of range [0,%d)", i, c.n)
	}
	return c.frame(i)
}

// Frames materializes every frame in order.
func (c *Clip) Frames() ([]*image.RGBA, error) {
	out := make([]*image.RGBA, c.n)
	for i := range out {
		f, err := c.Frame(i)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// derive copies the metadata of c into a new clip with its own identity.
func (c *Clip) derive(fps float64, width, height, n int, frame FrameFunc) *Clip {
	return &Clip{
		ID:     uuid.NewString(),
		Source: c.Source,
		FPS:    fps,
		Width:  width,
		Height: height,
		Audio:  c.Audio,
		n:      n,
		frame:  frame,
	}
}

// MapFrames applies fn to every frame independently. fn must return a frame
// of the same size and must not modify its argument.
func (c *Clip) MapFrames(fn func(*image.RGBA) *image.RGBA) *Clip {
	return c.MapFramesTo(c.Width, c.Height, fn)
}

// MapFramesTo is MapFrames for functions that change the frame size.
func (c *Clip) MapFramesTo(width, height int, fn func(*image.RGBA) *image.RGBA) *Clip {
	src := c.frame
	return c.derive(c.FPS, width, height, c.n, func(i int) (*image.RGBA, error) {
		f, err := src(i)
		if err != nil {
			return nil, err
		}
		return fn(f), nil
	})
}

// Remap builds an n-frame clip whose frame i is frame index(i) of c.
func (c *Clip) Remap(n int, index func(i int) int) *Clip {
	return c.Retime(c.FPS, n, index)
}

// Retime is Remap with a new frame rate.
func (c *Clip) Retime(fps float64, n int, index func(i int) int) *Clip {
	src := c.frame
	last := c.n - 1
	return c.derive(fps, c.Width, c.Height, n, func(i int) (*image.RGBA, error) {
		j := index(i)
		if j < 0 {
			j = 0
		}
		if j > last {
			j = last
		}
		return src(j)
	})
}

// Sub returns frames [from, to), clamped to the clip. Audio is sliced to
// the same span.
func (c *Clip) Sub(from, to int) *Clip {
	if from < 0 {
		from = 0
	}
	if to > c.n {
		to = c.n
	}
	if to < from {
		to = from
	}
	src := c.frame
	out := c.derive(c.FPS, c.Width, c.Height, to-from, func(i int) (*image.RGBA, error) {
		return src(from + i)
	})
	if c.Audio != nil {
		out.Audio = c.Audio.SliceTime(
			util.FramesToDuration(from, c.FPS),
			util.FramesToDuration(to, c.FPS))
	}
	return out
}

// WithAudio returns a copy of c carrying track (nil removes audio).
func (c *Clip) WithAudio(track *audio.Track) *Clip {
	out := c.derive(c.FPS, c.Width, c.Height, c.n, c.frame)
	out.Audio = track
	return out
}

// Concat appends clips with hard cuts. All parts must share frame rate and
// size; the result carries no audio.
func Concat(parts ...*Clip) (*Clip, error) {
	if len(parts) == 0 {
		return nil, errors.New("nothing to concatenate")
	}
	first := parts[0]
	offsets := make([]int, len(parts))
	total := 0
	for i, p := range parts {
		if math.Abs(p.FPS-first.FPS) > 1e-9 {
			return nil, fmt.Errorf("part %d runs at %v fps, expected %v", i, p.FPS, first.FPS)
		}
		if p.Width != first.Width || p.Height != first.Height {
			return nil, fmt.Errorf("part %d is %dx%d, expected %dx%d", i, p.Width, p.Height, first.Width, first.Height)
		}
		offsets[i] = total
		total += p.n
	}

	frame := func(i int) (*image.RGBA, error) {
		k := sort.Search(len(offsets), func(k int) bool { return offsets[k] > i }) - 1
		return parts[k].frame(i - offsets[k])
	}
	out := New(first.FPS, first.Width, first.Height, total, frame)
	out.Source = first.Source
	return out, nil
}
