// Package audio holds decoded PCM audio and the few sample-level operations
// the compositor needs: slicing, silence padding, format conversion and
// concatenation. Tracks are immutable; every operation returns a new Track.
package audio

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrChannelLayout is returned when two channel layouts cannot be mapped
// onto each other. Only mono and stereo convert.
var ErrChannelLayout = errors.New("unsupported channel layout conversion")

// Track is interleaved signed 16-bit PCM.
type Track struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// New validates the format and wraps samples without copying them.
func New(sampleRate, channels int, samples []int16) (*Track, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("sample count %d is not a multiple of %d channels", len(samples), channels)
	}
	return &Track{SampleRate: sampleRate, Channels: channels, Samples: samples}, nil
}

// Silence returns frames sample frames of digital silence.
func Silence(sampleRate, channels, frames int) *Track {
	if frames < 0 {
		frames = 0
	}
	return &Track{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    make([]int16, frames*channels),
	}
}

// Frames returns the number of sample frames (one sample per channel).
func (t *Track) Frames() int {
	if t.Channels == 0 {
		return 0
	}
	return len(t.Samples) / t.Channels
}

// Duration returns the playback length.
func (t *Track) Duration() time.Duration {
	if t.SampleRate == 0 {
		return 0
	}
	return time.Duration(math.Round(float64(t.Frames()) / float64(t.SampleRate) * float64(time.Second)))
}

// FramesFor converts a duration to sample frames at this track's rate.
func (t *Track) FramesFor(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * float64(t.SampleRate)))
}

// SameFormat reports whether both tracks share sample rate and channel count.
func (t *Track) SameFormat(o *Track) bool {
	return t.SampleRate == o.SampleRate && t.Channels == o.Channels
}

// Slice returns sample frames [from, to), clamped to the track.
func (t *Track) Slice(from, to int) *Track {
	n := t.Frames()
	from = clamp(from, 0, n)
	to = clamp(to, from, n)
	out := make([]int16, (to-from)*t.Channels)
	copy(out, t.Samples[from*t.Channels:to*t.Channels])
	return &Track{SampleRate: t.SampleRate, Channels: t.Channels, Samples: out}
}

// SliceTime is Slice expressed in time.
func (t *Track) SliceTime(from, to time.Duration) *Track {
	return t.Slice(t.FramesFor(from), t.FramesFor(to))
}

// Fit truncates the track to frames sample frames, or pads it with silence
// when it is shorter. It never loops.
func (t *Track) Fit(frames int) *Track {
	if frames < 0 {
		frames = 0
	}
	out := make([]int16, frames*t.Channels)
	copy(out, t.Samples)
	return &Track{SampleRate: t.SampleRate, Channels: t.Channels, Samples: out}
}

// FitDuration is Fit expressed in time.
func (t *Track) FitDuration(d time.Duration) *Track {
	return t.Fit(t.FramesFor(d))
}

// Convert resamples (linear interpolation) and remixes the track to the
// requested format. Channel conversion supports mono<->stereo only.
func (t *Track) Convert(sampleRate, channels int) (*Track, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid target format %d Hz / %d ch", sampleRate, channels)
	}
	out := t
	if t.Channels != channels {
		remixed, err := remix(t, channels)
		if err != nil {
			return nil, err
		}
		out = remixed
	}
	if out.SampleRate != sampleRate {
		out = resample(out, sampleRate)
	}
	return out, nil
}

// Concat joins tracks that share one format.
func Concat(tracks ...*Track) (*Track, error) {
	if len(tracks) == 0 {
		return nil, errors.New("no tracks to concatenate")
	}
	first := tracks[0]
	total := 0
	for i, t := range tracks {
		if !t.SameFormat(first) {
			return nil, fmt.Errorf("track %d format %d Hz/%d ch differs from %d Hz/%d ch",
				i, t.SampleRate, t.Channels, first.SampleRate, first.Channels)
		}
		total += len(t.Samples)
	}
	out := make([]int16, 0, total)
	for _, t := range tracks {
		out = append(out, t.Samples...)
	}
	return &Track{SampleRate: first.SampleRate, Channels: first.Channels, Samples: out}, nil
}

func remix(t *Track, channels int) (*Track, error) {
	n := t.Frames()
	switch {
	case t.Channels == 1 && channels == 2:
		out := make([]int16, n*2)
		for i, s := range t.Samples {
			out[2*i] = s
			out[2*i+1] = s
		}
		return &Track{SampleRate: t.SampleRate, Channels: 2, Samples: out}, nil
	case t.Channels == 2 && channels == 1:
		out := make([]int16, n)
		for i := range out {
			out[i] = int16((int32(t.Samples[2*i]) + int32(t.Samples[2*i+1])) / 2)
		}
		return &Track{SampleRate: t.SampleRate, Channels: 1, Samples: out}, nil
	}
	return nil, fmt.Errorf("%w: %d -> %d channels", ErrChannelLayout, t.Channels, channels)
}

func resample(t *Track, sampleRate int) *Track {
	n := t.Frames()
	if n == 0 {
		return &Track{SampleRate: sampleRate, Channels: t.Channels}
	}
	outFrames := int(math.Round(float64(n) * float64(sampleRate) / float64(t.SampleRate)))
	out := make([]int16, outFrames*t.Channels)
	ratio := float64(t.SampleRate) / float64(sampleRate)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * ratio
		i0 := int(pos)
		if i0 >= n-1 {
			i0 = n - 1
		}
		i1 := i0 + 1
		if i1 >= n {
			i1 = n - 1
		}
		frac := pos - float64(i0)
		for c := 0; c < t.Channels; c++ {
			a := float64(t.Samples[i0*t.Channels+c])
			b := float64(t.Samples[i1*t.Channels+c])
			out[i*t.Channels+c] = int16(math.Round(a + (b-a)*frac))
		}
	}
	return &Track{SampleRate: sampleRate, Channels: t.Channels, Samples: out}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
