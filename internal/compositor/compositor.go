// Package compositor joins clips into one timeline with optional
// transitions at clip boundaries, and attaches background audio.
package compositor

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/keagan/vidfx/internal/audio"
	"github.com/keagan/vidfx/internal/clips"
	"github.com/keagan/vidfx/internal/registry"
	"github.com/keagan/vidfx/pkg/util"
)

// Binding places a transition at a boundary. Boundary i joins clip i and
// clip i+1, counting from 1.
type Binding struct {
	Boundary   int
	Transition string
}

// Compositor builds timelines from clips and transition bindings.
type Compositor struct {
	registry *registry.Registry
	logger   zerolog.Logger
}

// New creates a compositor resolving transitions through reg
func New(reg *registry.Registry, logger zerolog.Logger) *Compositor {
	return &Compositor{
		registry: reg,
		logger:   logger.With().Str("component", "compositor").Logger(),
	}
}

// Check validates bindings for a timeline of n clips without any clip data.
func (c *Compositor) Check(n int, bindings []Binding) error {
	_, err := c.bind(n, bindings)
	return err
}

// bind validates every boundary, then resolves every transition. When a
// boundary is bound more than once the last binding wins.
func (c *Compositor) bind(n int, bindings []Binding) (map[int]registry.Transition, error) {
	for _, b := range bindings {
		if b.Boundary < 1 || b.Boundary > n-1 {
			return nil, &InvalidBoundaryError{Boundary: b.Boundary, Transition: b.Transition, Clips: n}
		}
	}

	bound := make(map[int]registry.Transition, len(bindings))
	names := make(map[int]string, len(bindings))
	for _, b := range bindings {
		req, err := c.registry.Bind(registry.CategoryTransition, b.Transition)
		if err != nil {
			return nil, err
		}
		t, err := req.Transition()
		if err != nil {
			return nil, err
		}
		if prev, ok := names[b.Boundary]; ok {
			c.logger.Warn().
				Int("boundary", b.Boundary).
				Str("replaced", prev).
				Str("transition", b.Transition).
				Msg("boundary bound twice, keeping the last transition")
		}
		bound[b.Boundary] = t
		names[b.Boundary] = b.Transition
	}
	return bound, nil
}

// Compose joins clips left to right. Boundaries without a binding are hard
// cuts. A transition overlaps the tail of the left clip with the head of the
// right clip, so the result is shorter than the sum of its inputs by the
// total of all transition windows.
//
// Every clip is first normalized to the frame rate and resolution of the
// first clip. Audio is normalized to the format of the first clip that has
// any; clips without audio contribute silence.
func (c *Compositor) Compose(cs []*clips.Clip, bindings []Binding) (*clips.Clip, error) {
	if len(cs) == 0 {
		return nil, errors.New("no clips to compose")
	}
	bound, err := c.bind(len(cs), bindings)
	if err != nil {
		return nil, err
	}
	if err := validate(cs); err != nil {
		return nil, err
	}

	format := timelineFormat(cs)
	norm := make([]*clips.Clip, len(cs))
	for i, clip := range cs {
		n, err := Normalize(clip, format)
		if err != nil {
			return nil, &ClipIncompatibilityError{Index: i + 1, Reason: "audio cannot be converted", Err: err}
		}
		norm[i] = n
	}

	var (
		parts    []*clips.Clip
		tracks   []*audio.Track
		consumed int // head frames of the current clip used by the previous transition
	)
	for i, cur := range norm {
		end := cur.Len()
		window := 0
		t, hasTransition := bound[i+1]
		if hasTransition {
			window = min(t.Window(format.FPS), end-consumed, norm[i+1].Len())
			window = max(window, 0)
		}

		if body := cur.Sub(consumed, end-window); body.Len() > 0 {
			parts = append(parts, body)
		}
		if window > 0 {
			blended, err := t.Blend(cur.Sub(end-window, end), norm[i+1].Sub(0, window))
			if err != nil {
				return nil, fmt.Errorf("transition at boundary %d: %w", i+1, err)
			}
			parts = append(parts, blended)
		} else if hasTransition {
			c.logger.Warn().Int("boundary", i+1).Msg("no frames left for transition, using a hard cut")
		}

		if format.HasAudio() {
			track := clipAudio(cur, format)
			skip := track.FramesFor(util.FramesToDuration(consumed, format.FPS))
			tracks = append(tracks, track.Slice(skip, track.Frames()))
		}

		c.logger.Debug().
			Int("clip", i+1).
			Int("frames", end).
			Int("head_consumed", consumed).
			Int("window", window).
			Msg("clip placed")
		consumed = window
	}

	out, err := clips.Concat(parts...)
	if err != nil {
		return nil, err
	}
	if format.HasAudio() {
		track, err := audio.Concat(tracks...)
		if err != nil {
			return nil, err
		}
		out = out.WithAudio(track.FitDuration(out.Duration()))
	}

	c.logger.Info().
		Int("clips", len(cs)).
		Int("transitions", len(bound)).
		Int("frames", out.Len()).
		Dur("duration", out.Duration()).
		Msg("timeline composed")

	return out, nil
}

// OverlayAudio replaces the audio of clip with track, starting start into
// the track. A track shorter than the clip is padded with silence, a longer
// one is truncated.
func (c *Compositor) OverlayAudio(clip *clips.Clip, track *audio.Track, start time.Duration) (*clips.Clip, error) {
	if clip == nil || track == nil {
		return nil, errors.New("overlay needs a clip and an audio track")
	}
	if start < 0 {
		return nil, fmt.Errorf("negative audio start %v", start)
	}

	tail := track.Slice(track.FramesFor(start), track.Frames())
	if tail.Duration() < clip.Duration() {
		c.logger.Info().
			Dur("audio", tail.Duration()).
			Dur("video", clip.Duration()).
			Msg("background audio shorter than video, padding with silence")
	}
	return clip.WithAudio(tail.FitDuration(clip.Duration())), nil
}

func validate(cs []*clips.Clip) error {
	for i, c := range cs {
		switch {
		case c == nil:
			return &ClipIncompatibilityError{Index: i + 1, Reason: "missing clip"}
		case c.FPS <= 0:
			return &ClipIncompatibilityError{Index: i + 1, Reason: fmt.Sprintf("invalid frame rate %v", c.FPS)}
		case c.Width <= 0 || c.Height <= 0:
			return &ClipIncompatibilityError{Index: i + 1, Reason: fmt.Sprintf("invalid size %dx%d", c.Width, c.Height)}
		case c.Len() == 0:
			return &ClipIncompatibilityError{Index: i + 1, Reason: "no frames"}
		case c.Audio != nil && (c.Audio.SampleRate <= 0 || c.Audio.Channels <= 0):
			return &ClipIncompatibilityError{Index: i + 1, Reason: "invalid audio format"}
		}
	}
	return nil
}
