// Package transitions holds the built-in transitions. A transition overlaps
// the tail of the left clip with the head of the right clip, so it shortens
// the timeline by its window instead of adding time.
package transitions

import (
	"errors"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/keagan/vidfx/internal/clips"
	"github.com/keagan/vidfx/internal/registry"
)

var errSpanMismatch = errors.New("transition spans differ in length, frame rate or size")

// Descriptors returns the built-in transitions in listing order.
func Descriptors() []registry.Descriptor {
	return []registry.Descriptor{
		threeBlocksDescriptor(),
		blinkDescriptor(),
		crossfadeDescriptor(),
	}
}

// Register adds the built-in transitions to r.
func Register(r *registry.Registry) error {
	for _, d := range Descriptors() {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

func durationParam(def float64) registry.Param {
	return registry.Param{Name: "duration", Kind: registry.KindFloat, Default: def, Min: 0, Max: 60, Help: "overlap in seconds"}
}

// window converts a duration in seconds to a frame count.
func window(seconds, fps float64) int {
	return int(math.Round(seconds * fps))
}

// span builds the blended clip shared by all transitions. frame receives the
// window position and both source frames.
func span(left, right *clips.Clip, frame func(j int, l, r *image.RGBA) *image.RGBA) (*clips.Clip, error) {
	if left.Len() != right.Len() || left.FPS != right.FPS ||
		left.Width != right.Width || left.Height != right.Height {
		return nil, errSpanMismatch
	}
	return clips.New(left.FPS, left.Width, left.Height, left.Len(), func(j int) (*image.RGBA, error) {
		l, err := left.Frame(j)
		if err != nil {
			return nil, err
		}
		r, err := right.Frame(j)
		if err != nil {
			return nil, err
		}
		return frame(j, l, r), nil
	}), nil
}

// copyFrame returns a copy of src with bounds at the origin.
func copyFrame(src *image.RGBA) *image.RGBA {
	dst := clips.NewFrame(src.Rect.Dx(), src.Rect.Dy())
	draw.Draw(dst, dst.Rect, src, src.Rect.Min, draw.Src)
	return dst
}
