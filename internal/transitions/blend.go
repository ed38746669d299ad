package transitions

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/keagan/vidfx/internal/clips"
	"github.com/keagan/vidfx/internal/registry"
)

// blink alternates hard between the two clips in equal segments, starting
// and ending on the right clip.
type blink struct {
	duration float64
	flashes  int
}

func blinkDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:     "blink",
		Category: registry.CategoryTransition,
		Summary:  "Flash between the next clip and the current one",
		Params: []registry.Param{
			durationParam(1.0),
			{Name: "flashes", Kind: registry.KindInt, Default: 3, Min: 1, Max: 50, Help: "times the next clip is shown"},
		},
		BuildTransition: func(args registry.Args) (registry.Transition, error) {
			return &blink{duration: args.Float("duration"), flashes: args.Int("flashes")}, nil
		},
	}
}

func (b *blink) Window(fps float64) int {
	return window(b.duration, fps)
}

func (b *blink) Blend(left, right *clips.Clip) (*clips.Clip, error) {
	n := left.Len()
	// An odd count keeps the first and last segment on the right clip; a
	// short window shows fewer flashes rather than skipping segments.
	segments := min(2*b.flashes-1, n)
	if segments%2 == 0 {
		segments--
	}
	return span(left, right, func(j int, l, r *image.RGBA) *image.RGBA {
		if j*segments/n%2 == 0 {
			return r
		}
		return l
	})
}

// crossfade blends linearly from the left clip to the right clip.
type crossfade struct {
	duration float64
}

func crossfadeDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:     "crossfade",
		Category: registry.CategoryTransition,
		Summary:  "Linear dissolve into the next clip",
		Params:   []registry.Param{durationParam(0.5)},
		BuildTransition: func(args registry.Args) (registry.Transition, error) {
			return &crossfade{duration: args.Float("duration")}, nil
		},
	}
}

func (c *crossfade) Window(fps float64) int {
	return window(c.duration, fps)
}

func (c *crossfade) Blend(left, right *clips.Clip) (*clips.Clip, error) {
	n := left.Len()
	return span(left, right, func(j int, l, r *image.RGBA) *image.RGBA {
		dst := copyFrame(l)
		alpha := uint8((j + 1) * 255 / (n + 1))
		mask := image.NewUniform(color.Alpha{A: alpha})
		draw.DrawMask(dst, dst.Rect, r, r.Rect.Min, mask, image.Point{}, draw.Over)
		return dst
	})
}
