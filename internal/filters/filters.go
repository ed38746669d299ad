// Package filters holds the built-in per-frame filters. Every filter is a
// pure function of one frame: it allocates a new frame and never touches
// its input.
package filters

import (
	"image"

	"github.com/keagan/vidfx/internal/clips"
	"github.com/keagan/vidfx/internal/registry"
)

// Descriptors returns the built-in filters in listing order.
func Descriptors() []registry.Descriptor {
	return []registry.Descriptor{
		greyscaleDescriptor(),
		filmDescriptor(),
		highContrastDescriptor(),
		hueDescriptor(),
		purpleishDescriptor(),
		pinkFutureDescriptor(),
		identityDescriptor(),
	}
}

// Register adds the built-in filters to r.
func Register(r *registry.Registry) error {
	for _, d := range Descriptors() {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

func frameFilter(fn func(*image.RGBA) *image.RGBA) (registry.Transform, error) {
	return registry.FrameFunc(fn), nil
}

// perPixel builds a new frame by running fn over the RGB channels of src.
// Results are clamped to [0, 255] and rounded; alpha is kept.
func perPixel(src *image.RGBA, fn func(r, g, b float64) (float64, float64, float64)) *image.RGBA {
	rect := src.Rect
	w, h := rect.Dx(), rect.Dy()
	dst := clips.NewFrame(w, h)
	for y := 0; y < h; y++ {
		s := src.Pix[src.PixOffset(rect.Min.X, rect.Min.Y+y):]
		d := dst.Pix[y*dst.Stride:]
		for x := 0; x < w*4; x += 4 {
			r, g, b := fn(float64(s[x]), float64(s[x+1]), float64(s[x+2]))
			d[x], d[x+1], d[x+2], d[x+3] = clamp8(r), clamp8(g), clamp8(b), s[x+3]
		}
	}
	return dst
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}

func contrast(v, factor float64) float64 {
	return (v-128)*factor + 128
}

func identityDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:     "identity",
		Category: registry.CategoryFilter,
		Summary:  "Return every frame unchanged",
		Build: func(registry.Args) (registry.Transform, error) {
			return frameFilter(func(src *image.RGBA) *image.RGBA { return src })
		},
	}
}
