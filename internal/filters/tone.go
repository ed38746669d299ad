package filters

import (
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/keagan/vidfx/internal/registry"
)

// BT.601 luma weights
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

func luma(r, g, b float64) float64 {
	return r*lumaR + g*lumaG + b*lumaB
}

func greyscaleDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:     "greyscale",
		Category: registry.CategoryFilter,
		Summary:  "Luminance greyscale with a contrast boost",
		Params: []registry.Param{
			{Name: "contrast", Kind: registry.KindFloat, Default: 1.3, Min: 0, Max: 10, Help: "contrast factor around mid grey"},
		},
		Build: func(args registry.Args) (registry.Transform, error) {
			k := args.Float("contrast")
			return frameFilter(func(src *image.RGBA) *image.RGBA {
				return perPixel(src, func(r, g, b float64) (float64, float64, float64) {
					v := float64(clamp8(contrast(luma(r, g, b), k)))
					return v, v, v
				})
			})
		},
	}
}

func highContrastDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:     "high-contrast",
		Category: registry.CategoryFilter,
		Summary:  "Stretch every channel away from mid grey",
		Params: []registry.Param{
			{Name: "contrast", Kind: registry.KindFloat, Default: 1.5, Min: 0, Max: 10, Help: "contrast factor"},
		},
		Build: func(args registry.Args) (registry.Transform, error) {
			k := args.Float("contrast")
			return frameFilter(func(src *image.RGBA) *image.RGBA {
				return perPixel(src, func(r, g, b float64) (float64, float64, float64) {
					stretch := func(v float64) float64 { return (0.5 + (v/255-0.5)*k) * 255 }
					return stretch(r), stretch(g), stretch(b)
				})
			})
		},
	}
}

func hueDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:     "hue",
		Category: registry.CategoryFilter,
		Summary:  "Rotate the hue of every pixel",
		Params: []registry.Param{
			{Name: "degrees", Kind: registry.KindFloat, Default: 50, Min: -360, Max: 360, Help: "hue rotation, positive is clockwise"},
		},
		Build: func(args registry.Args) (registry.Transform, error) {
			shift := args.Float("degrees")
			return frameFilter(func(src *image.RGBA) *image.RGBA {
				return perPixel(src, func(r, g, b float64) (float64, float64, float64) {
					if r == g && g == b {
						return r, g, b
					}
					h, s, v := colorful.Color{R: r / 255, G: g / 255, B: b / 255}.Hsv()
					h = wrapHue(h + shift)
					out := colorful.Hsv(h, s, v).Clamped()
					return out.R * 255, out.G * 255, out.B * 255
				})
			})
		},
	}
}

func wrapHue(h float64) float64 {
	for h < 0 {
		h += 360
	}
	for h >= 360 {
		h -= 360
	}
	return h
}
