package filters

import (
	"image"
	"math"

	"github.com/keagan/vidfx/internal/registry"
)

func purpleishDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:     "purpleish",
		Category: registry.CategoryFilter,
		Summary:  "Tint bright blue and grey pixels toward purple",
		Params: []registry.Param{
			{Name: "red_boost", Kind: registry.KindFloat, Default: 100, Min: 0, Max: 255, Help: "red added to bright blue pixels"},
			{Name: "green_reduction", Kind: registry.KindFloat, Default: 0.8, Min: 0, Max: 2, Help: "green multiplier for bright blue pixels"},
			{Name: "grey_red", Kind: registry.KindFloat, Default: 40, Min: 0, Max: 255, Help: "red added to grey pixels"},
			{Name: "grey_blue", Kind: registry.KindFloat, Default: 30, Min: 0, Max: 255, Help: "blue added to grey pixels"},
		},
		Build: func(args registry.Args) (registry.Transform, error) {
			redBoost, greenCut := args.Float("red_boost"), args.Float("green_reduction")
			greyRed, greyBlue := args.Float("grey_red"), args.Float("grey_blue")
			return frameFilter(func(src *image.RGBA) *image.RGBA {
				return perPixel(src, func(r, g, b float64) (float64, float64, float64) {
					if b > 100 && b > r && b > g {
						r += redBoost
						g *= greenCut
					}
					// The grey test runs on the already tinted values.
					if math.Abs(r-g) < 20 && math.Abs(r-b) < 20 && b > 30 {
						r += greyRed
						b += greyBlue
					}
					return r, g, b
				})
			})
		},
	}
}

func pinkFutureDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:     "pink_future",
		Category: registry.CategoryFilter,
		Summary:  "Dual tone: pink over highlights, cyan over shadows",
		Params: []registry.Param{
			{Name: "contrast", Kind: registry.KindFloat, Default: 1, Min: 0, Max: 10, Help: "contrast factor"},
			{Name: "brightness", Kind: registry.KindFloat, Default: 0, Min: -255, Max: 255, Help: "added brightness"},
			{Name: "pink_strength", Kind: registry.KindFloat, Default: 0.5, Min: 0, Max: 1, Help: "pink overlay opacity"},
			{Name: "cyan_strength", Kind: registry.KindFloat, Default: 0.5, Min: 0, Max: 1, Help: "cyan overlay opacity"},
			{Name: "threshold", Kind: registry.KindFloat, Default: 0.3, Min: 0, Max: 1, Help: "normalized grey level splitting shadows from highlights"},
		},
		Build: func(args registry.Args) (registry.Transform, error) {
			k, bright := args.Float("contrast"), args.Float("brightness")
			pink, cyan := args.Float("pink_strength"), args.Float("cyan_strength")
			threshold := args.Float("threshold")
			return frameFilter(func(src *image.RGBA) *image.RGBA {
				return perPixel(src, func(r, g, b float64) (float64, float64, float64) {
					adjust := func(v float64) float64 {
						return math.Min(math.Max(contrast(v, k)+bright, 0), 255)
					}
					r, g, b = adjust(r), adjust(g), adjust(b)
					grey := (0.2126*r + 0.7152*g + 0.0722*b) / 255
					switch {
					case grey > threshold:
						r = r*(1-pink) + 255*pink
						g = g*(1-pink) + 130*pink
						b = b*(1-pink) + 255*pink
					case grey < threshold:
						r = r * (1 - cyan)
						g = g*(1-cyan) + 255*cyan
						b = b*(1-cyan) + 255*cyan
					}
					return r, g, b
				})
			})
		},
	}
}
