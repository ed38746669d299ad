// Package effects holds the built-in clip-level effects. Effects may depend
// on a frame's position in the clip but always keep the frame count.
package effects

import (
	"github.com/keagan/vidfx/internal/clips"
	"github.com/keagan/vidfx/internal/registry"
)

// Descriptors returns the built-in effects in listing order.
func Descriptors() []registry.Descriptor {
	return []registry.Descriptor{
		{
			Name:     "photo_movement",
			Category: registry.CategoryEffect,
			Summary:  "Hold one frame out of every hold+1 for the following hold frames",
			Params: []registry.Param{
				{Name: "hold", Kind: registry.KindInt, Default: 4, Min: 0, Max: 1000, Help: "frames each held frame is repeated for"},
			},
			Build: func(args registry.Args) (registry.Transform, error) {
				return PhotoMovement(args.Int("hold")), nil
			},
		},
		{
			Name:     "stop_motion",
			Category: registry.CategoryEffect,
			Summary:  "Replace every Nth frame with the one before it",
			Params: []registry.Param{
				{Name: "every", Kind: registry.KindInt, Default: 2, Min: 2, Max: 1000, Help: "replacement interval in frames"},
			},
			Build: func(args registry.Args) (registry.Transform, error) {
				return StopMotion(args.Int("every")), nil
			},
		},
	}
}

// Register adds the built-in effects to r.
func Register(r *registry.Registry) error {
	for _, d := range Descriptors() {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// PhotoMovement shows frame i - i%(hold+1) at position i, giving a
// slideshow-like stutter.
func PhotoMovement(hold int) registry.ClipFunc {
	period := hold + 1
	return func(c *clips.Clip) (*clips.Clip, error) {
		return c.Remap(c.Len(), func(i int) int { return i - i%period }), nil
	}
}

// StopMotion shows frame i-1 at every position i > 0 that is a multiple
// of every.
func StopMotion(every int) registry.ClipFunc {
	return func(c *clips.Clip) (*clips.Clip, error) {
		return c.Remap(c.Len(), func(i int) int {
			if i > 0 && i%every == 0 {
				return i - 1
			}
			return i
		}), nil
	}
}
