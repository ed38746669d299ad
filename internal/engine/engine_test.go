package engine

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/rs/zerolog"

	"github.com/keagan/vidfx/internal/builtin"
	"github.com/keagan/vidfx/internal/clips"
	"github.com/keagan/vidfx/internal/registry"
	"github.com/keagan/vidfx/internal/testsupport"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	reg, err := builtin.Registry()
	if err != nil {
		t.Fatalf("builtin registry: %v", err)
	}
	return New(reg, zerolog.Nop())
}

func mustApply(t *testing.T, e *Engine, c *clips.Clip, filters, effects []string) *clips.Clip {
	t.Helper()
	out, err := e.Apply(c, filters, effects)
	if err != nil {
		t.Fatalf("Apply(%v, %v): %v", filters, effects, err)
	}
	return out
}

func TestApplyPreservesDuration(t *testing.T) {
	e := newEngine(t)
	c := testsupport.Pattern(t, 16, 12, 30, 30)

	tests := []struct {
		name    string
		filters []string
		effects []string
	}{
		{"nothing", nil, nil},
		{"every filter", []string{"greyscale", "film", "high-contrast", "hue", "purpleish", "pink_future", "identity"}, nil},
		{"every effect", nil, []string{"photo_movement", "stop_motion"}},
		{"duplicates", []string{"hue", "hue"}, []string{"stop_motion", "stop_motion"}},
		{"with parameters", []string{"hue:degrees=-30"}, []string{"photo_movement:hold=2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustApply(t, e, c, tt.filters, tt.effects)
			if out.Len() != c.Len() || out.Duration() != c.Duration() {
				t.Errorf("got %d frames (%v), want %d (%v)", out.Len(), out.Duration(), c.Len(), c.Duration())
			}
			if len(testsupport.Frames(t, out)) != c.Len() {
				t.Error("materialized frame count differs")
			}
		})
	}
}

func TestApplyNothingReturnsInput(t *testing.T) {
	e := newEngine(t)
	c := testsupport.Pattern(t, 4, 4, 3, 24)
	if out := mustApply(t, e, c, nil, nil); out != c {
		t.Error("empty operation lists should return the input clip")
	}
}

func TestIdentityIsIdempotent(t *testing.T) {
	e := newEngine(t)
	c := testsupport.Pattern(t, 8, 8, 6, 24)

	once := mustApply(t, e, c, []string{"identity"}, nil)
	twice := mustApply(t, e, c, []string{"identity", "identity"}, nil)
	if !testsupport.SameFrames(t, once, twice) {
		t.Error("identity applied twice differs from applied once")
	}
}

func TestOrderSensitivity(t *testing.T) {
	e := newEngine(t)
	c := testsupport.Pattern(t, 8, 8, 12, 24)

	a := mustApply(t, e, c, []string{"greyscale", "hue"}, nil)
	b := mustApply(t, e, c, []string{"hue", "greyscale"}, nil)
	if testsupport.SameFrames(t, a, b) {
		t.Error("greyscale and hue should not commute")
	}

	a = mustApply(t, e, c, nil, []string{"photo_movement", "stop_motion"})
	b = mustApply(t, e, c, nil, []string{"stop_motion", "photo_movement"})
	if testsupport.SameFrames(t, a, b) {
		t.Error("photo_movement and stop_motion should not commute")
	}

	a = mustApply(t, e, c, nil, []string{"photo_movement:hold=1", "photo_movement:hold=3"})
	b = mustApply(t, e, c, nil, []string{"photo_movement:hold=3", "photo_movement:hold=1"})
	if !testsupport.SameFrames(t, a, b) {
		t.Error("nested photo_movement periods should commute")
	}

	a = mustApply(t, e, c, []string{"identity", "greyscale"}, nil)
	b = mustApply(t, e, c, []string{"greyscale", "identity"}, nil)
	if !testsupport.SameFrames(t, a, b) {
		t.Error("identity should commute with greyscale")
	}
}

func TestGreyscalePhotoMovement(t *testing.T) {
	e := newEngine(t)
	c := testsupport.Pattern(t, 8, 6, 24, 24)

	out := mustApply(t, e, c, []string{"greyscale"}, []string{"photo_movement"})
	if out.Duration() != c.Duration() {
		t.Fatalf("duration changed: %v -> %v", c.Duration(), out.Duration())
	}

	frames := testsupport.Frames(t, out)
	for i, f := range frames {
		for p := 0; p < len(f.Pix); p += 4 {
			if f.Pix[p] != f.Pix[p+1] || f.Pix[p] != f.Pix[p+2] {
				t.Fatalf("frame %d pixel %d is not grey", i, p/4)
			}
		}
		if held := frames[i-i%5]; !bytes.Equal(f.Pix, held.Pix) {
			t.Errorf("frame %d should repeat frame %d", i, i-i%5)
		}
	}
}

func TestUnknownOperation(t *testing.T) {
	e := newEngine(t)
	c := testsupport.Solid(t, 4, 4, 2, 24, color.RGBA{10, 20, 30, 255})

	tests := []struct {
		filters []string
		effects []string
		name    string
	}{
		{[]string{"not_a_real_filter"}, nil, "not_a_real_filter"},
		{[]string{"greyscale", "nope"}, nil, "nope"},
		{nil, []string{"greyscale"}, "greyscale"},
		{[]string{"photo_movement"}, nil, "photo_movement"},
	}
	for _, tt := range tests {
		out, err := e.Apply(c, tt.filters, tt.effects)
		var unknown *registry.UnknownOperationError
		if !errors.As(err, &unknown) {
			t.Fatalf("expected UnknownOperationError, got %v", err)
		}
		if unknown.Name != tt.name {
			t.Errorf("error names %q, want %q", unknown.Name, tt.name)
		}
		if out != nil {
			t.Error("failed Apply must not return a clip")
		}
		if err := e.Check(tt.filters, tt.effects); err == nil {
			t.Error("Check should fail the same way")
		}
	}
}

func TestInvalidParameter(t *testing.T) {
	e := newEngine(t)
	err := e.Check([]string{"hue:degrees=lots"}, nil)
	var invalid *registry.InvalidParameterError
	if !errors.As(err, &invalid) || invalid.Operation != "hue" {
		t.Fatalf("expected InvalidParameterError for hue, got %v", err)
	}
}

func TestShapeChangeIsRejected(t *testing.T) {
	reg := registry.New()
	err := reg.Register(registry.Descriptor{
		Name:     "drop_half",
		Category: registry.CategoryEffect,
		Build: func(registry.Args) (registry.Transform, error) {
			return registry.ClipFunc(func(c *clips.Clip) (*clips.Clip, error) {
				return c.Sub(0, c.Len()/2), nil
			}), nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	c := testsupport.Pattern(t, 4, 4, 10, 24)
	_, err = New(reg, zerolog.Nop()).Apply(c, nil, []string{"drop_half"})
	if !errors.Is(err, ErrShapeChanged) {
		t.Fatalf("expected ErrShapeChanged, got %v", err)
	}
}
