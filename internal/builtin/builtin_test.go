package builtin

import (
	"testing"

	"github.com/keagan/vidfx/internal/registry"
)

func TestRegistry(t *testing.T) {
	r, err := Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}

	want := map[registry.Category][]string{
		registry.CategoryFilter:     {"greyscale", "film", "high-contrast", "hue", "purpleish", "pink_future", "identity"},
		registry.CategoryEffect:     {"photo_movement", "stop_motion"},
		registry.CategoryTransition: {"three_blocks", "blink", "crossfade"},
	}
	for category, names := range want {
		got := r.List(category)
		if len(got) != len(names) {
			t.Errorf("%s: got %v, want %v", category, got, names)
			continue
		}
		for i := range names {
			if got[i] != names[i] {
				t.Errorf("%s %d = %q, want %q", category, i, got[i], names[i])
			}
		}
	}
}

func TestEveryDescriptorBuildsWithDefaults(t *testing.T) {
	r, err := Registry()
	if err != nil {
		t.Fatal(err)
	}
	for _, category := range registry.Categories {
		for _, d := range r.Descriptors(category) {
			req, err := r.Bind(category, d.Name)
			if err != nil {
				t.Errorf("%s %s: %v", category, d.Name, err)
				continue
			}
			if category == registry.CategoryTransition {
				_, err = req.Transition()
			} else {
				_, err = req.Transform()
			}
			if err != nil {
				t.Errorf("%s %s does not build with its defaults: %v", category, d.Name, err)
			}
		}
	}
}
