package registry

import (
	"errors"
	"image"
	"reflect"
	"testing"

	"github.com/keagan/vidfx/internal/clips"
)

func identityFilter(name string, params ...Param) Descriptor {
	return Descriptor{
		Name:     name,
		Category: CategoryFilter,
		Params:   params,
		Build: func(Args) (Transform, error) {
			return FrameFunc(func(src *image.RGBA) *image.RGBA { return src }), nil
		},
	}
}

type nopTransition struct{}

func (nopTransition) Window(float64) int { return 1 }
func (nopTransition) Blend(left, _ *clips.Clip) (*clips.Clip, error) {
	return left, nil
}

func TestRegisterDuplicate(t *testing.T) {
	r := New()
	if err := r.Register(identityFilter("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := r.Register(identityFilter("a"))
	var dup *DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateNameError, got %v", err)
	}
	if dup.Name != "a" || dup.Category != CategoryFilter {
		t.Errorf("unexpected error fields: %+v", dup)
	}
}

func TestSameNameInOtherCategory(t *testing.T) {
	r := New()
	if err := r.Register(identityFilter("fade")); err != nil {
		t.Fatal(err)
	}
	err := r.Register(Descriptor{
		Name:     "fade",
		Category: CategoryTransition,
		BuildTransition: func(Args) (Transition, error) {
			return nopTransition{}, nil
		},
	})
	if err != nil {
		t.Fatalf("same name in another category should register: %v", err)
	}
}

func TestRegisterRejectsBadDescriptors(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
	}{
		{"empty name", identityFilter("")},
		{"colon in name", identityFilter("a:b")},
		{"bad category", Descriptor{Name: "x", Category: "sound", Build: identityFilter("x").Build}},
		{"transition with Build", Descriptor{Name: "x", Category: CategoryTransition, Build: identityFilter("x").Build}},
		{"filter without Build", Descriptor{Name: "x", Category: CategoryFilter}},
		{"default out of range", identityFilter("x", Param{Name: "p", Default: 5, Min: 0, Max: 1})},
		{"fractional int default", identityFilter("x", Param{Name: "p", Kind: KindInt, Default: 1.5, Min: 0, Max: 3})},
		{"repeated param", identityFilter("x", Param{Name: "p", Max: 1}, Param{Name: "p", Max: 1})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := New().Register(tt.d); err == nil {
				t.Error("expected registration error")
			}
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	r := New()
	_ = r.Register(identityFilter("greyscale"))

	_, err := r.Resolve(CategoryFilter, "Greyscale")
	var unknown *UnknownOperationError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownOperationError, got %v", err)
	}
	if unknown.Name != "Greyscale" {
		t.Errorf("error should name the operation, got %q", unknown.Name)
	}
	if !reflect.DeepEqual(unknown.Known, []string{"greyscale"}) {
		t.Errorf("unexpected known list %v", unknown.Known)
	}

	if _, err := r.Resolve(CategoryEffect, "greyscale"); err == nil {
		t.Error("lookup must be scoped to the category")
	}
}

func TestListKeepsRegistrationOrder(t *testing.T) {
	r := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(identityFilter(name)); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"zeta", "alpha", "mid"}
	if got := r.List(CategoryFilter); !reflect.DeepEqual(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}

	list := r.List(CategoryFilter)
	list[0] = "changed"
	if r.List(CategoryFilter)[0] != "zeta" {
		t.Error("List must return a copy")
	}
	if got := r.List(CategoryEffect); len(got) != 0 {
		t.Errorf("expected no effects, got %v", got)
	}
}

func TestBind(t *testing.T) {
	r := New()
	err := r.Register(identityFilter("hue",
		Param{Name: "degrees", Kind: KindFloat, Default: 50, Min: -360, Max: 360},
		Param{Name: "steps", Kind: KindInt, Default: 2, Min: 1, Max: 10},
	))
	if err != nil {
		t.Fatal(err)
	}

	req, err := r.Bind(CategoryFilter, "hue")
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if req.Args.Float("degrees") != 50 || req.Args.Int("steps") != 2 {
		t.Errorf("defaults not applied: %+v", req.Args)
	}

	req, err = r.Bind(CategoryFilter, "hue:degrees=-90:steps=4")
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if req.Args.Float("degrees") != -90 || req.Args.Int("steps") != 4 {
		t.Errorf("parameters not bound: %+v", req.Args)
	}
}

func TestBindInvalidParameters(t *testing.T) {
	r := New()
	_ = r.Register(identityFilter("hue",
		Param{Name: "degrees", Kind: KindFloat, Default: 50, Min: -360, Max: 360},
		Param{Name: "steps", Kind: KindInt, Default: 2, Min: 1, Max: 10},
	))

	tests := []struct {
		spec  string
		param string
		value string
	}{
		{"hue:degrees=abc", "degrees", "abc"},
		{"hue:degrees=720", "degrees", "720"},
		{"hue:steps=1.5", "steps", "1.5"},
		{"hue:speed=3", "speed", "3"},
		{"hue:degrees", "", "degrees"},
		{"hue:degrees=NaN", "degrees", "NaN"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := r.Bind(CategoryFilter, tt.spec)
			var invalid *InvalidParameterError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidParameterError, got %v", err)
			}
			if invalid.Operation != "hue" || invalid.Param != tt.param || invalid.Value != tt.value {
				t.Errorf("unexpected error fields: %+v", invalid)
			}
		})
	}
}

func TestBindDefaultsAreIndependent(t *testing.T) {
	r := New()
	_ = r.Register(identityFilter("hue", Param{Name: "degrees", Default: 50, Min: -360, Max: 360}))

	if _, err := r.Bind(CategoryFilter, "hue:degrees=10"); err != nil {
		t.Fatal(err)
	}
	req, err := r.Bind(CategoryFilter, "hue")
	if err != nil {
		t.Fatal(err)
	}
	if req.Args.Float("degrees") != 50 {
		t.Errorf("earlier binding leaked into defaults: %v", req.Args.Float("degrees"))
	}
}
