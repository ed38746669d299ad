package registry

import (
	"image"
	"math"

	"github.com/keagan/vidfx/internal/clips"
)

// Category groups operations. Names are unique within a category.
type Category string

const (
	CategoryFilter     Category = "filter"
	CategoryEffect     Category = "effect"
	CategoryTransition Category = "transition"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryFilter, CategoryEffect, CategoryTransition}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryFilter, CategoryEffect, CategoryTransition:
		return true
	}
	return false
}

// Kind is the type of a parameter value.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
)

func (k Kind) String() string {
	if k == KindInt {
		return "int"
	}
	return "float"
}

// Param describes one named, typed operation parameter.
type Param struct {
	Name    string
	Kind    Kind
	Default float64
	Min     float64
	Max     float64
	Help    string
}

func (p Param) inRange(v float64) bool {
	return v >= p.Min && v <= p.Max
}

func (p Param) integral(v float64) bool {
	return p.Kind != KindInt || v == math.Trunc(v)
}

// Transform turns one clip into another. Filters and effects both
// implement it, whether they work frame by frame or on the whole clip.
type Transform interface {
	Apply(c *clips.Clip) (*clips.Clip, error)
}

// FrameFunc is a per-frame transform: a pure function of a single frame. It
// must allocate its result and leave src untouched.
type FrameFunc func(src *image.RGBA) *image.RGBA

// Apply maps f over every frame of c.
func (f FrameFunc) Apply(c *clips.Clip) (*clips.Clip, error) {
	return c.MapFrames(f), nil
}

// ClipFunc is a clip-level transform that may depend on frame position or
// elapsed time.
type ClipFunc func(c *clips.Clip) (*clips.Clip, error)

// Apply calls f.
func (f ClipFunc) Apply(c *clips.Clip) (*clips.Clip, error) {
	return f(c)
}

// Transition blends the tail of one clip into the head of the next.
type Transition interface {
	// Window returns how many frames of each clip the transition overlaps
	// at the given frame rate.
	Window(fps float64) int

	// Blend receives the left tail and right head, both Window frames long
	// and with identical frame rate and size, and returns the blended span.
	Blend(left, right *clips.Clip) (*clips.Clip, error)
}

// Descriptor is a registry entry. Filters and effects set Build,
// transitions set BuildTransition.
type Descriptor struct {
	Name     string
	Category Category
	Summary  string
	Params   []Param

	Build           func(args Args) (Transform, error)
	BuildTransition func(args Args) (Transition, error)
}

// Param returns the schema entry called name.
func (d *Descriptor) Param(name string) (Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Defaults returns the arguments used when no parameters are given.
func (d *Descriptor) Defaults() Args {
	values := make(map[string]float64, len(d.Params))
	for _, p := range d.Params {
		values[p.Name] = p.Default
	}
	return Args{values: values}
}

// Args holds parameter values bound against a descriptor's schema.
type Args struct {
	values map[string]float64
}

// Float returns the value of a parameter.
func (a Args) Float(name string) float64 {
	return a.values[name]
}

// Int returns the value of an integer parameter.
func (a Args) Int(name string) int {
	return int(a.values[name])
}

// Request is a resolved operation with bound arguments.
type Request struct {
	Spec       string
	Descriptor *Descriptor
	Args       Args
}

// Transform builds the filter or effect described by r.
func (r Request) Transform() (Transform, error) {
	return r.Descriptor.Build(r.Args)
}

// Transition builds the transition described by r.
func (r Request) Transition() (Transition, error) {
	return r.Descriptor.BuildTransition(r.Args)
}
