// Package registry maps operation names to filters, effects and transitions.
//
// A Registry is filled once at startup and only read afterwards, so it can
// be shared by concurrent pipelines without locking.
package registry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type key struct {
	category Category
	name     string
}

// Registry manages available operations
type Registry struct {
	ops   map[key]*Descriptor
	order map[Category][]string
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		ops:   make(map[key]*Descriptor),
		order: make(map[Category][]string),
	}
}

// Register adds an operation to the registry
func (r *Registry) Register(d Descriptor) error {
	if err := validateDescriptor(&d); err != nil {
		return err
	}
	k := key{d.Category, d.Name}
	if _, exists := r.ops[k]; exists {
		return &DuplicateNameError{Category: d.Category, Name: d.Name}
	}
	r.ops[k] = &d
	r.order[d.Category] = append(r.order[d.Category], d.Name)
	return nil
}

// Resolve retrieves an operation by category and exact name
func (r *Registry) Resolve(category Category, name string) (*Descriptor, error) {
	d, ok := r.ops[key{category, name}]
	if !ok {
		return nil, &UnknownOperationError{Category: category, Name: name, Known: r.List(category)}
	}
	return d, nil
}

// List returns operation names of a category in registration order
func (r *Registry) List(category Category) []string {
	names := make([]string, len(r.order[category]))
	copy(names, r.order[category])
	return names
}

// Descriptors returns the entries of a category in registration order
func (r *Registry) Descriptors(category Category) []*Descriptor {
	names := r.order[category]
	out := make([]*Descriptor, 0, len(names))
	for _, name := range names {
		out = append(out, r.ops[key{category, name}])
	}
	return out
}

// Bind resolves an operation spec of the form name[:key=value...] and
// validates its parameters against the descriptor's schema.
func (r *Registry) Bind(category Category, spec string) (Request, error) {
	parts := strings.Split(spec, ":")
	name := strings.TrimSpace(parts[0])

	d, err := r.Resolve(category, name)
	if err != nil {
		return Request{}, err
	}

	args := d.Defaults()
	for _, raw := range parts[1:] {
		k, v, ok := strings.Cut(raw, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" {
			return Request{}, &InvalidParameterError{Operation: name, Value: raw, Reason: "expected key=value"}
		}
		p, known := d.Param(k)
		if !known {
			return Request{}, &InvalidParameterError{Operation: name, Param: k, Value: v, Reason: "unknown parameter"}
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Request{}, &InvalidParameterError{Operation: name, Param: k, Value: v, Reason: "not a number"}
		}
		if !p.integral(f) {
			return Request{}, &InvalidParameterError{Operation: name, Param: k, Value: v, Reason: "must be an integer"}
		}
		if !p.inRange(f) {
			return Request{}, &InvalidParameterError{
				Operation: name, Param: k, Value: v,
				Reason: fmt.Sprintf("out of range [%g, %g]", p.Min, p.Max),
			}
		}
		args.values[k] = f
	}

	return Request{Spec: spec, Descriptor: d, Args: args}, nil
}

func validateDescriptor(d *Descriptor) error {
	if !d.Category.Valid() {
		return fmt.Errorf("operation %q has invalid category %q", d.Name, d.Category)
	}
	if d.Name == "" || strings.ContainsAny(d.Name, ":@, \t") {
		return fmt.Errorf("invalid %s name %q", d.Category, d.Name)
	}
	if d.Category == CategoryTransition {
		if d.BuildTransition == nil || d.Build != nil {
			return fmt.Errorf("transition %q must set BuildTransition only", d.Name)
		}
	} else if d.Build == nil || d.BuildTransition != nil {
		return fmt.Errorf("%s %q must set Build only", d.Category, d.Name)
	}

	seen := make(map[string]bool, len(d.Params))
	for _, p := range d.Params {
		if p.Name == "" || seen[p.Name] {
			return fmt.Errorf("%s %q has empty or repeated parameter %q", d.Category, d.Name, p.Name)
		}
		seen[p.Name] = true
		if p.Min > p.Max || !p.inRange(p.Default) || !p.integral(p.Default) {
			return fmt.Errorf("%s %q parameter %q default %g does not satisfy its schema", d.Category, d.Name, p.Name, p.Default)
		}
	}
	return nil
}
