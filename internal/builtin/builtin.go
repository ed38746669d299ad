// Package builtin assembles the registry of built-in operations.
package builtin

import (
	"fmt"

	"github.com/keagan/vidfx/internal/effects"
	"github.com/keagan/vidfx/internal/filters"
	"github.com/keagan/vidfx/internal/registry"
	"github.com/keagan/vidfx/internal/transitions"
)

// Registry returns a registry holding every built-in filter, effect and
// transition. It is meant to be called once at startup.
func Registry() (*registry.Registry, error) {
	r := registry.New()
	for _, register := range []func(*registry.Registry) error{
		filters.Register,
		effects.Register,
		transitions.Register,
	} {
		if err := register(r); err != nil {
			return nil, fmt.Errorf("register built-in operations: %w", err)
		}
	}
	return r, nil
}
