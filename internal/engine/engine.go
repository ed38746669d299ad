// Package engine applies named filters and effects to a single clip.
package engine

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/keagan/vidfx/internal/clips"
	"github.com/keagan/vidfx/internal/registry"
)

// ErrShapeChanged is returned when an operation changes the frame count,
// frame rate or frame size of a clip.
var ErrShapeChanged = errors.New("operation changed the clip shape")

// Engine binds operation names against a registry and applies them.
type Engine struct {
	registry *registry.Registry
	logger   zerolog.Logger
}

type step struct {
	category  registry.Category
	spec      string
	transform registry.Transform
}

// New creates an engine backed by reg
func New(reg *registry.Registry, logger zerolog.Logger) *Engine {
	return &Engine{
		registry: reg,
		logger:   logger.With().Str("component", "engine").Logger(),
	}
}

// Check resolves and validates every operation without touching any clip.
func (e *Engine) Check(filters, effects []string) error {
	_, err := e.bind(filters, effects)
	return err
}

// Apply runs every filter in order, then every effect in order, and returns
// the resulting clip. All names are bound before the first one runs, so a
// bad name fails without doing any work.
func (e *Engine) Apply(clip *clips.Clip, filters, effects []string) (*clips.Clip, error) {
	if clip == nil {
		return nil, errors.New("no clip to transform")
	}
	steps, err := e.bind(filters, effects)
	if err != nil {
		return nil, err
	}

	out := clip
	for _, s := range steps {
		next, err := s.transform.Apply(out)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", s.category, s.spec, err)
		}
		if next.Len() != out.Len() || next.FPS != out.FPS ||
			next.Width != out.Width || next.Height != out.Height {
			return nil, fmt.Errorf("%s %q: %w: %d frames %dx%d@%v -> %d frames %dx%d@%v",
				s.category, s.spec, ErrShapeChanged,
				out.Len(), out.Width, out.Height, out.FPS,
				next.Len(), next.Width, next.Height, next.FPS)
		}
		e.logger.Debug().
			Str("category", string(s.category)).
			Str("operation", s.spec).
			Str("clip", next.ID).
			Msg("operation applied")
		out = next
	}

	e.logger.Info().
		Int("filters", len(filters)).
		Int("effects", len(effects)).
		Int("frames", out.Len()).
		Msg("clip transformed")

	return out, nil
}

func (e *Engine) bind(filters, effects []string) ([]step, error) {
	steps := make([]step, 0, len(filters)+len(effects))
	for _, group := range []struct {
		category registry.Category
		specs    []string
	}{
		{registry.CategoryFilter, filters},
		{registry.CategoryEffect, effects},
	} {
		for _, spec := range group.specs {
			req, err := e.registry.Bind(group.category, spec)
			if err != nil {
				return nil, err
			}
			t, err := req.Transform()
			if err != nil {
				return nil, err
			}
			steps = append(steps, step{category: group.category, spec: spec, transform: t})
		}
	}
	return steps, nil
}
