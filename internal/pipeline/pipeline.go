// Package pipeline wires the registry, the transform engine and the
// timeline compositor into the edit and merge workflows.
package pipeline

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/keagan/vidfx/internal/clips"
	"github.com/keagan/vidfx/internal/compositor"
	"github.com/keagan/vidfx/internal/engine"
	"github.com/keagan/vidfx/internal/registry"
)

// Pipeline orchestrates edit and merge requests on decoded clips
type Pipeline struct {
	logger     zerolog.Logger
	registry   *registry.Registry
	engine     *engine.Engine
	compositor *compositor.Compositor
}

// New creates a new pipeline instance
func New(logger zerolog.Logger, reg *registry.Registry) *Pipeline {
	return &Pipeline{
		logger:     logger.With().Str("component", "pipeline").Logger(),
		registry:   reg,
		engine:     engine.New(reg, logger),
		compositor: compositor.New(reg, logger),
	}
}

// Registry returns the registry operations are resolved against
func (p *Pipeline) Registry() *registry.Registry {
	return p.registry
}

// Edit applies filters then effects to a single clip
func (p *Pipeline) Edit(req EditRequest) (*clips.Clip, error) {
	p.logger.Info().
		Strs("filters", req.Filters).
		Strs("effects", req.Effects).
		Msg("starting edit")

	return p.engine.Apply(req.Clip, req.Filters, req.Effects)
}

// Merge composes clips with transitions and attaches optional background
// audio. It never applies filters or effects.
func (p *Pipeline) Merge(req MergeRequest) (*clips.Clip, error) {
	p.logger.Info().
		Int("clips", len(req.Clips)).
		Int("transitions", len(req.Transitions)).
		Bool("song", req.Audio != nil).
		Msg("starting merge")

	if len(req.Clips) < 2 {
		return nil, errors.New("merge needs at least two clips")
	}

	out, err := p.compositor.Compose(req.Clips, req.Transitions)
	if err != nil {
		return nil, err
	}
	if req.Audio == nil {
		return out, nil
	}
	return p.compositor.OverlayAudio(out, req.Audio, req.AudioStart)
}

// List returns the registered names of a category in registration order
func (p *Pipeline) List(category registry.Category) []string {
	return p.registry.List(category)
}

// CheckEdit validates filter and effect names before any input is read
func (p *Pipeline) CheckEdit(filters, effects []string) error {
	return p.engine.Check(filters, effects)
}

// CheckMerge validates transition bindings for n clips before any input is
// read
func (p *Pipeline) CheckMerge(n int, bindings []compositor.Binding) error {
	if n < 2 {
		return errors.New("merge needs at least two clips")
	}
	return p.compositor.Check(n, bindings)
}
