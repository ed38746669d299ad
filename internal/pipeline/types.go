package pipeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/keagan/vidfx/internal/audio"
	"github.com/keagan/vidfx/internal/clips"
	"github.com/keagan/vidfx/internal/compositor"
)

// ErrBindingFormat is returned for transition bindings that are not of the
// form name@index.
var ErrBindingFormat = errors.New("transition binding must look like name@index")

// EditRequest describes a single-clip edit
type EditRequest struct {
	Clip    *clips.Clip
	Filters []string
	Effects []string
}

// MergeRequest describes a multi-clip merge
type MergeRequest struct {
	Clips       []*clips.Clip
	Transitions []compositor.Binding
	Audio       *audio.Track
	AudioStart  time.Duration
}

// ParseBinding parses "name@index". The transition name may carry
// parameters (crossfade:duration=1@2). The index range is checked by the
// compositor, which knows the clip count.
func ParseBinding(s string) (compositor.Binding, error) {
	i := strings.LastIndex(s, "@")
	if i < 0 {
		return compositor.Binding{}, fmt.Errorf("%w: %q", ErrBindingFormat, s)
	}
	name, index := strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	if name == "" || index == "" {
		return compositor.Binding{}, fmt.Errorf("%w: %q", ErrBindingFormat, s)
	}
	boundary, err := strconv.Atoi(index)
	if err != nil {
		return compositor.Binding{}, fmt.Errorf("%w: %q: index %q is not a number", ErrBindingFormat, s, index)
	}
	return compositor.Binding{Boundary: boundary, Transition: name}, nil
}

// ParseBindings parses every binding, stopping at the first bad one
func ParseBindings(specs []string) ([]compositor.Binding, error) {
	bindings := make([]compositor.Binding, 0, len(specs))
	for _, s := range specs {
		b, err := ParseBinding(s)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}
