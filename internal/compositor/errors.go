package compositor

import "fmt"

// InvalidBoundaryError reports a transition bound to a boundary that does
// not exist. Boundary i sits between clip i and clip i+1 (1-based).
type InvalidBoundaryError struct {
	Boundary   int
	Transition string
	Clips      int
}

func (e *InvalidBoundaryError) Error() string {
	if e.Clips < 2 {
		return fmt.Sprintf("transition %q at boundary %d: %d clip(s) have no boundaries", e.Transition, e.Boundary, e.Clips)
	}
	return fmt.Sprintf("transition %q at boundary %d: valid boundaries are 1..%d", e.Transition, e.Boundary, e.Clips-1)
}

// ClipIncompatibilityError reports a clip that cannot be placed on the
// timeline. Index is 1-based.
type ClipIncompatibilityError struct {
	Index  int
	Reason string
	Err    error
}

func (e *ClipIncompatibilityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("clip %d is incompatible: %s: %v", e.Index, e.Reason, e.Err)
	}
	return fmt.Sprintf("clip %d is incompatible: %s", e.Index, e.Reason)
}

func (e *ClipIncompatibilityError) Unwrap() error {
	return e.Err
}
