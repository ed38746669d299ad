package registry

import (
	"fmt"
	"strings"
)

// UnknownOperationError reports a name that is not registered.
type UnknownOperationError struct {
	Category Category
	Name     string
	Known    []string
}

func (e *UnknownOperationError) Error() string {
	msg := fmt.Sprintf("unknown %s %q", e.Category, e.Name)
	if len(e.Known) > 0 {
		msg += fmt.Sprintf(" (available: %s)", strings.Join(e.Known, ", "))
	}
	return msg
}

// DuplicateNameError reports a second registration of a (category, name) pair.
type DuplicateNameError struct {
	Category Category
	Name     string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q is already registered", e.Category, e.Name)
}

// InvalidParameterError reports a malformed or out-of-range parameter.
type InvalidParameterError struct {
	Operation string
	Param     string
	Value     string
	Reason    string
}

func (e *InvalidParameterError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("invalid parameter for %q: %q: %s", e.Operation, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid parameter for %q: %s=%q: %s", e.Operation, e.Param, e.Value, e.Reason)
}
