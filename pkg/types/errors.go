package types

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy. Callers match with errors.Is.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrParse            = errors.New("malformed document")
	ErrInvalidID        = errors.New("invalid entity ID")
	ErrResolution       = errors.New("unresolvable dependency")
	ErrValidation       = errors.New("validation failed")
	ErrConfiguration    = errors.New("invalid configuration")
)

// Backend and container errors.
var (
	ErrDetached          = errors.New("backend is detached")
	ErrAlreadyAttached   = errors.New("backend is already attached")
	ErrDependencyCycle   = errors.New("dependency cycle")
	ErrBindingNotFound   = errors.New("binding not found")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrAlreadyRegistered = errors.New("dependency already registered")
)

// DocumentError reports a failure reading or writing a backing document.
// Kind is ErrDocumentNotFound or ErrParse; Err is the underlying cause and
// may be nil.
type DocumentError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *DocumentError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ValidationError lists the problems found on a constructed object.
type ValidationError struct {
	Object   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Object, ErrValidation, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ResolutionError reports a dependency reference that no registered factory
// serves. Suggestion holds the closest registered reference, if any.
type ResolutionError struct {
	ID         string
	ModulePath string
	ClassName  string
	Suggestion string
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("%v: %s (%s.%s)", ErrResolution, e.ID, e.ModulePath, e.ClassName)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(", did you mean %s?", e.Suggestion)
	}
	return msg
}

func (e *ResolutionError) Unwrap() error { return ErrResolution }

// validation accumulates problems for a single object.
type validation struct {
	object   string
	problems []string
}

func (v *validation) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validation) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Object: v.object, Problems: v.problems}
}
