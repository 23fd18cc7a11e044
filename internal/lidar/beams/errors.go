package beams

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. The typed errors below match these with errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnknownMethod     = errors.New("unknown method")
	ErrInsufficientBeams = errors.New("insufficient beams")

	// ErrDegenerateInput is a warning, never a returned error. It is
	// reported in Result.Warnings when every point shares one vertical
	// angle and the reduction falls back to a no-op.
	ErrDegenerateInput = errors.New("degenerate input: all points share one vertical angle")
)

// InvalidInputError reports a malformed point set or parameter.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// Is reports whether target is ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// UnknownMethodError reports a method name the dispatcher does not know.
type UnknownMethodError struct {
	Method string
}

func (e *UnknownMethodError) Error() string {
	names := make([]string, 0, len(methodOrder))
	for _, m := range methodOrder {
		names = append(names, string(m))
	}
	return fmt.Sprintf("unknown method %q, valid options are: %s", e.Method, strings.Join(names, ", "))
}

// Is reports whether target is ErrUnknownMethod.
func (e *UnknownMethodError) Is(target error) bool { return target == ErrUnknownMethod }

// InsufficientBeamsError is returned by the proper method when peak
// detection finds fewer than two beams in a non-degenerate cloud.
type InsufficientBeamsError struct {
	Detected int
}

func (e *InsufficientBeamsError) Error() string {
	return fmt.Sprintf("insufficient beams: detected %d, need at least 2", e.Detected)
}

// Is reports whether target is ErrInsufficientBeams.
func (e *InsufficientBeamsError) Is(target error) bool { return target == ErrInsufficientBeams }
