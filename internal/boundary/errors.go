package boundary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tms-sim/citytraffic/internal/graph"
	"github.com/tms-sim/citytraffic/internal/incident"
)

// ErrKind is the closed set of error categories surfaced to callers.
type ErrKind string

const (
	KindValidation ErrKind = "validation"
	KindNotFound   ErrKind = "not_found"
	KindConflict   ErrKind = "conflict"
	KindInfeasible ErrKind = "infeasible"
)

// Error is a classified boundary error, wrapping the underlying cause so
// errors.Is/errors.As still reach it.
type Error struct {
	Kind ErrKind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func validationf(format string, args ...any) *Error {
	return newError(KindValidation, fmt.Errorf(format, args...))
}

// classify maps an error returned by internal/graph, internal/incident, or
// internal/engine into the boundary's closed ErrKind enum. Unrecognized
// errors default to validation, since almost every unclassified failure in
// this module originates from caller input.
func classify(err error) *Error {
	if err == nil {
		return nil
	}
	var be *Error
	if errors.As(err, &be) {
		return be
	}
	switch {
	case errors.Is(err, graph.ErrNoPath):
		return newError(KindInfeasible, err)
	case errors.Is(err, incident.ErrNotFound):
		return newError(KindNotFound, err)
	case errors.Is(err, incident.ErrAlreadyBlocked):
		return newError(KindConflict, err)
	case strings.HasPrefix(err.Error(), "validation:"):
		return newError(KindValidation, err)
	case strings.HasPrefix(err.Error(), "conflict:"):
		return newError(KindConflict, err)
	case strings.HasPrefix(err.Error(), "infeasible:"):
		return newError(KindInfeasible, err)
	case strings.HasPrefix(err.Error(), "not_found:"), strings.HasPrefix(err.Error(), "not-found:"):
		return newError(KindNotFound, err)
	default:
		return newError(KindValidation, err)
	}
}
