// Package event holds the timed event tree: simple leaves and sequential
// or simultaneous containers. Durations are measured in beats.
package event

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCutOutStartAndEnd = errors.New("invalid start and end for cut")
	ErrSplitUnavailableChild    = errors.New("no child event at split time")
	ErrInvalidEventType         = errors.New("invalid event type")
	ErrSquashInPosition         = errors.New("squash in start exceeds duration")
	ErrInvalidDuration          = errors.New("invalid duration")
	ErrInvalidParameter         = errors.New("invalid parameter value")
)

// Event is any node of the tree.
type Event interface {
	Duration() float64
	SetDuration(d float64) error

	// Copy returns a deep copy. Shared references inside the tree become
	// independent objects.
	Copy() Event
	Equal(other Event) bool

	// GetParameter returns nil when the parameter is unknown. Containers
	// return one value per child as []any.
	GetParameter(name string) any
	// SetParameter assigns value, or value(old) when value is a
	// func(any) any. Without setUnassigned only already known parameters
	// change.
	SetParameter(name string, value any, setUnassigned bool) error
	// MutateParameter calls fn with every non-nil value of the parameter.
	MutateParameter(name string, fn func(any))

	// CutOut keeps only the time range [start, end).
	CutOut(start, end float64) error
	// CutOff removes the time range [start, end).
	CutOff(start, end float64) error
}

// ParameterFunc rewrites an old parameter value in SetParameter.
type ParameterFunc = func(old any) any

// SplitAt returns two copies of ev: one ending at t and one starting at t.
func SplitAt(ev Event, t float64) (Event, Event, error) {
	first := ev.Copy()
	if err := first.CutOut(0, t); err != nil {
		return nil, nil, fmt.Errorf("split at %g: %w", t, err)
	}
	second := ev.Copy()
	if err := second.CutOut(t, ev.Duration()); err != nil {
		return nil, nil, fmt.Errorf("split at %g: %w", t, err)
	}
	return first, second, nil
}

// Equal compares two events structurally. Nil only equals nil.
func Equal(a, b Event) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b) && b.Equal(a)
}

// TagOf returns the tag of ev or "" when it has none.
func TagOf(ev Event) string {
	if t, ok := ev.(interface{ EventTag() string }); ok {
		return t.EventTag()
	}
	return ""
}

func applyParameter(old, value any) any {
	if fn, ok := value.(ParameterFunc); ok {
		return fn(old)
	}
	return value
}

func toDuration(v any) (float64, error) {
	switch d := v.(type) {
	case float64:
		return d, nil
	case float32:
		return float64(d), nil
	case int:
		return float64(d), nil
	case int64:
		return float64(d), nil
	default:
		return 0, fmt.Errorf("%w: duration %v (%T)", ErrInvalidParameter, v, v)
	}
}
