// Package converter holds the tree traversal shared by all backends.
// Backends live in the sub packages.
package converter

import (
	"fmt"

	"go-mutwo/event"
)

// Visit is called for every leaf with its absolute start time.
type Visit func(leaf event.Event, absoluteTime float64) error

// Walk visits every leaf of ev. Children of a SequentialEvent start after
// each other, children of a SimultaneousEvent share the entry delay.
func Walk(ev event.Event, delay float64, visit Visit) error {
	switch e := ev.(type) {
	case *event.SequentialEvent:
		for i, start := range e.AbsoluteTimes() {
			if err := Walk(e.Child(i), start+delay, visit); err != nil {
				return err
			}
		}
		return nil
	case *event.SimultaneousEvent:
		for _, child := range e.Children() {
			if err := Walk(child, delay, visit); err != nil {
				return err
			}
		}
		return nil
	case event.ComplexEvent:
		return fmt.Errorf("%w: can't walk %T", event.ErrInvalidEventType, ev)
	case nil:
		return fmt.Errorf("%w: nil", event.ErrInvalidEventType)
	default:
		return visit(ev, delay)
	}
}

// MapLeaf returns the replacement of a leaf.
type MapLeaf func(leaf event.Event, absoluteTime float64) (event.Event, error)

// Rebuild returns a new tree of the same shape whose leaves are the results
// of mapLeaf. Containers keep their side attributes through EmptyCopy.
func Rebuild(ev event.Event, delay float64, mapLeaf MapLeaf) (event.Event, error) {
	switch e := ev.(type) {
	case *event.SequentialEvent:
		out := e.EmptyCopy()
		for i, start := range e.AbsoluteTimes() {
			child, err := Rebuild(e.Child(i), start+delay, mapLeaf)
			if err != nil {
				return nil, err
			}
			out.Append(child)
		}
		return out, nil
	case *event.SimultaneousEvent:
		out := e.EmptyCopy()
		for _, c := range e.Children() {
			child, err := Rebuild(c, delay, mapLeaf)
			if err != nil {
				return nil, err
			}
			out.Append(child)
		}
		return out, nil
	case event.ComplexEvent:
		return nil, fmt.Errorf("%w: can't rebuild %T", event.ErrInvalidEventType, ev)
	case nil:
		return nil, fmt.Errorf("%w: nil", event.ErrInvalidEventType)
	default:
		return mapLeaf(ev, delay)
	}
}

// Leaf is a leaf together with its absolute start time.
type Leaf struct {
	Event event.Event
	Start float64
}

// End returns the absolute end time.
func (l Leaf) End() float64 { return l.Start + l.Event.Duration() }

// Leaves collects all leaves of ev in traversal order.
func Leaves(ev event.Event) ([]Leaf, error) {
	var out []Leaf
	err := Walk(ev, 0, func(leaf event.Event, t float64) error {
		out = append(out, Leaf{Event: leaf, Start: t})
		return nil
	})
	return out, err
}
