package event

import (
	"fmt"
	"strings"

	"go-mutwo/tools"
)

// ComplexEvent is a container of child events.
type ComplexEvent interface {
	Event
	Children() []Event
	SetChildren(children []Event)
	Len() int
	At(i int) any
	SetAt(i int, v any) error
	Child(i int) Event
	Append(events ...Event)
	Insert(i int, ev Event)
	Remove(i int)

	// EmptyCopy returns a container of the same kind without children.
	EmptyCopy() ComplexEvent
	GetEventFromIndices(indices []int) (Event, error)
	SetEventAtIndices(indices []int, ev Event) error
	Filter(keep func(Event) bool)
	TieBy(condition func(a, b Event) bool, process func(survivor, removed Event), examine func(Event) bool, removeSecond bool)
	SquashIn(start float64, ev Event) error
	SplitChildAt(t float64) error
}

// children is the shared list behaviour of both containers.
type children struct {
	events []Event
	Tag    string
}

func (c *children) Children() []Event { return c.events }

func (c *children) SetChildren(events []Event) { c.events = events }

func (c *children) Len() int { return len(c.events) }

func (c *children) At(i int) any { return c.events[i] }

func (c *children) Child(i int) Event { return c.events[i] }

func (c *children) SetAt(i int, v any) error {
	ev, ok := v.(Event)
	if !ok {
		return fmt.Errorf("%w: %T", ErrInvalidEventType, v)
	}
	if i < 0 || i >= len(c.events) {
		return fmt.Errorf("%w: index %d", tools.ErrOutOfRange, i)
	}
	c.events[i] = ev
	return nil
}

func (c *children) Append(events ...Event) { c.events = append(c.events, events...) }

func (c *children) Insert(i int, ev Event) {
	c.events = append(c.events, nil)
	copy(c.events[i+1:], c.events[i:])
	c.events[i] = ev
}

func (c *children) Remove(i int) {
	c.events = append(c.events[:i], c.events[i+1:]...)
}

func (c *children) EventTag() string { return c.Tag }

func (c *children) copyChildren() []Event {
	out := make([]Event, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.Copy()
	}
	return out
}

func (c *children) rescale(oldDuration, newDuration float64) error {
	if newDuration < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidDuration, newDuration)
	}
	if oldDuration == 0 {
		return fmt.Errorf("%w: can't rescale an event of duration 0", ErrInvalidDuration)
	}
	for _, ev := range c.events {
		d, err := tools.Scale(ev.Duration(), 0, oldDuration, 0, newDuration)
		if err != nil {
			return fmt.Errorf("rescale child: %w", err)
		}
		if err := ev.SetDuration(d); err != nil {
			return err
		}
	}
	return nil
}

func (c *children) GetParameter(name string) any {
	out := make([]any, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.GetParameter(name)
	}
	return out
}

func (c *children) SetParameter(name string, value any, setUnassigned bool) error {
	for _, ev := range c.events {
		if err := ev.SetParameter(name, value, setUnassigned); err != nil {
			return err
		}
	}
	return nil
}

func (c *children) MutateParameter(name string, fn func(any)) {
	for _, ev := range c.events {
		ev.MutateParameter(name, fn)
	}
}

func (c *children) GetEventFromIndices(indices []int) (Event, error) {
	v, err := tools.GetNestedItemFromIndices(c, indices)
	if err != nil {
		return nil, err
	}
	ev, ok := v.(Event)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrInvalidEventType, v)
	}
	return ev, nil
}

func (c *children) SetEventAtIndices(indices []int, ev Event) error {
	return tools.SetNestedItemFromIndices(c, indices, ev)
}

// Filter removes every child for which keep returns false.
func (c *children) Filter(keep func(Event) bool) {
	out := c.events[:0]
	for _, ev := range c.events {
		if keep(ev) {
			out = append(out, ev)
		}
	}
	for i := len(out); i < len(c.events); i++ {
		c.events[i] = nil
	}
	c.events = out
}

// TieBy merges neighbouring children for which condition holds. process
// defaults to adding the removed duration to the survivor and examine to
// accepting every event. With removeSecond the right event of a pair is
// removed, otherwise the left one. Children that are not examined are
// searched recursively.
func (c *children) TieBy(condition func(a, b Event) bool, process func(survivor, removed Event), examine func(Event) bool, removeSecond bool) {
	if process == nil {
		process = func(survivor, removed Event) {
			_ = survivor.SetDuration(survivor.Duration() + removed.Duration())
		}
	}
	if examine == nil {
		examine = func(Event) bool { return true }
	}
	recurse := func(ev Event) {
		if ce, ok := ev.(ComplexEvent); ok {
			ce.TieBy(condition, process, examine, removeSecond)
		}
	}

	pointer := 0
	for pointer+1 < len(c.events) {
		a, b := c.events[pointer], c.events[pointer+1]
		if !examine(a) || !examine(b) {
			recurse(a)
			pointer++
			continue
		}
		if !condition(a, b) {
			pointer++
			continue
		}
		if removeSecond {
			process(a, b)
			c.Remove(pointer + 1)
		} else {
			process(b, a)
			c.Remove(pointer)
		}
	}
	if n := len(c.events); n > 0 && !examine(c.events[n-1]) {
		recurse(c.events[n-1])
	}
}

func (c *children) equalChildren(o *children) bool {
	if c.Tag != o.Tag || len(c.events) != len(o.events) {
		return false
	}
	for i := range c.events {
		if !Equal(c.events[i], o.events[i]) {
			return false
		}
	}
	return true
}

func (c *children) format(kind string) string {
	parts := make([]string, len(c.events))
	for i, ev := range c.events {
		parts[i] = fmt.Sprint(ev)
	}
	if c.Tag != "" {
		kind = "Tagged" + kind
	}
	return kind + "([" + strings.Join(parts, ", ") + "])"
}
