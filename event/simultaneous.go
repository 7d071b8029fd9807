package event

import "fmt"

// SimultaneousEvent plays all children at the same time.
type SimultaneousEvent struct {
	children
}

func NewSimultaneousEvent(events ...Event) *SimultaneousEvent {
	return &SimultaneousEvent{children: children{events: events}}
}

func NewTaggedSimultaneousEvent(tag string, events ...Event) *SimultaneousEvent {
	return &SimultaneousEvent{children: children{events: events, Tag: tag}}
}

// Duration is the longest child duration.
func (s *SimultaneousEvent) Duration() float64 {
	d := 0.0
	for _, ev := range s.events {
		d = max(d, ev.Duration())
	}
	return d
}

func (s *SimultaneousEvent) SetDuration(d float64) error {
	return s.rescale(s.Duration(), d)
}

func (s *SimultaneousEvent) Copy() Event {
	return &SimultaneousEvent{children: children{events: s.copyChildren(), Tag: s.Tag}}
}

func (s *SimultaneousEvent) EmptyCopy() ComplexEvent {
	return &SimultaneousEvent{children: children{Tag: s.Tag}}
}

func (s *SimultaneousEvent) Equal(other Event) bool {
	o, ok := other.(*SimultaneousEvent)
	return ok && s.equalChildren(&o.children)
}

func (s *SimultaneousEvent) Slice(i, j int) *SimultaneousEvent {
	out := &SimultaneousEvent{children: children{Tag: s.Tag}}
	out.events = append(out.events, s.events[i:j]...)
	return out
}

func (s *SimultaneousEvent) Concat(events ...Event) *SimultaneousEvent {
	out := s.Slice(0, len(s.events))
	out.events = append(out.events, events...)
	return out
}

func (s *SimultaneousEvent) Repeat(n int) *SimultaneousEvent {
	out := &SimultaneousEvent{children: children{Tag: s.Tag}}
	for i := 0; i < n; i++ {
		out.events = append(out.events, s.events...)
	}
	return out
}

func (s *SimultaneousEvent) CutOut(start, end float64) error {
	if end < start {
		return fmt.Errorf("%w: start %g, end %g", ErrInvalidCutOutStartAndEnd, start, end)
	}
	for _, ev := range s.events {
		if err := ev.CutOut(start, end); err != nil {
			return err
		}
	}
	return nil
}

func (s *SimultaneousEvent) CutOff(start, end float64) error {
	if end < start {
		return fmt.Errorf("%w: start %g, end %g", ErrInvalidCutOutStartAndEnd, start, end)
	}
	for _, ev := range s.events {
		if err := ev.CutOff(start, end); err != nil {
			return err
		}
	}
	return nil
}

// SquashIn squashes a copy of ev into every child. All children have to be
// containers. On error the event is left unchanged.
func (s *SimultaneousEvent) SquashIn(start float64, ev Event) error {
	if start > s.Duration() {
		return fmt.Errorf("%w: start %g, duration %g", ErrSquashInPosition, start, s.Duration())
	}
	for _, child := range s.events {
		if _, ok := child.(ComplexEvent); !ok {
			return fmt.Errorf("%w: can't squash into %T", ErrInvalidEventType, child)
		}
	}
	squashed := make([]Event, len(s.events))
	for i, child := range s.events {
		ce := child.Copy().(ComplexEvent)
		in := ev
		if i > 0 {
			in = ev.Copy()
		}
		if err := ce.SquashIn(start, in); err != nil {
			return fmt.Errorf("child %d: %w", i, err)
		}
		squashed[i] = ce
	}
	copy(s.events, squashed)
	return nil
}

// SplitChildAt splits every child at t. Simple children are replaced by a
// SequentialEvent holding both parts.
func (s *SimultaneousEvent) SplitChildAt(t float64) error {
	for i, child := range s.events {
		if ce, ok := child.(ComplexEvent); ok {
			if err := ce.SplitChildAt(t); err != nil {
				return err
			}
			continue
		}
		first, second, err := SplitAt(child, t)
		if err != nil {
			return err
		}
		s.events[i] = NewSequentialEvent(first, second)
	}
	return nil
}

func (s *SimultaneousEvent) String() string { return s.format("SimultaneousEvent") }
