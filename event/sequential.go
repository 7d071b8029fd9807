package event

import (
	"fmt"

	"go-mutwo/tools"
)

// splitTolerance avoids splitting children at float noise offsets.
const splitTolerance = 6e-14

// SequentialEvent plays its children one after another.
type SequentialEvent struct {
	children
}

func NewSequentialEvent(events ...Event) *SequentialEvent {
	return &SequentialEvent{children: children{events: events}}
}

func NewTaggedSequentialEvent(tag string, events ...Event) *SequentialEvent {
	return &SequentialEvent{children: children{events: events, Tag: tag}}
}

// Duration is the sum of all child durations.
func (s *SequentialEvent) Duration() float64 {
	sum := 0.0
	for _, ev := range s.events {
		sum += ev.Duration()
	}
	return sum
}

func (s *SequentialEvent) SetDuration(d float64) error {
	return s.rescale(s.Duration(), d)
}

func (s *SequentialEvent) Copy() Event {
	return &SequentialEvent{children: children{events: s.copyChildren(), Tag: s.Tag}}
}

func (s *SequentialEvent) EmptyCopy() ComplexEvent {
	return &SequentialEvent{children: children{Tag: s.Tag}}
}

func (s *SequentialEvent) Equal(other Event) bool {
	o, ok := other.(*SequentialEvent)
	return ok && s.equalChildren(&o.children)
}

// Slice returns a container with the children [i:j], sharing them.
func (s *SequentialEvent) Slice(i, j int) *SequentialEvent {
	out := &SequentialEvent{children: children{Tag: s.Tag}}
	out.events = append(out.events, s.events[i:j]...)
	return out
}

// Concat returns a container with the children of s followed by events.
func (s *SequentialEvent) Concat(events ...Event) *SequentialEvent {
	out := s.Slice(0, len(s.events))
	out.events = append(out.events, events...)
	return out
}

// Repeat returns a container holding the children n times.
func (s *SequentialEvent) Repeat(n int) *SequentialEvent {
	out := &SequentialEvent{children: children{Tag: s.Tag}}
	for i := 0; i < n; i++ {
		out.events = append(out.events, s.events...)
	}
	return out
}

// AbsoluteTimes returns the start time of every child.
func (s *SequentialEvent) AbsoluteTimes() []float64 {
	times := tools.AccumulateFromZero(s.durations())
	return times[:len(times)-1]
}

// StartAndEndTimePerEvent returns [start, end] of every child.
func (s *SequentialEvent) StartAndEndTimePerEvent() [][2]float64 {
	times := tools.AccumulateFromZero(s.durations())
	out := make([][2]float64, len(s.events))
	for i := range out {
		out[i] = [2]float64{times[i], times[i+1]}
	}
	return out
}

func (s *SequentialEvent) durations() []float64 {
	out := make([]float64, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Duration()
	}
	return out
}

func indexAt(t float64, absoluteTimes []float64, duration float64) int {
	if t < 0 || t >= duration {
		return -1
	}
	return tools.BisectRight(absoluteTimes, t) - 1
}

// GetEventIndexAt returns the index of the child active at t, or -1.
func (s *SequentialEvent) GetEventIndexAt(t float64) int {
	return indexAt(t, s.AbsoluteTimes(), s.Duration())
}

// GetEventAt returns the child active at t, or nil.
func (s *SequentialEvent) GetEventAt(t float64) Event {
	idx := s.GetEventIndexAt(t)
	if idx < 0 {
		return nil
	}
	return s.events[idx]
}

func (s *SequentialEvent) CutOut(start, end float64) error {
	if end < start {
		return fmt.Errorf("%w: start %g, end %g", ErrInvalidCutOutStartAndEnd, start, end)
	}
	var remove []int
	for i, evStart := range s.AbsoluteTimes() {
		ev := s.events[i]
		d := ev.Duration()
		evEnd := evStart + d

		cutStart, cutEnd := 0.0, d
		if evStart < start {
			cutStart += start - evStart
		}
		if evEnd > end {
			cutEnd -= evEnd - end
		}
		if cutStart < cutEnd {
			if err := ev.CutOut(cutStart, cutEnd); err != nil {
				return err
			}
		} else {
			remove = append(remove, i)
		}
	}
	for i := len(remove) - 1; i >= 0; i-- {
		s.Remove(remove[i])
	}
	return nil
}

func (s *SequentialEvent) CutOff(start, end float64) error {
	cutDuration := end - start
	if cutDuration <= 0 {
		return nil
	}
	var remove []int
	for i, evStart := range s.AbsoluteTimes() {
		ev := s.events[i]
		evEnd := evStart + ev.Duration()
		switch {
		case evStart >= start && evEnd <= end:
			remove = append(remove, i)
		case evStart <= start && evEnd >= start:
			local := start - evStart
			if err := ev.CutOff(local, local+cutDuration); err != nil {
				return err
			}
		case evStart < end && evEnd > end:
			if err := ev.CutOff(0, cutDuration-(evStart-start)); err != nil {
				return err
			}
		}
	}
	for i := len(remove) - 1; i >= 0; i-- {
		s.Remove(remove[i])
	}
	return nil
}

// SquashIn overwrites [start, start+ev.Duration()) with ev.
func (s *SequentialEvent) SquashIn(start float64, ev Event) error {
	if start > s.Duration() {
		return fmt.Errorf("%w: start %g, duration %g", ErrSquashInPosition, start, s.Duration())
	}
	if err := s.CutOff(start, start+ev.Duration()); err != nil {
		return err
	}
	if start == s.Duration() {
		s.Append(ev)
		return nil
	}

	times := s.AbsoluteTimes()
	idx := indexAt(start, times, s.Duration())
	if idx < 0 {
		s.Append(ev)
		return nil
	}
	if offset := start - times[idx]; offset > splitTolerance {
		first, second, err := SplitAt(s.events[idx], offset)
		if err != nil {
			return err
		}
		s.events[idx] = second
		s.Insert(idx, first)
		idx++
	}
	s.Insert(idx, ev)
	return nil
}

// SplitChildAt splits the child active at t into two children.
func (s *SequentialEvent) SplitChildAt(t float64) error {
	times := s.AbsoluteTimes()
	idx := indexAt(t, times, s.Duration())
	if idx < 0 {
		return fmt.Errorf("%w: %g", ErrSplitUnavailableChild, t)
	}
	if t == times[idx] {
		return nil
	}
	first, second, err := SplitAt(s.events[idx], t-times[idx])
	if err != nil {
		return err
	}
	s.events[idx] = first
	s.Insert(idx+1, second)
	return nil
}

func (s *SequentialEvent) String() string { return s.format("SequentialEvent") }
