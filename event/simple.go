package event

import (
	"fmt"
	"maps"
	"reflect"
	"sort"
	"strings"
)

// SimpleEvent is a leaf with a duration and free-form parameters.
type SimpleEvent struct {
	duration float64
	Tag      string
	Params   map[string]any
}

func NewSimpleEvent(duration float64) *SimpleEvent {
	return &SimpleEvent{duration: duration}
}

// NewTaggedSimpleEvent is NewSimpleEvent with a tag.
func NewTaggedSimpleEvent(tag string, duration float64) *SimpleEvent {
	return &SimpleEvent{duration: duration, Tag: tag}
}

func (e *SimpleEvent) Duration() float64 { return e.duration }

func (e *SimpleEvent) SetDuration(d float64) error {
	if d < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidDuration, d)
	}
	e.duration = d
	return nil
}

func (e *SimpleEvent) EventTag() string { return e.Tag }

func (e *SimpleEvent) Copy() Event {
	return e.CopySimple()
}

// CopySimple is Copy without the interface conversion. Types embedding
// SimpleEvent use it to copy their base.
func (e *SimpleEvent) CopySimple() *SimpleEvent {
	c := &SimpleEvent{duration: e.duration, Tag: e.Tag}
	if e.Params != nil {
		c.Params = make(map[string]any, len(e.Params))
		for k, v := range e.Params {
			c.Params[k] = copyValue(v)
		}
	}
	return c
}

func copyValue(v any) any {
	if c, ok := v.(interface{ Copy() any }); ok {
		return c.Copy()
	}
	if ev, ok := v.(Event); ok {
		return ev.Copy()
	}
	return v
}

func (e *SimpleEvent) Equal(other Event) bool {
	o, ok := other.(*SimpleEvent)
	if !ok {
		return false
	}
	return e.EqualSimple(o)
}

// EqualSimple compares duration, tag and parameters.
func (e *SimpleEvent) EqualSimple(o *SimpleEvent) bool {
	if e.duration != o.duration || e.Tag != o.Tag || len(e.Params) != len(o.Params) {
		return false
	}
	for k, v := range e.Params {
		ov, ok := o.Params[k]
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

func (e *SimpleEvent) GetParameter(name string) any {
	switch name {
	case "duration":
		return e.duration
	case "tag":
		if e.Tag == "" {
			return nil
		}
		return e.Tag
	}
	return e.Params[name]
}

func (e *SimpleEvent) SetParameter(name string, value any, setUnassigned bool) error {
	old := e.GetParameter(name)
	if !setUnassigned && old == nil {
		return nil
	}
	v := applyParameter(old, value)
	switch name {
	case "duration":
		d, err := toDuration(v)
		if err != nil {
			return err
		}
		return e.SetDuration(d)
	case "tag":
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: tag %v", ErrInvalidParameter, v)
		}
		e.Tag = s
		return nil
	}
	if e.Params == nil {
		e.Params = map[string]any{}
	}
	e.Params[name] = v
	return nil
}

func (e *SimpleEvent) MutateParameter(name string, fn func(any)) {
	if v := e.GetParameter(name); v != nil {
		fn(v)
	}
}

func (e *SimpleEvent) CutOut(start, end float64) error {
	if !(start < end) {
		return fmt.Errorf("%w: start %g, end %g", ErrInvalidCutOutStartAndEnd, start, end)
	}
	diff := 0.0
	if start > 0 {
		diff += start
	}
	if end < e.duration {
		diff += e.duration - end
	}
	if diff >= e.duration {
		return fmt.Errorf("%w: can't cut out [%g, %g) of duration %g", ErrInvalidCutOutStartAndEnd, start, end, e.duration)
	}
	e.duration -= diff
	return nil
}

func (e *SimpleEvent) CutOff(start, end float64) error {
	if end < start {
		return fmt.Errorf("%w: start %g, end %g", ErrInvalidCutOutStartAndEnd, start, end)
	}
	if start < e.duration {
		end = min(end, e.duration)
		e.duration -= end - start
	}
	return nil
}

// ParameterNames lists the free-form parameter names in sorted order.
func (e *SimpleEvent) ParameterNames() []string {
	names := make([]string, 0, len(e.Params))
	for k := range maps.Keys(e.Params) {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (e *SimpleEvent) String() string {
	attrs := []string{fmt.Sprintf("duration = %g", e.duration)}
	if e.Tag != "" {
		attrs = append(attrs, fmt.Sprintf("tag = %s", e.Tag))
	}
	for _, k := range e.ParameterNames() {
		attrs = append(attrs, fmt.Sprintf("%s = %v", k, e.Params[k]))
	}
	return "SimpleEvent(" + strings.Join(attrs, ", ") + ")"
}
