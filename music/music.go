// Package music adds notes: simple events that carry pitches, a volume
// and indicators.
package music

import (
	"fmt"
	"strings"

	"go-mutwo/event"
	"go-mutwo/indicator"
	"go-mutwo/pitch"
	"go-mutwo/volume"
)

// Parameter names a NoteLike answers to besides duration and tag.
const (
	ParamPitches            = "pitch_or_pitches"
	ParamVolume             = "volume"
	ParamPlayingIndicators  = "playing_indicators"
	ParamNotationIndicators = "notation_indicators"
)

// DefaultVolume is used by NewNoteLike when vol is nil.
const DefaultVolume = "mf"

// NoteLike is a note, a chord or (without pitches) a rest.
type NoteLike struct {
	event.SimpleEvent
	Pitches            []pitch.Pitch
	Volume             volume.Volume
	PlayingIndicators  *indicator.PlayingIndicatorCollection
	NotationIndicators *indicator.NotationIndicatorCollection
}

// NewNoteLike parses pitches with ParsePitches and vol with ParseVolume.
func NewNoteLike(pitches any, duration float64, vol any) (*NoteLike, error) {
	ps, err := ParsePitches(pitches)
	if err != nil {
		return nil, err
	}
	if vol == nil {
		vol = DefaultVolume
	}
	v, err := ParseVolume(vol)
	if err != nil {
		return nil, err
	}
	n := &NoteLike{
		Pitches:            ps,
		Volume:             v,
		PlayingIndicators:  indicator.NewPlayingIndicatorCollection(),
		NotationIndicators: indicator.NewNotationIndicatorCollection(),
	}
	if err := n.SetDuration(duration); err != nil {
		return nil, err
	}
	return n, nil
}

// MustNoteLike panics where NewNoteLike fails.
func MustNoteLike(pitches any, duration float64, vol any) *NoteLike {
	n, err := NewNoteLike(pitches, duration, vol)
	if err != nil {
		panic(err)
	}
	return n
}

// NewRest is a NoteLike without pitches.
func NewRest(duration float64) *NoteLike {
	return MustNoteLike(nil, duration, nil)
}

// IsRest reports whether the note has no pitch.
func (n *NoteLike) IsRest() bool { return len(n.Pitches) == 0 }

func (n *NoteLike) Copy() event.Event {
	c := &NoteLike{
		SimpleEvent: *n.CopySimple(),
		Pitches:     append([]pitch.Pitch{}, n.Pitches...),
		Volume:      n.Volume,
	}
	if n.PlayingIndicators != nil {
		c.PlayingIndicators = n.PlayingIndicators.Copy().(*indicator.PlayingIndicatorCollection)
	}
	if n.NotationIndicators != nil {
		c.NotationIndicators = n.NotationIndicators.Copy().(*indicator.NotationIndicatorCollection)
	}
	return c
}

func (n *NoteLike) Equal(other event.Event) bool {
	o, ok := other.(*NoteLike)
	if !ok || !n.EqualSimple(&o.SimpleEvent) || len(n.Pitches) != len(o.Pitches) {
		return false
	}
	for i := range n.Pitches {
		if !pitch.Equal(n.Pitches[i], o.Pitches[i]) {
			return false
		}
	}
	if (n.Volume == nil) != (o.Volume == nil) || (n.Volume != nil && !volume.Equal(n.Volume, o.Volume)) {
		return false
	}
	return n.PlayingIndicators.Equal(o.PlayingIndicators) && n.NotationIndicators.Equal(o.NotationIndicators)
}

func (n *NoteLike) GetParameter(name string) any {
	switch name {
	case ParamPitches:
		return n.Pitches
	case ParamVolume:
		if n.Volume == nil {
			return nil
		}
		return n.Volume
	case ParamPlayingIndicators:
		if n.PlayingIndicators == nil {
			return nil
		}
		return n.PlayingIndicators
	case ParamNotationIndicators:
		if n.NotationIndicators == nil {
			return nil
		}
		return n.NotationIndicators
	}
	return n.SimpleEvent.GetParameter(name)
}

func (n *NoteLike) SetParameter(name string, value any, setUnassigned bool) error {
	switch name {
	case ParamPitches, ParamVolume, ParamPlayingIndicators, ParamNotationIndicators:
	default:
		return n.SimpleEvent.SetParameter(name, value, setUnassigned)
	}
	old := n.GetParameter(name)
	if fn, ok := value.(event.ParameterFunc); ok {
		value = fn(old)
	}
	switch name {
	case ParamPitches:
		ps, err := ParsePitches(value)
		if err != nil {
			return err
		}
		n.Pitches = ps
	case ParamVolume:
		v, err := ParseVolume(value)
		if err != nil {
			return err
		}
		n.Volume = v
	case ParamPlayingIndicators:
		c, ok := value.(*indicator.PlayingIndicatorCollection)
		if !ok {
			return fmt.Errorf("%w: %s %T", event.ErrInvalidParameter, name, value)
		}
		n.PlayingIndicators = c
	case ParamNotationIndicators:
		c, ok := value.(*indicator.NotationIndicatorCollection)
		if !ok {
			return fmt.Errorf("%w: %s %T", event.ErrInvalidParameter, name, value)
		}
		n.NotationIndicators = c
	}
	return nil
}

func (n *NoteLike) MutateParameter(name string, fn func(any)) {
	if v := n.GetParameter(name); v != nil {
		fn(v)
	}
}

func (n *NoteLike) String() string {
	names := make([]string, len(n.Pitches))
	for i, p := range n.Pitches {
		names[i] = FormatPitch(p)
	}
	attrs := []string{
		fmt.Sprintf("duration = %g", n.Duration()),
		"pitch_or_pitches = [" + strings.Join(names, " ") + "]",
		fmt.Sprintf("volume = %v", n.Volume),
	}
	if n.Tag != "" {
		attrs = append(attrs, "tag = "+n.Tag)
	}
	if n.PlayingIndicators != nil {
		if active := n.PlayingIndicators.Active(); len(active) > 0 {
			attrs = append(attrs, "playing_indicators = "+strings.Join(active, " "))
		}
	}
	return "NoteLike(" + strings.Join(attrs, ", ") + ")"
}

var _ event.Event = (*NoteLike)(nil)
