package tempo

import (
	"fmt"

	"go-mutwo/converter"
	"go-mutwo/event"
)

// DefaultBPM is used when no tempo is given.
const DefaultBPM = 120.0

// TempoPoint is a tempo in beats per minute. Reference scales the beat:
// with Reference 2 a beat is counted in half notes.
type TempoPoint struct {
	BPM       float64 `json:"bpm" yaml:"bpm" toml:"bpm"`
	Reference float64 `json:"reference,omitempty" yaml:"reference,omitempty" toml:"reference,omitempty"`
}

func (p TempoPoint) reference() float64 {
	if p.Reference == 0 {
		return 1
	}
	return p.Reference
}

// AbsoluteBPM is BPM scaled by the reference.
func (p TempoPoint) AbsoluteBPM() float64 {
	return p.BPM * p.reference()
}

// SecondsPerBeat is the length of one beat in seconds.
func (p TempoPoint) SecondsPerBeat() float64 {
	return 60 / p.AbsoluteBPM()
}

// TempoEnvelope places tempo points on the beat axis.
type TempoEnvelope struct {
	Points      []TempoPoint
	Durations   []float64
	CurveShapes []float64
}

// DefaultTempoEnvelope stays at DefaultBPM.
func DefaultTempoEnvelope() TempoEnvelope {
	return ConstantTempo(DefaultBPM)
}

// ConstantTempo stays at bpm.
func ConstantTempo(bpm float64) TempoEnvelope {
	return TempoEnvelope{
		Points:    []TempoPoint{{BPM: bpm}, {BPM: bpm}},
		Durations: []float64{1},
	}
}

// NewTempoEnvelope validates points against durations.
func NewTempoEnvelope(points []TempoPoint, durations, shapes []float64) (TempoEnvelope, error) {
	levels := make([]float64, len(points))
	for i, p := range points {
		if p.AbsoluteBPM() <= 0 {
			return TempoEnvelope{}, fmt.Errorf("%w: tempo %g bpm", ErrInvalidEnvelope, p.BPM)
		}
		levels[i] = p.SecondsPerBeat()
	}
	if _, err := NewEnvelope(levels, durations, shapes); err != nil {
		return TempoEnvelope{}, err
	}
	return TempoEnvelope{Points: points, Durations: durations, CurveShapes: shapes}, nil
}

// SecondsPerBeat converts the points into an envelope of beat lengths.
// Interpolation happens between beat lengths, not between tempi.
func (t TempoEnvelope) SecondsPerBeat() Envelope {
	levels := make([]float64, len(t.Points))
	for i, p := range t.Points {
		levels[i] = p.SecondsPerBeat()
	}
	return Envelope{Levels: levels, Durations: t.Durations, CurveShapes: t.CurveShapes}
}

// AbsoluteTimes returns the beat position of every point.
func (t TempoEnvelope) AbsoluteTimes() []float64 {
	return t.SecondsPerBeat().AbsoluteTimes()
}

// BPMAt returns the tempo at beat.
func (t TempoEnvelope) BPMAt(beat float64) float64 {
	return 60 / t.SecondsPerBeat().ValueAt(beat)
}

// BeatsToSeconds returns the time in seconds between two beat positions.
func (t TempoEnvelope) BeatsToSeconds(from, to float64) float64 {
	return t.SecondsPerBeat().Integrate(from, to)
}

// Converter rescales every leaf from beats into seconds.
type Converter struct {
	Envelope TempoEnvelope
}

func NewConverter(envelope TempoEnvelope) *Converter {
	return &Converter{Envelope: envelope}
}

// Convert returns a copy of ev whose durations are seconds.
func (c *Converter) Convert(ev event.Event) (event.Event, error) {
	spb := c.Envelope.SecondsPerBeat()
	return converter.Rebuild(ev, 0, func(leaf event.Event, start float64) (event.Event, error) {
		out := leaf.Copy()
		d := spb.Integrate(start, start+leaf.Duration())
		if err := out.SetDuration(d); err != nil {
			return nil, fmt.Errorf("convert tempo: %w", err)
		}
		return out, nil
	})
}

// Time converts a single beat position into seconds.
func (c *Converter) Time(beat float64) float64 {
	return c.Envelope.BeatsToSeconds(0, beat)
}
