// Package tempo holds envelopes, tempo points and the conversion of beat
// based durations into seconds.
package tempo

import (
	"errors"
	"fmt"
	"math"

	"go-mutwo/tools"
)

var ErrInvalidEnvelope = errors.New("invalid envelope")

// Envelope is a piecewise curve. Segment i goes from Levels[i] to
// Levels[i+1] in Durations[i]. A curve shape of 0 is linear, positive
// shapes start slow and negative shapes start fast.
type Envelope struct {
	Levels      []float64
	Durations   []float64
	CurveShapes []float64
}

// NewEnvelope validates the segment counts. shapes may be nil.
func NewEnvelope(levels, durations, shapes []float64) (Envelope, error) {
	if len(levels) == 0 {
		return Envelope{}, fmt.Errorf("%w: no levels", ErrInvalidEnvelope)
	}
	if len(durations) != len(levels)-1 {
		return Envelope{}, fmt.Errorf("%w: %d levels need %d durations, got %d", ErrInvalidEnvelope, len(levels), len(levels)-1, len(durations))
	}
	if shapes != nil && len(shapes) != len(durations) {
		return Envelope{}, fmt.Errorf("%w: %d curve shapes for %d segments", ErrInvalidEnvelope, len(shapes), len(durations))
	}
	for _, d := range durations {
		if d < 0 {
			return Envelope{}, fmt.Errorf("%w: negative duration %g", ErrInvalidEnvelope, d)
		}
	}
	return Envelope{Levels: levels, Durations: durations, CurveShapes: shapes}, nil
}

// Constant returns an envelope that stays at level.
func Constant(level float64) Envelope {
	return Envelope{Levels: []float64{level}}
}

func (e Envelope) shape(i int) float64 {
	if i < len(e.CurveShapes) {
		return e.CurveShapes[i]
	}
	return 0
}

// Duration is the sum of all segment durations.
func (e Envelope) Duration() float64 {
	sum := 0.0
	for _, d := range e.Durations {
		sum += d
	}
	return sum
}

// AbsoluteTimes returns the time of every level.
func (e Envelope) AbsoluteTimes() []float64 {
	return tools.AccumulateFromZero(e.Durations)
}

func segmentValue(a, b, c, x float64) float64 {
	if c == 0 {
		return a + (b-a)*x
	}
	return a + (b-a)*(1-math.Exp(c*x))/(1-math.Exp(c))
}

// antiderivative of segmentValue over x
func segmentIntegral(a, b, c, x float64) float64 {
	if c == 0 {
		return a*x + (b-a)*x*x/2
	}
	return a*x + (b-a)/(1-math.Exp(c))*(x-math.Exp(c*x)/c)
}

// ValueAt returns the level at t. Outside the envelope the first or last
// level holds.
func (e Envelope) ValueAt(t float64) float64 {
	if len(e.Levels) == 0 {
		return 0
	}
	if t <= 0 || len(e.Levels) == 1 {
		return e.Levels[0]
	}
	start := 0.0
	for i, d := range e.Durations {
		if t < start+d {
			return segmentValue(e.Levels[i], e.Levels[i+1], e.shape(i), (t-start)/d)
		}
		start += d
	}
	return e.Levels[len(e.Levels)-1]
}

// Integrate returns the area below the envelope between from and to.
func (e Envelope) Integrate(from, to float64) float64 {
	if len(e.Levels) == 0 {
		return 0
	}
	if to < from {
		return -e.Integrate(to, from)
	}
	first, last := e.Levels[0], e.Levels[len(e.Levels)-1]
	total := 0.0
	if from < 0 {
		total += (min(to, 0) - from) * first
	}
	start := 0.0
	for i, d := range e.Durations {
		end := start + d
		lo, hi := max(from, start), min(to, end)
		if hi > lo && d > 0 {
			a, b, c := e.Levels[i], e.Levels[i+1], e.shape(i)
			x0, x1 := (lo-start)/d, (hi-start)/d
			total += d * (segmentIntegral(a, b, c, x1) - segmentIntegral(a, b, c, x0))
		}
		start = end
	}
	if to > start {
		total += (to - max(from, start)) * last
	}
	return total
}

// AverageLevel is the mean level over the envelope's duration.
func (e Envelope) AverageLevel() float64 {
	d := e.Duration()
	if d == 0 {
		if len(e.Levels) == 0 {
			return 0
		}
		return e.Levels[0]
	}
	return e.Integrate(0, d) / d
}
