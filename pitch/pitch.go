// Package pitch models pitches as frequencies: direct frequencies, just
// intonation ratios, equal divided octave steps and Western note names.
package pitch

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"go-mutwo/tools"
)

var (
	ErrInvalidPitchClass          = errors.New("invalid pitch class")
	ErrEqualDividedOctaveMismatch = errors.New("different number of pitch classes per octave")
	ErrUnknownAccidental          = errors.New("unknown accidental")
	ErrInvalidRatio               = errors.New("invalid ratio")
)

// DefaultConcertPitch is the frequency of a4 (and of 1/1) in Hertz.
// config.Apply may overwrite it at startup.
var DefaultConcertPitch = 440.0

// centCalculationConstant converts log10 ratios to cents.
var centCalculationConstant = 1200 / math.Log10(2)

// Pitch is anything that sounds at a frequency.
type Pitch interface {
	Frequency() float64
}

// HertzToCents returns the distance from f0 to f1 in cents.
func HertzToCents(f0, f1 float64) float64 {
	return 1200 * math.Log2(f1/f0)
}

// RatioToCents converts a frequency ratio to cents.
func RatioToCents(ratio float64) float64 {
	return centCalculationConstant * math.Log10(ratio)
}

// RatToCents is RatioToCents for exact ratios.
func RatToCents(ratio *big.Rat) float64 {
	return RatioToCents(tools.RatFloat(ratio))
}

// CentsToRatio converts cents to a frequency ratio.
func CentsToRatio(cents float64) float64 {
	return math.Pow(10, cents/centCalculationConstant)
}

// HertzToMidiPitchNumber returns the (fractional) MIDI note number of f.
func HertzToMidiPitchNumber(f float64) float64 {
	idx := tools.FindClosestIndex(f, MidiPitchFrequencies[:])
	return float64(idx) + HertzToCents(MidiPitchFrequencies[idx], f)/100
}

// MidiPitchNumber returns the (fractional) MIDI note number of p.
func MidiPitchNumber(p Pitch) float64 {
	return HertzToMidiPitchNumber(p.Frequency())
}

// Less orders pitches by frequency.
func Less(a, b Pitch) bool {
	return a.Frequency() < b.Frequency()
}

// Equal reports whether both pitches sound at the same frequency.
func Equal(a, b Pitch) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Frequency() == b.Frequency()
}

// DirectPitch is a pitch given by its frequency.
type DirectPitch float64

func (p DirectPitch) Frequency() float64 { return float64(p) }

func (p DirectPitch) String() string {
	return fmt.Sprintf("%ghz", float64(p))
}
