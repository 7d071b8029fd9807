// Package volume models loudness as amplitudes, decibels and Western
// dynamic names.
package volume

import (
	"errors"
	"fmt"
	"math"
)

var ErrUnknownDynamic = errors.New("unknown dynamic")

const (
	MinimumVelocity = 0
	MaximumVelocity = 127

	// MinimumDecibel and MaximumDecibel bound the Western dynamic range.
	MinimumDecibel = -60.0
	MaximumDecibel = 0.0
)

// Volume is anything with an amplitude between 0 and 1.
type Volume interface {
	Amplitude() float64
}

// DecibelToAmplitudeRatio converts decibel to an amplitude relative to ref.
func DecibelToAmplitudeRatio(db, ref float64) float64 {
	return ref * math.Pow(10, db/20)
}

// DecibelToPowerRatio converts decibel to a power relative to ref.
func DecibelToPowerRatio(db, ref float64) float64 {
	return ref * math.Pow(10, db/10)
}

// AmplitudeRatioToDecibel returns -Inf for silence.
func AmplitudeRatioToDecibel(amplitude, ref float64) float64 {
	if amplitude == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(amplitude/ref)
}

// PowerRatioToDecibel returns -Inf for silence.
func PowerRatioToDecibel(power, ref float64) float64 {
	if power == 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(power/ref)
}

// AmplitudeToMidiVelocity maps 0..1 onto 0..127 and clips.
func AmplitudeToMidiVelocity(amplitude float64) int {
	v := int(math.Round(amplitude * MaximumVelocity))
	return min(max(v, MinimumVelocity), MaximumVelocity)
}

// Decibel returns the level of v.
func Decibel(v Volume) float64 {
	return AmplitudeRatioToDecibel(v.Amplitude(), 1)
}

// MidiVelocity returns the velocity of v. Volumes can provide their own
// mapping with a MidiVelocity() int method.
func MidiVelocity(v Volume) int {
	if mv, ok := v.(interface{ MidiVelocity() int }); ok {
		return mv.MidiVelocity()
	}
	return AmplitudeToMidiVelocity(v.Amplitude())
}

// Less orders volumes by amplitude.
func Less(a, b Volume) bool { return a.Amplitude() < b.Amplitude() }

// Equal compares amplitudes.
func Equal(a, b Volume) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Amplitude() == b.Amplitude()
}

// DirectVolume is an amplitude.
type DirectVolume float64

func (v DirectVolume) Amplitude() float64 { return float64(v) }

func (v DirectVolume) String() string { return fmt.Sprintf("DirectVolume(%g)", float64(v)) }

// DecibelVolume is a level in decibel (0 dB = amplitude 1).
type DecibelVolume float64

func (v DecibelVolume) Amplitude() float64 { return DecibelToAmplitudeRatio(float64(v), 1) }

func (v DecibelVolume) String() string { return fmt.Sprintf("DecibelVolume(%g)", float64(v)) }

// StandardDynamicIndicators lists the Western dynamics from soft to loud.
var StandardDynamicIndicators = []string{
	"ppppp", "pppp", "ppp", "pp", "p", "mp", "mf", "f", "ff", "fff", "ffff", "fffff",
}

// WesternVolume is a dynamic marking such as "mf".
type WesternVolume struct {
	Name string
}

// NewWesternVolume validates the dynamic name.
func NewWesternVolume(name string) (WesternVolume, error) {
	if dynamicIndex(name) < 0 {
		return WesternVolume{}, fmt.Errorf("%w: %q", ErrUnknownDynamic, name)
	}
	return WesternVolume{Name: name}, nil
}

// MustWesternVolume panics on unknown names.
func MustWesternVolume(name string) WesternVolume {
	v, err := NewWesternVolume(name)
	if err != nil {
		panic(err)
	}
	return v
}

func dynamicIndex(name string) int {
	for i, n := range StandardDynamicIndicators {
		if n == name {
			return i
		}
	}
	return -1
}

// Decibel spreads the dynamics evenly between MinimumDecibel and
// MaximumDecibel.
func (v WesternVolume) Decibel() float64 {
	idx := dynamicIndex(v.Name)
	if idx < 0 {
		return math.Inf(-1)
	}
	return MinimumDecibel + (MaximumDecibel-MinimumDecibel)*float64(idx)/float64(len(StandardDynamicIndicators)-1)
}

func (v WesternVolume) Amplitude() float64 {
	db := v.Decibel()
	if math.IsInf(db, -1) {
		return 0
	}
	return DecibelToAmplitudeRatio(db, 1)
}

// MidiVelocity maps the decibel range linearly onto velocities 1..127.
func (v WesternVolume) MidiVelocity() int {
	db := v.Decibel()
	if math.IsInf(db, -1) {
		return 0
	}
	pos := (db - MinimumDecibel) / (MaximumDecibel - MinimumDecibel)
	return int(math.Round(1 + pos*(MaximumVelocity-1)))
}

func (v WesternVolume) String() string { return fmt.Sprintf("WesternVolume(%s)", v.Name) }
