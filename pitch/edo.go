package pitch

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go-mutwo/tools"
)

// EqualDividedOctavePitch is a step of an octave divided into N equal parts.
type EqualDividedOctavePitch struct {
	N                 int
	PitchClass        float64
	Octave            int
	ConcertPitchClass float64
	ConcertOctave     int
	ConcertPitch      float64
}

// NewEqualDividedOctavePitch validates the pitch class against n.
func NewEqualDividedOctavePitch(n int, pitchClass float64, octave int, concertPitchClass float64, concertOctave int, concertPitch float64) (EqualDividedOctavePitch, error) {
	p := EqualDividedOctavePitch{
		N:                 n,
		PitchClass:        pitchClass,
		Octave:            octave,
		ConcertPitchClass: concertPitchClass,
		ConcertOctave:     concertOctave,
		ConcertPitch:      concertPitch,
	}
	if err := checkPitchClass(n, pitchClass); err != nil {
		return EqualDividedOctavePitch{}, err
	}
	if err := checkPitchClass(n, concertPitchClass); err != nil {
		return EqualDividedOctavePitch{}, err
	}
	return p, nil
}

func checkPitchClass(n int, pc float64) error {
	if n < 1 || pc < 0 || pc > float64(n-1) {
		return fmt.Errorf("%w: %g not in [0, %d]", ErrInvalidPitchClass, pc, n-1)
	}
	return nil
}

func (p EqualDividedOctavePitch) concertPitch() float64 {
	if p.ConcertPitch == 0 {
		return DefaultConcertPitch
	}
	return p.ConcertPitch
}

// CentsPerStep is the size of one step.
func (p EqualDividedOctavePitch) CentsPerStep() float64 {
	return 1200 / float64(p.N)
}

// StepFactor is the frequency ratio of one step.
func (p EqualDividedOctavePitch) StepFactor() float64 {
	return math.Pow(2, 1/float64(p.N))
}

func (p EqualDividedOctavePitch) Frequency() float64 {
	cents := float64(p.Octave-p.ConcertOctave)*1200 + p.CentsPerStep()*(p.PitchClass-p.ConcertPitchClass)
	return p.concertPitch() * CentsToRatio(cents)
}

// StepsTo returns how many steps p lies above o.
func (p EqualDividedOctavePitch) StepsTo(o EqualDividedOctavePitch) (float64, error) {
	if p.N != o.N {
		return 0, fmt.Errorf("%w: %d and %d", ErrEqualDividedOctaveMismatch, p.N, o.N)
	}
	return float64(p.Octave-o.Octave)*float64(p.N) + p.PitchClass - o.PitchClass, nil
}

// Add moves the pitch by steps, carrying octaves.
func (p EqualDividedOctavePitch) Add(steps float64) EqualDividedOctavePitch {
	n := float64(p.N)
	pc := p.PitchClass + steps
	octaves := math.Floor(pc / n)
	pc -= octaves * n
	p.PitchClass = pc
	p.Octave += int(octaves)
	return p
}

// Subtract moves the pitch down by steps.
func (p EqualDividedOctavePitch) Subtract(steps float64) EqualDividedOctavePitch {
	return p.Add(-steps)
}

func (p EqualDividedOctavePitch) String() string {
	return fmt.Sprintf("EqualDividedOctavePitch(%d, %g, %d)", p.N, p.PitchClass, p.Octave)
}

// WesternPitch is a 12-EDO pitch named the English way (c, cs, ef, aqs...).
type WesternPitch struct {
	EqualDividedOctavePitch
	PitchClassName string
}

// NewWesternPitch parses a pitch class name like "ds" or "bf" in octave.
func NewWesternPitch(name string, octave int) (WesternPitch, error) {
	pc, err := pitchClassNameToPitchClass(name)
	if err != nil {
		return WesternPitch{}, err
	}
	return newWesternPitch(pc, name, octave), nil
}

// MustWesternPitch panics on unknown names.
func MustWesternPitch(name string, octave int) WesternPitch {
	p, err := NewWesternPitch(name, octave)
	if err != nil {
		panic(err)
	}
	return p
}

// WesternPitchFromPitchClass names pitch class pc (0 is c) in octave.
func WesternPitchFromPitchClass(pc float64, octave int) (WesternPitch, error) {
	if err := checkPitchClass(12, pc); err != nil {
		return WesternPitch{}, err
	}
	return newWesternPitch(pc, PitchClassToPitchClassName(pc), octave), nil
}

// ParseWesternPitch reads names with trailing octave such as "ef4".
func ParseWesternPitch(s string) (WesternPitch, error) {
	i := len(s)
	for i > 0 && (s[i-1] >= '0' && s[i-1] <= '9' || s[i-1] == '-') {
		i--
	}
	if i == len(s) {
		return WesternPitch{}, fmt.Errorf("%w: %q has no octave", ErrInvalidPitchClass, s)
	}
	octave, err := strconv.Atoi(s[i:])
	if err != nil {
		return WesternPitch{}, fmt.Errorf("%w: %q", ErrInvalidPitchClass, s)
	}
	return NewWesternPitch(s[:i], octave)
}

func newWesternPitch(pc float64, name string, octave int) WesternPitch {
	return WesternPitch{
		EqualDividedOctavePitch: EqualDividedOctavePitch{
			N:                 12,
			PitchClass:        pc,
			Octave:            octave,
			ConcertPitchClass: DefaultConcertPitchClassForWesternPitch,
			ConcertOctave:     DefaultConcertPitchOctaveForWesternPitch,
			ConcertPitch:      DefaultConcertPitch,
		},
		PitchClassName: name,
	}
}

func pitchClassNameToPitchClass(name string) (float64, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: empty name", ErrInvalidPitchClass)
	}
	diatonic, ok := DiatonicPitchNameToPitchClass[strings.ToLower(name[:1])]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPitchClass, name)
	}
	modification, ok := AccidentalNameToPitchClassModification[name[1:]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAccidental, name[1:])
	}
	return diatonic + modification, nil
}

// PitchClassToPitchClassName finds the closest diatonic name and adds the
// closest accidental. Ties resolve to sharps.
func PitchClassToPitchClassName(pc float64) string {
	idx := tools.FindClosestIndex(pc, diatonicPitchClasses)
	diff := pc - diatonicPitchClasses[idx]
	accidental, _ := tools.FindClosestItem(diff, pitchClassModifications)
	return AscendingDiatonicPitchNames[idx] + pitchClassModificationToAccidentalName[accidental]
}

// Name returns the pitch class name followed by the octave, e.g. "cs4".
func (p WesternPitch) Name() string {
	return p.PitchClassName + strconv.Itoa(p.Octave)
}

// Add moves the pitch by steps and renames it.
func (p WesternPitch) Add(steps float64) WesternPitch {
	p.EqualDividedOctavePitch = p.EqualDividedOctavePitch.Add(steps)
	p.PitchClassName = PitchClassToPitchClassName(p.PitchClass)
	return p
}

// Subtract moves the pitch down by steps and renames it.
func (p WesternPitch) Subtract(steps float64) WesternPitch {
	return p.Add(-steps)
}

func (p WesternPitch) String() string {
	return fmt.Sprintf("WesternPitch(%s)", p.Name())
}
