// Package lilypond writes events as LilyPond source.
package lilypond

import (
	"math"
	"strconv"
	"strings"

	"go-mutwo/debug"
	"go-mutwo/pitch"
)

// Leaf is one printed note, chord or rest. A note longer than any
// single written duration becomes several tied leaves.
type Leaf struct {
	Pitches  []pitch.WesternPitch
	Harmonic []bool
	Duration string
	Before   []string
	After    []string
}

// IsRest reports whether the leaf has no pitch.
func (l *Leaf) IsRest() bool { return len(l.Pitches) == 0 }

// flags is the number of flags of the written duration.
func (l *Leaf) flags() int {
	base, err := strconv.Atoi(strings.TrimRight(l.Duration, "."))
	if err != nil || base < 8 {
		return 0
	}
	return int(math.Log2(float64(base))) - 2
}

func (l *Leaf) String() string {
	var b strings.Builder
	for _, s := range l.Before {
		b.WriteString(s)
		b.WriteByte(' ')
	}
	switch len(l.Pitches) {
	case 0:
		b.WriteString("r")
	case 1:
		b.WriteString(l.head(0))
	default:
		heads := make([]string, len(l.Pitches))
		for i := range l.Pitches {
			heads[i] = l.head(i)
		}
		b.WriteString("<" + strings.Join(heads, " ") + ">")
	}
	b.WriteString(l.Duration)
	for _, s := range l.After {
		b.WriteByte(' ')
		b.WriteString(s)
	}
	return b.String()
}

func (l *Leaf) head(i int) string {
	name := PitchName(l.Pitches[i])
	if i < len(l.Harmonic) && l.Harmonic[i] {
		return `\tweak NoteHead.style #'harmonic ` + name
	}
	return name
}

// PitchName writes a pitch in LilyPond's english note names, c4 being c'.
func PitchName(p pitch.WesternPitch) string {
	marks := p.Octave - 3
	switch {
	case marks > 0:
		return p.PitchClassName + strings.Repeat("'", marks)
	case marks < 0:
		return p.PitchClassName + strings.Repeat(",", -marks)
	}
	return p.PitchClassName
}

// quarterToneNames are the accidentals LilyPond knows without Ekmelily.
var quarterToneNames = map[string]bool{"": true, "s": true, "f": true, "ss": true, "ff": true, "qs": true, "qf": true, "tqs": true, "tqf": true}

// ToWesternPitch spells any pitch on the nearest step of the grid, in
// semitones. Grid 0.5 gives quarter tones, 0.25 eighth tones.
func ToWesternPitch(p pitch.Pitch, grid float64) pitch.WesternPitch {
	if wp, ok := p.(pitch.WesternPitch); ok && onGrid(wp, grid) {
		return wp
	}
	midi := pitch.MidiPitchNumber(p)
	steps := math.Round(midi/grid) * grid
	// c-1 is midi note 0
	return pitch.MustWesternPitch("c", -1).Add(steps)
}

func onGrid(wp pitch.WesternPitch, grid float64) bool {
	accidental := wp.PitchClassName[1:]
	if grid >= 0.5 {
		return quarterToneNames[accidental]
	}
	return true
}

// durationUnit is the smallest written duration, a 64th note.
const durationUnit = 1.0 / 16

var writtenDurations = []struct {
	name  string
	units int
}{
	{`\breve`, 128},
	{"1", 64},
	{"2", 32},
	{"4", 16},
	{"8", 8},
	{"16", 4},
	{"32", 2},
	{"64", 1},
}

// Durations splits a duration in beats (quarter notes) into written
// durations that can be tied together. Dotted values are used where
// they fit. Durations off the 64th grid are rounded to it with a warning.
func Durations(beats float64) []string {
	exact := beats / durationUnit
	units := int(math.Round(exact))
	if math.Abs(exact-float64(units)) > 1e-9 {
		debug.WarnEvery(warnEvery, "lilypond", "duration %g is not on the 1/64 grid, writing %d/64", beats, units)
	}
	var out []string
	for units > 0 {
		for _, d := range writtenDurations {
			if d.units > units {
				continue
			}
			if dotted := d.units * 3 / 2; d.units > 1 && dotted <= units {
				out = append(out, d.name+".")
				units -= dotted
			} else {
				out = append(out, d.name)
				units -= d.units
			}
			break
		}
	}
	return out
}
