// Package ekmelily builds tuning files for the Ekmelily LilyPond
// extension. Only English note names are written.
package ekmelily

import (
	"fmt"
	"math"
	"math/big"
	"os"
	"slices"
	"strings"

	"go-mutwo/debug"
	"go-mutwo/pitch"
	"go-mutwo/tools"
)

// MaxDenominator keeps LilyPond's midi rendering fast.
const MaxDenominator = 1000

// Accidental is one accidental of the tuning.
type Accidental struct {
	// Name follows the diatonic pitch name, e.g. "s" or "qf".
	Name string
	// Glyphs are Ekmelos glyph codes like "#xE262".
	Glyphs           []string
	DeviationInCents float64
	// AvailableDiatonicIndices restricts the accidental to some of
	// c d e f g a b (0..6). Nil means all.
	AvailableDiatonicIndices []int
}

func (a Accidental) availableFor(diatonic int) bool {
	return a.AvailableDiatonicIndices == nil || slices.Contains(a.AvailableDiatonicIndices, diatonic)
}

// glyphs of the accidentals known to WesternPitch
var westernGlyphs = map[string]string{
	"":    "#xE261",
	"s":   "#xE262",
	"f":   "#xE260",
	"ss":  "#xE263",
	"ff":  "#xE264",
	"qs":  "#xE282",
	"qf":  "#xE280",
	"tqs": "#xE283",
	"tqf": "#xE281",
	"es":  "#xE2C7",
	"ef":  "#xE2C2",
}

// WesternAccidentals returns the accidentals WesternPitch can name, in
// ascending order of deviation.
func WesternAccidentals() []Accidental {
	var out []Accidental
	for name, steps := range pitch.AccidentalNameToPitchClassModification {
		out = append(out, Accidental{
			Name:             name,
			Glyphs:           []string{westernGlyphs[name]},
			DeviationInCents: steps * 100,
		})
	}
	slices.SortFunc(out, func(a, b Accidental) int {
		switch {
		case a.DeviationInCents < b.DeviationInCents:
			return -1
		case a.DeviationInCents > b.DeviationInCents:
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// DefaultGlobalScale is 12-EDO: c d e f g a b in whole tones.
func DefaultGlobalScale() []*big.Rat {
	return []*big.Rat{
		big.NewRat(0, 1), big.NewRat(1, 1), big.NewRat(2, 1), big.NewRat(5, 2),
		big.NewRat(7, 2), big.NewRat(9, 2), big.NewRat(11, 2),
	}
}

// AlterationFraction converts cents to LilyPond's whole-tone fractions.
func AlterationFraction(cents float64) *big.Rat {
	return tools.LimitDenominator(tools.RatFromFloat(cents/200), MaxDenominator)
}

// AlterationCode formats an alteration index as LilyPond reads it.
func AlterationCode(index int) string {
	return fmt.Sprintf("#x%X", index)
}

type alteration struct {
	code     string
	fraction *big.Rat
}

// TuningFileConverter builds one tuning file.
type TuningFileConverter struct {
	accidentals []Accidental
	scale       []*big.Rat
	// codes[i] belongs to accidentals[i]
	codes []string
	// positive alterations in code order
	alterations []alteration
}

// NewTuningFileConverter assigns alteration codes. Accidentals with the
// same absolute deviation share a code pair, the even code being the
// positive one. globalScale may be nil.
func NewTuningFileConverter(accidentals []Accidental, globalScale []*big.Rat) *TuningFileConverter {
	if globalScale == nil {
		globalScale = DefaultGlobalScale()
	}
	scale := make([]*big.Rat, len(globalScale))
	for i, r := range globalScale {
		scale[i] = new(big.Rat).Set(r)
	}
	if len(scale) > 0 && scale[0].Sign() != 0 {
		debug.Warn("ekmelily", "found %s for the first scale degree, set it to 0", scale[0].RatString())
		scale[0] = new(big.Rat)
	}

	c := &TuningFileConverter{
		accidentals: accidentals,
		scale:       scale,
		codes:       make([]string, len(accidentals)),
	}
	c.assignCodes()
	return c
}

func (c *TuningFileConverter) assignCodes() {
	var deviations []float64
	for _, a := range c.accidentals {
		d := math.Abs(a.DeviationInCents)
		if !slices.Contains(deviations, d) {
			deviations = append(deviations, d)
		}
	}
	slices.Sort(deviations)

	next := 0
	for _, d := range deviations {
		var positive, negative []int
		for i, a := range c.accidentals {
			switch {
			case a.DeviationInCents == d:
				positive = append(positive, i)
			case d != 0 && a.DeviationInCents == -d:
				negative = append(negative, i)
			}
		}
		for k := range max(len(positive), len(negative)) {
			code := AlterationCode(next)
			if k < len(positive) {
				c.codes[positive[k]] = code
			}
			if k < len(negative) {
				c.codes[negative[k]] = AlterationCode(next + 1)
			}
			c.alterations = append(c.alterations, alteration{code, AlterationFraction(d)})
			next += 2
		}
	}
}

// Code returns the alteration code of the accidental called name.
func (c *TuningFileConverter) Code(name string) (string, bool) {
	for i, a := range c.accidentals {
		if a.Name == name {
			return c.codes[i], true
		}
	}
	return "", false
}

func (c *TuningFileConverter) tuningTable() string {
	scale := make([]string, len(c.scale))
	for i, r := range c.scale {
		scale[i] = tools.RatString(r)
	}
	entries := []string{"  (-1 " + strings.Join(scale, " ") + ")"}
	for _, a := range c.alterations {
		entries = append(entries, fmt.Sprintf("(%s . %s)", a.code, tools.RatString(a.fraction)))
	}
	return "ekmTuning = #'(\n" + strings.Join(entries, "\n  ") + ")"
}

func (c *TuningFileConverter) languagesTable() string {
	var entries []string
	for i, a := range c.accidentals {
		for n, diatonic := range pitch.AscendingDiatonicPitchNames {
			if a.availableFor(n) {
				entries = append(entries, fmt.Sprintf("(%s%s %d . %s)", diatonic, a.Name, n, c.codes[i]))
			}
		}
	}
	return "ekmLanguages = #'(\n(english . (\n  " + strings.Join(entries, "\n  ") + ")))"
}

func (c *TuningFileConverter) notationsTable() string {
	entries := make([]string, len(c.accidentals))
	for i, a := range c.accidentals {
		entries[i] = fmt.Sprintf("(%s %s)", c.codes[i], strings.Join(a.Glyphs, " "))
	}
	return "ekmNotations = #'(\n(default .(\n  " + strings.Join(entries, "\n  ") + ")))"
}

// Render returns the tuning file.
func (c *TuningFileConverter) Render() string {
	return strings.Join([]string{
		c.tuningTable(),
		c.languagesTable(),
		c.notationsTable(),
		`\include "ekmel-main.ily"`,
	}, "\n\n")
}

// Convert writes the tuning file to path.
func (c *TuningFileConverter) Convert(path string) error {
	return os.WriteFile(path, []byte(c.Render()), 0644)
}
