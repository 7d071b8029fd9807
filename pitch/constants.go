package pitch

import (
	"math"
	"math/big"
)

// MidiPitchFrequencies holds the 12-EDO frequency of every MIDI note number
// with a4 (69) = 440 Hz.
var MidiPitchFrequencies = func() [128]float64 {
	var f [128]float64
	for n := range f {
		f[n] = 440 * math.Pow(2, float64(n-69)/12)
	}
	return f
}()

// AscendingDiatonicPitchNames lists the English diatonic names from c.
var AscendingDiatonicPitchNames = []string{"c", "d", "e", "f", "g", "a", "b"}

// DiatonicPitchNameCycleOfFifths lists the diatonic names along the fifths.
var DiatonicPitchNameCycleOfFifths = []string{"f", "c", "g", "d", "a", "e", "b"}

// DiatonicPitchNameToPitchClass maps diatonic names onto 12-EDO pitch classes.
var DiatonicPitchNameToPitchClass = map[string]float64{
	"c": 0, "d": 2, "e": 4, "f": 5, "g": 7, "a": 9, "b": 11,
}

var diatonicPitchClasses = []float64{0, 2, 4, 5, 7, 9, 11}

// AccidentalNameToPitchClassModification maps accidental suffixes to
// chromatic steps.
var AccidentalNameToPitchClassModification = map[string]float64{
	"":    0,
	"s":   1,
	"f":   -1,
	"ss":  2,
	"ff":  -2,
	"qs":  0.5,
	"qf":  -0.5,
	"tqs": 1.5,
	"tqf": -1.5,
	"es":  0.25,
	"ef":  -0.25,
}

// accidental modifications sorted ascending, for nearest lookup
var pitchClassModifications = []float64{-2, -1.5, -1, -0.5, -0.25, 0, 0.25, 0.5, 1, 1.5, 2}

var pitchClassModificationToAccidentalName = map[float64]string{
	-2: "ff", -1.5: "tqf", -1: "f", -0.5: "qf", -0.25: "ef",
	0: "", 0.25: "es", 0.5: "qs", 1: "s", 1.5: "tqs", 2: "ss",
}

const (
	// DefaultConcertPitchClassForWesternPitch is a.
	DefaultConcertPitchClassForWesternPitch = 9
	// DefaultConcertPitchOctaveForWesternPitch is the octave of a4.
	DefaultConcertPitchOctaveForWesternPitch = 4
)

// DefaultPrimeToComma holds the Helmholtz-Ellis commas for primes above 3.
// Each comma carries its prime with exponent +1.
var DefaultPrimeToComma = map[int]Comma{
	5:  NewComma(big.NewRat(80, 81)),
	7:  NewComma(big.NewRat(63, 64)),
	11: NewComma(big.NewRat(33, 32)),
	13: NewComma(big.NewRat(26, 27)),
	17: NewComma(big.NewRat(2176, 2187)),
	19: NewComma(big.NewRat(513, 512)),
	23: NewComma(big.NewRat(736, 729)),
	29: NewComma(big.NewRat(261, 256)),
	31: NewComma(big.NewRat(248, 243)),
	37: NewComma(big.NewRat(37, 36)),
	41: NewComma(big.NewRat(82, 81)),
	43: NewComma(big.NewRat(129, 128)),
	47: NewComma(big.NewRat(752, 729)),
}
