package music

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"go-mutwo/pitch"
	"go-mutwo/volume"
)

var (
	ErrUnknownPitch  = errors.New("can't build pitch")
	ErrUnknownVolume = errors.New("can't build volume")
)

// ParsePitches turns loose pitch descriptions into pitches:
//
//	"3/2"      just intonation ratio
//	"c" "ef5"  Western pitch, octave 4 unless given
//	"440hz"    direct frequency
//	7, 2.5     steps above c4
//	*big.Rat   just intonation ratio
//	nil        no pitch (a rest)
//
// Strings may hold several pitches separated by spaces. Slices are
// flattened.
func ParsePitches(v any) ([]pitch.Pitch, error) {
	switch p := v.(type) {
	case nil:
		return []pitch.Pitch{}, nil
	case pitch.Pitch:
		return []pitch.Pitch{p}, nil
	case []pitch.Pitch:
		out := make([]pitch.Pitch, len(p))
		copy(out, p)
		return out, nil
	case string:
		var out []pitch.Pitch
		for _, token := range strings.Fields(p) {
			parsed, err := ParsePitch(token)
			if err != nil {
				return nil, err
			}
			out = append(out, parsed)
		}
		if out == nil {
			out = []pitch.Pitch{}
		}
		return out, nil
	case []string:
		return parseEach(len(p), func(i int) any { return p[i] })
	case []any:
		return parseEach(len(p), func(i int) any { return p[i] })
	case []float64:
		return parseEach(len(p), func(i int) any { return p[i] })
	case []int:
		return parseEach(len(p), func(i int) any { return p[i] })
	case *big.Rat:
		jp, err := pitch.NewJustIntonationPitch(p)
		if err != nil {
			return nil, err
		}
		return []pitch.Pitch{jp}, nil
	case int:
		return []pitch.Pitch{stepsAboveMiddleC(float64(p))}, nil
	case int64:
		return []pitch.Pitch{stepsAboveMiddleC(float64(p))}, nil
	case float64:
		return []pitch.Pitch{stepsAboveMiddleC(p)}, nil
	default:
		return nil, fmt.Errorf("%w: %v (%T)", ErrUnknownPitch, v, v)
	}
}

func parseEach(n int, at func(i int) any) ([]pitch.Pitch, error) {
	out := []pitch.Pitch{}
	for i := 0; i < n; i++ {
		ps, err := ParsePitches(at(i))
		if err != nil {
			return nil, err
		}
		out = append(out, ps...)
	}
	return out, nil
}

func stepsAboveMiddleC(steps float64) pitch.Pitch {
	return pitch.MustWesternPitch("c", 4).Add(steps)
}

// ParsePitch reads a single pitch token.
func ParsePitch(token string) (pitch.Pitch, error) {
	lower := strings.ToLower(token)
	switch {
	case token == "":
		return nil, fmt.Errorf("%w: empty", ErrUnknownPitch)
	case strings.Contains(token, "/"):
		return pitch.ParseJustIntonationPitch(token)
	case strings.HasSuffix(lower, "hz"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(lower, "hz"), 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPitch, token)
		}
		return pitch.DirectPitch(f), nil
	}
	if _, ok := pitch.DiatonicPitchNameToPitchClass[lower[:1]]; ok {
		last := token[len(token)-1]
		if last >= '0' && last <= '9' {
			return pitch.ParseWesternPitch(token)
		}
		return pitch.NewWesternPitch(token, pitch.DefaultConcertPitchOctaveForWesternPitch)
	}
	return nil, fmt.Errorf("%w: %q is neither a ratio nor a pitch name", ErrUnknownPitch, token)
}

// ParseVolume accepts volumes, amplitudes (>= 0), decibels (< 0) and
// dynamic names.
func ParseVolume(v any) (volume.Volume, error) {
	switch x := v.(type) {
	case volume.Volume:
		return x, nil
	case float64:
		return numberToVolume(x), nil
	case int:
		return numberToVolume(float64(x)), nil
	case int64:
		return numberToVolume(float64(x)), nil
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return numberToVolume(f), nil
		}
		return volume.NewWesternVolume(x)
	default:
		return nil, fmt.Errorf("%w: %v (%T)", ErrUnknownVolume, v, v)
	}
}

func numberToVolume(f float64) volume.Volume {
	if f >= 0 {
		return volume.DirectVolume(f)
	}
	return volume.DecibelVolume(f)
}

// FormatPitch writes a pitch the way ParsePitch reads it.
func FormatPitch(p pitch.Pitch) string {
	switch x := p.(type) {
	case pitch.JustIntonationPitch:
		r := x.Ratio()
		return r.Num().String() + "/" + r.Denom().String()
	case pitch.WesternPitch:
		return x.Name()
	default:
		return strconv.FormatFloat(p.Frequency(), 'g', -1, 64) + "hz"
	}
}

// FormatVolume writes a volume the way ParseVolume reads it.
func FormatVolume(v volume.Volume) any {
	switch x := v.(type) {
	case volume.WesternVolume:
		return x.Name
	case volume.DecibelVolume:
		return float64(x)
	default:
		return v.Amplitude()
	}
}
