// Package loudness approximates the amplitude a sine tone needs to be
// perceived at a given loudness.
package loudness

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go-mutwo/tempo"
	"go-mutwo/volume"
)

var ErrInvalidLoudness = errors.New("loudness must be positive")

// AuditoryThreshold is the reference sound pressure at 1 kHz (in Pa).
const AuditoryThreshold = 0.00002

// DefaultSpeakerResponse is a flat 80 dB response up to 2 kHz.
func DefaultSpeakerResponse() tempo.Envelope {
	env, _ := tempo.NewEnvelope([]float64{80, 80}, []float64{2000}, nil)
	return env
}

// SoneToPhon converts perceived loudness to loudness level.
func SoneToPhon(sone float64) float64 {
	if sone >= 1 {
		return 40 + 10*math.Log2(sone)
	}
	return 40 * math.Pow(sone+0.0005, 0.35)
}

// EqualLoudnessContour returns the sound pressure level (dB SPL) of every
// standard frequency for the loudness level phon.
func EqualLoudnessContour(phon float64) []float64 {
	out := make([]float64, len(isoFrequencies))
	for i := range isoFrequencies {
		af := 4.47e-3*(math.Pow(10, 0.025*phon)-1.15) +
			math.Pow(0.4*math.Pow(10, (isoTf[i]+isoLu[i])/10-9), isoAf[i])
		out[i] = 10/isoAf[i]*math.Log10(af) - isoLu[i] + 94
	}
	return out
}

// Converter maps frequencies to amplitudes of equal perceived loudness.
type Converter struct {
	Sone    float64
	contour []float64
	speaker tempo.Envelope
	average float64
}

// NewConverter prepares the contour for sone. speaker is the frequency
// response of the loudspeaker (dB over Hz) and may be nil.
func NewConverter(sone float64, speaker *tempo.Envelope) (*Converter, error) {
	if sone <= 0 {
		return nil, fmt.Errorf("%w: %g sone", ErrInvalidLoudness, sone)
	}
	resp := DefaultSpeakerResponse()
	if speaker != nil {
		resp = *speaker
	}
	return &Converter{
		Sone:    sone,
		contour: EqualLoudnessContour(SoneToPhon(sone)),
		speaker: resp,
		average: resp.AverageLevel(),
	}, nil
}

// SoundPressureLevel returns the level in dB a tone at frequency needs.
// Between standard frequencies the contour is interpolated linearly,
// outside it holds the edge value.
func (c *Converter) SoundPressureLevel(frequency float64) float64 {
	n := len(isoFrequencies)
	switch {
	case frequency <= isoFrequencies[0]:
		return c.contour[0]
	case frequency >= isoFrequencies[n-1]:
		return c.contour[n-1]
	}
	i := sort.SearchFloat64s(isoFrequencies, frequency)
	if isoFrequencies[i] == frequency {
		return c.contour[i]
	}
	f0, f1 := isoFrequencies[i-1], isoFrequencies[i]
	x := (frequency - f0) / (f1 - f0)
	return c.contour[i-1] + x*(c.contour[i]-c.contour[i-1])
}

// Convert returns the amplitude for a sine tone at frequency.
func (c *Converter) Convert(frequency float64) float64 {
	db := c.SoundPressureLevel(frequency) + c.average - c.speaker.ValueAt(frequency)
	return volume.DecibelToAmplitudeRatio(db, AuditoryThreshold)
}
