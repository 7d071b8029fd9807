// Package isis writes score files for the ISiS singing synthesizer and
// renders them with isis.sh.
package isis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"go-mutwo/converter"
	"go-mutwo/event"
	"go-mutwo/music"
	"go-mutwo/pitch"
	"go-mutwo/volume"
)

var (
	ErrMonophonic     = errors.New("isis is monophonic and can't read simultaneous voices")
	ErrNotExtractable = errors.New("parameter not available")
)

const (
	DefaultBinary = "isis.sh"
	FlagSilent    = "--quiet"
)

// ScoreConverter turns a sequence of sung notes into an ISiS score.
type ScoreConverter struct {
	Pitch      func(ev event.Event) (pitch.Pitch, error)
	Volume     func(ev event.Event) (volume.Volume, error)
	Vowel      func(ev event.Event) (string, error)
	Consonants func(ev event.Event) ([]string, error)

	Tempo               float64
	GlobalTransposition int
	EventsPerLine       int
}

// NewScoreConverter reads the first pitch, the volume and the "vowel"
// and "consonants" parameters of notes.
func NewScoreConverter() *ScoreConverter {
	return &ScoreConverter{
		Pitch:         firstPitch,
		Volume:        noteVolume,
		Vowel:         stringParameter("vowel"),
		Consonants:    consonants,
		Tempo:         60,
		EventsPerLine: 5,
	}
}

func firstPitch(ev event.Event) (pitch.Pitch, error) {
	if ps, ok := ev.GetParameter(music.ParamPitches).([]pitch.Pitch); ok && len(ps) > 0 {
		return ps[0], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotExtractable, music.ParamPitches)
}

func noteVolume(ev event.Event) (volume.Volume, error) {
	if v, ok := ev.GetParameter(music.ParamVolume).(volume.Volume); ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotExtractable, music.ParamVolume)
}

func stringParameter(name string) func(event.Event) (string, error) {
	return func(ev event.Event) (string, error) {
		if s, ok := ev.GetParameter(name).(string); ok {
			return s, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotExtractable, name)
	}
}

func consonants(ev event.Event) ([]string, error) {
	switch v := ev.GetParameter("consonants").(type) {
	case []string:
		return v, nil
	case nil:
		return nil, fmt.Errorf("%w: consonants", ErrNotExtractable)
	case []any:
		out := make([]string, len(v))
		for i, c := range v {
			s, ok := c.(string)
			if !ok {
				return nil, fmt.Errorf("%w: consonant %v", ErrNotExtractable, c)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: consonants %T", ErrNotExtractable, v)
	}
}

// syllable is what ISiS needs of one event.
type syllable struct {
	duration   float64
	consonants []string
	vowel      string
	pitch      pitch.Pitch
	volume     volume.Volume
}

func rest(duration float64) syllable {
	return syllable{
		duration: duration,
		vowel:    "_",
		pitch:    pitch.MustWesternPitch("c", -1),
		volume:   volume.DirectVolume(0),
	}
}

func (c *ScoreConverter) syllables(ev event.Event) ([]syllable, error) {
	switch e := ev.(type) {
	case *event.SequentialEvent:
		var out []syllable
		for _, child := range e.Children() {
			s, err := c.syllables(child)
			if err != nil {
				return nil, err
			}
			out = append(out, s...)
		}
		return out, nil
	case *event.SimultaneousEvent:
		return nil, ErrMonophonic
	case event.ComplexEvent, nil:
		return nil, fmt.Errorf("%w: %T", event.ErrInvalidEventType, ev)
	}

	s := syllable{duration: ev.Duration()}
	var err error
	if s.consonants, err = c.Consonants(ev); err != nil {
		return []syllable{rest(s.duration)}, nil
	}
	if s.vowel, err = c.Vowel(ev); err != nil {
		return []syllable{rest(s.duration)}, nil
	}
	if s.pitch, err = c.Pitch(ev); err != nil {
		return []syllable{rest(s.duration)}, nil
	}
	if s.volume, err = c.Volume(ev); err != nil {
		return []syllable{rest(s.duration)}, nil
	}
	return []syllable{s}, nil
}

// key writes "name: a, b, c" with EventsPerLine events per line.
func (c *ScoreConverter) key(name string, syllables []syllable, values func(syllable) []string) string {
	per := max(c.EventsPerLine, 1)
	var lines []string
	var line []string
	for i, s := range syllables {
		line = append(line, values(s)...)
		if (i+1)%per == 0 {
			lines = append(lines, strings.Join(line, ", "))
			line = nil
		}
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, ", "))
	}
	indent := ",\n" + strings.Repeat(" ", len(name)+2)
	return name + ": " + strings.Join(lines, indent)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// midiNote rounds to hundredths of a cent.
func midiNote(p pitch.Pitch) float64 {
	n := math.Round(pitch.MidiPitchNumber(p)*1e4) / 1e4
	if n == 0 {
		return 0
	}
	return n
}

// Render returns the score text of ev.
func (c *ScoreConverter) Render(ev event.Event) (string, error) {
	syllables, err := c.syllables(ev)
	if err != nil {
		return "", err
	}
	lyrics := "[lyrics]\n" + c.key("xsampa", syllables, func(s syllable) []string {
		return append(append([]string{}, s.consonants...), s.vowel)
	})
	score := strings.Join([]string{
		"[score]",
		c.key("midiNotes", syllables, func(s syllable) []string {
			return []string{formatNumber(midiNote(s.pitch))}
		}),
		"globalTransposition: " + strconv.Itoa(c.GlobalTransposition),
		c.key("rhythm", syllables, func(s syllable) []string {
			return []string{formatNumber(s.duration)}
		}),
		c.key("loud_accents", syllables, func(s syllable) []string {
			return []string{formatNumber(s.volume.Amplitude())}
		}),
		"tempo: " + formatNumber(c.Tempo),
	}, "\n")
	return lyrics + "\n\n" + score, nil
}

// Convert writes the score of ev to path.
func (c *ScoreConverter) Convert(ev event.Event, path string) error {
	text, err := c.Render(ev)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0644)
}

// Converter renders sound files with isis.sh.
type Converter struct {
	Score       *ScoreConverter
	Flags       []string
	RemoveScore bool
	Binary      string
	Run         converter.Runner
}

func NewConverter(score *ScoreConverter, flags ...string) *Converter {
	return &Converter{Score: score, Flags: flags, Binary: DefaultBinary, Run: converter.ExecRunner}
}

// Convert writes the score to scorePath and renders it to out.
func (c *Converter) Convert(ctx context.Context, ev event.Event, scorePath, out string) error {
	if err := c.Score.Convert(ev, scorePath); err != nil {
		return err
	}
	args := append([]string{"-m", scorePath, "-o", out}, c.Flags...)
	if err := c.Run(ctx, c.Binary, args...); err != nil {
		return fmt.Errorf("render %s: %w", out, err)
	}
	if c.RemoveScore {
		return os.Remove(scorePath)
	}
	return nil
}
