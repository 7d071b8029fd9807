// Package csound writes Csound score files and renders them with the
// csound command.
package csound

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"go-mutwo/converter"
	"go-mutwo/debug"
	"go-mutwo/event"
)

var ErrInvalidPField = errors.New("invalid p-field")

const (
	SequentialAnnotation   = "; New SequentialEvent"
	SimultaneousAnnotation = "; New SimultaneousEvent"
	// EmptyLinesAfterBlock follow every annotated block.
	EmptyLinesAfterBlock = 1

	warnEvery = 100
)

// Common csound flags.
const (
	FlagSilent    = "-O null"
	FlagFormatWav = "--format=wav"
	FlagFormat24  = "-3"
)

// PField extracts one p-field value from a leaf. Numbers and strings are
// supported. An error turns the leaf into a rest.
type PField func(ev event.Event) (any, error)

// Instrument always returns n.
func Instrument(n int) PField {
	return func(event.Event) (any, error) { return n, nil }
}

// Duration returns the duration of the leaf.
func Duration(ev event.Event) (any, error) { return ev.Duration(), nil }

// Parameter reads a named parameter.
func Parameter(name string) PField {
	return func(ev event.Event) (any, error) {
		v := ev.GetParameter(name)
		if v == nil {
			return nil, fmt.Errorf("no parameter %q", name)
		}
		return v, nil
	}
}

// ScoreConverter maps leaves to "i" statements.
type ScoreConverter struct {
	// fields[i] fills p-field i+1. A nil entry at p2 writes the absolute
	// start time.
	fields    []PField
	Annotated bool
}

// NewScoreConverter merges fields (keyed "p1", "p2", ...) into the
// defaults: p1 is instrument 1, p2 the absolute start time and p3 the
// duration. Missing p-fields in between are set to 0.
func NewScoreConverter(fields map[string]PField) (*ScoreConverter, error) {
	merged := map[int]PField{1: Instrument(1), 2: nil, 3: Duration}
	for name, fn := range fields {
		n, err := pfieldNumber(name)
		if err != nil {
			return nil, err
		}
		if fn == nil && n != 2 {
			return nil, fmt.Errorf("%w: only p2 may be empty, got %s", ErrInvalidPField, name)
		}
		merged[n] = fn
	}

	numbers := make([]int, 0, len(merged))
	for n := range merged {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	var out []PField
	for i, n := range numbers {
		prev := 0
		if i > 0 {
			prev = numbers[i-1]
		}
		if gap := n - prev - 1; gap > 0 {
			debug.Warn("csound", "no mapping for p-fields between p%d and p%d, assigned them to 0", prev, n)
			for range gap {
				out = append(out, func(event.Event) (any, error) { return 0, nil })
			}
		}
		out = append(out, merged[n])
	}
	return &ScoreConverter{fields: out, Annotated: true}, nil
}

func pfieldNumber(name string) (int, error) {
	if !strings.HasPrefix(name, "p") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPField, name)
	}
	n, err := strconv.Atoi(name[1:])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPField, name)
	}
	return n, nil
}

// NPFields returns how many p-fields every line has.
func (c *ScoreConverter) NPFields() int { return len(c.fields) }

// Lines renders ev to score lines.
func (c *ScoreConverter) Lines(ev event.Event) ([]string, error) {
	return c.lines(ev, 0)
}

func (c *ScoreConverter) lines(ev event.Event, delay float64) ([]string, error) {
	switch e := ev.(type) {
	case *event.SequentialEvent:
		out := c.open(SequentialAnnotation)
		for i, start := range e.AbsoluteTimes() {
			lines, err := c.lines(e.Child(i), delay+start)
			if err != nil {
				return nil, err
			}
			out = append(out, lines...)
		}
		return c.close(out), nil
	case *event.SimultaneousEvent:
		out := c.open(SimultaneousAnnotation)
		for _, child := range e.Children() {
			lines, err := c.lines(child, delay)
			if err != nil {
				return nil, err
			}
			out = append(out, lines...)
		}
		return c.close(out), nil
	case event.ComplexEvent, nil:
		return nil, fmt.Errorf("%w: %T", event.ErrInvalidEventType, ev)
	default:
		if line, ok := c.statement(ev, delay); ok {
			return []string{line}, nil
		}
		return nil, nil
	}
}

func (c *ScoreConverter) open(annotation string) []string {
	if !c.Annotated {
		return nil
	}
	return []string{annotation}
}

func (c *ScoreConverter) close(lines []string) []string {
	if !c.Annotated {
		return lines
	}
	for range EmptyLinesAfterBlock {
		lines = append(lines, "")
	}
	return lines
}

func (c *ScoreConverter) statement(ev event.Event, start float64) (string, bool) {
	if ev.Duration() <= 0 {
		return "", false
	}
	var b strings.Builder
	b.WriteString("i")
	for i, fn := range c.fields {
		if i == 1 && fn == nil {
			b.WriteString(" " + formatNumber(start))
			continue
		}
		v, err := fn(ev)
		if err != nil {
			return "", false
		}
		s, ok := formatValue(v)
		if !ok {
			debug.WarnEvery(warnEvery, "csound", "can't assign %v (%T) to p-field %d, ignored it", v, v, i+1)
			continue
		}
		b.WriteString(" " + s)
	}
	return b.String(), true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatValue(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x), true
	case float64:
		return formatNumber(x), true
	case float32:
		return formatNumber(float64(x)), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint8:
		return strconv.Itoa(int(x)), true
	case interface{ Frequency() float64 }:
		return formatNumber(x.Frequency()), true
	default:
		return "", false
	}
}

// Render returns the complete score text.
func (c *ScoreConverter) Render(ev event.Event) (string, error) {
	lines, err := c.Lines(ev)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// Convert writes the score of ev to path.
func (c *ScoreConverter) Convert(ev event.Event, path string) error {
	text, err := c.Render(ev)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0644)
}

// Converter renders sound files with csound.
type Converter struct {
	Orchestra   string
	Score       *ScoreConverter
	Flags       []string
	RemoveScore bool
	Binary      string
	Run         converter.Runner
}

func NewConverter(orchestra string, score *ScoreConverter, flags ...string) *Converter {
	return &Converter{
		Orchestra: orchestra,
		Score:     score,
		Flags:     flags,
		Binary:    "csound",
		Run:       converter.ExecRunner,
	}
}

// Convert writes the score to scorePath and renders it to out.
func (c *Converter) Convert(ctx context.Context, ev event.Event, scorePath, out string) error {
	if err := c.Score.Convert(ev, scorePath); err != nil {
		return err
	}
	args := []string{"-o", out}
	for _, f := range c.Flags {
		args = append(args, strings.Fields(f)...)
	}
	args = append(args, c.Orchestra, scorePath)
	if err := c.Run(ctx, c.Binary, args...); err != nil {
		return fmt.Errorf("render %s: %w", out, err)
	}
	if c.RemoveScore {
		return os.Remove(scorePath)
	}
	return nil
}
