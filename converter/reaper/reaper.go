// Package reaper writes marker lists that can be pasted into a Reaper
// project file.
package reaper

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"go-mutwo/converter"
	"go-mutwo/event"
	"go-mutwo/tempo"
)

const (
	ParamName  = "name"
	ParamColor = "color"
)

type marker struct {
	seconds float64
	name    string
	color   string
}

// MarkerConverter turns every leaf with a name parameter into a marker.
// Leaves without a name are skipped. Times are converted to seconds with
// Tempo.
type MarkerConverter struct {
	Tempo tempo.TempoEnvelope
}

func NewMarkerConverter() *MarkerConverter {
	return &MarkerConverter{Tempo: tempo.DefaultTempoEnvelope()}
}

func (c *MarkerConverter) markers(ev event.Event) ([]marker, error) {
	tc := tempo.NewConverter(c.Tempo)
	var out []marker
	err := converter.Walk(ev, 0, func(leaf event.Event, start float64) error {
		name, ok := leaf.GetParameter(ParamName).(string)
		if !ok || name == "" {
			return nil
		}
		color := "0"
		switch v := leaf.GetParameter(ParamColor).(type) {
		case string:
			color = v
		case int:
			color = strconv.Itoa(v)
		}
		out = append(out, marker{seconds: tc.Time(start), name: name, color: color})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].seconds < out[j].seconds })
	return out, nil
}

// Lines returns one MARKER line per marker, numbered from 1.
func (c *MarkerConverter) Lines(ev event.Event) ([]string, error) {
	markers, err := c.markers(ev)
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(markers))
	for i, m := range markers {
		name := m.name
		if strings.ContainsAny(name, " \t") {
			name = strconv.Quote(name)
		}
		lines[i] = fmt.Sprintf("MARKER %d %s %s %s", i+1, strconv.FormatFloat(m.seconds, 'f', -1, 64), name, m.color)
	}
	return lines, nil
}

func (c *MarkerConverter) Render(ev event.Event) (string, error) {
	lines, err := c.Lines(ev)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// Convert writes the marker list to path.
func (c *MarkerConverter) Convert(ev event.Event, path string) error {
	text, err := c.Render(ev)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0644)
}
