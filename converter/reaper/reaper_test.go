package reaper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-mutwo/event"
	"go-mutwo/tempo"
)

func named(duration float64, name string, color any) *event.SimpleEvent {
	e := event.NewSimpleEvent(duration)
	if name != "" {
		_ = e.SetParameter(ParamName, name, true)
	}
	if color != nil {
		_ = e.SetParameter(ParamColor, color, true)
	}
	return e
}

func TestLines(t *testing.T) {
	seq := event.NewSequentialEvent(
		named(2, "intro", 4),
		named(1, "", nil),
		named(1, "b part", nil),
	)
	lines, err := NewMarkerConverter().Lines(seq)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"MARKER 1 0 intro 4",
		`MARKER 2 1.5 "b part" 0`,
	}, lines)
}

func TestMarkersSortedAcrossVoices(t *testing.T) {
	c := NewMarkerConverter()
	c.Tempo = tempo.ConstantTempo(60)
	sim := event.NewSimultaneousEvent(
		event.NewSequentialEvent(named(3, "", nil), named(1, "late", "#ff0000")),
		event.NewSequentialEvent(named(1, "", nil), named(1, "early", nil)),
	)
	lines, err := c.Lines(sim)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"MARKER 1 1 early 0",
		"MARKER 2 3 late #ff0000",
	}, lines)
}

func TestConvert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.txt")
	require.NoError(t, NewMarkerConverter().Convert(named(1, "a", nil), path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "MARKER 1 0 a 0\n", string(data))

	text, err := NewMarkerConverter().Render(event.NewSimpleEvent(1))
	require.NoError(t, err)
	assert.Empty(t, text)
}
