package widgets

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-mutwo/event"
	"go-mutwo/music"
	"go-mutwo/theme"
)

func rows(grid [][]Cell) []string {
	out := make([]string, len(grid))
	for i, cells := range grid {
		runes := make([]rune, len(cells))
		for j, c := range cells {
			runes[j] = c.Rune
		}
		out[i] = string(runes)
	}
	return out
}

func TestRollNotes(t *testing.T) {
	score := event.NewSimultaneousEvent(
		event.NewSequentialEvent(
			music.MustNoteLike("c4", 1, nil),
			music.NewRest(1),
			music.MustNoteLike("e4", 2, nil),
		),
		event.NewSequentialEvent(music.MustNoteLike("g3 c5", 4, nil)),
	)
	notes, voices, err := RollNotes(score)
	require.NoError(t, err)
	assert.Equal(t, 2, voices)
	require.Len(t, notes, 4)
	assert.Equal(t, 2.0, notes[1].Start)
	assert.Equal(t, 4.0, notes[1].End)
	assert.Equal(t, 1, notes[2].Voice)
	assert.InDelta(t, 55, notes[2].Key, 1e-9)

	lo, hi := KeyRange(notes)
	assert.Equal(t, 55, lo)
	assert.Equal(t, 72, hi)
	lo, hi = KeyRange(nil)
	assert.Equal(t, 60, lo)
	assert.Equal(t, 72, hi)
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, "c4", KeyName(60))
	assert.Equal(t, "fs4", KeyName(66))
	assert.Equal(t, "a0", KeyName(21))
}

func TestPianoRollCells(t *testing.T) {
	seq := event.NewSequentialEvent(
		music.MustNoteLike("c4", 1, nil),
		music.NewRest(1),
		music.MustNoteLike("e4", 2, nil),
	)
	notes, _, err := RollNotes(seq)
	require.NoError(t, err)

	roll := PianoRoll{Notes: notes, Zoom: 0.5, LowKey: 60, Width: 8, Height: 5, Playhead: -1}
	sym := theme.Default().Symbols
	assert.Equal(t, []string{
		"┊·┊·█▬▬▬",
		"┊·┊·┊·┊·",
		"┊·┊·┊·┊·",
		"┊·┊·┊·┊·",
		"█▬┊·┊·┊·",
	}, rows(roll.Cells(sym)))

	roll.Playhead = 1.2
	roll.Start = 1
	grid := roll.Cells(sym)
	assert.Equal(t, "│·█▬▬▬┊·", rows(grid)[0])
	assert.Equal(t, "│·┊·┊·┊·", rows(grid)[4])
	assert.True(t, grid[4][0].Playhead)
	assert.False(t, grid[4][1].Playhead)
}

func TestPianoRollRender(t *testing.T) {
	notes := []RollNote{{Start: 0, End: 1, Key: 60}}
	out := PianoRoll{Notes: notes, Zoom: 1, LowKey: 60, Width: 4, Height: 2, Playhead: -1}.Render(theme.Default(), 1)
	assert.Contains(t, out, "cs4")
	assert.Contains(t, out, "c4")
	assert.Contains(t, out, "█")
}

func TestRenderKeyHelp(t *testing.T) {
	hidden := key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hidden"))
	hidden.SetEnabled(false)
	out := RenderKeyHelp([]KeySection{{
		Title: "Playback",
		Keys: []key.Binding{
			key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play/stop")),
			hidden,
		},
	}})
	assert.Equal(t, "Playback\n  p            play/stop", out)
}
