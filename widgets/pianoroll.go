package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-mutwo/converter"
	"go-mutwo/converter/midifile"
	"go-mutwo/event"
	"go-mutwo/pitch"
	"go-mutwo/theme"
)

// RollNote is one sounding pitch on the roll, in beats.
type RollNote struct {
	Start, End float64
	Key        float64 // fractional midi note
	Voice      int
}

// RollNotes collects the notes of ev. Every child of a simultaneous
// event is a voice of its own.
func RollNotes(ev event.Event) ([]RollNote, int, error) {
	voices := []event.Event{ev}
	if sim, ok := ev.(*event.SimultaneousEvent); ok {
		voices = sim.Children()
	}
	var notes []RollNote
	for v, voice := range voices {
		err := converter.Walk(voice, 0, func(leaf event.Event, start float64) error {
			pitches, err := midifile.NotePitches(leaf)
			if err != nil {
				return nil
			}
			for _, p := range pitches {
				notes = append(notes, RollNote{
					Start: start,
					End:   start + leaf.Duration(),
					Key:   pitch.MidiPitchNumber(p),
					Voice: v,
				})
			}
			return nil
		})
		if err != nil {
			return nil, 0, fmt.Errorf("voice %d: %w", v, err)
		}
	}
	return notes, len(voices), nil
}

// KeyRange returns the lowest and highest rounded key of notes.
func KeyRange(notes []RollNote) (lo, hi int) {
	if len(notes) == 0 {
		return 60, 72
	}
	lo, hi = 127, 0
	for _, n := range notes {
		k := int(math.Round(n.Key))
		lo = min(lo, k)
		hi = max(hi, k)
	}
	return lo, hi
}

var keyNames = [12]string{"c", "cs", "d", "ef", "e", "f", "fs", "g", "af", "a", "bf", "b"}

// KeyName names a midi key, e.g. 60 is c4.
func KeyName(key int) string {
	return fmt.Sprintf("%s%d", keyNames[((key%12)+12)%12], key/12-1)
}

// Cell is one character of the roll. Voice is -1 for empty cells.
type Cell struct {
	Rune     rune
	Voice    int
	Playhead bool
}

// PianoRoll is the visible window of a score.
type PianoRoll struct {
	Notes []RollNote
	// Start is the first visible beat, Zoom the beats per column.
	Start float64
	Zoom  float64
	// LowKey is the bottom row.
	LowKey        int
	Width, Height int
	// Playhead is hidden when negative.
	Playhead float64
}

func (r PianoRoll) cellAt(beat float64) int {
	return int(math.Floor((beat - r.Start) / r.Zoom))
}

// Cells lays the notes out, top row first.
func (r PianoRoll) Cells(sym theme.Symbols) [][]Cell {
	grid := make([][]Cell, r.Height)
	for row := range grid {
		grid[row] = make([]Cell, r.Width)
		for col := range grid[row] {
			c := Cell{Rune: sym.Empty, Voice: -1}
			from := r.Start + float64(col)*r.Zoom
			if math.Ceil(from) < from+r.Zoom {
				c.Rune = sym.Beat
			}
			grid[row][col] = c
		}
	}
	if r.Zoom <= 0 {
		return grid
	}

	for _, n := range r.Notes {
		row := r.LowKey + r.Height - 1 - int(math.Round(n.Key))
		if row < 0 || row >= r.Height {
			continue
		}
		first := r.cellAt(n.Start)
		// a note ending on a cell border doesn't reach into it
		last := int(math.Ceil((n.End-r.Start)/r.Zoom)) - 1
		last = max(last, first)
		for col := max(first, 0); col <= min(last, r.Width-1); col++ {
			ch := sym.NoteHold
			if col == first {
				ch = sym.NoteStart
			}
			grid[row][col] = Cell{Rune: ch, Voice: n.Voice}
		}
	}

	if r.Playhead >= 0 {
		if col := r.cellAt(r.Playhead); col >= 0 && col < r.Width {
			for row := range grid {
				grid[row][col].Playhead = true
				if grid[row][col].Voice < 0 {
					grid[row][col].Rune = sym.Playhead
				}
			}
		}
	}
	return grid
}

// Render draws the roll with key names on the left.
func (r PianoRoll) Render(th *theme.Theme, voices int) string {
	colors := th.VoiceColors(max(voices, 1))
	empty := lipgloss.NewStyle().Foreground(th.Muted())
	head := lipgloss.NewStyle().Foreground(th.Cursor())
	label := lipgloss.NewStyle().Foreground(th.FG()).Width(5)

	var lines []string
	for row, cells := range r.Cells(th.Symbols) {
		var line strings.Builder
		line.WriteString(label.Render(KeyName(r.LowKey + r.Height - 1 - row)))
		for _, c := range cells {
			style := empty
			switch {
			case c.Voice >= 0:
				style = lipgloss.NewStyle().Foreground(colors[c.Voice%len(colors)])
				if c.Playhead {
					style = style.Bold(true)
				}
			case c.Playhead:
				style = head
			}
			line.WriteString(style.Render(string(c.Rune)))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
