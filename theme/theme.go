package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Piano roll cells
	NoteStart rune // █ first cell of a note
	NoteHold  rune // ▬ note continues
	Empty     rune // · nothing sounds
	Beat      rune // ┊ empty cell on a beat
	Playhead  rune // │ playback position

	// Status line
	Playing rune // ▶
	Stopped rune // ■
	Port    rune // ◉ connected output
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			NoteStart: '█',
			NoteHold:  '▬',
			Empty:     '·',
			Beat:      '┊',
			Playhead:  '│',

			Playing: '▶',
			Stopped: '■',
			Port:    '◉',
		},
	}
}

// Default uses the embedded palette.
func Default() *Theme {
	return New(DefaultPalette())
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleCursor  = 0.6 // rose pink
	RoleWarning = 0.8 // orange
	RoleSuccess = 1.0 // pale yellow

	// voices are spread over this range
	RoleVoiceLow  = 0.3
	RoleVoiceHigh = 0.9
)

func (t *Theme) BG() lipgloss.Color      { return t.Color(RoleBG) }
func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) Cursor() lipgloss.Color  { return t.Color(RoleCursor) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return lipgloss.Color(t.Palette.Lookup(norm).Hex())
}

// VoiceColors gives every voice of a score its own color.
func (t *Theme) VoiceColors(n int) []lipgloss.Color {
	rgb := t.Palette.Spread(n, RoleVoiceLow, RoleVoiceHigh)
	out := make([]lipgloss.Color, n)
	for i, c := range rgb {
		out[i] = lipgloss.Color(c.Hex())
	}
	return out
}
