package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, "plasma", p.Name)
	require.Len(t, p.Colors, 9)
	assert.Equal(t, RGB{13, 8, 135}, p.Colors[0])
	assert.Equal(t, "#0d0887", p.Lookup(-1).Hex())
	assert.Equal(t, RGB{250, 250, 210}, p.Lookup(2))
}

func TestParseGPL(t *testing.T) {
	src := `GIMP Palette
Name: two
Columns: 2
# comment
0 0 0 black
200 100 300 out of range
255 255 255
`
	p, err := ParseGPL(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []RGB{{0, 0, 0}, {255, 255, 255}}, p.Colors)
	assert.Equal(t, RGB{127, 127, 127}, p.Lookup(0.5))

	_, err = ParseGPL(strings.NewReader("GIMP Palette\n"))
	assert.Error(t, err)
}

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.gpl")
	require.NoError(t, os.WriteFile(path, []byte("GIMP Palette\n10 20 30\n"), 0644))
	p, err := LoadGPL(path)
	require.NoError(t, err)
	assert.Equal(t, RGB{10, 20, 30}, p.Lookup(0.7), "single color palettes don't interpolate")

	p, err = LoadGPL("")
	require.NoError(t, err)
	assert.Equal(t, "plasma", p.Name)

	_, err = LoadGPL(filepath.Join(t.TempDir(), "missing.gpl"))
	assert.Error(t, err)
}

func TestVoiceColors(t *testing.T) {
	th := Default()
	colors := th.VoiceColors(3)
	require.Len(t, colors, 3)
	assert.Equal(t, th.Color(RoleVoiceLow), colors[0])
	assert.Equal(t, th.Color(RoleVoiceHigh), colors[2])
	assert.Equal(t, []lipgloss.Color{th.Color(RoleVoiceLow)}, th.VoiceColors(1))
}
