package ekmelily

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	natural        = Accidental{Name: "", Glyphs: []string{"#xE261"}, DeviationInCents: 0}
	sharp          = Accidental{Name: "s", Glyphs: []string{"#xE262"}, DeviationInCents: 100}
	flat           = Accidental{Name: "f", Glyphs: []string{"#xE260"}, DeviationInCents: -100}
	eighthToneUp   = Accidental{Name: "es", Glyphs: []string{"#xE2C7"}, DeviationInCents: 25}
	eighthToneDown = Accidental{Name: "ef", Glyphs: []string{"#xE2C2"}, DeviationInCents: -25}
)

func TestAlterationHelpers(t *testing.T) {
	assert.Equal(t, "#x0", AlterationCode(0))
	assert.Equal(t, "#xA", AlterationCode(10))
	assert.Equal(t, "#x1F", AlterationCode(31))
	assert.Equal(t, "1/2", AlterationFraction(100).RatString())
	assert.Equal(t, "1/6", AlterationFraction(100.0/3).RatString())
	assert.Equal(t, "0", AlterationFraction(0).RatString())
}

func TestCodes(t *testing.T) {
	c := NewTuningFileConverter([]Accidental{natural, sharp, flat, eighthToneUp, eighthToneDown}, nil)
	for name, want := range map[string]string{"": "#x0", "es": "#x2", "ef": "#x3", "s": "#x4", "f": "#x5"} {
		got, ok := c.Code(name)
		require.True(t, ok)
		assert.Equal(t, want, got, "accidental %q", name)
	}
	_, ok := c.Code("qs")
	assert.False(t, ok)
}

func TestRender(t *testing.T) {
	c := NewTuningFileConverter([]Accidental{natural, sharp, flat, eighthToneUp, eighthToneDown}, nil)
	text := c.Render()

	assert.True(t, strings.HasPrefix(text, "ekmTuning = #'(\n  (-1 0 1 2 5/2 7/2 9/2 11/2)\n  (#x0 . 0)\n  (#x2 . 1/8)\n  (#x4 . 1/2))"))
	assert.Contains(t, text, "ekmLanguages = #'(\n(english . (\n  (c 0 . #x0)\n  (d 1 . #x0)")
	assert.Contains(t, text, "(bs 6 . #x4)")
	assert.Contains(t, text, "(cef 0 . #x3)")
	assert.Contains(t, text, "ekmNotations = #'(\n(default .(\n  (#x0 #xE261)\n  (#x4 #xE262)\n  (#x5 #xE260)\n  (#x2 #xE2C7)\n  (#x3 #xE2C2))))")
	assert.True(t, strings.HasSuffix(text, "\n\n\\include \"ekmel-main.ily\""))
}

func TestRestrictedAccidental(t *testing.T) {
	onlyF := Accidental{Name: "x", Glyphs: []string{"#xE263"}, DeviationInCents: 50, AvailableDiatonicIndices: []int{3}}
	text := NewTuningFileConverter([]Accidental{onlyF}, nil).Render()
	assert.Contains(t, text, "(fx 3 . #x0)")
	assert.NotContains(t, text, "(cx")
}

func TestGlobalScaleStartsAtZero(t *testing.T) {
	scale := DefaultGlobalScale()
	scale[0] = big.NewRat(1, 4)
	text := NewTuningFileConverter([]Accidental{natural}, scale).Render()
	assert.Contains(t, text, "(-1 0 1 2 5/2 7/2 9/2 11/2)")
	assert.Equal(t, "1/4", scale[0].RatString())
}

func TestWesternAccidentals(t *testing.T) {
	acc := WesternAccidentals()
	require.Len(t, acc, 11)
	assert.Equal(t, "ff", acc[0].Name)
	assert.Equal(t, "ss", acc[10].Name)

	path := filepath.Join(t.TempDir(), "western.ily")
	require.NoError(t, NewTuningFileConverter(acc, nil).Convert(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "(cqs 0 . ")
}
