package indicator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayingIndicatorCollection(t *testing.T) {
	c := NewPlayingIndicatorCollection()
	assert.Empty(t, c.Active())
	assert.Len(t, c.All(), 14)

	c.Tremolo.NFlags = 2
	c.Prall.Active = true
	c.Pedal.Type = "sustain"
	assert.Equal(t, []string{"pedal", "prall", "tremolo"}, c.Active())

	ind, ok := c.Get("tremolo")
	require.True(t, ok)
	assert.Equal(t, Tremolo{NFlags: 2}, ind)
	_, ok = c.Get("vibrato")
	assert.False(t, ok)

	cp := c.Copy().(*PlayingIndicatorCollection)
	assert.True(t, cp.Equal(c))
	cp.Tremolo.NFlags = 3
	assert.False(t, cp.Equal(c))
	assert.Equal(t, 2, c.Tremolo.NFlags)
}

func TestImplicitIndicators(t *testing.T) {
	assert.False(t, Ornamentation{Direction: "up"}.IsActive())
	assert.True(t, Ornamentation{Direction: "up", NTimes: 1}.IsActive())
	assert.True(t, Ottava{}.IsActive())
	assert.False(t, MarginMarkup{Content: "Violin"}.IsActive())
	assert.True(t, NewNotationIndicatorCollection().MarginMarkup.Context == "Staff")
	assert.False(t, Markup{Content: "dolce"}.IsActive())
}

func TestNotationIndicatorCollection(t *testing.T) {
	c := NewNotationIndicatorCollection()
	assert.Equal(t, []string{"ottava"}, c.Active())
	c.Clef.Name = "bass"
	c.MarginMarkup.Content = "Violin"
	assert.Equal(t, []string{"clef", "ottava", "margin_markup"}, c.Active())
	assert.False(t, c.Equal(nil))
}

func TestCollectionJSONKeepsDefaults(t *testing.T) {
	c := NewPlayingIndicatorCollection()
	require.NoError(t, json.Unmarshal([]byte(`{"arpeggio":{"direction":"up"}}`), c))
	assert.Equal(t, "up", c.Arpeggio.Direction)
	assert.True(t, c.Pedal.Activity)
	assert.Equal(t, 1, c.Ornamentation.NTimes)
}
