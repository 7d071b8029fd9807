package music

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-mutwo/event"
	"go-mutwo/indicator"
	"go-mutwo/pitch"
	"go-mutwo/volume"
)

func TestParsePitchesFromStrings(t *testing.T) {
	ps, err := ParsePitches("ds5")
	require.NoError(t, err)
	assert.Equal(t, []pitch.Pitch{pitch.MustWesternPitch("ds", 5)}, ps)

	ps, err = ParsePitches("f g2 af")
	require.NoError(t, err)
	assert.Equal(t, []pitch.Pitch{
		pitch.MustWesternPitch("f", 4),
		pitch.MustWesternPitch("g", 2),
		pitch.MustWesternPitch("af", 4),
	}, ps)

	ps, err = ParsePitches("5/3 aqs5")
	require.NoError(t, err)
	assert.Equal(t, []pitch.Pitch{
		pitch.MustJustIntonationPitch("5/3"),
		pitch.MustWesternPitch("aqs", 5),
	}, ps)

	ps, err = ParsePitches("440hz")
	require.NoError(t, err)
	assert.Equal(t, []pitch.Pitch{pitch.DirectPitch(440)}, ps)

	_, err = ParsePitches("x4")
	assert.ErrorIs(t, err, ErrUnknownPitch)
	_, err = ParsePitches(struct{}{})
	assert.ErrorIs(t, err, ErrUnknownPitch)
}

func TestParsePitchesFromOtherValues(t *testing.T) {
	ps, err := ParsePitches(nil)
	require.NoError(t, err)
	assert.Empty(t, ps)

	ps, err = ParsePitches(big.NewRat(3, 2))
	require.NoError(t, err)
	assert.Equal(t, []pitch.Pitch{pitch.MustJustIntonationPitch("3/2")}, ps)

	ps, err = ParsePitches(30)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "fs6", ps[0].(pitch.WesternPitch).Name())

	ps, err = ParsePitches([]any{"c", []string{"e", "g"}, pitch.DirectPitch(100)})
	require.NoError(t, err)
	assert.Len(t, ps, 4)
}

func TestParseVolume(t *testing.T) {
	v, err := ParseVolume(0.5)
	require.NoError(t, err)
	assert.Equal(t, volume.DirectVolume(0.5), v)

	v, err = ParseVolume(-6)
	require.NoError(t, err)
	assert.Equal(t, volume.DecibelVolume(-6), v)

	v, err = ParseVolume("pp")
	require.NoError(t, err)
	assert.Equal(t, volume.MustWesternVolume("pp"), v)

	_, err = ParseVolume("loud")
	assert.ErrorIs(t, err, volume.ErrUnknownDynamic)
	_, err = ParseVolume([]int{1})
	assert.ErrorIs(t, err, ErrUnknownVolume)
}

func TestFormatRoundTrip(t *testing.T) {
	for _, s := range []string{"7/4", "cs3", "250hz"} {
		p, err := ParsePitch(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatPitch(p))
	}
	assert.Equal(t, "mf", FormatVolume(volume.MustWesternVolume("mf")))
	assert.Equal(t, -3.0, FormatVolume(volume.DecibelVolume(-3)))
}

func TestNoteLikeDefaults(t *testing.T) {
	n := MustNoteLike("c", 1, nil)
	assert.Equal(t, volume.MustWesternVolume("mf"), n.Volume)
	assert.Empty(t, n.PlayingIndicators.Active())
	assert.False(t, n.IsRest())
	assert.True(t, NewRest(2).IsRest())

	_, err := NewNoteLike("c", -1, nil)
	assert.ErrorIs(t, err, event.ErrInvalidDuration)
}

func TestNoteLikeEqual(t *testing.T) {
	a := MustNoteLike([]int{30}, 1, 1)
	b := MustNoteLike([]int{100}, 1, 1)
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(a.Copy()))

	c := a.Copy().(*NoteLike)
	c.PlayingIndicators.Tie.Active = true
	assert.False(t, a.Equal(c))
	assert.False(t, a.PlayingIndicators.Tie.Active)

	assert.False(t, a.Equal(event.NewSimpleEvent(1)))
	assert.False(t, event.NewSimpleEvent(1).Equal(a))
}

func TestNoteLikeParameters(t *testing.T) {
	n := MustNoteLike("c", 1, "p")
	assert.Equal(t, 1.0, n.GetParameter("duration"))
	assert.Nil(t, n.GetParameter("unknown"))

	require.NoError(t, n.SetParameter(ParamPitches, "e g", false))
	assert.Len(t, n.Pitches, 2)

	require.NoError(t, n.SetParameter(ParamVolume, event.ParameterFunc(func(old any) any {
		return volume.Decibel(old.(volume.Volume)) - 6
	}), false))
	_, isDecibel := n.Volume.(volume.DecibelVolume)
	assert.True(t, isDecibel)

	playing := indicator.NewPlayingIndicatorCollection()
	playing.Arpeggio.Direction = "up"
	require.NoError(t, n.SetParameter(ParamPlayingIndicators, playing, false))
	assert.Equal(t, []string{"arpeggio"}, n.PlayingIndicators.Active())
	assert.ErrorIs(t, n.SetParameter(ParamNotationIndicators, 3, false), event.ErrInvalidParameter)

	require.NoError(t, n.SetParameter("channel", 2, true))
	assert.Equal(t, 2, n.GetParameter("channel"))

	var seen []any
	n.MutateParameter(ParamPitches, func(v any) { seen = append(seen, v) })
	assert.Len(t, seen, 1)
}

func TestNoteLikeInsideContainers(t *testing.T) {
	seq := event.NewSequentialEvent(
		MustNoteLike("c", 1, nil),
		NewRest(1),
		MustNoteLike("3/2", 2, nil),
	)
	assert.Equal(t, 4.0, seq.Duration())
	vols := seq.GetParameter(ParamVolume).([]any)
	assert.Len(t, vols, 3)

	first, second, err := event.SplitAt(seq.Child(2), 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.5, first.Duration())
	assert.Equal(t, 1.5, second.Duration())
	assert.Len(t, first.(*NoteLike).Pitches, 1)

	require.NoError(t, seq.CutOut(0.5, 3))
	assert.Equal(t, 2.5, seq.Duration())
}
