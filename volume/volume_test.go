package volume

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecibelConversions(t *testing.T) {
	assert.Equal(t, 1.0, DecibelToAmplitudeRatio(0, 1))
	assert.InDelta(t, 0.5011872336272722, DecibelToAmplitudeRatio(-6, 1), 1e-12)
	assert.Equal(t, 0.25, DecibelToAmplitudeRatio(0, 0.25))
	assert.InDelta(t, 0.251188643150958, DecibelToPowerRatio(-6, 1), 1e-12)

	assert.Equal(t, 0.0, AmplitudeRatioToDecibel(1, 1))
	assert.True(t, math.IsInf(AmplitudeRatioToDecibel(0, 1), -1))
	assert.InDelta(t, -6.020599913279624, AmplitudeRatioToDecibel(0.5, 1), 1e-12)
	assert.InDelta(t, -3.010299956639812, PowerRatioToDecibel(0.5, 1), 1e-12)
}

func TestMidiVelocity(t *testing.T) {
	assert.Equal(t, 127, AmplitudeToMidiVelocity(1))
	assert.Equal(t, 0, AmplitudeToMidiVelocity(0))
	assert.Equal(t, 127, AmplitudeToMidiVelocity(3))
	assert.Equal(t, 0, AmplitudeToMidiVelocity(-1))
	assert.Equal(t, 64, MidiVelocity(DirectVolume(0.5)))
}

func TestWesternVolume(t *testing.T) {
	assert.Equal(t, -60.0, MustWesternVolume("ppppp").Decibel())
	assert.Equal(t, 0.0, MustWesternVolume("fffff").Decibel())
	assert.Equal(t, 1.0, MustWesternVolume("fffff").Amplitude())
	assert.Equal(t, 127, MidiVelocity(MustWesternVolume("fffff")))
	assert.Equal(t, 1, MidiVelocity(MustWesternVolume("ppppp")))
	assert.Equal(t, 70, MidiVelocity(MustWesternVolume("mf")))

	assert.True(t, Less(MustWesternVolume("p"), MustWesternVolume("f")))

	_, err := NewWesternVolume("loud")
	require.ErrorIs(t, err, ErrUnknownDynamic)
}

func TestDecibelVolume(t *testing.T) {
	assert.InDelta(t, 0.5011872336272722, DecibelVolume(-6).Amplitude(), 1e-12)
	assert.InDelta(t, -6, Decibel(DecibelVolume(-6)), 1e-9)
	assert.True(t, Equal(DirectVolume(1), DecibelVolume(0)))
	assert.False(t, Equal(nil, DirectVolume(1)))
}
