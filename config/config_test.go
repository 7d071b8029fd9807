package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-mutwo/pitch"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)

	cfg := DefaultConfig()
	cfg.MIDI.Channels = []int{0, 1, 2}
	cfg.MIDI.OutputPort = "IAC Driver Bus 1"
	cfg.Render.SoundFont = "/tmp/piano.sf2"
	require.NoError(t, cfg.Save())

	_, err := os.Stat(filepath.Join(dir, "config.json"))
	require.NoError(t, err)

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"tempo":{"bpm":90}}`), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90.0, cfg.Tempo.BPM)
	assert.Equal(t, "csound", cfg.Csound.Binary)

	opts := cfg.MIDIOptions()
	assert.Equal(t, 90.0, opts.Tempo.Points[0].BPM)
	assert.Len(t, opts.Channels, 16)
	assert.Equal(t, 90.0, cfg.SynthOptions().MIDI.Tempo.Points[0].BPM)
}

func TestInvalidFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{`), 0644))
	_, err := Load()
	assert.Error(t, err)
}

func TestApplySetsConcertPitch(t *testing.T) {
	old := pitch.DefaultConcertPitch
	defer func() { pitch.DefaultConcertPitch = old }()

	cfg := DefaultConfig()
	cfg.Pitch.ConcertPitch = 443
	cfg.Apply()
	assert.Equal(t, 443.0, pitch.DefaultConcertPitch)
}
