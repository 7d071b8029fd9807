package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go-mutwo/converter/midifile"
	"go-mutwo/converter/synth"
	"go-mutwo/pitch"
	"go-mutwo/tempo"
)

// EnvConfigDir overrides the config directory.
const EnvConfigDir = "GO_MUTWO_CONFIG_DIR"

// MIDIConfig defines midi file output and live playback
type MIDIConfig struct {
	TicksPerBeat          int     `json:"ticksPerBeat,omitempty"`
	MaxPitchBendDeviation float64 `json:"maxPitchBendDeviation,omitempty"`
	Channels              []int   `json:"channels,omitempty"`
	OutputPort            string  `json:"outputPort,omitempty"`
	InstrumentName        string  `json:"instrumentName,omitempty"`
}

type TempoConfig struct {
	BPM float64 `json:"bpm,omitempty"`
}

type PitchConfig struct {
	ConcertPitch float64 `json:"concertPitch,omitempty"`
}

// CsoundConfig defines how csound is called
type CsoundConfig struct {
	Binary      string   `json:"binary,omitempty"`
	Orchestra   string   `json:"orchestra,omitempty"`
	Flags       []string `json:"flags,omitempty"`
	RemoveScore bool     `json:"removeScore,omitempty"`
}

type IsisConfig struct {
	Binary string   `json:"binary,omitempty"`
	Flags  []string `json:"flags,omitempty"`
}

// RenderConfig defines SoundFont rendering
type RenderConfig struct {
	SoundFont  string `json:"soundFont,omitempty"`
	SampleRate int    `json:"sampleRate,omitempty"`
	Program    int    `json:"program,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette string `json:"palette,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	MIDI   MIDIConfig   `json:"midi,omitempty"`
	Tempo  TempoConfig  `json:"tempo,omitempty"`
	Pitch  PitchConfig  `json:"pitch,omitempty"`
	Csound CsoundConfig `json:"csound,omitempty"`
	Isis   IsisConfig   `json:"isis,omitempty"`
	Render RenderConfig `json:"render,omitempty"`
	UI     UIConfig     `json:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MIDI: MIDIConfig{
			TicksPerBeat:          midifile.DefaultTicksPerBeat,
			MaxPitchBendDeviation: midifile.DefaultMaxPitchBendDeviation,
			InstrumentName:        midifile.DefaultInstrumentName,
		},
		Tempo:  TempoConfig{BPM: tempo.DefaultBPM},
		Pitch:  PitchConfig{ConcertPitch: 440},
		Csound: CsoundConfig{Binary: "csound", RemoveScore: true},
		Isis:   IsisConfig{Binary: "isis.sh"},
		Render: RenderConfig{SampleRate: synth.DefaultSampleRate},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-mutwo"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
// Values missing from the file keep their defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Apply sets package level defaults that depend on the config.
func (c *Config) Apply() {
	if c.Pitch.ConcertPitch > 0 {
		pitch.DefaultConcertPitch = c.Pitch.ConcertPitch
	}
}

// TempoEnvelope is a constant tempo at the configured BPM.
func (c *Config) TempoEnvelope() tempo.TempoEnvelope {
	if c.Tempo.BPM <= 0 {
		return tempo.DefaultTempoEnvelope()
	}
	return tempo.ConstantTempo(c.Tempo.BPM)
}

// MIDIOptions returns midi file options with the configured values.
func (c *Config) MIDIOptions() midifile.Options {
	opts := midifile.DefaultOptions()
	if c.MIDI.TicksPerBeat > 0 {
		opts.TicksPerBeat = c.MIDI.TicksPerBeat
	}
	if c.MIDI.MaxPitchBendDeviation > 0 {
		opts.MaxPitchBendDeviation = c.MIDI.MaxPitchBendDeviation
	}
	if len(c.MIDI.Channels) > 0 {
		opts.Channels = c.MIDI.Channels
	}
	if c.MIDI.InstrumentName != "" {
		opts.InstrumentName = c.MIDI.InstrumentName
	}
	opts.Tempo = c.TempoEnvelope()
	return opts
}

// SynthOptions returns render options with the configured values.
func (c *Config) SynthOptions() synth.Options {
	opts := synth.DefaultOptions()
	if c.Render.SampleRate > 0 {
		opts.SampleRate = c.Render.SampleRate
	}
	opts.Program = c.Render.Program
	opts.MIDI = c.MIDIOptions()
	return opts
}
