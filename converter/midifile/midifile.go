// Package midifile renders events to Standard MIDI Files.
//
// The deepest supported shape is a SimultaneousEvent (the file) of
// SequentialEvents (the tracks) of notes. A single SequentialEvent becomes
// one track, a single leaf becomes one note.
package midifile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-mutwo/converter"
	"go-mutwo/debug"
	"go-mutwo/event"
	"go-mutwo/music"
	"go-mutwo/pitch"
	"go-mutwo/tempo"
	"go-mutwo/tools"
	"go-mutwo/volume"
)

var (
	ErrInvalidFileType = errors.New("only midi file type 0 and 1 are supported")
	ErrInvalidChannel  = errors.New("invalid midi channel")
	// ErrNotExtractable makes an extraction function turn an event into a
	// rest.
	ErrNotExtractable = errors.New("parameter not available")
)

const (
	DefaultTicksPerBeat          = 480
	DefaultMaxPitchBendDeviation = 200.0
	DefaultInstrumentName        = "Acoustic Grand Piano"

	MaxPitchBend     = 16383
	NeutralPitchBend = 8192
	// MaxMicrosecondsPerBeat is the slowest tempo a SMF can hold (~3.58 BPM).
	MaxMicrosecondsPerBeat = 0xFFFFFF

	// per-note warnings are logged once and then every warnEvery times
	warnEvery = 100
)

// Options controls how events are translated.
type Options struct {
	// Pitches, Volume and ControlMessages extract data from a leaf. If
	// any of them fails the leaf is a rest.
	Pitches         func(ev event.Event) ([]pitch.Pitch, error)
	Volume          func(ev event.Event) (volume.Volume, error)
	ControlMessages func(ev event.Event) ([]gomidi.Message, error)

	FileType int
	Channels []int
	// DistributeChannels gives every track its own ChannelsPerTrack
	// channels, cycling through Channels. Otherwise every track may use
	// all channels.
	DistributeChannels    bool
	ChannelsPerTrack      int
	MaxPitchBendDeviation float64
	TicksPerBeat          int
	InstrumentName        string
	Tempo                 tempo.TempoEnvelope
}

// DefaultOptions reads pitches and volume of music notes, uses all 16
// channels and writes a type 1 file at 120 BPM.
func DefaultOptions() Options {
	channels := make([]int, 16)
	for i := range channels {
		channels[i] = i
	}
	return Options{
		Pitches:               NotePitches,
		Volume:                NoteVolume,
		ControlMessages:       NoControlMessages,
		FileType:              1,
		Channels:              channels,
		ChannelsPerTrack:      1,
		MaxPitchBendDeviation: DefaultMaxPitchBendDeviation,
		TicksPerBeat:          DefaultTicksPerBeat,
		InstrumentName:        DefaultInstrumentName,
		Tempo:                 tempo.DefaultTempoEnvelope(),
	}
}

// Validate checks the values a readable midi file depends on.
func (o Options) Validate() error {
	if o.FileType != 0 && o.FileType != 1 {
		return fmt.Errorf("%w: %d", ErrInvalidFileType, o.FileType)
	}
	if len(o.Channels) == 0 {
		return fmt.Errorf("%w: no channels available", ErrInvalidChannel)
	}
	seen := make(map[int]bool, len(o.Channels))
	for _, ch := range o.Channels {
		if ch < 0 || ch > 15 {
			return fmt.Errorf("%w: %d (allowed are 0..15)", ErrInvalidChannel, ch)
		}
		if seen[ch] {
			return fmt.Errorf("%w: duplicate %d", ErrInvalidChannel, ch)
		}
		seen[ch] = true
	}
	if o.ChannelsPerTrack < 1 {
		return fmt.Errorf("%w: %d channels per track", ErrInvalidChannel, o.ChannelsPerTrack)
	}
	if o.TicksPerBeat < 1 || o.TicksPerBeat > 0x7FFF {
		return fmt.Errorf("invalid ticks per beat %d", o.TicksPerBeat)
	}
	if o.MaxPitchBendDeviation <= 0 {
		return fmt.Errorf("invalid pitch bend deviation %g", o.MaxPitchBendDeviation)
	}
	return nil
}

// NotePitches reads the pitch_or_pitches parameter.
func NotePitches(ev event.Event) ([]pitch.Pitch, error) {
	if n, ok := ev.(*music.NoteLike); ok {
		return n.Pitches, nil
	}
	if ps, ok := ev.GetParameter(music.ParamPitches).([]pitch.Pitch); ok {
		return ps, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotExtractable, music.ParamPitches)
}

// NoteVolume reads the volume parameter.
func NoteVolume(ev event.Event) (volume.Volume, error) {
	if v, ok := ev.GetParameter(music.ParamVolume).(volume.Volume); ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotExtractable, music.ParamVolume)
}

func NoControlMessages(event.Event) ([]gomidi.Message, error) { return nil, nil }

// Converter renders events with fixed Options.
type Converter struct {
	opts Options
}

// NewConverter fills missing extraction functions with the defaults and
// validates opts.
func NewConverter(opts Options) (*Converter, error) {
	if opts.Pitches == nil {
		opts.Pitches = NotePitches
	}
	if opts.Volume == nil {
		opts.Volume = NoteVolume
	}
	if opts.ControlMessages == nil {
		opts.ControlMessages = NoControlMessages
	}
	if len(opts.Tempo.Points) == 0 {
		opts.Tempo = tempo.DefaultTempoEnvelope()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Converter{opts: opts}, nil
}

func (c *Converter) Options() Options { return c.opts }

// timed is a message at an absolute tick.
type timed struct {
	tick int
	msg  []byte
}

// Build renders ev into an in-memory SMF.
func (c *Converter) Build(ev event.Event) (*smf.SMF, error) {
	tracks, err := splitTracks(ev)
	if err != nil {
		return nil, err
	}
	channels := c.channelsPerTrack(len(tracks))
	perTrack := make([][]timed, len(tracks))
	for i, track := range tracks {
		msgs, err := c.trackMessages(track, channels[i])
		if err != nil {
			return nil, err
		}
		perTrack[i] = msgs
	}

	duration := 0.0
	for _, track := range tracks {
		duration = max(duration, track.Duration())
	}

	var s *smf.SMF
	if c.opts.FileType == 0 {
		s = smf.New()
		var all []timed
		for _, msgs := range perTrack {
			all = append(all, msgs...)
		}
		perTrack = [][]timed{all}
	} else {
		s = smf.NewSMF1()
	}
	s.TimeFormat = smf.MetricTicks(c.opts.TicksPerBeat)

	for i, msgs := range perTrack {
		if err := s.Add(c.buildTrack(msgs, duration, i == 0)); err != nil {
			return nil, fmt.Errorf("add track %d: %w", i, err)
		}
	}
	debug.Log("midifile", "built type %d file with %d tracks, %g beats", c.opts.FileType, len(perTrack), duration)
	return s, nil
}

// Convert renders ev to the file at path.
func (c *Converter) Convert(ev event.Event, path string) error {
	s, err := c.Build(ev)
	if err != nil {
		return err
	}
	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteTo renders ev to w.
func (c *Converter) WriteTo(ev event.Event, w io.Writer) (int64, error) {
	s, err := c.Build(ev)
	if err != nil {
		return 0, err
	}
	return s.WriteTo(w)
}

// Timed is a channel message at an absolute tick.
type Timed struct {
	Tick    int
	Message gomidi.Message
}

// Messages returns the channel messages of every track merged in time
// order, for players that send them live. Note offs come first at equal
// ticks so a repeated key is struck again.
func (c *Converter) Messages(ev event.Event) ([]Timed, error) {
	tracks, err := splitTracks(ev)
	if err != nil {
		return nil, err
	}
	channels := c.channelsPerTrack(len(tracks))
	var out []Timed
	for i, track := range tracks {
		msgs, err := c.trackMessages(track, channels[i])
		if err != nil {
			return nil, err
		}
		for _, m := range msgs {
			out = append(out, Timed{Tick: m.tick, Message: gomidi.Message(m.msg)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tick != out[j].Tick {
			return out[i].Tick < out[j].Tick
		}
		return isNoteOff(out[i].Message) && !isNoteOff(out[j].Message)
	})
	return out, nil
}

func isNoteOff(m gomidi.Message) bool {
	var ch, key, vel uint8
	return m.GetNoteOff(&ch, &key, &vel)
}

// TicksToBeats is the inverse of the tick grid used for all messages.
func (c *Converter) TicksToBeats(ticks int) float64 {
	return float64(ticks) / float64(c.opts.TicksPerBeat)
}

func splitTracks(ev event.Event) ([]*event.SequentialEvent, error) {
	switch e := ev.(type) {
	case *event.SimultaneousEvent:
		tracks := make([]*event.SequentialEvent, e.Len())
		for i, child := range e.Children() {
			seq, ok := child.(*event.SequentialEvent)
			if !ok {
				return nil, fmt.Errorf("%w: track %d is %T, want *event.SequentialEvent", event.ErrInvalidEventType, i, child)
			}
			tracks[i] = seq
		}
		return tracks, nil
	case *event.SequentialEvent:
		return []*event.SequentialEvent{e}, nil
	case event.ComplexEvent, nil:
		return nil, fmt.Errorf("%w: can't convert %T to a midi file", event.ErrInvalidEventType, ev)
	default:
		return []*event.SequentialEvent{event.NewSequentialEvent(ev)}, nil
	}
}

func (c *Converter) channelsPerTrack(n int) [][]int {
	out := make([][]int, n)
	if !c.opts.DistributeChannels {
		for i := range out {
			out[i] = c.opts.Channels
		}
		return out
	}
	next := 0
	for i := range out {
		out[i] = make([]int, c.opts.ChannelsPerTrack)
		for j := range out[i] {
			out[i][j] = c.opts.Channels[next%len(c.opts.Channels)]
			next++
		}
	}
	return out
}

func (c *Converter) beatsToTicks(beats float64) int {
	return int(float64(c.opts.TicksPerBeat) * beats)
}

func (c *Converter) trackMessages(track *event.SequentialEvent, channels []int) ([]timed, error) {
	var out []timed
	next := 0
	err := converter.Walk(track, 0, func(leaf event.Event, start float64) error {
		pitches, err := c.opts.Pitches(leaf)
		if err != nil {
			return nil
		}
		vol, err := c.opts.Volume(leaf)
		if err != nil {
			return nil
		}
		controls, err := c.opts.ControlMessages(leaf)
		if err != nil {
			return nil
		}

		startTick := c.beatsToTicks(start)
		endTick := startTick + c.beatsToTicks(leaf.Duration())
		velocity := uint8(volume.MidiVelocity(vol))
		for _, m := range controls {
			out = append(out, timed{startTick, m})
		}
		for _, p := range pitches {
			ch := uint8(channels[next%len(channels)])
			next++
			key, bend := c.tune(p)
			bendTick := startTick
			if bendTick != 0 {
				bendTick--
			}
			out = append(out,
				timed{bendTick, gomidi.Pitchbend(ch, bend)},
				timed{startTick, gomidi.NoteOn(ch, key, velocity)},
				timed{endTick, gomidi.NoteOffVelocity(ch, key, velocity)},
			)
		}
		return nil
	})
	return out, err
}

func (c *Converter) tune(p pitch.Pitch) (uint8, int16) {
	return Tune(p, c.opts.MaxPitchBendDeviation)
}

// Tune finds the closest midi key and the pitch bend for the remaining
// cents, given the bend range of the receiver in cents.
func Tune(p pitch.Pitch, maxDeviation float64) (uint8, int16) {
	f := p.Frequency()
	key := tools.FindClosestIndex(f, pitch.MidiPitchFrequencies[:])
	cents := pitch.HertzToCents(pitch.MidiPitchFrequencies[key], f)
	return uint8(key), CentsToPitchBend(cents, maxDeviation)
}

// CentsToPitchBend maps cents onto the signed pitch bend range. Values
// beyond maxDeviation are clamped.
func CentsToPitchBend(cents, maxDeviation float64) int16 {
	percent := (cents + maxDeviation) / (2 * maxDeviation)
	if percent > 1 || percent < 0 {
		debug.WarnEvery(warnEvery, "midifile", "maximum pitch bending is %g cents up or down, got %g", maxDeviation, cents)
		percent = min(max(percent, 0), 1)
	}
	return int16(math.RoundToEven(MaxPitchBend*percent)) - NeutralPitchBend
}

// MicrosecondsPerBeat converts a tempo to the SMF tempo unit, clamped to
// the slowest possible tempo.
func MicrosecondsPerBeat(p tempo.TempoPoint) int {
	us := int(p.SecondsPerBeat() * 1e6)
	if us > MaxMicrosecondsPerBeat {
		debug.Warn("midifile", "tempo %g BPM is too slow for midi files, using %g BPM", p.AbsoluteBPM(), 60e6/MaxMicrosecondsPerBeat)
		us = MaxMicrosecondsPerBeat
	}
	return us
}

// tempoMessages writes one set_tempo per tempo change. Points repeating
// the previous tempo are skipped.
func (c *Converter) tempoMessages() []timed {
	env := c.opts.Tempo
	times := env.AbsoluteTimes()
	var out []timed
	last := -1
	for i, p := range env.Points {
		us := MicrosecondsPerBeat(p)
		if us == last {
			continue
		}
		last = us
		out = append(out, timed{c.beatsToTicks(times[i]), smf.MetaTempo(60e6 / float64(us))})
	}
	return out
}

// buildTrack sorts msgs by time and converts them to delta ticks. The
// first track also carries meter and tempo.
func (c *Converter) buildTrack(msgs []timed, duration float64, first bool) smf.Track {
	var track smf.Track
	track.Add(0, smf.MetaInstrument(c.opts.InstrumentName))
	if first {
		track.Add(0, smf.MetaMeter(4, 4))
		msgs = append(c.tempoMessages(), msgs...)
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].tick < msgs[j].tick })

	last := 0
	for _, m := range msgs {
		track.Add(uint32(m.tick-last), m.msg)
		last = m.tick
	}
	track.Close(uint32(max(c.beatsToTicks(duration)-last, 0)))
	return track
}
