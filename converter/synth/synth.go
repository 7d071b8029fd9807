// Package synth renders events to WAV files with a SoundFont.
//
// The event is first translated to the same channel messages the midi
// file converter writes, so microtonal pitches are played with pitch
// bends on their own channels.
package synth

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	meltysynth "github.com/sinshu/go-meltysynth/meltysynth"

	"go-mutwo/converter/midifile"
	"go-mutwo/debug"
	"go-mutwo/event"
	"go-mutwo/tempo"
)

var ErrNoSoundFont = errors.New("no soundfont loaded")

const (
	DefaultSampleRate = 44100
	// BlockSize is the number of frames rendered between two message
	// dispatches.
	BlockSize   = 1024
	DefaultTail = time.Second
	// DefaultPeak is the level samples are normalised to.
	DefaultPeak = 0.99
)

// Synthesizer is the part of meltysynth.Synthesizer the renderer drives.
type Synthesizer interface {
	ProcessMidiMessage(channel int32, command int32, data1, data2 int32)
	Render(left, right []float32)
}

// Options controls rendering.
type Options struct {
	SampleRate int
	// Program is the General MIDI program set on every channel.
	Program int
	Tail    time.Duration
	// Peak normalises the loudest sample. Zero keeps the synth levels.
	Peak float32
	MIDI midifile.Options
}

func DefaultOptions() Options {
	return Options{
		SampleRate: DefaultSampleRate,
		Tail:       DefaultTail,
		Peak:       DefaultPeak,
		MIDI:       midifile.DefaultOptions(),
	}
}

// Renderer turns events into stereo samples.
type Renderer struct {
	opts      Options
	midi      *midifile.Converter
	soundFont *meltysynth.SoundFont
	// newSynth is replaced in tests.
	newSynth func() (Synthesizer, error)
}

// LoadSoundFont reads an sf2 file.
func LoadSoundFont(path string) (*meltysynth.SoundFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sf, err := meltysynth.NewSoundFont(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read soundfont %s: %w", path, err)
	}
	return sf, nil
}

func NewRenderer(sf *meltysynth.SoundFont, opts Options) (*Renderer, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.Program < 0 || opts.Program > 127 {
		return nil, fmt.Errorf("invalid program %d", opts.Program)
	}
	mc, err := midifile.NewConverter(opts.MIDI)
	if err != nil {
		return nil, err
	}
	r := &Renderer{opts: opts, midi: mc, soundFont: sf}
	r.newSynth = func() (Synthesizer, error) {
		if r.soundFont == nil {
			return nil, ErrNoSoundFont
		}
		settings := meltysynth.NewSynthesizerSettings(int32(r.opts.SampleRate))
		settings.BlockSize = BlockSize
		return meltysynth.NewSynthesizer(r.soundFont, settings)
	}
	return r, nil
}

type frameMessage struct {
	frame int
	msg   gomidi.Message
}

// frames places every message on the sample grid, following the tempo
// envelope.
func (r *Renderer) frames(ev event.Event) ([]frameMessage, int, error) {
	msgs, err := r.midi.Messages(ev)
	if err != nil {
		return nil, 0, err
	}
	tc := tempo.NewConverter(r.midi.Options().Tempo)
	out := make([]frameMessage, len(msgs))
	for i, m := range msgs {
		seconds := tc.Time(r.midi.TicksToBeats(m.Tick))
		out[i] = frameMessage{int(math.Round(seconds * float64(r.opts.SampleRate))), m.Message}
	}
	end := int(math.Round(tc.Time(ev.Duration()) * float64(r.opts.SampleRate)))
	return out, end, nil
}

// Render returns the left and right channel, including the release tail.
func (r *Renderer) Render(ev event.Event) ([]float32, []float32, error) {
	msgs, end, err := r.frames(ev)
	if err != nil {
		return nil, nil, err
	}
	syn, err := r.newSynth()
	if err != nil {
		return nil, nil, err
	}
	for ch := int32(0); ch < 16; ch++ {
		syn.ProcessMidiMessage(ch, 0xC0, int32(r.opts.Program), 0)
	}

	total := end + int(r.opts.Tail.Seconds()*float64(r.opts.SampleRate))
	left := make([]float32, 0, total)
	right := make([]float32, 0, total)
	blockLeft := make([]float32, BlockSize)
	blockRight := make([]float32, BlockSize)
	next := 0
	for pos := 0; pos < total; pos += BlockSize {
		n := min(BlockSize, total-pos)
		for next < len(msgs) && msgs[next].frame < pos+n {
			dispatch(syn, msgs[next].msg)
			next++
		}
		syn.Render(blockLeft, blockRight)
		left = append(left, blockLeft[:n]...)
		right = append(right, blockRight[:n]...)
	}
	debug.Log("synth", "rendered %d frames, %d messages", total, len(msgs))
	return left, right, nil
}

func dispatch(syn Synthesizer, msg gomidi.Message) {
	var ch, key, vel uint8
	var rel int16
	var abs uint16
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		syn.ProcessMidiMessage(int32(ch), 0x90, int32(key), int32(vel))
	case msg.GetNoteOff(&ch, &key, &vel):
		syn.ProcessMidiMessage(int32(ch), 0x80, int32(key), 0)
	case msg.GetPitchBend(&ch, &rel, &abs):
		syn.ProcessMidiMessage(int32(ch), 0xE0, int32(abs&0x7F), int32(abs>>7))
	default:
		b := msg.Bytes()
		if len(b) == 3 && b[0] >= 0x80 && b[0] < 0xF0 {
			syn.ProcessMidiMessage(int32(b[0]&0x0F), int32(b[0]&0xF0), int32(b[1]), int32(b[2]))
		}
	}
}

// Normalize scales both channels so the loudest sample reaches peak.
func Normalize(left, right []float32, peak float32) {
	var loudest float32
	for i := range left {
		loudest = max(loudest, float32(math.Abs(float64(left[i]))), float32(math.Abs(float64(right[i]))))
	}
	if loudest == 0 || peak <= 0 {
		return
	}
	g := peak / loudest
	for i := range left {
		left[i] *= g
		right[i] *= g
	}
}

// PCM interleaves both channels as 16 bit little endian samples.
func PCM(left, right []float32) []byte {
	pcm := make([]byte, len(left)*4)
	for i := range left {
		l := int16(clip(left[i]) * 32767)
		r := int16(clip(right[i]) * 32767)
		binary.LittleEndian.PutUint16(pcm[4*i:], uint16(l))
		binary.LittleEndian.PutUint16(pcm[4*i+2:], uint16(r))
	}
	return pcm
}

func clip(v float32) float32 {
	return min(max(v, -1), 1)
}

// WriteWAV writes a 16 bit stereo RIFF header followed by pcm.
func WriteWAV(w io.Writer, pcm []byte, sampleRate int) (int64, error) {
	dataLen := uint32(len(pcm))
	var header [44]byte
	copy(header[0:], "RIFF")
	binary.LittleEndian.PutUint32(header[4:], 36+dataLen)
	copy(header[8:], "WAVE")
	copy(header[12:], "fmt ")
	binary.LittleEndian.PutUint32(header[16:], 16)
	binary.LittleEndian.PutUint16(header[20:], 1)
	binary.LittleEndian.PutUint16(header[22:], 2)
	binary.LittleEndian.PutUint32(header[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:], uint32(sampleRate*4))
	binary.LittleEndian.PutUint16(header[32:], 4)
	binary.LittleEndian.PutUint16(header[34:], 16)
	copy(header[36:], "data")
	binary.LittleEndian.PutUint32(header[40:], dataLen)

	n, err := w.Write(header[:])
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(pcm)
	return int64(n + m), err
}

// WriteTo renders ev as a WAV stream.
func (r *Renderer) WriteTo(ev event.Event, w io.Writer) (int64, error) {
	left, right, err := r.Render(ev)
	if err != nil {
		return 0, err
	}
	Normalize(left, right, r.opts.Peak)
	return WriteWAV(w, PCM(left, right), r.opts.SampleRate)
}

// Convert renders ev to a WAV file at path.
func (r *Renderer) Convert(ev event.Event, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := r.WriteTo(ev, f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}
