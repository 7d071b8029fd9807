package synth

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-mutwo/event"
	"go-mutwo/music"
)

type call struct {
	block            int
	channel, command int32
	data1            int32
}

type mockSynth struct {
	block int
	calls []call
}

func (m *mockSynth) ProcessMidiMessage(channel, command, data1, data2 int32) {
	m.calls = append(m.calls, call{m.block, channel, command, data1})
}

func (m *mockSynth) Render(left, right []float32) {
	for i := range left {
		left[i] = 0.25
		right[i] = -0.5
	}
	m.block++
}

func newMockRenderer(t *testing.T) (*Renderer, *mockSynth) {
	t.Helper()
	opts := DefaultOptions()
	// one beat at 120 bpm is exactly one block
	opts.SampleRate = 2 * BlockSize
	opts.Program = 40
	r, err := NewRenderer(nil, opts)
	require.NoError(t, err)
	ms := &mockSynth{}
	r.newSynth = func() (Synthesizer, error) { return ms, nil }
	return r, ms
}

func TestRenderDispatchesPerBlock(t *testing.T) {
	r, ms := newMockRenderer(t)
	seq := event.NewSequentialEvent(
		music.MustNoteLike("c4", 1, nil),
		music.MustNoteLike("d4", 1, nil),
	)
	left, right, err := r.Render(seq)
	require.NoError(t, err)
	// two beats plus one second of tail
	assert.Len(t, left, 4*BlockSize)
	assert.Len(t, right, 4*BlockSize)

	var programs, notes []call
	for _, c := range ms.calls {
		switch c.command {
		case 0xC0:
			programs = append(programs, c)
		case 0x80, 0x90:
			notes = append(notes, c)
		}
	}
	assert.Len(t, programs, 16)
	assert.Equal(t, int32(40), programs[0].data1)
	assert.Equal(t, []call{
		{0, 0, 0x90, 60},
		{1, 0, 0x80, 60},
		{1, 1, 0x90, 62},
		{2, 1, 0x80, 62},
	}, notes)
}

func TestRenderPitchBend(t *testing.T) {
	r, ms := newMockRenderer(t)
	_, _, err := r.Render(music.MustNoteLike("7/4", 1, nil))
	require.NoError(t, err)
	var bends []call
	for _, c := range ms.calls {
		if c.command == 0xE0 {
			bends = append(bends, c)
		}
	}
	require.Len(t, bends, 1)
	// -1277 from the neutral 8192 is 6915, low seven bits 3
	assert.Equal(t, int32(6915&0x7F), bends[0].data1)
}

func TestRenderWithoutSoundFont(t *testing.T) {
	r, err := NewRenderer(nil, DefaultOptions())
	require.NoError(t, err)
	_, _, err = r.Render(music.MustNoteLike("c", 1, nil))
	assert.ErrorIs(t, err, ErrNoSoundFont)

	_, err = NewRenderer(nil, Options{Program: 128})
	assert.Error(t, err)
}

func TestNormalizeAndPCM(t *testing.T) {
	left := []float32{0.25, -0.5}
	right := []float32{0.1, 0}
	Normalize(left, right, 1)
	assert.Equal(t, []float32{0.5, -1}, left)
	assert.InDelta(t, 0.2, right[0], 1e-6)

	pcm := PCM([]float32{2}, []float32{-1})
	assert.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(pcm[0:])))
	assert.Equal(t, int16(-32767), int16(binary.LittleEndian.Uint16(pcm[2:])))
}

func TestWriteTo(t *testing.T) {
	r, _ := newMockRenderer(t)
	r.opts.Tail = 0
	var buf bytes.Buffer
	n, err := r.WriteTo(music.MustNoteLike("c", 1, nil), &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(44+4*BlockSize), n)
	data := buf.Bytes()
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, uint32(2*BlockSize), binary.LittleEndian.Uint32(data[24:]))
	assert.Equal(t, uint32(4*BlockSize), binary.LittleEndian.Uint32(data[40:]))
	// right channel is the loudest and normalised to the default peak
	assert.Equal(t, int16(-32439), int16(binary.LittleEndian.Uint16(data[46:])))
	assert.Equal(t, time.Second, DefaultOptions().Tail)
}
