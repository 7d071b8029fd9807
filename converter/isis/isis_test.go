package isis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-mutwo/event"
	"go-mutwo/music"
)

func sung(name string, vowel string, consonants ...string) *music.NoteLike {
	n := music.MustNoteLike(name, 0.5, 0.5)
	_ = n.SetParameter("vowel", vowel, true)
	_ = n.SetParameter("consonants", consonants, true)
	return n
}

func TestRender(t *testing.T) {
	seq := event.NewSequentialEvent(
		sung("c4", "a"),
		sung("f4", "o"),
		music.NewRest(1),
		sung("d4", "e", "t"),
	)
	text, err := NewScoreConverter().Render(seq)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"[lyrics]",
		"xsampa: a, o, _, t, e",
		"",
		"[score]",
		"midiNotes: 60, 65, 0, 62",
		"globalTransposition: 0",
		"rhythm: 0.5, 0.5, 1, 0.5",
		"loud_accents: 0.5, 0.5, 0, 0.5",
		"tempo: 60",
	}, "\n"), text)
}

func TestEventsPerLine(t *testing.T) {
	c := NewScoreConverter()
	c.EventsPerLine = 2
	seq := event.NewSequentialEvent(sung("c", "a"), sung("c", "e"), sung("c", "i"))
	text, err := c.Render(seq)
	require.NoError(t, err)
	assert.Contains(t, text, "xsampa: a, e,\n        i")
	assert.Contains(t, text, "rhythm: 0.5, 0.5,\n        0.5")
}

func TestSimultaneousIsRejected(t *testing.T) {
	_, err := NewScoreConverter().Render(event.NewSimultaneousEvent(sung("c", "a")))
	assert.ErrorIs(t, err, ErrMonophonic)
}

func TestConverterCommand(t *testing.T) {
	c := NewConverter(NewScoreConverter(), FlagSilent)
	var got []string
	c.Run = func(_ context.Context, name string, args ...string) error {
		got = append([]string{name}, args...)
		return nil
	}
	sco := t.TempDir() + "/song.isis"
	require.NoError(t, c.Convert(context.Background(), sung("c", "a"), sco, "song.wav"))
	assert.Equal(t, []string{"isis.sh", "-m", sco, "-o", "song.wav", "--quiet"}, got)
}
