package score

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-mutwo/event"
	"go-mutwo/music"
	"go-mutwo/pitch"
	"go-mutwo/tempo"
	"go-mutwo/volume"
)

func sampleTree() event.Event {
	melody := event.NewTaggedSequentialEvent("melody",
		music.MustNoteLike("c4", 1, "p"),
		music.MustNoteLike("3/2 7/4", 0.5, 0.25),
		music.NewRest(0.5),
	)
	accent := music.MustNoteLike("440hz", 2, -6)
	accent.PlayingIndicators.Articulation.Name = "accent"
	accent.PlayingIndicators.Pedal.Type = "sustain"
	accent.NotationIndicators.Clef.Name = "bass"
	_ = accent.SetParameter("vowel", "a", true)
	marker := event.NewTaggedSimpleEvent("cue", 1)
	_ = marker.SetParameter("name", "intro", true)
	return event.NewSimultaneousEvent(melody, event.NewSequentialEvent(accent, marker))
}

func TestDocumentRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			doc, err := NewDocument("sketch", sampleTree())
			require.NoError(t, err)
			doc.SetTempo(tempo.ConstantTempo(90))

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, doc, format))
			loaded, err := Decode(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, doc.ID, loaded.ID)
			assert.Equal(t, "sketch", loaded.Name)

			env, err := loaded.TempoEnvelope()
			require.NoError(t, err)
			assert.Equal(t, 90.0, env.BPMAt(0))

			ev, err := loaded.Event()
			require.NoError(t, err)
			assert.True(t, event.Equal(sampleTree(), ev), "%s", cmp.Diff(doc.Root, loaded.Root, cmpopts.EquateEmpty()))
		})
	}
}

func TestNewDocumentID(t *testing.T) {
	doc, err := NewDocument("", event.NewSimpleEvent(1))
	require.NoError(t, err)
	_, err = uuid.Parse(doc.ID)
	assert.NoError(t, err)

	_, err = NewDocument("", nil)
	assert.ErrorIs(t, err, ErrInvalidNode)
}

func TestDecodeYAMLByHand(t *testing.T) {
	src := `
id: hand-written
tempo:
  points: [{bpm: 60}, {bpm: 120}]
  durations: [4]
root:
  type: sequential
  children:
    - {type: note, pitch: "ef4 g4", duration: 1, volume: ff}
    - {type: note, pitch: "5/4", duration: 1.5, playing: {pedal: {type: sustain}, tremolo: {n_flags: 2}}}
    - {type: simple, duration: 0.5}
    - {type: note, duration: 1}
`
	doc, err := Decode(strings.NewReader(src), FormatYAML)
	require.NoError(t, err)
	env, err := doc.TempoEnvelope()
	require.NoError(t, err)
	assert.Equal(t, 120.0, env.BPMAt(4))

	ev, err := doc.Event()
	require.NoError(t, err)
	seq := ev.(*event.SequentialEvent)
	assert.Equal(t, 4.0, seq.Duration())

	first := seq.Child(0).(*music.NoteLike)
	assert.Equal(t, []pitch.Pitch{pitch.MustWesternPitch("ef", 4), pitch.MustWesternPitch("g", 4)}, first.Pitches)
	assert.Equal(t, volume.MustWesternVolume("ff"), first.Volume)

	second := seq.Child(1).(*music.NoteLike)
	assert.True(t, second.PlayingIndicators.Pedal.Activity, "defaults survive partial indicators")
	assert.Equal(t, 2, second.PlayingIndicators.Tremolo.NFlags)
	assert.Equal(t, 1, second.PlayingIndicators.Ornamentation.NTimes)

	assert.True(t, seq.Child(3).(*music.NoteLike).IsRest())
}

func TestDecodeErrors(t *testing.T) {
	_, err := ToEvent(Node{Type: "chord"})
	assert.ErrorIs(t, err, ErrInvalidNode)

	_, err = ToEvent(Node{Type: TypeNote, Pitch: "x9", Duration: 1})
	assert.ErrorIs(t, err, music.ErrUnknownPitch)

	_, err = ToEvent(Node{Type: TypeSequential, Children: []Node{{Type: TypeSimple, Duration: -1}}})
	assert.ErrorIs(t, err, event.ErrInvalidDuration)

	_, err = Decode(strings.NewReader("{"), FormatJSON)
	assert.Error(t, err)

	_, err = FormatFromPath("score.xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSaveAndLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	doc, err := NewDocument("files", sampleTree())
	require.NoError(t, err)
	for _, name := range []string{"a.json", "b.yml", "c.toml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, doc))
		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, doc.ID, loaded.ID, name)
	}
	data, err := os.ReadFile(filepath.Join(dir, "c.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[root]")
}

func TestProjects(t *testing.T) {
	t.Setenv("GO_MUTWO_CONFIG_DIR", t.TempDir())
	clock := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	now = func() time.Time { return clock }
	defer func() { now = time.Now }()

	projects, err := ListProjects()
	require.NoError(t, err)
	assert.Empty(t, projects)

	doc, err := NewDocument("etude", music.MustNoteLike("c", 1, nil))
	require.NoError(t, err)
	first, err := SaveProject("etude", "", doc)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15_14-30-00.json", first)

	clock = clock.Add(time.Minute)
	second, err := SaveProject("etude", "second try", doc)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15_14-31-00_second-try.json", second)

	saves, err := ListSaves("etude")
	require.NoError(t, err)
	require.Len(t, saves, 2)
	assert.Equal(t, second, saves[0].Filename)
	assert.Equal(t, "second-try", saves[0].Name)

	latest, err := LoadProject("etude", "")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, latest.ID)

	renamed, err := RenameSave("etude", first, "draft")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15_14-30-00_draft.json", renamed)
	_, err = RenameSave("etude", "notes.txt", "x")
	assert.Error(t, err)

	require.NoError(t, DeleteSave("etude", renamed))
	saves, err = ListSaves("etude")
	require.NoError(t, err)
	assert.Len(t, saves, 1)

	require.NoError(t, CreateProject("empty"))
	_, err = LoadProject("empty", "")
	assert.ErrorIs(t, err, ErrNoSaves)
	require.NoError(t, RenameProject("empty", "blank"))

	projects, err = ListProjects()
	require.NoError(t, err)
	assert.Equal(t, []string{"blank", "etude"}, projects)

	require.NoError(t, DeleteProject("etude"))
	projects, err = ListProjects()
	require.NoError(t, err)
	assert.Equal(t, []string{"blank"}, projects)
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.yaml")
	doc, err := NewDocument("live", music.MustNoteLike("c", 1, nil))
	require.NoError(t, err)
	require.NoError(t, Save(path, doc))

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan *Document, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 10*time.Millisecond, func(d *Document, err error) {
			if err == nil {
				changed <- d
			}
		})
	}()

	require.Eventually(t, func() bool {
		_ = Save(path, doc)
		select {
		case d := <-changed:
			return d.ID == doc.ID
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
