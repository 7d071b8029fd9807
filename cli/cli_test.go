package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"go-mutwo/config"
	"go-mutwo/event"
	"go-mutwo/music"
	"go-mutwo/score"
)

// lockedBuffer is shared between a running command and the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func saveScore(path string, pitches ...string) error {
	var notes []event.Event
	for _, p := range pitches {
		notes = append(notes, music.MustNoteLike(p, 1, "mf"))
	}
	doc, err := score.NewDocument("sketch", event.NewSequentialEvent(notes...))
	if err != nil {
		return err
	}
	return score.Save(path, doc)
}

func writeScore(t *testing.T, path string, pitches ...string) {
	t.Helper()
	require.NoError(t, saveScore(path, pitches...))
}

// run executes the command line with a fresh config dir.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigDir, t.TempDir())
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestConvertMIDIAndLilypond(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "sketch.yaml")
	writeScore(t, in, "c4", "e4")
	out := filepath.Join(dir, "out")

	stdout, err := run(t, "convert", "--to", "midi", "-o", out, "-j", "2", "--render=false", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote "+filepath.Join(out, "sketch.mid"))
	data, err := os.ReadFile(filepath.Join(out, "sketch.mid"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("MThd")))

	_, err = run(t, "convert", "--to", "lilypond", "-o", out, "-j", "1", "--render=false", in)
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(out, "sketch.ly"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "c'4")
	assert.Contains(t, string(data), "e'4")
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "sketch.json")
	writeScore(t, in, "c4")

	_, err := run(t, "convert", "--to", "mp3", "-o", "", "-j", "1", "--render=false", in)
	assert.ErrorContains(t, err, `unknown target "mp3"`)

	_, err = run(t, "convert", "--to", "midi", "-o", "", "-j", "1", "--render=false", filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("scores", "a.mid"), outputPath(filepath.Join("scores", "a.yaml"), "", ".mid"))
	assert.Equal(t, filepath.Join("out", "a.ly"), outputPath(filepath.Join("scores", "a.yaml"), "out", ".ly"))
}

func TestInfo(t *testing.T) {
	in := filepath.Join(t.TempDir(), "sketch.toml")
	writeScore(t, in, "c4", "g4", "e4")

	md, err := scoreSummary(in)
	require.NoError(t, err)
	assert.Contains(t, md, "# sketch")
	assert.Contains(t, md, "| notes | 3 |")
	assert.Contains(t, md, "| keys | c4 to g4 |")
	assert.Contains(t, md, "3 beats")

	stdout, err := run(t, "info", "--style", "notty", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "sketch")
	assert.Contains(t, stdout, "c4 to g4")
}

func TestProjectSaveAndList(t *testing.T) {
	in := filepath.Join(t.TempDir(), "sketch.json")
	writeScore(t, in, "c4")
	t.Setenv(config.EnvConfigDir, t.TempDir())

	rootCmd.SetArgs([]string{"project", "save", "etudes", in, "--name", "first"})
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	}()
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "saved etudes/")
	assert.Contains(t, buf.String(), "_first.json")

	buf.Reset()
	rootCmd.SetArgs([]string{"project", "list"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "etudes\n", buf.String())

	saves, err := score.ListSaves("etudes")
	require.NoError(t, err)
	require.Len(t, saves, 1)
	assert.Equal(t, "first", saves[0].Name)
}

func TestEkmelily(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.ily")
	stdout, err := run(t, "ekmelily", "-o", path, "--accidentals", "s,f")
	require.NoError(t, err)
	assert.Contains(t, stdout, "3 accidentals")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `\include "ekmel-main.ily"`)

	_, err = selectAccidentals([]string{"zz"})
	assert.ErrorContains(t, err, `unknown accidental "zz"`)
	all, err := selectAccidentals(nil)
	require.NoError(t, err)
	assert.Len(t, all, 11)
}

func TestWatchReconverts(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent(), goleak.IgnoreAnyFunction("os/signal.loop"))

	dir := t.TempDir()
	in := filepath.Join(dir, "live.yaml")
	writeScore(t, in, "c4")
	out := filepath.Join(dir, "live.ly")
	t.Setenv(config.EnvConfigDir, t.TempDir())

	buf := new(lockedBuffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"watch", "--to", "lilypond", "-o", dir, "--debounce", "10ms", in})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetContext(context.Background())
	}()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rootCmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(out)
		return err == nil && strings.Contains(string(data), "c'4")
	}, 5*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		_ = saveScore(in, "g4")
		data, err := os.ReadFile(out)
		return err == nil && strings.Contains(string(data), "g'4")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Contains(t, buf.String(), "wrote "+out)
}
