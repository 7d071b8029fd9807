package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"go-mutwo/converter/csound"
	"go-mutwo/converter/isis"
	"go-mutwo/converter/lilypond"
	"go-mutwo/converter/midifile"
	"go-mutwo/converter/reaper"
	"go-mutwo/event"
	"go-mutwo/tempo"
)

// target writes one output format.
type target struct {
	ext     string
	convert func(ctx context.Context, ev event.Event, env tempo.TempoEnvelope, path string) error
}

var targets = map[string]target{
	"midi":     {".mid", convertMIDI},
	"csound":   {".sco", convertCsound},
	"isis":     {".isis", convertIsis},
	"lilypond": {".ly", convertLilypond},
	"reaper":   {".txt", convertReaper},
}

func targetNames() string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

func lookupTarget(name string) (target, error) {
	t, ok := targets[name]
	if !ok {
		return target{}, fmt.Errorf("unknown target %q (want %s)", name, targetNames())
	}
	return t, nil
}

func convertMIDI(_ context.Context, ev event.Event, env tempo.TempoEnvelope, path string) error {
	opts := cfg.MIDIOptions()
	opts.Tempo = env
	c, err := midifile.NewConverter(opts)
	if err != nil {
		return err
	}
	return c.Convert(ev, path)
}

// csoundFields writes frequency and amplitude to p4 and p5.
func csoundFields() map[string]csound.PField {
	return map[string]csound.PField{
		"p4": func(ev event.Event) (any, error) {
			pitches, err := midifile.NotePitches(ev)
			if err != nil {
				return nil, err
			}
			if len(pitches) == 0 {
				return nil, midifile.ErrNotExtractable
			}
			return pitches[0].Frequency(), nil
		},
		"p5": func(ev event.Event) (any, error) {
			v, err := midifile.NoteVolume(ev)
			if err != nil {
				return nil, err
			}
			return v.Amplitude(), nil
		},
	}
}

// convertCsound writes the score, and renders it when an orchestra is
// configured and rendering was asked for.
func convertCsound(ctx context.Context, ev event.Event, _ tempo.TempoEnvelope, path string) error {
	sc, err := csound.NewScoreConverter(csoundFields())
	if err != nil {
		return err
	}
	sc.Annotated = true
	if !renderExternal || cfg.Csound.Orchestra == "" {
		return sc.Convert(ev, path)
	}
	c := csound.NewConverter(cfg.Csound.Orchestra, sc, cfg.Csound.Flags...)
	if cfg.Csound.Binary != "" {
		c.Binary = cfg.Csound.Binary
	}
	c.RemoveScore = cfg.Csound.RemoveScore
	return c.Convert(ctx, ev, path, strings.TrimSuffix(path, ".sco")+".wav")
}

func convertIsis(ctx context.Context, ev event.Event, env tempo.TempoEnvelope, path string) error {
	sc := isis.NewScoreConverter()
	sc.Tempo = env.BPMAt(0)
	if !renderExternal {
		return sc.Convert(ev, path)
	}
	c := isis.NewConverter(sc, cfg.Isis.Flags...)
	if cfg.Isis.Binary != "" {
		c.Binary = cfg.Isis.Binary
	}
	return c.Convert(ctx, ev, path, strings.TrimSuffix(path, ".isis")+".wav")
}

func convertLilypond(_ context.Context, ev event.Event, env tempo.TempoEnvelope, path string) error {
	c := lilypond.NewScoreConverter()
	c.Voice.Tempo = &env
	return c.Convert(ev, path)
}

func convertReaper(_ context.Context, ev event.Event, env tempo.TempoEnvelope, path string) error {
	c := reaper.NewMarkerConverter()
	c.Tempo = env
	return c.Convert(ev, path)
}

var (
	convertTo      string
	outputDir      string
	jobs           int
	renderExternal bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <score>...",
	Short: "Convert score files",
	Long: `Converts every score file to the target format. The outputs are
written next to the inputs unless an output directory is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "midi", "Target format ("+targetNames()+")")
	convertCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory")
	convertCmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "Files converted at the same time")
	convertCmd.Flags().BoolVar(&renderExternal, "render", false, "Also run csound or isis on the written score")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	t, err := lookupTarget(convertTo)
	if err != nil {
		return err
	}
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return err
		}
	}

	outputs := make([]string, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(jobs, 1))
	for i, input := range args {
		g.Go(func() error {
			out, err := convertFile(ctx, t, input, outputDir)
			outputs[i] = out
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, out := range outputs {
		if info, err := os.Stat(out); err == nil {
			cmd.Printf("wrote %s (%s)\n", out, humanize.Bytes(uint64(info.Size())))
		}
	}
	return nil
}

func convertFile(ctx context.Context, t target, input, dir string) (string, error) {
	_, ev, env, err := loadScore(input)
	if err != nil {
		return "", err
	}
	out := outputPath(input, dir, t.ext)
	if err := t.convert(ctx, ev, env, out); err != nil {
		return "", fmt.Errorf("%s: %w", input, err)
	}
	return out, nil
}
