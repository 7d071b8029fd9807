package cli

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/remeh/sizedwaitgroup"
	meltysynth "github.com/sinshu/go-meltysynth/meltysynth"
	"github.com/spf13/cobra"

	"go-mutwo/converter/synth"
	"go-mutwo/midi"
)

var (
	soundFont     string
	renderDir     string
	renderJobs    int
	renderTail    time.Duration
	renderProgram int
)

var renderCmd = &cobra.Command{
	Use:   "render <score>...",
	Short: "Render score files to WAV with a SoundFont",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&soundFont, "soundfont", "s", "", "SoundFont (.sf2), defaults to the configured one")
	renderCmd.Flags().StringVarP(&renderDir, "output", "o", "", "Output directory")
	renderCmd.Flags().IntVarP(&renderJobs, "jobs", "j", 2, "Files rendered at the same time")
	renderCmd.Flags().DurationVar(&renderTail, "tail", synth.DefaultTail, "Release time after the last note")
	renderCmd.Flags().IntVarP(&renderProgram, "program", "p", -1, "General MIDI program, defaults to the configured one")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	path := soundFont
	if path == "" {
		path = cfg.Render.SoundFont
	}
	if path == "" {
		return fmt.Errorf("%w: pass --soundfont or set render.soundFont in the config", synth.ErrNoSoundFont)
	}
	sf, err := synth.LoadSoundFont(path)
	if err != nil {
		return err
	}
	if renderDir != "" {
		if err := os.MkdirAll(renderDir, 0755); err != nil {
			return err
		}
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	wg := sizedwaitgroup.New(max(renderJobs, 1))
	for _, input := range args {
		wg.Add()
		go func() {
			defer wg.Done()
			line, err := renderFile(sf, input)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			cmd.Println(line)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

func renderFile(sf *meltysynth.SoundFont, input string) (string, error) {
	_, ev, env, err := loadScore(input)
	if err != nil {
		return "", err
	}
	opts := cfg.SynthOptions()
	opts.MIDI.Tempo = env
	opts.Tail = renderTail
	if renderProgram >= 0 {
		opts.Program = renderProgram
	}
	r, err := synth.NewRenderer(sf, opts)
	if err != nil {
		return "", err
	}
	out := outputPath(input, renderDir, ".wav")
	if err := r.Convert(ev, out); err != nil {
		return "", fmt.Errorf("%s: %w", input, err)
	}
	info, err := os.Stat(out)
	if err != nil {
		return "", err
	}
	length := midi.Length(ev, env) + renderTail
	return fmt.Sprintf("wrote %s (%s, %s)", out, humanize.Bytes(uint64(info.Size())), formatDuration(length)), nil
}

// formatDuration prints the two largest units, e.g. "1 minute 4 seconds".
func formatDuration(d time.Duration) string {
	return durafmt.Parse(d.Round(time.Millisecond)).LimitFirstN(2).String()
}
