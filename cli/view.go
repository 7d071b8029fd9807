package cli

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-mutwo/debug"
	"go-mutwo/midi"
	"go-mutwo/theme"
	"go-mutwo/tui"
)

var viewPort string

var viewCmd = &cobra.Command{
	Use:   "view <score>",
	Short: "Show a score as piano roll and play it",
	Long: `Opens a terminal piano roll of the score. When a midi output is
available the score can be played from the viewer.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().StringVarP(&viewPort, "port", "p", "", "Output port (name or part of it)")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	doc, ev, env, err := loadScore(args[0])
	if err != nil {
		return err
	}
	palette, err := theme.LoadGPL(cfg.UI.Palette)
	if err != nil {
		return err
	}

	opts := tui.Options{Title: doc.Name, Tempo: env}
	if opts.Title == "" {
		opts.Title = filepath.Base(args[0])
	}

	// playback is optional
	if send, closePort, err := openPort(viewPort); err == nil {
		defer closePort()
		mopts := cfg.MIDIOptions()
		mopts.Tempo = env
		if opts.Events, err = midi.Schedule(ev, mopts); err != nil {
			return err
		}
		opts.Player = midi.NewPlayer(send)
	} else {
		debug.Log("cli", "view without playback: %v", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	opts.Devices = midi.NewDeviceManager()
	go opts.Devices.Run(ctx)

	m, err := tui.NewModel(ev, opts, theme.New(palette))
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
