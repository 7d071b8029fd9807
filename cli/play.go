package cli

import (
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"go-mutwo/midi"
)

var ErrNoPort = errors.New("no midi output available")

var portName string

// openPort opens the named port, the configured one or the first one.
func openPort(name string) (midi.Sender, func() error, error) {
	if name == "" {
		name = cfg.MIDI.OutputPort
	}
	if name == "" {
		ports, err := midi.OutPorts()
		if err != nil {
			return nil, nil, err
		}
		if len(ports) == 0 {
			return nil, nil, ErrNoPort
		}
		name = ports[0]
	}
	return midi.OpenOutput(name)
}

var playCmd = &cobra.Command{
	Use:   "play <score>",
	Short: "Play a score on a midi output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, ev, env, err := loadScore(args[0])
		if err != nil {
			return err
		}
		opts := cfg.MIDIOptions()
		opts.Tempo = env
		events, err := midi.Schedule(ev, opts)
		if err != nil {
			return err
		}

		send, closePort, err := openPort(portName)
		if err != nil {
			return err
		}
		defer closePort()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		cmd.Printf("playing %s (%s), ctrl+c stops\n", args[0], formatDuration(midi.Length(ev, env)))
		if err := midi.NewPlayer(send).Play(ctx, events); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List midi outputs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := midi.OutPorts()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			cmd.Println("no midi outputs")
			return nil
		}
		for i, p := range ports {
			marker := " "
			if p == cfg.MIDI.OutputPort {
				marker = "*"
			}
			cmd.Printf("%s %d: %s\n", marker, i, p)
		}
		return nil
	},
}

func init() {
	playCmd.Flags().StringVarP(&portName, "port", "p", "", "Output port (name or part of it)")
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(portsCmd)
}
