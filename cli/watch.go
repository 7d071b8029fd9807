package cli

import (
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"go-mutwo/score"
)

var (
	watchTo       string
	watchDir      string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <score>",
	Short: "Convert a score again whenever it is saved",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchTo, "to", "t", "midi", "Target format ("+targetNames()+")")
	watchCmd.Flags().StringVarP(&watchDir, "output", "o", "", "Output directory")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", score.DefaultDebounce, "Wait for writes to settle")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	t, err := lookupTarget(watchTo)
	if err != nil {
		return err
	}
	if watchDir != "" {
		if err := os.MkdirAll(watchDir, 0755); err != nil {
			return err
		}
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	input := args[0]
	convert := func() {
		out, err := convertFile(ctx, t, input, watchDir)
		if err != nil {
			cmd.PrintErrf("%s %v\n", time.Now().Format("15:04:05"), err)
			return
		}
		cmd.Printf("%s wrote %s\n", time.Now().Format("15:04:05"), out)
	}
	convert()

	return score.Watch(ctx, input, watchDebounce, func(_ *score.Document, err error) {
		if err != nil {
			cmd.PrintErrf("%s %v\n", time.Now().Format("15:04:05"), err)
			return
		}
		convert()
	})
}
