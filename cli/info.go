package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"go-mutwo/midi"
	"go-mutwo/widgets"
)

var infoStyle string

var infoCmd = &cobra.Command{
	Use:   "info <score>",
	Short: "Summarize a score file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := scoreSummary(args[0])
		if err != nil {
			return err
		}
		opt := glamour.WithAutoStyle()
		if infoStyle != "auto" {
			opt = glamour.WithStylePath(infoStyle)
		}
		renderer, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(80))
		if err != nil {
			return err
		}
		out, err := renderer.Render(md)
		if err != nil {
			return err
		}
		cmd.Print(out)
		return nil
	},
}

func init() {
	infoCmd.Flags().StringVar(&infoStyle, "style", "auto", "Glamour style (auto, dark, light, notty)")
	rootCmd.AddCommand(infoCmd)
}

// scoreSummary describes the score at path as markdown.
func scoreSummary(path string) (string, error) {
	doc, ev, env, err := loadScore(path)
	if err != nil {
		return "", err
	}
	notes, voices, err := widgets.RollNotes(ev)
	if err != nil {
		return "", err
	}
	stat, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	name := doc.Name
	if name == "" {
		name = path
	}
	keys := "none"
	if len(notes) > 0 {
		lo, hi := widgets.KeyRange(notes)
		keys = widgets.KeyName(lo) + " to " + widgets.KeyName(hi)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", name)
	b.WriteString("| field | value |\n|---|---|\n")
	fmt.Fprintf(&b, "| id | `%s` |\n", doc.ID)
	fmt.Fprintf(&b, "| duration | %g beats (%s) |\n", ev.Duration(), formatDuration(midi.Length(ev, env)))
	fmt.Fprintf(&b, "| voices | %d |\n", voices)
	fmt.Fprintf(&b, "| notes | %d |\n", len(notes))
	fmt.Fprintf(&b, "| keys | %s |\n", keys)
	fmt.Fprintf(&b, "| tempo | %g bpm |\n", env.BPMAt(0))
	fmt.Fprintf(&b, "| file | %s |\n", humanize.Bytes(uint64(stat.Size())))
	return b.String(), nil
}
