package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"go-mutwo/converter/ekmelily"
)

var (
	ekmelilyOut         string
	ekmelilyAccidentals []string
)

var ekmelilyCmd = &cobra.Command{
	Use:   "ekmelily",
	Short: "Write an Ekmelily tuning file for the western accidentals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := selectAccidentals(ekmelilyAccidentals)
		if err != nil {
			return err
		}
		if err := ekmelily.NewTuningFileConverter(acc, nil).Convert(ekmelilyOut); err != nil {
			return err
		}
		cmd.Printf("wrote %s (%d accidentals)\n", ekmelilyOut, len(acc))
		return nil
	},
}

func init() {
	ekmelilyCmd.Flags().StringVarP(&ekmelilyOut, "output", "o", "ekmel-mutwo.ily", "Tuning file")
	ekmelilyCmd.Flags().StringSliceVar(&ekmelilyAccidentals, "accidentals", nil, "Accidental names to include, e.g. s,f,qs (default all)")
	rootCmd.AddCommand(ekmelilyCmd)
}

// selectAccidentals keeps the named western accidentals. The natural is
// always kept.
func selectAccidentals(names []string) ([]ekmelily.Accidental, error) {
	all := ekmelily.WesternAccidentals()
	if len(names) == 0 {
		return all, nil
	}
	for _, name := range names {
		if !slices.ContainsFunc(all, func(a ekmelily.Accidental) bool { return a.Name == name }) {
			return nil, fmt.Errorf("unknown accidental %q", name)
		}
	}
	var out []ekmelily.Accidental
	for _, a := range all {
		if a.Name == "" || slices.Contains(names, a.Name) {
			out = append(out, a)
		}
	}
	return out, nil
}
