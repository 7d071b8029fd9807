package cli

import (
	"github.com/spf13/cobra"

	"go-mutwo/score"
)

var (
	saveName   string
	loadOutput string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Keep timestamped saves of scores",
}

var projectListCmd = &cobra.Command{
	Use:   "list [project]",
	Short: "List projects, or the saves of one project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			projects, err := score.ListProjects()
			if err != nil {
				return err
			}
			for _, p := range projects {
				cmd.Println(p)
			}
			return nil
		}
		saves, err := score.ListSaves(args[0])
		if err != nil {
			return err
		}
		for _, s := range saves {
			cmd.Printf("%s  %s\n", s.Timestamp.Format("2006-01-02 15:04:05"), s.Filename)
		}
		return nil
	},
}

var projectSaveCmd = &cobra.Command{
	Use:   "save <project> <score>",
	Short: "Save a score file to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := score.Load(args[1])
		if err != nil {
			return err
		}
		filename, err := score.SaveProject(args[0], saveName, doc)
		if err != nil {
			return err
		}
		cmd.Printf("saved %s/%s\n", args[0], filename)
		return nil
	},
}

var projectLoadCmd = &cobra.Command{
	Use:   "load <project> [save]",
	Short: "Copy a save (the newest by default) out of a project",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := ""
		if len(args) == 2 {
			filename = args[1]
		}
		doc, err := score.LoadProject(args[0], filename)
		if err != nil {
			return err
		}
		if err := score.Save(loadOutput, doc); err != nil {
			return err
		}
		cmd.Printf("wrote %s\n", loadOutput)
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <project> [save]",
	Short: "Delete a project or one of its saves",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 2 {
			return score.DeleteSave(args[0], args[1])
		}
		return score.DeleteProject(args[0])
	},
}

func init() {
	projectSaveCmd.Flags().StringVarP(&saveName, "name", "n", "", "Name appended to the timestamp")
	projectLoadCmd.Flags().StringVarP(&loadOutput, "output", "o", "score.json", "Where to write the score (.json, .yaml or .toml)")
	projectCmd.AddCommand(projectListCmd, projectSaveCmd, projectLoadCmd, projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}
