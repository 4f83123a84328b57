package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Add file contents to the index",
	Long:  `Stage files or directories. Directories are walked recursively, honouring .nubignore.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Nub == nil {
			return fmt.Errorf("app not initialized")
		}
		out := cmd.OutOrStdout()

		staged, err := Nub.Stage(cmd.Context(), args)
		if err != nil {
			return err
		}

		if len(staged) == 0 {
			fmt.Fprintln(out, "No changes to stage.")
			return nil
		}
		for _, s := range staged {
			fmt.Fprintf(out, "staged: %s (%s)\n", s.Path, s.Hash.Short())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
