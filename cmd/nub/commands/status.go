package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the working tree status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Nub == nil {
			return fmt.Errorf("app not initialized")
		}
		out := cmd.OutOrStdout()

		report, err := Nub.Status(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "On branch %s\n", report.Branch)
		if report.IsClean() {
			fmt.Fprintln(out, "nothing to commit, working tree clean")
			return nil
		}

		printSection(out, "Changes to be committed:", report.Staged)
		printSection(out, "Changes not staged for commit:", report.Modified)
		printSection(out, "Untracked files:", report.Untracked)
		return nil
	},
}

func printSection(w io.Writer, title string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	for _, p := range paths {
		fmt.Fprintf(w, "\t%s\n", p)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
