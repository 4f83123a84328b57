package commands

import (
	"errors"
	"fmt"
	"strings"

	"nub/pkg/app"

	"github.com/spf13/cobra"
)

var commitMsg string

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record changes to the repository",
	Long:  `Create a new commit containing the current contents of the index and the given log message describing the changes.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Nub == nil {
			return fmt.Errorf("app not initialized")
		}
		if strings.TrimSpace(commitMsg) == "" {
			return fmt.Errorf("commit message cannot be empty (use -m)")
		}
		out := cmd.OutOrStdout()

		hash, err := Nub.Commit(cmd.Context(), commitMsg)
		if errors.Is(err, app.ErrNothingToCommit) {
			fmt.Fprintln(out, "nothing to commit, working tree clean")
			return nil
		}
		if err != nil {
			return err
		}

		branch, _ := Nub.Refs.CurrentBranch()
		fmt.Fprintf(out, "[%s %s] %s\n", branch, hash.Short(), commitMsg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commitCmd)

	commitCmd.Flags().StringVarP(&commitMsg, "message", "m", "", "commit message")
}
