package commands

import (
	"fmt"

	"nub/pkg/app"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Create an empty nub repository",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		repoPath, err := app.Init(root)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty nub repository in %s\n", repoPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
