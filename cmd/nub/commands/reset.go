package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Unstage everything",
	Long:  `Clear the index. The working tree and history are left untouched.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Nub == nil {
			return fmt.Errorf("app not initialized")
		}
		if err := Nub.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Index cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
