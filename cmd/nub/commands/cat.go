package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <hash>",
	Short: "Show an object by (short) hash",
	Long:  `Print a stored object. Trees and commits are pretty-printed; blobs are written raw, so 'nub cat <hash> > file' restores the file.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Nub == nil {
			return fmt.Errorf("app not initialized")
		}
		if err := Nub.Cat(cmd.Context(), args[0], cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("cat failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
