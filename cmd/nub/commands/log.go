package commands

import (
	"fmt"
	"io"
	"time"

	"nub/pkg/app"

	"github.com/spf13/cobra"
)

var (
	logLimit  int
	logAuthor string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show commit logs",
	Long:  `Display the commit history starting from HEAD, newest first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Nub == nil {
			return fmt.Errorf("app not initialized")
		}
		out := cmd.OutOrStdout()

		var (
			entries []app.LogEntry
			err     error
		)
		if logAuthor != "" {
			entries, err = Nub.LogByAuthor(cmd.Context(), logAuthor, logLimit)
		} else {
			entries, err = Nub.Log(cmd.Context(), logLimit)
		}
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Fprintln(out, "No commits yet.")
			return nil
		}
		for _, e := range entries {
			printLogEntry(out, e)
		}
		return nil
	},
}

// printLogEntry 仿 git log 的格式输出
func printLogEntry(w io.Writer, e app.LogEntry) {
	fmt.Fprintf(w, "commit %s\n", e.Hash)
	fmt.Fprintf(w, "Author: %s\n", e.Author)
	fmt.Fprintf(w, "Date:   %s\n", e.Time.Format(time.RFC1123))
	fmt.Fprintf(w, "\n    %s\n\n", e.Message)
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().IntVarP(&logLimit, "max-count", "n", 0, "limit the number of commits to show")
	logCmd.Flags().StringVar(&logAuthor, "author", "", "only show commits by this author name")
}
