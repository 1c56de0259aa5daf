// Package cli implements the randomiser command line: split a roster file into
// balanced teams and write the exports locally, without running the API.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "randomiser",
		Short: "Split a football roster into balanced teams",
		Long: `randomiser reads a spreadsheet with Name and Position columns and splits the
players into evenly sized teams with a spread of goalkeepers, defenders,
midfielders and strikers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit: %s)", Version, Commit),
	}

	rootCmd.AddCommand(NewSplitCommand())
	rootCmd.AddCommand(NewPreviewCommand())

	return rootCmd
}

// Execute runs rootCmd and exits non-zero on failure.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
