package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/team-randomiser/internal/domain/allocation"
	"github.com/riskibarqy/team-randomiser/internal/domain/player"
	"github.com/riskibarqy/team-randomiser/internal/infrastructure/spreadsheet"
	"github.com/spf13/cobra"
)

type previewFlags struct {
	roster string
}

func NewPreviewCommand() *cobra.Command {
	flags := &previewFlags{}

	cmd := &cobra.Command{
		Use:     "preview",
		Short:   "Print the players parsed from a roster file",
		Example: `  randomiser preview --roster players.xlsx`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.roster, "roster", "", "Path to the roster spreadsheet (xlsx)")
	_ = cmd.MarkFlagRequired("roster")

	return cmd
}

func runPreview(ctx context.Context, out io.Writer, flags *previewFlags) error {
	players, err := readRoster(ctx, flags.roster)
	if err != nil {
		return err
	}

	for i, p := range players {
		fmt.Fprintf(out, "%3d. %s (%s)\n", i+1, p.Name, p.Position)
	}
	fmt.Fprintln(out, allocation.Summarize(players).String())

	return nil
}

func readRoster(ctx context.Context, path string) ([]player.Player, error) {
	if path == "" {
		return nil, crerr.New("--roster is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, crerr.Wrap(err, "open roster")
	}
	defer f.Close()

	players, err := spreadsheet.NewImporter().Read(ctx, f)
	if err != nil {
		return nil, crerr.Wrapf(err, "read roster %s", path)
	}

	return players, nil
}
