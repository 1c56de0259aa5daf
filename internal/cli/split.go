package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/team-randomiser/internal/app"
	"github.com/riskibarqy/team-randomiser/internal/config"
	"github.com/riskibarqy/team-randomiser/internal/domain/allocation"
	"github.com/riskibarqy/team-randomiser/internal/infrastructure/document"
	"github.com/riskibarqy/team-randomiser/internal/platform/logging"
	"github.com/riskibarqy/team-randomiser/internal/platform/random"
	"github.com/riskibarqy/team-randomiser/internal/usecase"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
)

type splitFlags struct {
	roster   string
	teams    int
	seed     uint64
	strategy string
	outDir   string
	formats  []string
	title    string
	prefix   string
}

func NewSplitCommand() *cobra.Command {
	flags := &splitFlags{}

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Allocate a roster into balanced teams",
		Example: `  randomiser split --roster players.xlsx --teams 2
  randomiser split --roster players.xlsx --teams 3 --seed 42 --format xlsx --format pdf --out ./teams`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.roster, "roster", "", "Path to the roster spreadsheet (xlsx)")
	cmd.Flags().IntVar(&flags.teams, "teams", 2, "Number of teams")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "Seed for a reproducible draw (0 draws from crypto/rand)")
	cmd.Flags().StringVar(&flags.strategy, "strategy", string(allocation.StrategyBalanced), "Allocation strategy: balanced or positional")
	cmd.Flags().StringVar(&flags.outDir, "out", ".", "Directory for exported files")
	cmd.Flags().StringArrayVar(&flags.formats, "format", nil, "Export format to write (xlsx, pdf); repeatable")
	cmd.Flags().StringVar(&flags.title, "title", document.DefaultTitle, "Title printed at the top of the pdf export")
	cmd.Flags().StringVar(&flags.prefix, "prefix", "", "File name prefix for exports")
	_ = cmd.MarkFlagRequired("roster")

	return cmd
}

func runSplit(ctx context.Context, out io.Writer, flags *splitFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	strategy, err := allocation.ParseStrategy(flags.strategy)
	if err != nil {
		return err
	}

	players, err := readRoster(ctx, flags.roster)
	if err != nil {
		return err
	}

	assignment, err := allocation.ForStrategy(strategy)(players, flags.teams, random.FromSeed(flags.seed).New())
	if err != nil {
		return crerr.Wrap(err, "allocate teams")
	}

	printAssignment(out, assignment)

	if len(flags.formats) == 0 {
		return nil
	}

	exports := app.NewExportService(config.Config{
		ExportWorkers:    len(flags.formats),
		ExportTitle:      flags.title,
		ExportFilePrefix: flags.prefix,
	}, nil, logging.NewNop())

	formats := make([]string, 0, len(flags.formats))
	for _, f := range flags.formats {
		formats = append(formats, strings.ToLower(strings.TrimSpace(f)))
	}

	files, err := exports.RenderAssignment(ctx, assignment, formats)
	if err != nil {
		return crerr.Wrap(err, "render exports")
	}

	written, err := writeFiles(ctx, flags.outDir, files)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Fprintf(out, "wrote %s\n", path)
	}

	return nil
}

func printAssignment(out io.Writer, assignment allocation.Assignment) {
	for i, team := range assignment.Teams {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "Team %d\n", team.Number)
		for _, p := range team.Players {
			fmt.Fprintf(out, "  %s (%s)\n", p.Name, p.Position)
		}
		fmt.Fprintf(out, "  %s\n", allocation.Summarize(team.Players).String())
	}
}

// writeFiles writes every export into dir concurrently. Returned paths follow
// the order of files.
func writeFiles(ctx context.Context, dir string, files []usecase.ExportFile) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, crerr.Wrapf(err, "create output dir %s", dir)
	}

	paths := make([]string, len(files))
	p := pool.New().WithErrors().WithContext(ctx)
	for i, file := range files {
		paths[i] = filepath.Join(dir, file.FileName)
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := os.WriteFile(paths[i], file.Content, 0o644); err != nil {
				return crerr.Wrapf(err, "write %s", paths[i])
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return paths, nil
}
