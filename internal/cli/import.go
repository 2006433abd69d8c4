package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/sift/internal/fixture"
	"github.com/roach88/sift/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
}

// importResult is the JSON payload for a fixture import.
type importResult struct {
	Name     string `json:"name"`
	Database string `json:"database"`
	Entities int    `json:"entities"`
	Links    int    `json:"links"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <fixture>",
		Short: "Import a world fixture into a SQLite snapshot",
		Long: `Load a fixture file and write its entities, attributes and links
into a SQLite snapshot in a single transaction. The snapshot can then
be queried with "sift query --db".

Example:
  sift import --db snapshot.db world.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite snapshot (required)")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runImport(ctx context.Context, opts *ImportOptions, path string, out io.Writer) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: out}

	fx, err := fixture.Load(path)
	if err != nil {
		formatter.Error("INVALID_FIXTURE", err.Error())
		return WrapExitError(ExitCommandError, "load fixture", err)
	}

	s, err := store.Open(opts.Database)
	if err != nil {
		formatter.Error("BAD_SNAPSHOT", err.Error())
		return WrapExitError(ExitCommandError, "open snapshot", err)
	}
	defer s.Close()

	if err := s.Import(ctx, fx); err != nil {
		formatter.Error("IMPORT_FAILED", err.Error())
		return WrapExitError(ExitFailure, "import fixture", err)
	}

	slog.Debug("fixture imported",
		"fixture", fx.Name,
		"database", opts.Database,
		"entities", len(fx.Entities),
		"links", len(fx.Links))

	text := fmt.Sprintf("imported %s into %s: %d entities, %d links",
		fx.Name, opts.Database, len(fx.Entities), len(fx.Links))
	return formatter.Success(text, importResult{
		Name:     fx.Name,
		Database: opts.Database,
		Entities: len(fx.Entities),
		Links:    len(fx.Links),
	})
}
