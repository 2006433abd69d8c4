package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sift/internal/fixture"
	"github.com/roach88/sift/internal/query"
	"github.com/roach88/sift/internal/store"
	"github.com/roach88/sift/internal/syntax"
	"github.com/roach88/sift/internal/world"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Fixture  string
	Database string
}

// queryResult is the JSON payload for a query evaluation.
type queryResult struct {
	Expression string           `json:"expression"`
	Entities   []query.EntityID `json:"entities"`
	Count      int              `json:"count"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <expression>",
		Short: "Evaluate a query expression against a world",
		Long: `Compile a query expression and evaluate it against a world loaded
from a fixture file or a SQLite snapshot.

Example:
  sift query --fixture world.yaml "A, parent-of(B, parent-of(C))"
  sift query --db snapshot.db --format json "unit, ~guards(unit)"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Fixture, "fixture", "", "path to world fixture (.cue, .yaml or .yml)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite snapshot")
	cmd.MarkFlagsMutuallyExclusive("fixture", "db")
	cmd.MarkFlagsOneRequired("fixture", "db")

	return cmd
}

func runQuery(opts *QueryOptions, expr string, out io.Writer) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: out}

	q, err := compileExpression(expr)
	if err != nil {
		formatter.Error("BAD_EXPRESSION", err.Error())
		return WrapExitError(ExitCommandError, "compile expression", err)
	}

	var ids []query.EntityID
	if opts.Database != "" {
		s, err := store.Open(opts.Database)
		if err != nil {
			formatter.Error("BAD_SNAPSHOT", err.Error())
			return WrapExitError(ExitCommandError, "open snapshot", err)
		}
		defer s.Close()

		ids = q.Run(s)
		if err := s.Err(); err != nil {
			formatter.Error("SNAPSHOT_READ", err.Error())
			return WrapExitError(ExitFailure, "evaluate against snapshot", err)
		}
	} else {
		w, err := loadWorld(opts.Fixture)
		if err != nil {
			formatter.Error("BAD_FIXTURE", err.Error())
			return WrapExitError(ExitCommandError, "load fixture", err)
		}
		ids = q.Run(w)
	}

	slog.Debug("query evaluated", "expression", expr, "matches", len(ids))

	text := "(no matches)"
	if len(ids) > 0 {
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = string(id)
		}
		text = strings.Join(parts, " ")
	}
	return formatter.Success(text, queryResult{
		Expression: expr,
		Entities:   ids,
		Count:      len(ids),
	})
}

func compileExpression(expr string) (*query.Query, error) {
	terms, err := syntax.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", expr, err)
	}
	q, err := query.Compile(terms...)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, err)
	}
	return q, nil
}

func loadWorld(path string) (*world.World, error) {
	fx, err := fixture.Load(path)
	if err != nil {
		return nil, err
	}
	w := world.New()
	fx.Apply(w)
	return w, nil
}
