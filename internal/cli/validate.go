package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/sift/internal/fixture"
)

// validateResult is the JSON payload for a validated fixture.
type validateResult struct {
	Name     string `json:"name"`
	Entities int    `json:"entities"`
	Links    int    `json:"links"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <fixture>",
		Short: "Validate a world fixture file",
		Long: `Load a fixture file, check it against the fixture schema and the
referential rules (unique entity ids, link endpoints that exist), and
report its contents.

Example:
  sift validate world.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd.OutOrStdout())
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, out io.Writer) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: out}

	fx, err := fixture.Load(path)
	if err != nil {
		formatter.Error("INVALID_FIXTURE", err.Error())
		return WrapExitError(ExitFailure, "validate fixture", err)
	}

	text := fmt.Sprintf("%s: %d entities, %d links", fx.Name, len(fx.Entities), len(fx.Links))
	return formatter.Success(text, validateResult{
		Name:     fx.Name,
		Entities: len(fx.Entities),
		Links:    len(fx.Links),
	})
}
