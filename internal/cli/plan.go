package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// planResult is the JSON payload for a compiled plan.
type planResult struct {
	Expression string `json:"expression"`
	Plan       string `json:"plan"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <expression>",
		Short: "Compile a query expression and print its evaluation plan",
		Long: `Compile a query expression without evaluating it and print the
flattened plan: every node with its requirements and every filter edge
in the bottom-up order the executor will walk them.

Example:
  sift plan "A, parent-of(B, parent-of(C))"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(rootOpts, args[0], cmd.OutOrStdout())
		},
	}
	return cmd
}

func runPlan(opts *RootOptions, expr string, out io.Writer) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: out}

	q, err := compileExpression(expr)
	if err != nil {
		formatter.Error("BAD_EXPRESSION", err.Error())
		return WrapExitError(ExitCommandError, "compile expression", err)
	}

	desc := q.Describe()
	return formatter.Success(desc, planResult{
		Expression: expr,
		Plan:       desc,
	})
}
