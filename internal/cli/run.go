package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baderouaich/the-zero-overhead-principle/internal/scenario"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute a scenario through both APIs and check the value oracle",
		Long: `Load a scenario fixture and execute its operation sequence twice: through
the plain free-function API and through the Mover interface.

Both executions must produce the fixture's expected final product. This is
the value-level counterpart of the instruction-level comparison.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runScenario(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := scenario.Load(path)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "scenario load failed", err)
	}

	formatter.VerboseLog("Running scenario %s (%d steps)", s.Name, len(s.Steps))

	result, err := scenario.Run(s)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "scenario execution failed", err)
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		mark := "✓"
		if !result.Pass {
			mark = "✗"
		}
		fmt.Fprintf(formatter.Writer, "%s Scenario %s\n", mark, s.Name)
		fmt.Fprintf(formatter.Writer, "  plain:       %d\n", result.Plain)
		fmt.Fprintf(formatter.Writer, "  abstraction: %d\n", result.Abstraction)
		fmt.Fprintf(formatter.Writer, "  expected:    %d\n", result.Expected)
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s: values diverge from expected", s.Name))
	}
	return nil
}
