package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baderouaich/the-zero-overhead-principle/internal/scenario"
)

// ValidationEntry is the per-fixture outcome of validate.
type ValidationEntry struct {
	Path  string `json:"path"`
	Name  string `json:"name,omitempty"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "validate <fixtures-dir>",
		Short:         "Validate all scenario fixtures in a directory",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "fixtures directory unreadable", err)
	}

	var results []ValidationEntry
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		result := ValidationEntry{Path: path, Valid: true}
		if s, err := scenario.Load(path); err != nil {
			result.Valid = false
			result.Error = err.Error()
		} else {
			result.Name = s.Name
		}
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	if len(results) == 0 {
		msg := fmt.Sprintf("no scenario fixtures found in %s", dir)
		_ = formatter.Error(ErrCodeInvalidInput, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	invalid := 0
	for _, r := range results {
		if !r.Valid {
			invalid++
		}
	}

	if formatter.Format == "json" {
		if err := formatter.Success(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(formatter.Writer, "✓ %s (%s)\n", r.Path, r.Name)
			} else {
				fmt.Fprintf(formatter.Writer, "✗ %s\n  %s\n", r.Path, r.Error)
			}
		}
		fmt.Fprintf(formatter.Writer, "\n%d fixture(s), %d invalid\n", len(results), invalid)
	}

	if invalid > 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("%d invalid fixture(s)", invalid))
	}
	return nil
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
