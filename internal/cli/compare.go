package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/baderouaich/the-zero-overhead-principle/internal/harness"
	"github.com/baderouaich/the-zero-overhead-principle/internal/store"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	Profile      string
	ProfilesFile string
	BinDir       string
	PlainDir     string
	AbstractDir  string
	DBPath       string
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Build both variants and check the zero-overhead criterion",
		Long: `Build the plain-data and abstraction variants under the same profile and
compare their normalized instruction listings.

The comparison passes when the listings are identical, or when the
abstraction variant needs no more instructions than the plain one. A
positive gap is the regression signal and exits with code 1.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, cmd)
		},
	}

	addProfileFlags(cmd, &opts.Profile, &opts.ProfilesFile)
	cmd.Flags().StringVar(&opts.BinDir, "bin", "bin", "directory for built executables")
	cmd.Flags().StringVar(&opts.PlainDir, "plain", "variants/plain", "plain-data variant directory")
	cmd.Flags().StringVar(&opts.AbstractDir, "abstraction", "variants/abstraction", "abstraction variant directory")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database to record run history (optional)")

	return cmd
}

func runCompare(opts *CompareOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	report, err := compareOnce(cmd.Context(), opts, formatter)
	if err != nil {
		return err
	}

	if err := outputReport(formatter, report); err != nil {
		return err
	}

	if !report.Pass() {
		return NewExitError(ExitFailure,
			fmt.Sprintf("abstraction variant costs %d extra instruction(s)", report.Gap))
	}
	return nil
}

// compareOnce runs one full build/compare cycle and records it when a
// database path is configured. Shared with the watch command.
func compareOnce(ctx context.Context, opts *CompareOptions, formatter *OutputFormatter) (*harness.Report, error) {
	p, err := resolveProfile(opts.Profile, opts.ProfilesFile)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidInput, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "profile resolution failed", err)
	}

	logger := newLogger(opts.RootOptions)
	defer logger.Sync()

	h := harness.New(p, harness.WithLogger(logger), harness.WithBinDir(opts.BinDir))
	plain := harness.Variant{Name: "plain", Dir: opts.PlainDir}
	abstraction := harness.Variant{Name: "abstraction", Dir: opts.AbstractDir}

	formatter.VerboseLog("Comparing %s and %s under profile %s", plain.Dir, abstraction.Dir, p.Name)

	report, err := h.Compare(ctx, plain, abstraction)
	if err != nil {
		_ = formatter.Error(ErrCodeBuildFailed, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "build failed", err)
	}

	if opts.DBPath != "" {
		if err := recordReport(ctx, opts.DBPath, report); err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return nil, WrapExitError(ExitCommandError, "recording run failed", err)
		}
		formatter.VerboseLog("Recorded run in %s", opts.DBPath)
	}

	return report, nil
}

func recordReport(ctx context.Context, dbPath string, report *harness.Report) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	return st.RecordRun(ctx, store.Run{
		ID:        uuid.Must(uuid.NewV7()).String(),
		CreatedAt: time.Now(),
		Profile:   report.Profile,
		Verdict:   string(report.Verdict),
		Gap:       report.Gap,
		Artifacts: []store.ArtifactRow{
			{
				Variant:          report.Plain.Variant,
				Path:             report.Plain.Path,
				InstructionCount: report.Plain.InstructionCount,
				ContentHash:      report.Plain.Hash,
			},
			{
				Variant:          report.Abstraction.Variant,
				Path:             report.Abstraction.Path,
				InstructionCount: report.Abstraction.InstructionCount,
				ContentHash:      report.Abstraction.Hash,
			},
		},
	})
}

func outputReport(formatter *OutputFormatter, report *harness.Report) error {
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	mark := "✓"
	if !report.Pass() {
		mark = "✗"
	}
	fmt.Fprintf(formatter.Writer, "%s Verdict: %s (profile %s)\n\n", mark, report.Verdict, report.Profile)
	fmt.Fprintf(formatter.Writer, "  plain:       %d instruction(s)  %s\n",
		report.Plain.InstructionCount, report.Plain.Path)
	fmt.Fprintf(formatter.Writer, "  abstraction: %d instruction(s)  %s\n",
		report.Abstraction.InstructionCount, report.Abstraction.Path)
	fmt.Fprintf(formatter.Writer, "  gap:         %+d\n", report.Gap)

	if report.Diff != "" {
		fmt.Fprintf(formatter.Writer, "\nListing diff (plain vs abstraction):\n%s\n", report.Diff)
	}
	return nil
}
