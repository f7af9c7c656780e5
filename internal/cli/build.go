package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/baderouaich/the-zero-overhead-principle/internal/harness"
	"github.com/baderouaich/the-zero-overhead-principle/internal/profile"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Profile      string
	ProfilesFile string
	BinDir       string
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <variant-dir>",
		Short: "Compile one variant and emit its instruction listing",
		Long: `Compile the variant in the given directory under the selected profile.

The toolchain runs twice: once for the executable, once for the -S dump.
The normalized listing is written next to the source as <name>.s.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	addProfileFlags(cmd, &opts.Profile, &opts.ProfilesFile)
	cmd.Flags().StringVar(&opts.BinDir, "bin", "bin", "directory for built executables")

	return cmd
}

func addProfileFlags(cmd *cobra.Command, name *string, file *string) {
	cmd.Flags().StringVar(name, "profile", profile.DefaultName, "build profile name")
	cmd.Flags().StringVar(file, "profiles", "", "CUE file with profile definitions (default: embedded)")
}

// resolveProfile loads the named profile from the given CUE file, or from
// the embedded defaults.
func resolveProfile(name, file string) (profile.Profile, error) {
	var (
		profiles map[string]profile.Profile
		err      error
	)
	if file != "" {
		profiles, err = profile.LoadFile(file)
	} else {
		profiles, err = profile.Defaults()
	}
	if err != nil {
		return profile.Profile{}, err
	}

	p, ok := profiles[name]
	if !ok {
		return profile.Profile{}, fmt.Errorf("unknown profile %q", name)
	}
	return p, nil
}

func runBuild(opts *BuildOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	p, err := resolveProfile(opts.Profile, opts.ProfilesFile)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "profile resolution failed", err)
	}

	logger := newLogger(opts.RootOptions)
	defer logger.Sync()

	h := harness.New(p, harness.WithLogger(logger), harness.WithBinDir(opts.BinDir))
	v := harness.Variant{Name: filepath.Base(filepath.Clean(dir)), Dir: dir}

	formatter.VerboseLog("Building %s under profile %s", v.Name, p.Name)

	artifact, err := h.Build(cmd.Context(), v)
	if err != nil {
		_ = formatter.Error(ErrCodeBuildFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "build failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(artifact)
	}

	fmt.Fprintf(formatter.Writer, "✓ Built %s\n", v.Name)
	fmt.Fprintf(formatter.Writer, "  binary:       %s\n", artifact.BinaryPath)
	fmt.Fprintf(formatter.Writer, "  listing:      %s\n", artifact.Path)
	fmt.Fprintf(formatter.Writer, "  instructions: %d\n", artifact.InstructionCount)
	fmt.Fprintf(formatter.Writer, "  hash:         %s\n", artifact.Hash)
	return nil
}
