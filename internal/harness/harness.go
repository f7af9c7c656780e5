package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/baderouaich/the-zero-overhead-principle/internal/asm"
	"github.com/baderouaich/the-zero-overhead-principle/internal/canon"
	"github.com/baderouaich/the-zero-overhead-principle/internal/profile"
)

// BuildError is a failed toolchain invocation. The toolchain's own
// diagnostics are carried verbatim in Output.
type BuildError struct {
	Variant string
	Stage   string // "executable" or "listing"
	Output  string
	Err     error
}

func (e *BuildError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("building %s (%s pass): %v\n%s", e.Variant, e.Stage, e.Err, e.Output)
	}
	return fmt.Sprintf("building %s (%s pass): %v", e.Variant, e.Stage, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Harness builds variants under one profile.
type Harness struct {
	profile profile.Profile
	binDir  string
	logger  *zap.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithBinDir sets where executables are written. Defaults to "bin".
func WithBinDir(dir string) Option {
	return func(h *Harness) { h.binDir = dir }
}

// New creates a Harness for the given profile.
func New(p profile.Profile, opts ...Option) *Harness {
	h := &Harness{
		profile: p,
		binDir:  "bin",
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Build compiles one variant: an executable into the bin directory, then a
// listing pass whose normalized -S output is written next to the source as
// the variant's artifact.
func (h *Harness) Build(ctx context.Context, v Variant) (*Artifact, error) {
	if v.Name == "" || v.Dir == "" {
		return nil, fmt.Errorf("variant name and dir are required")
	}
	if err := os.MkdirAll(h.binDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create bin dir: %w", err)
	}

	exe, err := filepath.Abs(filepath.Join(h.binDir, v.Name))
	if err != nil {
		return nil, err
	}

	// Pass 1: executable.
	args := append([]string{}, h.profile.BuildArgs...)
	args = append(args, "-o", exe, ".")
	if _, err := h.invoke(ctx, v, "executable", args); err != nil {
		return nil, err
	}

	// Pass 2: listing. The dump lands on stderr; the object output is
	// discarded.
	args = append([]string{}, h.profile.BuildArgs...)
	args = append(args, h.profile.AsmArgs...)
	args = append(args, "-o", os.DevNull, ".")
	stderr, err := h.invoke(ctx, v, "listing", args)
	if err != nil {
		return nil, err
	}

	listing, err := asm.Parse(bytes.NewReader(stderr))
	if err != nil {
		return nil, fmt.Errorf("parsing %s listing: %w", v.Name, err)
	}

	rendered := listing.Render()
	artifactPath := filepath.Join(v.Dir, v.Name+h.profile.ArtifactSuffix)
	if err := os.WriteFile(artifactPath, rendered, 0644); err != nil {
		return nil, fmt.Errorf("writing %s artifact: %w", v.Name, err)
	}

	a := &Artifact{
		Variant:          v.Name,
		Path:             artifactPath,
		BinaryPath:       exe,
		InstructionCount: listing.InstructionCount(),
		Hash:             canon.HashBytes(rendered),
		Lines:            listing.Lines(),
		rendered:         rendered,
	}

	h.logger.Info("variant built",
		zap.String("variant", v.Name),
		zap.String("artifact", artifactPath),
		zap.Int("instructions", a.InstructionCount),
		zap.String("hash", a.Hash))

	return a, nil
}

// invoke runs the toolchain once and returns its stderr.
func (h *Harness) invoke(ctx context.Context, v Variant, stage string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, h.profile.Toolchain, args...)
	cmd.Dir = v.Dir
	cmd.Env = mergedEnv(h.profile.Env)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	h.logger.Debug("toolchain invocation",
		zap.String("variant", v.Name),
		zap.String("stage", stage),
		zap.String("toolchain", h.profile.Toolchain),
		zap.Strings("args", args),
		zap.Duration("duration", duration),
		zap.Bool("failed", err != nil))

	if err != nil {
		return nil, &BuildError{
			Variant: v.Name,
			Stage:   stage,
			Output:  stderr.String(),
			Err:     err,
		}
	}
	return stderr.Bytes(), nil
}

// mergedEnv overlays the profile environment on the inherited one.
func mergedEnv(overrides map[string]string) []string {
	env := os.Environ()
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+overrides[k])
	}
	return env
}
