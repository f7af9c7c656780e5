package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/baderouaich/the-zero-overhead-principle/internal/canon"
	"github.com/baderouaich/the-zero-overhead-principle/internal/profile"
	"github.com/baderouaich/the-zero-overhead-principle/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fixture wires a fake toolchain, a listing directory, and variant source
// directories into a ready-to-use harness.
type fixture struct {
	harness    *Harness
	listingDir string
	root       string
}

func newFixture(t *testing.T, script string) *fixture {
	t.Helper()
	root := t.TempDir()
	listingDir := filepath.Join(root, "listings")
	require.NoError(t, os.MkdirAll(listingDir, 0755))

	p := profile.Profile{
		Name:           "fake",
		Toolchain:      testutil.FakeToolchain(t, script),
		BuildArgs:      []string{"build"},
		AsmArgs:        []string{"-gcflags=-S"},
		Env:            map[string]string{"LISTING_DIR": listingDir},
		ArtifactSuffix: ".s",
	}

	return &fixture{
		harness:    New(p, WithBinDir(filepath.Join(root, "bin"))),
		listingDir: listingDir,
		root:       root,
	}
}

// variant creates a source directory and the canned raw -S dump the fake
// toolchain will emit for it.
func (f *fixture) variant(t *testing.T, name string, instrs []string) Variant {
	t.Helper()
	dir := filepath.Join(f.root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0644))

	var b strings.Builder
	b.WriteString("main.main STEXT size=64 args=0x0 locals=0x18 funcid=0x0 align=0x0\n")
	for i, instr := range instrs {
		fmt.Fprintf(&b, "\t0x%04x %05d (main.go:%d)\t%s\n", i*4, i*4, i+1, instr)
	}
	require.NoError(t, os.WriteFile(filepath.Join(f.listingDir, name+".raw"), []byte(b.String()), 0644))

	return Variant{Name: name, Dir: dir}
}

var foldedInstrs = []string{
	"TEXT main.main(SB), ABIInternal, $24-0",
	"PUSHQ BP",
	"MOVQ SP, BP",
	"CALL runtime.printlock(SB)",
	"MOVL $22110, AX",
	"CALL runtime.printint(SB)",
	"POPQ BP",
	"RET",
}

func TestBuild_WritesArtifactAndBinary(t *testing.T) {
	f := newFixture(t, testutil.EchoListingScript)
	v := f.variant(t, "plain", foldedInstrs)

	a, err := f.harness.Build(context.Background(), v)
	require.NoError(t, err)

	assert.Equal(t, "plain", a.Variant)
	assert.Equal(t, len(foldedInstrs), a.InstructionCount)
	assert.Equal(t, filepath.Join(v.Dir, "plain.s"), a.Path)

	content, err := os.ReadFile(a.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "TEXT main.main\n"))
	assert.Contains(t, string(content), "\tMOVL $22110, AX\n")
	assert.Equal(t, canon.HashBytes(content), a.Hash)

	_, err = os.Stat(a.BinaryPath)
	assert.NoError(t, err, "executable pass output")
}

func TestBuild_Idempotent(t *testing.T) {
	f := newFixture(t, testutil.EchoListingScript)
	v := f.variant(t, "plain", foldedInstrs)
	ctx := context.Background()

	first, err := f.harness.Build(ctx, v)
	require.NoError(t, err)
	second, err := f.harness.Build(ctx, v)
	require.NoError(t, err)

	assert.Equal(t, first.Hash, second.Hash, "same configuration yields byte-identical artifacts")
}

func TestBuild_RequiresNameAndDir(t *testing.T) {
	f := newFixture(t, testutil.EchoListingScript)

	_, err := f.harness.Build(context.Background(), Variant{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "variant name and dir are required")
}

func TestBuild_ToolchainFailureSurfacedAsIs(t *testing.T) {
	f := newFixture(t, testutil.FailingScript)
	v := f.variant(t, "plain", foldedInstrs)

	_, err := f.harness.Build(context.Background(), v)
	require.Error(t, err)

	var buildErr *BuildError
	require.True(t, errors.As(err, &buildErr))
	assert.Equal(t, "plain", buildErr.Variant)
	assert.Equal(t, "executable", buildErr.Stage)
	assert.Contains(t, buildErr.Output, "syntax error")
}

func TestCompare_IdenticalListings(t *testing.T) {
	f := newFixture(t, testutil.EchoListingScript)
	plain := f.variant(t, "plain", foldedInstrs)
	abstraction := f.variant(t, "abstraction", foldedInstrs)

	report, err := f.harness.Compare(context.Background(), plain, abstraction)
	require.NoError(t, err)

	assert.Equal(t, VerdictEqual, report.Verdict)
	assert.True(t, report.Equal)
	assert.Equal(t, 0, report.Gap)
	assert.Empty(t, report.Diff)
	assert.True(t, report.Pass())
}

func TestCompare_AbstractionSmallerStillPasses(t *testing.T) {
	f := newFixture(t, testutil.EchoListingScript)
	plain := f.variant(t, "plain", foldedInstrs)
	abstraction := f.variant(t, "abstraction", foldedInstrs[:len(foldedInstrs)-2])

	report, err := f.harness.Compare(context.Background(), plain, abstraction)
	require.NoError(t, err)

	assert.Equal(t, VerdictZeroOverhead, report.Verdict)
	assert.False(t, report.Equal)
	assert.Equal(t, -2, report.Gap)
	assert.NotEmpty(t, report.Diff)
	assert.True(t, report.Pass())
}

func TestCompare_WidenedGapIsARegression(t *testing.T) {
	f := newFixture(t, testutil.EchoListingScript)
	plain := f.variant(t, "plain", foldedInstrs)

	// A second concrete implementation blocks devirtualization: dispatch
	// survives as indirect calls and the listing grows.
	bloated := append(append([]string{}, foldedInstrs...),
		"MOVQ main.statictmp(SB), CX",
		"CALL CX",
		"MOVQ 24(SP), AX",
	)
	abstraction := f.variant(t, "abstraction", bloated)

	report, err := f.harness.Compare(context.Background(), plain, abstraction)
	require.NoError(t, err)

	assert.Equal(t, VerdictOverhead, report.Verdict)
	assert.Equal(t, 3, report.Gap)
	assert.False(t, report.Pass())
	assert.Contains(t, report.Diff, "CALL CX")
}
