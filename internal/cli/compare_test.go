package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baderouaich/the-zero-overhead-principle/internal/testutil"
)

// compareFixture lays out everything a compare invocation needs: a fake
// toolchain, a profiles file pointing at it, variant directories, and the
// canned listings the toolchain will emit.
type compareFixture struct {
	profilesFile string
	plainDir     string
	abstractDir  string
	binDir       string
	listingDir   string
}

func newCompareFixture(t *testing.T) *compareFixture {
	t.Helper()
	root := t.TempDir()

	f := &compareFixture{
		profilesFile: filepath.Join(root, "profiles.cue"),
		plainDir:     filepath.Join(root, "plain"),
		abstractDir:  filepath.Join(root, "abstraction"),
		binDir:       filepath.Join(root, "bin"),
		listingDir:   filepath.Join(root, "listings"),
	}
	for _, dir := range []string{f.plainDir, f.abstractDir, f.listingDir} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}

	toolchain := testutil.FakeToolchain(t, testutil.EchoListingScript)
	content := fmt.Sprintf(`
profiles: fake: {
	toolchain: %q
	buildArgs: ["build"]
	asmArgs: ["-gcflags=-S"]
	env: LISTING_DIR: %q
	artifactSuffix: ".s"
}
`, toolchain, f.listingDir)
	require.NoError(t, os.WriteFile(f.profilesFile, []byte(content), 0644))

	return f
}

func (f *compareFixture) setListing(t *testing.T, variant string, instrs []string) {
	t.Helper()
	var b strings.Builder
	b.WriteString("main.main STEXT size=64 args=0x0 locals=0x18 funcid=0x0 align=0x0\n")
	for i, instr := range instrs {
		fmt.Fprintf(&b, "\t0x%04x %05d (main.go:%d)\t%s\n", i*4, i*4, i+1, instr)
	}
	require.NoError(t, os.WriteFile(filepath.Join(f.listingDir, variant+".raw"), []byte(b.String()), 0644))
}

func (f *compareFixture) args(extra ...string) []string {
	args := []string{
		"compare",
		"--profiles", f.profilesFile,
		"--profile", "fake",
		"--plain", f.plainDir,
		"--abstraction", f.abstractDir,
		"--bin", f.binDir,
	}
	return append(args, extra...)
}

var testInstrs = []string{
	"TEXT main.main(SB), ABIInternal, $24-0",
	"MOVL $22110, AX",
	"CALL runtime.printint(SB)",
	"RET",
}

func TestCompareCommand_EqualListings(t *testing.T) {
	f := newCompareFixture(t)
	f.setListing(t, "plain", testInstrs)
	f.setListing(t, "abstraction", testInstrs)

	out, err := execute(t, f.args()...)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Verdict: equal")
	assert.Contains(t, out, "gap:         +0")

	// Artifacts persisted next to the sources.
	for _, dir := range []string{f.plainDir, f.abstractDir} {
		_, err := os.Stat(filepath.Join(dir, filepath.Base(dir)+".s"))
		assert.NoError(t, err)
	}
}

func TestCompareCommand_OverheadFails(t *testing.T) {
	f := newCompareFixture(t)
	f.setListing(t, "plain", testInstrs)
	f.setListing(t, "abstraction", append(append([]string{}, testInstrs...),
		"MOVQ main.statictmp(SB), CX",
		"CALL CX",
	))

	out, err := execute(t, f.args()...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Verdict: overhead")
	assert.Contains(t, out, "gap:         +2")
	assert.Contains(t, out, "CALL CX")
}

func TestCompareCommand_RecordsHistory(t *testing.T) {
	f := newCompareFixture(t)
	f.setListing(t, "plain", testInstrs)
	f.setListing(t, "abstraction", testInstrs)

	dbPath := filepath.Join(t.TempDir(), "zop.db")
	_, err := execute(t, f.args("--db", dbPath)...)
	require.NoError(t, err)

	out, err := execute(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "verdict=equal")
	assert.Contains(t, out, "plain")
	assert.Contains(t, out, "abstraction")
}

func TestCompareCommand_ToolchainFailure(t *testing.T) {
	f := newCompareFixture(t)
	f.setListing(t, "plain", testInstrs)
	f.setListing(t, "abstraction", testInstrs)

	// Swap in a failing toolchain.
	failing := testutil.FakeToolchain(t, testutil.FailingScript)
	content := fmt.Sprintf(`
profiles: fake: {
	toolchain: %q
	buildArgs: ["build"]
	asmArgs: ["-gcflags=-S"]
	artifactSuffix: ".s"
}
`, failing)
	require.NoError(t, os.WriteFile(f.profilesFile, []byte(content), 0644))

	out, err := execute(t, f.args()...)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "syntax error")
}

func TestCompareCommand_UnknownProfile(t *testing.T) {
	f := newCompareFixture(t)

	args := f.args()
	for i, a := range args {
		if a == "fake" {
			args[i] = "missing"
		}
	}
	_, err := execute(t, args...)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "profile resolution failed")
}

func TestCompareCommand_JSONReport(t *testing.T) {
	f := newCompareFixture(t)
	f.setListing(t, "plain", testInstrs)
	f.setListing(t, "abstraction", testInstrs)

	out, err := execute(t, append([]string{"--format", "json"}, f.args()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "ok"`)
	assert.Contains(t, out, `"verdict": "equal"`)
	assert.Contains(t, out, `"instruction_count": 4`)
}
