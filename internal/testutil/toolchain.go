// Package testutil provides deterministic test doubles for the harness.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// FakeToolchain writes an executable shell script into a temp directory and
// returns its path. Harness tests point a profile's toolchain at the script
// so builds are deterministic and never depend on a real compiler.
func FakeToolchain(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fakecc")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

// EchoListingScript emulates the compiler driver's two passes: it creates
// whatever -o names, and on the listing pass dumps a canned -S file to
// stderr. The file is looked up under the LISTING_DIR environment variable
// by the working directory's base name, which the harness sets to the
// variant directory.
const EchoListingScript = `#!/bin/sh
asm=0
while [ $# -gt 0 ]; do
  case "$1" in
    -o) shift; : > "$1" ;;
    -gcflags=-S) asm=1 ;;
  esac
  shift
done
if [ "$asm" = "1" ]; then
  cat "$LISTING_DIR/$(basename "$PWD").raw" >&2
fi
exit 0
`

// FailingScript emulates a toolchain rejecting the input outright.
const FailingScript = `#!/bin/sh
echo "main.go:3:1: syntax error: unexpected }" >&2
exit 1
`
