// Package profile loads build profiles from CUE. A profile is the fixed
// compiler configuration of the harness: toolchain command, argument lists
// for the executable and listing passes, pinned environment, and the
// artifact suffix.
package profile

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed profiles.cue
var embeddedProfiles []byte

// DefaultName is the profile used when none is named.
const DefaultName = "gc"

// Profile is one pinned compiler configuration.
type Profile struct {
	Name           string            `json:"-"`
	Toolchain      string            `json:"toolchain"`
	BuildArgs      []string          `json:"buildArgs"`
	AsmArgs        []string          `json:"asmArgs"`
	Env            map[string]string `json:"env,omitempty"`
	ArtifactSuffix string            `json:"artifactSuffix"`
}

// CompileError is a profile definition error with CUE position context.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s (%s:%d:%d)", e.Field, e.Message, e.Pos.Filename(), e.Pos.Line(), e.Pos.Column())
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Defaults returns the embedded profiles.
func Defaults() (map[string]Profile, error) {
	return Load(embeddedProfiles, "profiles.cue")
}

// Default returns the embedded profile named DefaultName.
func Default() (Profile, error) {
	profiles, err := Defaults()
	if err != nil {
		return Profile{}, err
	}
	p, ok := profiles[DefaultName]
	if !ok {
		return Profile{}, fmt.Errorf("embedded profiles are missing %q", DefaultName)
	}
	return p, nil
}

// LoadFile loads profiles from a CUE file on disk.
func LoadFile(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}
	return Load(data, path)
}

// Load compiles CUE source and extracts the profiles struct.
func Load(data []byte, filename string) (map[string]Profile, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	profilesVal := v.LookupPath(cue.ParsePath("profiles"))
	if !profilesVal.Exists() {
		return nil, &CompileError{
			Field:   "profiles",
			Message: "profiles struct is required",
			Pos:     v.Pos(),
		}
	}
	if err := profilesVal.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	result := make(map[string]Profile)
	iter, err := profilesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		var p Profile
		if err := iter.Value().Decode(&p); err != nil {
			return nil, formatCUEError(err)
		}
		p.Name = name
		if err := validateProfile(&p, iter.Value().Pos()); err != nil {
			return nil, err
		}
		result[name] = p
	}

	if len(result) == 0 {
		return nil, &CompileError{
			Field:   "profiles",
			Message: "at least one profile is required",
			Pos:     profilesVal.Pos(),
		}
	}
	return result, nil
}

// validateProfile enforces the constraints the CUE schema also declares.
// File-based profiles may skip the #Profile definition, so the Go side
// checks again.
func validateProfile(p *Profile, pos token.Pos) error {
	switch {
	case p.Toolchain == "":
		return &CompileError{Field: p.Name + ".toolchain", Message: "toolchain is required", Pos: pos}
	case len(p.BuildArgs) == 0:
		return &CompileError{Field: p.Name + ".buildArgs", Message: "buildArgs must be non-empty", Pos: pos}
	case len(p.AsmArgs) == 0:
		return &CompileError{Field: p.Name + ".asmArgs", Message: "asmArgs must be non-empty", Pos: pos}
	case !strings.HasPrefix(p.ArtifactSuffix, "."):
		return &CompileError{Field: p.Name + ".artifactSuffix", Message: "artifactSuffix must start with a dot", Pos: pos}
	}
	return nil
}

func formatCUEError(err error) error {
	var pos token.Pos
	if positions := cueerrors.Positions(err); len(positions) > 0 {
		pos = positions[0]
	}
	return &CompileError{
		Field:   "profiles",
		Message: cueerrors.Details(err, nil),
		Pos:     pos,
	}
}
