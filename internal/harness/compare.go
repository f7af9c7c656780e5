package harness

import (
	"bytes"
	"context"

	"github.com/google/go-cmp/cmp"
)

// Compare builds both variants and compares their artifacts. The two
// builds are independent; order is irrelevant but they run sequentially.
func (h *Harness) Compare(ctx context.Context, plain, abstraction Variant) (*Report, error) {
	pa, err := h.Build(ctx, plain)
	if err != nil {
		return nil, err
	}
	aa, err := h.Build(ctx, abstraction)
	if err != nil {
		return nil, err
	}
	return CompareArtifacts(h.profile.Name, pa, aa), nil
}

// CompareArtifacts evaluates the zero-overhead criterion over two built
// artifacts: listings equal, or the abstraction listing no larger than the
// plain one. A positive gap is a regression, reported, never an error.
func CompareArtifacts(profileName string, plain, abstraction *Artifact) *Report {
	r := &Report{
		Profile:     profileName,
		Plain:       plain,
		Abstraction: abstraction,
		Equal:       bytes.Equal(plain.rendered, abstraction.rendered),
		Gap:         abstraction.InstructionCount - plain.InstructionCount,
	}

	switch {
	case r.Equal:
		r.Verdict = VerdictEqual
	case r.Gap <= 0:
		r.Verdict = VerdictZeroOverhead
	default:
		r.Verdict = VerdictOverhead
	}

	if !r.Equal {
		r.Diff = cmp.Diff(plain.Lines, abstraction.Lines)
	}
	return r
}
