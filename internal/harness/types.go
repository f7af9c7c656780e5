package harness

// Variant identifies one of the two demo programs.
type Variant struct {
	// Name labels the variant ("plain", "abstraction") and names its
	// artifacts.
	Name string

	// Dir is the directory holding the variant's main package.
	Dir string
}

// Artifact is the outcome of building one variant.
type Artifact struct {
	// Variant is the variant name.
	Variant string `json:"variant"`

	// Path is the normalized listing file written next to the source.
	Path string `json:"path"`

	// BinaryPath is the executable produced by the first pass.
	BinaryPath string `json:"binary_path"`

	// InstructionCount is the total over all text symbols.
	InstructionCount int `json:"instruction_count"`

	// Hash is the SHA-256 of the artifact bytes.
	Hash string `json:"hash"`

	// Lines is the flattened normalized listing, used for diffing.
	Lines []string `json:"-"`

	rendered []byte
}

// Verdict classifies a comparison.
type Verdict string

const (
	// VerdictEqual means the two listings are byte-identical.
	VerdictEqual Verdict = "equal"

	// VerdictZeroOverhead means the listings differ but the abstraction
	// variant needs no more instructions than the plain one.
	VerdictZeroOverhead Verdict = "zero_overhead"

	// VerdictOverhead means the abstraction variant is larger. This is the
	// detectable regression the harness exists to surface.
	VerdictOverhead Verdict = "overhead"
)

// Report is the result of comparing the two variants' artifacts.
type Report struct {
	Profile     string    `json:"profile"`
	Plain       *Artifact `json:"plain"`
	Abstraction *Artifact `json:"abstraction"`

	// Equal is true when the normalized listings are byte-identical.
	Equal bool `json:"equal"`

	// Gap is abstraction minus plain instruction count. Positive means
	// the abstraction costs extra instructions.
	Gap int `json:"gap"`

	Verdict Verdict `json:"verdict"`

	// Diff is a human-readable line diff, populated only when the
	// listings differ.
	Diff string `json:"diff,omitempty"`
}

// Pass reports whether the zero-overhead criterion holds.
func (r *Report) Pass() bool {
	return r.Verdict != VerdictOverhead
}

// Snapshot converts the report to a canonical-JSON-friendly map for
// hashing and golden comparison.
func (r *Report) Snapshot() map[string]any {
	return map[string]any{
		"profile": r.Profile,
		"plain": map[string]any{
			"instruction_count": r.Plain.InstructionCount,
			"hash":              r.Plain.Hash,
		},
		"abstraction": map[string]any{
			"instruction_count": r.Abstraction.InstructionCount,
			"hash":              r.Abstraction.Hash,
		},
		"equal":   r.Equal,
		"gap":     r.Gap,
		"verdict": string(r.Verdict),
	}
}
