// Package scenario defines the fixture format for position scenarios and an
// interpreter that executes each fixture twice, once through the plain
// free-function API and once through the Mover interface.
//
// A scenario is the value-level oracle of the demo: whatever sequence of
// mutations it describes, both APIs must land on the same final product of
// the three x fields. The upstream example exists in slightly divergent
// revisions (quotient vs product on the y axis, with or without the scalar
// shift); each revision is an independent fixture, never reconciled.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a fixed, literal sequence of operations over three position
// instances. Expected is the product of the three final x fields.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains which revision of the demo this fixture captures.
	Description string `yaml:"description"`

	// Seeds are the initial coordinates. Exactly three instances.
	Seeds []Seed `yaml:"seeds"`

	// Steps is the mutation sequence, applied in order.
	Steps []Step `yaml:"steps"`

	// Expected is the product of the three final x fields.
	Expected *int `yaml:"expected"`
}

// Seed is one initial coordinate pair.
type Seed struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Step is a single mutation. Target is 1-based; most ops take a literal
// Amount, the set ops combine two field references, and the move ops may
// instead take Halve (move by half of a referenced field, as the original
// programs do).
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// Target is the 1-based instance to mutate. For OpShift a zero target
	// means all three instances.
	Target int `yaml:"target,omitempty"`

	// Amount is the literal operand for move and shift ops.
	Amount int `yaml:"amount,omitempty"`

	// Halve references a field whose half is the operand of a move op.
	Halve *FieldRef `yaml:"halve,omitempty"`

	// Left and Right are the operands of the set ops.
	Left  *FieldRef `yaml:"left,omitempty"`
	Right *FieldRef `yaml:"right,omitempty"`
}

// FieldRef names one field of one instance.
type FieldRef struct {
	Instance int    `yaml:"instance"`
	Field    string `yaml:"field"` // "x" or "y"
}

// Step operations.
const (
	OpMoveLeft     = "move_left"
	OpMoveRight    = "move_right"
	OpMoveUp       = "move_up"
	OpMoveDown     = "move_down"
	OpSetXProduct  = "set_x_product"
	OpSetXQuotient = "set_x_quotient"
	OpSetYProduct  = "set_y_product"
	OpSetYQuotient = "set_y_quotient"
	OpShift        = "shift"
)

// Load reads and parses a scenario YAML file. Unknown fields are rejected
// so fixture typos fail loudly.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse parses scenario YAML bytes and validates the result.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validate(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func validate(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Seeds) != 3 {
		return fmt.Errorf("exactly 3 seeds are required, got %d", len(s.Seeds))
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if s.Expected == nil {
		return fmt.Errorf("expected is required")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, st *Step) error {
	switch st.Op {
	case OpMoveLeft, OpMoveRight, OpMoveUp, OpMoveDown:
		if err := validateTarget(index, st.Target, false); err != nil {
			return err
		}
		if st.Halve != nil {
			return validateRef(index, "halve", st.Halve)
		}
		if st.Amount == 0 {
			return fmt.Errorf("steps[%d]: amount or halve is required for %s", index, st.Op)
		}
	case OpSetXProduct, OpSetXQuotient, OpSetYProduct, OpSetYQuotient:
		if err := validateTarget(index, st.Target, false); err != nil {
			return err
		}
		if st.Left == nil || st.Right == nil {
			return fmt.Errorf("steps[%d]: left and right are required for %s", index, st.Op)
		}
		if err := validateRef(index, "left", st.Left); err != nil {
			return err
		}
		if err := validateRef(index, "right", st.Right); err != nil {
			return err
		}
	case OpShift:
		if err := validateTarget(index, st.Target, true); err != nil {
			return err
		}
		if st.Amount == 0 {
			return fmt.Errorf("steps[%d]: amount is required for shift", index)
		}
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}
	return nil
}

func validateTarget(index, target int, zeroOK bool) error {
	if target == 0 && zeroOK {
		return nil
	}
	if target < 1 || target > 3 {
		return fmt.Errorf("steps[%d]: target must be 1..3, got %d", index, target)
	}
	return nil
}

func validateRef(index int, name string, ref *FieldRef) error {
	if ref.Instance < 1 || ref.Instance > 3 {
		return fmt.Errorf("steps[%d].%s: instance must be 1..3, got %d", index, name, ref.Instance)
	}
	if ref.Field != "x" && ref.Field != "y" {
		return fmt.Errorf("steps[%d].%s: field must be \"x\" or \"y\", got %q", index, name, ref.Field)
	}
	return nil
}
