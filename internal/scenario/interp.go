package scenario

import (
	"fmt"

	"github.com/baderouaich/the-zero-overhead-principle/internal/player"
)

// Result is the outcome of running a scenario through both APIs.
type Result struct {
	// Plain is the final product computed through the free-function API.
	Plain int `json:"plain"`

	// Abstraction is the final product computed through the Mover interface.
	Abstraction int `json:"abstraction"`

	// Expected is the product the fixture declares.
	Expected int `json:"expected"`

	// Pass is true when all three values agree.
	Pass bool `json:"pass"`
}

// Run executes the scenario through both APIs and checks the oracle.
// Execution errors (division by a zero field) are returned as errors;
// value disagreement is reported in the Result, not as an error.
func Run(s *Scenario) (*Result, error) {
	plain, err := RunPlain(s)
	if err != nil {
		return nil, fmt.Errorf("plain execution: %w", err)
	}
	abstraction, err := RunMover(s)
	if err != nil {
		return nil, fmt.Errorf("abstraction execution: %w", err)
	}

	expected := *s.Expected
	return &Result{
		Plain:       plain,
		Abstraction: abstraction,
		Expected:    expected,
		Pass:        plain == expected && abstraction == expected,
	}, nil
}

// RunPlain executes the scenario through the free-function API and returns
// the product of the three final x fields. The shift op has no single-call
// equivalent here and is spelled as one addition per axis.
func RunPlain(s *Scenario) (int, error) {
	ps := [3]player.Position{}
	for i, seed := range s.Seeds {
		ps[i] = player.Position{X: seed.X, Y: seed.Y}
	}

	read := func(ref *FieldRef) int {
		p := &ps[ref.Instance-1]
		if ref.Field == "x" {
			return player.GetX(p)
		}
		return player.GetY(p)
	}

	for i, st := range s.Steps {
		amount := stepAmount(&st, read)

		switch st.Op {
		case OpMoveLeft:
			player.MoveLeft(&ps[st.Target-1], amount)
		case OpMoveRight:
			player.MoveRight(&ps[st.Target-1], amount)
		case OpMoveUp:
			player.MoveUp(&ps[st.Target-1], amount)
		case OpMoveDown:
			player.MoveDown(&ps[st.Target-1], amount)
		case OpSetXProduct, OpSetXQuotient:
			v, err := setValue(&st, read)
			if err != nil {
				return 0, fmt.Errorf("steps[%d]: %w", i, err)
			}
			player.SetX(&ps[st.Target-1], v)
		case OpSetYProduct, OpSetYQuotient:
			v, err := setValue(&st, read)
			if err != nil {
				return 0, fmt.Errorf("steps[%d]: %w", i, err)
			}
			player.SetY(&ps[st.Target-1], v)
		case OpShift:
			for _, idx := range shiftTargets(&st) {
				player.MoveRight(&ps[idx], st.Amount)
				player.MoveDown(&ps[idx], st.Amount)
			}
		}
	}

	return player.GetX(&ps[0]) * player.GetX(&ps[1]) * player.GetX(&ps[2]), nil
}

// RunMover executes the scenario through the Mover interface and returns
// the product of the three final x fields.
func RunMover(s *Scenario) (int, error) {
	ms := [3]player.Mover{}
	for i, seed := range s.Seeds {
		ms[i] = player.NewPlayer(seed.X, seed.Y)
	}

	read := func(ref *FieldRef) int {
		m := ms[ref.Instance-1]
		if ref.Field == "x" {
			return m.X()
		}
		return m.Y()
	}

	for i, st := range s.Steps {
		amount := stepAmount(&st, read)

		switch st.Op {
		case OpMoveLeft:
			ms[st.Target-1].MoveLeft(amount)
		case OpMoveRight:
			ms[st.Target-1].MoveRight(amount)
		case OpMoveUp:
			ms[st.Target-1].MoveUp(amount)
		case OpMoveDown:
			ms[st.Target-1].MoveDown(amount)
		case OpSetXProduct, OpSetXQuotient:
			v, err := setValue(&st, read)
			if err != nil {
				return 0, fmt.Errorf("steps[%d]: %w", i, err)
			}
			ms[st.Target-1].SetX(v)
		case OpSetYProduct, OpSetYQuotient:
			v, err := setValue(&st, read)
			if err != nil {
				return 0, fmt.Errorf("steps[%d]: %w", i, err)
			}
			ms[st.Target-1].SetY(v)
		case OpShift:
			for _, idx := range shiftTargets(&st) {
				ms[idx].Shift(st.Amount)
			}
		}
	}

	return ms[0].X() * ms[1].X() * ms[2].X(), nil
}

// stepAmount resolves the operand of a move op: a literal amount, or half
// of a referenced field.
func stepAmount(st *Step, read func(*FieldRef) int) int {
	if st.Halve != nil {
		return read(st.Halve) / 2
	}
	return st.Amount
}

// setValue resolves the value of a set op from its two operand refs.
func setValue(st *Step, read func(*FieldRef) int) (int, error) {
	left := read(st.Left)
	right := read(st.Right)
	switch st.Op {
	case OpSetXProduct, OpSetYProduct:
		return left * right, nil
	case OpSetXQuotient, OpSetYQuotient:
		if right == 0 {
			return 0, fmt.Errorf("quotient operand %s of instance %d is zero", st.Right.Field, st.Right.Instance)
		}
		return left / right, nil
	}
	return 0, fmt.Errorf("op %q is not a set op", st.Op)
}

func shiftTargets(st *Step) []int {
	if st.Target == 0 {
		return []int{0, 1, 2}
	}
	return []int{st.Target - 1}
}
