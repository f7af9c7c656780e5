// Package player defines the position semantics shared by both demo
// variants: a plain value type mutated through free functions, and an
// abstract movement capability with a single concrete implementation.
//
// The two APIs are deliberately equivalent. Every mutation expressible
// through one is expressible through the other, and the scenario
// interpreter exercises both to prove it.
package player

// Position is a 2D coordinate. All operations are total over fixed-width
// integers; overflow wraps per platform semantics and is not an error.
type Position struct {
	X int
	Y int
}

// SetX assigns the horizontal coordinate.
func SetX(p *Position, v int) { p.X = v }

// SetY assigns the vertical coordinate.
func SetY(p *Position, v int) { p.Y = v }

// GetX reads the horizontal coordinate.
func GetX(p *Position) int { return p.X }

// GetY reads the vertical coordinate.
func GetY(p *Position) int { return p.Y }

// MoveLeft decreases X by amount.
func MoveLeft(p *Position, amount int) { p.X -= amount }

// MoveRight increases X by amount.
func MoveRight(p *Position, amount int) { p.X += amount }

// MoveUp decreases Y by amount.
func MoveUp(p *Position, amount int) { p.Y -= amount }

// MoveDown increases Y by amount.
func MoveDown(p *Position, amount int) { p.Y += amount }
