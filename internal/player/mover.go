package player

// Mover is the abstract movement capability. It mirrors the free-function
// API over Position and adds Shift, an in-place adjustment of both axes by
// one scalar.
//
// Exactly one concrete implementation exists (Player). That is the point:
// with a single implementation, dynamic dispatch is statically resolvable
// and the abstraction must cost nothing after optimization.
type Mover interface {
	X() int
	Y() int
	SetX(v int)
	SetY(v int)
	MoveLeft(amount int)
	MoveRight(amount int)
	MoveUp(amount int)
	MoveDown(amount int)
	Shift(amount int)
}

// Player is the only concrete Mover.
type Player struct {
	pos Position
}

var _ Mover = (*Player)(nil)

// NewPlayer returns a Player at the given coordinates.
func NewPlayer(x, y int) *Player {
	return &Player{pos: Position{X: x, Y: y}}
}

func (p *Player) X() int { return p.pos.X }

func (p *Player) Y() int { return p.pos.Y }

func (p *Player) SetX(v int) { p.pos.X = v }

func (p *Player) SetY(v int) { p.pos.Y = v }

func (p *Player) MoveLeft(amount int) { p.pos.X -= amount }

func (p *Player) MoveRight(amount int) { p.pos.X += amount }

func (p *Player) MoveUp(amount int) { p.pos.Y -= amount }

func (p *Player) MoveDown(amount int) { p.pos.Y += amount }

// Shift adjusts both axes by amount.
func (p *Player) Shift(amount int) {
	p.pos.X += amount
	p.pos.Y += amount
}
