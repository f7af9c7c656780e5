// Command abstraction is the polymorphic rendition of the position demo.
// Movement is declared on an interface and implemented by exactly one
// concrete type, so every dynamic dispatch site has a single possible
// target. The compiler is expected to devirtualize, inline, and fold the
// whole computation to the same constant the plain variant produces.
//
// It must print the same value as the plain variant: 22110.
package main

type mover interface {
	x() int
	y() int
	setX(v int)
	setY(v int)
	moveLeft(amount int)
	moveRight(amount int)
	moveUp(amount int)
	moveDown(amount int)
	shift(amount int)
}

type player struct {
	px int
	py int
}

func newPlayer(x, y int) *player { return &player{px: x, py: y} }

func (p *player) x() int { return p.px }

func (p *player) y() int { return p.py }

func (p *player) setX(v int) { p.px = v }

func (p *player) setY(v int) { p.py = v }

func (p *player) moveLeft(amount int) { p.px -= amount }

func (p *player) moveRight(amount int) { p.px += amount }

func (p *player) moveUp(amount int) { p.py -= amount }

func (p *player) moveDown(amount int) { p.py += amount }

func (p *player) shift(amount int) {
	p.px += amount
	p.py += amount
}

func main() {
	var p1 mover = newPlayer(55, 47)
	var p2 mover = newPlayer(9, 74)
	var p3 mover = newPlayer(10, 25)

	p2.moveRight(5)
	p3.moveDown(5)

	p1.setX(p2.x() * p3.x())
	p1.setY(p2.y() / p3.y())

	p1.moveLeft(p2.x() / 2)
	p1.moveUp(p2.y() / 2)

	p1.shift(1)
	p2.shift(1)
	p3.shift(1)

	println(p1.x() * p2.x() * p3.x())
}
