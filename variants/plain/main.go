// Command plain is the plain-data rendition of the position demo: a value
// type with two integer fields mutated through free functions, no
// abstraction of any kind. The build harness compiles it with the pinned
// configuration and captures its instruction listing; the whole computation
// is expected to fold to a constant.
//
// It must print the same value as the abstraction variant: 22110.
package main

type position struct {
	x int
	y int
}

func setX(p *position, v int) { p.x = v }

func setY(p *position, v int) { p.y = v }

func getX(p *position) int { return p.x }

func getY(p *position) int { return p.y }

func moveLeft(p *position, amount int) { p.x -= amount }

func moveRight(p *position, amount int) { p.x += amount }

func moveUp(p *position, amount int) { p.y -= amount }

func moveDown(p *position, amount int) { p.y += amount }

func main() {
	p1 := position{55, 47}
	p2 := position{9, 74}
	p3 := position{10, 25}

	moveRight(&p2, 5)
	moveDown(&p3, 5)

	setX(&p1, getX(&p2)*getX(&p3))
	setY(&p1, getY(&p2)/getY(&p3))

	moveLeft(&p1, getX(&p2)/2)
	moveUp(&p1, getY(&p2)/2)

	// The scalar shift, spelled as one addition per axis.
	moveRight(&p1, 1)
	moveDown(&p1, 1)
	moveRight(&p2, 1)
	moveDown(&p2, 1)
	moveRight(&p3, 1)
	moveDown(&p3, 1)

	println(getX(&p1) * getX(&p2) * getX(&p3))
}
