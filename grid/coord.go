package grid

import "fmt"

// Coord is a cell position, X the column and Y the row.
type Coord struct {
	X, Y int
}

// NoParent marks an arena node without a parent.
var NoParent = Coord{-1, -1}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Add returns c translated by (dx, dy).
func (c Coord) Add(dx, dy int) Coord { return Coord{c.X + dx, c.Y + dy} }

var (
	neighbor4X = [4]int{0, -1, 1, 0}
	neighbor4Y = [4]int{-1, 0, 0, 1}

	neighbor8X = [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
	neighbor8Y = [8]int{-1, -1, -1, 0, 0, 1, 1, 1}
)

// Neighbors4 returns the four orthogonal neighbors of c, top first, in
// reading order. Off-grid cells are included.
func Neighbors4(c Coord) []Coord {
	out := make([]Coord, 4)
	for i := range out {
		out[i] = c.Add(neighbor4X[i], neighbor4Y[i])
	}
	return out
}

// Neighbors8 returns the eight surrounding cells of c in reading order.
// Off-grid cells are included.
func Neighbors8(c Coord) []Coord {
	out := make([]Coord, 8)
	for i := range out {
		out[i] = c.Add(neighbor8X[i], neighbor8Y[i])
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
