// Package hex provides cube-coordinate math for a hexagonal grid.
// Coordinates are triples (q, r, s) with the invariant q + r + s = 0.
package hex

import (
	"fmt"
	"math"
)

// Coord is a cube coordinate on the hex grid. Immutable value type,
// usable as a map key.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
	S int `json:"s"`
}

// New constructs a coordinate and panics if q + r + s != 0.
// A violated invariant is a programmer error, not a recoverable state.
func New(q, r, s int) Coord {
	c := Coord{Q: q, R: r, S: s}
	if !c.Valid() {
		panic(fmt.Sprintf("hex: invalid cube coordinate (%d, %d, %d): q+r+s != 0", q, r, s))
	}
	return c
}

// Axial constructs a coordinate from axial (q, r), deriving s.
func Axial(q, r int) Coord {
	return Coord{Q: q, R: r, S: -q - r}
}

// Valid reports whether the zero-sum invariant holds.
func (c Coord) Valid() bool {
	return c.Q+c.R+c.S == 0
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.Q, c.R, c.S)
}

// Directions are the six neighbor offsets in cube coordinates.
var Directions = [6]Coord{
	{Q: 1, R: 0, S: -1},
	{Q: 1, R: -1, S: 0},
	{Q: 0, R: -1, S: 1},
	{Q: -1, R: 0, S: 1},
	{Q: -1, R: 1, S: 0},
	{Q: 0, R: 1, S: -1},
}

// Neighbors returns the six adjacent coordinates.
func (c Coord) Neighbors() [6]Coord {
	var result [6]Coord
	for i, d := range Directions {
		result[i] = Coord{Q: c.Q + d.Q, R: c.R + d.R, S: c.S + d.S}
	}
	return result
}

// WithinRadius returns every coordinate at hex distance <= radius from c,
// c included. The result has exactly 3r² + 3r + 1 entries for radius >= 0.
func (c Coord) WithinRadius(radius int) []Coord {
	if radius < 0 {
		return nil
	}
	result := make([]Coord, 0, 3*radius*radius+3*radius+1)
	for dq := -radius; dq <= radius; dq++ {
		lo := max(-radius, -dq-radius)
		hi := min(radius, -dq+radius)
		for dr := lo; dr <= hi; dr++ {
			ds := -dq - dr
			result = append(result, Coord{Q: c.Q + dq, R: c.R + dr, S: c.S + ds})
		}
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b Coord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S - b.S)
	return (dq + dr + ds) / 2
}

// ToPixel converts a coordinate to pixel space using the flat-top axial
// transform, offset by the given center.
func (c Coord) ToPixel(size, centerX, centerY float64) (float64, float64) {
	x := size * (1.5 * float64(c.Q))
	y := size * (math.Sqrt(3)/2*float64(c.Q) + math.Sqrt(3)*float64(c.R))
	return x + centerX, y + centerY
}

// FromPixel converts pixel space back to the nearest hex coordinate.
// The fractional coordinate with the largest rounding error is re-derived
// from the other two so the zero-sum invariant holds.
func FromPixel(px, py, size, centerX, centerY float64) Coord {
	x := (px - centerX) / size
	y := (py - centerY) / size

	fq := (2.0 / 3.0) * x
	fr := (-1.0/3.0)*x + (math.Sqrt(3)/3.0)*y
	fs := -fq - fr

	rq := math.Round(fq)
	rr := math.Round(fr)
	rs := math.Round(fs)

	qDiff := math.Abs(rq - fq)
	rDiff := math.Abs(rr - fr)
	sDiff := math.Abs(rs - fs)

	if qDiff > rDiff && qDiff > sDiff {
		rq = -rr - rs
	} else if rDiff > sDiff {
		rr = -rq - rs
	} else {
		rs = -rq - rr
	}

	return Coord{Q: int(rq), R: int(rr), S: int(rs)}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
