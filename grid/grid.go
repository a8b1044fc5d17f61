// Package grid quantizes world positions onto the search grid.
package grid

import (
	"fmt"
	"math"
	"strings"

	"github.com/pdrpinto/navmesh2d/geom"
)

// Type is the cell layout of a grid.
type Type int8

const (
	Square Type = iota
	Hex
)

func (t Type) String() string {
	switch t {
	case Square:
		return "square"
	case Hex:
		return "hex"
	default:
		return fmt.Sprintf("Type(%d)", int8(t))
	}
}

// ParseType accepts the names printed by String.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "", "square":
		return Square, nil
	case "hex":
		return Hex, nil
	}
	return Square, fmt.Errorf("unknown grid type %q", s)
}

// Coord is an integer cell coordinate.
type Coord struct {
	X, Y int
}

// Data describes a uniform grid laid over a bake volume.
type Data struct {
	Size     Coord
	Origin   geom.Vec2
	CellSize geom.Vec2
	Type     Type
}

// NewData sizes a grid to cover volumeSize with whole cells.
func NewData(volumeSize, origin, cellSize geom.Vec2, t Type) Data {
	return Data{
		Size: Coord{
			X: int(math.Floor(float64(volumeSize[0] / cellSize[0]))),
			Y: int(math.Floor(float64(volumeSize[1] / cellSize[1]))),
		},
		Origin:   origin,
		CellSize: cellSize,
		Type:     t,
	}
}

// Coordinate returns the cell containing p. The result may fall outside
// the grid; callers check InBounds.
func (d Data) Coordinate(p geom.Vec2) Coord {
	return Coord{
		X: int(math.Floor(float64((p[0] - d.Origin[0]) / d.CellSize[0]))),
		Y: int(math.Floor(float64((p[1] - d.Origin[1]) / d.CellSize[1]))),
	}
}

// CellCenter returns the world position at the middle of c.
func (d Data) CellCenter(c Coord) geom.Vec2 {
	return geom.Vec2{
		float32(c.X)*d.CellSize[0] + d.Origin[0] + d.CellSize[0]*0.5,
		float32(c.Y)*d.CellSize[1] + d.Origin[1] + d.CellSize[1]*0.5,
	}
}

// FlatIndex maps c to x + y*width.
func (d Data) FlatIndex(c Coord) int {
	return c.X + c.Y*d.Size.X
}

func (d Data) InBounds(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < d.Size.X && c.Y < d.Size.Y
}

// CellCount is the number of addressable cells.
func (d Data) CellCount() int {
	return d.Size.X * d.Size.Y
}
