// Package navdata defines NavMeshData, the baked result shared between the
// baker and the pathfinding service, and its wire encoding.
package navdata

import (
	"errors"
	"fmt"

	"github.com/pdrpinto/navmesh2d/geom"
	"github.com/pdrpinto/navmesh2d/grid"

	"github.com/vmihailenco/msgpack/v5"
)

var ErrInvalid = errors.New("invalid nav mesh data")

// NavMeshData is the persisted bake output. Field names in the msgpack tags
// are part of the asset format.
type NavMeshData struct {
	Size             [2]int32        `msgpack:"size" json:"size"`
	Origin           geom.Vec2       `msgpack:"origin" json:"origin"`
	CellSize         geom.Vec2       `msgpack:"cellSize" json:"cellSize"`
	GridType         grid.Type       `msgpack:"gridType" json:"gridType"`
	NavigableSurface []geom.Triangle `msgpack:"navigableSurface" json:"navigableSurface"`
}

// New sizes the grid from the volume and attaches the triangles.
func New(volume geom.Rect, cellSize geom.Vec2, gridType grid.Type, surface []geom.Triangle) *NavMeshData {
	g := grid.NewData(volume.Size(), volume.Min, cellSize, gridType)
	return &NavMeshData{
		Size:             [2]int32{int32(g.Size.X), int32(g.Size.Y)},
		Origin:           g.Origin,
		CellSize:         g.CellSize,
		GridType:         g.Type,
		NavigableSurface: surface,
	}
}

// Grid returns the search grid described by the data.
func (d *NavMeshData) Grid() grid.Data {
	return grid.Data{
		Size:     grid.Coord{X: int(d.Size[0]), Y: int(d.Size[1])},
		Origin:   d.Origin,
		CellSize: d.CellSize,
		Type:     d.GridType,
	}
}

// Surface returns a copy of the triangle list.
func (d *NavMeshData) Surface() []geom.Triangle {
	out := make([]geom.Triangle, len(d.NavigableSurface))
	copy(out, d.NavigableSurface)
	return out
}

// Validate checks the fields a search relies on.
func (d *NavMeshData) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil", ErrInvalid)
	}
	if d.Size[0] <= 0 || d.Size[1] <= 0 {
		return fmt.Errorf("%w: empty grid %v", ErrInvalid, d.Size)
	}
	if d.CellSize[0] <= 0 || d.CellSize[1] <= 0 {
		return fmt.Errorf("%w: cell size %v", ErrInvalid, d.CellSize)
	}
	return nil
}

// Equal compares every field, triangle order included.
func (d *NavMeshData) Equal(o *NavMeshData) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.Size != o.Size || d.Origin != o.Origin || d.CellSize != o.CellSize || d.GridType != o.GridType {
		return false
	}
	if len(d.NavigableSurface) != len(o.NavigableSurface) {
		return false
	}
	for i := range d.NavigableSurface {
		if d.NavigableSurface[i] != o.NavigableSurface[i] {
			return false
		}
	}
	return true
}

func Marshal(d *NavMeshData) ([]byte, error) {
	return msgpack.Marshal(d)
}

func Unmarshal(data []byte) (*NavMeshData, error) {
	d := new(NavMeshData)
	if err := msgpack.Unmarshal(data, d); err != nil {
		return nil, err
	}
	return d, nil
}
