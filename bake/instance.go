package bake

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pdrpinto/navmesh2d/geom"
	"github.com/pdrpinto/navmesh2d/grid"
	"github.com/pdrpinto/navmesh2d/navdata"
	"github.com/pdrpinto/navmesh2d/obstacle"
)

var ErrInvalidInstance = errors.New("invalid bake instance")

// AssetSuffix is appended to the instance name to form the asset name.
const AssetSuffix = "_Data"

// Instance is one bakeable region and the outputs of its last bake.
type Instance struct {
	Name string
	// Volume is the bake region in world space.
	Volume geom.Rect
	// Position is the instance origin; collision geometry is stored
	// relative to it.
	Position  geom.Vec2
	Filter    obstacle.Filter
	Thickness float32
	GridType  grid.Type
	CellSize  geom.Vec2
	Query     obstacle.Query

	data atomic.Pointer[navdata.NavMeshData]

	mu    sync.RWMutex
	shape CollisionShape
	mesh  Mesh
}

// Data returns the last published NavMeshData, nil before the first bake.
func (i *Instance) Data() *navdata.NavMeshData {
	return i.data.Load()
}

// SetData publishes d, for instance after loading it from an asset store.
func (i *Instance) SetData(d *navdata.NavMeshData) {
	i.data.Store(d)
}

func (i *Instance) AssetName() string {
	return i.Name + AssetSuffix
}

func (i *Instance) CollisionShape() CollisionShape {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.shape
}

func (i *Instance) Mesh() Mesh {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.mesh
}

func (i *Instance) validate() error {
	switch {
	case i == nil:
		return fmt.Errorf("%w: nil", ErrInvalidInstance)
	case i.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidInstance)
	case i.CellSize[0] <= 0 || i.CellSize[1] <= 0:
		return fmt.Errorf("%w: %s: cell size %v", ErrInvalidInstance, i.Name, i.CellSize)
	case i.Volume.Max[0] <= i.Volume.Min[0] || i.Volume.Max[1] <= i.Volume.Min[1]:
		return fmt.Errorf("%w: %s: empty volume", ErrInvalidInstance, i.Name)
	}
	return nil
}

// publish swaps in the outputs of a completed bake.
func (i *Instance) publish(shape CollisionShape, mesh Mesh, d *navdata.NavMeshData) {
	i.mu.Lock()
	i.shape = shape
	i.mesh = mesh
	i.mu.Unlock()
	i.data.Store(d)
}
