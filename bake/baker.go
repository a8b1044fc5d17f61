// Package bake turns obstacle geometry into NavMeshData. A bake extracts
// the obstacle outlines inside an instance's volume, triangulates the free
// space, rebuilds the collision and render geometry and publishes the
// result on the instance.
package bake

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdrpinto/navmesh2d/extract"
	"github.com/pdrpinto/navmesh2d/geom"
	"github.com/pdrpinto/navmesh2d/internal/arena"
	"github.com/pdrpinto/navmesh2d/internal/jobs"
	"github.com/pdrpinto/navmesh2d/internal/logger"
	"github.com/pdrpinto/navmesh2d/navdata"
	"github.com/pdrpinto/navmesh2d/triangulate"
)

// AssetWriter persists baked data under an asset name.
type AssetWriter interface {
	Save(ctx context.Context, name string, data *navdata.NavMeshData) error
}

// Baker runs single and batch bakes.
type Baker struct {
	triangulator triangulate.Triangulator
	pool         *jobs.Pool
	ownPool      bool
	tracker      *arena.Tracker
	assets       AssetWriter
}

// Option configures a Baker.
type Option func(*Baker)

func WithTriangulator(t triangulate.Triangulator) Option {
	return func(b *Baker) { b.triangulator = t }
}

// WithPool runs batch triangulations on p. The baker does not close it.
func WithPool(p *jobs.Pool) Option {
	return func(b *Baker) { b.pool = p }
}

func WithTracker(t *arena.Tracker) Option {
	return func(b *Baker) { b.tracker = t }
}

// WithAssets writes every published NavMeshData to w.
func WithAssets(w AssetWriter) Option {
	return func(b *Baker) { b.assets = w }
}

func NewBaker(options ...Option) *Baker {
	b := &Baker{triangulator: triangulate.Delaunay{}, tracker: arena.Default}
	for _, o := range options {
		o(b)
	}
	if b.pool == nil {
		b.pool = jobs.NewPool(0)
		b.ownPool = true
	}
	return b
}

// Close stops the baker's own pool.
func (b *Baker) Close() {
	if b.ownPool {
		b.pool.Close()
	}
}

// unit is one instance's bake. Its buffers are held by lease until the
// triangles have been consumed.
type unit struct {
	inst   *Instance
	input  triangulate.Input
	tris   []geom.Triangle
	lease  *arena.Lease
	future *jobs.Future[[]geom.Triangle]
}

func (b *Baker) prepare(inst *Instance) *unit {
	res := extract.Extractor{
		Query:     inst.Query,
		Filter:    inst.Filter,
		Thickness: inst.Thickness,
	}.Extract(inst.Volume)
	logger.Debug("bake %s: %d vertices, %d hole edges from %d obstacles",
		inst.Name, len(res.Vertices), len(res.Holes), res.Obstacles)

	u := &unit{inst: inst, input: triangulate.Input{Vertices: res.Vertices, Holes: res.Holes}}
	u.lease = b.tracker.Acquire("bake "+inst.Name, func() {
		u.input = triangulate.Input{}
		u.tris = nil
	})
	return u
}

// Bake runs every stage for one instance on the calling goroutine. On
// failure the instance keeps its previous data.
func (b *Baker) Bake(ctx context.Context, inst *Instance) error {
	if err := inst.validate(); err != nil {
		return err
	}
	u := b.prepare(inst)
	tris, err := b.triangulator.Triangulate(u.input)
	if err != nil {
		err = fmt.Errorf("bake %s: %w", inst.Name, err)
		logger.Error("%v", err)
		return errors.Join(err, u.lease.Release())
	}
	u.tris = tris
	return b.finish(ctx, u)
}

// BakeAll extracts every instance and schedules its triangulation without
// waiting, then blocks once for the whole batch. Geometry, publishing and
// asset writes happen only after every triangulation has completed. Failed
// instances keep their previous data; the others are still published.
func (b *Baker) BakeAll(ctx context.Context, insts []*Instance) error {
	var errs []error
	units := make([]*unit, 0, len(insts))
	handles := make([]*jobs.Handle, 0, len(insts))
	for _, inst := range insts {
		if err := inst.validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		u := b.prepare(inst)
		input := u.input
		u.future = jobs.Submit(b.pool, func() ([]geom.Triangle, error) {
			return b.triangulator.Triangulate(input)
		})
		units = append(units, u)
		handles = append(handles, u.future.Handle())
	}

	jobs.CompleteAll(handles)

	for _, u := range units {
		tris, err := u.future.Take()
		if err != nil {
			err = fmt.Errorf("bake %s: %w", u.inst.Name, err)
			logger.Error("%v", err)
			errs = append(errs, err)
			if relErr := u.lease.Release(); relErr != nil {
				errs = append(errs, relErr)
			}
			continue
		}
		u.tris = tris
		if err := b.finish(ctx, u); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// finish builds the collision and render geometry, publishes the data,
// writes the asset and releases the unit.
func (b *Baker) finish(ctx context.Context, u *unit) error {
	inst := u.inst
	if err := u.lease.Check(); err != nil {
		return err
	}
	surface := make([]geom.Triangle, len(u.tris))
	copy(surface, u.tris)

	shape := collisionShape(surface, inst.Position)
	mesh := renderMesh(shape)
	data := navdata.New(inst.Volume, inst.CellSize, inst.GridType, surface)
	inst.publish(shape, mesh, data)
	logger.Info("bake %s: %d triangles, grid %dx%d", inst.Name, len(surface), data.Size[0], data.Size[1])

	var saveErr error
	if b.assets != nil {
		if err := b.assets.Save(ctx, inst.AssetName(), data); err != nil {
			saveErr = fmt.Errorf("bake %s: save %s: %w", inst.Name, inst.AssetName(), err)
			logger.Error("%v", saveErr)
		}
	}
	return errors.Join(saveErr, u.lease.Release())
}
