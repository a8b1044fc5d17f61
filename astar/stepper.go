package astar

import (
	"github.com/pdrpinto/navmesh2d/geom"
	"github.com/pdrpinto/navmesh2d/grid"
)

// StepSnapshot exposes the per-iteration state of the search.
type StepSnapshot struct {
	Current   grid.Coord
	Open      []grid.Coord
	Closed    []grid.Coord
	Done      bool
	Found     bool
	Path      []geom.Vec2
	StepIndex int
}

// Stepper drives a Search one expansion at a time.
type Stepper struct {
	search *Search
}

// NewStepper prepares a search that is advanced with Step.
func NewStepper(start, end geom.Vec2, g grid.Data, surface []geom.Triangle, options ...SearchOption) *Stepper {
	return &Stepper{search: NewSearch(start, end, g, surface, options...)}
}

// Step advances the search by one node expansion and returns a snapshot.
// Once the search is done further calls return the final snapshot.
func (s *Stepper) Step() (StepSnapshot, error) {
	if err := s.search.lease.Check(); err != nil {
		return StepSnapshot{}, err
	}
	s.search.step()
	return s.snapshot(), nil
}

// Close releases the search buffers.
func (s *Stepper) Close() error {
	return s.search.Release()
}

func (s *Stepper) Start() grid.Coord { return s.search.start.Coordinates }

func (s *Stepper) Goal() grid.Coord { return s.search.goal.Coordinates }

func (s *Stepper) snapshot() StepSnapshot {
	sr := s.search
	snap := StepSnapshot{
		Current:   sr.current.Coordinates,
		Done:      sr.done,
		Found:     sr.found,
		StepIndex: sr.steps,
		Open:      make([]grid.Coord, 0, len(sr.open)),
		Closed:    make([]grid.Coord, 0, len(sr.processed)),
	}
	for _, e := range sr.open {
		snap.Open = append(snap.Open, e.node.Coordinates)
	}
	for _, n := range sr.processed {
		snap.Closed = append(snap.Closed, n.Coordinates)
	}
	if sr.found {
		snap.Path = make([]geom.Vec2, len(sr.path))
		copy(snap.Path, sr.path)
	}
	return snap
}
