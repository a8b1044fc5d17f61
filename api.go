package navmesh2d

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdrpinto/navmesh2d/astar"
	"github.com/pdrpinto/navmesh2d/geom"
	"github.com/pdrpinto/navmesh2d/grid"
	"github.com/pdrpinto/navmesh2d/internal/arena"
	"github.com/pdrpinto/navmesh2d/internal/jobs"
	"github.com/pdrpinto/navmesh2d/internal/logger"
	"github.com/pdrpinto/navmesh2d/navdata"
)

var ErrUnsupportedGrid = errors.New("unsupported grid type")

// Algorithm selects the search strategy.
type Algorithm int8

const (
	AStar Algorithm = iota
	Dijkstra
)

func (a Algorithm) String() string {
	switch a {
	case AStar:
		return "astar"
	case Dijkstra:
		return "dijkstra"
	}
	return fmt.Sprintf("Algorithm(%d)", int8(a))
}

// ParseAlgorithm accepts the names printed by String.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(s) {
	case "", "astar", "a*":
		return AStar, nil
	case "dijkstra":
		return Dijkstra, nil
	}
	return AStar, fmt.Errorf("unknown algorithm %q", s)
}

func (a Algorithm) heuristic() astar.Heuristic {
	if a == Dijkstra {
		return astar.Zero
	}
	return astar.Distance
}

// Path is an ordered list of cell centers from start to goal.
type Path []geom.Vec2

// Options defines parameters for the service.
type Options struct {
	NumberOfWorkers int
	Algorithm       Algorithm
	Tracker         *arena.Tracker
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithWorkers specifies how many goroutines run asynchronous searches.
// Zero or less means one per CPU.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

func WithAlgorithm(a Algorithm) Option {
	return func(options *Options) { options.Algorithm = a }
}

// WithTracker records search buffers on t.
func WithTracker(t *arena.Tracker) Option {
	return func(options *Options) { options.Tracker = t }
}

// Service answers path queries against NavMeshData.
type Service struct {
	options Options
	pool    *jobs.Pool
}

func New(options ...Option) *Service {
	opts := Options{Algorithm: AStar, Tracker: arena.Default}
	for _, o := range options {
		o(&opts)
	}
	pool := jobs.NewPool(opts.NumberOfWorkers)
	opts.NumberOfWorkers = pool.Workers()
	return &Service{options: opts, pool: pool}
}

func (s *Service) Algorithm() Algorithm { return s.options.Algorithm }

// Close waits for scheduled searches and stops the workers.
func (s *Service) Close() {
	s.pool.Close()
}

func (s *Service) newSearch(start, end geom.Vec2, nav *navdata.NavMeshData) (*astar.Search, error) {
	if err := nav.Validate(); err != nil {
		return nil, err
	}
	if nav.GridType != grid.Square {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedGrid, nav.GridType)
	}
	return astar.NewSearch(start, end, nav.Grid(), nav.NavigableSurface,
		astar.WithHeuristic(s.options.Algorithm.heuristic()),
		astar.WithTracker(s.options.Tracker),
	), nil
}

// FindPath runs a search on the calling goroutine. An unreachable goal is
// not an error; the returned path is empty.
func (s *Service) FindPath(start, end geom.Vec2, nav *navdata.NavMeshData) (Path, error) {
	search, err := s.newSearch(start, end, nav)
	if err != nil {
		return nil, err
	}
	if err := search.Run(); err != nil {
		return nil, errors.Join(err, search.Release())
	}
	return finish(search, start, end)
}

// FindPathAsync schedules the search and returns immediately. Wait on the
// handle, then consume the result exactly once with Take or Dispose.
func (s *Service) FindPathAsync(start, end geom.Vec2, nav *navdata.NavMeshData) (*jobs.Handle, *PendingPath, error) {
	search, err := s.newSearch(start, end, nav)
	if err != nil {
		return nil, nil, err
	}
	p := &PendingPath{search: search, start: start, end: end}
	p.handle = s.pool.Schedule(func() {
		p.err = search.Run()
	})
	return p.handle, p, nil
}

// PendingPath is the result of an asynchronous search.
type PendingPath struct {
	search *astar.Search
	handle *jobs.Handle
	err    error
	start  geom.Vec2
	end    geom.Vec2
}

// Take waits for the search, reads the path and releases the buffers.
// A second Take or a Take after Dispose returns arena.ErrReleased.
func (p *PendingPath) Take() (Path, error) {
	p.handle.Wait()
	if err := errors.Join(p.err, p.handle.Err()); err != nil {
		if relErr := p.search.Release(); relErr != nil {
			return nil, relErr
		}
		return nil, err
	}
	return finish(p.search, p.start, p.end)
}

// Dispose waits for the search and releases the buffers unread.
func (p *PendingPath) Dispose() error {
	p.handle.Wait()
	return p.search.Release()
}

func finish(search *astar.Search, start, end geom.Vec2) (Path, error) {
	res, err := search.Result()
	if err != nil {
		return nil, err
	}
	if err := search.Release(); err != nil {
		return nil, err
	}
	if res.Found {
		logger.Debug("path %v -> %v: %d points, cost %d, expanded %d", start, end, len(res.Path), res.Cost, res.Expanded)
	} else {
		logger.Debug("no path %v -> %v after %d expansions", start, end, res.Expanded)
	}
	return Path(res.Path), nil
}
