package astar

import (
	"container/heap"
	"math"

	"github.com/pdrpinto/navmesh2d/geom"
	"github.com/pdrpinto/navmesh2d/grid"
	"github.com/pdrpinto/navmesh2d/internal/arena"
)

// Heuristic estimates the remaining cost between two cells.
type Heuristic func(from, to Node) int

// Zero turns the search into Dijkstra's algorithm.
func Zero(Node, Node) int { return 0 }

// Result is the outcome of a search.
type Result struct {
	// Path runs from the start cell center to the goal cell center. Empty
	// when no path exists.
	Path []geom.Vec2
	// Cost is the G value of the goal node.
	Cost     int
	Expanded int
	Found    bool
}

type searchOptions struct {
	heuristic Heuristic
	tracker   *arena.Tracker
}

// SearchOption configures NewSearch.
type SearchOption func(*searchOptions)

func WithHeuristic(h Heuristic) SearchOption {
	return func(o *searchOptions) { o.heuristic = h }
}

// WithTracker records the search's buffers on t instead of arena.Default.
func WithTracker(t *arena.Tracker) SearchOption {
	return func(o *searchOptions) { o.tracker = t }
}

// Search holds the state of one grid search. All of its buffers are owned
// by the search and dropped by Release.
type Search struct {
	grid      grid.Data
	heuristic Heuristic
	start     Node
	goal      Node

	open       openSet
	openIndex  map[int]struct{}
	closed     map[int]struct{}
	processed  []Node
	pathList   map[int]Node
	neighbours [8]Node
	surface    []geom.Triangle
	path       []geom.Vec2

	lease   *arena.Lease
	seq     int
	steps   int
	current Node
	done    bool
	found   bool
	cost    int
}

// NewSearch prepares a search from start to end over g. The surface is
// copied; the caller's slice is not retained.
func NewSearch(start, end geom.Vec2, g grid.Data, surface []geom.Triangle, options ...SearchOption) *Search {
	opts := searchOptions{heuristic: Distance, tracker: arena.Default}
	for _, o := range options {
		o(&opts)
	}

	s := &Search{
		grid:      g,
		heuristic: opts.heuristic,
		goal:      NodeAt(end, g),
		start:     NodeAt(start, g),
		openIndex: make(map[int]struct{}),
		closed:    make(map[int]struct{}),
		pathList:  make(map[int]Node),
		surface:   make([]geom.Triangle, len(surface)),
	}
	copy(s.surface, surface)
	s.start.F = math.MaxInt
	s.lease = opts.tracker.Acquire("astar search", s.free)

	if g.InBounds(s.start.Coordinates) {
		s.push(s.start)
	} else {
		s.done = true
	}
	return s
}

// Run expands nodes until the goal is reached or the frontier is empty.
func (s *Search) Run() error {
	if err := s.lease.Check(); err != nil {
		return err
	}
	for !s.step() {
	}
	return nil
}

// Result returns the outcome. It fails once the search has been released.
func (s *Search) Result() (Result, error) {
	if err := s.lease.Check(); err != nil {
		return Result{}, err
	}
	res := Result{Cost: s.cost, Expanded: s.steps, Found: s.found}
	res.Path = make([]geom.Vec2, len(s.path))
	copy(res.Path, s.path)
	return res, nil
}

// Release drops every buffer. Calling it twice returns arena.ErrReleased.
func (s *Search) Release() error {
	return s.lease.Release()
}

func (s *Search) free() {
	s.open = nil
	s.openIndex = nil
	s.closed = nil
	s.processed = nil
	s.pathList = nil
	s.surface = nil
	s.path = nil
}

func (s *Search) push(n Node) {
	heap.Push(&s.open, openEntry{node: n, seq: s.seq})
	s.seq++
	s.openIndex[n.Index] = struct{}{}
}

// step performs one expansion and reports whether the search is finished.
func (s *Search) step() bool {
	if s.done {
		return true
	}
	if s.open.Len() == 0 {
		s.done = true
		return true
	}

	s.steps++
	current := heap.Pop(&s.open).(openEntry).node
	delete(s.openIndex, current.Index)
	s.current = current

	if current.Equal(s.goal) {
		s.reconstruct(current)
		s.cost = current.G
		s.found = true
		s.done = true
		return true
	}

	s.closed[current.Index] = struct{}{}
	s.processed = append(s.processed, current)
	s.pathList[current.Index] = current

	for _, n := range s.expand(current) {
		if n.Index == -1 {
			continue
		}
		if _, ok := s.closed[n.Index]; ok {
			continue
		}
		if _, ok := s.openIndex[n.Index]; ok {
			continue
		}
		if !s.navigable(n.Position) {
			continue
		}
		n.Connection = current.Index
		n.G = current.G + Distance(current, n)
		n.H = s.heuristic(n, s.goal)
		n.F = n.G + n.H
		s.push(n)
	}
	return false
}

// expand fills the neighbour scratch buffer: E, W, N, S, NE, NW, SE, SW.
func (s *Search) expand(n Node) []Node {
	x, y := n.Coordinates.X, n.Coordinates.Y
	s.neighbours[0] = s.cell(x+1, y)
	s.neighbours[1] = s.cell(x-1, y)
	s.neighbours[2] = s.cell(x, y+1)
	s.neighbours[3] = s.cell(x, y-1)
	s.neighbours[4] = s.cell(x+1, y+1)
	s.neighbours[5] = s.cell(x-1, y+1)
	s.neighbours[6] = s.cell(x+1, y-1)
	s.neighbours[7] = s.cell(x-1, y-1)
	return s.neighbours[:]
}

func (s *Search) cell(x, y int) Node {
	c := grid.Coord{X: x, Y: y}
	if !s.grid.InBounds(c) {
		return invalidNode
	}
	return NewNode(c, s.grid)
}

func (s *Search) navigable(p geom.Vec2) bool {
	for _, t := range s.surface {
		if t.Contains(p) {
			return true
		}
	}
	return false
}

// reconstruct walks the connections back to the root and stores the path
// in start to goal order.
func (s *Search) reconstruct(end Node) {
	node := end
	s.path = append(s.path[:0], node.Position)
	for node.Connection != -1 {
		node = s.pathList[node.Connection]
		s.path = append(s.path, node.Position)
	}
	for i, j := 0, len(s.path)-1; i < j; i, j = i+1, j-1 {
		s.path[i], s.path[j] = s.path[j], s.path[i]
	}
}
