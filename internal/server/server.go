// Package server exposes path queries and step-by-step search inspection
// over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdrpinto/navmesh2d"
	"github.com/pdrpinto/navmesh2d/astar"
	"github.com/pdrpinto/navmesh2d/bake"
	"github.com/pdrpinto/navmesh2d/geom"
	"github.com/pdrpinto/navmesh2d/grid"
	"github.com/pdrpinto/navmesh2d/internal/logger"
	"github.com/pdrpinto/navmesh2d/navdata"
	"github.com/pdrpinto/navmesh2d/store"
)

// Source loads baked data by asset name. store.Store satisfies it.
type Source interface {
	Load(ctx context.Context, name string) (*navdata.NavMeshData, error)
}

type Server struct {
	service *navmesh2d.Service
	source  Source
	engine  *gin.Engine

	cacheMu sync.Mutex
	cache   map[string]*navdata.NavMeshData

	stepMu  sync.Mutex
	session *session
}

// session is the search currently driven through /step.
type session struct {
	name    string
	grid    grid.Data
	stepper *astar.Stepper
}

func New(service *navmesh2d.Service, source Source) *Server {
	s := &Server{
		service: service,
		source:  source,
		cache:   make(map[string]*navdata.NavMeshData),
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/path", s.findPath)
	engine.POST("/step/init", s.stepInit)
	engine.POST("/step/next", s.stepNext)
	engine.DELETE("/cache/:name", s.forget)
	s.engine = engine
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening on %v", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.stepMu.Lock()
	if s.session != nil {
		_ = s.session.stepper.Close()
		s.session = nil
	}
	s.stepMu.Unlock()
	logger.Info("http server stopped")
	return err
}

// forget drops a cached asset so the next query reloads it after a rebake.
func (s *Server) forget(ctx *gin.Context) {
	name := ctx.Param("name")
	s.cacheMu.Lock()
	_, ok := s.cache[name]
	delete(s.cache, name)
	s.cacheMu.Unlock()
	ctx.JSON(http.StatusOK, gin.H{"name": name, "dropped": ok})
}

func (s *Server) nav(ctx context.Context, name string) (*navdata.NavMeshData, error) {
	s.cacheMu.Lock()
	d, ok := s.cache[name]
	s.cacheMu.Unlock()
	if ok {
		return d, nil
	}
	d, err := s.source.Load(ctx, name+bake.AssetSuffix)
	if err != nil {
		return nil, err
	}
	s.cacheMu.Lock()
	s.cache[name] = d
	s.cacheMu.Unlock()
	return d, nil
}

type pathRsp struct {
	Found bool         `json:"found"`
	Path  [][2]float32 `json:"path"`
}

func (s *Server) findPath(ctx *gin.Context) {
	from, to, err := endpoints(ctx.Query("sx"), ctx.Query("sy"), ctx.Query("ex"), ctx.Query("ey"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := s.nav(ctx.Request.Context(), ctx.Query("name"))
	if err != nil {
		s.fail(ctx, err)
		return
	}
	path, err := s.service.FindPath(from, to, d)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, pathRsp{Found: len(path) != 0, Path: points(path)})
}

type stepInitReq struct {
	Name string     `json:"name"`
	From [2]float32 `json:"from"`
	To   [2]float32 `json:"to"`
}

func (s *Server) stepInit(ctx *gin.Context) {
	req := new(stepInitReq)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := s.nav(ctx.Request.Context(), req.Name)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	if err := d.Validate(); err != nil {
		s.fail(ctx, err)
		return
	}
	if d.GridType != grid.Square {
		s.fail(ctx, fmt.Errorf("%w: %v", navmesh2d.ErrUnsupportedGrid, d.GridType))
		return
	}

	g := d.Grid()
	var opts []astar.SearchOption
	if s.service.Algorithm() == navmesh2d.Dijkstra {
		opts = append(opts, astar.WithHeuristic(astar.Zero))
	}
	st := astar.NewStepper(geom.Vec2{req.From[0], req.From[1]}, geom.Vec2{req.To[0], req.To[1]}, g, d.NavigableSurface, opts...)

	s.stepMu.Lock()
	if s.session != nil {
		_ = s.session.stepper.Close()
	}
	s.session = &session{name: req.Name, grid: g, stepper: st}
	s.stepMu.Unlock()

	ctx.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"w":     g.Size.X,
		"h":     g.Size.Y,
		"start": coord(st.Start()),
		"goal":  coord(st.Goal()),
	})
}

type snapshotRsp struct {
	Step    int          `json:"step"`
	W       int          `json:"w"`
	H       int          `json:"h"`
	Open    [][2]int     `json:"open,omitempty"`
	Closed  [][2]int     `json:"closed,omitempty"`
	Current [2]int       `json:"current"`
	Start   [2]int       `json:"start"`
	Goal    [2]int       `json:"goal"`
	Done    bool         `json:"done"`
	Found   bool         `json:"found"`
	Path    [][2]float32 `json:"path,omitempty"`
}

func (s *Server) stepNext(ctx *gin.Context) {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()
	if s.session == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "stepper not initialized"})
		return
	}
	st, err := s.session.stepper.Step()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	rsp := snapshotRsp{
		Step:    st.StepIndex,
		W:       s.session.grid.Size.X,
		H:       s.session.grid.Size.Y,
		Current: coord(st.Current),
		Start:   coord(s.session.stepper.Start()),
		Goal:    coord(s.session.stepper.Goal()),
		Done:    st.Done,
		Found:   st.Found,
		Path:    points(st.Path),
	}
	for _, c := range st.Open {
		rsp.Open = append(rsp.Open, coord(c))
	}
	for _, c := range st.Closed {
		rsp.Closed = append(rsp.Closed, coord(c))
	}
	ctx.JSON(http.StatusOK, rsp)
}

func (s *Server) fail(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, navdata.ErrInvalid), errors.Is(err, navmesh2d.ErrUnsupportedGrid):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		logger.Error("%v %v: %v", ctx.Request.Method, ctx.Request.URL.Path, err)
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}

func endpoints(sx, sy, ex, ey string) (from, to geom.Vec2, err error) {
	var v [4]float32
	for i, raw := range [4]string{sx, sy, ex, ey} {
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return from, to, fmt.Errorf("bad coordinate %q", raw)
		}
		v[i] = float32(f)
	}
	return geom.Vec2{v[0], v[1]}, geom.Vec2{v[2], v[3]}, nil
}

func coord(c grid.Coord) [2]int { return [2]int{c.X, c.Y} }

func points(path []geom.Vec2) [][2]float32 {
	out := make([][2]float32, len(path))
	for i, p := range path {
		out[i] = [2]float32{p[0], p[1]}
	}
	return out
}
