package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/pdrpinto/navmesh2d"
	"github.com/pdrpinto/navmesh2d/geom"
	"github.com/pdrpinto/navmesh2d/grid"
	"github.com/pdrpinto/navmesh2d/navdata"
	"github.com/pdrpinto/navmesh2d/store"
)

type memSource map[string]*navdata.NavMeshData

func (m memSource) Load(_ context.Context, name string) (*navdata.NavMeshData, error) {
	d, ok := m[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return d, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	volume := geom.Rect{Max: geom.Vec2{5, 5}}
	open := navdata.New(volume, geom.Vec2{1, 1}, grid.Square, []geom.Triangle{
		{A: geom.Vec2{0, 0}, B: geom.Vec2{5, 0}, C: geom.Vec2{5, 5}},
		{A: geom.Vec2{0, 0}, B: geom.Vec2{5, 5}, C: geom.Vec2{0, 5}},
	})
	hex := navdata.New(volume, geom.Vec2{1, 1}, grid.Hex, open.Surface())
	svc := navmesh2d.New(navmesh2d.WithWorkers(1))
	t.Cleanup(svc.Close)
	return New(svc, memSource{"open_Data": open, "hex_Data": hex})
}

func do(t *testing.T, s *Server, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestPathEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/path?name=open&sx=0.5&sy=0.5&ex=3.5&ey=0.5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	var rsp pathRsp
	if err := json.Unmarshal(w.Body.Bytes(), &rsp); err != nil {
		t.Fatal(err)
	}
	if !rsp.Found || len(rsp.Path) != 4 || rsp.Path[3] != [2]float32{3.5, 0.5} {
		t.Fatalf("rsp = %+v", rsp)
	}
}

func TestPathEndpointErrors(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		url  string
		want int
	}{
		{"/path?name=missing&sx=0&sy=0&ex=1&ey=1", http.StatusNotFound},
		{"/path?name=open&sx=zero&sy=0&ex=1&ey=1", http.StatusBadRequest},
		{"/path?name=hex&sx=0.5&sy=0.5&ex=1.5&ey=1.5", http.StatusBadRequest},
	}
	for _, c := range cases {
		if w := do(t, s, http.MethodGet, c.url, nil); w.Code != c.want {
			t.Errorf("%s: status %d, want %d", c.url, w.Code, c.want)
		}
	}
}

func TestStepEndpoints(t *testing.T) {
	s := newTestServer(t)
	if w := do(t, s, http.MethodPost, "/step/next", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("next before init: %d", w.Code)
	}
	w := do(t, s, http.MethodPost, "/step/init", stepInitReq{Name: "open", From: [2]float32{0.5, 0.5}, To: [2]float32{2.5, 2.5}})
	if w.Code != http.StatusOK {
		t.Fatalf("init: %d %s", w.Code, w.Body)
	}

	var snap snapshotRsp
	for i := 0; i < 10 && !snap.Done; i++ {
		w = do(t, s, http.MethodPost, "/step/next", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("next: %d %s", w.Code, w.Body)
		}
		snap = snapshotRsp{}
		if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
			t.Fatal(err)
		}
	}
	if !snap.Done || !snap.Found || len(snap.Path) != 3 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Start != [2]int{0, 0} || snap.Goal != [2]int{2, 2} || snap.W != 5 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestCacheDropReloads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	volume := geom.Rect{Max: geom.Vec2{5, 5}}
	open := navdata.New(volume, geom.Vec2{1, 1}, grid.Square, []geom.Triangle{
		{A: geom.Vec2{0, 0}, B: geom.Vec2{5, 0}, C: geom.Vec2{5, 5}},
		{A: geom.Vec2{0, 0}, B: geom.Vec2{5, 5}, C: geom.Vec2{0, 5}},
	})
	// Only the lower-right half is walkable after the rebake.
	half := navdata.New(volume, geom.Vec2{1, 1}, grid.Square, open.Surface()[:1])
	src := memSource{"open_Data": open}
	svc := navmesh2d.New(navmesh2d.WithWorkers(1))
	t.Cleanup(svc.Close)
	s := New(svc, src)

	url := "/path?name=open&sx=0.5&sy=4.5&ex=4.5&ey=4.5"
	found := func() bool {
		t.Helper()
		w := do(t, s, http.MethodGet, url, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status %d: %s", w.Code, w.Body)
		}
		var rsp pathRsp
		if err := json.Unmarshal(w.Body.Bytes(), &rsp); err != nil {
			t.Fatal(err)
		}
		return rsp.Found
	}
	if !found() {
		t.Fatal("no path on the open mesh")
	}

	src["open_Data"] = half
	if !found() {
		t.Fatal("cached mesh was not served")
	}
	if w := do(t, s, http.MethodDelete, "/cache/open", nil); w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	if found() {
		t.Fatal("stale mesh served after the cache was dropped")
	}
}
