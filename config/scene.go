package config

import (
	"fmt"

	"github.com/hjson/hjson-go/v4"

	"github.com/pdrpinto/navmesh2d/bake"
	"github.com/pdrpinto/navmesh2d/geom"
	"github.com/pdrpinto/navmesh2d/grid"
	"github.com/pdrpinto/navmesh2d/internal/logger"
	"github.com/pdrpinto/navmesh2d/obstacle"
)

// Scene lists the regions to bake and the obstacles they contain.
type Scene struct {
	Instances []*SceneInstance `json:"instances"`
	// Obstacles are shared by every instance in addition to its own.
	Obstacles []*SceneObstacle `json:"obstacles"`
}

type SceneInstance struct {
	Name string `json:"name"`
	// Volume is minX, minY, maxX, maxY.
	Volume    [4]float32       `json:"volume"`
	Position  *[2]float32      `json:"position"`
	Layers    []int            `json:"layers"`
	Thickness *float32         `json:"thickness"`
	GridType  string           `json:"gridType"`
	CellSize  *[2]float32      `json:"cellSize"`
	Obstacles []*SceneObstacle `json:"obstacles"`
}

type SceneObstacle struct {
	Id    string     `json:"id"`
	Min   [2]float32 `json:"min"`
	Max   [2]float32 `json:"max"`
	Layer int        `json:"layer"`
}

func LoadScene(path string) (*Scene, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	scene := new(Scene)
	if err := hjson.Unmarshal(data, scene); err != nil {
		return nil, fmt.Errorf("parse scene error: %w, path: %v", err, path)
	}
	logger.Info("scene %v: %v instances, %v shared obstacles", path, len(scene.Instances), len(scene.Obstacles))
	return scene, nil
}

// BakeInstances builds one bake.Instance per scene entry, filling omitted
// fields from defaults.
func (s *Scene) BakeInstances(defaults Bake) ([]*bake.Instance, error) {
	out := make([]*bake.Instance, 0, len(s.Instances))
	seen := make(map[string]struct{})
	for i, si := range s.Instances {
		if si == nil || si.Name == "" {
			return nil, fmt.Errorf("scene instance %d has no name", i)
		}
		if _, ok := seen[si.Name]; ok {
			return nil, fmt.Errorf("duplicate scene instance %q", si.Name)
		}
		seen[si.Name] = struct{}{}

		gridName := si.GridType
		if gridName == "" {
			gridName = defaults.GridType
		}
		gridType, err := grid.ParseType(gridName)
		if err != nil {
			return nil, fmt.Errorf("scene instance %q: %w", si.Name, err)
		}
		volume := geom.Rect{
			Min: geom.Vec2{si.Volume[0], si.Volume[1]},
			Max: geom.Vec2{si.Volume[2], si.Volume[3]},
		}
		inst := &bake.Instance{
			Name:      si.Name,
			Volume:    volume,
			Position:  volume.Min,
			Filter:    obstacle.AllLayers,
			Thickness: defaults.Thickness,
			GridType:  gridType,
			CellSize:  geom.Vec2{defaults.CellSize[0], defaults.CellSize[1]},
		}
		if si.Position != nil {
			inst.Position = geom.Vec2{si.Position[0], si.Position[1]}
		}
		if si.Thickness != nil {
			inst.Thickness = *si.Thickness
		}
		if si.CellSize != nil {
			inst.CellSize = geom.Vec2{si.CellSize[0], si.CellSize[1]}
		}
		if len(si.Layers) != 0 {
			inst.Filter = obstacle.Layers(si.Layers...)
		}
		set := obstacle.NewSet()
		for _, list := range [][]*SceneObstacle{s.Obstacles, si.Obstacles} {
			for _, so := range list {
				set.Add(obstacle.Obstacle{
					ID:     so.Id,
					Bounds: geom.Rect{Min: geom.Vec2{so.Min[0], so.Min[1]}, Max: geom.Vec2{so.Max[0], so.Max[1]}},
					Layer:  so.Layer,
				})
			}
		}
		inst.Query = set
		out = append(out, inst)
	}
	return out, nil
}
