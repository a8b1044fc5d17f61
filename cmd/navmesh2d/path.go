package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/navmesh2d"
	"github.com/pdrpinto/navmesh2d/bake"
	"github.com/pdrpinto/navmesh2d/config"
	"github.com/pdrpinto/navmesh2d/geom"
	"github.com/pdrpinto/navmesh2d/store"
)

func PathCmd() *cobra.Command {
	var configFile, name, from, to string
	c := &cobra.Command{
		Use:   "path",
		Short: "find a path over a stored instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, closeLogger, err := setup(configFile)
			if err != nil {
				return err
			}
			defer closeLogger()
			start, err := parsePoint(from)
			if err != nil {
				return err
			}
			end, err := parsePoint(to)
			if err != nil {
				return err
			}
			path, err := runPath(cmd.Context(), conf, name, start, end)
			if err != nil {
				return err
			}
			if len(path) == 0 {
				cmd.Println("no path")
				return nil
			}
			for _, p := range path {
				cmd.Printf("%g,%g\n", p[0], p[1])
			}
			return nil
		},
	}
	c.Flags().StringVar(&configFile, "config", "application.hjson", "config file")
	c.Flags().StringVar(&name, "name", "", "instance name")
	c.Flags().StringVar(&from, "from", "", "start point x,y")
	c.Flags().StringVar(&to, "to", "", "goal point x,y")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("from")
	_ = c.MarkFlagRequired("to")
	return c
}

func runPath(ctx context.Context, conf *config.Config, name string, start, end geom.Vec2) (navmesh2d.Path, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	algorithm, err := navmesh2d.ParseAlgorithm(conf.Pathfinding.Algorithm)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, conf.Store.Url, conf.Store.Password)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	d, err := st.Load(ctx, name+bake.AssetSuffix)
	if err != nil {
		return nil, err
	}
	svc := navmesh2d.New(navmesh2d.WithWorkers(1), navmesh2d.WithAlgorithm(algorithm))
	defer svc.Close()
	return svc.FindPath(start, end, d)
}

func parsePoint(s string) (geom.Vec2, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geom.Vec2{}, fmt.Errorf("point %q: want x,y", s)
	}
	var p geom.Vec2
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return geom.Vec2{}, fmt.Errorf("point %q: %w", s, err)
		}
		p[i] = float32(f)
	}
	return p, nil
}
