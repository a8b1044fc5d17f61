package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/navmesh2d/bake"
	"github.com/pdrpinto/navmesh2d/config"
	"github.com/pdrpinto/navmesh2d/internal/jobs"
	"github.com/pdrpinto/navmesh2d/internal/logger"
	"github.com/pdrpinto/navmesh2d/store"
)

func BakeCmd() *cobra.Command {
	var configFile, sceneFile string
	c := &cobra.Command{
		Use:   "bake",
		Short: "bake every instance of a scene and store the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, closeLogger, err := setup(configFile)
			if err != nil {
				return err
			}
			defer closeLogger()
			return runBake(cmd.Context(), conf, sceneFile)
		},
	}
	c.Flags().StringVar(&configFile, "config", "application.hjson", "config file")
	c.Flags().StringVar(&sceneFile, "scene", "scene.hjson", "scene file")
	return c
}

func runBake(ctx context.Context, conf *config.Config, sceneFile string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	scene, err := config.LoadScene(sceneFile)
	if err != nil {
		return err
	}
	insts, err := scene.BakeInstances(conf.Bake)
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, conf.Store.Url, conf.Store.Password)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("close store error: %v", err)
		}
	}()

	pool := jobs.NewPool(conf.Bake.Workers)
	defer pool.Close()
	baker := bake.NewBaker(bake.WithPool(pool), bake.WithAssets(st))
	defer baker.Close()

	err = baker.BakeAll(ctx, insts)
	baked := 0
	for _, inst := range insts {
		if inst.Data() != nil {
			baked++
		}
	}
	logger.Info("baked %v/%v instances with %v workers", baked, len(insts), pool.Workers())
	return err
}
