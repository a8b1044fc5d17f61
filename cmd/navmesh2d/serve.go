package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/navmesh2d"
	"github.com/pdrpinto/navmesh2d/internal/server"
	"github.com/pdrpinto/navmesh2d/store"
)

func ServeCmd() *cobra.Command {
	var configFile string
	c := &cobra.Command{
		Use:   "serve",
		Short: "serve path queries over http",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, closeLogger, err := setup(configFile)
			if err != nil {
				return err
			}
			defer closeLogger()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			algorithm, err := navmesh2d.ParseAlgorithm(conf.Pathfinding.Algorithm)
			if err != nil {
				return err
			}
			st, err := store.Open(ctx, conf.Store.Url, conf.Store.Password)
			if err != nil {
				return err
			}
			defer st.Close()
			svc := navmesh2d.New(navmesh2d.WithWorkers(conf.Pathfinding.Workers), navmesh2d.WithAlgorithm(algorithm))
			defer svc.Close()

			err = server.New(svc, st).Run(ctx, conf.Server.Addr)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}
	c.Flags().StringVar(&configFile, "config", "application.hjson", "config file")
	return c
}
