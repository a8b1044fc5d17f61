package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/navmesh2d/config"
	"github.com/pdrpinto/navmesh2d/internal/logger"
)

var VERSION = "UNKNOWN"

func main() {
	root := &cobra.Command{
		Use:          "navmesh2d",
		Short:        "2D navigation mesh baker and path finder",
		Version:      VERSION,
		SilenceUsage: true,
	}
	root.AddCommand(
		BakeCmd(),
		PathCmd(),
		ServeCmd(),
	)
	if err := root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// setup loads the config and starts the logger. The returned func closes
// the logger.
func setup(configFile string) (*config.Config, func(), error) {
	conf, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	logger.InitLogger(conf.LoggerConfig())
	return conf, logger.CloseLogger, nil
}
