// Package config loads the application config and scene files. Both are
// hjson documents.
package config

import (
	"fmt"
	"os"

	"github.com/hjson/hjson-go/v4"

	"github.com/pdrpinto/navmesh2d/internal/logger"
)

type Config struct {
	Logger      Logger      `json:"logger"`
	Bake        Bake        `json:"bake"`
	Pathfinding Pathfinding `json:"pathfinding"`
	Store       Store       `json:"store"`
	Server      Server      `json:"server"`
}

type Logger struct {
	AppName      string `json:"appName"`
	Level        string `json:"level"`
	TrackLine    bool   `json:"trackLine"`
	EnableFile   bool   `json:"enableFile"`
	FileDir      string `json:"fileDir"`
	FileMaxSize  int64  `json:"fileMaxSize"`
	DisableColor bool   `json:"disableColor"`
}

// Bake holds the defaults applied to scene instances that leave them out.
type Bake struct {
	CellSize  [2]float32 `json:"cellSize"`
	Thickness float32    `json:"thickness"`
	GridType  string     `json:"gridType"`
	Workers   int        `json:"workers"`
}

type Pathfinding struct {
	Algorithm string `json:"algorithm"`
	Workers   int    `json:"workers"`
}

type Store struct {
	// Url selects the backend, see store.Open.
	Url      string `json:"url"`
	Password string `json:"password"`
}

type Server struct {
	Addr string `json:"addr"`
}

// Default is the config used for every field a file leaves out.
func Default() *Config {
	return &Config{
		Logger: Logger{AppName: "navmesh2d", Level: "INFO", TrackLine: true, FileDir: "./log"},
		Bake: Bake{
			CellSize:  [2]float32{1, 1},
			Thickness: 0.5,
			GridType:  "square",
		},
		Pathfinding: Pathfinding{Algorithm: "astar"},
		Store:       Store{Url: "file://./assets"},
		Server:      Server{Addr: "0.0.0.0:8080"},
	}
}

// Load reads an hjson config file on top of Default. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if err := hjson.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config error: %w, path: %v", err, path)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%w, path: %v", err, path)
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Bake.CellSize[0] <= 0 || c.Bake.CellSize[1] <= 0 {
		return fmt.Errorf("bake.cellSize must be positive: %v", c.Bake.CellSize)
	}
	if c.Bake.Thickness < 0 {
		return fmt.Errorf("bake.thickness must not be negative: %v", c.Bake.Thickness)
	}
	if _, err := logger.ParseLogLevel(c.Logger.Level); err != nil {
		return err
	}
	return nil
}

// LoggerConfig converts the logger section.
func (c *Config) LoggerConfig() *logger.Config {
	level, _ := logger.ParseLogLevel(c.Logger.Level)
	return &logger.Config{
		AppName:      c.Logger.AppName,
		Level:        level,
		TrackLine:    c.Logger.TrackLine,
		EnableFile:   c.Logger.EnableFile,
		FileDir:      c.Logger.FileDir,
		FileMaxSize:  c.Logger.FileMaxSize,
		DisableColor: c.Logger.DisableColor,
	}
}

// readFile strips a leading UTF-8 BOM.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file error: %w", err)
	}
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}
	return data, nil
}
