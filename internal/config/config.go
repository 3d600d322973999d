// Package config loads the obstacle core configuration from a file and
// OBSTACLES_* environment overrides.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/go-playground/validator.v9"

	"github.com/SumeetBatra/quad-swarm-rl/internal/geom"
	"github.com/SumeetBatra/quad-swarm-rl/internal/layout"
	"github.com/SumeetBatra/quad-swarm-rl/internal/obstacle"
	"github.com/SumeetBatra/quad-swarm-rl/internal/obstacles"
	"github.com/SumeetBatra/quad-swarm-rl/internal/random"
	"github.com/SumeetBatra/quad-swarm-rl/logging"
)

const (
	EnvPrefix = "obstacles"

	DefaultSize        = 0.6
	DefaultAgentSize   = 0.046
	DefaultStackHeight = 4
	DefaultScenario    = "o_random"
	DefaultAgents      = 8
)

type Room struct {
	Min      []float64 `mapstructure:"min" yaml:"min" json:"min" validate:"len=3"`
	Max      []float64 `mapstructure:"max" yaml:"max" json:"max" validate:"len=3"`
	SpawnMin []float64 `mapstructure:"spawn_min" yaml:"spawn_min" json:"spawn_min" validate:"len=3"`
	SpawnMax []float64 `mapstructure:"spawn_max" yaml:"spawn_max" json:"spawn_max" validate:"len=3"`
}

type Metrics struct {
	Namespace string `mapstructure:"namespace" yaml:"namespace" json:"namespace"`
}

type Viz struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval" json:"interval" validate:"gte=0"`
}

type Config struct {
	Mode          string  `mapstructure:"mode" yaml:"mode" json:"mode" validate:"oneof=no_obstacles static_pillar static_random_place static_door"`
	Count         int     `mapstructure:"count" yaml:"count" json:"count" validate:"gte=0"`
	Shape         string  `mapstructure:"shape" yaml:"shape" json:"shape" validate:"oneof=cube sphere cylinder random"`
	Size          float64 `mapstructure:"size" yaml:"size" json:"size" validate:"gt=0"`
	AgentSize     float64 `mapstructure:"quad_size" yaml:"quad_size" json:"quad_size" validate:"gt=0"`
	NeighborCount int     `mapstructure:"neighbor_count" yaml:"neighbor_count" json:"neighbor_count" validate:"gte=-1"`
	ObsType       string  `mapstructure:"obs_type" yaml:"obs_type" json:"obs_type" validate:"oneof=pos_size pos_vel_size"`
	Trajectory    string  `mapstructure:"trajectory" yaml:"trajectory" json:"trajectory" validate:"oneof=static"`
	StackHeight   int     `mapstructure:"stack_height" yaml:"stack_height" json:"stack_height" validate:"gt=0"`
	LevelMode     int     `mapstructure:"level_mode" yaml:"level_mode" json:"level_mode" validate:"oneof=0 1"`
	InfHeight     bool    `mapstructure:"inf_height" yaml:"inf_height" json:"inf_height"`
	Level         int     `mapstructure:"level" yaml:"level" json:"level" validate:"gte=-1"`
	Scenario      string  `mapstructure:"scenario" yaml:"scenario" json:"scenario" validate:"required"`
	Seed          string  `mapstructure:"seed" yaml:"seed" json:"seed"`
	// Agents is the number of agents placed at the start point when
	// previewing layouts.
	Agents int `mapstructure:"agents" yaml:"agents" json:"agents" validate:"gte=0"`

	Room    Room           `mapstructure:"room" yaml:"room" json:"room"`
	Logging logging.Config `mapstructure:"logging" yaml:"logging" json:"logging"`
	Metrics Metrics        `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
	Viz     Viz            `mapstructure:"viz" yaml:"viz" json:"viz"`
}

func DefaultConfig() Config {
	room := obstacles.DefaultRoom()
	return Config{
		Mode:          obstacles.ModeStaticPillar.String(),
		Count:         8,
		Shape:         obstacle.ShapeCube.String(),
		Size:          DefaultSize,
		AgentSize:     DefaultAgentSize,
		NeighborCount: -1,
		ObsType:       obstacle.ObsPosSize.String(),
		Trajectory:    obstacle.TrajectoryStatic.String(),
		StackHeight:   DefaultStackHeight,
		LevelMode:     int(layout.LevelModeToggle),
		InfHeight:     true,
		Level:         -1,
		Scenario:      DefaultScenario,
		Seed:          random.DefaultSeed,
		Agents:        DefaultAgents,
		Room: Room{
			Min:      room.Min.Slice(),
			Max:      room.Max.Slice(),
			SpawnMin: room.SpawnMin.Slice(),
			SpawnMax: room.SpawnMax.Slice(),
		},
		Logging: logging.DefaultConfig(),
		Metrics: Metrics{Namespace: "arena"},
		Viz:     Viz{Interval: time.Second},
	}
}

func (cfg Config) normalized() Config {
	normalized := cfg
	normalized.Mode = strings.ToLower(strings.TrimSpace(normalized.Mode))
	normalized.Shape = strings.ToLower(strings.TrimSpace(normalized.Shape))
	normalized.ObsType = strings.ToLower(strings.TrimSpace(normalized.ObsType))
	normalized.Trajectory = strings.ToLower(strings.TrimSpace(normalized.Trajectory))
	normalized.Scenario = strings.TrimSpace(normalized.Scenario)
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = random.DefaultSeed
	}
	if normalized.Trajectory == "" {
		normalized.Trajectory = obstacle.TrajectoryStatic.String()
	}
	if normalized.ObsType == "" {
		normalized.ObsType = obstacle.ObsPosSize.String()
	}
	if normalized.Count < 0 {
		normalized.Count = 0
	}
	if normalized.Scenario == "" {
		normalized.Scenario = DefaultScenario
	}
	return normalized
}

func (cfg Config) Normalized() Config {
	return cfg.normalized()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateRoom, Room{})
	return v
}

// validateRoom requires max to lie above min on every axis.
func validateRoom(sl validator.StructLevel) {
	room := sl.Current().Interface().(Room)
	if len(room.Min) != 3 || len(room.Max) != 3 {
		return
	}
	for i := range room.Min {
		if room.Max[i] <= room.Min[i] {
			sl.ReportError(room.Max, "max", "Max", "gtmin", "")
			return
		}
	}
}

// Validate checks field constraints and that names parse.
func (cfg Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(err, "config")
	}
	if _, err := layout.ParseScenario(cfg.Scenario); err != nil {
		return errors.Wrap(err, "config")
	}
	return nil
}

// SetOptions converts the configuration into obstacle set options.
func (cfg Config) SetOptions() (obstacles.Options, error) {
	mode, err := obstacles.ParseLayoutMode(cfg.Mode)
	if err != nil {
		return obstacles.Options{}, err
	}
	shape, err := obstacle.ParseShapeChoice(cfg.Shape)
	if err != nil {
		return obstacles.Options{}, err
	}
	obsType, err := obstacle.ParseObsType(cfg.ObsType)
	if err != nil {
		return obstacles.Options{}, err
	}
	trajectory, err := obstacle.ParseTrajectory(cfg.Trajectory)
	if err != nil {
		return obstacles.Options{}, err
	}
	return obstacles.Options{
		Mode:          mode,
		Count:         cfg.Count,
		Shape:         shape,
		Size:          cfg.Size,
		AgentSize:     cfg.AgentSize,
		NeighborCount: cfg.NeighborCount,
		ObsType:       obsType,
		Trajectory:    trajectory,
		StackHeight:   cfg.StackHeight,
		LevelMode:     layout.LevelMode(cfg.LevelMode),
		InfHeight:     cfg.InfHeight,
		Seed:          cfg.Seed,
	}, nil
}

// StaticRoom converts the room section. Validate must have passed.
func (cfg Config) StaticRoom() obstacles.StaticRoom {
	return obstacles.StaticRoom{
		Min:      vec(cfg.Room.Min),
		Max:      vec(cfg.Room.Max),
		SpawnMin: vec(cfg.Room.SpawnMin),
		SpawnMax: vec(cfg.Room.SpawnMax),
	}
}

func vec(v []float64) geom.Vec3 {
	if len(v) != 3 {
		return geom.Vec3{}
	}
	return geom.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
