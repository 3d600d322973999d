// Package obstacles coordinates every obstacle of one environment: it lays
// them out on reset, detects collisions and appends the nearest obstacles to
// each agent's observation.
package obstacles

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/SumeetBatra/quad-swarm-rl/internal/geom"
	"github.com/SumeetBatra/quad-swarm-rl/internal/layout"
	"github.com/SumeetBatra/quad-swarm-rl/internal/observation"
	"github.com/SumeetBatra/quad-swarm-rl/internal/obstacle"
	"github.com/SumeetBatra/quad-swarm-rl/internal/proximity"
	"github.com/SumeetBatra/quad-swarm-rl/internal/random"
	"github.com/SumeetBatra/quad-swarm-rl/internal/telemetry"
	"github.com/SumeetBatra/quad-swarm-rl/logging"
)

var (
	// ErrMissingActiveFlags is returned when a call omits the per-obstacle
	// active flags.
	ErrMissingActiveFlags = errors.New("obstacles: active flags are required")
	// ErrActiveFlagsLength is returned when the flags do not match the
	// obstacle count.
	ErrActiveFlagsLength = errors.New("obstacles: active flags length mismatch")
)

const (
	rngLayout  = "obstacles.layout"
	rngShape   = "obstacles.shape"
	rngScatter = "obstacles.scatter"
)

// Deps are the collaborators of a Set. Zero values are replaced by no-op or
// default implementations.
type Deps struct {
	ID        string
	Publisher logging.Publisher
	Metrics   telemetry.Metrics
	RNG       random.Factory
	Room      Room
	// NewObstacle builds each obstacle. Defaults to obstacle.New.
	NewObstacle func(obstacle.Options) (obstacle.Obstacle, error)
}

// Set owns a fixed, ordered list of obstacles. It is not safe for concurrent
// use; callers serialize Reset, Step and CollisionDetection.
type Set struct {
	id        string
	opts      Options
	room      Room
	obstacles []obstacle.Obstacle
	ranker    *proximity.Ranker
	stacks    layout.Stacks
	pillars   *layout.PillarSampler

	layoutRNG *rand.Rand
	shapeRNG  *rand.Rand

	publisher logging.Publisher
	metrics   telemetry.Metrics

	shapes   []obstacle.Shape
	active   []bool
	zones    layout.Zones
	scenario layout.ScenarioKind
	level    int
	episode  uint64
	tick     uint64
}

// New builds the obstacles for opts. Construction-time layouts
// (random place, door) are decided here and kept for the set's lifetime.
func New(opts Options, deps Deps) (*Set, error) {
	if deps.RNG == nil {
		deps.RNG = random.NewDeterministicRNG
	}
	if deps.Room == nil {
		deps.Room = DefaultRoom()
	}
	if deps.Metrics == nil {
		deps.Metrics = telemetry.NopMetrics()
	}
	if deps.ID == "" {
		deps.ID = uuid.New().String()
	}
	if deps.Publisher == nil {
		deps.Publisher = logging.NopPublisher()
	}
	if deps.NewObstacle == nil {
		deps.NewObstacle = obstacle.New
	}

	count := opts.Count
	switch opts.Mode {
	case ModeNone:
		count = 0
	case ModeStaticDoor:
		count = layout.DoorCount()
	}
	if count < 0 {
		return nil, errors.Errorf("obstacles: negative count %d", count)
	}
	opts.Count = count

	s := &Set{
		id:        deps.ID,
		opts:      opts,
		room:      deps.Room,
		layoutRNG: deps.RNG(opts.Seed, rngLayout),
		shapeRNG:  deps.RNG(opts.Seed, rngShape),
		publisher: logging.WithFields(deps.Publisher, map[string]any{"set": deps.ID}),
		metrics:   deps.Metrics,
		level:     -1,
	}

	ranker, err := proximity.NewRanker(opts.NeighborCount, count)
	if err != nil {
		return nil, err
	}
	s.ranker = ranker

	roomMin, roomMax := s.room.Bounds()
	s.stacks = layout.NewStacks(layout.StackConfig{
		Count:       count,
		StackHeight: opts.StackHeight,
		Size:        opts.Size,
		LevelMode:   opts.LevelMode,
	})
	s.pillars = layout.NewPillarSampler(layout.PillarConfig{
		Count:     count,
		Size:      opts.Size,
		Shape:     opts.Shape,
		InfHeight: opts.InfHeight,
		RoomMin:   roomMin,
		RoomMax:   roomMax,
	})

	initial := make([]geom.Vec3, count)
	switch opts.Mode {
	case ModeStaticRandomPlace:
		initial = layout.Scatter(deps.RNG(opts.Seed, rngScatter), layout.ScatterConfig{
			Count:   count,
			Size:    opts.Size,
			RoomMin: roomMin,
			RoomMax: roomMax,
		})
	case ModeStaticDoor:
		initial = layout.Door(opts.Size)
	}

	shape := opts.Shape.Fixed
	s.obstacles = make([]obstacle.Obstacle, count)
	s.shapes = make([]obstacle.Shape, count)
	s.active = make([]bool, count)
	for i := range s.obstacles {
		o, err := deps.NewObstacle(obstacle.Options{
			Index:      i,
			Shape:      shape,
			Size:       opts.Size,
			AgentSize:  opts.AgentSize,
			InfHeight:  opts.InfHeight,
			ObsType:    opts.ObsType,
			Trajectory: opts.Trajectory,
			Position:   initial[i],
		})
		if err != nil {
			return nil, err
		}
		s.obstacles[i] = o
		s.shapes[i] = shape
	}
	s.metrics.Store(telemetry.KeyObstacleCount, uint64(count))
	return s, nil
}

// ID identifies the set in logs.
func (s *Set) ID() string { return s.id }

// Count is the number of obstacles, fixed at construction.
func (s *Set) Count() int { return len(s.obstacles) }

// Mode is the configured layout mode.
func (s *Set) Mode() LayoutMode { return s.opts.Mode }

// Zones returns the exclusion zones built by the last reset.
func (s *Set) Zones() layout.Zones { return s.zones }

// NeighborWidth is the number of obstacles appended per agent.
func (s *Set) NeighborWidth() int { return s.ranker.Width() }

// Obstacle returns the obstacle at index i.
func (s *Set) Obstacle(i int) obstacle.Obstacle { return s.obstacles[i] }

func (s *Set) actor() logging.EntityRef {
	return logging.EntityRef{ID: s.id, Kind: logging.EntityKindSet}
}

func (s *Set) checkActive(active []bool) error {
	if active == nil {
		return ErrMissingActiveFlags
	}
	if len(active) != len(s.obstacles) {
		return errors.Wrapf(ErrActiveFlagsLength, "got %d flags for %d obstacles", len(active), len(s.obstacles))
	}
	return nil
}

// assemble stacks the raw observations and appends each agent's ranked
// neighbors to obs.
func (s *Set) assemble(obs [][]float64, agentsPos, agentsVel []geom.Vec3, raw [][][]float64) ([][]float64, error) {
	tensor, err := observation.Stack(raw)
	if err != nil {
		return nil, err
	}
	positions := make([]geom.Vec3, len(s.obstacles))
	for i, o := range s.obstacles {
		positions[i] = o.Position()
	}
	neighbors, err := s.ranker.Rank(agentsPos, agentsVel, positions)
	if err != nil {
		return nil, err
	}
	return observation.Extend(obs, neighbors, tensor)
}
