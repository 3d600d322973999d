package obstacle

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/SumeetBatra/quad-swarm-rl/internal/geom"
)

// Observation is one obstacle's raw features as seen by every agent,
// indexed [agent][feature].
type Observation [][]float64

// ResetInput carries the per-episode parameters handed to an obstacle.
type ResetInput struct {
	Active        bool
	FormationSize float64
	GoalCenter    geom.Vec3
	Shape         Shape
	AgentsPos     []geom.Vec3
	AgentsVel     []geom.Vec3
	// Position is nil when the layout leaves placement to the obstacle.
	Position *geom.Vec3
}

//go:generate mockgen -source=obstacle.go -destination=mocks/obstacle.go -package=mocks

// Obstacle is a single obstacle owned by a set. Implementations own their
// position and velocity.
type Obstacle interface {
	Reset(in ResetInput) Observation
	Step(agentsPos, agentsVel []geom.Vec3, active bool) Observation
	CollisionDetection(agentsPos []geom.Vec3) (collided []bool, distances []float64)
	Position() geom.Vec3
}

// ObsType selects the raw feature layout.
type ObsType int

const (
	// ObsPosSize emits relative position (3) and size (1).
	ObsPosSize ObsType = iota
	// ObsPosVelSize emits relative position (3), velocity (3) and size (1).
	ObsPosVelSize
)

// Features returns the per-agent feature width.
func (t ObsType) Features() int {
	if t == ObsPosVelSize {
		return 7
	}
	return 4
}

func (t ObsType) String() string {
	if t == ObsPosVelSize {
		return "pos_vel_size"
	}
	return "pos_size"
}

func ParseObsType(name string) (ObsType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pos_size":
		return ObsPosSize, nil
	case "pos_vel_size":
		return ObsPosVelSize, nil
	}
	return 0, errors.Wrapf(ErrUnknownObsType, "%q", name)
}

// Trajectory names how an obstacle moves between steps.
type Trajectory int

const (
	TrajectoryStatic Trajectory = iota
)

func (t Trajectory) String() string {
	if t == TrajectoryStatic {
		return "static"
	}
	return fmt.Sprintf("trajectory(%d)", int(t))
}

func ParseTrajectory(name string) (Trajectory, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "static":
		return TrajectoryStatic, nil
	}
	return 0, errors.Wrapf(ErrUnsupportedTrajectory, "%q", name)
}

// Options configure a new obstacle.
type Options struct {
	Index      int
	Shape      Shape
	Size       float64
	AgentSize  float64
	InfHeight  bool
	ObsType    ObsType
	Trajectory Trajectory
	Position   geom.Vec3
}

// New builds the obstacle variant selected by opts.Trajectory.
func New(opts Options) (Obstacle, error) {
	switch opts.Trajectory {
	case TrajectoryStatic:
		return NewStatic(opts), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedTrajectory, "obstacle %d: %s", opts.Index, opts.Trajectory)
}
