package obstacles

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/SumeetBatra/quad-swarm-rl/internal/geom"
	"github.com/SumeetBatra/quad-swarm-rl/internal/layout"
	"github.com/SumeetBatra/quad-swarm-rl/internal/obstacle"
)

// LayoutMode selects how obstacle positions are decided.
type LayoutMode int

const (
	ModeNone LayoutMode = iota
	// ModeStaticPillar re-lays pillars or stacks on every reset.
	ModeStaticPillar
	// ModeStaticRandomPlace scatters blocks once at construction.
	ModeStaticRandomPlace
	// ModeStaticDoor builds a fixed doorway wall at construction.
	ModeStaticDoor
)

var modeNames = map[LayoutMode]string{
	ModeNone:              "no_obstacles",
	ModeStaticPillar:      "static_pillar",
	ModeStaticRandomPlace: "static_random_place",
	ModeStaticDoor:        "static_door",
}

// ErrUnknownMode is returned by ParseLayoutMode for names outside the table.
var ErrUnknownMode = errors.New("obstacles: unknown layout mode")

func ParseLayoutMode(name string) (LayoutMode, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return ModeNone, nil
	}
	for mode, n := range modeNames {
		if n == trimmed {
			return mode, nil
		}
	}
	return ModeNone, errors.Wrapf(ErrUnknownMode, "%q", name)
}

func (m LayoutMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

func (m LayoutMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *LayoutMode) UnmarshalText(text []byte) error {
	mode, err := ParseLayoutMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// ModeNames lists every accepted layout mode name.
func ModeNames() []string {
	return []string{
		ModeNone.String(),
		ModeStaticPillar.String(),
		ModeStaticRandomPlace.String(),
		ModeStaticDoor.String(),
	}
}

// Options are decided once when a set is built.
type Options struct {
	Mode          LayoutMode
	Count         int
	Shape         obstacle.ShapeChoice
	Size          float64
	AgentSize     float64
	NeighborCount int
	ObsType       obstacle.ObsType
	Trajectory    obstacle.Trajectory
	StackHeight   int
	LevelMode     layout.LevelMode
	InfHeight     bool
	Seed          string
}

//go:generate mockgen -source=options.go -destination=mocks/room.go -package=mocks

// Room is the environment collaborator providing arena geometry.
type Room interface {
	// Bounds returns the room's min and max corners.
	Bounds() (min, max geom.Vec3)
	// SpawnExtent returns the agent spawn box relative to a start point.
	SpawnExtent() (min, max geom.Vec3)
}

// StaticRoom is a Room with fixed geometry.
type StaticRoom struct {
	Min      geom.Vec3
	Max      geom.Vec3
	SpawnMin geom.Vec3
	SpawnMax geom.Vec3
}

func (r StaticRoom) Bounds() (geom.Vec3, geom.Vec3) {
	return r.Min, r.Max
}

func (r StaticRoom) SpawnExtent() (geom.Vec3, geom.Vec3) {
	return r.SpawnMin, r.SpawnMax
}

// DefaultRoom is a 10x10x10 room centered on the origin with its floor at
// z = 0 and a two-unit spawn box.
func DefaultRoom() StaticRoom {
	return StaticRoom{
		Min:      geom.Vec3{X: -5, Y: -5, Z: 0},
		Max:      geom.Vec3{X: 5, Y: 5, Z: 10},
		SpawnMin: geom.Vec3{X: -1, Y: -1, Z: -1},
		SpawnMax: geom.Vec3{X: 1, Y: 1, Z: 1},
	}
}
