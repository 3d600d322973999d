package layout

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/SumeetBatra/quad-swarm-rl/internal/geom"
)

// ScenarioKind classifies how agents spawn and where their goals sit, which
// decides the exclusion zones obstacles must keep clear of.
type ScenarioKind int

const (
	// ScenarioSingleGoal: shared start, one goal point.
	ScenarioSingleGoal ScenarioKind = iota
	// ScenarioMultiGoalCenter: shared start, goals spread around a center.
	ScenarioMultiGoalCenter
	// ScenarioGoalCenters: one start point per agent group.
	ScenarioGoalCenters
)

var scenarioNames = map[string]ScenarioKind{
	"o_static_same_goal":  ScenarioSingleGoal,
	"o_dynamic_same_goal": ScenarioSingleGoal,
	"o_dynamic_diff_goal": ScenarioSingleGoal,
	"o_diagonal":          ScenarioSingleGoal,
	"o_ep_lissajous3D":    ScenarioSingleGoal,
	"o_ep_rand_bezier":    ScenarioSingleGoal,
	"o_random":            ScenarioMultiGoalCenter,
	"o_swap_goals":        ScenarioGoalCenters,
	"o_swarm_vs_swarm":    ScenarioGoalCenters,
}

// ParseScenario maps a scenario name to its kind.
func ParseScenario(name string) (ScenarioKind, error) {
	trimmed := strings.TrimSpace(name)
	if kind, ok := scenarioNames[trimmed]; ok {
		return kind, nil
	}
	switch strings.ToLower(trimmed) {
	case "single_goal":
		return ScenarioSingleGoal, nil
	case "multi_goal_center":
		return ScenarioMultiGoalCenter, nil
	case "goal_centers":
		return ScenarioGoalCenters, nil
	}
	return 0, errors.Wrapf(ErrUnknownScenario, "%q", name)
}

func (k ScenarioKind) String() string {
	switch k {
	case ScenarioMultiGoalCenter:
		return "multi_goal_center"
	case ScenarioGoalCenters:
		return "goal_centers"
	default:
		return "single_goal"
	}
}

// MarshalText lets scenario kinds appear by name in snapshots.
func (k ScenarioKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ScenarioKind) UnmarshalText(text []byte) error {
	kind, err := ParseScenario(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// goalHalfExtent is the fixed goal zone half width for single-goal scenarios.
const goalHalfExtent = 0.5

// ZoneRequest carries the scenario geometry for one reset.
type ZoneRequest struct {
	Kind        ScenarioKind
	StartPoint  geom.Vec3
	StartPoints []geom.Vec3
	EndPoint    geom.Vec3
	// SpawnMin and SpawnMax are the agent spawn extent around a start point.
	SpawnMin geom.Vec3
	SpawnMax geom.Vec3
}

// Zones are the exclusion rectangles for one episode.
type Zones struct {
	Kind   ScenarioKind `json:"kind" yaml:"kind"`
	Start  geom.Rect    `json:"start" yaml:"start"`
	Goal   geom.Rect    `json:"goal" yaml:"goal"`
	Starts []geom.Rect  `json:"starts,omitempty" yaml:"starts,omitempty"`
}

// BuildZones derives the exclusion zones from scenario geometry.
func BuildZones(req ZoneRequest) Zones {
	lo, hi := req.SpawnMin.XY(), req.SpawnMax.XY()
	zones := Zones{Kind: req.Kind}

	if req.Kind == ScenarioGoalCenters {
		starts := req.StartPoints
		if len(starts) == 0 {
			starts = []geom.Vec3{req.StartPoint}
		}
		zones.Starts = make([]geom.Rect, 0, len(starts))
		for _, p := range starts {
			zones.Starts = append(zones.Starts, geom.RectAround(p.XY(), lo, hi))
		}
		return zones
	}

	zones.Start = geom.RectAround(req.StartPoint.XY(), lo, hi)
	if req.Kind == ScenarioMultiGoalCenter {
		zones.Goal = geom.RectAround(req.EndPoint.XY(), lo, hi)
	} else {
		zones.Goal = geom.RectAround(req.EndPoint.XY(),
			geom.Vec2{X: -goalHalfExtent, Y: -goalHalfExtent},
			geom.Vec2{X: goalHalfExtent, Y: goalHalfExtent})
	}
	return zones
}

// Rects lists every rectangle obstacles must stay clear of.
func (z Zones) Rects() []geom.Rect {
	if z.Kind == ScenarioGoalCenters {
		return z.Starts
	}
	return []geom.Rect{z.Start, z.Goal}
}

// clearanceDistance is the proximity below which a candidate counts as
// touching an expanded zone.
const clearanceDistance = 0.25

// TooClose reports whether an obstacle of the given size centered at p
// would crowd the zone.
func TooClose(p geom.Vec2, zone geom.Rect, size float64) bool {
	return zone.Expand(0.5*size).Distance(p) <= clearanceDistance
}

// Crowds reports whether p is too close to any of the zones.
func (z Zones) Crowds(p geom.Vec2, size float64) bool {
	for _, r := range z.Rects() {
		if TooClose(p, r, size) {
			return true
		}
	}
	return false
}
