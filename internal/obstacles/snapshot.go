package obstacles

import (
	"github.com/SumeetBatra/quad-swarm-rl/internal/geom"
	"github.com/SumeetBatra/quad-swarm-rl/internal/layout"
	"github.com/SumeetBatra/quad-swarm-rl/internal/obstacle"
	obstaclelog "github.com/SumeetBatra/quad-swarm-rl/logging/obstacles"
)

// ObstacleSnapshot is one obstacle in a Snapshot.
type ObstacleSnapshot struct {
	Index    int            `json:"index" yaml:"index"`
	Shape    obstacle.Shape `json:"shape" yaml:"shape"`
	Size     float64        `json:"size" yaml:"size"`
	Position geom.Vec3      `json:"position" yaml:"position"`
	Active   bool           `json:"active" yaml:"active"`
}

// Snapshot is the current layout of a set.
type Snapshot struct {
	ID        string              `json:"id" yaml:"id"`
	Mode      LayoutMode          `json:"mode" yaml:"mode"`
	Scenario  layout.ScenarioKind `json:"scenario" yaml:"scenario"`
	Level     int                 `json:"level" yaml:"level"`
	Episode   uint64              `json:"episode" yaml:"episode"`
	Tick      uint64              `json:"tick" yaml:"tick"`
	Zones     layout.Zones        `json:"zones" yaml:"zones"`
	Obstacles []ObstacleSnapshot  `json:"obstacles" yaml:"obstacles"`
}

func (s *Set) Snapshot() Snapshot {
	snap := Snapshot{
		ID:        s.id,
		Mode:      s.opts.Mode,
		Scenario:  s.scenario,
		Level:     s.level,
		Episode:   s.episode,
		Tick:      s.tick,
		Zones:     s.zones,
		Obstacles: make([]ObstacleSnapshot, len(s.obstacles)),
	}
	for i, o := range s.obstacles {
		snap.Obstacles[i] = ObstacleSnapshot{
			Index:    i,
			Shape:    s.shapes[i],
			Size:     s.opts.Size,
			Position: o.Position(),
			Active:   s.active[i],
		}
	}
	return snap
}

func (s *Set) layoutPayload() obstaclelog.LayoutGeneratedPayload {
	payload := obstaclelog.LayoutGeneratedPayload{
		Mode:     s.opts.Mode.String(),
		Scenario: s.scenario.String(),
		Level:    s.level,
		Count:    len(s.obstacles),
		Shapes:   make([]string, len(s.shapes)),
		Centers:  make([][]float64, len(s.obstacles)),
	}
	if s.opts.Mode == ModeStaticPillar && s.opts.InfHeight {
		payload.Height = s.pillars.Height(s.level)
	}
	for i, shape := range s.shapes {
		payload.Shapes[i] = shape.String()
	}
	for i, o := range s.obstacles {
		payload.Centers[i] = o.Position().Slice()
	}
	return payload
}
