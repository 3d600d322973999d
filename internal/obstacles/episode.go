package obstacles

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/SumeetBatra/quad-swarm-rl/internal/geom"
	"github.com/SumeetBatra/quad-swarm-rl/internal/layout"
	"github.com/SumeetBatra/quad-swarm-rl/internal/obstacle"
	"github.com/SumeetBatra/quad-swarm-rl/internal/telemetry"
	"github.com/SumeetBatra/quad-swarm-rl/logging"
	obstaclelog "github.com/SumeetBatra/quad-swarm-rl/logging/obstacles"
)

// ResetRequest carries the episode parameters for Reset.
type ResetRequest struct {
	// Obs holds each agent's own observation row.
	Obs       [][]float64
	AgentsPos []geom.Vec3
	AgentsVel []geom.Vec3
	// Active has one flag per obstacle.
	Active        []bool
	FormationSize float64
	GoalCenter    geom.Vec3
	Level         int
	Scenario      layout.ScenarioKind
	StartPoint    geom.Vec3
	// StartPoints lists one start per agent group for goal-centers
	// scenarios.
	StartPoints []geom.Vec3
	EndPoint    geom.Vec3
}

// StepRequest carries the per-step agent state.
type StepRequest struct {
	Obs       [][]float64
	AgentsPos []geom.Vec3
	AgentsVel []geom.Vec3
	Active    []bool
}

// Reset lays out the obstacles for a new episode and returns obs with the
// ranked obstacle features appended to every row. With no obstacles obs is
// returned unmodified.
func (s *Set) Reset(ctx context.Context, req ResetRequest) ([][]float64, error) {
	if len(s.obstacles) == 0 {
		s.scenario = req.Scenario
		s.level = req.Level
		return req.Obs, nil
	}
	if err := s.checkActive(req.Active); err != nil {
		return nil, errors.Wrap(err, "reset")
	}

	zoneReq := s.zoneRequest(req)
	zones := layout.BuildZones(zoneReq)
	positions, err := s.layout(ctx, s.episode+1, req.Level, zoneReq)
	if err != nil {
		return nil, errors.Wrap(err, "reset")
	}

	// Commit only after the layout succeeded.
	s.scenario = req.Scenario
	s.level = req.Level
	s.episode++
	s.tick = 0
	s.zones = zones
	s.shapes = s.opts.Shape.Draw(s.shapeRNG, len(s.obstacles))
	copy(s.active, req.Active)

	raw := make([][][]float64, len(s.obstacles))
	for i, o := range s.obstacles {
		in := obstacle.ResetInput{
			Active:        req.Active[i],
			FormationSize: req.FormationSize,
			GoalCenter:    req.GoalCenter,
			Shape:         s.shapes[i],
			AgentsPos:     req.AgentsPos,
			AgentsVel:     req.AgentsVel,
		}
		if positions != nil {
			in.Position = &positions[i]
		}
		raw[i] = o.Reset(in)
	}

	out, err := s.assemble(req.Obs, req.AgentsPos, req.AgentsVel, raw)
	if err != nil {
		return nil, errors.Wrap(err, "reset")
	}

	s.metrics.Add(telemetry.KeyResets, 1)
	obstaclelog.LayoutGenerated(ctx, s.publisher, s.episode, s.actor(), s.layoutPayload(), nil)
	return out, nil
}

// layout returns the per-obstacle positions for this reset, or nil when the
// obstacles keep their own.
func (s *Set) layout(ctx context.Context, episode uint64, level int, req layout.ZoneRequest) ([]geom.Vec3, error) {
	if s.opts.Mode != ModeStaticPillar {
		return nil, nil
	}
	if !s.opts.InfHeight {
		return s.stacks.Generate(s.layoutRNG, level)
	}

	placement, err := s.pillars.Generate(s.layoutRNG, level, req)
	if err != nil {
		return nil, err
	}
	if placement.ClearanceMisses > 0 || placement.OverlapMisses > 0 {
		s.metrics.Add(telemetry.KeyClearanceMisses, uint64(placement.ClearanceMisses))
		s.metrics.Add(telemetry.KeyOverlapMisses, uint64(placement.OverlapMisses))
		obstaclelog.PlacementExhausted(ctx, s.publisher, episode, s.actor(), obstaclelog.PlacementExhaustedPayload{
			Level:           level,
			ClearanceMisses: placement.ClearanceMisses,
			OverlapMisses:   placement.OverlapMisses,
		}, nil)
	}
	return placement.Positions, nil
}

func (s *Set) zoneRequest(req ResetRequest) layout.ZoneRequest {
	spawnMin, spawnMax := s.room.SpawnExtent()
	return layout.ZoneRequest{
		Kind:        req.Scenario,
		StartPoint:  req.StartPoint,
		StartPoints: req.StartPoints,
		EndPoint:    req.EndPoint,
		SpawnMin:    spawnMin,
		SpawnMax:    spawnMax,
	}
}

// Step advances every obstacle one tick without changing the layout.
func (s *Set) Step(ctx context.Context, req StepRequest) ([][]float64, error) {
	if len(s.obstacles) == 0 {
		return req.Obs, nil
	}
	if err := s.checkActive(req.Active); err != nil {
		return nil, errors.Wrap(err, "step")
	}
	s.tick++
	copy(s.active, req.Active)

	raw := make([][][]float64, len(s.obstacles))
	for i, o := range s.obstacles {
		raw[i] = o.Step(req.AgentsPos, req.AgentsVel, req.Active[i])
	}
	out, err := s.assemble(req.Obs, req.AgentsPos, req.AgentsVel, raw)
	if err != nil {
		return nil, errors.Wrap(err, "step")
	}
	s.metrics.Add(telemetry.KeySteps, 1)
	return out, nil
}

// CollisionPair is one agent touching one obstacle.
type CollisionPair struct {
	Agent    int `json:"agent" yaml:"agent"`
	Obstacle int `json:"obstacle" yaml:"obstacle"`
}

// CollisionReport holds the [agent][obstacle] matrices of one check.
type CollisionReport struct {
	// Collisions is 1 where an agent touches an obstacle, 0 elsewhere.
	Collisions [][]float64
	Distances  [][]float64
	// Agents lists the colliding agent of every pair, row-major.
	Agents []int
	Pairs  []CollisionPair
}

// CollisionDetection checks every agent against every active obstacle.
// Inactive obstacles leave their column zero.
func (s *Set) CollisionDetection(ctx context.Context, agentsPos []geom.Vec3, active []bool) (CollisionReport, error) {
	if err := s.checkActive(active); err != nil {
		return CollisionReport{}, errors.Wrap(err, "collision detection")
	}

	report := CollisionReport{
		Collisions: make([][]float64, len(agentsPos)),
		Distances:  make([][]float64, len(agentsPos)),
	}
	for a := range agentsPos {
		report.Collisions[a] = make([]float64, len(s.obstacles))
		report.Distances[a] = make([]float64, len(s.obstacles))
	}
	for o, obst := range s.obstacles {
		if !active[o] {
			continue
		}
		collided, distances := obst.CollisionDetection(agentsPos)
		for a := range agentsPos {
			if collided[a] {
				report.Collisions[a][o] = 1
			}
			report.Distances[a][o] = distances[a]
		}
	}
	for a, row := range report.Collisions {
		for o, hit := range row {
			if hit >= 1 {
				report.Agents = append(report.Agents, a)
				report.Pairs = append(report.Pairs, CollisionPair{Agent: a, Obstacle: o})
			}
		}
	}

	if len(report.Pairs) > 0 {
		s.metrics.Add(telemetry.KeyCollisions, uint64(len(report.Pairs)))
		targets := make([]logging.EntityRef, 0, len(report.Agents))
		for _, a := range report.Agents {
			targets = append(targets, logging.EntityRef{ID: strconv.Itoa(a), Kind: logging.EntityKindAgent})
		}
		obstaclelog.Collision(ctx, s.publisher, s.episode, s.tick, s.actor(), targets, obstaclelog.CollisionPayload{
			Agents: report.Agents,
			Pairs:  len(report.Pairs),
		}, nil)
	}
	return report, nil
}
