package obstacle

import "github.com/SumeetBatra/quad-swarm-rl/internal/geom"

// Static is an obstacle that holds its position between resets.
type Static struct {
	index     int
	size      float64
	agentSize float64
	infHeight bool
	obsType   ObsType

	shape  Shape
	body   Body
	pos    geom.Vec3
	vel    geom.Vec3
	active bool
}

func NewStatic(opts Options) *Static {
	return &Static{
		index:     opts.Index,
		size:      opts.Size,
		agentSize: opts.AgentSize,
		infHeight: opts.InfHeight,
		obsType:   opts.ObsType,
		shape:     opts.Shape,
		body:      NewBody(opts.Shape, opts.Size, opts.InfHeight),
		pos:       opts.Position,
	}
}

func (s *Static) Index() int          { return s.index }
func (s *Static) Shape() Shape        { return s.shape }
func (s *Static) Size() float64       { return s.size }
func (s *Static) Active() bool        { return s.active }
func (s *Static) Position() geom.Vec3 { return s.pos }
func (s *Static) Velocity() geom.Vec3 { return s.vel }

func (s *Static) Reset(in ResetInput) Observation {
	s.active = in.Active
	if in.Shape != s.shape {
		s.shape = in.Shape
		s.body = NewBody(in.Shape, s.size, s.infHeight)
	}
	if in.Position != nil {
		s.pos = *in.Position
	}
	s.vel = geom.Vec3{}
	return s.observe(in.AgentsPos)
}

func (s *Static) Step(agentsPos, _ []geom.Vec3, active bool) Observation {
	s.active = active
	return s.observe(agentsPos)
}

// CollisionDetection flags every agent whose center lies within its own
// radius of the obstacle surface.
func (s *Static) CollisionDetection(agentsPos []geom.Vec3) ([]bool, []float64) {
	collided := make([]bool, len(agentsPos))
	distances := make([]float64, len(agentsPos))
	for i, p := range agentsPos {
		d := s.body.SurfaceDistance(s.pos, p)
		distances[i] = d
		collided[i] = d <= s.agentSize
	}
	return collided, distances
}

func (s *Static) observe(agentsPos []geom.Vec3) Observation {
	width := s.obsType.Features()
	obs := make(Observation, len(agentsPos))
	for i, p := range agentsPos {
		rel := s.pos.Sub(p)
		row := make([]float64, 0, width)
		row = append(row, rel.X, rel.Y, rel.Z)
		if s.obsType == ObsPosVelSize {
			row = append(row, s.vel.X, s.vel.Y, s.vel.Z)
		}
		row = append(row, s.size)
		obs[i] = row
	}
	return obs
}
