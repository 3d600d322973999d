package layout

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/SumeetBatra/quad-swarm-rl/internal/geom"
	"github.com/SumeetBatra/quad-swarm-rl/internal/obstacle"
	"github.com/SumeetBatra/quad-swarm-rl/internal/random"
)

const (
	// roomMargin keeps pillar candidates away from the walls.
	roomMargin = 1.0
	// clearanceRetries is the number of resamples after a zone rejection.
	clearanceRetries = 3
	// overlapRetries bounds resampling against one earlier pillar; the loop
	// gives up once its counter exceeds this value.
	overlapRetries = 5
)

// PillarConfig describes infinite-height pillar placement.
type PillarConfig struct {
	Count     int
	Size      float64
	Shape     obstacle.ShapeChoice
	InfHeight bool
	RoomMin   geom.Vec3
	RoomMax   geom.Vec3
}

// Placement is the outcome of one pillar layout.
type Placement struct {
	Positions []geom.Vec3
	Zones     Zones
	// ClearanceMisses counts candidates kept while still crowding a zone.
	ClearanceMisses int
	// OverlapMisses counts pillars kept while still overlapping an earlier
	// one.
	OverlapMisses int
}

// PillarSampler places pillars by rejection sampling. Sampling is best
// effort: once the retry budget is spent the last candidate is kept even if
// it still violates the constraint.
type PillarSampler struct {
	cfg PillarConfig
}

func NewPillarSampler(cfg PillarConfig) *PillarSampler {
	return &PillarSampler{cfg: cfg}
}

func (p *PillarSampler) roomHeight() float64 {
	return p.cfg.RoomMax.Z - p.cfg.RoomMin.Z
}

// Height returns the pillar center z for the curriculum level.
func (p *PillarSampler) Height(level int) float64 {
	h := p.roomHeight()
	if level <= -1 {
		return p.cfg.RoomMin.Z - 0.5*h - 1.0
	}
	return p.cfg.RoomMin.Z + 0.5*h
}

// Candidate draws a uniform xy inside the room footprint shrunk by the wall
// margin.
func (p *PillarSampler) Candidate(rng *rand.Rand) geom.Vec2 {
	return geom.Vec2{
		X: random.Uniform(rng, p.cfg.RoomMin.X+roomMargin, p.cfg.RoomMax.X-roomMargin),
		Y: random.Uniform(rng, p.cfg.RoomMin.Y+roomMargin, p.cfg.RoomMax.Y-roomMargin),
	}
}

// Sample returns a candidate clear of the zones, retrying up to three times.
// The final flag is true when the kept candidate still crowds a zone.
func (p *PillarSampler) Sample(rng *rand.Rand, zones Zones) (geom.Vec2, bool) {
	pos := p.Candidate(rng)
	crowded := zones.Crowds(pos, p.cfg.Size)
	for i := 0; crowded && i < clearanceRetries; i++ {
		pos = p.Candidate(rng)
		crowded = zones.Crowds(pos, p.cfg.Size)
	}
	return pos, crowded
}

func (p *PillarSampler) footprint(center geom.Vec3) geom.Box {
	half := 0.5 * p.cfg.Size
	hz := half
	if p.cfg.InfHeight {
		hz = 0.5 * p.roomHeight()
	}
	return geom.Box{Center: center, Half: geom.Vec3{X: half, Y: half, Z: hz}}
}

// Separate resamples candidate while it overlaps earlier pillars, checking
// them one at a time in placement order. A resample can reintroduce overlap
// with a pillar that was already checked; that is not revisited.
func (p *PillarSampler) Separate(rng *rand.Rand, candidate geom.Vec3, placed []geom.Vec3, zones Zones) (geom.Vec3, error) {
	if !p.cfg.Shape.IsCube() {
		return candidate, errors.Wrapf(ErrFootprintShape, "shape %s", p.cfg.Shape)
	}

	for _, prev := range placed {
		other := p.footprint(prev)
		count := 0
		for p.footprint(candidate).Overlaps(other) {
			if count > overlapRetries {
				break
			}
			xy, _ := p.Sample(rng, zones)
			candidate = xy.WithZ(candidate.Z)
			count++
		}
	}
	return candidate, nil
}

// Overlapping reports whether pos overlaps any of the placed pillars.
func (p *PillarSampler) Overlapping(pos geom.Vec3, placed []geom.Vec3) bool {
	box := p.footprint(pos)
	for _, prev := range placed {
		if box.Overlaps(p.footprint(prev)) {
			return true
		}
	}
	return false
}

// Generate lays out every pillar for the level and scenario.
func (p *PillarSampler) Generate(rng *rand.Rand, level int, req ZoneRequest) (Placement, error) {
	zones := BuildZones(req)
	placement := Placement{
		Positions: make([]geom.Vec3, 0, p.cfg.Count),
		Zones:     zones,
	}
	z := p.Height(level)

	for i := 0; i < p.cfg.Count; i++ {
		xy, _ := p.Sample(rng, zones)
		pos, err := p.Separate(rng, xy.WithZ(z), placement.Positions, zones)
		if err != nil {
			return Placement{}, errors.Wrapf(err, "pillar %d", i)
		}
		if zones.Crowds(pos.XY(), p.cfg.Size) {
			placement.ClearanceMisses++
		}
		if p.Overlapping(pos, placement.Positions) {
			placement.OverlapMisses++
		}
		placement.Positions = append(placement.Positions, pos)
	}
	return placement, nil
}
