package layout

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/SumeetBatra/quad-swarm-rl/internal/geom"
	"github.com/SumeetBatra/quad-swarm-rl/internal/random"
)

// LevelMode selects how the curriculum level lowers or raises stacks.
type LevelMode int

const (
	// LevelModeToggle keeps stacks on the floor once the curriculum is active
	// and buries them fully below it before.
	LevelModeToggle LevelMode = iota
	// LevelModeRamp raises stacks through the floor half a size per level.
	LevelModeRamp
)

// StackConfig describes finite-height stacked obstacles.
type StackConfig struct {
	Count       int
	StackHeight int
	Size        float64
	LevelMode   LevelMode
}

// Stacks places finite-height obstacles in one or two columns.
type Stacks struct {
	cfg StackConfig
}

func NewStacks(cfg StackConfig) Stacks {
	return Stacks{cfg: cfg}
}

// Columns reports the topology implied by count and stack height.
func (s Stacks) Columns() int {
	if s.cfg.StackHeight <= 0 {
		return 0
	}
	return s.cfg.Count / s.cfg.StackHeight
}

// levelSplit is the level above which single-column anchors spread wider
// and where the ramp mode stops rising.
func (s Stacks) levelSplit() float64 {
	return 2.0 * float64(s.cfg.StackHeight)
}

// Generate returns one position per obstacle in index order.
func (s Stacks) Generate(rng *rand.Rand, level int) ([]geom.Vec3, error) {
	switch s.Columns() {
	case 1:
		return s.singleColumn(rng, level), nil
	case 2:
		return s.twoColumns(rng, level), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedStackTopology, "count=%d stack_height=%d", s.cfg.Count, s.cfg.StackHeight)
}

func (s Stacks) singleColumn(rng *rand.Rand, level int) []geom.Vec3 {
	spread := 1.0
	if float64(level) > s.levelSplit() {
		spread = 2.0
	}
	anchor := geom.Vec2{
		X: random.Uniform(rng, -spread, spread),
		Y: random.Uniform(rng, -spread, spread),
	}

	bottom := s.bottom(level, s.cfg.Count)
	positions := make([]geom.Vec3, 0, s.cfg.Count)
	for i := 0; i < s.cfg.Count; i++ {
		positions = append(positions, anchor.WithZ(bottom+s.cfg.Size*(0.5+float64(i))))
	}
	return positions
}

func (s Stacks) twoColumns(rng *rand.Rand, level int) []geom.Vec3 {
	left := geom.Vec2{X: random.Uniform(rng, -2.0, -0.5), Y: random.Uniform(rng, -2.0, 2.0)}
	right := geom.Vec2{X: random.Uniform(rng, 0.5, 2.0), Y: random.Uniform(rng, -2.0, 2.0)}

	bottom := s.bottom(level, s.cfg.StackHeight)
	pairs := s.cfg.Count / 2
	positions := make([]geom.Vec3, 0, s.cfg.Count)
	for i := 0; i < pairs; i++ {
		z := bottom + s.cfg.Size*(0.5+float64(i))
		positions = append(positions, left.WithZ(z), right.WithZ(z))
	}
	if len(positions) < s.cfg.Count {
		// An odd count leaves the last obstacle on top of the left column.
		positions = append(positions, left.WithZ(bottom+s.cfg.Size*(0.5+float64(pairs))))
	}
	return positions
}

// bottom computes the z of the lowest obstacle edge in a column of height
// obstacles.
func (s Stacks) bottom(level, height int) float64 {
	size := s.cfg.Size
	switch s.cfg.LevelMode {
	case LevelModeRamp:
		levelZ := geom.Clamp(float64(level), -1, s.levelSplit())
		return 0.5*size*levelZ - size*float64(height)
	default:
		if level >= 0 {
			return 0
		}
		return size * (-0.5 - float64(height))
	}
}
