package layout

import (
	"math/rand"

	"github.com/SumeetBatra/quad-swarm-rl/internal/geom"
	"github.com/SumeetBatra/quad-swarm-rl/internal/random"
)

const (
	// maxBlockHeight caps how many obstacles share one scattered block.
	maxBlockHeight = 3
	// scatterWallMargin keeps blocks away from the y walls, where agents
	// spawn.
	scatterWallMargin = 2.0
	scatterRetries    = 3
)

// ScatterConfig describes construction-time random block placement.
type ScatterConfig struct {
	Count   int
	Size    float64
	RoomMin geom.Vec3
	RoomMax geom.Vec3
}

// Scatter places count obstacles in short floor-standing blocks of one to
// three. A block closer than one size to an earlier block is resampled up to
// three times against that block only.
func Scatter(rng *rand.Rand, cfg ScatterConfig) []geom.Vec3 {
	half := 0.5 * cfg.Size
	sample := func() geom.Vec2 {
		return geom.Vec2{
			X: random.Uniform(rng, cfg.RoomMin.X+half, cfg.RoomMax.X-half),
			Y: random.Uniform(rng, cfg.RoomMin.Y+scatterWallMargin+half, cfg.RoomMax.Y-scatterWallMargin-half),
		}
	}

	positions := make([]geom.Vec3, 0, cfg.Count)
	blocks := make([]geom.Vec2, 0, cfg.Count)
	remaining := cfg.Count
	for remaining > 0 {
		height := random.IntRange(rng, 1, min(maxBlockHeight+1, remaining+1))
		remaining -= height

		xy := sample()
		for _, block := range blocks {
			if xy.Sub(block).Norm() >= cfg.Size {
				continue
			}
			for try := 0; try < scatterRetries; try++ {
				xy = sample()
				if xy.Sub(block).Norm() >= cfg.Size {
					break
				}
			}
		}

		for level := 0; level < height; level++ {
			positions = append(positions, xy.WithZ(cfg.Size*(0.5+float64(level))))
		}
		blocks = append(blocks, xy)
	}
	return positions
}
