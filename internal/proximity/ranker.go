// Package proximity ranks obstacles per agent so observations can carry a
// fixed number of the nearest ones.
package proximity

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/SumeetBatra/quad-swarm-rl/internal/geom"
)

// AllNeighbors keeps every obstacle in index order.
const AllNeighbors = -1

const (
	minDistance    = 0.01
	velocityWeight = 0.1
)

// ErrNeighborCount is returned for a neighbor count outside
// {-1, count} ∪ [1, count).
var ErrNeighborCount = errors.New("proximity: invalid neighbor count")

// ValidNeighborCount reports whether k neighbors can be drawn from count
// obstacles.
func ValidNeighborCount(k, count int) bool {
	return k == AllNeighbors || k == count || (k >= 1 && k < count)
}

// Ranker selects the K nearest obstacles for every agent.
type Ranker struct {
	k     int
	count int
}

func NewRanker(k, count int) (*Ranker, error) {
	if !ValidNeighborCount(k, count) {
		return nil, errors.Wrapf(ErrNeighborCount, "k=%d obstacles=%d", k, count)
	}
	return &Ranker{k: k, count: count}, nil
}

// Width returns the length of every neighbor list.
func (r *Ranker) Width() int {
	if r.ranksAll() {
		return r.count
	}
	return r.k
}

func (r *Ranker) ranksAll() bool {
	return r.k == AllNeighbors || r.k == r.count
}

// CompositeDistance blends the relative distance with how fast the obstacle
// approaches along the line of sight. Smaller means closer.
func CompositeDistance(relPos, relVel geom.Vec3) float64 {
	dist := math.Max(relPos.Norm(), minDistance)
	unit := relPos.Scale(1 / dist)
	return dist + velocityWeight*unit.Dot(relVel)
}

// Rank returns one neighbor index list per agent. Obstacle velocity is not
// exposed to ranking, so the relative velocity term is always zero.
func (r *Ranker) Rank(agentsPos, agentsVel, obstaclesPos []geom.Vec3) ([][]int, error) {
	if len(obstaclesPos) != r.count {
		return nil, errors.Errorf("proximity: ranker built for %d obstacles, got %d", r.count, len(obstaclesPos))
	}

	lists := make([][]int, len(agentsPos))
	if r.ranksAll() {
		for i := range lists {
			lists[i] = identity(r.count)
		}
		return lists, nil
	}

	dist := make([]float64, r.count)
	for i, agent := range agentsPos {
		for j, obst := range obstaclesPos {
			dist[j] = CompositeDistance(obst.Sub(agent), geom.Vec3{})
		}
		order := identity(r.count)
		sort.SliceStable(order, func(a, b int) bool {
			return dist[order[a]] < dist[order[b]]
		})
		lists[i] = order[:r.k:r.k]
	}
	return lists, nil
}

func identity(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
