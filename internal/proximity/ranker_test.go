package proximity

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SumeetBatra/quad-swarm-rl/internal/geom"
)

func randomPoints(rng *rand.Rand, n int) []geom.Vec3 {
	pts := make([]geom.Vec3, n)
	for i := range pts {
		pts[i] = geom.Vec3{X: rng.Float64()*10 - 5, Y: rng.Float64()*10 - 5, Z: rng.Float64() * 10}
	}
	return pts
}

func TestNewRankerValidatesNeighborCount(t *testing.T) {
	for _, tc := range []struct {
		k, count int
		ok       bool
	}{
		{k: -1, count: 5, ok: true},
		{k: 5, count: 5, ok: true},
		{k: 1, count: 5, ok: true},
		{k: 4, count: 5, ok: true},
		{k: 0, count: 5, ok: false},
		{k: 6, count: 5, ok: false},
		{k: -2, count: 5, ok: false},
	} {
		_, err := NewRanker(tc.k, tc.count)
		if tc.ok {
			assert.NoError(t, err, "k=%d count=%d", tc.k, tc.count)
			continue
		}
		assert.Equal(t, ErrNeighborCount, errors.Cause(err), "k=%d count=%d", tc.k, tc.count)
	}
}

func TestRankAllReturnsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	obstacles := randomPoints(rng, 6)
	agents := randomPoints(rng, 3)

	for _, k := range []int{AllNeighbors, 6} {
		ranker, err := NewRanker(k, 6)
		require.NoError(t, err)
		assert.Equal(t, 6, ranker.Width())

		lists, err := ranker.Rank(agents, make([]geom.Vec3, 3), obstacles)
		require.NoError(t, err)
		require.Len(t, lists, 3)
		for _, list := range lists {
			assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, list)
		}
	}
}

func TestRankNearestSortedAndDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	obstacles := randomPoints(rng, 8)
	agents := randomPoints(rng, 4)

	ranker, err := NewRanker(3, 8)
	require.NoError(t, err)
	lists, err := ranker.Rank(agents, make([]geom.Vec3, 4), obstacles)
	require.NoError(t, err)

	for a, list := range lists {
		require.Len(t, list, 3)
		seen := map[int]bool{}
		prev := math.Inf(-1)
		for _, idx := range list {
			assert.False(t, seen[idx], "agent %d repeats obstacle %d", a, idx)
			seen[idx] = true
			d := CompositeDistance(obstacles[idx].Sub(agents[a]), geom.Vec3{})
			assert.GreaterOrEqual(t, d, prev)
			prev = d
		}

		all := make([]float64, len(obstacles))
		for j, o := range obstacles {
			all[j] = o.Sub(agents[a]).Norm()
		}
		sort.Float64s(all)
		assert.InDelta(t, all[2], obstacles[list[2]].Sub(agents[a]).Norm(), 1e-12)
	}
}

func TestRankBreaksTiesByIndex(t *testing.T) {
	obstacles := []geom.Vec3{{X: 1}, {X: -1}, {Y: 1}, {X: 5}}
	ranker, err := NewRanker(2, 4)
	require.NoError(t, err)

	lists, err := ranker.Rank([]geom.Vec3{{}}, []geom.Vec3{{X: 3}}, obstacles)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}}, lists)
}

func TestRankRejectsWrongObstacleCount(t *testing.T) {
	ranker, err := NewRanker(1, 3)
	require.NoError(t, err)
	_, err = ranker.Rank([]geom.Vec3{{}}, []geom.Vec3{{}}, []geom.Vec3{{}})
	assert.Error(t, err)
}

func TestCompositeDistance(t *testing.T) {
	assert.InDelta(t, minDistance, CompositeDistance(geom.Vec3{}, geom.Vec3{}), 1e-12)
	assert.InDelta(t, 2.0-0.1, CompositeDistance(geom.Vec3{X: 2}, geom.Vec3{X: -1}), 1e-12)
}
