package layout

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SumeetBatra/quad-swarm-rl/internal/geom"
	"github.com/SumeetBatra/quad-swarm-rl/internal/obstacle"
	"github.com/SumeetBatra/quad-swarm-rl/internal/random"
)

var (
	testRoomMin  = geom.Vec3{X: -5, Y: -5, Z: 0}
	testRoomMax  = geom.Vec3{X: 5, Y: 5, Z: 10}
	testSpawnMin = geom.Vec3{X: -0.5, Y: -0.5, Z: -0.5}
	testSpawnMax = geom.Vec3{X: 0.5, Y: 0.5, Z: 0.5}
	cube         = obstacle.ShapeChoice{Fixed: obstacle.ShapeCube}
)

func newTestSampler(count int, size float64) *PillarSampler {
	return NewPillarSampler(PillarConfig{
		Count:     count,
		Size:      size,
		Shape:     cube,
		InfHeight: true,
		RoomMin:   testRoomMin,
		RoomMax:   testRoomMax,
	})
}

func farZones() Zones {
	return BuildZones(ZoneRequest{
		Kind:       ScenarioSingleGoal,
		StartPoint: geom.Vec3{X: 100, Y: 100},
		EndPoint:   geom.Vec3{X: -100, Y: -100},
		SpawnMin:   testSpawnMin,
		SpawnMax:   testSpawnMax,
	})
}

func TestBuildZonesByScenario(t *testing.T) {
	start := geom.Vec3{X: -3, Y: -3, Z: 2}
	end := geom.Vec3{X: 3, Y: 3, Z: 2}

	single := BuildZones(ZoneRequest{Kind: ScenarioSingleGoal, StartPoint: start, EndPoint: end, SpawnMin: geom.Vec3{X: -1, Y: -1}, SpawnMax: geom.Vec3{X: 1, Y: 1}})
	assert.Equal(t, geom.Rect{Min: geom.Vec2{X: -4, Y: -4}, Max: geom.Vec2{X: -2, Y: -2}}, single.Start)
	assert.Equal(t, geom.Rect{Min: geom.Vec2{X: 2.5, Y: 2.5}, Max: geom.Vec2{X: 3.5, Y: 3.5}}, single.Goal)
	assert.Len(t, single.Rects(), 2)

	multi := BuildZones(ZoneRequest{Kind: ScenarioMultiGoalCenter, StartPoint: start, EndPoint: end, SpawnMin: geom.Vec3{X: -1, Y: -1}, SpawnMax: geom.Vec3{X: 1, Y: 1}})
	assert.Equal(t, geom.Rect{Min: geom.Vec2{X: 2, Y: 2}, Max: geom.Vec2{X: 4, Y: 4}}, multi.Goal)

	groups := BuildZones(ZoneRequest{
		Kind:        ScenarioGoalCenters,
		StartPoints: []geom.Vec3{start, end, {X: 0, Y: 4}},
		SpawnMin:    testSpawnMin,
		SpawnMax:    testSpawnMax,
	})
	require.Len(t, groups.Starts, 3)
	assert.Equal(t, groups.Starts, groups.Rects())
	assert.Equal(t, geom.Rect{Min: geom.Vec2{X: -0.5, Y: 3.5}, Max: geom.Vec2{X: 0.5, Y: 4.5}}, groups.Starts[2])
}

func TestParseScenario(t *testing.T) {
	kind, err := ParseScenario("o_random")
	require.NoError(t, err)
	assert.Equal(t, ScenarioMultiGoalCenter, kind)

	kind, err = ParseScenario("goal_centers")
	require.NoError(t, err)
	assert.Equal(t, ScenarioGoalCenters, kind)

	_, err = ParseScenario("o_unknown")
	assert.Equal(t, ErrUnknownScenario, errors.Cause(err))
}

func TestTooCloseUsesProximityNotContainment(t *testing.T) {
	zone := geom.Rect{Min: geom.Vec2{X: -1, Y: -1}, Max: geom.Vec2{X: 1, Y: 1}}
	size := 0.4 // expanded zone spans ±1.2

	assert.False(t, TooClose(geom.Vec2{X: 1.5}, zone, size), "0.3 outside the expanded zone is clear")
	assert.True(t, TooClose(geom.Vec2{X: 1.4}, zone, size), "0.2 outside is still too close")
	assert.True(t, TooClose(geom.Vec2{}, zone, size), "inside is always too close")
}

func TestSampleKeepsLastCandidateAfterRetries(t *testing.T) {
	sampler := newTestSampler(1, 0.5)
	everywhere := Zones{Kind: ScenarioSingleGoal, Start: geom.Rect{Min: geom.Vec2{X: -10, Y: -10}, Max: geom.Vec2{X: 10, Y: 10}}}

	mirror := rand.New(rand.NewSource(21))
	var want geom.Vec2
	for i := 0; i < 1+clearanceRetries; i++ {
		want = sampler.Candidate(mirror)
	}

	got, crowded := sampler.Sample(rand.New(rand.NewSource(21)), everywhere)
	assert.True(t, crowded)
	assert.Equal(t, want, got)
}

func TestSampleNeverAcceptsCrowdedFirstCandidate(t *testing.T) {
	sampler := newTestSampler(1, 0.5)
	zones := BuildZones(ZoneRequest{
		Kind:       ScenarioSingleGoal,
		StartPoint: geom.Vec3{},
		EndPoint:   geom.Vec3{X: 2},
		SpawnMin:   geom.Vec3{X: -2, Y: -2},
		SpawnMax:   geom.Vec3{X: 2, Y: 2},
	})

	for seed := int64(0); seed < 200; seed++ {
		first := sampler.Candidate(rand.New(rand.NewSource(seed)))
		got, crowded := sampler.Sample(rand.New(rand.NewSource(seed)), zones)
		if zones.Crowds(first, 0.5) {
			assert.NotEqual(t, first, got, "seed %d kept a crowded first candidate", seed)
		}
		if !crowded {
			assert.False(t, zones.Crowds(got, 0.5))
		}
	}
}

func TestSeparateGivesUpAfterRetryBudget(t *testing.T) {
	sampler := newTestSampler(2, 30) // every pair of footprints overlaps
	zones := farZones()
	placed := []geom.Vec3{{X: 0, Y: 0, Z: 5}}

	mirror := rand.New(rand.NewSource(5))
	var want geom.Vec2
	for i := 0; i < overlapRetries+1; i++ {
		want = sampler.Candidate(mirror)
	}

	got, err := sampler.Separate(rand.New(rand.NewSource(5)), geom.Vec3{X: 1, Y: 1, Z: 5}, placed, zones)
	require.NoError(t, err)
	assert.Equal(t, want.WithZ(5), got)
	assert.True(t, sampler.Overlapping(got, placed))
}

func TestSeparateRejectsNonCubeFootprints(t *testing.T) {
	for _, choice := range []obstacle.ShapeChoice{{Fixed: obstacle.ShapeSphere}, {Random: true}} {
		sampler := NewPillarSampler(PillarConfig{Count: 1, Size: 1, Shape: choice, InfHeight: true, RoomMin: testRoomMin, RoomMax: testRoomMax})
		_, err := sampler.Separate(rand.New(rand.NewSource(1)), geom.Vec3{}, nil, farZones())
		assert.True(t, errors.Is(err, ErrFootprintShape), "choice %s", choice)

		_, err = sampler.Generate(rand.New(rand.NewSource(1)), 0, ZoneRequest{})
		assert.True(t, errors.Is(err, ErrFootprintShape), "choice %s", choice)
	}
}

func TestGeneratePillarsByLevel(t *testing.T) {
	sampler := newTestSampler(6, 0.6)
	req := ZoneRequest{
		Kind:       ScenarioSingleGoal,
		StartPoint: geom.Vec3{X: -3, Y: -3, Z: 2},
		EndPoint:   geom.Vec3{X: 3, Y: 3, Z: 2},
		SpawnMin:   testSpawnMin,
		SpawnMax:   testSpawnMax,
	}

	disabled, err := sampler.Generate(rand.New(rand.NewSource(8)), -1, req)
	require.NoError(t, err)
	require.Len(t, disabled.Positions, 6)
	for _, p := range disabled.Positions {
		assert.Equal(t, -6.0, p.Z)
	}

	active, err := sampler.Generate(rand.New(rand.NewSource(8)), 3, req)
	require.NoError(t, err)
	for _, p := range active.Positions {
		assert.Equal(t, 5.0, p.Z)
		assert.True(t, p.X >= -4 && p.X <= 4 && p.Y >= -4 && p.Y <= 4, "pillar %v outside the shrunk footprint", p)
	}
	assert.Equal(t, BuildZones(req), active.Zones)
	assert.GreaterOrEqual(t, active.ClearanceMisses, 0)
}

func TestScatterBlocks(t *testing.T) {
	positions := Scatter(rand.New(rand.NewSource(12)), ScatterConfig{Count: 10, Size: 0.6, RoomMin: testRoomMin, RoomMax: testRoomMax})
	require.Len(t, positions, 10)
	for _, p := range positions {
		assert.True(t, p.Y >= -5+2+0.3 && p.Y <= 5-2-0.3, "block %v too close to the spawn walls", p)
		level := p.Z/0.6 - 0.5
		assert.InDelta(t, float64(int(level+0.5)), level, 1e-9)
		assert.Less(t, level, 3.0)
	}
}

func TestScatterKeepsLastDrawAfterRetryBudget(t *testing.T) {
	// The xy ranges are both [-0.5, 0.5], so any two blocks are closer than size.
	cfg := ScatterConfig{
		Count:   6,
		Size:    3,
		RoomMin: geom.Vec3{X: -2, Y: -4},
		RoomMax: geom.Vec3{X: 2, Y: 4, Z: 10},
	}
	mirror := rand.New(rand.NewSource(17))
	draw := func() geom.Vec2 {
		return geom.Vec2{X: random.Uniform(mirror, -0.5, 0.5), Y: random.Uniform(mirror, -0.5, 0.5)}
	}

	var want []geom.Vec3
	blocks := 0
	for remaining := cfg.Count; remaining > 0; blocks++ {
		height := random.IntRange(mirror, 1, min(maxBlockHeight+1, remaining+1))
		remaining -= height
		xy := draw()
		for i := 0; i < scatterRetries*blocks; i++ {
			xy = draw()
		}
		for level := 0; level < height; level++ {
			want = append(want, xy.WithZ(cfg.Size*(0.5+float64(level))))
		}
	}
	require.GreaterOrEqual(t, blocks, 2)

	got := Scatter(rand.New(rand.NewSource(17)), cfg)
	assert.Equal(t, want, got)
}

func TestDoorTemplate(t *testing.T) {
	positions := Door(0.5)
	require.Len(t, positions, DoorCount())
	for _, p := range positions {
		assert.Zero(t, p.Y)
		assert.Greater(t, p.Z, 0.0)
		assert.GreaterOrEqual(t, abs(p.X), 0.25)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
