package obstacles

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SumeetBatra/quad-swarm-rl/internal/geom"
	"github.com/SumeetBatra/quad-swarm-rl/internal/obstacle"
	obstaclemocks "github.com/SumeetBatra/quad-swarm-rl/internal/obstacle/mocks"
	"github.com/SumeetBatra/quad-swarm-rl/internal/obstacles/mocks"
)

func mockedSet(t *testing.T, ctrl *gomock.Controller, opts Options) (*Set, []*obstaclemocks.MockObstacle) {
	t.Helper()
	room := mocks.NewMockRoom(ctrl)
	def := DefaultRoom()
	room.EXPECT().Bounds().Return(def.Min, def.Max).AnyTimes()
	room.EXPECT().SpawnExtent().Return(def.SpawnMin, def.SpawnMax).AnyTimes()

	var built []*obstaclemocks.MockObstacle
	set, err := New(opts, Deps{
		ID:   "mocked",
		Room: room,
		NewObstacle: func(o obstacle.Options) (obstacle.Obstacle, error) {
			m := obstaclemocks.NewMockObstacle(ctrl)
			assert.Equal(t, len(built), o.Index)
			built = append(built, m)
			return m, nil
		},
	})
	require.NoError(t, err)
	require.Len(t, built, set.Count())
	return set, built
}

func rows(agents, features int) obstacle.Observation {
	obs := make(obstacle.Observation, agents)
	for i := range obs {
		obs[i] = make([]float64, features)
	}
	return obs
}

func TestResetDrivesObstaclesInIndexOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	opts := pillarOptions(4)
	opts.InfHeight = false
	opts.Size = 1
	set, mocked := mockedSet(t, ctrl, opts)

	req := resetRequest(2, 4, 0)
	req.Active[2] = false
	var inputs []obstacle.ResetInput
	var calls []*gomock.Call
	for _, m := range mocked {
		calls = append(calls, m.EXPECT().Reset(gomock.Any()).DoAndReturn(func(in obstacle.ResetInput) obstacle.Observation {
			inputs = append(inputs, in)
			return rows(2, 4)
		}))
		m.EXPECT().Position().Return(geom.Vec3{}).AnyTimes()
	}
	gomock.InOrder(calls...)

	out, err := set.Reset(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.Len(t, inputs, 4)
	for i, in := range inputs {
		require.NotNil(t, in.Position, "obstacle %d", i)
		assert.InDelta(t, 0.5+float64(i), in.Position.Z, 1e-9)
		assert.Equal(t, inputs[0].Position.XY(), in.Position.XY())
		assert.Equal(t, req.Active[i], in.Active)
		assert.Equal(t, obstacle.ShapeCube, in.Shape)
		assert.Equal(t, req.GoalCenter, in.GoalCenter)
	}
}

func TestConstructionLayoutsLeavePositionToObstacles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	opts := pillarOptions(3)
	opts.Mode = ModeStaticRandomPlace
	set, mocked := mockedSet(t, ctrl, opts)

	for _, m := range mocked {
		m.EXPECT().Reset(gomock.Any()).DoAndReturn(func(in obstacle.ResetInput) obstacle.Observation {
			assert.Nil(t, in.Position)
			return rows(1, 4)
		})
		m.EXPECT().Position().Return(geom.Vec3{}).AnyTimes()
	}
	_, err := set.Reset(context.Background(), resetRequest(1, 3, 0))
	require.NoError(t, err)
}

func TestCollisionDetectionSkipsInactiveObstacles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	set, mocked := mockedSet(t, ctrl, pillarOptions(3))
	pos := []geom.Vec3{{X: 1}, {X: 2}}

	mocked[0].EXPECT().CollisionDetection(pos).Return([]bool{false, true}, []float64{0.7, 0.01})
	mocked[2].EXPECT().CollisionDetection(pos).Return([]bool{true, true}, []float64{0, 0.02})

	report, err := set.CollisionDetection(context.Background(), pos, []bool{true, false, true})
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{0, 0, 1}, {1, 0, 1}}, report.Collisions)
	assert.Equal(t, [][]float64{{0.7, 0, 0}, {0.01, 0, 0.02}}, report.Distances)
	assert.Equal(t, []int{0, 1, 1}, report.Agents)
	assert.Equal(t, []CollisionPair{{0, 2}, {1, 0}, {1, 2}}, report.Pairs)
}

func TestStepForwardsActiveFlags(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	set, mocked := mockedSet(t, ctrl, pillarOptions(2))
	obs, pos, vel := agents(1)
	active := []bool{false, true}
	for i, m := range mocked {
		m.EXPECT().Step(pos, vel, active[i]).Return(rows(1, 4))
		m.EXPECT().Position().Return(geom.Vec3{X: float64(i)}).AnyTimes()
	}
	out, err := set.Step(context.Background(), StepRequest{Obs: obs, AgentsPos: pos, AgentsVel: vel, Active: active})
	require.NoError(t, err)
	require.Len(t, out[0], 3+2*4)
	assert.Equal(t, []float64{0, 0, 0}, out[0][:3])
}
