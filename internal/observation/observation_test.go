package observation

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feature encodes (obstacle, agent, feature) so gathered values are easy to
// trace back.
func feature(o, a, f int) float64 {
	return float64(100*o + 10*a + f)
}

func buildTensor(t *testing.T, obstacles, agents, features int) Tensor {
	t.Helper()
	raw := make([][][]float64, obstacles)
	for o := range raw {
		raw[o] = make([][]float64, agents)
		for a := range raw[o] {
			raw[o][a] = make([]float64, features)
			for f := range raw[o][a] {
				raw[o][a][f] = feature(o, a, f)
			}
		}
	}
	tensor, err := Stack(raw)
	require.NoError(t, err)
	return tensor
}

func TestStackAndTranspose(t *testing.T) {
	tensor := buildTensor(t, 3, 2, 5)
	assert.Equal(t, 3, tensor.Obstacles)
	assert.Equal(t, 2, tensor.Agents)
	assert.Equal(t, 5, tensor.Features)
	assert.Equal(t, []float64{210, 211, 212, 213, 214}, tensor.At(2, 1))

	byAgent := tensor.Transpose()
	for o := 0; o < 3; o++ {
		for a := 0; a < 2; a++ {
			assert.Equal(t, tensor.At(o, a), byAgent.At(a, o))
		}
	}
}

func TestStackRejectsRaggedInput(t *testing.T) {
	_, err := Stack([][][]float64{{{1, 2}}, {{1, 2}, {3, 4}}})
	assert.Error(t, err)

	_, err = Stack([][][]float64{{{1, 2}}, {{1}}})
	assert.Error(t, err)
}

func TestExtendGathersNeighborsInListOrder(t *testing.T) {
	tensor := buildTensor(t, 3, 2, 5)
	obs := [][]float64{{1, 2}, {3, 4}}

	out, err := Extend(obs, [][]int{{0, 1}, {2, 0}}, tensor)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, []float64{1, 2, 0, 1, 2, 3, 4, 100, 101, 102, 103, 104}, out[0])
	assert.Equal(t, []float64{3, 4, 210, 211, 212, 213, 214, 10, 11, 12, 13, 14}, out[1])
	for _, row := range out {
		assert.Len(t, row[2:], 10)
	}
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, obs, "input observation must be left untouched")
}

func TestExtendRejectsBadIndices(t *testing.T) {
	tensor := buildTensor(t, 2, 1, 3)
	_, err := Extend([][]float64{{0}}, [][]int{{2}}, tensor)
	assert.True(t, errors.Is(err, ErrNeighborIndex))

	_, err = Extend([][]float64{{0}, {1}}, [][]int{{0}}, tensor)
	assert.Error(t, err)
}
