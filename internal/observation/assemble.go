package observation

import "github.com/pkg/errors"

// ErrNeighborIndex is returned when a neighbor list points past the tensor.
var ErrNeighborIndex = errors.New("observation: neighbor index out of range")

// Extend appends, for every agent, the features of its neighbor obstacles in
// list order after the agent's own observation. The input observation is not
// modified.
func Extend(obs [][]float64, neighbors [][]int, all Tensor) ([][]float64, error) {
	if len(neighbors) != len(obs) {
		return nil, errors.Errorf("observation: %d neighbor lists for %d agents", len(neighbors), len(obs))
	}
	if all.Agents != len(obs) {
		return nil, errors.Errorf("observation: tensor holds %d agents, observation %d", all.Agents, len(obs))
	}

	byAgent := all.Transpose()
	out := make([][]float64, len(obs))
	for a, list := range neighbors {
		row := make([]float64, 0, len(obs[a])+len(list)*byAgent.Features)
		row = append(row, obs[a]...)
		for _, o := range list {
			if o < 0 || o >= byAgent.Obstacles {
				return nil, errors.Wrapf(ErrNeighborIndex, "agent %d index %d", a, o)
			}
			row = append(row, byAgent.At(a, o)...)
		}
		out[a] = row
	}
	return out, nil
}
