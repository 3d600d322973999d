// Package observation packs per-obstacle features into agent observations.
package observation

import "github.com/pkg/errors"

// Tensor is a dense [obstacle, agent, feature] block.
type Tensor struct {
	Obstacles int
	Agents    int
	Features  int
	data      []float64
}

// Stack combines per-obstacle [agent][feature] rows into one tensor. Every
// obstacle must report the same agent and feature counts.
func Stack(perObstacle [][][]float64) (Tensor, error) {
	if len(perObstacle) == 0 {
		return Tensor{}, nil
	}
	agents := len(perObstacle[0])
	features := 0
	if agents > 0 {
		features = len(perObstacle[0][0])
	}

	t := Tensor{
		Obstacles: len(perObstacle),
		Agents:    agents,
		Features:  features,
		data:      make([]float64, 0, len(perObstacle)*agents*features),
	}
	for o, rows := range perObstacle {
		if len(rows) != agents {
			return Tensor{}, errors.Errorf("observation: obstacle %d reports %d agents, want %d", o, len(rows), agents)
		}
		for a, row := range rows {
			if len(row) != features {
				return Tensor{}, errors.Errorf("observation: obstacle %d agent %d has %d features, want %d", o, a, len(row), features)
			}
			t.data = append(t.data, row...)
		}
	}
	return t, nil
}

// At returns the feature vector of obstacle o seen by agent a. The slice
// aliases the tensor.
func (t Tensor) At(o, a int) []float64 {
	off := (o*t.Agents + a) * t.Features
	return t.data[off : off+t.Features : off+t.Features]
}

// Transposed is the same data indexed [agent, obstacle, feature].
type Transposed struct {
	Agents    int
	Obstacles int
	Features  int
	data      []float64
}

// Transpose swaps the obstacle and agent axes.
func (t Tensor) Transpose() Transposed {
	out := Transposed{
		Agents:    t.Agents,
		Obstacles: t.Obstacles,
		Features:  t.Features,
		data:      make([]float64, len(t.data)),
	}
	for o := 0; o < t.Obstacles; o++ {
		for a := 0; a < t.Agents; a++ {
			off := (a*t.Obstacles + o) * t.Features
			copy(out.data[off:off+t.Features], t.At(o, a))
		}
	}
	return out
}

// At returns the feature vector of obstacle o for agent a.
func (t Transposed) At(a, o int) []float64 {
	off := (a*t.Obstacles + o) * t.Features
	return t.data[off : off+t.Features : off+t.Features]
}
