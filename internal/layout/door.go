package layout

import "github.com/SumeetBatra/quad-swarm-rl/internal/geom"

// doorCells is a doorway wall across the room at y = 0, in obstacle-size
// units: three columns on each side of a two-cell gap, two rows high, with a
// lintel spanning the gap on the third row.
var doorCells = []geom.Vec3{
	{X: -3.5, Z: 0.5}, {X: -2.5, Z: 0.5}, {X: -1.5, Z: 0.5},
	{X: 1.5, Z: 0.5}, {X: 2.5, Z: 0.5}, {X: 3.5, Z: 0.5},
	{X: -3.5, Z: 1.5}, {X: -2.5, Z: 1.5}, {X: -1.5, Z: 1.5},
	{X: 1.5, Z: 1.5}, {X: 2.5, Z: 1.5}, {X: 3.5, Z: 1.5},
	{X: -0.5, Z: 2.5}, {X: 0.5, Z: 2.5},
}

// DoorCount is the number of obstacles a doorway layout always uses.
func DoorCount() int {
	return len(doorCells)
}

// Door scales the doorway template to obstacles of the given size.
func Door(size float64) []geom.Vec3 {
	positions := make([]geom.Vec3, len(doorCells))
	for i, cell := range doorCells {
		positions[i] = cell.Scale(size)
	}
	return positions
}
