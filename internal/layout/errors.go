package layout

import "github.com/pkg/errors"

var (
	// ErrUnsupportedStackTopology is returned when count/stack height is
	// neither one nor two columns.
	ErrUnsupportedStackTopology = errors.New("layout: unsupported stack topology")
	// ErrFootprintShape is returned when the pairwise overlap check is asked
	// for anything but cube footprints.
	ErrFootprintShape = errors.New("layout: pairwise overlap requires cube footprints")
	// ErrUnknownScenario is returned for scenario names outside the table.
	ErrUnknownScenario = errors.New("layout: unknown scenario")
)
