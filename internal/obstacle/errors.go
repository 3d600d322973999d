package obstacle

import "github.com/pkg/errors"

var (
	ErrUnknownShape          = errors.New("obstacle: unknown shape")
	ErrUnknownObsType        = errors.New("obstacle: unknown observation type")
	ErrUnsupportedTrajectory = errors.New("obstacle: unsupported trajectory")
)
