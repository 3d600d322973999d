package obstacle

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/pkg/errors"

	"github.com/SumeetBatra/quad-swarm-rl/internal/geom"
	"github.com/SumeetBatra/quad-swarm-rl/internal/random"
)

// Shape selects the geometric body of an obstacle.
type Shape int

const (
	ShapeCube Shape = iota
	ShapeSphere
	ShapeCylinder
)

// Palette lists the shapes available for random draws, in draw order.
var Palette = []Shape{ShapeCube, ShapeSphere, ShapeCylinder}

func (s Shape) String() string {
	switch s {
	case ShapeCube:
		return "cube"
	case ShapeSphere:
		return "sphere"
	case ShapeCylinder:
		return "cylinder"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// MarshalText lets shapes appear by name in JSON and YAML snapshots.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Shape) UnmarshalText(text []byte) error {
	shape, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = shape
	return nil
}

// ParseShape maps a palette name to its Shape.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cube":
		return ShapeCube, nil
	case "sphere":
		return ShapeSphere, nil
	case "cylinder":
		return ShapeCylinder, nil
	}
	return 0, errors.Wrapf(ErrUnknownShape, "%q", name)
}

// Body is the geometric capability of a shape at a given size.
type Body interface {
	// SurfaceDistance returns the distance from p to the body's surface,
	// zero when p is inside.
	SurfaceDistance(center, p geom.Vec3) float64
	// Bounds returns the axis-aligned box enclosing the body.
	Bounds(center geom.Vec3) geom.Box
}

// NewBody builds the body for shape. Infinite-height bodies span the full
// vertical axis, so the z coordinate of probes is ignored.
func NewBody(shape Shape, size float64, infHeight bool) Body {
	half := 0.5 * size
	switch shape {
	case ShapeSphere:
		return sphereBody{radius: half}
	case ShapeCylinder:
		return cylinderBody{radius: half, halfHeight: half, infinite: infHeight}
	default:
		return cubeBody{half: half, infinite: infHeight}
	}
}

type cubeBody struct {
	half     float64
	infinite bool
}

func (b cubeBody) Bounds(center geom.Vec3) geom.Box {
	hz := b.half
	if b.infinite {
		hz = math.Inf(1)
	}
	return geom.Box{Center: center, Half: geom.Vec3{X: b.half, Y: b.half, Z: hz}}
}

func (b cubeBody) SurfaceDistance(center, p geom.Vec3) float64 {
	if b.infinite {
		p.Z = center.Z
	}
	box := b.Bounds(center)
	return p.Sub(box.ClosestPoint(p)).Norm()
}

type sphereBody struct {
	radius float64
}

func (b sphereBody) Bounds(center geom.Vec3) geom.Box {
	return geom.Box{Center: center, Half: geom.Vec3{X: b.radius, Y: b.radius, Z: b.radius}}
}

func (b sphereBody) SurfaceDistance(center, p geom.Vec3) float64 {
	return math.Max(0, p.Sub(center).Norm()-b.radius)
}

type cylinderBody struct {
	radius     float64
	halfHeight float64
	infinite   bool
}

func (b cylinderBody) Bounds(center geom.Vec3) geom.Box {
	hz := b.halfHeight
	if b.infinite {
		hz = math.Inf(1)
	}
	return geom.Box{Center: center, Half: geom.Vec3{X: b.radius, Y: b.radius, Z: hz}}
}

func (b cylinderBody) SurfaceDistance(center, p geom.Vec3) float64 {
	d := p.Sub(center)
	radial := math.Max(0, math.Hypot(d.X, d.Y)-b.radius)
	vertical := 0.0
	if !b.infinite {
		vertical = math.Max(0, math.Abs(d.Z)-b.halfHeight)
	}
	return math.Hypot(radial, vertical)
}

// ShapeChoice is either a fixed palette shape or an independent uniform draw
// per obstacle.
type ShapeChoice struct {
	Random bool
	Fixed  Shape
}

// ParseShapeChoice accepts a palette name or "random".
func ParseShapeChoice(name string) (ShapeChoice, error) {
	if strings.EqualFold(strings.TrimSpace(name), "random") {
		return ShapeChoice{Random: true}, nil
	}
	shape, err := ParseShape(name)
	if err != nil {
		return ShapeChoice{}, err
	}
	return ShapeChoice{Fixed: shape}, nil
}

func (c ShapeChoice) String() string {
	if c.Random {
		return "random"
	}
	return c.Fixed.String()
}

// IsCube reports whether every obstacle is guaranteed a cube footprint.
func (c ShapeChoice) IsCube() bool {
	return !c.Random && c.Fixed == ShapeCube
}

// Draw assigns a shape to each of n obstacles.
func (c ShapeChoice) Draw(rng *rand.Rand, n int) []Shape {
	shapes := make([]Shape, n)
	for i := range shapes {
		if c.Random {
			shapes[i] = Palette[random.IntRange(rng, 0, len(Palette))]
			continue
		}
		shapes[i] = c.Fixed
	}
	return shapes
}
