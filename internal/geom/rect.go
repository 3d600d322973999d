package geom

import "math"

// Rect is an axis-aligned rectangle in the horizontal plane.
type Rect struct {
	Min Vec2 `json:"min" yaml:"min"`
	Max Vec2 `json:"max" yaml:"max"`
}

// RectAround builds the rectangle spanning center+lo .. center+hi.
func RectAround(center, lo, hi Vec2) Rect {
	return Rect{Min: center.Add(lo), Max: center.Add(hi)}
}

// Expand grows the rectangle by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		Min: Vec2{X: r.Min.X - margin, Y: r.Min.Y - margin},
		Max: Vec2{X: r.Max.X + margin, Y: r.Max.Y + margin},
	}
}

// ClosestPoint returns the point of the rectangle nearest to p. Points inside
// the rectangle map to themselves.
func (r Rect) ClosestPoint(p Vec2) Vec2 {
	return Vec2{
		X: math.Max(r.Min.X, math.Min(p.X, r.Max.X)),
		Y: math.Max(r.Min.Y, math.Min(p.Y, r.Max.Y)),
	}
}

// Distance is the distance from p to the rectangle; zero inside.
func (r Rect) Distance(p Vec2) float64 {
	return p.Sub(r.ClosestPoint(p)).Norm()
}

// Contains reports whether p lies inside or on the rectangle.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Box is an axis-aligned box described by its center and half extents.
type Box struct {
	Center Vec3
	Half   Vec3
}

// Overlaps checks for AABB overlap. Touching faces count as overlapping.
func (b Box) Overlaps(o Box) bool {
	return b.Center.X-b.Half.X <= o.Center.X+o.Half.X &&
		b.Center.X+b.Half.X >= o.Center.X-o.Half.X &&
		b.Center.Y-b.Half.Y <= o.Center.Y+o.Half.Y &&
		b.Center.Y+b.Half.Y >= o.Center.Y-o.Half.Y &&
		b.Center.Z-b.Half.Z <= o.Center.Z+o.Half.Z &&
		b.Center.Z+b.Half.Z >= o.Center.Z-o.Half.Z
}

// ClosestPoint returns the point of the box nearest to p.
func (b Box) ClosestPoint(p Vec3) Vec3 {
	return Vec3{
		X: Clamp(p.X, b.Center.X-b.Half.X, b.Center.X+b.Half.X),
		Y: Clamp(p.Y, b.Center.Y-b.Half.Y, b.Center.Y+b.Half.Y),
		Z: Clamp(p.Z, b.Center.Z-b.Half.Z, b.Center.Z+b.Half.Z),
	}
}
