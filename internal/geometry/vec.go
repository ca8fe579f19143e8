package geometry

import "math"

// Vec is a 2D world-space point or direction in pixels.
type Vec struct {
	X float64
	Y float64
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec) Len() float64 { return math.Sqrt(v.LenSq()) }

// Normalize returns the unit vector in v's direction, or the zero vector when
// v has no length.
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// DistSq returns the squared distance between two points. Callers compare
// against squared thresholds to avoid the sqrt.
func DistSq(a, b Vec) float64 {
	return a.Sub(b).LenSq()
}

// WithinRange reports whether two points are within dist of each other.
func WithinRange(a, b Vec, dist float64) bool {
	return DistSq(a, b) <= dist*dist
}
