package geometry

import "math"

const segmentEpsilon = 0.001

// AABB is an axis-aligned bounding box in world pixels.
type AABB struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// AABBAround builds a box from a center point and half extents.
func AABBAround(center Vec, halfWidth, halfHeight float64) AABB {
	return AABB{
		Left:   center.X - halfWidth,
		Right:  center.X + halfWidth,
		Top:    center.Y - halfHeight,
		Bottom: center.Y + halfHeight,
	}
}

// Contains reports whether the point lies inside the box. Edges are
// inclusive.
func (b AABB) Contains(p Vec) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Top && p.Y <= b.Bottom
}

// Intersects reports whether two boxes overlap.
func (b AABB) Intersects(o AABB) bool {
	return b.Left <= o.Right && b.Right >= o.Left && b.Top <= o.Bottom && b.Bottom >= o.Top
}

// Expand grows the box by pad on every side.
func (b AABB) Expand(pad float64) AABB {
	return AABB{Left: b.Left - pad, Right: b.Right + pad, Top: b.Top - pad, Bottom: b.Bottom + pad}
}

// Center returns the box midpoint.
func (b AABB) Center() Vec {
	return Vec{X: (b.Left + b.Right) / 2, Y: (b.Top + b.Bottom) / 2}
}

// SegmentIntersectsAABB reports whether the segment a->b crosses the box,
// using Liang-Barsky clipping. A degenerate (point) segment counts only when
// the point is inside the box.
func SegmentIntersectsAABB(a, b Vec, box AABB) bool {
	_, ok := SegmentAABBEntry(a, b, box)
	return ok
}

// SegmentAABBEntry returns the parameter t in [0,1] at which the segment
// a->b first enters the box, or false when the segment misses it entirely.
// A segment starting inside the box enters at t=0. Grazing an edge or
// corner without crossing into the interior does not count as entry.
func SegmentAABBEntry(a, b Vec, box AABB) (float64, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y

	if math.Abs(dx) < segmentEpsilon && math.Abs(dy) < segmentEpsilon {
		if box.Contains(a) {
			return 0, true
		}
		return 0, false
	}

	tMin, tMax := 0.0, 1.0

	if math.Abs(dx) > segmentEpsilon {
		t1 := (box.Left - a.X) / dx
		t2 := (box.Right - a.X) / dx
		tMin = math.Max(tMin, math.Min(t1, t2))
		tMax = math.Min(tMax, math.Max(t1, t2))
		if tMin > tMax {
			return 0, false
		}
	} else if a.X <= box.Left || a.X >= box.Right {
		return 0, false
	}

	if math.Abs(dy) > segmentEpsilon {
		t1 := (box.Top - a.Y) / dy
		t2 := (box.Bottom - a.Y) / dy
		tMin = math.Max(tMin, math.Min(t1, t2))
		tMax = math.Min(tMax, math.Max(t1, t2))
		if tMin > tMax {
			return 0, false
		}
	} else if a.Y <= box.Top || a.Y >= box.Bottom {
		return 0, false
	}

	// A zero-width clip means the segment only touched an edge or corner.
	if tMax <= tMin {
		return 0, false
	}
	return tMin, true
}

// Circle is a center plus radius, used for point-entity collision.
type Circle struct {
	Center Vec
	Radius float64
}

// CirclesOverlap reports whether two circles intersect or touch.
func CirclesOverlap(a, b Circle) bool {
	r := a.Radius + b.Radius
	return DistSq(a.Center, b.Center) <= r*r
}

// WithinCone reports whether target lies inside the attack cone rooted at
// origin: within rangeDist of origin and within halfAngle radians of the
// forward unit vector.
func WithinCone(origin, forward, target Vec, rangeDist, halfAngle float64) bool {
	to := target.Sub(origin)
	distSq := to.LenSq()
	if distSq > rangeDist*rangeDist {
		return false
	}
	if distSq == 0 {
		return true
	}
	cos := forward.Dot(to.Normalize())
	return cos >= math.Cos(halfAngle)
}
