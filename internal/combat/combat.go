// Package combat holds the pure targeting and line-of-attack math. It
// knows nothing about the world tables; callers hand it positions and
// volumes and interpret the answers.
package combat

import (
	"math"

	"github.com/pixil98/go-survival/internal/geometry"
)

// InArc reports whether the target falls inside a melee swing: within
// range of the origin and inside the facing cone.
func InArc(origin, facing, target geometry.Vec, rangeDist, arcDeg float64) bool {
	halfAngle := arcDeg / 2 * math.Pi / 180
	return geometry.WithinCone(origin, facing, target, rangeDist, halfAngle)
}

// Blocked reports whether the strike from a to b crosses any blocking
// volume. A volume containing both endpoints does not block; a fight
// inside a shelter stays inside it.
func Blocked(a, b geometry.Vec, volumes []geometry.AABB) bool {
	for _, v := range volumes {
		if v.Contains(a) && v.Contains(b) {
			continue
		}
		if geometry.SegmentIntersectsAABB(a, b, v) {
			return true
		}
	}
	return false
}

// PvPAllowed reports whether two players can hurt each other: both must
// have opted in.
func PvPAllowed(attackerOptIn, targetOptIn bool) bool {
	return attackerOptIn && targetOptIn
}

// Nearest returns the index of the closest candidate to the origin, or
// -1 when there are none.
func Nearest(origin geometry.Vec, candidates []geometry.Vec) int {
	best, bestD := -1, math.MaxFloat64
	for i, c := range candidates {
		d := geometry.DistSq(origin, c)
		if d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// Advance moves a projectile along its velocity and returns the segment
// it swept this step.
func Advance(pos, vel geometry.Vec, dtSecs float64) (geometry.Vec, geometry.Vec) {
	next := geometry.Vec{X: pos.X + vel.X*dtSecs, Y: pos.Y + vel.Y*dtSecs}
	return pos, next
}

// FirstHit finds which volume a swept segment enters first. It returns
// the index and the entry parameter, or -1 when the segment is clear.
func FirstHit(a, b geometry.Vec, volumes []geometry.AABB) (int, float64) {
	best, bestT := -1, math.MaxFloat64
	for i, v := range volumes {
		if t, ok := geometry.SegmentAABBEntry(a, b, v); ok && t < bestT {
			best, bestT = i, t
		}
	}
	if best == -1 {
		return -1, 0
	}
	return best, bestT
}
