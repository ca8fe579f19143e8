package world

import (
	"math"
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
)

// Cloud is a drifting elliptical shadow over the terrain. Rain fronts
// roll in under a dense deck; clear skies get the occasional wisp.
type Cloud struct {
	ID  uint64
	Pos geometry.Vec
	// HalfW and HalfH are the shadow ellipse semi-axes in pixels.
	HalfW   float64
	HalfH   float64
	Opacity float64
	// Drift is the velocity in pixels per second.
	Drift     geometry.Vec
	ExpiresAt time.Time
}

const (
	cloudMinHalfPx     = 600.0
	cloudMaxHalfPx     = 1800.0
	cloudDriftPxPerSec = 8.0

	// Fair-weather wisps are faint and rare.
	wispChance  = 0.05
	wispOpacity = 0.3

	// Full overcast dims growth to this floor.
	overcastGrowthFloor = 0.4
)

func (s *State) spawnCloudLocked(pos geometry.Vec, opacity float64, ttl time.Duration, now time.Time) {
	c := &Cloud{
		ID:        s.allocID(),
		Pos:       pos,
		HalfW:     cloudMinHalfPx + s.rng.Float64()*(cloudMaxHalfPx-cloudMinHalfPx),
		HalfH:     cloudMinHalfPx + s.rng.Float64()*(cloudMaxHalfPx-cloudMinHalfPx),
		Opacity:   opacity,
		Drift:     geometry.Vec{X: (s.rng.Float64()*2 - 1) * cloudDriftPxPerSec, Y: (s.rng.Float64()*2 - 1) * cloudDriftPxPerSec},
		ExpiresAt: now.Add(ttl),
	}
	s.clouds[c.ID] = c
}

// spawnRainDeckLocked covers the sky when a front moves in. Heavier rain
// means more and darker clouds.
func (s *State) spawnRainDeckLocked(intensity float64, duration time.Duration, now time.Time) {
	worldPx := float64(geometry.WorldWidthTiles * geometry.TileSizePx)
	count := 3 + int(intensity*6)
	opacity := 0.6 + 0.4*intensity
	for i := 0; i < count; i++ {
		pos := geometry.Vec{X: s.rng.Float64() * worldPx, Y: s.rng.Float64() * worldPx}
		s.spawnCloudLocked(pos, opacity, duration+time.Minute, now)
	}
}

// driftCloudsLocked moves the deck along and retires spent clouds.
func (s *State) driftCloudsLocked(elapsed float64, now time.Time) {
	for id, c := range s.clouds {
		if !now.Before(c.ExpiresAt) {
			delete(s.clouds, id)
			continue
		}
		c.Pos.X += c.Drift.X * elapsed
		c.Pos.Y += c.Drift.Y * elapsed
	}
}

// cloudCoverFactorLocked is the growth multiplier from overhead shadow.
// Each cloud contributes its opacity scaled by how close the point sits
// to its center; total cover is capped at full overcast.
func (s *State) cloudCoverFactorLocked(pos geometry.Vec) float64 {
	cover := 0.0
	for _, c := range s.clouds {
		dx := (pos.X - c.Pos.X) / c.HalfW
		dy := (pos.Y - c.Pos.Y) / c.HalfH
		d := math.Sqrt(dx*dx + dy*dy)
		if d >= 1 {
			continue
		}
		cover += (1 - d) * c.Opacity
	}
	if cover > 1 {
		cover = 1
	}
	f := 1 - (1-overcastGrowthFloor)*cover
	if f < overcastGrowthFloor {
		return overcastGrowthFloor
	}
	return f
}

// Clouds returns copies of the live cloud deck.
func (s *State) Clouds() []Cloud {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Cloud, 0, len(s.clouds))
	for _, c := range s.clouds {
		out = append(out, *c)
	}
	return out
}
