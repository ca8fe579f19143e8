package world

import (
	"github.com/pixil98/go-survival/internal/geometry"
)

// Shelter is the personal safe-zone structure. Its protective volume is
// an AABB floating above the anchor position.
type Shelter struct {
	Placeable
	TerrainVariant string
}

// Bounds is the shelter's protective AABB.
func (sh *Shelter) Bounds(t ShelterDims) geometry.AABB {
	center := geometry.Vec{X: sh.Pos.X, Y: sh.Pos.Y + t.CenterOffsetY}
	return geometry.AABBAround(center, t.WidthPx/2, t.HeightPx/2)
}

// ShelterDims is the shared AABB shape, sourced from tuning.
type ShelterDims struct {
	WidthPx       float64
	HeightPx      float64
	CenterOffsetY float64
}

func (s *State) shelterDims() ShelterDims {
	return ShelterDims{
		WidthPx:       s.tun.Shelter.WidthPx,
		HeightPx:      s.tun.Shelter.HeightPx,
		CenterOffsetY: s.tun.Shelter.CenterOffsetY,
	}
}

// shelterContainingLocked finds the first live shelter whose bounds hold
// the point, nil when exposed.
func (s *State) shelterContainingLocked(pos geometry.Vec) *Shelter {
	dims := s.shelterDims()
	for _, sh := range s.shelters {
		if sh.Destroyed {
			continue
		}
		if sh.Bounds(dims).Contains(pos) {
			return sh
		}
	}
	return nil
}

// interactionGateLocked enforces shelter access: an object inside a
// shelter is reachable only by the shelter's owner, and only while the
// owner is inside with it.
func (s *State) interactionGateLocked(p *Player, objPos geometry.Vec) error {
	sh := s.shelterContainingLocked(objPos)
	if sh == nil {
		return nil
	}
	if sh.Owner != p.Identity {
		return Errorf(ErrAuthorization, "that is inside someone else's shelter")
	}
	if !sh.Bounds(s.shelterDims()).Contains(p.Pos) {
		return Errorf(ErrPrecondition, "enter your shelter to reach that")
	}
	return nil
}

// insideOwnShelterLocked reports whether the player currently stands in a
// shelter they own.
func (s *State) insideOwnShelterLocked(p *Player) bool {
	sh := s.shelterContainingLocked(p.Pos)
	return sh != nil && sh.Owner == p.Identity
}
