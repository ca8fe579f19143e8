package world

import (
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
)

// FillWaterContainer fills a held water container from the water tile at
// the given spot. Sea water fills as salt water.
func (s *State) FillWaterContainer(identity string, itemID uint64, at geometry.Vec, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	it, err := s.playerItem(identity, itemID)
	if err != nil {
		return err
	}
	def, err := s.definition(it.DefID)
	if err != nil {
		return err
	}
	if def.WaterCapacityL <= 0 {
		return Errorf(ErrInvariant, "%s does not hold water", def.Name)
	}
	if !geometry.WithinRange(p.Pos, at, maxInteractDistance) {
		return Errorf(ErrPrecondition, "too far away")
	}
	tile := s.tiles.TileAt(at)
	if !tile.IsWater() {
		return Errorf(ErrPrecondition, "there is no water there")
	}
	if it.Data.WaterLiters() >= def.WaterCapacityL {
		return Errorf(ErrStateConflict, "%s is already full", def.Name)
	}

	it.Data.SetWaterLiters(def.WaterCapacityL)
	it.Data.SetIsSaltWater(tile == geometry.TileSea)
	s.emitSoundLocked(SoundConsume, at, now)
	return nil
}
