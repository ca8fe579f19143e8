package world

import (
	"time"
)

// ConsumeItem eats or drinks one unit of a held consumable.
func (s *State) ConsumeItem(identity string, itemID uint64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	if err := s.checkConsumeCooldown(p, now); err != nil {
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
	if def.Consume == nil {
		return Errorf(ErrInvariant, "%s is not consumable", def.Name)
	}

	p.Vitals.Apply(def.Consume.Health, def.Consume.Hunger, def.Consume.Thirst, def.Consume.Warmth)
	p.LastConsumedAt = now
	s.emitSoundLocked(SoundConsume, p.Pos, now)

	if it.Quantity > 1 {
		it.Quantity--
	} else {
		s.removeItemLocked(it)
	}
	return nil
}

// ConsumeFilledWaterContainer drinks the water held in a fillable
// container, keeping the container itself. Sea water punishes thirst
// instead of quenching it.
func (s *State) ConsumeFilledWaterContainer(identity string, itemID uint64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	if err := s.checkConsumeCooldown(p, now); err != nil {
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

	liters := it.Data.WaterLiters()
	if liters <= 0 {
		return Errorf(ErrStateConflict, "%s is empty", def.Name)
	}

	// Each liter quenches a fixed amount; salt water dehydrates instead.
	thirst := liters * 40
	if it.Data.IsSaltWater() {
		thirst = -thirst / 2
	}
	p.Vitals.Apply(0, 0, thirst, 0)
	p.LastConsumedAt = now
	s.emitSoundLocked(SoundConsume, p.Pos, now)

	it.Data.SetWaterLiters(0)
	it.Data.SetIsSaltWater(false)
	return nil
}

func (s *State) checkConsumeCooldown(p *Player, now time.Time) error {
	cooldown := time.Duration(s.tun.Player.ConsumeCooldownSecs * float64(time.Second))
	if !p.LastConsumedAt.IsZero() && now.Sub(p.LastConsumedAt) < cooldown {
		return Errorf(ErrCooldown, "consuming too fast")
	}
	return nil
}
