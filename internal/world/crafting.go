package world

import "time"

// CraftItem spends a recipe's materials and hands over the result.
func (s *State) CraftItem(identity string, defID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	def, err := s.definition(defID)
	if err != nil {
		return err
	}
	if len(def.CraftingCost) == 0 {
		return Errorf(ErrInvariant, "%s cannot be crafted", def.Name)
	}
	if err := s.takeCostLocked(p, def.CraftingCost); err != nil {
		s.emitSoundLocked(SoundError, p.Pos, now)
		return err
	}

	s.giveItemLocked(p, defID, 1)
	s.emitSoundLocked(SoundPlace, p.Pos, now)
	return nil
}
