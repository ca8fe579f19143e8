package world

import (
	"time"

	"github.com/pixil98/go-survival/internal/items"
)

const schedFoodSpoilage = "food_spoilage"

// ProcessFoodSpoilage is the scheduled sweep that ages every perishable
// item. Refrigerated food does not age; preserved food never spoils.
func (s *State) ProcessFoodSpoilage(caller string, now time.Time) error {
	if err := s.requireModule(caller); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		def, err := s.definition(it.DefID)
		if err != nil || !def.Perishable || def.Preserved {
			continue
		}
		if s.refrigeratedLocked(it) {
			continue
		}

		dur := it.Data.Durability() - s.spoilPerTickLocked(def)
		if dur > 0 {
			it.Data.SetDurability(dur)
			continue
		}
		s.removeItemLocked(it)
	}
	return nil
}

// spoilPerTickLocked is the durability an item loses per sweep. Each
// definition carries its own spoil time: cooking preserves, raw meat
// turns fast, and richer food keeps a little longer.
func (s *State) spoilPerTickLocked(def *items.Definition) float64 {
	sp := s.tun.Spoilage

	hours := sp.BaseHours * sp.RawFactor
	if def.Cooked {
		hours = sp.BaseHours * sp.CookedFactor
	}
	if def.Consume != nil {
		hours += (def.Consume.Hunger + def.Consume.Thirst) * sp.NutritionBonusHours
	}
	if hours < sp.MinHours {
		hours = sp.MinHours
	}
	if hours > sp.MaxHours {
		hours = sp.MaxHours
	}
	return items.MaxDurability * sp.TickSecs / (hours * 3600)
}

// refrigeratedLocked reports whether the item sits inside a refrigerator.
func (s *State) refrigeratedLocked(it *items.Instance) bool {
	kind, id, ok := it.Location.ContainerBound()
	if !ok || kind != items.ContainerBox {
		return false
	}
	b, ok := s.boxes[id]
	return ok && b.Type == BoxRefrigerator
}
