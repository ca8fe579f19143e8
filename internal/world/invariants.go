package world

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-survival/internal/items"
)

// CheckInvariants audits the cross-table consistency rules: every item
// location resolves, slot caches mirror item locations, and placeable
// health stays in bounds. Tests call it after every scenario.
func (s *State) CheckInvariants() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el := errors.NewErrorList()

	seen := map[string]uint64{}
	for id, it := range s.items {
		if it.ID != id {
			el.Add(fmt.Errorf("item %d: keyed under %d", it.ID, id))
		}
		loc := it.Location
		switch loc.Kind {
		case items.KindInventory, items.KindHotbar, items.KindEquipped:
			if _, ok := s.players[loc.Owner]; !ok {
				el.Add(fmt.Errorf("item %d: owner %q not registered", id, loc.Owner))
				continue
			}
			key := loc.String()
			if prev, dup := seen[key]; dup {
				el.Add(fmt.Errorf("items %d and %d share slot %s", prev, id, key))
			}
			seen[key] = id
		case items.KindContainer:
			c, err := s.container(loc.Container, loc.ContainerID)
			if err != nil {
				el.Add(fmt.Errorf("item %d: %v", id, err))
				continue
			}
			if loc.Slot < 0 || loc.Slot >= c.NumSlots() {
				el.Add(fmt.Errorf("item %d: slot %d out of range", id, loc.Slot))
				continue
			}
			sl := c.GetSlot(loc.Slot)
			if sl.InstanceID != id || sl.DefID != it.DefID {
				el.Add(fmt.Errorf("item %d: slot cache disagrees (%d %q)", id, sl.InstanceID, sl.DefID))
			}
		case items.KindDropped:
			// Nothing beyond the position to check.
		default:
			el.Add(fmt.Errorf("item %d: unknown location kind", id))
		}
		if it.Quantity == 0 {
			el.Add(fmt.Errorf("item %d: zero quantity", id))
		}
	}

	auditContainer := func(c Container) {
		for i := 0; i < c.NumSlots(); i++ {
			sl := c.GetSlot(i)
			if sl.Empty() {
				continue
			}
			it, ok := s.items[sl.InstanceID]
			if !ok {
				el.Add(fmt.Errorf("%s %d slot %d: dangling instance %d", c.Kind(), c.ID(), i, sl.InstanceID))
				continue
			}
			kind, cid, bound := it.Location.ContainerBound()
			if !bound || kind != c.Kind() || cid != c.ID() || it.Location.Slot != i {
				el.Add(fmt.Errorf("%s %d slot %d: item %d does not point back", c.Kind(), c.ID(), i, sl.InstanceID))
			}
		}
	}
	for _, b := range s.boxes {
		auditContainer(b)
	}
	for _, cf := range s.campfires {
		auditContainer(cf)
	}
	for _, f := range s.furnaces {
		auditContainer(f)
	}
	for _, l := range s.lanterns {
		auditContainer(l)
	}

	auditPlaceable := func(name string, pl *Placeable) {
		if pl.Health < 0 || pl.Health > pl.MaxHealth {
			el.Add(fmt.Errorf("%s %d: health %v outside [0, %v]", name, pl.ID, pl.Health, pl.MaxHealth))
		}
		if pl.Destroyed != (pl.Health == 0) {
			el.Add(fmt.Errorf("%s %d: destroyed=%v with health %v", name, pl.ID, pl.Destroyed, pl.Health))
		}
	}
	for _, w := range s.walls {
		auditPlaceable("wall", &w.Placeable)
	}
	for _, f := range s.fences {
		auditPlaceable("fence", &f.Placeable)
	}
	for _, f := range s.foundations {
		auditPlaceable("foundation", &f.Placeable)
	}
	for _, sh := range s.shelters {
		auditPlaceable("shelter", &sh.Placeable)
	}
	for _, b := range s.boxes {
		auditPlaceable("box", &b.Placeable)
	}
	for _, cf := range s.campfires {
		auditPlaceable("campfire", &cf.Placeable)
	}
	for _, f := range s.furnaces {
		auditPlaceable("furnace", &f.Placeable)
	}
	for _, l := range s.lanterns {
		auditPlaceable("lantern", &l.Placeable)
	}

	for _, p := range s.players {
		if p.ActiveItem != 0 {
			it, ok := s.items[p.ActiveItem]
			if !ok {
				el.Add(fmt.Errorf("player %s: active item %d missing", p.Identity, p.ActiveItem))
			} else if owner, held := it.Location.PlayerBound(); !held || owner != p.Identity || !it.Location.Wieldable() {
				el.Add(fmt.Errorf("player %s: active item %d not wielded", p.Identity, p.ActiveItem))
			}
		}
		for slot, id := range p.Equipment {
			if id == 0 {
				continue
			}
			it, ok := s.items[id]
			if !ok {
				el.Add(fmt.Errorf("player %s: equipment slot %d dangling", p.Identity, slot))
				continue
			}
			if it.Location.Kind != items.KindEquipped || it.Location.Owner != p.Identity || int(it.Location.Equip) != slot {
				el.Add(fmt.Errorf("player %s: equipment slot %d disagrees with item %d", p.Identity, slot, id))
			}
		}
	}

	return el.Err()
}
