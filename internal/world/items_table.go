package world

import (
	"github.com/pixil98/go-survival/internal/geometry"
	"github.com/pixil98/go-survival/internal/items"
)

// playerItem resolves an item only when it sits in one of the caller's own
// grids (inventory, hotbar, equipment).
func (s *State) playerItem(identity string, itemID uint64) (*items.Instance, error) {
	it, ok := s.items[itemID]
	if !ok {
		return nil, Errorf(ErrNotFound, "item %d does not exist", itemID)
	}
	owner, ok := it.Location.PlayerBound()
	if !ok || owner != identity {
		return nil, Errorf(ErrNotFound, "item %d is not held by %s", itemID, identity)
	}
	return it, nil
}

// itemInPlayerSlot finds the item occupying the given inventory or hotbar
// slot, nil when empty.
func (s *State) itemInPlayerSlot(identity string, kind items.LocationKind, slot int) *items.Instance {
	for _, it := range s.items {
		if it.Location.Kind == kind && it.Location.Owner == identity && it.Location.Slot == slot {
			return it
		}
	}
	return nil
}

// itemInEquipSlot finds the worn item for an armor slot, nil when empty.
func (s *State) itemInEquipSlot(identity string, slot items.EquipSlot) *items.Instance {
	for _, it := range s.items {
		if it.Location.Kind == items.KindEquipped && it.Location.Owner == identity && it.Location.Equip == slot {
			return it
		}
	}
	return nil
}

// firstEmptyPlayerSlot scans a grid for its lowest free index, returning
// -1 when the grid is full.
func (s *State) firstEmptyPlayerSlot(identity string, kind items.LocationKind) int {
	var n int
	switch kind {
	case items.KindInventory:
		n = s.tun.Player.InventorySlots
	case items.KindHotbar:
		n = s.tun.Player.HotbarSlots
	default:
		return -1
	}

	used := make([]bool, n)
	for _, it := range s.items {
		if it.Location.Kind == kind && it.Location.Owner == identity && it.Location.Slot < n {
			used[it.Location.Slot] = true
		}
	}
	for i, u := range used {
		if !u {
			return i
		}
	}
	return -1
}

// deleteItemLocked removes an instance from the table. The location is
// poisoned first so a stale reference trips validation instead of reading
// a deleted slot.
func (s *State) deleteItemLocked(it *items.Instance) {
	it.Location = items.Unknown()
	delete(s.items, it.ID)
}

// relocateItemLocked is the single location writer. Every move funnels
// through here so each mutation writes an item's location exactly once.
func (s *State) relocateItemLocked(it *items.Instance, loc items.Location) {
	it.Location = loc
}

// spawnItemLocked creates a new instance at the given location.
func (s *State) spawnItemLocked(defID string, qty uint32, loc items.Location) *items.Instance {
	it := items.NewInstance(s.allocID(), defID, qty, loc)
	s.items[it.ID] = it
	return it
}

// giveItemLocked puts qty of defID into the player's first free hotbar or
// inventory slot, preferring merges into existing stacks. Overflow drops
// at the player's feet.
func (s *State) giveItemLocked(p *Player, defID string, qty uint32) {
	def := s.defs.Get(defID)
	if def == nil {
		return
	}

	// Top up existing stacks first.
	if def.MaxStack() > 1 {
		for _, it := range s.items {
			if qty == 0 {
				break
			}
			if it.DefID != defID {
				continue
			}
			owner, ok := it.Location.PlayerBound()
			if !ok || owner != p.Identity || !it.Location.Wieldable() {
				continue
			}
			out, err := items.Merge(qty, it.Quantity, def.MaxStack())
			if err != nil {
				continue
			}
			it.Quantity = out.TargetAfter
			qty = out.SourceLeft
		}
	}

	for qty > 0 {
		take := qty
		if take > def.MaxStack() {
			take = def.MaxStack()
		}
		if slot := s.firstEmptyPlayerSlot(p.Identity, items.KindHotbar); slot >= 0 {
			s.spawnItemLocked(defID, take, items.InHotbar(p.Identity, slot))
		} else if slot := s.firstEmptyPlayerSlot(p.Identity, items.KindInventory); slot >= 0 {
			s.spawnItemLocked(defID, take, items.InInventory(p.Identity, slot))
		} else {
			s.spawnItemLocked(defID, take, items.DroppedAt(p.Pos))
		}
		qty -= take
	}
}

// countHeldLocked totals a definition across the player's inventory and
// hotbar.
func (s *State) countHeldLocked(identity, defID string) uint32 {
	var total uint32
	for _, it := range s.items {
		if it.DefID != defID || !it.Location.Wieldable() {
			continue
		}
		if it.Location.Owner == identity {
			total += it.Quantity
		}
	}
	return total
}

// takeCostLocked charges a material cost from the player's inventory and
// hotbar. Callers must have verified affordability already; the charge
// itself is all-or-nothing by that precondition.
func (s *State) takeCostLocked(p *Player, cost []items.CostEntry) error {
	for _, c := range cost {
		if s.countHeldLocked(p.Identity, c.Item) < c.Quantity {
			return Errorf(ErrPrecondition, "not enough %s", c.Item)
		}
	}

	for _, c := range cost {
		remaining := c.Quantity
		for _, it := range s.items {
			if remaining == 0 {
				break
			}
			if it.DefID != c.Item || !it.Location.Wieldable() || it.Location.Owner != p.Identity {
				continue
			}
			if it.Quantity > remaining {
				it.Quantity -= remaining
				remaining = 0
			} else {
				remaining -= it.Quantity
				s.removeItemLocked(it)
			}
		}
	}
	return nil
}

// DropItemToWorld turns a held stack into a loose world entity at the
// player's feet.
func (s *State) DropItemToWorld(identity string, itemID uint64) error {
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

	s.clearItemReferencesLocked(p, it)
	s.relocateItemLocked(it, items.DroppedAt(p.Pos))
	return nil
}

// PickupItem moves a dropped stack into the player's first free slot.
func (s *State) PickupItem(identity string, itemID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	it, ok := s.items[itemID]
	if !ok {
		return Errorf(ErrNotFound, "item %d does not exist", itemID)
	}
	if it.Location.Kind != items.KindDropped {
		return Errorf(ErrInvariant, "item %d is not on the ground", itemID)
	}
	if !geometry.WithinRange(p.Pos, it.Location.Pos, maxInteractDistance) {
		return Errorf(ErrPrecondition, "too far away")
	}

	slot := s.firstEmptyPlayerSlot(identity, items.KindHotbar)
	kind := items.KindHotbar
	if slot < 0 {
		slot = s.firstEmptyPlayerSlot(identity, items.KindInventory)
		kind = items.KindInventory
	}
	if slot < 0 {
		return Errorf(ErrCapacity, "no free slot")
	}

	if kind == items.KindHotbar {
		s.relocateItemLocked(it, items.InHotbar(identity, slot))
	} else {
		s.relocateItemLocked(it, items.InInventory(identity, slot))
	}
	return nil
}

// clearItemReferencesLocked drops any player bookkeeping that points at
// the item: the active-item pointer and the worn-equipment cache.
func (s *State) clearItemReferencesLocked(p *Player, it *items.Instance) {
	if p.ActiveItem == it.ID {
		p.ActiveItem = 0
	}
	if it.Location.Kind == items.KindEquipped {
		p.Equipment[it.Location.Equip] = 0
	}
}
