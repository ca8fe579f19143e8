package world

import (
	"github.com/pixil98/go-survival/internal/items"
)

// MoveItemToInventory moves a held item into an inventory slot, merging
// or swapping with the current occupant.
func (s *State) MoveItemToInventory(identity string, itemID uint64, slot int) error {
	return s.moveToPlayerGrid(identity, itemID, items.KindInventory, slot)
}

// MoveItemToHotbar moves a held item into a hotbar slot.
func (s *State) MoveItemToHotbar(identity string, itemID uint64, slot int) error {
	return s.moveToPlayerGrid(identity, itemID, items.KindHotbar, slot)
}

func (s *State) moveToPlayerGrid(identity string, itemID uint64, kind items.LocationKind, slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	if err := s.checkGridSlot(kind, slot); err != nil {
		return err
	}
	it, err := s.playerItem(identity, itemID)
	if err != nil {
		return err
	}

	target, err := playerGridLocation(identity, kind, slot)
	if err != nil {
		return err
	}
	return s.moveItemLocked(p, it, target)
}

func (s *State) checkGridSlot(kind items.LocationKind, slot int) error {
	var n int
	switch kind {
	case items.KindInventory:
		n = s.tun.Player.InventorySlots
	case items.KindHotbar:
		n = s.tun.Player.HotbarSlots
	default:
		return Errorf(ErrInvariant, "%s is not a player grid", kind)
	}
	if slot < 0 || slot >= n {
		return Errorf(ErrInvariant, "slot %d out of range for %s", slot, kind)
	}
	return nil
}

// MoveToFirstAvailableHotbarSlot files an item into the lowest free
// hotbar slot.
func (s *State) MoveToFirstAvailableHotbarSlot(identity string, itemID uint64) error {
	return s.moveToFirstFree(identity, itemID, items.KindHotbar)
}

// MoveToFirstAvailableInventorySlot files an item into the lowest free
// inventory slot.
func (s *State) MoveToFirstAvailableInventorySlot(identity string, itemID uint64) error {
	return s.moveToFirstFree(identity, itemID, items.KindInventory)
}

func (s *State) moveToFirstFree(identity string, itemID uint64, kind items.LocationKind) error {
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

	slot := s.firstEmptyPlayerSlot(identity, kind)
	if slot < 0 {
		return Errorf(ErrCapacity, "%s is full", kind)
	}
	target, err := playerGridLocation(identity, kind, slot)
	if err != nil {
		return err
	}
	return s.moveItemLocked(p, it, target)
}

// EquipItem moves a held armor piece into its worn slot.
func (s *State) EquipItem(identity string, itemID uint64) error {
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
	slot, ok := def.EquipSlot()
	if !ok {
		return Errorf(ErrInvariant, "%s is not equippable", def.Name)
	}

	return s.moveItemLocked(p, it, items.EquippedBy(identity, slot))
}

// SplitStack carves qty off a held stack into an empty player grid slot.
func (s *State) SplitStack(identity string, sourceID uint64, qty uint32, targetKind items.LocationKind, targetSlot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.actingPlayer(identity); err != nil {
		return err
	}
	if err := s.checkGridSlot(targetKind, targetSlot); err != nil {
		return err
	}
	it, err := s.playerItem(identity, sourceID)
	if err != nil {
		return err
	}

	target, err := playerGridLocation(identity, targetKind, targetSlot)
	if err != nil {
		return err
	}
	_, err = s.splitLocked(it, qty, target)
	return err
}

// SetActiveItem wields a held tool or weapon, or disarms with itemID 0.
func (s *State) SetActiveItem(identity string, itemID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	if itemID == 0 {
		p.ActiveItem = 0
		return nil
	}

	it, err := s.playerItem(identity, itemID)
	if err != nil {
		return err
	}
	if !it.Location.Wieldable() {
		return Errorf(ErrInvariant, "active item must be in the inventory or hotbar")
	}
	def, err := s.definition(it.DefID)
	if err != nil {
		return err
	}
	if !wieldable(def) {
		return Errorf(ErrInvariant, "%s cannot be wielded", def.Name)
	}

	p.ActiveItem = it.ID
	return nil
}
