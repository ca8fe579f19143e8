package world

import (
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
	"github.com/pixil98/go-survival/internal/items"
)

// Slot is a container's cached view of its occupant. The item's own
// location field is the source of truth; the cache exists for cheap slot
// scans and must be written in the same mutation as the location.
type Slot struct {
	InstanceID uint64
	DefID      string
}

func (sl Slot) Empty() bool {
	return sl.InstanceID == 0
}

// Container is the uniform slot surface shared by storage boxes,
// campfires, furnaces and lanterns. One implementation of move, split,
// merge and swap covers all of them.
type Container interface {
	NumSlots() int
	GetSlot(i int) Slot
	SetSlot(i int, sl Slot)
	Kind() items.ContainerKind
	ID() uint64
	Position() geometry.Vec
}

// container resolves a live container, rejecting destroyed entities so no
// item can be moved into a corpse.
func (s *State) container(kind items.ContainerKind, id uint64) (Container, error) {
	var (
		c         Container
		destroyed bool
		ok        bool
	)
	switch kind {
	case items.ContainerBox:
		var b *Box
		b, ok = s.boxes[id]
		if ok {
			c, destroyed = b, b.Destroyed
		}
	case items.ContainerCampfire:
		var cf *Campfire
		cf, ok = s.campfires[id]
		if ok {
			c, destroyed = cf, cf.Destroyed
		}
	case items.ContainerFurnace:
		var f *Furnace
		f, ok = s.furnaces[id]
		if ok {
			c, destroyed = f, f.Destroyed
		}
	case items.ContainerLantern:
		var l *Lantern
		l, ok = s.lanterns[id]
		if ok {
			c, destroyed = l, l.Destroyed
		}
	}
	if !ok {
		return nil, Errorf(ErrNotFound, "%s %d does not exist", kind, id)
	}
	if destroyed {
		return nil, Errorf(ErrStateConflict, "%s %d is destroyed", kind, id)
	}
	return c, nil
}

// setLocationLocked moves an item and keeps container slot caches in step
// with the move, clearing the slot it leaves and claiming the one it
// enters.
func (s *State) setLocationLocked(it *items.Instance, loc items.Location) error {
	if kind, cid, ok := it.Location.ContainerBound(); ok {
		c, err := s.container(kind, cid)
		if err == nil {
			c.SetSlot(it.Location.Slot, Slot{})
		}
	}
	if kind, cid, ok := loc.ContainerBound(); ok {
		c, err := s.container(kind, cid)
		if err != nil {
			return err
		}
		c.SetSlot(loc.Slot, Slot{InstanceID: it.ID, DefID: it.DefID})
	}
	s.relocateItemLocked(it, loc)
	return nil
}

// removeItemLocked deletes an instance, clearing its container cache and
// any player references first.
func (s *State) removeItemLocked(it *items.Instance) {
	if kind, cid, ok := it.Location.ContainerBound(); ok {
		if c, err := s.container(kind, cid); err == nil {
			c.SetSlot(it.Location.Slot, Slot{})
		}
	}
	if owner, ok := it.Location.PlayerBound(); ok {
		if p, err := s.player(owner); err == nil {
			s.clearItemReferencesLocked(p, it)
		}
	}
	s.deleteItemLocked(it)
}

// occupantAtLocked finds the item currently at a location, nil when the
// slot is free.
func (s *State) occupantAtLocked(loc items.Location) (*items.Instance, error) {
	switch loc.Kind {
	case items.KindInventory, items.KindHotbar:
		return s.itemInPlayerSlot(loc.Owner, loc.Kind, loc.Slot), nil
	case items.KindEquipped:
		return s.itemInEquipSlot(loc.Owner, loc.Equip), nil
	case items.KindContainer:
		c, err := s.container(loc.Container, loc.ContainerID)
		if err != nil {
			return nil, err
		}
		if loc.Slot < 0 || loc.Slot >= c.NumSlots() {
			return nil, Errorf(ErrInvariant, "slot %d out of range for %s", loc.Slot, loc.Container)
		}
		sl := c.GetSlot(loc.Slot)
		if sl.Empty() {
			return nil, nil
		}
		it, ok := s.items[sl.InstanceID]
		if !ok {
			return nil, Errorf(ErrInvariant, "slot cache of %s %d references missing item %d",
				loc.Container, loc.ContainerID, sl.InstanceID)
		}
		return it, nil
	}
	return nil, Errorf(ErrInvariant, "location %s cannot hold items", loc.Kind)
}

// moveItemLocked is the shared move algorithm. It re-asserts self moves,
// merges stackable kin, and otherwise swaps, maintaining the active-item
// and worn-equipment bookkeeping.
func (s *State) moveItemLocked(p *Player, src *items.Instance, target items.Location) error {
	occupant, err := s.occupantAtLocked(target)
	if err != nil {
		return err
	}

	// Re-asserting an item's own slot is a no-op.
	if occupant == src {
		return nil
	}

	srcDef, err := s.definition(src.DefID)
	if err != nil {
		return err
	}

	if target.Kind == items.KindEquipped {
		slot, ok := srcDef.EquipSlot()
		if !ok || slot != target.Equip {
			return Errorf(ErrInvariant, "%s cannot be worn on %s", srcDef.Name, target.Equip)
		}
	}

	if occupant == nil {
		origin := src.Location
		if err := s.setLocationLocked(src, target); err != nil {
			return err
		}
		s.afterMoveLocked(p, src, origin, target, false)
		return nil
	}

	// Merge into a stack of the same definition.
	if src.CanStackWith(occupant, srcDef) {
		out, err := items.Merge(src.Quantity, occupant.Quantity, srcDef.MaxStack())
		if err != nil {
			return Errorf(ErrCapacity, "%s", err)
		}
		if srcDef.Perishable {
			d := items.MergedDurability(out.Moved, occupant.Quantity,
				src.Data.Durability(), occupant.Data.Durability())
			occupant.Data.SetDurability(d)
		}
		occupant.Quantity = out.TargetAfter
		if out.SourceEmptied {
			s.removeItemLocked(src)
		} else {
			src.Quantity = out.SourceLeft
		}
		return nil
	}

	// Swap. The occupant takes the source's origin, the source takes the
	// target slot.
	origin := src.Location
	if origin.Kind == items.KindEquipped {
		occDef, err := s.definition(occupant.DefID)
		if err != nil {
			return err
		}
		if slot, ok := occDef.EquipSlot(); !ok || slot != origin.Equip {
			return Errorf(ErrInvariant, "%s cannot be worn on %s", occDef.Name, origin.Equip)
		}
	}

	if err := s.setLocationLocked(src, target); err != nil {
		return err
	}
	if err := s.setLocationLocked(occupant, origin); err != nil {
		return err
	}
	s.afterMoveLocked(p, src, origin, target, true)
	s.afterSwapInLocked(occupant, origin)
	return nil
}

// afterMoveLocked settles player bookkeeping once src has moved from
// origin to target.
func (s *State) afterMoveLocked(p *Player, src *items.Instance, origin, target items.Location, swapped bool) {
	// Leaving an armor slot clears its record.
	if origin.Kind == items.KindEquipped && origin.Owner == p.Identity {
		if !swapped {
			p.Equipment[origin.Equip] = 0
		}
	}
	// Entering an armor slot records the new occupant.
	if target.Kind == items.KindEquipped && target.Owner == p.Identity {
		p.Equipment[target.Equip] = src.ID
	}

	wasActive := p.ActiveItem == src.ID
	if wasActive && !target.Wieldable() {
		p.ActiveItem = 0
	}

	// Swapping into the active item's slot promotes an equippable weapon
	// or tool, and disarms otherwise.
	if swapped && target.Wieldable() {
		displaced, err := s.occupantAtLocked(origin)
		if err == nil && displaced != nil && p.ActiveItem == displaced.ID {
			def, derr := s.definition(src.DefID)
			if derr == nil && wieldable(def) {
				p.ActiveItem = src.ID
			} else {
				p.ActiveItem = 0
			}
		}
	}
}

// afterSwapInLocked settles bookkeeping for the displaced occupant.
func (s *State) afterSwapInLocked(occupant *items.Instance, newLoc items.Location) {
	owner, ok := newLoc.PlayerBound()
	if !ok {
		return
	}
	p, err := s.player(owner)
	if err != nil {
		return
	}
	if newLoc.Kind == items.KindEquipped {
		p.Equipment[newLoc.Equip] = occupant.ID
	}
	if p.ActiveItem == occupant.ID && !newLoc.Wieldable() {
		p.ActiveItem = 0
	}
}

func wieldable(def *items.Definition) bool {
	switch def.Category() {
	case items.CategoryWeapon, items.CategoryTool, items.CategoryRangedWeapon:
		return true
	}
	return false
}

// containerFor validates access to a container for the calling player:
// existence, reach, and the shelter interaction gate.
func (s *State) containerFor(p *Player, kind items.ContainerKind, id uint64) (Container, error) {
	c, err := s.container(kind, id)
	if err != nil {
		return nil, err
	}
	if !geometry.WithinRange(p.Pos, c.Position(), maxInteractDistance) {
		return nil, Errorf(ErrPrecondition, "too far away")
	}
	if err := s.interactionGateLocked(p, c.Position()); err != nil {
		return nil, err
	}
	return c, nil
}

// OpenContainer runs the access checks for looking inside a container
// and returns a snapshot of its slots.
func (s *State) OpenContainer(identity string, kind items.ContainerKind, id uint64) ([]Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return nil, err
	}
	c, err := s.containerFor(p, kind, id)
	if err != nil {
		return nil, err
	}
	slots := make([]Slot, c.NumSlots())
	for i := range slots {
		slots[i] = c.GetSlot(i)
	}
	return slots, nil
}

// MoveItemToContainerSlot moves a held item into a specific container
// slot, merging or swapping as needed.
func (s *State) MoveItemToContainerSlot(identity string, kind items.ContainerKind, containerID uint64, targetSlot int, itemID uint64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	c, err := s.containerFor(p, kind, containerID)
	if err != nil {
		return err
	}
	if targetSlot < 0 || targetSlot >= c.NumSlots() {
		return Errorf(ErrInvariant, "slot %d out of range", targetSlot)
	}
	it, err := s.playerItem(identity, itemID)
	if err != nil {
		return err
	}
	if err := s.checkContainerAccepts(c, it.DefID, targetSlot); err != nil {
		return err
	}

	if err := s.moveItemLocked(p, it, items.InContainer(kind, containerID, targetSlot)); err != nil {
		return err
	}
	s.afterContainerChangeLocked(c)
	return nil
}

// MoveItemFromContainerSlot pulls a container slot's stack into a player
// grid slot.
func (s *State) MoveItemFromContainerSlot(identity string, kind items.ContainerKind, containerID uint64, sourceSlot int, targetKind items.LocationKind, targetSlot int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	c, err := s.containerFor(p, kind, containerID)
	if err != nil {
		return err
	}
	it, err := s.containerOccupant(c, sourceSlot)
	if err != nil {
		return err
	}

	target, err := playerGridLocation(identity, targetKind, targetSlot)
	if err != nil {
		return err
	}
	if err := s.moveItemLocked(p, it, target); err != nil {
		return err
	}
	s.afterContainerChangeLocked(c)
	return nil
}

// MoveWithinContainer rearranges stacks inside one container.
func (s *State) MoveWithinContainer(identity string, kind items.ContainerKind, containerID uint64, sourceSlot, targetSlot int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	c, err := s.containerFor(p, kind, containerID)
	if err != nil {
		return err
	}
	if targetSlot < 0 || targetSlot >= c.NumSlots() {
		return Errorf(ErrInvariant, "slot %d out of range", targetSlot)
	}
	it, err := s.containerOccupant(c, sourceSlot)
	if err != nil {
		return err
	}
	if err := s.checkContainerAccepts(c, it.DefID, targetSlot); err != nil {
		return err
	}

	if err := s.moveItemLocked(p, it, items.InContainer(kind, containerID, targetSlot)); err != nil {
		return err
	}
	s.afterContainerChangeLocked(c)
	return nil
}

// QuickMoveToContainer files a held item into the first mergeable or
// empty container slot.
func (s *State) QuickMoveToContainer(identity string, kind items.ContainerKind, containerID uint64, itemID uint64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	c, err := s.containerFor(p, kind, containerID)
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

	slot := s.quickSlotLocked(c, it, def)
	if slot < 0 {
		return Errorf(ErrCapacity, "%s is full", kind)
	}
	if err := s.moveItemLocked(p, it, items.InContainer(kind, containerID, slot)); err != nil {
		return err
	}
	s.afterContainerChangeLocked(c)
	return nil
}

// quickSlotLocked picks the first slot that can absorb the stack: a
// mergeable stack of the same definition first, then the first empty slot
// that accepts the item.
func (s *State) quickSlotLocked(c Container, it *items.Instance, def *items.Definition) int {
	if def.MaxStack() > 1 {
		for i := 0; i < c.NumSlots(); i++ {
			sl := c.GetSlot(i)
			if sl.Empty() || sl.DefID != it.DefID {
				continue
			}
			tgt, ok := s.items[sl.InstanceID]
			if ok && tgt.Quantity < def.MaxStack() {
				return i
			}
		}
	}
	for i := 0; i < c.NumSlots(); i++ {
		if !c.GetSlot(i).Empty() {
			continue
		}
		if s.checkContainerAccepts(c, it.DefID, i) == nil {
			return i
		}
	}
	return -1
}

// QuickMoveFromContainer pulls a container stack into the first free
// player slot, hotbar first.
func (s *State) QuickMoveFromContainer(identity string, kind items.ContainerKind, containerID uint64, sourceSlot int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	c, err := s.containerFor(p, kind, containerID)
	if err != nil {
		return err
	}
	it, err := s.containerOccupant(c, sourceSlot)
	if err != nil {
		return err
	}

	target, err := s.firstFreePlayerLocation(identity)
	if err != nil {
		return err
	}
	if err := s.moveItemLocked(p, it, target); err != nil {
		return err
	}
	s.afterContainerChangeLocked(c)
	return nil
}

// DropFromContainerSlot ejects a container stack onto the ground at the
// player's feet.
func (s *State) DropFromContainerSlot(identity string, kind items.ContainerKind, containerID uint64, sourceSlot int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	c, err := s.containerFor(p, kind, containerID)
	if err != nil {
		return err
	}
	it, err := s.containerOccupant(c, sourceSlot)
	if err != nil {
		return err
	}

	if err := s.setLocationLocked(it, items.DroppedAt(p.Pos)); err != nil {
		return err
	}
	s.afterContainerChangeLocked(c)
	return nil
}

// SplitAndDropFromContainerSlot carves qty off a container stack and
// drops the new stack at the player's feet.
func (s *State) SplitAndDropFromContainerSlot(identity string, kind items.ContainerKind, containerID uint64, sourceSlot int, qty uint32, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	c, err := s.containerFor(p, kind, containerID)
	if err != nil {
		return err
	}
	it, err := s.containerOccupant(c, sourceSlot)
	if err != nil {
		return err
	}

	if _, err := s.splitLocked(it, qty, items.DroppedAt(p.Pos)); err != nil {
		return err
	}
	s.afterContainerChangeLocked(c)
	return nil
}

// SplitIntoContainer carves qty off a held stack into a container slot.
// The target slot must be empty; splitting onto a stack is a merge and
// goes through the move path.
func (s *State) SplitIntoContainer(identity string, kind items.ContainerKind, containerID uint64, targetSlot int, itemID uint64, qty uint32, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	c, err := s.containerFor(p, kind, containerID)
	if err != nil {
		return err
	}
	if targetSlot < 0 || targetSlot >= c.NumSlots() {
		return Errorf(ErrInvariant, "slot %d out of range", targetSlot)
	}
	it, err := s.playerItem(identity, itemID)
	if err != nil {
		return err
	}
	if err := s.checkContainerAccepts(c, it.DefID, targetSlot); err != nil {
		return err
	}

	if _, err := s.splitLocked(it, qty, items.InContainer(kind, containerID, targetSlot)); err != nil {
		return err
	}
	s.afterContainerChangeLocked(c)
	return nil
}

// SplitFromContainer carves qty off a container stack into the first free
// player slot.
func (s *State) SplitFromContainer(identity string, kind items.ContainerKind, containerID uint64, sourceSlot int, qty uint32, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	c, err := s.containerFor(p, kind, containerID)
	if err != nil {
		return err
	}
	it, err := s.containerOccupant(c, sourceSlot)
	if err != nil {
		return err
	}

	target, err := s.firstFreePlayerLocation(identity)
	if err != nil {
		return err
	}
	if _, err := s.splitLocked(it, qty, target); err != nil {
		return err
	}
	s.afterContainerChangeLocked(c)
	return nil
}

// SplitWithinContainer carves qty off one container slot into another
// empty slot of the same container.
func (s *State) SplitWithinContainer(identity string, kind items.ContainerKind, containerID uint64, sourceSlot, targetSlot int, qty uint32, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	c, err := s.containerFor(p, kind, containerID)
	if err != nil {
		return err
	}
	if targetSlot < 0 || targetSlot >= c.NumSlots() {
		return Errorf(ErrInvariant, "slot %d out of range", targetSlot)
	}
	it, err := s.containerOccupant(c, sourceSlot)
	if err != nil {
		return err
	}
	if err := s.checkContainerAccepts(c, it.DefID, targetSlot); err != nil {
		return err
	}

	if _, err := s.splitLocked(it, qty, items.InContainer(kind, containerID, targetSlot)); err != nil {
		return err
	}
	s.afterContainerChangeLocked(c)
	return nil
}

// splitLocked carves qty off src into a new instance at target. The
// target must be an empty resting place; item_data is cloned so both
// halves spoil independently.
func (s *State) splitLocked(src *items.Instance, qty uint32, target items.Location) (*items.Instance, error) {
	if target.Kind != items.KindDropped {
		occupant, err := s.occupantAtLocked(target)
		if err != nil {
			return nil, err
		}
		if occupant != nil {
			return nil, Errorf(ErrCapacity, "target slot is occupied")
		}
	}

	remaining, err := items.Split(src.Quantity, qty)
	if err != nil {
		return nil, Errorf(ErrInvariant, "%s", err)
	}

	src.Quantity = remaining
	half := items.NewInstance(s.allocID(), src.DefID, qty, items.Unknown())
	half.Data = src.Data.Clone()
	s.items[half.ID] = half
	if err := s.setLocationLocked(half, target); err != nil {
		// Roll the carve back; the split must be all or nothing.
		src.Quantity += qty
		s.deleteItemLocked(half)
		return nil, err
	}
	return half, nil
}

// containerOccupant resolves the item behind a slot index.
func (s *State) containerOccupant(c Container, slot int) (*items.Instance, error) {
	if slot < 0 || slot >= c.NumSlots() {
		return nil, Errorf(ErrInvariant, "slot %d out of range", slot)
	}
	it, err := s.occupantAtLocked(items.InContainer(c.Kind(), c.ID(), slot))
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, Errorf(ErrNotFound, "slot %d is empty", slot)
	}
	return it, nil
}

// firstFreePlayerLocation picks the player's first open slot, hotbar
// before inventory.
func (s *State) firstFreePlayerLocation(identity string) (items.Location, error) {
	if slot := s.firstEmptyPlayerSlot(identity, items.KindHotbar); slot >= 0 {
		return items.InHotbar(identity, slot), nil
	}
	if slot := s.firstEmptyPlayerSlot(identity, items.KindInventory); slot >= 0 {
		return items.InInventory(identity, slot), nil
	}
	return items.Location{}, Errorf(ErrCapacity, "no free slot")
}

func playerGridLocation(identity string, kind items.LocationKind, slot int) (items.Location, error) {
	switch kind {
	case items.KindInventory:
		return items.InInventory(identity, slot), nil
	case items.KindHotbar:
		return items.InHotbar(identity, slot), nil
	}
	return items.Location{}, Errorf(ErrInvariant, "cannot move from a container to %s", kind)
}

// checkContainerAccepts enforces kind-specific slot rules, such as a
// furnace taking only wood fuel and smeltable ore.
func (s *State) checkContainerAccepts(c Container, defID string, slot int) error {
	def, err := s.definition(defID)
	if err != nil {
		return err
	}
	switch c.Kind() {
	case items.ContainerFurnace:
		if !isWoodFuel(def) && def.CookedItem == "" && def.BurntItem == "" {
			return Errorf(ErrInvariant, "a furnace takes wood or something to smelt")
		}
	case items.ContainerLantern:
		if !def.IsFuel() {
			return Errorf(ErrInvariant, "%s is not lantern fuel", def.Name)
		}
	}
	return nil
}

// afterContainerChangeLocked runs the kind-specific follow-up: appliances
// re-arm their processing schedule whenever their slots change.
func (s *State) afterContainerChangeLocked(c Container) {
	switch c.Kind() {
	case items.ContainerCampfire:
		if cf, ok := s.campfires[c.ID()]; ok {
			s.ensureApplianceScheduleLocked(&cf.Appliance)
		}
	case items.ContainerFurnace:
		if f, ok := s.furnaces[c.ID()]; ok {
			s.ensureApplianceScheduleLocked(&f.Appliance)
		}
	case items.ContainerLantern:
		if l, ok := s.lanterns[c.ID()]; ok {
			s.ensureLanternScheduleLocked(l)
		}
	}
}
