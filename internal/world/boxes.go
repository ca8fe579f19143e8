package world

import (
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
	"github.com/pixil98/go-survival/internal/items"
)

type BoxType uint8

const (
	BoxNormal BoxType = iota
	BoxLarge
	BoxRefrigerator
	BoxRepairBench
)

func (t BoxType) String() string {
	switch t {
	case BoxNormal:
		return "normal"
	case BoxLarge:
		return "large"
	case BoxRefrigerator:
		return "refrigerator"
	case BoxRepairBench:
		return "repair_bench"
	}
	return "unknown"
}

// itemDef names the catalog entry a picked-up box turns back into.
func (t BoxType) itemDef() string {
	switch t {
	case BoxLarge:
		return "large-storage-box"
	case BoxRefrigerator:
		return "refrigerator"
	case BoxRepairBench:
		return "repair-bench"
	}
	return "wooden-storage-box"
}

func (s *State) boxSlots(t BoxType) int {
	switch t {
	case BoxLarge:
		return s.tun.Containers.LargeBoxSlots
	case BoxRefrigerator:
		return s.tun.Containers.RefrigeratorSlots
	case BoxRepairBench:
		return 1
	}
	return s.tun.Containers.BoxSlots
}

// Box is a placed storage container.
type Box struct {
	Placeable
	Type  BoxType
	Slots []Slot
}

func (b *Box) NumSlots() int             { return len(b.Slots) }
func (b *Box) GetSlot(i int) Slot        { return b.Slots[i] }
func (b *Box) SetSlot(i int, sl Slot)    { b.Slots[i] = sl }
func (b *Box) Kind() items.ContainerKind { return items.ContainerBox }
func (b *Box) ID() uint64                { return b.Placeable.ID }
func (b *Box) Position() geometry.Vec    { return b.Pos }

// empty reports whether no slot holds an item.
func (b *Box) empty() bool {
	for _, sl := range b.Slots {
		if !sl.Empty() {
			return false
		}
	}
	return true
}

// PickupStorageBox turns an empty box back into its inventory item and
// deletes the entity. Only the owner may pack it up.
func (s *State) PickupStorageBox(identity string, boxID uint64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	b, ok := s.boxes[boxID]
	if !ok || b.Destroyed {
		return Errorf(ErrNotFound, "storage box %d does not exist", boxID)
	}
	if b.Owner != identity {
		return Errorf(ErrAuthorization, "only the owner can pick up a storage box")
	}
	if !geometry.WithinRange(p.Pos, b.Pos, maxInteractDistance) {
		return Errorf(ErrPrecondition, "too far away")
	}
	if err := s.interactionGateLocked(p, b.Pos); err != nil {
		return err
	}
	if !b.empty() {
		return Errorf(ErrStateConflict, "empty the box first")
	}

	delete(s.boxes, boxID)
	s.giveItemLocked(p, b.Type.itemDef(), 1)
	s.emitSoundLocked(SoundDestroy, b.Pos, now)
	return nil
}

// RepairItem runs one bounded repair cycle on a held item at a repair
// bench: capped count, shrinking ceiling, scaled material cost.
func (s *State) RepairItem(identity string, benchID, itemID uint64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	b, ok := s.boxes[benchID]
	if !ok || b.Destroyed || b.Type != BoxRepairBench {
		return Errorf(ErrNotFound, "repair bench %d does not exist", benchID)
	}
	if !geometry.WithinRange(p.Pos, b.Pos, maxInteractDistance) {
		return Errorf(ErrPrecondition, "too far away")
	}
	it, err := s.playerItem(identity, itemID)
	if err != nil {
		return err
	}
	def, err := s.definition(it.DefID)
	if err != nil {
		return err
	}
	if !def.Breakable {
		return Errorf(ErrInvariant, "%s cannot be repaired", def.Name)
	}

	count := it.Data.RepairCount()
	if count >= 3 {
		return Errorf(ErrStateConflict, "%s is beyond repair", def.Name)
	}
	maxDur := it.Data.MaxDurabilityValue()
	if maxDur < 25 {
		return Errorf(ErrStateConflict, "%s is beyond repair", def.Name)
	}
	if it.Data.Durability() >= maxDur {
		return Errorf(ErrStateConflict, "%s is not damaged", def.Name)
	}

	// Each successive repair costs half as much: 50%, 25%, 12.5% of the
	// crafting cost.
	frac := 0.5 / float64(uint32(1)<<count)
	cost := scaledCost(def.CraftingCost, frac)
	if err := s.takeCostLocked(p, cost); err != nil {
		s.emitSoundLocked(SoundError, p.Pos, now)
		return err
	}

	it.Data.SetMaxDurability(maxDur - 25)
	it.Data.SetDurability(maxDur - 25)
	it.Data.SetRepairCount(count + 1)
	s.emitSoundLocked(SoundRepair, b.Pos, now)
	return nil
}

// scaledCost multiplies a material cost, always charging at least one of
// each ingredient.
func scaledCost(cost []items.CostEntry, frac float64) []items.CostEntry {
	out := make([]items.CostEntry, 0, len(cost))
	for _, c := range cost {
		qty := uint32(float64(c.Quantity) * frac)
		if qty == 0 {
			qty = 1
		}
		out = append(out, items.CostEntry{Item: c.Item, Quantity: qty})
	}
	return out
}
