package items

import (
	"fmt"

	"github.com/pixil98/go-survival/internal/geometry"
)

// LocationKind tags the variant of a Location. The zero value is
// KindUnknown, the explicit poison state: it is only legal while a single
// reducer is in flight and must never be observable at rest.
type LocationKind uint8

const (
	KindUnknown LocationKind = iota
	KindInventory
	KindHotbar
	KindEquipped
	KindContainer
	KindDropped
)

func (k LocationKind) String() string {
	switch k {
	case KindInventory:
		return "inventory"
	case KindHotbar:
		return "hotbar"
	case KindEquipped:
		return "equipped"
	case KindContainer:
		return "container"
	case KindDropped:
		return "dropped"
	}
	return "unknown"
}

// EquipSlot is a worn-armor slot on a player.
type EquipSlot uint8

const (
	EquipHead EquipSlot = iota
	EquipChest
	EquipLegs
	EquipHands
	EquipFeet
	EquipBack
	NumEquipSlots = 6
)

func (s EquipSlot) String() string {
	switch s {
	case EquipHead:
		return "head"
	case EquipChest:
		return "chest"
	case EquipLegs:
		return "legs"
	case EquipHands:
		return "hands"
	case EquipFeet:
		return "feet"
	case EquipBack:
		return "back"
	}
	return "unknown"
}

// ParseEquipSlot maps a catalog slot name to its EquipSlot.
func ParseEquipSlot(s string) (EquipSlot, error) {
	switch s {
	case "head":
		return EquipHead, nil
	case "chest":
		return EquipChest, nil
	case "legs":
		return EquipLegs, nil
	case "hands":
		return EquipHands, nil
	case "feet":
		return EquipFeet, nil
	case "back":
		return EquipBack, nil
	}
	return 0, fmt.Errorf("unknown equip slot %q", s)
}

// ContainerKind distinguishes the world container tables an item can sit in.
type ContainerKind uint8

const (
	ContainerBox ContainerKind = iota
	ContainerCampfire
	ContainerFurnace
	ContainerLantern
)

func (k ContainerKind) String() string {
	switch k {
	case ContainerBox:
		return "box"
	case ContainerCampfire:
		return "campfire"
	case ContainerFurnace:
		return "furnace"
	case ContainerLantern:
		return "lantern"
	}
	return "unknown"
}

// Location is the single source of truth for where an item instance
// resides. Exactly one variant is active, selected by Kind; the other
// payload fields are meaningful only for their variant.
type Location struct {
	Kind LocationKind

	// Owner identity for Inventory, Hotbar and Equipped.
	Owner string
	// Slot index for Inventory, Hotbar and Container.
	Slot int
	// Armor slot for Equipped.
	Equip EquipSlot

	// Container coordinates for Container.
	Container   ContainerKind
	ContainerID uint64

	// World position for Dropped.
	Pos geometry.Vec
}

func InInventory(owner string, slot int) Location {
	return Location{Kind: KindInventory, Owner: owner, Slot: slot}
}

func InHotbar(owner string, slot int) Location {
	return Location{Kind: KindHotbar, Owner: owner, Slot: slot}
}

func EquippedBy(owner string, slot EquipSlot) Location {
	return Location{Kind: KindEquipped, Owner: owner, Equip: slot}
}

func InContainer(kind ContainerKind, id uint64, slot int) Location {
	return Location{Kind: KindContainer, Container: kind, ContainerID: id, Slot: slot}
}

func DroppedAt(pos geometry.Vec) Location {
	return Location{Kind: KindDropped, Pos: pos}
}

// Unknown is the transient poison location set immediately before an item is
// deleted, so that a forgotten deletion surfaces as a visible invariant
// violation instead of a stale slot reference.
func Unknown() Location {
	return Location{Kind: KindUnknown}
}

// PlayerBound returns the owning player when the location is one of the
// player-held variants.
func (l Location) PlayerBound() (string, bool) {
	switch l.Kind {
	case KindInventory, KindHotbar, KindEquipped:
		return l.Owner, true
	}
	return "", false
}

// ContainerBound returns the container coordinates when the location is the
// Container variant.
func (l Location) ContainerBound() (ContainerKind, uint64, bool) {
	if l.Kind == KindContainer {
		return l.Container, l.ContainerID, true
	}
	return 0, 0, false
}

// Wieldable reports whether an item at this location may be the player's
// active item: it must sit in the inventory or hotbar.
func (l Location) Wieldable() bool {
	return l.Kind == KindInventory || l.Kind == KindHotbar
}

func (l Location) String() string {
	switch l.Kind {
	case KindInventory, KindHotbar:
		return fmt.Sprintf("%s[%s:%d]", l.Kind, l.Owner, l.Slot)
	case KindEquipped:
		return fmt.Sprintf("equipped[%s:%s]", l.Owner, l.Equip)
	case KindContainer:
		return fmt.Sprintf("%s[%d:%d]", l.Container, l.ContainerID, l.Slot)
	case KindDropped:
		return fmt.Sprintf("dropped[%.1f,%.1f]", l.Pos.X, l.Pos.Y)
	}
	return "unknown"
}
