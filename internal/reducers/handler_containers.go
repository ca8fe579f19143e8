package reducers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pixil98/go-survival/internal/items"
)

type containerSlotArgs struct {
	ContainerID uint64 `json:"container_id"`
	Slot        int    `json:"slot"`
	ItemID      uint64 `json:"item_id"`
}

type containerFromArgs struct {
	ContainerID uint64 `json:"container_id"`
	Slot        int    `json:"slot"`
	TargetKind  string `json:"target_kind"`
	TargetSlot  int    `json:"target_slot"`
}

type containerWithinArgs struct {
	ContainerID uint64 `json:"container_id"`
	FromSlot    int    `json:"from_slot"`
	ToSlot      int    `json:"to_slot"`
}

type containerSplitArgs struct {
	ContainerID uint64 `json:"container_id"`
	Slot        int    `json:"slot"`
	ItemID      uint64 `json:"item_id"`
	Qty         uint32 `json:"qty"`
}

type containerSplitWithinArgs struct {
	ContainerID uint64 `json:"container_id"`
	FromSlot    int    `json:"from_slot"`
	ToSlot      int    `json:"to_slot"`
	Qty         uint32 `json:"qty"`
}

type containerArgs struct {
	ContainerID uint64 `json:"container_id"`
}

type bellowsArgs struct {
	ContainerID uint64 `json:"container_id"`
	ItemID      uint64 `json:"item_id"`
}

// registerContainers emits the full per-kind reducer family. Every world
// container kind gets the same verbs, so the names are generated rather
// than written out by hand.
func (r *Registry) registerContainers() {
	kinds := []items.ContainerKind{
		items.ContainerBox,
		items.ContainerCampfire,
		items.ContainerFurnace,
		items.ContainerLantern,
	}

	for _, kind := range kinds {
		kind := kind
		name := kind.String()

		open := func(identity string, raw json.RawMessage, _ time.Time) (any, error) {
			args, err := decode[containerArgs](raw)
			if err != nil {
				return nil, badArgs(err)
			}
			slots, err := r.state.OpenContainer(identity, kind, args.ContainerID)
			if err != nil {
				return nil, wrap(err)
			}
			return slots, nil
		}
		r.register(fmt.Sprintf("open_%s", name), open)
		r.register(fmt.Sprintf("interact_with_%s", name), open)

		r.register(fmt.Sprintf("move_item_to_%s", name), func(identity string, raw json.RawMessage, now time.Time) (any, error) {
			args, err := decode[containerSlotArgs](raw)
			if err != nil {
				return nil, badArgs(err)
			}
			return nil, wrap(r.state.MoveItemToContainerSlot(identity, kind, args.ContainerID, args.Slot, args.ItemID, now))
		})

		r.register(fmt.Sprintf("move_item_from_%s", name), func(identity string, raw json.RawMessage, now time.Time) (any, error) {
			args, err := decode[containerFromArgs](raw)
			if err != nil {
				return nil, badArgs(err)
			}
			target, err := parseSlotKind(args.TargetKind)
			if err != nil {
				return nil, badArgs(err)
			}
			return nil, wrap(r.state.MoveItemFromContainerSlot(identity, kind, args.ContainerID, args.Slot, target, args.TargetSlot, now))
		})

		r.register(fmt.Sprintf("move_item_within_%s", name), func(identity string, raw json.RawMessage, now time.Time) (any, error) {
			args, err := decode[containerWithinArgs](raw)
			if err != nil {
				return nil, badArgs(err)
			}
			return nil, wrap(r.state.MoveWithinContainer(identity, kind, args.ContainerID, args.FromSlot, args.ToSlot, now))
		})

		r.register(fmt.Sprintf("split_into_%s", name), func(identity string, raw json.RawMessage, now time.Time) (any, error) {
			args, err := decode[containerSplitArgs](raw)
			if err != nil {
				return nil, badArgs(err)
			}
			return nil, wrap(r.state.SplitIntoContainer(identity, kind, args.ContainerID, args.Slot, args.ItemID, args.Qty, now))
		})

		r.register(fmt.Sprintf("split_from_%s", name), func(identity string, raw json.RawMessage, now time.Time) (any, error) {
			args, err := decode[containerSplitArgs](raw)
			if err != nil {
				return nil, badArgs(err)
			}
			return nil, wrap(r.state.SplitFromContainer(identity, kind, args.ContainerID, args.Slot, args.Qty, now))
		})

		r.register(fmt.Sprintf("split_within_%s", name), func(identity string, raw json.RawMessage, now time.Time) (any, error) {
			args, err := decode[containerSplitWithinArgs](raw)
			if err != nil {
				return nil, badArgs(err)
			}
			return nil, wrap(r.state.SplitWithinContainer(identity, kind, args.ContainerID, args.FromSlot, args.ToSlot, args.Qty, now))
		})

		r.register(fmt.Sprintf("quick_move_to_%s", name), func(identity string, raw json.RawMessage, now time.Time) (any, error) {
			args, err := decode[containerSlotArgs](raw)
			if err != nil {
				return nil, badArgs(err)
			}
			return nil, wrap(r.state.QuickMoveToContainer(identity, kind, args.ContainerID, args.ItemID, now))
		})

		r.register(fmt.Sprintf("quick_move_from_%s", name), func(identity string, raw json.RawMessage, now time.Time) (any, error) {
			args, err := decode[containerSlotArgs](raw)
			if err != nil {
				return nil, badArgs(err)
			}
			return nil, wrap(r.state.QuickMoveFromContainer(identity, kind, args.ContainerID, args.Slot, now))
		})

		r.register(fmt.Sprintf("drop_item_from_%s_slot_to_world", name), func(identity string, raw json.RawMessage, now time.Time) (any, error) {
			args, err := decode[containerSlotArgs](raw)
			if err != nil {
				return nil, badArgs(err)
			}
			return nil, wrap(r.state.DropFromContainerSlot(identity, kind, args.ContainerID, args.Slot, now))
		})

		r.register(fmt.Sprintf("split_and_drop_%s", name), func(identity string, raw json.RawMessage, now time.Time) (any, error) {
			args, err := decode[containerSplitArgs](raw)
			if err != nil {
				return nil, badArgs(err)
			}
			return nil, wrap(r.state.SplitAndDropFromContainerSlot(identity, kind, args.ContainerID, args.Slot, args.Qty, now))
		})
	}

	// Burn toggles exist only where there is a flame.
	r.register("toggle_campfire_burning", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[containerArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.ToggleBurning(identity, items.ContainerCampfire, args.ContainerID, now))
	})

	r.register("toggle_furnace_burning", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[containerArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.ToggleBurning(identity, items.ContainerFurnace, args.ContainerID, now))
	})

	r.register("toggle_lantern_burning", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[containerArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.ToggleLantern(identity, args.ContainerID, now))
	})

	r.register("attach_bellows_to_campfire", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[bellowsArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.AttachBellows(identity, items.ContainerCampfire, args.ContainerID, args.ItemID, now))
	})

	r.register("attach_bellows_to_furnace", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[bellowsArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.AttachBellows(identity, items.ContainerFurnace, args.ContainerID, args.ItemID, now))
	})
}
