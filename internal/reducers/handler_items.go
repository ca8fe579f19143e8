package reducers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
	"github.com/pixil98/go-survival/internal/items"
)

type itemSlotArgs struct {
	ItemID uint64 `json:"item_id"`
	Slot   int    `json:"slot"`
}

type itemArgs struct {
	ItemID uint64 `json:"item_id"`
}

type splitStackArgs struct {
	SourceID   uint64 `json:"source_id"`
	Qty        uint32 `json:"qty"`
	TargetKind string `json:"target_kind"`
	TargetSlot int    `json:"target_slot"`
}

type craftArgs struct {
	DefID string `json:"def_id"`
}

type fillWaterArgs struct {
	ItemID uint64  `json:"item_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type repairItemArgs struct {
	BenchID uint64 `json:"bench_id"`
	ItemID  uint64 `json:"item_id"`
}

type fireProjectileArgs struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func parseSlotKind(s string) (items.LocationKind, error) {
	switch s {
	case "inventory":
		return items.KindInventory, nil
	case "hotbar":
		return items.KindHotbar, nil
	}
	return 0, fmt.Errorf("unknown slot kind %q", s)
}

func (r *Registry) registerItems() {
	r.register("move_item_to_inventory", func(identity string, raw json.RawMessage, _ time.Time) (any, error) {
		args, err := decode[itemSlotArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.MoveItemToInventory(identity, args.ItemID, args.Slot))
	})

	r.register("move_item_to_hotbar", func(identity string, raw json.RawMessage, _ time.Time) (any, error) {
		args, err := decode[itemSlotArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.MoveItemToHotbar(identity, args.ItemID, args.Slot))
	})

	r.register("move_to_first_available_inventory_slot", func(identity string, raw json.RawMessage, _ time.Time) (any, error) {
		args, err := decode[itemArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.MoveToFirstAvailableInventorySlot(identity, args.ItemID))
	})

	r.register("move_to_first_available_hotbar_slot", func(identity string, raw json.RawMessage, _ time.Time) (any, error) {
		args, err := decode[itemArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.MoveToFirstAvailableHotbarSlot(identity, args.ItemID))
	})

	r.register("split_stack", func(identity string, raw json.RawMessage, _ time.Time) (any, error) {
		args, err := decode[splitStackArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		kind, err := parseSlotKind(args.TargetKind)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.SplitStack(identity, args.SourceID, args.Qty, kind, args.TargetSlot))
	})

	r.register("equip_item", func(identity string, raw json.RawMessage, _ time.Time) (any, error) {
		args, err := decode[itemArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.EquipItem(identity, args.ItemID))
	})

	r.register("set_active_item", func(identity string, raw json.RawMessage, _ time.Time) (any, error) {
		args, err := decode[itemArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.SetActiveItem(identity, args.ItemID))
	})

	r.register("drop_item_to_world", func(identity string, raw json.RawMessage, _ time.Time) (any, error) {
		args, err := decode[itemArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.DropItemToWorld(identity, args.ItemID))
	})

	r.register("pickup_item", func(identity string, raw json.RawMessage, _ time.Time) (any, error) {
		args, err := decode[itemArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.PickupItem(identity, args.ItemID))
	})

	r.register("consume_item", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[itemArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.ConsumeItem(identity, args.ItemID, now))
	})

	r.register("consume_filled_water_container", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[itemArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.ConsumeFilledWaterContainer(identity, args.ItemID, now))
	})

	r.register("fill_water_container", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[fillWaterArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		at := geometry.Vec{X: args.X, Y: args.Y}
		return nil, wrap(r.state.FillWaterContainer(identity, args.ItemID, at, now))
	})

	r.register("craft_item", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[craftArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.CraftItem(identity, args.DefID, now))
	})

	r.register("repair_item", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[repairItemArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.RepairItem(identity, args.BenchID, args.ItemID, now))
	})

	r.register("toggle_torch", func(identity string, _ json.RawMessage, now time.Time) (any, error) {
		return nil, wrap(r.state.ToggleTorch(identity, now))
	})

	r.register("toggle_flashlight", func(identity string, _ json.RawMessage, now time.Time) (any, error) {
		return nil, wrap(r.state.ToggleFlashlight(identity, now))
	})

	r.register("toggle_headlamp", func(identity string, _ json.RawMessage, now time.Time) (any, error) {
		return nil, wrap(r.state.ToggleHeadlamp(identity, now))
	})

	r.register("toggle_snorkel", func(identity string, _ json.RawMessage, now time.Time) (any, error) {
		return nil, wrap(r.state.ToggleSnorkel(identity, now))
	})

	r.register("attack_melee", func(identity string, _ json.RawMessage, now time.Time) (any, error) {
		hit, err := r.state.AttackMelee(identity, now)
		if err != nil {
			return nil, wrap(err)
		}
		return map[string]bool{"hit": hit}, nil
	})

	r.register("fire_projectile", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[fireProjectileArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		id, err := r.state.FireProjectile(identity, geometry.Vec{X: args.X, Y: args.Y}, now)
		if err != nil {
			return nil, wrap(err)
		}
		return map[string]uint64{"projectile_id": id}, nil
	})
}
