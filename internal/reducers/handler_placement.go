package reducers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
	"github.com/pixil98/go-survival/internal/world"
)

type placePointArgs struct {
	ItemID uint64  `json:"item_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type placeCellArgs struct {
	ItemID uint64 `json:"item_id"`
	CellX  int    `json:"cell_x"`
	CellY  int    `json:"cell_y"`
}

type placeEdgeArgs struct {
	ItemID uint64 `json:"item_id"`
	CellX  int    `json:"cell_x"`
	CellY  int    `json:"cell_y"`
	Edge   string `json:"edge"`
}

type entityArgs struct {
	ID uint64 `json:"id"`
}

type upgradeArgs struct {
	ID      uint64 `json:"id"`
	NewTier string `json:"new_tier"`
}

type repairStructureArgs struct {
	Kind string `json:"kind"`
	ID   uint64 `json:"id"`
}

type plantSeedArgs struct {
	ItemID uint64  `json:"item_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type fertilizerArgs struct {
	SeedID uint64 `json:"seed_id"`
	ItemID uint64 `json:"item_id"`
}

func parseEdge(s string) (geometry.Edge, error) {
	switch s {
	case "north":
		return geometry.EdgeNorth, nil
	case "east":
		return geometry.EdgeEast, nil
	case "south":
		return geometry.EdgeSouth, nil
	case "west":
		return geometry.EdgeWest, nil
	}
	return 0, fmt.Errorf("unknown edge %q", s)
}

func parseStructureKind(s string) (world.StructureKind, error) {
	switch k := world.StructureKind(s); k {
	case world.StructWall, world.StructFence, world.StructFoundation,
		world.StructShelter, world.StructBox, world.StructCampfire,
		world.StructFurnace, world.StructLantern:
		return k, nil
	}
	return "", fmt.Errorf("unknown structure kind %q", s)
}

func placed(id uint64, err error) (any, error) {
	if err != nil {
		return nil, wrap(err)
	}
	return map[string]uint64{"id": id}, nil
}

func (r *Registry) registerPlacement() {
	pointPlacers := map[string]func(identity string, itemID uint64, pos geometry.Vec, now time.Time) (uint64, error){
		"place_shelter":            r.state.PlaceShelter,
		"place_wooden_storage_box": r.state.PlaceStorageBox,
		"place_campfire":           r.state.PlaceCampfire,
		"place_furnace":            r.state.PlaceFurnace,
		"place_lantern":            r.state.PlaceLantern,
	}
	for name, place := range pointPlacers {
		place := place
		r.register(name, func(identity string, raw json.RawMessage, now time.Time) (any, error) {
			args, err := decode[placePointArgs](raw)
			if err != nil {
				return nil, badArgs(err)
			}
			return placed(place(identity, args.ItemID, geometry.Vec{X: args.X, Y: args.Y}, now))
		})
	}

	r.register("place_foundation", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[placeCellArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return placed(r.state.PlaceFoundation(identity, args.ItemID, args.CellX, args.CellY, now))
	})

	edgePlacers := map[string]func(identity string, itemID uint64, cellX, cellY int, edge geometry.Edge, now time.Time) (uint64, error){
		"place_wall":  r.state.PlaceWall,
		"place_fence": r.state.PlaceFence,
	}
	for name, place := range edgePlacers {
		place := place
		r.register(name, func(identity string, raw json.RawMessage, now time.Time) (any, error) {
			args, err := decode[placeEdgeArgs](raw)
			if err != nil {
				return nil, badArgs(err)
			}
			edge, err := parseEdge(args.Edge)
			if err != nil {
				return nil, badArgs(err)
			}
			return placed(place(identity, args.ItemID, args.CellX, args.CellY, edge, now))
		})
	}

	upgraders := map[string]func(identity string, id uint64, want world.Tier, now time.Time) error{
		"upgrade_foundation": r.state.UpgradeFoundation,
		"upgrade_wall":       r.state.UpgradeWall,
		"upgrade_fence":      r.state.UpgradeFence,
	}
	for name, upgrade := range upgraders {
		upgrade := upgrade
		r.register(name, func(identity string, raw json.RawMessage, now time.Time) (any, error) {
			args, err := decode[upgradeArgs](raw)
			if err != nil {
				return nil, badArgs(err)
			}
			tier, ok := world.ParseTier(args.NewTier)
			if !ok {
				return nil, badArgs(fmt.Errorf("unknown tier %q", args.NewTier))
			}
			return nil, wrap(upgrade(identity, args.ID, tier, now))
		})
	}

	r.register("destroy_fence", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[entityArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.DestroyFence(identity, args.ID, now))
	})

	r.register("pickup_storage_box", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[entityArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.PickupStorageBox(identity, args.ID, now))
	})

	r.register("repair_structure", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[repairStructureArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		kind, err := parseStructureKind(args.Kind)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.RepairStructure(identity, kind, args.ID, now))
	})

	r.register("plant_seed", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[plantSeedArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return placed(r.state.PlantSeed(identity, args.ItemID, geometry.Vec{X: args.X, Y: args.Y}, now))
	})

	r.register("apply_fertilizer", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[fertilizerArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.ApplyFertilizer(identity, args.SeedID, args.ItemID, now))
	})

	r.register("harvest_resource", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[entityArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.HarvestResource(identity, args.ID, now))
	})
}
