package world

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
	"github.com/pixil98/go-survival/internal/items"
	"github.com/pixil98/go-survival/internal/tuning"
)

const testModule = "survival-core"

func vec(x, y float64) geometry.Vec { return geometry.Vec{X: x, Y: y} }

var t0 = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// memStore is an in-memory catalog for tests.
type memStore[T interface{ Validate() error }] struct {
	m map[string]T
}

func (s *memStore[T]) Save(id string, o T) error { s.m[id] = o; return nil }
func (s *memStore[T]) Get(id string) T           { return s.m[id] }
func (s *memStore[T]) GetAll() map[string]T      { return s.m }

// fakeScheduler records schedule rows so tests can assert on arm/cancel
// behavior.
type fakeScheduler struct {
	mu       sync.Mutex
	periodic map[string]time.Duration
	once     map[string]time.Time
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{
		periodic: map[string]time.Duration{},
		once:     map[string]time.Time{},
	}
}

func schedKey(kind string, id uint64) string {
	return fmt.Sprintf("%s/%d", kind, id)
}

func (f *fakeScheduler) SchedulePeriodic(kind string, id uint64, every time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.periodic[schedKey(kind, id)] = every
}

func (f *fakeScheduler) ScheduleOnce(kind string, id uint64, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.once[schedKey(kind, id)] = at
}

func (f *fakeScheduler) Cancel(kind string, id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.periodic, schedKey(kind, id))
	delete(f.once, schedKey(kind, id))
}

func (f *fakeScheduler) hasPeriodic(kind string, id uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.periodic[schedKey(kind, id)]
	return ok
}

func testCatalog() *memStore[*items.Definition] {
	return &memStore[*items.Definition]{m: map[string]*items.Definition{
		"wood": {
			Name: "Wood", CategoryStr: "material",
			Stackable: true, StackSize: 50, FuelBurnSecs: 30,
		},
		"stick": {
			Name: "Stick", CategoryStr: "material",
			Stackable: true, StackSize: 50, FuelBurnSecs: 10,
		},
		"stone": {
			Name: "Stone", CategoryStr: "material",
			Stackable: true, StackSize: 50,
		},
		"metal-fragment": {
			Name: "Metal Fragment", CategoryStr: "material",
			Stackable: true, StackSize: 100,
		},
		"charcoal": {
			Name: "Charcoal", CategoryStr: "material",
			Stackable: true, StackSize: 50, FuelBurnSecs: 45,
		},
		"iron-ore": {
			Name: "Iron Ore", CategoryStr: "material",
			Stackable: true, StackSize: 50,
			CookedItem: "metal-fragment", CookTimeSecs: 20,
		},
		"raw-meat": {
			Name: "Raw Meat", CategoryStr: "consumable",
			Stackable: true, StackSize: 10, Perishable: true,
			CookedItem: "cooked-meat", CookTimeSecs: 15,
			Consume: &items.ConsumeEffects{Hunger: 5, Health: -5},
		},
		"cooked-meat": {
			Name: "Cooked Meat", CategoryStr: "consumable",
			Stackable: true, StackSize: 10, Perishable: true, Cooked: true,
			BurntItem: "burnt-meat", CookTimeSecs: 30,
			Consume: &items.ConsumeEffects{Hunger: 40, Health: 5},
		},
		"burnt-meat": {
			Name: "Burnt Meat", CategoryStr: "consumable",
			Stackable: true, StackSize: 10,
			Consume: &items.ConsumeEffects{Hunger: 5},
		},
		"berries": {
			Name: "Berries", CategoryStr: "consumable",
			Stackable: true, StackSize: 20, Perishable: true,
			Consume: &items.ConsumeEffects{Hunger: 10, Thirst: 5},
		},
		"stone-axe": {
			Name: "Stone Axe", CategoryStr: "tool", Breakable: true,
			DamageMin: 8, DamageMax: 14, AttackRange: 70, AttackArcDeg: 90,
			CraftingCost: []items.CostEntry{{Item: "wood", Quantity: 10}, {Item: "stone", Quantity: 5}},
		},
		"spear": {
			Name: "Spear", CategoryStr: "weapon", Breakable: true,
			DamageMin: 10, DamageMax: 20, AttackRange: 90, AttackArcDeg: 60,
			CraftingCost: []items.CostEntry{{Item: "wood", Quantity: 20}},
		},
		"bow": {
			Name: "Bow", CategoryStr: "ranged_weapon", Breakable: true,
			DamageMin: 15, DamageMax: 25, ProjectileSpeed: 500, AmmoItem: "arrow",
		},
		"arrow": {
			Name: "Arrow", CategoryStr: "ammunition",
			Stackable: true, StackSize: 30,
		},
		"torch": {
			Name: "Torch", CategoryStr: "tool", Breakable: true,
		},
		"flashlight": {
			Name: "Flashlight", CategoryStr: "armor",
			Equippable: true, EquipSlotStr: "hands", Breakable: true,
		},
		"headlamp": {
			Name: "Headlamp", CategoryStr: "armor",
			Equippable: true, EquipSlotStr: "head", Breakable: true,
		},
		"leather-cap": {
			Name: "Leather Cap", CategoryStr: "armor",
			Equippable: true, EquipSlotStr: "head",
		},
		"leather-tunic": {
			Name: "Leather Tunic", CategoryStr: "armor",
			Equippable: true, EquipSlotStr: "chest",
		},
		"water-skin": {
			Name: "Water Skin", CategoryStr: "tool", WaterCapacityL: 2,
		},
		"reed-bellows": {
			Name: "Reed Bellows", CategoryStr: "material",
		},
		"fertilizer": {
			Name: "Fertilizer", CategoryStr: "material",
			Stackable: true, StackSize: 20,
		},
		"carrot-seeds": {
			Name: "Carrot Seeds", CategoryStr: "material",
			Stackable: true, StackSize: 20,
		},
		"glowcap-spores": {
			Name: "Glowcap Spores", CategoryStr: "material",
			Stackable: true, StackSize: 20,
		},
		"glowcap": {
			Name: "Glowcap", CategoryStr: "consumable",
			Stackable: true, StackSize: 20, Perishable: true,
			Consume: &items.ConsumeEffects{Hunger: 8},
		},
		"carrot": {
			Name: "Carrot", CategoryStr: "consumable",
			Stackable: true, StackSize: 20, Perishable: true,
			Consume: &items.ConsumeEffects{Hunger: 15},
		},
		"wooden-storage-box": {
			Name: "Wooden Storage Box", CategoryStr: "placeable", Places: "storage_box",
		},
		"large-storage-box": {
			Name: "Large Storage Box", CategoryStr: "placeable", Places: "large_storage_box",
		},
		"refrigerator": {
			Name: "Refrigerator", CategoryStr: "placeable", Places: "refrigerator",
		},
		"repair-bench": {
			Name: "Repair Bench", CategoryStr: "placeable", Places: "repair_bench",
		},
		"campfire-kit": {
			Name: "Campfire", CategoryStr: "placeable", Places: "campfire",
		},
		"furnace-kit": {
			Name: "Furnace", CategoryStr: "placeable", Places: "furnace",
		},
		"lantern-kit": {
			Name: "Lantern", CategoryStr: "placeable", Places: "lantern",
		},
		"shelter-kit": {
			Name: "Shelter", CategoryStr: "placeable", Places: "shelter",
		},
		"foundation-kit": {
			Name: "Foundation", CategoryStr: "placeable", Places: "foundation",
			Stackable: true, StackSize: 10,
		},
		"wall-kit": {
			Name: "Wall", CategoryStr: "placeable", Places: "wall",
			Stackable: true, StackSize: 10,
		},
		"fence-kit": {
			Name: "Fence", CategoryStr: "placeable", Places: "fence",
			Stackable: true, StackSize: 10,
		},
	}}
}

func testSpecies() *memStore[*PlantSpecies] {
	return &memStore[*PlantSpecies]{m: map[string]*PlantSpecies{
		"carrot": {
			Name: "Carrot", SeedItem: "carrot-seeds", YieldItem: "carrot",
			YieldQuantity: 3, BaseGrowthSecs: 600,
			Seasons: []string{"spring", "summer", "autumn"},
		},
		"glowcap": {
			Name: "Glowcap", SeedItem: "glowcap-spores", YieldItem: "glowcap",
			BaseGrowthSecs: 300, Mushroom: true,
		},
		"oak": {
			Name: "Oak", SeedItem: "acorn", YieldItem: "wood",
			YieldQuantity: 20, BaseGrowthSecs: 3600, Tree: true,
		},
	}}
}

type testEnv struct {
	state *State
	sched *fakeScheduler
}

func newTestState(t *testing.T) *testEnv {
	t.Helper()

	sched := newFakeScheduler()
	s := NewState(Config{
		Tuning:         tuning.Default(),
		Definitions:    testCatalog(),
		PlantSpecies:   testSpecies(),
		Scheduler:      sched,
		ModuleIdentity: testModule,
		Seed:           42,
	})
	return &testEnv{state: s, sched: sched}
}

// addPlayer registers a survivor at the origin and primes the clock.
func (e *testEnv) addPlayer(t *testing.T, identity string) {
	t.Helper()
	if err := e.state.RegisterPlayer(identity, geometry.Vec{X: 1000, Y: 1000}); err != nil {
		t.Fatalf("registering %s: %v", identity, err)
	}
}

// give spawns a stack directly into the player's first free slot and
// returns its instance id.
func (e *testEnv) give(t *testing.T, identity, defID string, qty uint32) uint64 {
	t.Helper()
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.firstEmptyPlayerSlot(identity, items.KindInventory)
	if slot < 0 {
		t.Fatalf("no free inventory slot for %s", identity)
	}
	it := s.spawnItemLocked(defID, qty, items.InInventory(identity, slot))
	return it.ID
}

// giveHotbar spawns a stack into a specific hotbar slot.
func (e *testEnv) giveHotbar(t *testing.T, identity, defID string, qty uint32, slot int) uint64 {
	t.Helper()
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if got := s.itemInPlayerSlot(identity, items.KindHotbar, slot); got != nil {
		t.Fatalf("hotbar slot %d already holds item %d", slot, got.ID)
	}
	it := s.spawnItemLocked(defID, qty, items.InHotbar(identity, slot))
	return it.ID
}

func (e *testEnv) item(t *testing.T, id uint64) *items.Instance {
	t.Helper()
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		t.Fatalf("item %d does not exist", id)
	}
	return it
}

func (e *testEnv) itemGone(id uint64) bool {
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	return !ok
}

// placeBoxNear places a storage box next to the player through the real
// placement path.
func (e *testEnv) placeBoxNear(t *testing.T, identity string) uint64 {
	t.Helper()
	kit := e.give(t, identity, "wooden-storage-box", 1)
	p, err := e.state.Player(identity)
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	id, err := e.state.PlaceStorageBox(identity, kit, geometry.Vec{X: p.Pos.X + 50, Y: p.Pos.Y}, t0)
	if err != nil {
		t.Fatalf("placing box: %v", err)
	}
	return id
}

func (e *testEnv) placeCampfireNear(t *testing.T, identity string) uint64 {
	t.Helper()
	kit := e.give(t, identity, "campfire-kit", 1)
	p, err := e.state.Player(identity)
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	id, err := e.state.PlaceCampfire(identity, kit, geometry.Vec{X: p.Pos.X - 60, Y: p.Pos.Y}, t0)
	if err != nil {
		t.Fatalf("placing campfire: %v", err)
	}
	return id
}

func (e *testEnv) assertInvariants(t *testing.T) {
	t.Helper()
	if err := e.state.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}
