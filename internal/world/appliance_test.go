package world

import (
	"testing"
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
	"github.com/pixil98/go-survival/internal/items"
	"github.com/pixil98/go-testutil"
)

// runCampfire advances a lit campfire through n one-second burn ticks.
func (e *testEnv) runCampfire(t *testing.T, id uint64, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		at := t0.Add(time.Duration(i) * time.Second)
		if err := e.state.ProcessCampfire(testModule, id, at); err != nil {
			t.Fatalf("burn tick %d: %v", i, err)
		}
	}
}

func (e *testEnv) runFurnace(t *testing.T, id uint64, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		at := t0.Add(time.Duration(i) * time.Second)
		if err := e.state.ProcessFurnace(testModule, id, at); err != nil {
			t.Fatalf("smelt tick %d: %v", i, err)
		}
	}
}

func (e *testEnv) placeFurnaceNear(t *testing.T, identity string) uint64 {
	t.Helper()
	kit := e.give(t, identity, "furnace-kit", 1)
	p, err := e.state.Player(identity)
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	id, err := e.state.PlaceFurnace(identity, kit, p.Pos.Add(vec(120, 0)), t0)
	if err != nil {
		t.Fatalf("placing furnace: %v", err)
	}
	return id
}

func (e *testEnv) loadSlot(t *testing.T, identity string, kind items.ContainerKind, id uint64, slot int, defID string, qty uint32) uint64 {
	t.Helper()
	item := e.give(t, identity, defID, qty)
	if err := e.state.MoveItemToContainerSlot(identity, kind, id, slot, item, t0); err != nil {
		t.Fatalf("loading %s into slot %d: %v", defID, slot, err)
	}
	return item
}

func TestLightingArmsTheBurnSchedule(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	id := e.lightCampfire(t, "alice")

	testutil.AssertEqual(t, "schedule armed", e.sched.hasPeriodic(schedCampfire, id), true)

	if err := e.state.ToggleBurning("alice", items.ContainerCampfire, id, t0); err != nil {
		t.Fatalf("snuffing: %v", err)
	}
	testutil.AssertEqual(t, "burning", e.campfireBurning(t, id), false)
	// Wood still sits in a slot, so the tick stays armed.
	testutil.AssertEqual(t, "schedule stays armed", e.sched.hasPeriodic(schedCampfire, id), true)
}

func TestLoadingFuelArmsTheSchedule(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	id := e.placeCampfireNear(t, "alice")

	testutil.AssertEqual(t, "idle", e.sched.hasPeriodic(schedCampfire, id), false)
	e.loadSlot(t, "alice", items.ContainerCampfire, id, 0, "wood", 1)
	testutil.AssertEqual(t, "armed", e.sched.hasPeriodic(schedCampfire, id), true)
}

func TestBurningConsumesFuelOneUnitAtATime(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	id := e.lightCampfire(t, "alice") // loads 10 wood into fuel slot 0

	e.runCampfire(t, id, 1)

	s := e.state
	s.mu.Lock()
	cf := s.campfires[id]
	sl := cf.Slots[0]
	it := s.items[sl.InstanceID]
	s.mu.Unlock()
	if it == nil {
		t.Fatal("fuel stack vanished")
	}
	testutil.AssertEqual(t, "wood left", it.Quantity, uint32(9))
	testutil.AssertEqual(t, "still burning", e.campfireBurning(t, id), true)
	e.assertInvariants(t)
}

func TestFireGoesOutWhenFuelRunsDry(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	id := e.placeCampfireNear(t, "alice")

	// One stick burns for ten seconds.
	e.loadSlot(t, "alice", items.ContainerCampfire, id, 0, "stick", 1)
	if err := e.state.ToggleBurning("alice", items.ContainerCampfire, id, t0); err != nil {
		t.Fatalf("lighting: %v", err)
	}

	e.runCampfire(t, id, 20)
	testutil.AssertEqual(t, "burning", e.campfireBurning(t, id), false)
	testutil.AssertEqual(t, "schedule canceled", e.sched.hasPeriodic(schedCampfire, id), false)
	e.assertInvariants(t)
}

func TestCookingTransformsLastUnitInPlace(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	id := e.lightCampfire(t, "alice")

	meat := e.loadSlot(t, "alice", items.ContainerCampfire, id, 1, "raw-meat", 1)

	// Raw meat cooks in fifteen seconds.
	e.runCampfire(t, id, 15)

	testutil.AssertEqual(t, "definition", e.item(t, meat).DefID, "cooked-meat")
	testutil.AssertEqual(t, "quantity", e.item(t, meat).Quantity, uint32(1))
	e.assertInvariants(t)
}

func TestCookingPeelsOneUnitOffAStack(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	id := e.lightCampfire(t, "alice")

	meat := e.loadSlot(t, "alice", items.ContainerCampfire, id, 1, "raw-meat", 3)

	e.runCampfire(t, id, 15)

	testutil.AssertEqual(t, "raw left", e.item(t, meat).Quantity, uint32(2))

	s := e.state
	s.mu.Lock()
	cf := s.campfires[id]
	var cooked *Slot
	for i := range cf.Slots {
		if cf.Slots[i].DefID == "cooked-meat" {
			sl := cf.Slots[i]
			cooked = &sl
			break
		}
	}
	s.mu.Unlock()
	if cooked == nil {
		t.Fatal("cooked meat never landed in a slot")
	}
	e.assertInvariants(t)
}

func TestCookedFoodLeftOnTheFireBurns(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	id := e.lightCampfire(t, "alice")

	meat := e.loadSlot(t, "alice", items.ContainerCampfire, id, 1, "cooked-meat", 1)

	// Cooked meat ruins after thirty more seconds on the heat.
	e.runCampfire(t, id, 30)
	testutil.AssertEqual(t, "definition", e.item(t, meat).DefID, "burnt-meat")
	e.assertInvariants(t)
}

func TestFurnaceSmeltsOreAndLeavesCharcoal(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	id := e.placeFurnaceNear(t, "alice")

	e.loadSlot(t, "alice", items.ContainerFurnace, id, 0, "wood", 40)
	ore := e.loadSlot(t, "alice", items.ContainerFurnace, id, 1, "iron-ore", 1)

	if err := e.state.ToggleBurning("alice", items.ContainerFurnace, id, t0); err != nil {
		t.Fatalf("lighting: %v", err)
	}

	// Enough ticks to smelt the ore and burn through many wood units; a
	// spent unit leaves charcoal three times out of four.
	e.runFurnace(t, id, 700)

	testutil.AssertEqual(t, "smelted", e.item(t, ore).DefID, "metal-fragment")

	s := e.state
	s.mu.Lock()
	charcoal := false
	for _, it := range s.items {
		if it.DefID == "charcoal" {
			charcoal = true
			break
		}
	}
	s.mu.Unlock()
	testutil.AssertEqual(t, "charcoal produced", charcoal, true)
	e.assertInvariants(t)
}

func TestBellowsAttachOnce(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	id := e.placeCampfireNear(t, "alice")

	bellows := e.give(t, "alice", "reed-bellows", 1)
	if err := e.state.AttachBellows("alice", items.ContainerCampfire, id, bellows, t0); err != nil {
		t.Fatalf("attaching: %v", err)
	}
	testutil.AssertEqual(t, "bellows consumed", e.itemGone(bellows), true)

	s := e.state
	s.mu.Lock()
	has := s.campfires[id].HasBellows
	s.mu.Unlock()
	testutil.AssertEqual(t, "fitted", has, true)

	again := e.give(t, "alice", "reed-bellows", 1)
	err := e.state.AttachBellows("alice", items.ContainerCampfire, id, again, t0)
	testutil.AssertErrorContains(t, err, "bellows")
	e.assertInvariants(t)
}

// addZone drops a monument zone into the world directly.
func (e *testEnv) addZone(name string, center geometry.Vec, radius float64) {
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zones = append(s.zones, geometry.MonumentZone{Name: name, Center: center, Radius: radius})
}

func TestApplianceSlotsAreUniform(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	id := e.lightCampfire(t, "alice")

	s := e.state
	s.mu.Lock()
	slots := len(s.campfires[id].Slots)
	s.mu.Unlock()
	testutil.AssertEqual(t, "slots", slots, 5)

	// Any slot takes work; the last one cooks just as well as the first.
	meat := e.loadSlot(t, "alice", items.ContainerCampfire, id, 4, "raw-meat", 1)
	e.runCampfire(t, id, 15)
	testutil.AssertEqual(t, "definition", e.item(t, meat).DefID, "cooked-meat")
	e.assertInvariants(t)
}

func TestFuelBurnsFromAnySlot(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	id := e.placeCampfireNear(t, "alice")

	wood := e.loadSlot(t, "alice", items.ContainerCampfire, id, 3, "wood", 2)
	if err := e.state.ToggleBurning("alice", items.ContainerCampfire, id, t0); err != nil {
		t.Fatalf("lighting: %v", err)
	}
	e.runCampfire(t, id, 1)
	testutil.AssertEqual(t, "wood left", e.item(t, wood).Quantity, uint32(1))
	testutil.AssertEqual(t, "burning", e.campfireBurning(t, id), true)
	e.assertInvariants(t)
}

func TestBellowsStretchesEachFuelUnit(t *testing.T) {
	woodLeftAfter45s := func(withBellows bool) uint32 {
		e := newTestState(t)
		e.addPlayer(t, "alice")
		id := e.placeCampfireNear(t, "alice")
		if withBellows {
			bellows := e.give(t, "alice", "reed-bellows", 1)
			if err := e.state.AttachBellows("alice", items.ContainerCampfire, id, bellows, t0); err != nil {
				t.Fatalf("attaching: %v", err)
			}
		}
		e.loadSlot(t, "alice", items.ContainerCampfire, id, 0, "wood", 10)
		if err := e.state.ToggleBurning("alice", items.ContainerCampfire, id, t0); err != nil {
			t.Fatalf("lighting: %v", err)
		}
		e.runCampfire(t, id, 45)

		s := e.state
		s.mu.Lock()
		defer s.mu.Unlock()
		it := s.items[s.campfires[id].Slots[0].InstanceID]
		if it == nil {
			t.Fatal("fuel stack vanished")
		}
		return it.Quantity
	}

	// Forty-five seconds eats into a second plain wood unit; a fanned fire
	// is still on its first.
	testutil.AssertEqual(t, "plain wood left", woodLeftAfter45s(false), uint32(8))
	testutil.AssertEqual(t, "fanned wood left", woodLeftAfter45s(true), uint32(9))
}

func TestRedRuneFieldSpeedsTheFurnace(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	id := e.placeFurnaceNear(t, "alice")
	e.addZone("red_rune_east", vec(2500, 1000), 100)

	e.loadSlot(t, "alice", items.ContainerFurnace, id, 0, "wood", 10)
	ore := e.loadSlot(t, "alice", items.ContainerFurnace, id, 1, "iron-ore", 1)
	if err := e.state.ToggleBurning("alice", items.ContainerFurnace, id, t0); err != nil {
		t.Fatalf("lighting: %v", err)
	}

	// Iron ore smelts in twenty seconds; inside the field it takes ten.
	e.runFurnace(t, id, 10)
	testutil.AssertEqual(t, "smelted", e.item(t, ore).DefID, "metal-fragment")
	e.assertInvariants(t)
}

func TestGreenRuneFieldSpeedsTheCampfire(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	id := e.lightCampfire(t, "alice")
	e.addZone("green_rune_west", vec(2500, 1000), 100)

	meat := e.loadSlot(t, "alice", items.ContainerCampfire, id, 1, "raw-meat", 1)

	// Raw meat cooks in fifteen seconds; inside the field, eight ticks do.
	e.runCampfire(t, id, 8)
	testutil.AssertEqual(t, "definition", e.item(t, meat).DefID, "cooked-meat")
	e.assertInvariants(t)
}

func TestSnuffingDropsTheBurningPiece(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	id := e.lightCampfire(t, "alice")

	e.runCampfire(t, id, 1)
	if err := e.state.ToggleBurning("alice", items.ContainerCampfire, id, t0.Add(2*time.Second)); err != nil {
		t.Fatalf("snuffing: %v", err)
	}

	s := e.state
	s.mu.Lock()
	cf := s.campfires[id]
	fuelDef, remaining := cf.FuelDefID, cf.FuelRemaining
	s.mu.Unlock()
	testutil.AssertEqual(t, "fuel def", fuelDef, "")
	testutil.AssertEqual(t, "fuel remaining", remaining, 0.0)
	e.assertInvariants(t)
}
