package world

import (
	"testing"
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
	"github.com/pixil98/go-testutil"
)

func (e *testEnv) setDayOfYear(day int) {
	s := e.state
	s.mu.Lock()
	s.clock.DayOfYear = day
	s.mu.Unlock()
}

func (e *testEnv) seedByID(t *testing.T, id uint64) *PlantedSeed {
	t.Helper()
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()
	seed, ok := s.seeds[id]
	if !ok {
		t.Fatalf("seed %d does not exist", id)
	}
	return seed
}

func (e *testEnv) resourceCount(defID string) int {
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.resources {
		if r.DefID == defID {
			n++
		}
	}
	return n
}

func TestPlantSeedConsumesAndSpaces(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")

	seeds := e.give(t, "alice", "carrot-seeds", 2)
	p, err := e.state.Player("alice")
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	spot := p.Pos.Add(vec(40, 0))

	id, err := e.state.PlantSeed("alice", seeds, spot, t0)
	if err != nil {
		t.Fatalf("planting: %v", err)
	}
	testutil.AssertEqual(t, "seeds left", e.item(t, seeds).Quantity, uint32(1))
	testutil.AssertEqual(t, "growth schedule", e.sched.hasPeriodic(schedPlantGrowth, 0), true)
	testutil.AssertEqual(t, "seed tracked", e.seedByID(t, id).SpeciesID, "carrot")

	// A second seed cannot go in the same dirt.
	_, err = e.state.PlantSeed("alice", seeds, spot.Add(vec(5, 0)), t0)
	testutil.AssertErrorContains(t, err, "too close to another plant")
	e.assertInvariants(t)
}

func TestPlantSeedRejectsNonSeed(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")

	wood := e.give(t, "alice", "wood", 1)
	p, err := e.state.Player("alice")
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	_, err = e.state.PlantSeed("alice", wood, p.Pos.Add(vec(40, 0)), t0)
	testutil.AssertErrorContains(t, err, "cannot be planted")
}

func TestPlantMaturesIntoHarvestableResource(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	if err := e.state.DebugSetTime("noon"); err != nil {
		t.Fatalf("setting noon: %v", err)
	}

	seeds := e.give(t, "alice", "carrot-seeds", 1)
	p, err := e.state.Player("alice")
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	if _, err := e.state.PlantSeed("alice", seeds, p.Pos.Add(vec(40, 0)), t0); err != nil {
		t.Fatalf("planting: %v", err)
	}

	// Noon daylight grows a 600 second crop in 400 wall seconds.
	if err := e.state.CheckPlantGrowth(testModule, t0.Add(600*time.Second)); err != nil {
		t.Fatalf("growth sweep: %v", err)
	}

	testutil.AssertEqual(t, "carrots grown", e.resourceCount("carrot"), 1)
	testutil.AssertEqual(t, "schedule released", e.sched.hasPeriodic(schedPlantGrowth, 0), false)

	s := e.state
	s.mu.Lock()
	var resID uint64
	for id := range s.resources {
		resID = id
	}
	s.mu.Unlock()
	if err := e.state.HarvestResource("alice", resID, t0.Add(601*time.Second)); err != nil {
		t.Fatalf("harvesting: %v", err)
	}
	s.mu.Lock()
	held := s.countHeldLocked("alice", "carrot")
	s.mu.Unlock()
	testutil.AssertEqual(t, "yield", held, uint32(3))
	e.assertInvariants(t)
}

func TestOutOfSeasonPlantGoesDormant(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")

	seeds := e.give(t, "alice", "carrot-seeds", 1)
	p, err := e.state.Player("alice")
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	id, err := e.state.PlantSeed("alice", seeds, p.Pos.Add(vec(40, 0)), t0)
	if err != nil {
		t.Fatalf("planting: %v", err)
	}

	// Carrots do not grow in winter.
	e.setDayOfYear(300)
	if err := e.state.CheckPlantGrowth(testModule, t0.Add(time.Minute)); err != nil {
		t.Fatalf("growth sweep: %v", err)
	}

	seed := e.seedByID(t, id)
	testutil.AssertEqual(t, "dormant", seed.Dormant, true)
	testutil.AssertEqual(t, "progress", seed.GrowthProgress, 0.0)
}

func TestFertilizerAppliesOnce(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")

	seeds := e.give(t, "alice", "carrot-seeds", 1)
	p, err := e.state.Player("alice")
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	id, err := e.state.PlantSeed("alice", seeds, p.Pos.Add(vec(40, 0)), t0)
	if err != nil {
		t.Fatalf("planting: %v", err)
	}

	fert := e.give(t, "alice", "fertilizer", 2)
	if err := e.state.ApplyFertilizer("alice", id, fert, t0); err != nil {
		t.Fatalf("fertilizing: %v", err)
	}
	testutil.AssertEqual(t, "fertilizer left", e.item(t, fert).Quantity, uint32(1))

	err = e.state.ApplyFertilizer("alice", id, fert, t0.Add(time.Minute))
	testutil.AssertErrorContains(t, err, "already fertilized")
	e.assertInvariants(t)
}

func TestLitCampfireProtectsNearbyTree(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")

	p, err := e.state.Player("alice")
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	treePos := p.Pos.Add(vec(-100, 0))
	e.growTreeAt(t, treePos)

	s := e.state
	s.mu.Lock()
	var treeID uint64
	for id := range s.resources {
		treeID = id
	}
	s.mu.Unlock()

	// The campfire sits within its protection radius of the tree.
	e.lightCampfire(t, "alice")
	err = e.state.HarvestResource("alice", treeID, t0)
	testutil.AssertErrorContains(t, err, "keeping this tree safe")
}

func TestSeasonalSweepCullsWildPlantsNotTrees(t *testing.T) {
	e := newTestState(t)

	s := e.state
	s.mu.Lock()
	wildID := s.allocID()
	s.resources[wildID] = &Resource{
		ID: wildID, Pos: vec(500, 500), Chunk: geometry.ChunkIndex(vec(500, 500)),
		DefID: "carrot", Quantity: 2, SpeciesID: "carrot",
	}
	treeID := s.allocID()
	s.resources[treeID] = &Resource{
		ID: treeID, Pos: vec(700, 500), Chunk: geometry.ChunkIndex(vec(700, 500)),
		DefID: "wood", Quantity: 20, SpeciesID: "oak", Tree: true,
	}
	s.mu.Unlock()

	e.setDayOfYear(300)
	if err := e.state.ManageSeasonalPlants(testModule, t0); err != nil {
		t.Fatalf("seasonal sweep: %v", err)
	}

	testutil.AssertEqual(t, "wild plant culled", e.resourceCount("carrot"), 0)
	testutil.AssertEqual(t, "tree spared", e.resourceCount("wood"), 1)
}

func TestSeasonChangeRestocksWildPlants(t *testing.T) {
	e := newTestState(t)

	// Same season: the sweep leaves the flora alone.
	if err := e.state.ManageSeasonalPlants(testModule, t0); err != nil {
		t.Fatalf("seasonal sweep: %v", err)
	}
	testutil.AssertEqual(t, "nothing sprouted", e.resourceCount("glowcap"), 0)

	// Winter arrives; glowcaps are the only species in season.
	e.setDayOfYear(300)
	if err := e.state.ManageSeasonalPlants(testModule, t0.Add(5*time.Minute)); err != nil {
		t.Fatalf("seasonal sweep: %v", err)
	}
	testutil.AssertEqual(t, "first batch", e.resourceCount("glowcap"), 10)

	// The restock keeps running for a few sweeps after the change.
	if err := e.state.ManageSeasonalPlants(testModule, t0.Add(10*time.Minute)); err != nil {
		t.Fatalf("seasonal sweep: %v", err)
	}
	testutil.AssertEqual(t, "second batch", e.resourceCount("glowcap"), 20)
}

func TestNightStopsCropGrowth(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")

	seeds := e.give(t, "alice", "carrot-seeds", 1)
	p, err := e.state.Player("alice")
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	id, err := e.state.PlantSeed("alice", seeds, p.Pos.Add(vec(40, 0)), t0)
	if err != nil {
		t.Fatalf("planting: %v", err)
	}

	if err := e.state.DebugSetTime("midnight"); err != nil {
		t.Fatalf("setting midnight: %v", err)
	}
	if err := e.state.CheckPlantGrowth(testModule, t0.Add(30*time.Second)); err != nil {
		t.Fatalf("growth sweep: %v", err)
	}

	seed := e.seedByID(t, id)
	testutil.AssertEqual(t, "dormant", seed.Dormant, true)
	testutil.AssertEqual(t, "progress", seed.GrowthProgress, 0.0)
}

func TestMushroomsGrowInTheDark(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")

	spores := e.give(t, "alice", "glowcap-spores", 1)
	p, err := e.state.Player("alice")
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	id, err := e.state.PlantSeed("alice", spores, p.Pos.Add(vec(40, 0)), t0)
	if err != nil {
		t.Fatalf("planting: %v", err)
	}

	if err := e.state.DebugSetTime("midnight"); err != nil {
		t.Fatalf("setting midnight: %v", err)
	}
	if err := e.state.CheckPlantGrowth(testModule, t0.Add(30*time.Second)); err != nil {
		t.Fatalf("growth sweep: %v", err)
	}

	seed := e.seedByID(t, id)
	testutil.AssertEqual(t, "dormant", seed.Dormant, false)
	if seed.GrowthProgress <= 0 {
		t.Errorf("progress = %f, want growth in the dark", seed.GrowthProgress)
	}
}

func TestGreenRuneFieldPinsGrowth(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	e.addZone("green_rune_grove", vec(2500, 1000), 100)

	seeds := e.give(t, "alice", "carrot-seeds", 1)
	p, err := e.state.Player("alice")
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	id, err := e.state.PlantSeed("alice", seeds, p.Pos.Add(vec(40, 0)), t0)
	if err != nil {
		t.Fatalf("planting: %v", err)
	}

	// Midnight would stop a carrot cold; inside the field it grows at
	// double rate regardless.
	if err := e.state.DebugSetTime("midnight"); err != nil {
		t.Fatalf("setting midnight: %v", err)
	}
	if err := e.state.CheckPlantGrowth(testModule, t0.Add(30*time.Second)); err != nil {
		t.Fatalf("growth sweep: %v", err)
	}

	seed := e.seedByID(t, id)
	testutil.AssertEqual(t, "progress", seed.GrowthProgress, 60.0)
}

func TestCrowdingPenaltiesStack(t *testing.T) {
	e := newTestState(t)
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()

	seed := &PlantedSeed{ID: 1, Pos: vec(1000, 1000)}
	s.seeds[1] = seed

	testutil.AssertEqual(t, "alone", s.crowdingFactorLocked(seed), 1.0)

	s.seeds[2] = &PlantedSeed{ID: 2, Pos: vec(1025, 1000)}
	testutil.AssertEqual(t, "one near neighbor", s.crowdingFactorLocked(seed), 1-0.7)

	// A second neighbor pushes the summed penalty past the cap.
	s.seeds[3] = &PlantedSeed{ID: 3, Pos: vec(1000, 1040)}
	testutil.AssertEqual(t, "capped", s.crowdingFactorLocked(seed), 1-0.9)
}

func TestCloudShadowSlowsCrops(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	if err := e.state.DebugSetTime("noon"); err != nil {
		t.Fatalf("setting noon: %v", err)
	}

	seeds := e.give(t, "alice", "carrot-seeds", 1)
	p, err := e.state.Player("alice")
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	spot := p.Pos.Add(vec(40, 0))
	id, err := e.state.PlantSeed("alice", seeds, spot, t0)
	if err != nil {
		t.Fatalf("planting: %v", err)
	}

	s := e.state
	s.mu.Lock()
	cid := s.allocID()
	s.clouds[cid] = &Cloud{
		ID: cid, Pos: spot, HalfW: 800, HalfH: 800, Opacity: 1,
		ExpiresAt: t0.Add(time.Hour),
	}
	s.mu.Unlock()

	if err := e.state.CheckPlantGrowth(testModule, t0.Add(100*time.Second)); err != nil {
		t.Fatalf("growth sweep: %v", err)
	}

	// Full overcast cuts the noon rate of 1.5 down to 0.6.
	seed := e.seedByID(t, id)
	if got := seed.GrowthProgress; got < 55 || got > 65 {
		t.Errorf("progress = %f, want about 60 under full overcast", got)
	}
}
