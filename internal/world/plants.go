package world

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-survival/internal/geometry"
)

// PlantSpecies is a catalog entry describing what a seed grows into and
// under what conditions.
type PlantSpecies struct {
	Name string `json:"name"`
	// SeedItem is the definition planted to start this species.
	SeedItem string `json:"seed_item"`
	// YieldItem is what the mature plant is harvested for.
	YieldItem     string `json:"yield_item"`
	YieldQuantity uint32 `json:"yield_quantity,omitempty"`

	BaseGrowthSecs float64 `json:"base_growth_secs"`

	// Seasons the species grows in. Empty means all year.
	Seasons []string `json:"seasons,omitempty"`

	// Mushrooms grow in the dark and stall in daylight.
	Mushroom bool `json:"mushroom,omitempty"`
	// BeachOnly species root only in sand.
	BeachOnly bool `json:"beach_only,omitempty"`
	// Trees shield campfires from rain and resist chopping near a lit one.
	Tree bool `json:"tree,omitempty"`
}

func (p *PlantSpecies) Validate() error {
	el := errors.NewErrorList()

	if p.Name == "" {
		el.Add(fmt.Errorf("name must be set"))
	}
	if p.SeedItem == "" {
		el.Add(fmt.Errorf("seed_item must be set"))
	}
	if p.YieldItem == "" {
		el.Add(fmt.Errorf("yield_item must be set"))
	}
	if p.BaseGrowthSecs <= 0 {
		el.Add(fmt.Errorf("base_growth_secs must be positive"))
	}
	for _, ss := range p.Seasons {
		if _, ok := parseSeason(ss); !ok {
			el.Add(fmt.Errorf("unknown season %q", ss))
		}
	}

	return el.Err()
}

func parseSeason(s string) (Season, bool) {
	switch s {
	case "spring":
		return Spring, true
	case "summer":
		return Summer, true
	case "autumn":
		return Autumn, true
	case "winter":
		return Winter, true
	}
	return 0, false
}

// GrowsIn reports whether the species is in season.
func (p *PlantSpecies) GrowsIn(season Season) bool {
	if len(p.Seasons) == 0 {
		return true
	}
	for _, ss := range p.Seasons {
		if sn, ok := parseSeason(ss); ok && sn == season {
			return true
		}
	}
	return false
}

// PlantedSeed is a player-planted crop working toward maturity.
type PlantedSeed struct {
	ID        uint64
	Pos       geometry.Vec
	Chunk     uint32
	Owner     string
	SpeciesID string

	PlantedAt time.Time
	// GrowthProgress is effective growth seconds accumulated so far.
	GrowthProgress   float64
	BaseGrowthSecs   float64
	LastGrowthUpdate time.Time
	// WillMatureAt is a display estimate, re-derived each growth check
	// from the current growth rate.
	WillMatureAt time.Time

	FertilizedAt time.Time
	Dormant      bool
}

// Resource is a harvestable world object: a mature crop, a wild plant, or
// a tree.
type Resource struct {
	ID    uint64
	Pos   geometry.Vec
	Chunk uint32
	// DefID is the item one harvest yields.
	DefID    string
	Quantity uint32
	// SpeciesID is set for grown and wild plants, empty for terrain
	// resources.
	SpeciesID string
	Tree      bool
}

const (
	schedPlantGrowth    = "plant_growth"
	schedSeasonalPlants = "seasonal_plants"

	// Minimum spacing between planted seeds.
	seedSpacingPx = 20.0

	// Fertilizer boosts growth for a window after application.
	fertilizerBoostSecs   = 1800.0
	fertilizerBoostFactor = 1.5

	// A storm drowns a small fraction of crops per check.
	stormDeathChance = 0.01

	// Out-of-season wild plants are culled this many per sweep.
	seasonalCullBatch = 10

	// A season change restocks wild flora over this many sweeps, a
	// bounded batch each.
	seasonalSpawnSweeps = 10
	seasonalSpawnBatch  = 10
	seasonalSpawnTries  = 4

	// Tree canopy close enough to shade a mushroom.
	treeCanopyPx = 100.0

	// The top of the daylight growth scale; the mushroom schedule
	// mirrors around it.
	daylightPeakFactor = 1.5
)

// speciesForSeed finds the species a seed item plants.
func (s *State) speciesForSeedLocked(defID string) (string, *PlantSpecies) {
	for id, sp := range s.species.GetAll() {
		if sp.SeedItem == defID {
			return id, sp
		}
	}
	return "", nil
}

// PlantSeed puts a held seed in the ground.
func (s *State) PlantSeed(identity string, itemID uint64, pos geometry.Vec, now time.Time) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return 0, err
	}
	it, err := s.playerItem(identity, itemID)
	if err != nil {
		return 0, err
	}
	speciesID, sp := s.speciesForSeedLocked(it.DefID)
	if sp == nil {
		return 0, Errorf(ErrInvariant, "that cannot be planted")
	}
	if !geometry.WithinRange(p.Pos, pos, maxPlacementDistance) {
		return 0, Errorf(ErrPrecondition, "too far away to plant there")
	}
	tile := s.tiles.TileAt(pos)
	if tile.IsWater() || tile == geometry.TileAsphalt {
		return 0, Errorf(ErrSpatialConflict, "nothing grows there")
	}
	if sp.BeachOnly && tile != geometry.TileBeach && tile != geometry.TileSand {
		return 0, Errorf(ErrSpatialConflict, "%s only grows in sand", sp.Name)
	}
	if geometry.InAnyZone(s.zones, pos) {
		return 0, Errorf(ErrSpatialConflict, "cannot plant inside a monument zone")
	}
	if err := s.interactionGateLocked(p, pos); err != nil {
		return 0, err
	}
	for _, other := range s.seeds {
		if geometry.WithinRange(pos, other.Pos, seedSpacingPx) {
			return 0, Errorf(ErrSpatialConflict, "too close to another plant")
		}
	}

	if it.Quantity > 1 {
		it.Quantity--
	} else {
		s.removeItemLocked(it)
	}

	seed := &PlantedSeed{
		ID:               s.allocID(),
		Pos:              pos,
		Chunk:            geometry.ChunkIndex(pos),
		Owner:            identity,
		SpeciesID:        speciesID,
		PlantedAt:        now,
		BaseGrowthSecs:   sp.BaseGrowthSecs,
		LastGrowthUpdate: now,
		WillMatureAt:     now.Add(time.Duration(sp.BaseGrowthSecs * float64(time.Second))),
	}
	s.seeds[seed.ID] = seed
	s.emitSoundLocked(SoundPlace, pos, now)

	tick := time.Duration(s.tun.Plants.GrowthCheckSecs * float64(time.Second))
	s.sched.SchedulePeriodic(schedPlantGrowth, 0, tick)
	return seed.ID, nil
}

// ApplyFertilizer speeds a planted seed up for a while.
func (s *State) ApplyFertilizer(identity string, seedID, itemID uint64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	seed, ok := s.seeds[seedID]
	if !ok {
		return Errorf(ErrNotFound, "plant %d does not exist", seedID)
	}
	if !geometry.WithinRange(p.Pos, seed.Pos, maxInteractDistance) {
		return Errorf(ErrPrecondition, "too far away")
	}
	it, err := s.playerItem(identity, itemID)
	if err != nil {
		return err
	}
	if it.DefID != "fertilizer" {
		return Errorf(ErrInvariant, "that is not fertilizer")
	}
	boost := time.Duration(fertilizerBoostSecs * float64(time.Second))
	if now.Before(seed.FertilizedAt.Add(boost)) {
		return Errorf(ErrStateConflict, "already fertilized")
	}

	if it.Quantity > 1 {
		it.Quantity--
	} else {
		s.removeItemLocked(it)
	}
	seed.FertilizedAt = now
	s.emitSoundLocked(SoundPlace, seed.Pos, now)
	return nil
}

// daylightGrowthFactor is the time-of-day leg of the growth multiplier.
// Photosynthesis stops entirely in the dark.
func daylightGrowthFactor(phase TimeOfDay) float64 {
	switch phase {
	case Dawn:
		return 0.3
	case TwilightMorning:
		return 0.5
	case Morning:
		return 1.0
	case Noon:
		return 1.5
	case Afternoon:
		return 1.2
	case Dusk:
		return 0.4
	case TwilightEvening:
		return 0.2
	}
	return 0
}

// growthRateLocked composes every environmental factor into a growth
// multiplier for the seed. Zero means no growth this tick.
func (s *State) growthRateLocked(seed *PlantedSeed, sp *PlantSpecies, now time.Time) float64 {
	if !sp.GrowsIn(s.clock.Season()) {
		return 0
	}
	// A green rune stone's field pins growth, whatever the conditions.
	if s.inRuneFieldLocked(greenRunePrefix, seed.Pos) {
		return greenRuneGrowthRate
	}

	// Daylight pushes crops; mushrooms run the same scale in reverse.
	light := daylightGrowthFactor(s.clock.Phase())
	if sp.Mushroom {
		light = daylightPeakFactor - light
	}
	rate := light

	// Rain waters crops until it turns violent.
	switch s.weather.Current {
	case LightRain:
		rate *= 1.3
	case ModerateRain:
		rate *= 1.6
	case HeavyRain:
		rate *= 1.4
	case HeavyStorm:
		rate *= 0.8
	}

	// Cloud shadow dims crops; mushrooms prefer it.
	cloud := s.cloudCoverFactorLocked(seed.Pos)
	if sp.Mushroom {
		cloud = 1.4 - cloud
	}
	rate *= cloud

	rate *= s.lightSourceFactorLocked(seed.Pos)
	rate *= s.crowdingFactorLocked(seed)

	if s.shelterContainingLocked(seed.Pos) != nil {
		rate *= 0.1
	}
	if sp.Mushroom {
		rate *= s.mushroomBonusLocked(seed.Pos)
	}
	if now.Before(seed.FertilizedAt.Add(time.Duration(fertilizerBoostSecs * float64(time.Second)))) {
		rate *= fertilizerBoostFactor
	}
	return rate
}

// lightSourceFactorLocked folds nearby artificial light into growth:
// fire heat scorches, lantern light extends the day.
func (s *State) lightSourceFactorLocked(pos geometry.Vec) float64 {
	effect := 0.0
	if s.campfireHeatNearLocked(pos) {
		effect -= 0.4
	}
	if s.lanternLightAtLocked(pos) {
		effect += 0.8
	}
	f := 1 + effect
	if f < 0.2 {
		return 0.2
	}
	if f > 2.0 {
		return 2.0
	}
	return f
}

// mushroomBonusLocked favors fungi under tree canopy and in the dark:
// the average of the two legs applies, capped at 2.
func (s *State) mushroomBonusLocked(pos geometry.Vec) float64 {
	tree, night := 1.0, 1.0
	for _, r := range s.resources {
		if r.Tree && geometry.WithinRange(pos, r.Pos, treeCanopyPx) {
			tree = 2.0
			break
		}
	}
	if s.clock.Phase().IsDark() {
		night = 2.0
	}
	bonus := (tree + night) / 2
	if bonus > 2.0 {
		bonus = 2.0
	}
	return bonus
}

func (s *State) campfireHeatNearLocked(pos geometry.Vec) bool {
	for _, cf := range s.campfires {
		if cf.Burning && !cf.Destroyed && geometry.WithinRange(pos, cf.Pos, s.tun.Plants.CampfireHeatPx) {
			return true
		}
	}
	return false
}

// crowdingFactorLocked sums per-neighbor penalties over three distance
// rings; packed plants choke each other down to a tenth of their rate.
func (s *State) crowdingFactorLocked(seed *PlantedSeed) float64 {
	penalty := 0.0
	apply := func(pos geometry.Vec) {
		switch {
		case geometry.WithinRange(seed.Pos, pos, s.tun.Plants.CrowdNearPx):
			penalty += 0.7
		case geometry.WithinRange(seed.Pos, pos, s.tun.Plants.CrowdMidPx):
			penalty += 0.4
		case geometry.WithinRange(seed.Pos, pos, s.tun.Plants.CrowdFarPx):
			penalty += 0.15
		}
	}
	for _, other := range s.seeds {
		if other.ID != seed.ID {
			apply(other.Pos)
		}
	}
	for _, r := range s.resources {
		if r.SpeciesID != "" {
			apply(r.Pos)
		}
	}
	if penalty > 0.9 {
		penalty = 0.9
	}
	return 1 - penalty
}

// CheckPlantGrowth is the scheduled sweep that advances every planted
// seed and matures the finished ones.
func (s *State) CheckPlantGrowth(caller string, now time.Time) error {
	if err := s.requireModule(caller); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, seed := range s.seeds {
		sp := s.species.Get(seed.SpeciesID)
		if sp == nil {
			delete(s.seeds, id)
			continue
		}

		dt := now.Sub(seed.LastGrowthUpdate).Seconds()
		seed.LastGrowthUpdate = now
		if dt <= 0 {
			continue
		}

		if s.weather.Current == HeavyStorm && s.rng.Float64() < stormDeathChance {
			delete(s.seeds, id)
			continue
		}

		rate := s.growthRateLocked(seed, sp, now)
		seed.Dormant = rate == 0
		if seed.Dormant {
			continue
		}

		seed.GrowthProgress += dt * rate
		if seed.GrowthProgress >= seed.BaseGrowthSecs {
			s.matureSeedLocked(seed, sp)
			continue
		}
		remaining := (seed.BaseGrowthSecs - seed.GrowthProgress) / rate
		seed.WillMatureAt = now.Add(time.Duration(remaining * float64(time.Second)))
	}

	if len(s.seeds) == 0 {
		s.sched.Cancel(schedPlantGrowth, 0)
	}
	return nil
}

func (s *State) matureSeedLocked(seed *PlantedSeed, sp *PlantSpecies) {
	qty := sp.YieldQuantity
	if qty == 0 {
		qty = 1
	}
	r := &Resource{
		ID:        s.allocID(),
		Pos:       seed.Pos,
		Chunk:     seed.Chunk,
		DefID:     sp.YieldItem,
		Quantity:  qty,
		SpeciesID: seed.SpeciesID,
		Tree:      sp.Tree,
	}
	s.resources[r.ID] = r
	delete(s.seeds, seed.ID)
}

// HarvestResource picks a mature or wild plant, handing its yield to the
// caller.
func (s *State) HarvestResource(identity string, resourceID uint64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	r, ok := s.resources[resourceID]
	if !ok {
		return Errorf(ErrNotFound, "resource %d does not exist", resourceID)
	}
	if !geometry.WithinRange(p.Pos, r.Pos, maxInteractDistance) {
		return Errorf(ErrPrecondition, "too far away")
	}
	if r.Tree && s.treeProtectedLocked(r.Pos) {
		return Errorf(ErrStateConflict, "the fire is keeping this tree safe")
	}
	if err := s.interactionGateLocked(p, r.Pos); err != nil {
		return err
	}

	s.giveItemLocked(p, r.DefID, r.Quantity)
	delete(s.resources, resourceID)
	s.emitSoundLocked(SoundHit, r.Pos, now)
	return nil
}

// treeProtectedLocked reports whether a lit campfire is guarding the tree.
func (s *State) treeProtectedLocked(pos geometry.Vec) bool {
	for _, cf := range s.campfires {
		if cf.Burning && !cf.Destroyed && geometry.WithinRange(pos, cf.Pos, s.tun.Campfire.TreeProtectionPx) {
			return true
		}
	}
	return false
}

// ManageSeasonalPlants is the slow sweep that turns the flora over with
// the calendar: out-of-season wild plants are culled and, after a season
// change, in-season ones sprout back, a bounded batch per run.
func (s *State) ManageSeasonalPlants(caller string, now time.Time) error {
	if err := s.requireModule(caller); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	season := s.clock.Season()
	if season != s.seasonSeen {
		s.seasonSeen = season
		s.seasonalSpawnsLeft = seasonalSpawnSweeps
	}

	culled := 0
	for id, r := range s.resources {
		if culled >= seasonalCullBatch {
			break
		}
		if r.SpeciesID == "" || r.Tree {
			continue
		}
		sp := s.species.Get(r.SpeciesID)
		if sp == nil || sp.GrowsIn(season) {
			continue
		}
		delete(s.resources, id)
		culled++
	}

	if s.seasonalSpawnsLeft > 0 {
		s.seasonalSpawnsLeft--
		s.spawnSeasonalBatchLocked(season)
	}
	return nil
}

// spawnSeasonalBatchLocked scatters a batch of wild in-season plants.
// Water, asphalt, and monument zones stay bare; beach species only land
// in sand.
func (s *State) spawnSeasonalBatchLocked(season Season) {
	var pool []string
	var specs []*PlantSpecies
	for id, sp := range s.species.GetAll() {
		if !sp.Tree && sp.GrowsIn(season) {
			pool = append(pool, id)
			specs = append(specs, sp)
		}
	}
	if len(pool) == 0 {
		return
	}

	worldPx := float64(geometry.WorldWidthTiles * geometry.TileSizePx)
	for n := 0; n < seasonalSpawnBatch; n++ {
		i := s.rng.Intn(len(pool))
		sp := specs[i]
		for try := 0; try < seasonalSpawnTries; try++ {
			pos := geometry.Vec{X: s.rng.Float64() * worldPx, Y: s.rng.Float64() * worldPx}
			tile := s.tiles.TileAt(pos)
			if tile.BlocksPlacement() {
				continue
			}
			if sp.BeachOnly && tile != geometry.TileBeach && tile != geometry.TileSand {
				continue
			}
			if geometry.InAnyZone(s.zones, pos) {
				continue
			}
			qty := sp.YieldQuantity
			if qty == 0 {
				qty = 1
			}
			r := &Resource{
				ID:        s.allocID(),
				Pos:       pos,
				Chunk:     geometry.ChunkIndex(pos),
				DefID:     sp.YieldItem,
				Quantity:  qty,
				SpeciesID: pool[i],
			}
			s.resources[r.ID] = r
			break
		}
	}
}
