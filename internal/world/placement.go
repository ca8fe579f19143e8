package world

import (
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
	"github.com/pixil98/go-survival/internal/items"
)

// Interaction and placement reach, in world pixels.
const (
	maxInteractDistance  = 150.0
	maxPlacementDistance = 200.0
)

// Minimum spacing between free-standing placed entities.
const pointEntityRadius = 40.0

// Starting health per placed kind. Walls and foundations go in as twig
// and earn their durability through upgrades.
const (
	boxHealth      = 500.0
	campfireHealth = 200.0
	furnaceHealth  = 500.0
	lanternHealth  = 150.0
	shelterHealth  = 500.0
)

// placementItemLocked validates the common part of every placement: the
// caller holds the item, the item places the requested kind, the spot is
// in reach, on buildable ground, outside monument zones, and not inside a
// shelter the caller has no business in.
func (s *State) placementItemLocked(p *Player, itemID uint64, places string, pos geometry.Vec) (*items.Instance, error) {
	it, err := s.playerItem(p.Identity, itemID)
	if err != nil {
		return nil, err
	}
	def, err := s.definition(it.DefID)
	if err != nil {
		return nil, err
	}
	if def.Places != places {
		return nil, Errorf(ErrInvariant, "%s does not place a %s", def.Name, places)
	}
	if !geometry.WithinRange(p.Pos, pos, maxPlacementDistance) {
		return nil, Errorf(ErrPrecondition, "too far away to build there")
	}
	if s.tiles.TileAt(pos).BlocksPlacement() {
		return nil, Errorf(ErrSpatialConflict, "cannot build on this ground")
	}
	if geometry.InAnyZone(s.zones, pos) {
		return nil, Errorf(ErrSpatialConflict, "cannot build inside a monument zone")
	}
	if err := s.interactionGateLocked(p, pos); err != nil {
		return nil, err
	}
	return it, nil
}

// consumePlacedLocked spends one unit of the placing item.
func (s *State) consumePlacedLocked(it *items.Instance) {
	if it.Quantity > 1 {
		it.Quantity--
		return
	}
	s.removeItemLocked(it)
}

// pointEntityConflictLocked reports whether another free-standing entity
// crowds the spot.
func (s *State) pointEntityConflictLocked(pos geometry.Vec) bool {
	near := func(other geometry.Vec) bool {
		return geometry.WithinRange(pos, other, pointEntityRadius*2)
	}
	for _, b := range s.boxes {
		if !b.Destroyed && near(b.Pos) {
			return true
		}
	}
	for _, cf := range s.campfires {
		if !cf.Destroyed && near(cf.Pos) {
			return true
		}
	}
	for _, f := range s.furnaces {
		if !f.Destroyed && near(f.Pos) {
			return true
		}
	}
	for _, l := range s.lanterns {
		if !l.Destroyed && near(l.Pos) {
			return true
		}
	}
	for _, sh := range s.shelters {
		if !sh.Destroyed && near(sh.Pos) {
			return true
		}
	}
	return false
}

// cellsNearFoundationLocked reports whether any live foundation sits
// within the given number of grid cells of the position's cell.
func (s *State) cellsNearFoundationLocked(pos geometry.Vec, cells int) bool {
	cx, cy := geometry.CellForPosition(pos)
	for _, f := range s.foundations {
		if f.Destroyed {
			continue
		}
		dx, dy := f.CellX-cx, f.CellY-cy
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		if dx <= cells && dy <= cells {
			return true
		}
	}
	return false
}

// shelterOverlapLocked reports whether a shelter anchored at pos would
// overlap an existing shelter's interior.
func (s *State) shelterOverlapLocked(pos geometry.Vec) bool {
	dims := s.shelterDims()
	incoming := Shelter{Placeable: Placeable{Pos: pos}}
	a := incoming.Bounds(dims)
	for _, sh := range s.shelters {
		if sh.Destroyed {
			continue
		}
		if a.Intersects(sh.Bounds(dims)) {
			return true
		}
	}
	return false
}

// PlaceFoundation claims a free grid cell at the caller's build tier
// floor.
func (s *State) PlaceFoundation(identity string, itemID uint64, cellX, cellY int, now time.Time) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return 0, err
	}
	pos := geometry.CellCenter(cellX, cellY)
	it, err := s.placementItemLocked(p, itemID, "foundation", pos)
	if err != nil {
		return 0, err
	}
	if s.foundationAtLocked(cellX, cellY) != nil {
		return 0, Errorf(ErrSpatialConflict, "a foundation already claims this cell")
	}
	for _, sh := range s.shelters {
		if !sh.Destroyed && s.cellNearShelterLocked(cellX, cellY, sh) {
			return 0, Errorf(ErrSpatialConflict, "too close to a shelter")
		}
	}

	s.consumePlacedLocked(it)
	f := &Foundation{
		Placeable: newPlaceable(s.allocID(), pos, identity, s.tierHealth(TierTwig), now),
		CellX:     cellX,
		CellY:     cellY,
		Tier:      TierTwig,
	}
	s.foundations[f.Placeable.ID] = f
	s.emitSoundLocked(SoundPlace, pos, now)
	return f.Placeable.ID, nil
}

// cellNearShelterLocked reports whether a grid cell sits within two cells
// of a shelter anchor.
func (s *State) cellNearShelterLocked(cellX, cellY int, sh *Shelter) bool {
	sx, sy := geometry.CellForPosition(sh.Pos)
	dx, dy := sx-cellX, sy-cellY
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= 2 && dy <= 2
}

// PlaceWall puts a wall on a free grid edge. Walls and fences share the
// edge namespace, so either blocks the other.
func (s *State) PlaceWall(identity string, itemID uint64, cellX, cellY int, edge geometry.Edge, now time.Time) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return 0, err
	}
	pos := geometry.EdgeCenter(cellX, cellY, edge)
	it, err := s.placementItemLocked(p, itemID, "wall", pos)
	if err != nil {
		return 0, err
	}
	if s.edgeOccupiedLocked(cellX, cellY, edge) {
		return 0, Errorf(ErrSpatialConflict, "this edge is already occupied")
	}

	s.consumePlacedLocked(it)
	w := &Wall{
		Placeable: newPlaceable(s.allocID(), pos, identity, s.tierHealth(TierTwig), now),
		CellX:     cellX,
		CellY:     cellY,
		Edge:      edge,
		Tier:      TierTwig,
	}
	s.walls[w.Placeable.ID] = w
	s.emitSoundLocked(SoundPlace, pos, now)
	return w.Placeable.ID, nil
}

// PlaceFence puts a fence on a free grid edge.
func (s *State) PlaceFence(identity string, itemID uint64, cellX, cellY int, edge geometry.Edge, now time.Time) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return 0, err
	}
	pos := geometry.EdgeCenter(cellX, cellY, edge)
	it, err := s.placementItemLocked(p, itemID, "fence", pos)
	if err != nil {
		return 0, err
	}
	if s.edgeOccupiedLocked(cellX, cellY, edge) {
		return 0, Errorf(ErrSpatialConflict, "this edge is already occupied")
	}

	s.consumePlacedLocked(it)
	f := &Fence{
		Placeable: newPlaceable(s.allocID(), pos, identity, s.tierHealth(TierTwig), now),
		CellX:     cellX,
		CellY:     cellY,
		Edge:      edge,
		Tier:      TierTwig,
	}
	s.fences[f.Placeable.ID] = f
	s.emitSoundLocked(SoundPlace, pos, now)
	return f.Placeable.ID, nil
}

// PlaceShelter anchors a shelter. Its interior must not overlap another
// shelter, and it keeps clear of the foundation grid.
func (s *State) PlaceShelter(identity string, itemID uint64, pos geometry.Vec, now time.Time) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return 0, err
	}
	it, err := s.placementItemLocked(p, itemID, "shelter", pos)
	if err != nil {
		return 0, err
	}
	if s.shelterOverlapLocked(pos) {
		return 0, Errorf(ErrSpatialConflict, "overlaps another shelter")
	}
	if s.cellsNearFoundationLocked(pos, 2) {
		return 0, Errorf(ErrSpatialConflict, "too close to a foundation")
	}
	if s.pointEntityConflictLocked(pos) {
		return 0, Errorf(ErrSpatialConflict, "something is in the way")
	}

	s.consumePlacedLocked(it)
	variant := "grass"
	if tile := s.tiles.TileAt(pos); tile == geometry.TileBeach || tile == geometry.TileSand {
		variant = "beach"
	}
	sh := &Shelter{
		Placeable:      newPlaceable(s.allocID(), pos, identity, shelterHealth, now),
		TerrainVariant: variant,
	}
	s.shelters[sh.Placeable.ID] = sh
	s.emitSoundLocked(SoundPlace, pos, now)
	return sh.Placeable.ID, nil
}

// boxTypeForPlaces maps a placement kind to the box variant it creates.
func boxTypeForPlaces(places string) (BoxType, bool) {
	switch places {
	case "storage_box":
		return BoxNormal, true
	case "large_storage_box":
		return BoxLarge, true
	case "refrigerator":
		return BoxRefrigerator, true
	case "repair_bench":
		return BoxRepairBench, true
	}
	return 0, false
}

// PlaceStorageBox places any box variant; the item's placement kind picks
// the variant.
func (s *State) PlaceStorageBox(identity string, itemID uint64, pos geometry.Vec, now time.Time) (uint64, error) {
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
	def, err := s.definition(it.DefID)
	if err != nil {
		return 0, err
	}
	bt, ok := boxTypeForPlaces(def.Places)
	if !ok {
		return 0, Errorf(ErrInvariant, "%s does not place a storage box", def.Name)
	}
	if _, err := s.placementItemLocked(p, itemID, def.Places, pos); err != nil {
		return 0, err
	}
	if s.pointEntityConflictLocked(pos) {
		return 0, Errorf(ErrSpatialConflict, "something is in the way")
	}

	s.consumePlacedLocked(it)
	b := &Box{
		Placeable: newPlaceable(s.allocID(), pos, identity, boxHealth, now),
		Type:      bt,
		Slots:     make([]Slot, s.boxSlots(bt)),
	}
	s.boxes[b.Placeable.ID] = b
	s.emitSoundLocked(SoundPlace, pos, now)
	return b.Placeable.ID, nil
}

// PlaceCampfire sets down an unlit campfire.
func (s *State) PlaceCampfire(identity string, itemID uint64, pos geometry.Vec, now time.Time) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return 0, err
	}
	it, err := s.placementItemLocked(p, itemID, "campfire", pos)
	if err != nil {
		return 0, err
	}
	if s.pointEntityConflictLocked(pos) {
		return 0, Errorf(ErrSpatialConflict, "something is in the way")
	}

	s.consumePlacedLocked(it)
	cf := &Campfire{Appliance: s.newApplianceLocked(identity, pos, campfireHealth, schedCampfire, now)}
	s.campfires[cf.Placeable.ID] = cf
	s.emitSoundLocked(SoundPlace, pos, now)
	return cf.Placeable.ID, nil
}

// PlaceFurnace sets down an unlit furnace.
func (s *State) PlaceFurnace(identity string, itemID uint64, pos geometry.Vec, now time.Time) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return 0, err
	}
	it, err := s.placementItemLocked(p, itemID, "furnace", pos)
	if err != nil {
		return 0, err
	}
	if s.pointEntityConflictLocked(pos) {
		return 0, Errorf(ErrSpatialConflict, "something is in the way")
	}

	s.consumePlacedLocked(it)
	f := &Furnace{Appliance: s.newApplianceLocked(identity, pos, furnaceHealth, schedFurnace, now)}
	s.furnaces[f.Placeable.ID] = f
	s.emitSoundLocked(SoundPlace, pos, now)
	return f.Placeable.ID, nil
}

// PlaceLantern sets down an unlit lantern.
func (s *State) PlaceLantern(identity string, itemID uint64, pos geometry.Vec, now time.Time) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return 0, err
	}
	it, err := s.placementItemLocked(p, itemID, "lantern", pos)
	if err != nil {
		return 0, err
	}
	if s.pointEntityConflictLocked(pos) {
		return 0, Errorf(ErrSpatialConflict, "something is in the way")
	}

	s.consumePlacedLocked(it)
	l := &Lantern{
		Placeable: newPlaceable(s.allocID(), pos, identity, lanternHealth, now),
		Slots:     make([]Slot, s.tun.Lantern.FuelSlots),
	}
	s.lanterns[l.Placeable.ID] = l
	s.emitSoundLocked(SoundPlace, pos, now)
	return l.Placeable.ID, nil
}
