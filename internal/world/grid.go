package world

import (
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
	"github.com/pixil98/go-survival/internal/items"
)

// Foundation claims a cell of the build grid.
type Foundation struct {
	Placeable
	CellX, CellY int
	Tier         Tier
	Monument     bool
}

// Wall sits on one edge of a grid cell. The shared edge between adjacent
// cells is the same physical edge.
type Wall struct {
	Placeable
	CellX, CellY int
	Edge         geometry.Edge
	Tier         Tier
	Monument     bool
}

// Fence is a barrier on a grid edge. Fences and walls compete for the
// same edges.
type Fence struct {
	Placeable
	CellX, CellY int
	Edge         geometry.Edge
	Tier         Tier
	Monument     bool
}

// wallOnEdgeLocked finds the wall occupying a physical edge, checking the
// adjacent cell's representation of the same edge.
func (s *State) wallOnEdgeLocked(cellX, cellY int, e geometry.Edge) *Wall {
	ox, oy, oe := e.Opposite(cellX, cellY)
	for _, w := range s.walls {
		if w.Destroyed {
			continue
		}
		if (w.CellX == cellX && w.CellY == cellY && w.Edge == e) ||
			(w.CellX == ox && w.CellY == oy && w.Edge == oe) {
			return w
		}
	}
	return nil
}

func (s *State) fenceOnEdgeLocked(cellX, cellY int, e geometry.Edge) *Fence {
	ox, oy, oe := e.Opposite(cellX, cellY)
	for _, f := range s.fences {
		if f.Destroyed {
			continue
		}
		if (f.CellX == cellX && f.CellY == cellY && f.Edge == e) ||
			(f.CellX == ox && f.CellY == oy && f.Edge == oe) {
			return f
		}
	}
	return nil
}

// edgeOccupiedLocked reports whether any barrier already claims the edge.
func (s *State) edgeOccupiedLocked(cellX, cellY int, e geometry.Edge) bool {
	return s.wallOnEdgeLocked(cellX, cellY, e) != nil || s.fenceOnEdgeLocked(cellX, cellY, e) != nil
}

func (s *State) foundationAtLocked(cellX, cellY int) *Foundation {
	for _, f := range s.foundations {
		if !f.Destroyed && f.CellX == cellX && f.CellY == cellY {
			return f
		}
	}
	return nil
}

// nextTier returns the upgrade step above the current tier.
func nextTier(t Tier) (Tier, bool) {
	switch t {
	case TierTwig:
		return TierWood, true
	case TierWood:
		return TierStone, true
	case TierStone:
		return TierMetal, true
	}
	return t, false
}

// upgradeTierLocked charges the step cost and rescales health in
// proportion to the damage already taken, never below one point. The
// requested tier must be exactly one step up.
func (s *State) upgradeTierLocked(p *Player, pl *Placeable, tier *Tier, want Tier, now time.Time) error {
	if pl.Destroyed {
		return Errorf(ErrStateConflict, "cannot upgrade a destroyed structure")
	}
	if pl.Owner != p.Identity {
		return Errorf(ErrAuthorization, "only the owner can upgrade a structure")
	}
	if !geometry.WithinRange(p.Pos, pl.Pos, maxInteractDistance) {
		return Errorf(ErrPrecondition, "too far away")
	}
	next, ok := nextTier(*tier)
	if !ok {
		return Errorf(ErrStateConflict, "already at the highest tier")
	}
	if want != next {
		return Errorf(ErrPrecondition, "can only upgrade from %s to %s", *tier, next)
	}
	if err := s.canRepairLocked(pl, now); err != nil {
		return err
	}

	cost := tierCost[next]
	if err := s.takeCostLocked(p, []items.CostEntry{{Item: cost.item, Quantity: cost.qty}}); err != nil {
		s.emitSoundLocked(SoundError, p.Pos, now)
		return err
	}

	frac := pl.Health / pl.MaxHealth
	*tier = next
	pl.MaxHealth = s.tierHealth(next)
	pl.Health = pl.MaxHealth * frac
	if pl.Health < 1 {
		pl.Health = 1
	}
	s.emitSoundLocked(SoundPlace, pl.Pos, now)
	return nil
}

// UpgradeWall raises a wall one tier.
func (s *State) UpgradeWall(identity string, id uint64, want Tier, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	w, ok := s.walls[id]
	if !ok || w.Destroyed {
		return Errorf(ErrNotFound, "wall %d does not exist", id)
	}
	if w.Monument {
		return Errorf(ErrStateConflict, "monument structures cannot be changed")
	}
	return s.upgradeTierLocked(p, &w.Placeable, &w.Tier, want, now)
}

// UpgradeFence raises a fence one tier.
func (s *State) UpgradeFence(identity string, id uint64, want Tier, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	f, ok := s.fences[id]
	if !ok || f.Destroyed {
		return Errorf(ErrNotFound, "fence %d does not exist", id)
	}
	if f.Monument {
		return Errorf(ErrStateConflict, "monument structures cannot be changed")
	}
	return s.upgradeTierLocked(p, &f.Placeable, &f.Tier, want, now)
}

// UpgradeFoundation raises a foundation one tier.
func (s *State) UpgradeFoundation(identity string, id uint64, want Tier, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	f, ok := s.foundations[id]
	if !ok || f.Destroyed {
		return Errorf(ErrNotFound, "foundation %d does not exist", id)
	}
	if f.Monument {
		return Errorf(ErrStateConflict, "monument structures cannot be changed")
	}
	return s.upgradeTierLocked(p, &f.Placeable, &f.Tier, want, now)
}

// DestroyFence lets the owner tear down their own fence immediately. No
// materials come back.
func (s *State) DestroyFence(identity string, id uint64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	f, ok := s.fences[id]
	if !ok || f.Destroyed {
		return Errorf(ErrNotFound, "fence %d does not exist", id)
	}
	if f.Monument {
		return Errorf(ErrStateConflict, "monument structures cannot be changed")
	}
	if f.Owner != p.Identity {
		return Errorf(ErrAuthorization, "only the owner can tear down a fence")
	}
	if !geometry.WithinRange(p.Pos, f.Pos, maxInteractDistance) {
		return Errorf(ErrPrecondition, "too far away")
	}

	delete(s.fences, id)
	s.emitSoundLocked(SoundDestroy, f.Pos, now)
	return nil
}

// StructureKind names a damageable placed entity for the damage and
// repair entry points.
type StructureKind string

const (
	StructWall       StructureKind = "wall"
	StructFence      StructureKind = "fence"
	StructFoundation StructureKind = "foundation"
	StructShelter    StructureKind = "shelter"
	StructBox        StructureKind = "box"
	StructCampfire   StructureKind = "campfire"
	StructFurnace    StructureKind = "furnace"
	StructLantern    StructureKind = "lantern"
)

// structureRef resolves a structure into the pieces the shared damage
// machinery works on.
func (s *State) structureRefLocked(kind StructureKind, id uint64) (*Placeable, *Tier, bool, string, error) {
	switch kind {
	case StructWall:
		if w, ok := s.walls[id]; ok {
			return &w.Placeable, &w.Tier, w.Monument, schedReapWall, nil
		}
	case StructFence:
		if f, ok := s.fences[id]; ok {
			return &f.Placeable, &f.Tier, f.Monument, schedReapFence, nil
		}
	case StructFoundation:
		if f, ok := s.foundations[id]; ok {
			return &f.Placeable, &f.Tier, f.Monument, schedReapFoundation, nil
		}
	case StructShelter:
		if sh, ok := s.shelters[id]; ok {
			return &sh.Placeable, nil, false, schedReapShelter, nil
		}
	case StructBox:
		if b, ok := s.boxes[id]; ok {
			return &b.Placeable, nil, false, schedReapBox, nil
		}
	case StructCampfire:
		if cf, ok := s.campfires[id]; ok {
			return &cf.Placeable, nil, false, schedReapCampfire, nil
		}
	case StructFurnace:
		if f, ok := s.furnaces[id]; ok {
			return &f.Placeable, nil, false, schedReapFurnace, nil
		}
	case StructLantern:
		if l, ok := s.lanterns[id]; ok {
			return &l.Placeable, nil, false, schedReapLantern, nil
		}
	default:
		return nil, nil, false, "", Errorf(ErrInvariant, "unknown structure kind %q", kind)
	}
	return nil, nil, false, "", Errorf(ErrNotFound, "%s %d does not exist", kind, id)
}

// DamageStructure applies one hit to a placed entity.
func (s *State) DamageStructure(identity string, kind StructureKind, id uint64, amount float64, dmg DamageKind, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return false, err
	}
	pl, tier, monument, reapKind, err := s.structureRefLocked(kind, id)
	if err != nil {
		return false, err
	}
	if !geometry.WithinRange(p.Pos, pl.Pos, maxInteractDistance) {
		return false, Errorf(ErrPrecondition, "too far away")
	}
	landed, err := s.damagePlaceableLocked(pl, tier, monument, reapKind, p, amount, dmg, now)
	if err != nil {
		return false, err
	}
	if landed && pl.Destroyed {
		switch kind {
		case StructCampfire:
			if cf, ok := s.campfires[id]; ok && cf.Burning {
				s.extinguishLocked(&cf.Appliance, now)
			}
		case StructFurnace:
			if f, ok := s.furnaces[id]; ok && f.Burning {
				s.extinguishLocked(&f.Appliance, now)
			}
		case StructLantern:
			if l, ok := s.lanterns[id]; ok && l.Burning {
				l.Burning = false
				s.stopContinuousLocked(lanternSoundOffset + id)
				s.ensureLanternScheduleLocked(l)
			}
		}
	}
	return landed, nil
}

// RepairStructure patches up the caller's own structure by one tool hit.
func (s *State) RepairStructure(identity string, kind StructureKind, id uint64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	pl, _, monument, _, err := s.structureRefLocked(kind, id)
	if err != nil {
		return err
	}
	if monument {
		return Errorf(ErrStateConflict, "monument structures cannot be changed")
	}
	if pl.Owner != p.Identity {
		return Errorf(ErrAuthorization, "only the owner can repair a structure")
	}
	if !geometry.WithinRange(p.Pos, pl.Pos, maxInteractDistance) {
		return Errorf(ErrPrecondition, "too far away")
	}
	return s.repairPlaceableLocked(pl, now)
}
