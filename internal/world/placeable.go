package world

import (
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
)

// Placeable is the shared shape of every placed entity.
type Placeable struct {
	ID       uint64
	Pos      geometry.Vec
	Chunk    uint32
	Owner    string
	PlacedAt time.Time

	Health    float64
	MaxHealth float64

	Destroyed   bool
	DestroyedAt time.Time
	LastHitAt   time.Time
	LastHitBy   string
}

func newPlaceable(id uint64, pos geometry.Vec, owner string, health float64, now time.Time) Placeable {
	return Placeable{
		ID:        id,
		Pos:       pos,
		Chunk:     geometry.ChunkIndex(pos),
		Owner:     owner,
		PlacedAt:  now,
		Health:    health,
		MaxHealth: health,
	}
}

// Tier is the build quality of a grid structure.
type Tier uint8

const (
	TierTwig Tier = iota
	TierWood
	TierStone
	TierMetal
)

func (t Tier) String() string {
	switch t {
	case TierTwig:
		return "twig"
	case TierWood:
		return "wood"
	case TierStone:
		return "stone"
	case TierMetal:
		return "metal"
	}
	return "unknown"
}

// ParseTier maps a wire name onto a tier.
func ParseTier(s string) (Tier, bool) {
	switch s {
	case "twig":
		return TierTwig, true
	case "wood":
		return TierWood, true
	case "stone":
		return TierStone, true
	case "metal":
		return TierMetal, true
	}
	return 0, false
}

func (s *State) tierHealth(t Tier) float64 {
	switch t {
	case TierWood:
		return s.tun.Structures.WoodHealth
	case TierStone:
		return s.tun.Structures.StoneHealth
	case TierMetal:
		return s.tun.Structures.MetalHealth
	}
	return 100
}

// tierCost is what one upgrade step into the tier charges.
var tierCost = map[Tier]struct {
	item string
	qty  uint32
}{
	TierWood:  {"wood", 50},
	TierStone: {"stone", 100},
	TierMetal: {"metal-fragment", 100},
}

type DamageKind uint8

const (
	DamageMelee DamageKind = iota
	DamageExplosive
	DamageProjectile
)

// tierMultiplier is the fraction of damage a tier lets through.
// Explosives bypass the attenuation entirely.
func (s *State) tierMultiplier(t Tier, kind DamageKind) float64 {
	if kind == DamageExplosive {
		return 1
	}
	switch t {
	case TierWood:
		return s.tun.Structures.WoodMeleeFactor
	case TierStone:
		return s.tun.Structures.StoneMeleeFactor
	case TierMetal:
		return s.tun.Structures.MetalMeleeFactor
	}
	return 1
}

// damagePlaceableLocked runs the shared damage state machine. tier is nil
// for untiered kinds. Returns whether the hit landed.
func (s *State) damagePlaceableLocked(pl *Placeable, tier *Tier, monument bool, reapKind string, attacker *Player, amount float64, kind DamageKind, now time.Time) (bool, error) {
	if pl.Destroyed {
		return false, nil
	}
	if monument {
		return false, Errorf(ErrStateConflict, "monument structures are indestructible")
	}

	// Raiding gate: damaging another player's structure needs mutual PvP
	// opt-in; otherwise the hit lands with no effect.
	if attacker.Identity != pl.Owner {
		owner, err := s.player(pl.Owner)
		if err == nil && !(attacker.PvPEnabled && owner.PvPEnabled) {
			return false, nil
		}
	}

	mult := 1.0
	if tier != nil {
		mult = s.tierMultiplier(*tier, kind)
	}

	pl.Health -= amount * mult
	if pl.Health < 0 {
		pl.Health = 0
	}
	pl.LastHitAt = now
	pl.LastHitBy = attacker.Identity

	if pl.Health == 0 {
		s.markDestroyedLocked(pl, reapKind, now)
	} else {
		s.emitSoundLocked(SoundHit, pl.Pos, now)
	}
	return true, nil
}

// markDestroyedLocked flips the entity into its terminal state. The row
// survives one more tick so observers see the transition; the reap
// schedule deletes it.
func (s *State) markDestroyedLocked(pl *Placeable, reapKind string, now time.Time) {
	pl.Destroyed = true
	pl.DestroyedAt = now
	s.emitSoundLocked(SoundDestroy, pl.Pos, now)
	s.sched.ScheduleOnce(reapKind, pl.ID, now.Add(time.Second))
}

// Schedule kinds. The scheduler fires the matching maintenance reducer
// with the entity id.
const (
	schedCampfire       = "campfire"
	schedFurnace        = "furnace"
	schedLantern        = "lantern"
	schedReapWall       = "reap_wall"
	schedReapFence      = "reap_fence"
	schedReapFoundation = "reap_foundation"
	schedReapShelter    = "reap_shelter"
	schedReapBox        = "reap_box"
	schedReapCampfire   = "reap_campfire"
	schedReapFurnace    = "reap_furnace"
	schedReapLantern    = "reap_lantern"
)

// ReapDestroyed removes an entity that was marked destroyed a tick ago.
// Items inside a reaped container are destroyed with it.
func (s *State) ReapDestroyed(caller, kind string, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireModule(caller); err != nil {
		return err
	}

	switch kind {
	case schedReapWall:
		if w, ok := s.walls[id]; ok && w.Destroyed {
			delete(s.walls, id)
		}
	case schedReapFence:
		if f, ok := s.fences[id]; ok && f.Destroyed {
			delete(s.fences, id)
		}
	case schedReapFoundation:
		if f, ok := s.foundations[id]; ok && f.Destroyed {
			delete(s.foundations, id)
		}
	case schedReapShelter:
		if sh, ok := s.shelters[id]; ok && sh.Destroyed {
			delete(s.shelters, id)
		}
	case schedReapBox:
		if b, ok := s.boxes[id]; ok && b.Destroyed {
			s.destroyContainerContentsLocked(b)
			delete(s.boxes, id)
		}
	case schedReapCampfire:
		if cf, ok := s.campfires[id]; ok && cf.Destroyed {
			s.destroyContainerContentsLocked(cf)
			s.stopContinuousLocked(campfireSoundOffset + id)
			s.sched.Cancel(schedCampfire, id)
			delete(s.campfires, id)
		}
	case schedReapFurnace:
		if f, ok := s.furnaces[id]; ok && f.Destroyed {
			s.destroyContainerContentsLocked(f)
			s.stopContinuousLocked(furnaceSoundOffset + id)
			s.sched.Cancel(schedFurnace, id)
			delete(s.furnaces, id)
		}
	case schedReapLantern:
		if l, ok := s.lanterns[id]; ok && l.Destroyed {
			s.destroyContainerContentsLocked(l)
			s.stopContinuousLocked(lanternSoundOffset + id)
			s.sched.Cancel(schedLantern, id)
			delete(s.lanterns, id)
		}
	default:
		return Errorf(ErrNotFound, "unknown reap kind %q", kind)
	}
	return nil
}

// destroyContainerContentsLocked deletes every item whose location points
// at the container. Deleting item-before-slot keeps the cache and table
// consistent within the mutation.
func (s *State) destroyContainerContentsLocked(c Container) {
	for i := 0; i < c.NumSlots(); i++ {
		sl := c.GetSlot(i)
		if sl.Empty() {
			continue
		}
		if it, ok := s.items[sl.InstanceID]; ok {
			s.deleteItemLocked(it)
		}
		c.SetSlot(i, Slot{})
	}
}

// canRepairLocked enforces the combat lockout: a structure recently hit
// by someone other than its owner cannot be patched up mid-raid.
func (s *State) canRepairLocked(pl *Placeable, now time.Time) error {
	lockout := time.Duration(s.tun.Structures.RepairLockoutSecs * float64(time.Second))
	if pl.LastHitBy != "" && pl.LastHitBy != pl.Owner && now.Sub(pl.LastHitAt) < lockout {
		return Errorf(ErrStateConflict, "recently damaged in combat")
	}
	return nil
}

// repairPlaceableLocked restores health by one repair-tool hit.
func (s *State) repairPlaceableLocked(pl *Placeable, now time.Time) error {
	if pl.Destroyed {
		return Errorf(ErrStateConflict, "cannot repair a destroyed structure")
	}
	if pl.Health >= pl.MaxHealth {
		return Errorf(ErrStateConflict, "already at full health")
	}
	if err := s.canRepairLocked(pl, now); err != nil {
		return err
	}

	pl.Health += s.tun.Structures.RepairPerHit
	if pl.Health > pl.MaxHealth {
		pl.Health = pl.MaxHealth
	}
	s.emitSoundLocked(SoundRepair, pl.Pos, now)
	return nil
}
