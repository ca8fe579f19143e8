package world

import (
	"time"

	"github.com/pixil98/go-survival/internal/combat"
	"github.com/pixil98/go-survival/internal/geometry"
	"github.com/pixil98/go-survival/internal/items"
)

const schedViperSpittle = "viper_spittle"

// Half-thickness of the blocking volume a wall or fence presents.
const barrierHalfDepthPx = 4.0

// Projectile is an in-flight ranged attack, player arrows and viper
// spittle alike.
type Projectile struct {
	ID    uint64
	Owner string
	// Hostile projectiles come from creatures and only hurt players.
	Hostile bool

	Pos geometry.Vec
	Vel geometry.Vec

	DamageMin float64
	DamageMax float64

	FiredAt   time.Time
	ExpiresAt time.Time
	LastMove  time.Time
}

// barrierBounds is the blocking volume of a wall or fence edge.
func barrierBounds(cellX, cellY int, e geometry.Edge) geometry.AABB {
	center := geometry.EdgeCenter(cellX, cellY, e)
	half := geometry.FoundationTileSizePx / 2
	if e == geometry.EdgeNorth || e == geometry.EdgeSouth {
		return geometry.AABBAround(center, half, barrierHalfDepthPx)
	}
	return geometry.AABBAround(center, barrierHalfDepthPx, half)
}

// blockingVolumesLocked collects everything a strike can be stopped by:
// shelter interiors, walls, and fences.
func (s *State) blockingVolumesLocked() []geometry.AABB {
	dims := s.shelterDims()
	var vols []geometry.AABB
	for _, sh := range s.shelters {
		if !sh.Destroyed {
			vols = append(vols, sh.Bounds(dims))
		}
	}
	for _, w := range s.walls {
		if !w.Destroyed {
			vols = append(vols, barrierBounds(w.CellX, w.CellY, w.Edge))
		}
	}
	for _, f := range s.fences {
		if !f.Destroyed {
			vols = append(vols, barrierBounds(f.CellX, f.CellY, f.Edge))
		}
	}
	return vols
}

// activeWeaponLocked resolves the caller's wielded weapon, bare hands
// when nothing usable is held.
func (s *State) activeWeaponLocked(p *Player) (*items.Instance, *items.Definition) {
	it, ok := s.items[p.ActiveItem]
	if !ok {
		return nil, nil
	}
	def, err := s.definition(it.DefID)
	if err != nil {
		return nil, nil
	}
	return it, def
}

// Bare-handed swing numbers.
const (
	fistDamageMin = 2.0
	fistDamageMax = 5.0
	fistRangePx   = 60.0
	fistArcDeg    = 90.0
)

// AttackMelee swings at the nearest player inside the weapon arc. The
// swing happens regardless; whether anything is hit comes back to the
// caller.
func (s *State) AttackMelee(identity string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return false, err
	}

	dmgMin, dmgMax := fistDamageMin, fistDamageMax
	reach, arc := fistRangePx, fistArcDeg
	weapon, def := s.activeWeaponLocked(p)
	if def != nil && (def.Category() == items.CategoryWeapon || def.Category() == items.CategoryTool) {
		if def.Breakable && weapon.Data.Durability() <= 0 {
			return false, Errorf(ErrPrecondition, "%s is broken", def.Name)
		}
		dmgMin, dmgMax = def.DamageMin, def.DamageMax
		if def.AttackRange > 0 {
			reach = def.AttackRange
		}
		if def.AttackArcDeg > 0 {
			arc = def.AttackArcDeg
		}
	} else {
		weapon, def = nil, nil
	}

	vols := s.blockingVolumesLocked()
	var (
		targets   []*Player
		positions []geometry.Vec
	)
	for _, other := range s.players {
		if other.Identity == identity || other.Dead {
			continue
		}
		if !combat.PvPAllowed(p.PvPEnabled, other.PvPEnabled) {
			continue
		}
		if !combat.InArc(p.Pos, p.Facing, other.Pos, reach, arc) {
			continue
		}
		if combat.Blocked(p.Pos, other.Pos, vols) {
			continue
		}
		targets = append(targets, other)
		positions = append(positions, other.Pos)
	}

	if weapon != nil && def.Breakable {
		s.wearWeaponLocked(p, weapon, now)
	}

	idx := combat.Nearest(p.Pos, positions)
	if idx == -1 {
		return false, nil
	}

	dmg := combat.DamageRoll(s.rng, dmgMin, dmgMax)
	s.damagePlayerLocked(targets[idx], dmg, now)
	s.emitSoundLocked(SoundHit, targets[idx].Pos, now)
	return true, nil
}

// wearWeaponLocked takes the per-hit durability off the attacker's
// weapon, breaking it at zero.
func (s *State) wearWeaponLocked(p *Player, weapon *items.Instance, now time.Time) {
	dur := weapon.Data.Durability() - s.tun.Combat.DurabilityPerHit
	if dur < 0 {
		dur = 0
	}
	weapon.Data.SetDurability(dur)
	if dur == 0 {
		s.emitSoundLocked(SoundError, p.Pos, now)
	}
}

// damagePlayerLocked applies a hit to a survivor and handles death.
func (s *State) damagePlayerLocked(target *Player, amount float64, now time.Time) {
	target.Vitals.Apply(-amount, 0, 0, 0)
	target.LastHitAt = now
	if target.Vitals.Health <= 0 {
		target.Dead = true
		target.TorchLit = false
		target.Flashlight = false
		target.Headlamp = false
	}
}

// FireProjectile launches the active ranged weapon toward a point,
// consuming one round of its ammunition.
func (s *State) FireProjectile(identity string, target geometry.Vec, now time.Time) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return 0, err
	}
	weapon, def := s.activeWeaponLocked(p)
	if def == nil || def.Category() != items.CategoryRangedWeapon {
		return 0, Errorf(ErrPrecondition, "hold a ranged weapon to shoot")
	}
	if def.Breakable && weapon.Data.Durability() <= 0 {
		return 0, Errorf(ErrPrecondition, "%s is broken", def.Name)
	}
	if def.AmmoItem != "" {
		ammo := s.findHeldLocked(identity, def.AmmoItem)
		if ammo == nil {
			return 0, Errorf(ErrPrecondition, "out of %s", def.AmmoItem)
		}
		if ammo.Quantity > 1 {
			ammo.Quantity--
		} else {
			s.removeItemLocked(ammo)
		}
	}

	dir := geometry.Vec{X: target.X - p.Pos.X, Y: target.Y - p.Pos.Y}.Normalize()
	speed := def.ProjectileSpeed
	if speed <= 0 {
		speed = 400
	}

	pr := &Projectile{
		ID:        s.allocID(),
		Owner:     identity,
		Pos:       p.Pos,
		Vel:       geometry.Vec{X: dir.X * speed, Y: dir.Y * speed},
		DamageMin: def.DamageMin,
		DamageMax: def.DamageMax,
		FiredAt:   now,
		ExpiresAt: now.Add(5 * time.Second),
		LastMove:  now,
	}
	s.projectiles[pr.ID] = pr

	if def.Breakable {
		s.wearWeaponLocked(p, weapon, now)
	}
	s.sched.SchedulePeriodic(schedViperSpittle, 0, 100*time.Millisecond)
	return pr.ID, nil
}

// findHeldLocked returns any held stack of the definition.
func (s *State) findHeldLocked(identity, defID string) *items.Instance {
	for _, it := range s.items {
		if it.DefID != defID {
			continue
		}
		if owner, ok := it.Location.PlayerBound(); ok && owner == identity {
			return it
		}
	}
	return nil
}

// SpawnViperSpittle launches a hostile projectile. Only the simulation
// module drives this; creatures are not players.
func (s *State) SpawnViperSpittle(caller string, from geometry.Vec, dir geometry.Vec, speed, dmgMin, dmgMax float64, now time.Time) (uint64, error) {
	if err := s.requireModule(caller); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	d := dir.Normalize()
	pr := &Projectile{
		ID:        s.allocID(),
		Hostile:   true,
		Pos:       from,
		Vel:       geometry.Vec{X: d.X * speed, Y: d.Y * speed},
		DamageMin: dmgMin,
		DamageMax: dmgMax,
		FiredAt:   now,
		ExpiresAt: now.Add(5 * time.Second),
		LastMove:  now,
	}
	s.projectiles[pr.ID] = pr
	s.sched.SchedulePeriodic(schedViperSpittle, 0, 100*time.Millisecond)
	return pr.ID, nil
}

// UpdateViperSpittle is the scheduled flight step for every projectile:
// advance, collide with barriers and players, expire.
func (s *State) UpdateViperSpittle(caller string, now time.Time) error {
	if err := s.requireModule(caller); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	vols := s.blockingVolumesLocked()
	for id, pr := range s.projectiles {
		if !now.Before(pr.ExpiresAt) {
			delete(s.projectiles, id)
			continue
		}
		dt := now.Sub(pr.LastMove).Seconds()
		pr.LastMove = now
		if dt <= 0 {
			continue
		}

		a, b := combat.Advance(pr.Pos, pr.Vel, dt)

		// A barrier stops the shot short of anyone behind it.
		wallIdx, wallT := combat.FirstHit(a, b, vols)

		hit := false
		for _, target := range s.players {
			if target.Dead || target.Identity == pr.Owner {
				continue
			}
			if !pr.Hostile {
				owner, err := s.player(pr.Owner)
				if err != nil || !combat.PvPAllowed(owner.PvPEnabled, target.PvPEnabled) {
					continue
				}
			}
			t, ok := geometry.SegmentAABBEntry(a, b, playerBounds(target.Pos))
			if !ok || (wallIdx != -1 && wallT < t) {
				continue
			}
			dmg := combat.DamageRoll(s.rng, pr.DamageMin, pr.DamageMax)
			s.damagePlayerLocked(target, dmg, now)
			s.emitSoundLocked(SoundHit, target.Pos, now)
			hit = true
			break
		}

		switch {
		case hit, wallIdx != -1:
			delete(s.projectiles, id)
		default:
			pr.Pos = b
		}
	}

	if len(s.projectiles) == 0 {
		s.sched.Cancel(schedViperSpittle, 0)
	}
	return nil
}

// playerBounds is the hittable volume around a survivor.
func playerBounds(pos geometry.Vec) geometry.AABB {
	return geometry.AABBAround(pos, 16, 24)
}
