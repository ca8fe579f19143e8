package world

import (
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
	"github.com/pixil98/go-survival/internal/items"
)

// Lantern burns fuel to throw light. Its one slot only takes fuel.
type Lantern struct {
	Placeable
	Slots []Slot

	Burning       bool
	FuelDefID     string
	FuelRemaining float64
}

func (l *Lantern) NumSlots() int             { return len(l.Slots) }
func (l *Lantern) GetSlot(i int) Slot        { return l.Slots[i] }
func (l *Lantern) SetSlot(i int, sl Slot)    { l.Slots[i] = sl }
func (l *Lantern) Kind() items.ContainerKind { return items.ContainerLantern }
func (l *Lantern) ID() uint64                { return l.Placeable.ID }
func (l *Lantern) Position() geometry.Vec    { return l.Pos }

func (s *State) ensureLanternScheduleLocked(l *Lantern) {
	if l.Burning && !l.Destroyed {
		tick := time.Duration(s.tun.Lantern.ProcessTickSecs * float64(time.Second))
		s.sched.SchedulePeriodic(schedLantern, l.Placeable.ID, tick)
		return
	}
	s.sched.Cancel(schedLantern, l.Placeable.ID)
}

// ToggleLantern lights or snuffs a lantern. Lanterns are enclosed, so
// weather never interferes.
func (s *State) ToggleLantern(identity string, id uint64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	l, ok := s.lanterns[id]
	if !ok || l.Destroyed {
		return Errorf(ErrNotFound, "lantern %d does not exist", id)
	}
	if !geometry.WithinRange(p.Pos, l.Pos, maxInteractDistance) {
		return Errorf(ErrPrecondition, "too far away")
	}
	if err := s.interactionGateLocked(p, l.Pos); err != nil {
		return err
	}

	if l.Burning {
		l.Burning = false
		s.emitSoundLocked(SoundExtinguish, l.Pos, now)
		s.stopContinuousLocked(lanternSoundOffset + id)
		s.ensureLanternScheduleLocked(l)
		return nil
	}
	if l.FuelRemaining <= 0 && !s.lanternHasFuelLocked(l) {
		return Errorf(ErrPrecondition, "the lantern is out of fuel")
	}
	l.Burning = true
	s.emitSoundLocked(SoundIgnite, l.Pos, now)
	s.startContinuousAtLocked(lanternSoundOffset+id, SoundLanternLoop, l.Pos, now)
	s.ensureLanternScheduleLocked(l)
	return nil
}

func (s *State) lanternHasFuelLocked(l *Lantern) bool {
	for _, sl := range l.Slots {
		if sl.Empty() {
			continue
		}
		if def, err := s.definition(sl.DefID); err == nil && def.IsFuel() {
			return true
		}
	}
	return false
}

// ProcessLantern is the scheduled burn step for a lit lantern.
func (s *State) ProcessLantern(caller string, id uint64, now time.Time) error {
	if err := s.requireModule(caller); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lanterns[id]
	if !ok || l.Destroyed {
		s.sched.Cancel(schedLantern, id)
		return nil
	}
	if !l.Burning {
		s.ensureLanternScheduleLocked(l)
		return nil
	}

	l.FuelRemaining -= s.tun.Lantern.ProcessTickSecs
	if l.FuelRemaining > 0 {
		return nil
	}
	l.FuelDefID = ""
	if !s.loadLanternFuelLocked(l) {
		l.Burning = false
		s.emitSoundLocked(SoundExtinguish, l.Pos, now)
		s.stopContinuousLocked(lanternSoundOffset + id)
		s.ensureLanternScheduleLocked(l)
	}
	return nil
}

func (s *State) loadLanternFuelLocked(l *Lantern) bool {
	for i, sl := range l.Slots {
		if sl.Empty() {
			continue
		}
		def, err := s.definition(sl.DefID)
		if err != nil || !def.IsFuel() {
			continue
		}
		it, ok := s.items[sl.InstanceID]
		if !ok {
			l.Slots[i] = Slot{}
			continue
		}
		if it.Quantity > 1 {
			it.Quantity--
		} else {
			s.removeItemLocked(it)
		}
		l.FuelDefID = sl.DefID
		l.FuelRemaining = def.FuelBurnSecs
		return true
	}
	return false
}

// lanternLightAtLocked reports whether a position sits inside the glow of
// any lit lantern.
func (s *State) lanternLightAtLocked(pos geometry.Vec) bool {
	for _, l := range s.lanterns {
		if l.Burning && !l.Destroyed && geometry.WithinRange(pos, l.Pos, s.tun.Lantern.LightRangePx) {
			return true
		}
	}
	return false
}
