package world

import (
	"time"

	"github.com/pixil98/go-survival/internal/items"
)

const schedTorchDurability = "torch_durability"

// Held light definitions, by catalog id.
const (
	defTorch      = "torch"
	defFlashlight = "flashlight"
	defHeadlamp   = "headlamp"
	defSnorkel    = "snorkel"
)

func (s *State) ensureEquipmentScheduleLocked() {
	for _, p := range s.players {
		if p.TorchLit || p.Flashlight || p.Headlamp {
			tick := time.Duration(s.tun.Combat.EquipmentTickSecs * float64(time.Second))
			s.sched.SchedulePeriodic(schedTorchDurability, 0, tick)
			return
		}
	}
	s.sched.Cancel(schedTorchDurability, 0)
}

// ToggleTorch lights or puts out the torch in the caller's hand.
func (s *State) ToggleTorch(identity string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	if p.TorchLit {
		p.TorchLit = false
		s.emitSoundLocked(SoundExtinguish, p.Pos, now)
		s.ensureEquipmentScheduleLocked()
		return nil
	}

	it, ok := s.items[p.ActiveItem]
	if !ok || it.DefID != defTorch {
		return Errorf(ErrPrecondition, "hold a torch to light it")
	}
	if it.Data.Durability() <= 0 {
		return Errorf(ErrPrecondition, "the torch is burnt out")
	}
	if s.weather.Current.Severe() && s.shelterContainingLocked(p.Pos) == nil {
		return Errorf(ErrPrecondition, "it is raining too hard to light a torch")
	}

	p.TorchLit = true
	s.emitSoundLocked(SoundIgnite, p.Pos, now)
	s.ensureEquipmentScheduleLocked()
	return nil
}

// ToggleFlashlight switches an equipped flashlight.
func (s *State) ToggleFlashlight(identity string, now time.Time) error {
	return s.toggleWornLight(identity, defFlashlight, func(p *Player) *bool { return &p.Flashlight })
}

// ToggleHeadlamp switches an equipped headlamp.
func (s *State) ToggleHeadlamp(identity string, now time.Time) error {
	return s.toggleWornLight(identity, defHeadlamp, func(p *Player) *bool { return &p.Headlamp })
}

// ToggleSnorkel switches equipped snorkeling gear on or off.
func (s *State) ToggleSnorkel(identity string, now time.Time) error {
	return s.toggleWornLight(identity, defSnorkel, func(p *Player) *bool { return &p.Snorkeling })
}

func (s *State) toggleWornLight(identity, defID string, flag func(*Player) *bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	f := flag(p)
	if *f {
		*f = false
		s.ensureEquipmentScheduleLocked()
		return nil
	}

	it := s.equippedItemLocked(p, defID)
	if it == nil {
		return Errorf(ErrPrecondition, "equip a %s first", defID)
	}
	if it.Data.Durability() <= 0 {
		return Errorf(ErrPrecondition, "the %s has no charge", defID)
	}
	*f = true
	s.ensureEquipmentScheduleLocked()
	return nil
}

// equippedItemLocked finds an equipped instance by definition.
func (s *State) equippedItemLocked(p *Player, defID string) *items.Instance {
	for _, id := range p.Equipment {
		if id == 0 {
			continue
		}
		if it, ok := s.items[id]; ok && it.DefID == defID {
			return it
		}
	}
	return nil
}

// ProcessTorchDurability is the scheduled drain step for every active
// held or worn light.
func (s *State) ProcessTorchDurability(caller string, now time.Time) error {
	if err := s.requireModule(caller); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tick := s.tun.Combat.EquipmentTickSecs
	torchDrain := items.MaxDurability * tick / s.tun.Combat.TorchBurnSecs
	batteryDrain := items.MaxDurability * tick / s.tun.Combat.FlashlightDrainSecs

	for _, p := range s.players {
		if p.TorchLit {
			it, ok := s.items[p.ActiveItem]
			if !ok || it.DefID != defTorch {
				p.TorchLit = false
			} else {
				dur := it.Data.Durability() - torchDrain
				if dur <= 0 {
					// A torch burns away to nothing.
					s.removeItemLocked(it)
					p.TorchLit = false
					s.emitSoundLocked(SoundExtinguish, p.Pos, now)
				} else {
					it.Data.SetDurability(dur)
				}
			}
		}
		if p.Flashlight {
			s.drainWornLocked(p, defFlashlight, batteryDrain, &p.Flashlight)
		}
		if p.Headlamp {
			s.drainWornLocked(p, defHeadlamp, batteryDrain, &p.Headlamp)
		}
	}

	s.ensureEquipmentScheduleLocked()
	return nil
}

func (s *State) drainWornLocked(p *Player, defID string, drain float64, flag *bool) {
	it := s.equippedItemLocked(p, defID)
	if it == nil {
		*flag = false
		return
	}
	dur := it.Data.Durability() - drain
	if dur <= 0 {
		it.Data.SetDurability(0)
		*flag = false
		return
	}
	it.Data.SetDurability(dur)
}
