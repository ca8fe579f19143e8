package world

import (
	"strings"
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
	"github.com/pixil98/go-survival/internal/items"
)

// Appliance is the shared burn-and-cook core of campfires and furnaces.
// Every slot holds either fuel or something being worked on; the burn
// step sorts out which is which by definition.
type Appliance struct {
	Placeable
	Slots []Slot

	Burning bool
	// The piece of fuel currently on the fire and how many burn-seconds
	// it has left.
	FuelDefID     string
	FuelRemaining float64

	// Reed Bellows attachment: stretches each piece of fuel and fans the
	// heat so work finishes sooner.
	HasBellows bool

	// Per-slot work progress, in seconds, with the instance it was
	// accumulated for. A slot whose occupant changes restarts from zero.
	Progress     []float64
	WorkInstance []uint64

	schedKind   string
	soundOffset uint64
	loopSound   SoundKind
}

func (a *Appliance) NumSlots() int          { return len(a.Slots) }
func (a *Appliance) GetSlot(i int) Slot     { return a.Slots[i] }
func (a *Appliance) SetSlot(i int, sl Slot) { a.Slots[i] = sl }
func (a *Appliance) ID() uint64             { return a.Placeable.ID }
func (a *Appliance) Position() geometry.Vec { return a.Pos }

// Campfire cooks food and throws warmth and light.
type Campfire struct {
	Appliance
}

func (c *Campfire) Kind() items.ContainerKind { return items.ContainerCampfire }

// Furnace smelts ore and only ever burns wood.
type Furnace struct {
	Appliance
}

func (f *Furnace) Kind() items.ContainerKind { return items.ContainerFurnace }

func (s *State) newApplianceLocked(owner string, pos geometry.Vec, health float64, schedKind string, now time.Time) Appliance {
	n := s.tun.Campfire.Slots
	a := Appliance{
		Placeable:    newPlaceable(s.allocID(), pos, owner, health, now),
		Slots:        make([]Slot, n),
		Progress:     make([]float64, n),
		WorkInstance: make([]uint64, n),
		schedKind:    schedKind,
	}
	switch schedKind {
	case schedFurnace:
		a.soundOffset, a.loopSound = furnaceSoundOffset, SoundFurnaceLoop
	default:
		a.soundOffset, a.loopSound = campfireSoundOffset, SoundCampfireLoop
	}
	return a
}

// isWoodFuel reports whether a definition is raw wood, the only thing a
// furnace will burn.
func isWoodFuel(def *items.Definition) bool {
	return def.IsFuel() && strings.EqualFold(def.Name, "wood")
}

// appliance resolves either fire-driven container kind.
func (s *State) appliance(kind items.ContainerKind, id uint64) (*Appliance, error) {
	switch kind {
	case items.ContainerCampfire:
		if cf, ok := s.campfires[id]; ok && !cf.Destroyed {
			return &cf.Appliance, nil
		}
	case items.ContainerFurnace:
		if f, ok := s.furnaces[id]; ok && !f.Destroyed {
			return &f.Appliance, nil
		}
	default:
		return nil, Errorf(ErrInvariant, "%s does not burn fuel", kind)
	}
	return nil, Errorf(ErrNotFound, "%s %d does not exist", kind, id)
}

// ensureApplianceScheduleLocked keeps the periodic processing tick armed
// while there is anything for it to do: a lit fire, or fuel waiting for
// one.
func (s *State) ensureApplianceScheduleLocked(a *Appliance) {
	fueled := a.FuelRemaining > 0 || s.hasFuelLocked(a)
	if (a.Burning || fueled) && !a.Destroyed {
		tick := time.Duration(s.tun.Campfire.ProcessTickSecs * float64(time.Second))
		s.sched.SchedulePeriodic(a.schedKind, a.Placeable.ID, tick)
		return
	}
	s.sched.Cancel(a.schedKind, a.Placeable.ID)
}

// ToggleBurning lights or snuffs a campfire or furnace. Lighting needs
// fuel on board, and an exposed fire cannot be lit in driving rain.
func (s *State) ToggleBurning(identity string, kind items.ContainerKind, id uint64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	a, err := s.appliance(kind, id)
	if err != nil {
		return err
	}
	if !geometry.WithinRange(p.Pos, a.Pos, maxInteractDistance) {
		return Errorf(ErrPrecondition, "too far away")
	}
	if err := s.interactionGateLocked(p, a.Pos); err != nil {
		return err
	}

	if a.Burning {
		s.extinguishLocked(a, now)
		return nil
	}
	if a.FuelRemaining <= 0 && !s.hasFuelLocked(a) {
		return Errorf(ErrPrecondition, "there is no fuel to burn")
	}
	if kind == items.ContainerCampfire && s.weather.Current.Severe() && !s.fireShelteredLocked(a.Pos) {
		return Errorf(ErrPrecondition, "it is raining too hard to light a fire here")
	}

	a.Burning = true
	s.emitSoundLocked(SoundIgnite, a.Pos, now)
	s.startContinuousAtLocked(a.soundOffset+a.Placeable.ID, a.loopSound, a.Pos, now)
	s.ensureApplianceScheduleLocked(a)
	return nil
}

// extinguishLocked puts the fire out. The piece on the fire is lost with
// the flame; slot fuel stays where it is.
func (s *State) extinguishLocked(a *Appliance, now time.Time) {
	a.Burning = false
	a.FuelDefID = ""
	a.FuelRemaining = 0
	s.emitSoundLocked(SoundExtinguish, a.Pos, now)
	s.stopContinuousLocked(a.soundOffset + a.Placeable.ID)
	s.ensureApplianceScheduleLocked(a)
}

// hasFuelLocked reports whether any slot holds something the appliance
// can burn.
func (s *State) hasFuelLocked(a *Appliance) bool {
	furnace := a.schedKind == schedFurnace
	for _, sl := range a.Slots {
		if sl.Empty() {
			continue
		}
		def, err := s.definition(sl.DefID)
		if err != nil || !def.IsFuel() {
			continue
		}
		if furnace && !isWoodFuel(def) {
			continue
		}
		return true
	}
	return false
}

// fireShelteredLocked reports whether an open flame at this position is
// covered, either by a shelter roof or by tree canopy.
func (s *State) fireShelteredLocked(pos geometry.Vec) bool {
	if s.shelterContainingLocked(pos) != nil {
		return true
	}
	r := s.tun.Campfire.TreeProtectionPx
	for _, res := range s.resources {
		if res.Tree && geometry.WithinRange(pos, res.Pos, r) {
			return true
		}
	}
	return false
}

// extinguishExposedFiresLocked snuffs every lit campfire that severe
// weather can reach. Furnaces are enclosed and keep burning.
func (s *State) extinguishExposedFiresLocked(now time.Time) {
	for _, cf := range s.campfires {
		if !cf.Burning || cf.Destroyed {
			continue
		}
		if s.fireShelteredLocked(cf.Pos) {
			continue
		}
		s.extinguishLocked(&cf.Appliance, now)
	}
}

// ProcessCampfire is the scheduled one-second burn step for a campfire.
func (s *State) ProcessCampfire(caller string, id uint64, now time.Time) error {
	if err := s.requireModule(caller); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cf, ok := s.campfires[id]
	if !ok || cf.Destroyed {
		s.sched.Cancel(schedCampfire, id)
		return nil
	}
	s.stepApplianceLocked(cf, &cf.Appliance, false, now)
	return nil
}

// ProcessFurnace is the scheduled one-second burn step for a furnace.
func (s *State) ProcessFurnace(caller string, id uint64, now time.Time) error {
	if err := s.requireModule(caller); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.furnaces[id]
	if !ok || f.Destroyed {
		s.sched.Cancel(schedFurnace, id)
		return nil
	}
	s.stepApplianceLocked(f, &f.Appliance, true, now)
	return nil
}

// stepApplianceLocked advances one burn tick: consume fuel, advance work
// progress, transform finished items, and go out when the fuel runs dry.
func (s *State) stepApplianceLocked(c Container, a *Appliance, furnace bool, now time.Time) {
	if !a.Burning {
		s.ensureApplianceScheduleLocked(a)
		return
	}

	dt := s.tun.Campfire.ProcessTickSecs
	fuelFactor, workFactor := 1.0, 1.0
	if a.HasBellows {
		fuelFactor = s.tun.Campfire.BellowsFuelFactor
		workFactor = s.tun.Campfire.BellowsCookFactor
	}
	// A rune stone's field speeds the work: red drives furnaces, green
	// drives open fires.
	if furnace {
		if s.inRuneFieldLocked(redRunePrefix, a.Pos) {
			workFactor *= runeWorkFactor
		}
	} else if s.inRuneFieldLocked(greenRunePrefix, a.Pos) {
		workFactor *= runeWorkFactor
	}

	// The bellows stretches each piece of fuel rather than burning it
	// faster.
	a.FuelRemaining -= dt / fuelFactor
	if a.FuelRemaining <= 0 {
		// The piece on the fire is spent. A furnace burning wood has a
		// chance of leaving charcoal behind.
		if furnace && a.FuelDefID != "" && s.rng.Float64() < s.tun.Campfire.CharcoalChance {
			s.addApplianceOutputLocked(c, a, "charcoal")
		}
		a.FuelDefID = ""
		if !s.loadNextFuelLocked(a, furnace) {
			s.extinguishLocked(a, now)
			return
		}
	}

	for i := range a.Slots {
		sl := a.Slots[i]
		if sl.Empty() {
			a.Progress[i], a.WorkInstance[i] = 0, 0
			continue
		}
		def, err := s.definition(sl.DefID)
		if err != nil {
			a.Progress[i], a.WorkInstance[i] = 0, 0
			continue
		}
		// Fuel waits its turn; it never cooks.
		if def.IsFuel() {
			continue
		}
		// Cooked food left on the heat ruins; raw input transforms.
		next := def.CookedItem
		if next == "" {
			next = def.BurntItem
		}
		if next == "" {
			a.Progress[i], a.WorkInstance[i] = 0, 0
			continue
		}
		if a.WorkInstance[i] != sl.InstanceID {
			a.Progress[i], a.WorkInstance[i] = 0, sl.InstanceID
		}
		a.Progress[i] += dt * workFactor
		need := def.CookTimeSecs
		if need <= 0 {
			need = dt
		}
		if a.Progress[i] >= need {
			s.finishWorkLocked(c, a, i, next)
		}
	}
}

// loadNextFuelLocked takes one unit from the first usable fuel stack and
// puts it on the fire.
func (s *State) loadNextFuelLocked(a *Appliance, furnace bool) bool {
	for i := range a.Slots {
		sl := a.Slots[i]
		if sl.Empty() {
			continue
		}
		def, err := s.definition(sl.DefID)
		if err != nil || !def.IsFuel() {
			continue
		}
		if furnace && !isWoodFuel(def) {
			continue
		}
		it, ok := s.items[sl.InstanceID]
		if !ok {
			a.Slots[i] = Slot{}
			continue
		}
		if it.Quantity > 1 {
			it.Quantity--
		} else {
			s.removeItemLocked(it)
		}
		a.FuelDefID = sl.DefID
		a.FuelRemaining = def.FuelBurnSecs
		return true
	}
	return false
}

// finishWorkLocked swaps a finished item for its successor in place. One
// unit converts per completion; the rest of the stack keeps cooking.
func (s *State) finishWorkLocked(c Container, a *Appliance, slot int, successor string) {
	sl := a.Slots[slot]
	it, ok := s.items[sl.InstanceID]
	if !ok {
		a.Slots[slot] = Slot{}
		a.Progress[slot], a.WorkInstance[slot] = 0, 0
		return
	}
	if it.Quantity > 1 {
		it.Quantity--
		s.addApplianceOutputLocked(c, a, successor)
	} else {
		it.DefID = successor
		it.Data = items.Data{}
		a.Slots[slot] = Slot{InstanceID: it.ID, DefID: successor}
		a.WorkInstance[slot] = it.ID
	}
	a.Progress[slot] = 0
}

// addApplianceOutputLocked lands a produced item in the appliance's slots,
// merging into a matching stack first, then taking an empty slot, then
// falling to the ground beside the appliance.
func (s *State) addApplianceOutputLocked(c Container, a *Appliance, defID string) {
	def, err := s.definition(defID)
	if err != nil {
		return
	}
	for i := range a.Slots {
		sl := a.Slots[i]
		if sl.Empty() || sl.DefID != defID {
			continue
		}
		it, ok := s.items[sl.InstanceID]
		if ok && def.Stackable && it.Quantity < def.MaxStack() {
			it.Quantity++
			return
		}
	}
	for i := range a.Slots {
		if !a.Slots[i].Empty() {
			continue
		}
		it := s.spawnItemLocked(defID, 1, items.InContainer(c.Kind(), a.Placeable.ID, i))
		a.Slots[i] = Slot{InstanceID: it.ID, DefID: defID}
		return
	}
	s.spawnItemLocked(defID, 1, items.DroppedAt(a.Pos))
}

// AttachBellows fits a Reed Bellows to a campfire or furnace, consuming
// the item.
func (s *State) AttachBellows(identity string, kind items.ContainerKind, id uint64, itemID uint64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}
	a, err := s.appliance(kind, id)
	if err != nil {
		return err
	}
	if !geometry.WithinRange(p.Pos, a.Pos, maxInteractDistance) {
		return Errorf(ErrPrecondition, "too far away")
	}
	if a.HasBellows {
		return Errorf(ErrStateConflict, "a bellows is already fitted")
	}
	it, err := s.playerItem(identity, itemID)
	if err != nil {
		return err
	}
	if it.DefID != "reed-bellows" {
		return Errorf(ErrInvariant, "that is not a bellows")
	}
	if it.Quantity > 1 {
		it.Quantity--
	} else {
		s.removeItemLocked(it)
	}
	a.HasBellows = true
	s.emitSoundLocked(SoundPlace, a.Pos, now)
	return nil
}

// campfireWarmthAtLocked returns the warmth per second a position picks up
// from nearby lit campfires.
func (s *State) campfireWarmthAtLocked(pos geometry.Vec) float64 {
	warmth := 0.0
	for _, cf := range s.campfires {
		if cf.Burning && !cf.Destroyed && geometry.WithinRange(pos, cf.Pos, s.tun.Campfire.WarmthRangePx) {
			warmth += s.tun.Campfire.WarmthPerSec
		}
	}
	return warmth
}
