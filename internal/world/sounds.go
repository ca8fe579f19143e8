package world

import (
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
)

// SoundKind names an audio cue for external renderers.
type SoundKind string

const (
	SoundPlace        SoundKind = "place"
	SoundHit          SoundKind = "hit"
	SoundDestroy      SoundKind = "destroy"
	SoundError        SoundKind = "error"
	SoundConsume      SoundKind = "consume"
	SoundIgnite       SoundKind = "ignite"
	SoundExtinguish   SoundKind = "extinguish"
	SoundRepair       SoundKind = "repair"
	SoundCampfireLoop SoundKind = "campfire_loop"
	SoundFurnaceLoop  SoundKind = "furnace_loop"
	SoundLanternLoop  SoundKind = "lantern_loop"
	SoundRainLoop     SoundKind = "rain_loop"
)

// Continuous sounds share one object-id namespace across entity kinds, so
// each kind claims a disjoint offset band.
const (
	campfireSoundOffset uint64 = 1_000_000_000
	lanternSoundOffset  uint64 = 2_000_000_000
	furnaceSoundOffset  uint64 = 3_000_000_000
	rainSoundObjectID   uint64 = 4_000_000_000
)

// SoundEvent is a one-shot positional cue. Rows expire quickly; the
// cleanup schedule trims anything older than a few seconds.
type SoundEvent struct {
	ID   uint64
	Kind SoundKind
	Pos  geometry.Vec
	At   time.Time
}

// ContinuousSound is a looping cue whose existence mirrors an entity
// state, such as a burning campfire.
type ContinuousSound struct {
	ObjectID  uint64
	Kind      SoundKind
	Pos       geometry.Vec
	StartedAt time.Time
}

const soundEventTTL = 5 * time.Second

const schedSoundCleanup = "sound_cleanup"

func (s *State) emitSoundLocked(kind SoundKind, pos geometry.Vec, at time.Time) {
	ev := SoundEvent{
		ID:   s.allocID(),
		Kind: kind,
		Pos:  pos,
		At:   at,
	}
	s.sounds[ev.ID] = &ev
	s.signals.SoundEvent(ev)
}

func (s *State) startContinuousLocked(objectID uint64, kind SoundKind, at time.Time) {
	s.startContinuousAtLocked(objectID, kind, geometry.Vec{}, at)
}

func (s *State) startContinuousAtLocked(objectID uint64, kind SoundKind, pos geometry.Vec, at time.Time) {
	if _, ok := s.continuous[objectID]; ok {
		return
	}
	cs := ContinuousSound{
		ObjectID:  objectID,
		Kind:      kind,
		Pos:       pos,
		StartedAt: at,
	}
	s.continuous[objectID] = &cs
	s.signals.ContinuousStart(cs)
}

func (s *State) stopContinuousLocked(objectID uint64) {
	if _, ok := s.continuous[objectID]; !ok {
		return
	}
	delete(s.continuous, objectID)
	s.signals.ContinuousStop(objectID)
}

// CleanupOldSoundEvents is the scheduled sweep that keeps the one-shot
// sound table bounded.
func (s *State) CleanupOldSoundEvents(caller string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireModule(caller); err != nil {
		return err
	}

	for id, ev := range s.sounds {
		if now.Sub(ev.At) > soundEventTTL {
			delete(s.sounds, id)
		}
	}
	return nil
}

// ContinuousSounds returns a snapshot of the active loops.
func (s *State) ContinuousSounds() []ContinuousSound {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ContinuousSound, 0, len(s.continuous))
	for _, cs := range s.continuous {
		out = append(out, *cs)
	}
	return out
}
