package world

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pixil98/go-survival/internal/items"
)

// snapshot is the wire form of the whole table store. Everything in it is
// exported state; derived fields (schedule rows, appliance wiring) are
// rebuilt on restore.
type snapshot struct {
	TakenAt time.Time `json:"taken_at"`
	NextID  uint64    `json:"next_id"`

	Clock   Clock        `json:"clock"`
	Weather WeatherState `json:"weather"`

	Players map[string]*Player         `json:"players"`
	Items   map[uint64]*items.Instance `json:"items"`

	Boxes       map[uint64]*Box         `json:"boxes"`
	Campfires   map[uint64]*Campfire    `json:"campfires"`
	Furnaces    map[uint64]*Furnace     `json:"furnaces"`
	Lanterns    map[uint64]*Lantern     `json:"lanterns"`
	Shelters    map[uint64]*Shelter     `json:"shelters"`
	Walls       map[uint64]*Wall        `json:"walls"`
	Fences      map[uint64]*Fence       `json:"fences"`
	Foundations map[uint64]*Foundation  `json:"foundations"`
	Seeds       map[uint64]*PlantedSeed `json:"seeds"`
	Resources   map[uint64]*Resource    `json:"resources"`
	Projectiles map[uint64]*Projectile  `json:"projectiles"`
	Clouds      map[uint64]*Cloud       `json:"clouds"`

	SeasonSeen         Season `json:"season_seen"`
	SeasonalSpawnsLeft int    `json:"seasonal_spawns_left"`

	Continuous map[uint64]*ContinuousSound `json:"continuous"`
}

// Snapshot serializes the whole world under the state lock. The result is
// a self-contained document a later process can restore from.
func (s *State) Snapshot(now time.Time) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return json.Marshal(snapshot{
		TakenAt:     now,
		NextID:      s.nextID,
		Clock:       s.clock,
		Weather:     s.weather,
		Players:     s.players,
		Items:       s.items,
		Boxes:       s.boxes,
		Campfires:   s.campfires,
		Furnaces:    s.furnaces,
		Lanterns:    s.lanterns,
		Shelters:    s.shelters,
		Walls:       s.walls,
		Fences:      s.fences,
		Foundations: s.foundations,
		Seeds:       s.seeds,
		Resources:   s.resources,
		Projectiles: s.projectiles,
		Clouds:      s.clouds,

		SeasonSeen:         s.seasonSeen,
		SeasonalSpawnsLeft: s.seasonalSpawnsLeft,

		Continuous: s.continuous,
	})
}

// RestoreSnapshot replaces the world's tables with a stored snapshot and
// re-arms every schedule the restored state implies. It is meant to run
// once at boot, before any session traffic.
func (s *State) RestoreSnapshot(data []byte, now time.Time) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID = snap.NextID

	// Clock carries tuning-derived pacing that is not serialized; keep the
	// live pacing and take only the stored position. The zero LastTick
	// makes the first world tick re-prime instead of seeing the whole
	// downtime as elapsed play.
	restored := s.clock
	restored.CycleProgress = snap.Clock.CycleProgress
	restored.CycleCount = snap.Clock.CycleCount
	restored.DayOfYear = snap.Clock.DayOfYear
	restored.Year = snap.Clock.Year
	restored.FullMoon = snap.Clock.FullMoon
	restored.LastTick = time.Time{}
	s.clock = restored

	s.weather = snap.Weather

	s.players = orEmpty(snap.Players)
	s.items = orEmpty(snap.Items)
	s.boxes = orEmpty(snap.Boxes)
	s.campfires = orEmpty(snap.Campfires)
	s.furnaces = orEmpty(snap.Furnaces)
	s.lanterns = orEmpty(snap.Lanterns)
	s.shelters = orEmpty(snap.Shelters)
	s.walls = orEmpty(snap.Walls)
	s.fences = orEmpty(snap.Fences)
	s.foundations = orEmpty(snap.Foundations)
	s.seeds = orEmpty(snap.Seeds)
	s.resources = orEmpty(snap.Resources)
	s.projectiles = orEmpty(snap.Projectiles)
	s.clouds = orEmpty(snap.Clouds)
	s.seasonSeen = snap.SeasonSeen
	s.seasonalSpawnsLeft = snap.SeasonalSpawnsLeft
	s.continuous = orEmpty(snap.Continuous)
	s.sounds = map[uint64]*SoundEvent{}

	s.rearmSchedulesLocked(now)
	return nil
}

func orEmpty[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return m
}

// rearmSchedulesLocked rebuilds the schedule table and the unexported
// appliance wiring from restored rows.
func (s *State) rearmSchedulesLocked(now time.Time) {
	for _, c := range s.campfires {
		c.schedKind = schedCampfire
		c.soundOffset, c.loopSound = campfireSoundOffset, SoundCampfireLoop
		s.ensureApplianceScheduleLocked(&c.Appliance)
		s.rearmReapLocked(&c.Placeable, schedReapCampfire, now)
	}
	for _, f := range s.furnaces {
		f.schedKind = schedFurnace
		f.soundOffset, f.loopSound = furnaceSoundOffset, SoundFurnaceLoop
		s.ensureApplianceScheduleLocked(&f.Appliance)
		s.rearmReapLocked(&f.Placeable, schedReapFurnace, now)
	}
	for _, l := range s.lanterns {
		s.ensureLanternScheduleLocked(l)
		s.rearmReapLocked(&l.Placeable, schedReapLantern, now)
	}
	for _, b := range s.boxes {
		s.rearmReapLocked(&b.Placeable, schedReapBox, now)
	}
	for _, sh := range s.shelters {
		s.rearmReapLocked(&sh.Placeable, schedReapShelter, now)
	}
	for _, w := range s.walls {
		s.rearmReapLocked(&w.Placeable, schedReapWall, now)
	}
	for _, f := range s.fences {
		s.rearmReapLocked(&f.Placeable, schedReapFence, now)
	}
	for _, f := range s.foundations {
		s.rearmReapLocked(&f.Placeable, schedReapFoundation, now)
	}

	if len(s.seeds) > 0 {
		tick := time.Duration(s.tun.Plants.GrowthCheckSecs * float64(time.Second))
		s.sched.SchedulePeriodic(schedPlantGrowth, 0, tick)
	}
	if len(s.projectiles) > 0 {
		s.sched.SchedulePeriodic(schedViperSpittle, 0, 100*time.Millisecond)
	}
	s.ensureEquipmentScheduleLocked()
}

func (s *State) rearmReapLocked(pl *Placeable, reapKind string, now time.Time) {
	if pl.Destroyed {
		s.sched.ScheduleOnce(reapKind, pl.ID, now.Add(time.Second))
	}
}
