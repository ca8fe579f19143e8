package world

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
	"github.com/pixil98/go-survival/internal/items"
	"github.com/pixil98/go-survival/internal/storage"
	"github.com/pixil98/go-survival/internal/tuning"
)

// TickScheduler is how mutations ask for future processing. The world never
// talks to the timer loop directly; it records intent and the scheduler
// fires the matching maintenance reducer later.
type TickScheduler interface {
	// SchedulePeriodic arranges for the (kind, id) maintenance reducer to
	// fire every interval until cancelled. Rescheduling an existing row
	// updates its interval.
	SchedulePeriodic(kind string, id uint64, every time.Duration)
	// ScheduleOnce arranges a single firing at the given time.
	ScheduleOnce(kind string, id uint64, at time.Time)
	// Cancel removes the schedule row. Cancelling a missing row is a no-op.
	Cancel(kind string, id uint64)
}

// Signaler carries observable side effects out of the simulation. All
// methods are best-effort: a failed publish never fails the mutation that
// triggered it.
type Signaler interface {
	SoundEvent(ev SoundEvent)
	ContinuousStart(cs ContinuousSound)
	ContinuousStop(objectID uint64)
	WeatherChanged(w WeatherState)
	Thunder(at time.Time)
}

// TileSource answers terrain lookups for placement and movement rules.
type TileSource interface {
	TileAt(pos geometry.Vec) geometry.TileType
}

// TileFunc adapts a function to a TileSource.
type TileFunc func(pos geometry.Vec) geometry.TileType

func (f TileFunc) TileAt(pos geometry.Vec) geometry.TileType { return f(pos) }

// State is the authoritative table store. All mutations go through its
// methods; each exported mutation takes the write lock for its whole run,
// so mutations never observe each other's intermediate state.
type State struct {
	mu sync.Mutex

	tun     tuning.Tuning
	defs    storage.Storer[*items.Definition]
	species storage.Storer[*PlantSpecies]

	sched   TickScheduler
	signals Signaler
	tiles   TileSource
	rng     *rand.Rand

	// ModuleIdentity is the caller name maintenance reducers must present.
	ModuleIdentity string

	clock   Clock
	weather WeatherState

	// seasonSeen tracks the last season the seasonal sweep observed;
	// seasonalSpawnsLeft counts the restock sweeps still owed after a
	// season change.
	seasonSeen         Season
	seasonalSpawnsLeft int

	nextID uint64

	players     map[string]*Player
	items       map[uint64]*items.Instance
	boxes       map[uint64]*Box
	campfires   map[uint64]*Campfire
	furnaces    map[uint64]*Furnace
	lanterns    map[uint64]*Lantern
	shelters    map[uint64]*Shelter
	walls       map[uint64]*Wall
	fences      map[uint64]*Fence
	foundations map[uint64]*Foundation
	seeds       map[uint64]*PlantedSeed
	resources   map[uint64]*Resource
	projectiles map[uint64]*Projectile
	clouds      map[uint64]*Cloud

	zones []geometry.MonumentZone

	sounds     map[uint64]*SoundEvent
	continuous map[uint64]*ContinuousSound
}

// Config wires the state to its collaborators.
type Config struct {
	Tuning       tuning.Tuning
	Definitions  storage.Storer[*items.Definition]
	PlantSpecies storage.Storer[*PlantSpecies]
	Scheduler    TickScheduler
	Signals      Signaler
	// Tiles answers terrain lookups. Nil means an all-grass world, which
	// tests lean on.
	Tiles          TileSource
	ModuleIdentity string
	Zones          []geometry.MonumentZone
	// Seed drives the random rolls (charcoal, spoilage spread, weather).
	// Zero seeds from the clock.
	Seed int64
}

func NewState(cfg Config) *State {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sched := cfg.Scheduler
	if sched == nil {
		sched = noopScheduler{}
	}
	signals := cfg.Signals
	if signals == nil {
		signals = noopSignaler{}
	}
	tiles := cfg.Tiles
	if tiles == nil {
		tiles = TileFunc(func(geometry.Vec) geometry.TileType { return geometry.TileGrass })
	}

	s := &State{
		tun:            cfg.Tuning,
		defs:           cfg.Definitions,
		species:        cfg.PlantSpecies,
		sched:          sched,
		signals:        signals,
		tiles:          tiles,
		rng:            rand.New(rand.NewSource(seed)),
		ModuleIdentity: cfg.ModuleIdentity,
		zones:          cfg.Zones,
		players:        map[string]*Player{},
		items:          map[uint64]*items.Instance{},
		boxes:          map[uint64]*Box{},
		campfires:      map[uint64]*Campfire{},
		furnaces:       map[uint64]*Furnace{},
		lanterns:       map[uint64]*Lantern{},
		shelters:       map[uint64]*Shelter{},
		walls:          map[uint64]*Wall{},
		fences:         map[uint64]*Fence{},
		foundations:    map[uint64]*Foundation{},
		seeds:          map[uint64]*PlantedSeed{},
		resources:      map[uint64]*Resource{},
		projectiles:    map[uint64]*Projectile{},
		clouds:         map[uint64]*Cloud{},
		sounds:         map[uint64]*SoundEvent{},
		continuous:     map[uint64]*ContinuousSound{},
	}
	s.clock = newClock(cfg.Tuning.Time)
	s.weather = newWeatherState()
	s.seasonSeen = s.clock.Season()

	// Always-on maintenance sweeps; per-entity schedules arm themselves
	// when their entity appears.
	sched.SchedulePeriodic(schedFoodSpoilage, 0, time.Duration(cfg.Tuning.Spoilage.TickSecs*float64(time.Second)))
	sched.SchedulePeriodic(schedSeasonalPlants, 0, time.Duration(cfg.Tuning.Plants.SeasonalSweepSecs*float64(time.Second)))
	sched.SchedulePeriodic(schedSoundCleanup, 0, soundEventTTL)

	return s
}

func (s *State) allocID() uint64 {
	s.nextID++
	return s.nextID
}

// Tuning returns the active balance numbers.
func (s *State) Tuning() tuning.Tuning {
	return s.tun
}

// Stats is a point-in-time row count across the world tables, for
// operator dashboards.
type Stats struct {
	Players     int
	Items       int
	Boxes       int
	Campfires   int
	Furnaces    int
	Lanterns    int
	Shelters    int
	Walls       int
	Fences      int
	Foundations int
	Seeds       int
	Resources   int
	Projectiles int
}

func (s *State) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Players:     len(s.players),
		Items:       len(s.items),
		Boxes:       len(s.boxes),
		Campfires:   len(s.campfires),
		Furnaces:    len(s.furnaces),
		Lanterns:    len(s.lanterns),
		Shelters:    len(s.shelters),
		Walls:       len(s.walls),
		Fences:      len(s.fences),
		Foundations: len(s.foundations),
		Seeds:       len(s.seeds),
		Resources:   len(s.resources),
		Projectiles: len(s.projectiles),
	}
}

// Players returns copies of every survivor, ordered by identity.
func (s *State) Players() []Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identity < out[j].Identity })
	return out
}

func (s *State) definition(defID string) (*items.Definition, error) {
	def := s.defs.Get(defID)
	if def == nil {
		return nil, Errorf(ErrNotFound, "unknown item definition %q", defID)
	}
	return def, nil
}

type noopScheduler struct{}

func (noopScheduler) SchedulePeriodic(string, uint64, time.Duration) {}
func (noopScheduler) ScheduleOnce(string, uint64, time.Time)         {}
func (noopScheduler) Cancel(string, uint64)                          {}

type noopSignaler struct{}

func (noopSignaler) SoundEvent(SoundEvent)           {}
func (noopSignaler) ContinuousStart(ContinuousSound) {}
func (noopSignaler) ContinuousStop(uint64)           {}
func (noopSignaler) WeatherChanged(WeatherState)     {}
func (noopSignaler) Thunder(time.Time)               {}
