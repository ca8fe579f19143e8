package world

import (
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
)

// Vital maxima. Health and the survival meters use different ceilings.
const (
	MaxHealth  = 100.0
	MaxHunger  = 250.0
	MaxThirst  = 250.0
	MaxStamina = 100.0
	MaxWarmth  = 100.0
)

type Vitals struct {
	Health  float64 `json:"health"`
	Hunger  float64 `json:"hunger"`
	Thirst  float64 `json:"thirst"`
	Stamina float64 `json:"stamina"`
	Warmth  float64 `json:"warmth"`
}

func clampVital(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// Apply adds the deltas with per-vital clamping.
func (v *Vitals) Apply(dHealth, dHunger, dThirst, dWarmth float64) {
	v.Health = clampVital(v.Health+dHealth, MaxHealth)
	v.Hunger = clampVital(v.Hunger+dHunger, MaxHunger)
	v.Thirst = clampVital(v.Thirst+dThirst, MaxThirst)
	v.Warmth = clampVital(v.Warmth+dWarmth, MaxWarmth)
}

// Player is one connected survivor. The identity string is assigned by the
// gateway at registration and never reused.
type Player struct {
	Identity string
	Pos      geometry.Vec
	// Facing is a unit vector; combat cones open around it.
	Facing geometry.Vec

	Vitals Vitals

	Dead       bool
	KnockedOut bool
	TorchLit   bool
	Flashlight bool
	Headlamp   bool
	Snorkeling bool
	OnWater    bool
	PvPEnabled bool

	LastConsumedAt time.Time
	LastHitAt      time.Time

	// ActiveItem is the wielded tool or weapon instance id, zero when bare
	// handed. The item always sits in the inventory or hotbar.
	ActiveItem uint64

	// Equipment caches the worn item instance per armor slot, zero when
	// empty. The matching item's location is the source of truth.
	Equipment [NumEquipmentSlots]uint64
}

const NumEquipmentSlots = 6

// Incapacitated reports whether the player can act at all.
func (p *Player) Incapacitated() bool {
	return p.Dead || p.KnockedOut
}

// RegisterPlayer adds a survivor at the given spawn point. Registering an
// existing identity is a state conflict.
func (s *State) RegisterPlayer(identity string, spawn geometry.Vec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[identity]; ok {
		return Errorf(ErrStateConflict, "player %s already registered", identity)
	}

	s.players[identity] = &Player{
		Identity: identity,
		Pos:      spawn,
		Facing:   geometry.Vec{X: 1},
		Vitals: Vitals{
			Health:  MaxHealth,
			Hunger:  MaxHunger * 0.8,
			Thirst:  MaxThirst * 0.8,
			Stamina: MaxStamina,
			Warmth:  MaxWarmth * 0.8,
		},
	}
	return nil
}

// Player returns a copy of the survivor's public state.
func (s *State) Player(identity string) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.player(identity)
	if err != nil {
		return Player{}, err
	}
	return *p, nil
}

func (s *State) player(identity string) (*Player, error) {
	p, ok := s.players[identity]
	if !ok {
		return nil, Errorf(ErrNotFound, "player %s not registered", identity)
	}
	return p, nil
}

// actingPlayer resolves the caller and rejects actors that cannot act.
func (s *State) actingPlayer(identity string) (*Player, error) {
	p, err := s.player(identity)
	if err != nil {
		return nil, err
	}
	if p.Dead {
		return nil, Errorf(ErrPrecondition, "player %s is dead", identity)
	}
	if p.KnockedOut {
		return nil, Errorf(ErrPrecondition, "player %s is knocked out", identity)
	}
	return p, nil
}

// MovePlayer updates position and facing. Movement also drives the world
// clock, so time advances while anyone is active.
func (s *State) MovePlayer(identity string, pos, facing geometry.Vec, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actingPlayer(identity)
	if err != nil {
		return err
	}

	p.Pos = pos
	if facing.LenSq() > 0 {
		p.Facing = facing.Normalize()
	}

	s.tickWorldLocked(now)
	return nil
}

// SetPvP toggles the player's raiding opt-in.
func (s *State) SetPvP(identity string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.player(identity)
	if err != nil {
		return err
	}
	p.PvPEnabled = enabled
	return nil
}
