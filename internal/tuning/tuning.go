package tuning

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

// Tuning holds the gameplay numbers the simulation runs on. Operators can
// override any of them from a YAML file; everything defaults to the values
// the game balances around.
type Tuning struct {
	Time       Time       `yaml:"time"`
	Player     Player     `yaml:"player"`
	Spoilage   Spoilage   `yaml:"spoilage"`
	Campfire   Campfire   `yaml:"campfire"`
	Lantern    Lantern    `yaml:"lantern"`
	Shelter    Shelter    `yaml:"shelter"`
	Structures Structures `yaml:"structures"`
	Plants     Plants     `yaml:"plants"`
	Combat     Combat     `yaml:"combat"`
	Containers Containers `yaml:"containers"`
}

type Time struct {
	DaySecs   float64 `yaml:"day_secs"`
	NightSecs float64 `yaml:"night_secs"`
	// Days per calendar year.
	YearDays int `yaml:"year_days"`
	// Full moon recurs every this many day cycles.
	FullMoonCycleDays int `yaml:"full_moon_cycle_days"`
}

type Player struct {
	InventorySlots int `yaml:"inventory_slots"`
	HotbarSlots    int `yaml:"hotbar_slots"`
	EquipmentSlots int `yaml:"equipment_slots"`

	ConsumeCooldownSecs float64 `yaml:"consume_cooldown_secs"`

	// Per-second vitals drain while alive.
	HungerPerSec float64 `yaml:"hunger_per_sec"`
	ThirstPerSec float64 `yaml:"thirst_per_sec"`
}

type Spoilage struct {
	TickSecs float64 `yaml:"tick_secs"`
	// Spoil time for a plain perishable, in hours, before the food-state
	// and nutrition adjustments.
	BaseHours float64 `yaml:"base_hours"`
	// Derived spoil times clamp to this range.
	MinHours float64 `yaml:"min_hours"`
	MaxHours float64 `yaml:"max_hours"`
	// Spoil-time scaling per food state: cooking preserves, raw meat
	// turns fast.
	CookedFactor float64 `yaml:"cooked_factor"`
	RawFactor    float64 `yaml:"raw_factor"`
	// Extra spoil hours per point of hunger or thirst the item restores.
	NutritionBonusHours float64 `yaml:"nutrition_bonus_hours"`
}

type Campfire struct {
	Slots           int     `yaml:"slots"`
	ProcessTickSecs float64 `yaml:"process_tick_secs"`
	// Chance a furnace burn yields charcoal alongside its output.
	CharcoalChance float64 `yaml:"charcoal_chance"`
	// Reed Bellows attachment scaling.
	BellowsFuelFactor float64 `yaml:"bellows_fuel_factor"`
	BellowsCookFactor float64 `yaml:"bellows_cook_factor"`
	// Trees within this range of a lit campfire cannot be chopped.
	TreeProtectionPx float64 `yaml:"tree_protection_px"`
	WarmthRangePx    float64 `yaml:"warmth_range_px"`
	WarmthPerSec     float64 `yaml:"warmth_per_sec"`
}

type Lantern struct {
	FuelSlots       int     `yaml:"fuel_slots"`
	ProcessTickSecs float64 `yaml:"process_tick_secs"`
	LightRangePx    float64 `yaml:"light_range_px"`
}

type Shelter struct {
	WidthPx  float64 `yaml:"width_px"`
	HeightPx float64 `yaml:"height_px"`
	// Vertical offset of the AABB center from the anchor position.
	CenterOffsetY float64 `yaml:"center_offset_y"`
	WarmthPerSec  float64 `yaml:"warmth_per_sec"`
}

type Structures struct {
	// Health per build tier.
	WoodHealth  float64 `yaml:"wood_health"`
	StoneHealth float64 `yaml:"stone_health"`
	MetalHealth float64 `yaml:"metal_health"`
	// Fraction of melee damage that lands per tier.
	WoodMeleeFactor  float64 `yaml:"wood_melee_factor"`
	StoneMeleeFactor float64 `yaml:"stone_melee_factor"`
	MetalMeleeFactor float64 `yaml:"metal_melee_factor"`

	RepairPerHit float64 `yaml:"repair_per_hit"`
	// A structure hit by a non-owner cannot be repaired for this long.
	RepairLockoutSecs float64 `yaml:"repair_lockout_secs"`
}

type Plants struct {
	GrowthCheckSecs float64 `yaml:"growth_check_secs"`
	// How often the world re-evaluates season effects on wild plants.
	SeasonalSweepSecs float64 `yaml:"seasonal_sweep_secs"`
	// Crowding falloff rings in pixels.
	CrowdNearPx    float64 `yaml:"crowd_near_px"`
	CrowdMidPx     float64 `yaml:"crowd_mid_px"`
	CrowdFarPx     float64 `yaml:"crowd_far_px"`
	CampfireHeatPx float64 `yaml:"campfire_heat_px"`
	LanternLightPx float64 `yaml:"lantern_light_px"`
}

type Combat struct {
	// Held light sources drain while lit, at the equipment tick rate.
	EquipmentTickSecs   float64 `yaml:"equipment_tick_secs"`
	TorchBurnSecs       float64 `yaml:"torch_burn_secs"`
	FlashlightDrainSecs float64 `yaml:"flashlight_drain_secs"`
	// Durability lost by the attacker's weapon or tool per landed hit.
	DurabilityPerHit float64 `yaml:"durability_per_hit"`
}

type Containers struct {
	BoxSlots          int `yaml:"box_slots"`
	LargeBoxSlots     int `yaml:"large_box_slots"`
	RefrigeratorSlots int `yaml:"refrigerator_slots"`
}

// Default returns the balance the game ships with.
func Default() Tuning {
	return Tuning{
		Time: Time{
			DaySecs:           20 * 60,
			NightSecs:         5 * 60,
			YearDays:          360,
			FullMoonCycleDays: 3,
		},
		Player: Player{
			InventorySlots:      24,
			HotbarSlots:         6,
			EquipmentSlots:      6,
			ConsumeCooldownSecs: 1,
			HungerPerSec:        0.01,
			ThirstPerSec:        0.015,
		},
		Spoilage: Spoilage{
			TickSecs:            300,
			BaseHours:           24,
			MinHours:            6,
			MaxHours:            48,
			CookedFactor:        2,
			RawFactor:           0.7,
			NutritionBonusHours: 0.1,
		},
		Campfire: Campfire{
			Slots:             5,
			ProcessTickSecs:   1,
			CharcoalChance:    0.75,
			BellowsFuelFactor: 1.5,
			BellowsCookFactor: 1.2,
			TreeProtectionPx:  100,
			WarmthRangePx:     150,
			WarmthPerSec:      0.5,
		},
		Lantern: Lantern{
			FuelSlots:       1,
			ProcessTickSecs: 1,
			LightRangePx:    100,
		},
		Shelter: Shelter{
			WidthPx:       300,
			HeightPx:      125,
			CenterOffsetY: -200,
			WarmthPerSec:  0.5,
		},
		Structures: Structures{
			WoodHealth:        500,
			StoneHealth:       1500,
			MetalHealth:       4000,
			WoodMeleeFactor:   0.25,
			StoneMeleeFactor:  0.15,
			MetalMeleeFactor:  0.05,
			RepairPerHit:      50,
			RepairLockoutSecs: 300,
		},
		Plants: Plants{
			GrowthCheckSecs:   30,
			SeasonalSweepSecs: 300,
			CrowdNearPx:       30,
			CrowdMidPx:        50,
			CrowdFarPx:        80,
			CampfireHeatPx:    120,
			LanternLightPx:    100,
		},
		Combat: Combat{
			EquipmentTickSecs:   5,
			TorchBurnSecs:       900,
			FlashlightDrainSecs: 1800,
			DurabilityPerHit:    0.2,
		},
		Containers: Containers{
			BoxSlots:          18,
			LargeBoxSlots:     48,
			RefrigeratorSlots: 30,
		},
	}
}

// Load reads YAML overrides from path on top of the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning file %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning file %s: %w", path, err)
	}
	return t, nil
}

func (t *Tuning) Validate() error {
	el := errors.NewErrorList()

	if t.Time.DaySecs <= 0 || t.Time.NightSecs <= 0 {
		el.Add(fmt.Errorf("day and night lengths must be positive"))
	}
	if t.Time.YearDays < 1 {
		el.Add(fmt.Errorf("year_days must be at least 1"))
	}
	if t.Player.InventorySlots < 1 || t.Player.HotbarSlots < 1 {
		el.Add(fmt.Errorf("inventory and hotbar need at least one slot"))
	}
	if t.Spoilage.MinHours > t.Spoilage.MaxHours {
		el.Add(fmt.Errorf("spoilage min_hours exceeds max_hours"))
	}
	if t.Campfire.CharcoalChance < 0 || t.Campfire.CharcoalChance > 1 {
		el.Add(fmt.Errorf("charcoal_chance must be within [0, 1]"))
	}
	if t.Shelter.WidthPx <= 0 || t.Shelter.HeightPx <= 0 {
		el.Add(fmt.Errorf("shelter dimensions must be positive"))
	}
	if t.Structures.WoodHealth <= 0 || t.Structures.StoneHealth <= 0 || t.Structures.MetalHealth <= 0 {
		el.Add(fmt.Errorf("structure tier health must be positive"))
	}
	if t.Containers.BoxSlots < 1 || t.Containers.LargeBoxSlots < 1 || t.Containers.RefrigeratorSlots < 1 {
		el.Add(fmt.Errorf("container slot counts must be positive"))
	}

	return el.Err()
}
