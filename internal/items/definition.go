package items

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Category groups definitions by how the game uses them.
type Category uint8

const (
	CategoryMaterial Category = iota
	CategoryTool
	CategoryWeapon
	CategoryRangedWeapon
	CategoryAmmunition
	CategoryArmor
	CategoryConsumable
	CategoryPlaceable
)

func (c Category) String() string {
	switch c {
	case CategoryMaterial:
		return "material"
	case CategoryTool:
		return "tool"
	case CategoryWeapon:
		return "weapon"
	case CategoryRangedWeapon:
		return "ranged_weapon"
	case CategoryAmmunition:
		return "ammunition"
	case CategoryArmor:
		return "armor"
	case CategoryConsumable:
		return "consumable"
	case CategoryPlaceable:
		return "placeable"
	}
	return "unknown"
}

func parseCategory(s string) (Category, error) {
	switch s {
	case "material":
		return CategoryMaterial, nil
	case "tool":
		return CategoryTool, nil
	case "weapon":
		return CategoryWeapon, nil
	case "ranged_weapon":
		return CategoryRangedWeapon, nil
	case "ammunition":
		return CategoryAmmunition, nil
	case "armor":
		return CategoryArmor, nil
	case "consumable":
		return CategoryConsumable, nil
	case "placeable":
		return CategoryPlaceable, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// ConsumeEffects describes what consuming one unit of an item does to the
// consumer's vitals. Values may be negative.
type ConsumeEffects struct {
	Health float64 `json:"health,omitempty"`
	Hunger float64 `json:"hunger,omitempty"`
	Thirst float64 `json:"thirst,omitempty"`
	Warmth float64 `json:"warmth,omitempty"`
}

// CostEntry is one ingredient of a crafting or repair cost.
type CostEntry struct {
	Item     string `json:"item"`
	Quantity uint32 `json:"quantity"`
}

func (c *CostEntry) Validate() error {
	el := errors.NewErrorList()
	if c.Item == "" {
		el.Add(fmt.Errorf("item must be set"))
	}
	if c.Quantity == 0 {
		el.Add(fmt.Errorf("quantity must be positive"))
	}
	return el.Err()
}

// Definition is one entry of the read-only item catalog. Catalog entries are
// loaded from asset files at boot and never mutated afterwards.
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CategoryStr string `json:"category"`

	Stackable bool   `json:"stackable,omitempty"`
	StackSize uint32 `json:"stack_size,omitempty"`

	Equippable   bool   `json:"equippable,omitempty"`
	EquipSlotStr string `json:"equip_slot,omitempty"`

	// Melee and ranged behavior.
	DamageMin       float64 `json:"damage_min,omitempty"`
	DamageMax       float64 `json:"damage_max,omitempty"`
	AttackRange     float64 `json:"attack_range,omitempty"`
	AttackArcDeg    float64 `json:"attack_arc_deg,omitempty"`
	ProjectileSpeed float64 `json:"projectile_speed,omitempty"`
	AmmoItem        string  `json:"ammo_item,omitempty"`

	// Burn time in a campfire or furnace fuel slot. Positive means the item
	// is usable as fuel.
	FuelBurnSecs float64 `json:"fuel_burn_secs,omitempty"`

	// Cooking and smelting. A raw item transforms into CookedItem after
	// CookTimeSecs of lit processing; a cooked item left processing turns
	// into BurntItem.
	CookedItem   string  `json:"cooked_item,omitempty"`
	BurntItem    string  `json:"burnt_item,omitempty"`
	CookTimeSecs float64 `json:"cook_time_secs,omitempty"`

	Consume *ConsumeEffects `json:"consume,omitempty"`

	// Perishable food loses durability on the spoilage schedule. Cooked
	// halves the decay rate, Preserved items never spoil.
	Perishable bool `json:"perishable,omitempty"`
	Cooked     bool `json:"cooked,omitempty"`
	Preserved  bool `json:"preserved,omitempty"`

	// WaterCapacityL marks a fillable water container.
	WaterCapacityL float64 `json:"water_capacity_l,omitempty"`

	// Placeable deployables name the structure they become.
	Places string `json:"places,omitempty"`

	CraftingCost []CostEntry `json:"crafting_cost,omitempty"`
	CraftSecs    float64     `json:"craft_secs,omitempty"`

	// Breakable tools and weapons carry durability.
	Breakable bool `json:"breakable,omitempty"`
}

func (d *Definition) Category() Category {
	c, err := parseCategory(d.CategoryStr)
	if err != nil {
		return CategoryMaterial
	}
	return c
}

func (d *Definition) EquipSlot() (EquipSlot, bool) {
	if !d.Equippable {
		return 0, false
	}
	s, err := ParseEquipSlot(d.EquipSlotStr)
	if err != nil {
		return 0, false
	}
	return s, true
}

// MaxStack returns the stack limit for instances of this definition. A
// non-stackable definition always stacks to one.
func (d *Definition) MaxStack() uint32 {
	if !d.Stackable || d.StackSize == 0 {
		return 1
	}
	return d.StackSize
}

// IsFuel reports whether the item can occupy a fuel slot.
func (d *Definition) IsFuel() bool {
	return d.FuelBurnSecs > 0
}

// IsConsumable reports whether the item can be eaten or drunk.
func (d *Definition) IsConsumable() bool {
	return d.Consume != nil || d.WaterCapacityL > 0
}

func (d *Definition) Validate() error {
	el := errors.NewErrorList()

	if d.Name == "" {
		el.Add(fmt.Errorf("name must be set"))
	}
	if _, err := parseCategory(d.CategoryStr); err != nil {
		el.Add(err)
	}
	if d.Stackable && d.StackSize < 2 {
		el.Add(fmt.Errorf("stackable items need a stack_size of at least 2"))
	}
	if !d.Stackable && d.StackSize > 1 {
		el.Add(fmt.Errorf("stack_size set on a non-stackable item"))
	}
	if d.Equippable {
		if _, err := ParseEquipSlot(d.EquipSlotStr); err != nil {
			el.Add(err)
		}
	}
	if d.DamageMin < 0 || d.DamageMax < d.DamageMin {
		el.Add(fmt.Errorf("damage range [%f, %f] is invalid", d.DamageMin, d.DamageMax))
	}
	if d.FuelBurnSecs < 0 {
		el.Add(fmt.Errorf("fuel_burn_secs must not be negative"))
	}
	if d.CookedItem != "" && d.CookTimeSecs <= 0 {
		el.Add(fmt.Errorf("cookable items need a positive cook_time_secs"))
	}
	if d.Cooked && !d.Perishable {
		el.Add(fmt.Errorf("cooked is only meaningful on perishable items"))
	}
	if d.WaterCapacityL < 0 {
		el.Add(fmt.Errorf("water_capacity_l must not be negative"))
	}
	if d.Category() == CategoryPlaceable && d.Places == "" {
		el.Add(fmt.Errorf("placeable items must name what they place"))
	}
	for i := range d.CraftingCost {
		el.Add(d.CraftingCost[i].Validate())
	}

	return el.Err()
}
