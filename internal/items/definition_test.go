package items

import (
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-survival/internal/geometry"
)

func TestDefinition_Validate(t *testing.T) {
	tests := map[string]struct {
		def    Definition
		expErr string
	}{
		"minimal material": {
			def: Definition{Name: "Stone", CategoryStr: "material"},
		},
		"stackable with size": {
			def: Definition{Name: "Wood", CategoryStr: "material", Stackable: true, StackSize: 50},
		},
		"missing name": {
			def:    Definition{CategoryStr: "material"},
			expErr: "name must be set",
		},
		"bad category": {
			def:    Definition{Name: "X", CategoryStr: "gadget"},
			expErr: "unknown category",
		},
		"stackable without size": {
			def:    Definition{Name: "Wood", CategoryStr: "material", Stackable: true},
			expErr: "stack_size of at least 2",
		},
		"equippable without slot": {
			def:    Definition{Name: "Vest", CategoryStr: "armor", Equippable: true},
			expErr: "unknown equip slot",
		},
		"inverted damage range": {
			def:    Definition{Name: "Club", CategoryStr: "weapon", DamageMin: 10, DamageMax: 5},
			expErr: "damage range",
		},
		"cookable without cook time": {
			def:    Definition{Name: "Raw Meat", CategoryStr: "consumable", CookedItem: "cooked-meat"},
			expErr: "cook_time_secs",
		},
		"placeable without target": {
			def:    Definition{Name: "Box Kit", CategoryStr: "placeable"},
			expErr: "must name what they place",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefinition_MaxStack(t *testing.T) {
	tests := map[string]struct {
		def Definition
		exp uint32
	}{
		"stackable":         {def: Definition{Stackable: true, StackSize: 50}, exp: 50},
		"non-stackable":     {def: Definition{}, exp: 1},
		"stackable no size": {def: Definition{Stackable: true}, exp: 1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "max stack", tt.def.MaxStack(), tt.exp)
		})
	}
}

func TestLocation_PlayerBound(t *testing.T) {
	tests := map[string]struct {
		loc      Location
		expOwner string
		expOK    bool
	}{
		"inventory": {loc: InInventory("alice", 3), expOwner: "alice", expOK: true},
		"hotbar":    {loc: InHotbar("bob", 0), expOwner: "bob", expOK: true},
		"equipped":  {loc: EquippedBy("carol", EquipChest), expOwner: "carol", expOK: true},
		"container": {loc: InContainer(ContainerBox, 7, 2), expOK: false},
		"dropped":   {loc: DroppedAt(geometry.Vec{X: 10, Y: 20}), expOK: false},
		"unknown":   {loc: Unknown(), expOK: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			owner, ok := tt.loc.PlayerBound()
			testutil.AssertEqual(t, "ok", ok, tt.expOK)
			testutil.AssertEqual(t, "owner", owner, tt.expOwner)
		})
	}
}
