package items

import (
	"encoding/json"
	"fmt"
)

// Data is the per-instance state blob. It round-trips keys it does not
// recognize, so older snapshots and newer servers can exchange instances
// without losing fields.
type Data map[string]json.RawMessage

const (
	dataKeyDurability    = "durability"
	dataKeyMaxDurability = "max_durability"
	dataKeyRepairCount   = "repair_count"
	dataKeyWaterLiters   = "water_liters"
	dataKeyIsSaltWater   = "is_salt_water"
)

// MaxDurability is the durability ceiling for a fresh instance.
const MaxDurability = 100.0

// Set marshals v into the blob under key.
func (d *Data) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	if *d == nil {
		*d = Data{}
	}
	(*d)[key] = raw
	return nil
}

// Get unmarshals the value under key into out. It returns false when the
// key is absent.
func (d Data) Get(key string, out any) (bool, error) {
	raw, ok := d[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("unmarshaling %s: %w", key, err)
	}
	return true, nil
}

// Delete removes key from the blob.
func (d Data) Delete(key string) {
	delete(d, key)
}

// Clone deep-copies the blob so a split stack does not alias its source.
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	out := make(Data, len(d))
	for k, v := range d {
		raw := make(json.RawMessage, len(v))
		copy(raw, v)
		out[k] = raw
	}
	return out
}

func (d Data) getFloat(key string, def float64) float64 {
	var v float64
	ok, err := d.Get(key, &v)
	if err != nil || !ok {
		return def
	}
	return v
}

// Durability returns the stored durability, or the full ceiling when the
// instance has never been damaged.
func (d Data) Durability() float64 {
	return d.getFloat(dataKeyDurability, d.MaxDurabilityValue())
}

// MaxDurabilityValue returns the instance's durability ceiling. Repairs
// lower it below the fresh-instance maximum.
func (d Data) MaxDurabilityValue() float64 {
	return d.getFloat(dataKeyMaxDurability, MaxDurability)
}

// SetDurability stores v clamped to [0, ceiling].
func (d *Data) SetDurability(v float64) {
	maxV := d.MaxDurabilityValue()
	if v > maxV {
		v = maxV
	}
	if v < 0 {
		v = 0
	}
	_ = d.Set(dataKeyDurability, v)
}

// SetMaxDurability stores a new durability ceiling and re-clamps the
// current durability under it.
func (d *Data) SetMaxDurability(v float64) {
	if v < 0 {
		v = 0
	}
	cur := d.Durability()
	_ = d.Set(dataKeyMaxDurability, v)
	if cur > v {
		_ = d.Set(dataKeyDurability, v)
	}
}

// RepairCount returns how many times the instance has been repaired.
func (d Data) RepairCount() uint32 {
	var v uint32
	ok, err := d.Get(dataKeyRepairCount, &v)
	if err != nil || !ok {
		return 0
	}
	return v
}

func (d *Data) SetRepairCount(v uint32) {
	_ = d.Set(dataKeyRepairCount, v)
}

// WaterLiters returns the stored water volume of a fillable container.
func (d Data) WaterLiters() float64 {
	return d.getFloat(dataKeyWaterLiters, 0)
}

func (d *Data) SetWaterLiters(v float64) {
	if v < 0 {
		v = 0
	}
	_ = d.Set(dataKeyWaterLiters, v)
}

// IsSaltWater reports whether the stored water is undrinkable sea water.
func (d Data) IsSaltWater() bool {
	var v bool
	ok, err := d.Get(dataKeyIsSaltWater, &v)
	if err != nil || !ok {
		return false
	}
	return v
}

func (d *Data) SetIsSaltWater(v bool) {
	_ = d.Set(dataKeyIsSaltWater, v)
}
