package items

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Instance is one live stack of items in the world. Quantity is always
// positive; a stack that reaches zero is deleted, never stored empty.
type Instance struct {
	ID       uint64   `json:"id"`
	DefID    string   `json:"def_id"`
	Quantity uint32   `json:"quantity"`
	Data     Data     `json:"data,omitempty"`
	Location Location `json:"location"`
}

func NewInstance(id uint64, defID string, qty uint32, loc Location) *Instance {
	return &Instance{
		ID:       id,
		DefID:    defID,
		Quantity: qty,
		Location: loc,
	}
}

func (i *Instance) Validate() error {
	el := errors.NewErrorList()
	if i.DefID == "" {
		el.Add(fmt.Errorf("def_id must be set"))
	}
	if i.Quantity == 0 {
		el.Add(fmt.Errorf("quantity must be positive"))
	}
	return el.Err()
}

// CanStackWith reports whether other can merge into this stack: same
// definition, and the definition allows stacking.
func (i *Instance) CanStackWith(other *Instance, def *Definition) bool {
	if other == nil || i.DefID != other.DefID {
		return false
	}
	return def.MaxStack() > 1
}
