package items

import "fmt"

// MergeOutcome describes how many units move when a source stack merges
// into a target stack. The caller applies the quantities; Merge itself
// never mutates.
type MergeOutcome struct {
	// Moved is how many units transfer from source to target.
	Moved uint32
	// SourceLeft and TargetAfter are the resulting stack quantities.
	SourceLeft  uint32
	TargetAfter uint32
	// SourceEmptied is true when the whole source stack transferred and the
	// source instance must be deleted.
	SourceEmptied bool
}

// Merge computes the transfer of srcQty units into a target stack holding
// tgtQty, capped at maxStack. It fails without effect when the target has
// no room at all.
func Merge(srcQty, tgtQty, maxStack uint32) (MergeOutcome, error) {
	if srcQty == 0 {
		return MergeOutcome{}, fmt.Errorf("source stack is empty")
	}
	if tgtQty >= maxStack {
		return MergeOutcome{}, fmt.Errorf("target stack is full")
	}

	moved := maxStack - tgtQty
	if moved > srcQty {
		moved = srcQty
	}

	return MergeOutcome{
		Moved:         moved,
		SourceLeft:    srcQty - moved,
		TargetAfter:   tgtQty + moved,
		SourceEmptied: moved == srcQty,
	}, nil
}

// MergedDurability is the quantity-weighted freshness of a merged
// perishable stack: a large fresh stack absorbing a small stale one decays
// only slightly.
func MergedDurability(srcQty, tgtQty uint32, srcDur, tgtDur float64) float64 {
	total := srcQty + tgtQty
	if total == 0 {
		return tgtDur
	}
	return (float64(srcQty)*srcDur + float64(tgtQty)*tgtDur) / float64(total)
}

// Split computes the quantities after carving amount units off a stack of
// qty. The split must leave both halves non-empty; moving a whole stack is
// a move, not a split.
func Split(qty, amount uint32) (remaining uint32, err error) {
	if amount == 0 {
		return 0, fmt.Errorf("split amount must be positive")
	}
	if amount >= qty {
		return 0, fmt.Errorf("split amount %d must be less than stack size %d", amount, qty)
	}
	return qty - amount, nil
}
