package items

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestMerge(t *testing.T) {
	tests := map[string]struct {
		srcQty   uint32
		tgtQty   uint32
		maxStack uint32
		exp      MergeOutcome
		expErr   string
	}{
		"full transfer": {
			srcQty:   3,
			tgtQty:   5,
			maxStack: 20,
			exp:      MergeOutcome{Moved: 3, SourceLeft: 0, TargetAfter: 8, SourceEmptied: true},
		},
		"partial transfer leaves remainder": {
			srcQty:   15,
			tgtQty:   10,
			maxStack: 20,
			exp:      MergeOutcome{Moved: 10, SourceLeft: 5, TargetAfter: 20},
		},
		"exact fill empties source": {
			srcQty:   10,
			tgtQty:   10,
			maxStack: 20,
			exp:      MergeOutcome{Moved: 10, SourceLeft: 0, TargetAfter: 20, SourceEmptied: true},
		},
		"target full refuses": {
			srcQty:   1,
			tgtQty:   20,
			maxStack: 20,
			expErr:   "target stack is full",
		},
		"empty source refuses": {
			srcQty:   0,
			tgtQty:   5,
			maxStack: 20,
			expErr:   "source stack is empty",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := Merge(tt.srcQty, tt.tgtQty, tt.maxStack)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "outcome", out, tt.exp)
		})
	}
}

func TestMergedDurability(t *testing.T) {
	tests := map[string]struct {
		srcQty, tgtQty uint32
		srcDur, tgtDur float64
		exp            float64
	}{
		"small stale into large fresh": {
			srcQty: 1, tgtQty: 3,
			srcDur: 20, tgtDur: 70,
			exp: 57.5,
		},
		"equal stacks average evenly": {
			srcQty: 5, tgtQty: 5,
			srcDur: 40, tgtDur: 80,
			exp: 60,
		},
		"degenerate zero quantities keep target": {
			srcQty: 0, tgtQty: 0,
			srcDur: 10, tgtDur: 90,
			exp: 90,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := MergedDurability(tt.srcQty, tt.tgtQty, tt.srcDur, tt.tgtDur)
			testutil.AssertEqual(t, "durability", got, tt.exp)
		})
	}
}

func TestSplit(t *testing.T) {
	tests := map[string]struct {
		qty, amount  uint32
		expRemaining uint32
		expErr       string
	}{
		"split middle": {
			qty: 10, amount: 4,
			expRemaining: 6,
		},
		"split off one": {
			qty: 2, amount: 1,
			expRemaining: 1,
		},
		"whole stack is not a split": {
			qty: 5, amount: 5,
			expErr: "must be less than stack size",
		},
		"over stack refuses": {
			qty: 5, amount: 6,
			expErr: "must be less than stack size",
		},
		"zero amount refuses": {
			qty: 5, amount: 0,
			expErr: "must be positive",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Split(tt.qty, tt.amount)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "remaining", got, tt.expRemaining)
		})
	}
}
