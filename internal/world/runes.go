package world

import (
	"strings"

	"github.com/pixil98/go-survival/internal/geometry"
)

// Rune stones are fixed monuments whose influence reaches far past their
// forbidden-placement radius. The zone name carries the color: a zone
// named "red_rune_west" is a red rune stone at that zone's center.
const (
	redRunePrefix   = "red_rune"
	greenRunePrefix = "green_rune"

	runeFieldRadiusPx = 2000.0

	// Work speed inside a matching rune field.
	runeWorkFactor = 2.0
	// Growth rate a green rune field pins plants to.
	greenRuneGrowthRate = 2.0
)

// inRuneFieldLocked reports whether the position sits inside the field of
// any rune stone of the given color.
func (s *State) inRuneFieldLocked(prefix string, pos geometry.Vec) bool {
	for _, z := range s.zones {
		if strings.HasPrefix(z.Name, prefix) && geometry.WithinRange(z.Center, pos, runeFieldRadiusPx) {
			return true
		}
	}
	return false
}
