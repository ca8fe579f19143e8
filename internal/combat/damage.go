package combat

import "math/rand"

// DamageRoll picks a hit value uniformly across the weapon's range.
func DamageRoll(rng *rand.Rand, minDamage, maxDamage float64) float64 {
	if maxDamage <= minDamage {
		return minDamage
	}
	return minDamage + rng.Float64()*(maxDamage-minDamage)
}
