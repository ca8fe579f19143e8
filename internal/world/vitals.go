package world

import "time"

// Per-second attrition when a survival meter has run dry.
const starvationPerSec = 0.05

// Warmth loss per second in the cold of night.
const nightChillPerSec = 0.05

// tickVitalsLocked advances every living survivor's meters by the elapsed
// wall time.
func (s *State) tickVitalsLocked(elapsedSecs float64, now time.Time) {
	dark := s.clock.Phase().IsDark()

	for _, p := range s.players {
		if p.Dead {
			continue
		}

		warmth := s.campfireWarmthAtLocked(p.Pos)
		if sh := s.shelterContainingLocked(p.Pos); sh != nil && sh.Owner == p.Identity {
			warmth += s.tun.Shelter.WarmthPerSec
		}
		if dark {
			warmth -= nightChillPerSec
		}

		p.Vitals.Apply(0,
			-s.tun.Player.HungerPerSec*elapsedSecs,
			-s.tun.Player.ThirstPerSec*elapsedSecs,
			warmth*elapsedSecs)

		drain := 0.0
		if p.Vitals.Hunger <= 0 {
			drain += starvationPerSec
		}
		if p.Vitals.Thirst <= 0 {
			drain += starvationPerSec
		}
		if p.Vitals.Warmth <= 0 {
			drain += starvationPerSec
		}
		if drain > 0 {
			s.damagePlayerLocked(p, drain*elapsedSecs, now)
		}
	}
}
