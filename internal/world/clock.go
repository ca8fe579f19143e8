package world

import (
	"time"

	"github.com/pixil98/go-survival/internal/tuning"
)

// TimeOfDay is the phase derived from cycle progress.
type TimeOfDay uint8

const (
	Dawn TimeOfDay = iota
	Morning
	Noon
	Afternoon
	Dusk
	TwilightEvening
	Night
	Midnight
	TwilightMorning
)

func (t TimeOfDay) String() string {
	switch t {
	case Dawn:
		return "dawn"
	case Morning:
		return "morning"
	case Noon:
		return "noon"
	case Afternoon:
		return "afternoon"
	case Dusk:
		return "dusk"
	case TwilightEvening:
		return "twilight_evening"
	case Night:
		return "night"
	case Midnight:
		return "midnight"
	case TwilightMorning:
		return "twilight_morning"
	}
	return "unknown"
}

// IsDark reports whether ambient light is gone.
func (t TimeOfDay) IsDark() bool {
	return t == Night || t == Midnight
}

type Season uint8

const (
	Spring Season = iota
	Summer
	Autumn
	Winter
)

func (s Season) String() string {
	switch s {
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Autumn:
		return "autumn"
	case Winter:
		return "winter"
	}
	return "unknown"
}

// Clock is the world time singleton. CycleProgress wraps in [0, 1); each
// wrap is one full day/night revolution.
type Clock struct {
	CycleProgress float64
	CycleCount    uint64
	DayOfYear     int
	Year          int
	FullMoon      bool
	LastTick      time.Time

	cycleSecs     float64
	yearDays      int
	fullMoonCycle int
}

func newClock(t tuning.Time) Clock {
	return Clock{
		DayOfYear:     1,
		Year:          1,
		cycleSecs:     t.DaySecs + t.NightSecs,
		yearDays:      t.YearDays,
		fullMoonCycle: t.FullMoonCycleDays,
	}
}

// Phase maps cycle progress to its time-of-day band.
func (c *Clock) Phase() TimeOfDay {
	p := c.CycleProgress
	switch {
	case p < 0.05:
		return Dawn
	case p < 0.35:
		return Morning
	case p < 0.55:
		return Noon
	case p < 0.72:
		return Afternoon
	case p < 0.76:
		return Dusk
	case p < 0.80:
		return TwilightEvening
	case p < 0.92:
		return Night
	case p < 0.97:
		return Midnight
	}
	return TwilightMorning
}

func (c *Clock) Season() Season {
	quarter := c.yearDays / 4
	switch {
	case c.DayOfYear <= quarter:
		return Spring
	case c.DayOfYear <= 2*quarter:
		return Summer
	case c.DayOfYear <= 3*quarter:
		return Autumn
	}
	return Winter
}

// advance moves the clock to now. Progress only ever moves forward; a zero
// or negative elapsed still rewrites LastTick so a skewed caller cannot
// bank time.
func (c *Clock) advance(now time.Time) {
	prev := c.LastTick
	c.LastTick = now
	if prev.IsZero() {
		return
	}
	elapsed := now.Sub(prev).Seconds()
	if elapsed <= 0 {
		return
	}

	c.CycleProgress += elapsed / c.cycleSecs
	for c.CycleProgress >= 1 {
		c.CycleProgress -= 1
		c.CycleCount++
		c.DayOfYear++
		if c.DayOfYear > c.yearDays {
			c.DayOfYear = 1
			c.Year++
		}
	}

	if c.fullMoonCycle > 0 {
		c.FullMoon = c.CycleCount > 0 && c.CycleCount%uint64(c.fullMoonCycle) == 0
	}
}

// Clock returns a copy of the time singleton.
func (s *State) Clock() Clock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// TickWorld is the scheduled world-state reducer: it advances the clock
// and rolls the weather. Only the module identity may call it; players
// drive the same path implicitly through movement.
func (s *State) TickWorld(caller string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireModule(caller); err != nil {
		return err
	}
	s.tickWorldLocked(now)
	return nil
}

func (s *State) tickWorldLocked(now time.Time) {
	prev := s.clock.LastTick
	s.clock.advance(now)
	if prev.IsZero() {
		return
	}
	s.updateWeatherLocked(now)
	if elapsed := now.Sub(prev).Seconds(); elapsed > 0 {
		s.driftCloudsLocked(elapsed, now)
		s.tickVitalsLocked(elapsed, now)
	}
}

func (s *State) requireModule(caller string) error {
	if caller != s.ModuleIdentity {
		return Errorf(ErrAuthorization, "caller %q is not the module identity", caller)
	}
	return nil
}

// DebugSetTime jumps the clock to the start of the named phase.
func (s *State) DebugSetTime(phase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	targets := map[string]float64{
		"dawn":             0.0,
		"morning":          0.05,
		"noon":             0.35,
		"afternoon":        0.55,
		"dusk":             0.72,
		"twilight_evening": 0.76,
		"night":            0.80,
		"midnight":         0.92,
		"twilight_morning": 0.97,
	}
	p, ok := targets[phase]
	if !ok {
		return Errorf(ErrNotFound, "unknown time of day %q", phase)
	}
	s.clock.CycleProgress = p
	return nil
}
