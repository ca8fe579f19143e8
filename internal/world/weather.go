package world

import (
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
)

type Weather uint8

const (
	Clear Weather = iota
	LightRain
	ModerateRain
	HeavyRain
	HeavyStorm
)

func (w Weather) String() string {
	switch w {
	case Clear:
		return "clear"
	case LightRain:
		return "light_rain"
	case ModerateRain:
		return "moderate_rain"
	case HeavyRain:
		return "heavy_rain"
	case HeavyStorm:
		return "heavy_storm"
	}
	return "unknown"
}

// Raining reports whether any precipitation is falling.
func (w Weather) Raining() bool {
	return w != Clear
}

// Severe reports whether the rain is strong enough to put out open fires.
func (w Weather) Severe() bool {
	return w == HeavyRain || w == HeavyStorm
}

func parseWeather(s string) (Weather, bool) {
	for _, w := range []Weather{Clear, LightRain, ModerateRain, HeavyRain, HeavyStorm} {
		if w.String() == s {
			return w, true
		}
	}
	return Clear, false
}

const (
	baseRainChance     = 0.6
	minRainGap         = 10 * time.Minute
	weatherChecksEvery = time.Minute
)

// WeatherState is the weather singleton.
type WeatherState struct {
	Current       Weather
	RainIntensity float64
	StartedAt     time.Time
	Duration      time.Duration
	LastRainEnd   time.Time
	LastThunderAt time.Time
	NextThunderAt time.Time

	nextCheckAt time.Time
}

func newWeatherState() WeatherState {
	return WeatherState{Current: Clear}
}

// Weather returns a copy of the weather singleton.
func (s *State) Weather() WeatherState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weather
}

func (s *State) updateWeatherLocked(now time.Time) {
	w := &s.weather

	if w.Current.Raining() {
		if now.Sub(w.StartedAt) >= w.Duration {
			s.setWeatherLocked(Clear, now)
			return
		}
		if w.Current == HeavyStorm && !now.Before(w.NextThunderAt) {
			w.LastThunderAt = now
			w.NextThunderAt = now.Add(time.Duration(10+s.rng.Intn(30)) * time.Second)
			s.signals.Thunder(now)
		}
		return
	}

	if now.Before(w.nextCheckAt) {
		return
	}
	w.nextCheckAt = now.Add(weatherChecksEvery)

	if now.Sub(w.LastRainEnd) < minRainGap {
		return
	}
	if s.rng.Float64() >= s.rainChanceLocked() {
		if s.rng.Float64() < wispChance {
			worldPx := float64(geometry.WorldWidthTiles * geometry.TileSizePx)
			pos := geometry.Vec{X: s.rng.Float64() * worldPx, Y: s.rng.Float64() * worldPx}
			s.spawnCloudLocked(pos, wispOpacity, time.Duration(5+s.rng.Intn(10))*time.Minute, now)
		}
		return
	}

	s.setWeatherLocked(s.rollRainClassLocked(), now)
}

// rainChanceLocked is the per-check probability of rain starting, shaped
// by season and time of day.
func (s *State) rainChanceLocked() float64 {
	season := 1.0
	switch s.clock.Season() {
	case Spring:
		season = 1.2
	case Summer:
		season = 0.8
	case Autumn:
		season = 1.1
	}

	tod := 1.0
	if s.clock.Phase().IsDark() {
		tod = 1.1
	}

	// Scaled down because the roll repeats every check interval.
	return baseRainChance * season * tod / 10
}

func (s *State) rollRainClassLocked() Weather {
	r := s.rng.Float64()
	switch {
	case r < 0.4:
		return LightRain
	case r < 0.7:
		return ModerateRain
	case r < 0.9:
		return HeavyRain
	}
	return HeavyStorm
}

func rainIntensity(w Weather) float64 {
	switch w {
	case LightRain:
		return 0.3
	case ModerateRain:
		return 0.6
	case HeavyRain:
		return 0.85
	case HeavyStorm:
		return 1.0
	}
	return 0
}

func (s *State) setWeatherLocked(w Weather, now time.Time) {
	prev := s.weather.Current
	if prev == w {
		return
	}

	s.weather.Current = w
	s.weather.RainIntensity = rainIntensity(w)

	if w.Raining() {
		s.weather.StartedAt = now
		s.weather.Duration = time.Duration(3+s.rng.Intn(8)) * time.Minute
		if w == HeavyStorm {
			s.weather.NextThunderAt = now.Add(time.Duration(5+s.rng.Intn(20)) * time.Second)
		}
		if !prev.Raining() {
			s.startContinuousLocked(rainSoundObjectID, SoundRainLoop, s.weather.StartedAt)
		}
		s.spawnRainDeckLocked(s.weather.RainIntensity, s.weather.Duration, now)
	} else {
		s.weather.LastRainEnd = now
		s.stopContinuousLocked(rainSoundObjectID)
	}

	if w.Severe() {
		s.extinguishExposedFiresLocked(now)
	}

	s.signals.WeatherChanged(s.weather)
}

// DebugSetWeather forces the named weather immediately.
func (s *State) DebugSetWeather(name string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := parseWeather(name)
	if !ok {
		return Errorf(ErrNotFound, "unknown weather %q", name)
	}
	s.setWeatherLocked(w, now)
	return nil
}
