package world

import (
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestClockPhases(t *testing.T) {
	tests := map[string]struct {
		progress float64
		exp      TimeOfDay
	}{
		"start of cycle": {progress: 0.0, exp: Dawn},
		"mid morning":    {progress: 0.2, exp: Morning},
		"high sun":       {progress: 0.45, exp: Noon},
		"late day":       {progress: 0.6, exp: Afternoon},
		"sun setting":    {progress: 0.73, exp: Dusk},
		"fading light":   {progress: 0.78, exp: TwilightEvening},
		"dark":           {progress: 0.85, exp: Night},
		"deep dark":      {progress: 0.95, exp: Midnight},
		"before sunrise": {progress: 0.98, exp: TwilightMorning},
		"almost wrapped": {progress: 0.9999, exp: TwilightMorning},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := Clock{CycleProgress: tt.progress}
			testutil.AssertEqual(t, "phase", c.Phase(), tt.exp)
		})
	}
}

func TestClockAdvanceWrapsDays(t *testing.T) {
	e := newTestState(t)
	tun := e.state.tun.Time
	cycle := time.Duration(tun.DaySecs+tun.NightSecs) * time.Second

	// First tick only primes LastTick.
	if err := e.state.TickWorld(testModule, t0); err != nil {
		t.Fatalf("priming tick: %v", err)
	}
	if err := e.state.TickWorld(testModule, t0.Add(cycle+cycle/2)); err != nil {
		t.Fatalf("advancing: %v", err)
	}

	c := e.state.Clock()
	testutil.AssertEqual(t, "cycles completed", c.CycleCount, uint64(1))
	testutil.AssertEqual(t, "day of year", c.DayOfYear, 2)
	if c.CycleProgress < 0.49 || c.CycleProgress > 0.51 {
		t.Fatalf("expected half-cycle progress, got %f", c.CycleProgress)
	}
}

func TestClockNeverRunsBackwards(t *testing.T) {
	e := newTestState(t)
	if err := e.state.TickWorld(testModule, t0); err != nil {
		t.Fatalf("priming tick: %v", err)
	}
	if err := e.state.TickWorld(testModule, t0.Add(10*time.Second)); err != nil {
		t.Fatalf("advancing: %v", err)
	}
	before := e.state.Clock()

	// A skewed earlier timestamp must not rewind progress.
	if err := e.state.TickWorld(testModule, t0.Add(5*time.Second)); err != nil {
		t.Fatalf("skewed tick: %v", err)
	}
	after := e.state.Clock()
	testutil.AssertEqual(t, "progress", after.CycleProgress, before.CycleProgress)
}

func TestTickWorldRequiresModuleIdentity(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")

	err := e.state.TickWorld("alice", t0)
	testutil.AssertErrorContains(t, err, "not the module identity")
}

func TestSeasonQuarters(t *testing.T) {
	tests := map[string]struct {
		day int
		exp Season
	}{
		"first day":   {day: 1, exp: Spring},
		"spring edge": {day: 90, exp: Spring},
		"summer":      {day: 91, exp: Summer},
		"autumn":      {day: 200, exp: Autumn},
		"winter":      {day: 271, exp: Winter},
		"last day":    {day: 360, exp: Winter},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := Clock{DayOfYear: tt.day, yearDays: 360}
			testutil.AssertEqual(t, "season", c.Season(), tt.exp)
		})
	}
}

func TestDebugSetTime(t *testing.T) {
	e := newTestState(t)
	if err := e.state.DebugSetTime("midnight"); err != nil {
		t.Fatalf("jumping clock: %v", err)
	}
	c := e.state.Clock()
	testutil.AssertEqual(t, "phase", c.Phase(), Midnight)

	err := e.state.DebugSetTime("elevenses")
	testutil.AssertErrorContains(t, err, "unknown time of day")
}
