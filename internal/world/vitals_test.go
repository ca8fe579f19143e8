package world

import (
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestVitalsDrainWithTheClock(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")

	// First tick only establishes the baseline.
	if err := e.state.TickWorld(testModule, t0); err != nil {
		t.Fatalf("priming tick: %v", err)
	}
	if err := e.state.TickWorld(testModule, t0.Add(100*time.Second)); err != nil {
		t.Fatalf("tick: %v", err)
	}

	p, err := e.state.Player("alice")
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	tun := e.state.tun.Player
	testutil.AssertEqual(t, "hunger", p.Vitals.Hunger, MaxHunger*0.8-tun.HungerPerSec*100)
	testutil.AssertEqual(t, "thirst", p.Vitals.Thirst, MaxThirst*0.8-tun.ThirstPerSec*100)
	testutil.AssertEqual(t, "health untouched", p.Vitals.Health, float64(MaxHealth))
}

func TestEmptyMetersEatIntoHealth(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")

	s := e.state
	s.mu.Lock()
	s.players["alice"].Vitals.Hunger = 0
	s.players["alice"].Vitals.Thirst = 0
	s.mu.Unlock()

	if err := e.state.TickWorld(testModule, t0); err != nil {
		t.Fatalf("priming tick: %v", err)
	}
	if err := e.state.TickWorld(testModule, t0.Add(100*time.Second)); err != nil {
		t.Fatalf("tick: %v", err)
	}

	p, _ := e.state.Player("alice")
	// Two dry meters, 0.05 health each per second.
	testutil.AssertEqual(t, "health", p.Vitals.Health, 100-2*starvationPerSec*100)
	testutil.AssertEqual(t, "alive", p.Dead, false)
}

func TestOwnedShelterKeepsASurvivorWarm(t *testing.T) {
	e := newTestState(t)
	e.addPlayer(t, "alice")
	e.buildShelter(t, "alice")

	s := e.state
	s.mu.Lock()
	s.players["alice"].Vitals.Warmth = 10
	s.mu.Unlock()

	if err := e.state.TickWorld(testModule, t0); err != nil {
		t.Fatalf("priming tick: %v", err)
	}
	if err := e.state.TickWorld(testModule, t0.Add(60*time.Second)); err != nil {
		t.Fatalf("tick: %v", err)
	}

	p, _ := e.state.Player("alice")
	if p.Vitals.Warmth <= 10 {
		t.Fatalf("warmth did not rise inside the shelter: %v", p.Vitals.Warmth)
	}
}
