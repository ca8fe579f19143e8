package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/pixil98/go-survival/internal/geometry"
	"github.com/pixil98/go-survival/internal/items"
	"github.com/pixil98/go-survival/internal/tuning"
	"github.com/pixil98/go-survival/internal/world"
	"github.com/pixil98/go-testutil"
)

type memStore[T interface{ Validate() error }] struct {
	m map[string]T
}

func (s *memStore[T]) Save(id string, o T) error { s.m[id] = o; return nil }
func (s *memStore[T]) Get(id string) T           { return s.m[id] }
func (s *memStore[T]) GetAll() map[string]T      { return s.m }

func newTestAdmin(t *testing.T) *Admin {
	t.Helper()
	state := world.NewState(world.Config{
		Tuning:         tuning.Default(),
		Definitions:    &memStore[*items.Definition]{m: map[string]*items.Definition{}},
		PlantSpecies:   &memStore[*world.PlantSpecies]{m: map[string]*world.PlantSpecies{}},
		ModuleIdentity: "survival-core",
	})
	if err := state.RegisterPlayer("alice", geometry.Vec{X: 100, Y: 100}); err != nil {
		t.Fatalf("registering: %v", err)
	}
	return NewAdmin(state)
}

// session feeds a script of commands through RunSession and returns the
// full transcript.
func session(t *testing.T, a *Admin, script string) string {
	t.Helper()
	var out bytes.Buffer
	conn := struct {
		io.Reader
		io.Writer
	}{strings.NewReader(script), &out}
	if err := a.RunSession(context.Background(), conn); err != nil {
		t.Fatalf("session: %v", err)
	}
	return out.String()
}

func TestConsoleCommands(t *testing.T) {
	tests := map[string]struct {
		script  string
		expText string
	}{
		"help":           {script: "help\n", expText: "set_weather"},
		"stats":          {script: "stats\n", expText: "players 1"},
		"players":        {script: "players\n", expText: "alice at (100, 100)"},
		"weather":        {script: "weather\n", expText: "weather: clear"},
		"force weather":  {script: "set_weather heavy_storm\n", expText: "weather: heavy_storm"},
		"reject unknown": {script: "teleport alice\n", expText: `unknown command "teleport"`},
		"bad weather":    {script: "set_weather sharknado\n", expText: "error:"},
		"invariants":     {script: "check\n", expText: "all invariants hold"},
		"quit":           {script: "quit\nweather\n", expText: "bye"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out := session(t, newTestAdmin(t), tt.script)
			if !strings.Contains(out, tt.expText) {
				t.Fatalf("transcript missing %q:\n%s", tt.expText, out)
			}
		})
	}
}

func TestQuitEndsTheSession(t *testing.T) {
	out := session(t, newTestAdmin(t), "quit\nstats\n")
	testutil.AssertEqual(t, "stats after quit", strings.Contains(out, "players 1"), false)
}
