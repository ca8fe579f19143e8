package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-survival/internal/items"
	"github.com/pixil98/go-survival/internal/reducers"
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

func dialTestGateway(t *testing.T) *websocket.Conn {
	t.Helper()

	state := world.NewState(world.Config{
		Tuning:         tuning.Default(),
		Definitions:    &memStore[*items.Definition]{m: map[string]*items.Definition{}},
		PlantSpecies:   &memStore[*world.PlantSpecies]{m: map[string]*world.PlantSpecies{}},
		ModuleIdentity: "survival-core",
	})
	g := NewGateway(reducers.NewRegistry(state), nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.handleWS(context.Background()))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req request) response {
	t.Helper()
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("writing request: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("reading response: %v", err)
	}
	return resp
}

func TestSessionInvokesReducers(t *testing.T) {
	conn := dialTestGateway(t)

	args, _ := json.Marshal(map[string]float64{"spawn_x": 500, "spawn_y": 500})
	resp := roundTrip(t, conn, request{Seq: 1, Reducer: "register_player", Args: args})
	testutil.AssertEqual(t, "seq", resp.Seq, uint64(1))
	testutil.AssertEqual(t, "ok", resp.Ok, true)

	resp = roundTrip(t, conn, request{Seq: 2, Reducer: "get_player"})
	testutil.AssertEqual(t, "ok", resp.Ok, true)
}

func TestSessionGetsStructuredErrors(t *testing.T) {
	conn := dialTestGateway(t)

	resp := roundTrip(t, conn, request{Seq: 9, Reducer: "cast_fireball"})
	testutil.AssertEqual(t, "ok", resp.Ok, false)
	testutil.AssertEqual(t, "kind", resp.Error.Kind, "not_found")
	testutil.AssertEqual(t, "seq", resp.Seq, uint64(9))
}

func TestUnregisteredSessionHasNoPlayer(t *testing.T) {
	connA := dialTestGateway(t)

	resp := roundTrip(t, connA, request{Seq: 1, Reducer: "get_player"})
	testutil.AssertEqual(t, "ok", resp.Ok, false)
	testutil.AssertEqual(t, "kind", resp.Error.Kind, "not_found")
}

func TestMalformedEnvelopeDoesNotKillTheSession(t *testing.T) {
	conn := dialTestGateway(t)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"reducer": 7}`)); err != nil {
		t.Fatalf("writing: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("reading: %v", err)
	}
	testutil.AssertEqual(t, "ok", resp.Ok, false)

	// The connection still serves the next request.
	args, _ := json.Marshal(map[string]float64{"spawn_x": 0, "spawn_y": 0})
	resp = roundTrip(t, conn, request{Seq: 2, Reducer: "register_player", Args: args})
	testutil.AssertEqual(t, "ok", resp.Ok, true)
}
