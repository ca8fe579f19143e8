package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pixil98/go-survival/internal/messaging"
	"github.com/pixil98/go-survival/internal/reducers"
)

// request is one reducer invocation off the wire. Seq is opaque to the
// server and echoed back so clients can match replies to requests.
type request struct {
	Seq     uint64          `json:"seq"`
	Reducer string          `json:"reducer"`
	Args    json.RawMessage `json:"args"`
}

type response struct {
	Seq    uint64          `json:"seq"`
	Ok     bool            `json:"ok"`
	Result any             `json:"result,omitempty"`
	Error  *reducers.Error `json:"error,omitempty"`
}

// event wraps a signal-bus message forwarded to the client.
type event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Subscriber is the slice of the signal bus a session listens on.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Gateway is the client-facing websocket worker. Each connection gets a
// fresh identity; the client's first act is normally register_player.
type Gateway struct {
	addr     string
	registry *reducers.Registry
	signals  Subscriber

	upgrader websocket.Upgrader
}

func NewGateway(registry *reducers.Registry, signals Subscriber, opts ...GatewayOpt) *Gateway {
	g := &Gateway{
		addr:     ":8080",
		registry: registry,
		signals:  signals,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *Gateway) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.handleWS(ctx))

	srv := &http.Server{Addr: g.addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	slog.InfoContext(ctx, "gateway listening", "addr", g.addr)

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("gateway server: %w", err)
	}
}

func (g *Gateway) handleWS(ctx context.Context) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := g.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		identity := uuid.NewString()
		slog.InfoContext(ctx, "session opened", "identity", identity, "remote", conn.RemoteAddr())

		// One writer guards the connection; reducer replies and forwarded
		// signals share it.
		var writeMu sync.Mutex
		write := func(v any) error {
			writeMu.Lock()
			defer writeMu.Unlock()
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			return conn.WriteJSON(v)
		}

		unsubscribe := g.subscribeSignals(ctx, write)
		defer unsubscribe()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var req request
			if err := json.Unmarshal(msg, &req); err != nil {
				write(response{Ok: false, Error: &reducers.Error{
					Kind:    "invariant",
					Message: fmt.Sprintf("malformed envelope: %v", err),
				}})
				continue
			}
			result, err := g.registry.Invoke(identity, req.Reducer, req.Args, time.Now())
			resp := response{Seq: req.Seq, Ok: err == nil, Result: result}
			if err != nil {
				var re *reducers.Error
				if !errors.As(err, &re) {
					re = &reducers.Error{Kind: "invariant", Message: err.Error()}
				}
				resp.Error = re
			}
			if err := write(resp); err != nil {
				break
			}
		}

		slog.InfoContext(ctx, "session closed", "identity", identity)
	}
}

// subscribeSignals forwards the world's outgoing signal subjects down the
// socket. A gateway without a signal bus still works; clients just get no
// pushes.
func (g *Gateway) subscribeSignals(ctx context.Context, write func(v any) error) func() {
	if g.signals == nil {
		return func() {}
	}

	subjects := []string{
		messaging.SubjectSound,
		messaging.SubjectSoundLoop,
		messaging.SubjectWeather,
		messaging.SubjectThunder,
	}

	var cancels []func()
	for _, subject := range subjects {
		subject := subject
		cancel, err := g.signals.Subscribe(subject, func(data []byte) {
			write(event{Event: subject, Data: json.RawMessage(data)})
		})
		if err != nil {
			slog.WarnContext(ctx, "subscribing session", "subject", subject, "error", err)
			continue
		}
		cancels = append(cancels, cancel)
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}
