package reducers

import (
	"encoding/json"
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
)

type registerPlayerArgs struct {
	SpawnX float64 `json:"spawn_x"`
	SpawnY float64 `json:"spawn_y"`
}

type movePlayerArgs struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	FacingX float64 `json:"facing_x"`
	FacingY float64 `json:"facing_y"`
}

type setPvPArgs struct {
	Enabled bool `json:"enabled"`
}

func (r *Registry) registerPlayer() {
	r.register("register_player", func(identity string, raw json.RawMessage, _ time.Time) (any, error) {
		args, err := decode[registerPlayerArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		spawn := geometry.Vec{X: args.SpawnX, Y: args.SpawnY}
		return nil, wrap(r.state.RegisterPlayer(identity, spawn))
	})

	r.register("move_player", func(identity string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[movePlayerArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		pos := geometry.Vec{X: args.X, Y: args.Y}
		facing := geometry.Vec{X: args.FacingX, Y: args.FacingY}
		return nil, wrap(r.state.MovePlayer(identity, pos, facing, now))
	})

	r.register("set_pvp", func(identity string, raw json.RawMessage, _ time.Time) (any, error) {
		args, err := decode[setPvPArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.SetPvP(identity, args.Enabled))
	})

	r.register("get_player", func(identity string, _ json.RawMessage, _ time.Time) (any, error) {
		p, err := r.state.Player(identity)
		if err != nil {
			return nil, wrap(err)
		}
		return p, nil
	})
}
