package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-survival/internal/gateway"
	"github.com/pixil98/go-survival/internal/reducers"
)

// GatewayConfig describes the websocket endpoint game sessions connect to.
type GatewayConfig struct {
	Addr string `json:"addr"`
}

func (g *GatewayConfig) validate() error {
	el := errors.NewErrorList()

	if g.Addr == "" {
		el.Add(fmt.Errorf("addr is required"))
	}

	return el.Err()
}

func (g *GatewayConfig) BuildGateway(registry *reducers.Registry, signals gateway.Subscriber) *gateway.Gateway {
	return gateway.NewGateway(registry, signals, gateway.WithAddr(g.Addr))
}
