package gateway

type GatewayOpt func(*Gateway)

// WithAddr sets the listen address for the websocket server
func WithAddr(addr string) GatewayOpt {
	return func(g *Gateway) {
		g.addr = addr
	}
}
