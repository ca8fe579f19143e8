package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

const defaultModuleIdentity = "survival-core"

type Config struct {
	// ModuleIdentity is the caller name the tick driver presents to
	// maintenance reducers. Sessions can never use it.
	ModuleIdentity string `json:"module_identity"`
	TickInterval   string `json:"tick_interval"`

	Listeners   []ListenerConfig  `json:"listeners"`
	Gateway     GatewayConfig     `json:"gateway"`
	Storage     StorageConfig     `json:"storage"`
	Nats        NatsConfig        `json:"nats"`
	Zones       ZoneConfig        `json:"zones"`
	Persistence PersistenceConfig `json:"persistence"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing tick_interval: %w", err))
		} else if d < 100*time.Millisecond {
			el.Add(fmt.Errorf("tick_interval must be at least 100ms"))
		}
	}

	for i, l := range c.Listeners {
		if err := l.validate(); err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Gateway.validate())
	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Persistence.validate())

	return el.Err()
}

func (c *Config) moduleIdentity() string {
	if c.ModuleIdentity != "" {
		return c.ModuleIdentity
	}
	return defaultModuleIdentity
}
