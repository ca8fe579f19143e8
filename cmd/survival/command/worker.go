package command

import (
	"context"
	"fmt"
	"time"

	"github.com/pixil98/go-service"
	"github.com/pixil98/go-survival/internal/console"
	"github.com/pixil98/go-survival/internal/driver"
	"github.com/pixil98/go-survival/internal/listener"
	"github.com/pixil98/go-survival/internal/messaging"
	"github.com/pixil98/go-survival/internal/reducers"
	"github.com/pixil98/go-survival/internal/world"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Create the embedded nats server; session events fan out through it.
	nats, err := cfg.Nats.BuildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	// Load the authored catalogs and pacing numbers.
	defs, err := cfg.Storage.BuildItemStore()
	if err != nil {
		return nil, fmt.Errorf("creating item store: %w", err)
	}
	plants, err := cfg.Storage.BuildPlantStore()
	if err != nil {
		return nil, fmt.Errorf("creating plant store: %w", err)
	}
	tun, err := cfg.Storage.LoadTuning()
	if err != nil {
		return nil, fmt.Errorf("loading tuning: %w", err)
	}
	zones, err := cfg.Zones.LoadZones()
	if err != nil {
		return nil, fmt.Errorf("loading monument zones: %w", err)
	}

	// The world registers schedule rows with the driver and the driver
	// ticks the world, so the driver is built empty and bound after.
	var driverOpts []driver.DriverOpt
	if cfg.TickInterval != "" {
		d, err := time.ParseDuration(cfg.TickInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing tick_interval: %w", err)
		}
		driverOpts = append(driverOpts, driver.WithTickLength(d))
	}
	drv := driver.NewDriver(nil, cfg.moduleIdentity(), driverOpts...)

	state := world.NewState(world.Config{
		Tuning:         tun,
		Definitions:    defs,
		PlantSpecies:   plants,
		Scheduler:      drv,
		Signals:        messaging.NewSignalPublisher(nats),
		ModuleIdentity: cfg.moduleIdentity(),
		Zones:          zones,
	})
	drv.Bind(state)

	workers := service.WorkerList{
		"nats":   nats,
		"driver": drv,
	}

	if cfg.Persistence.Enabled() {
		saver, err := cfg.Persistence.BuildWorker(state)
		if err != nil {
			return nil, fmt.Errorf("creating snapshot worker: %w", err)
		}
		// Load the last saved world before anything starts ticking.
		if err := saver.Restore(context.Background(), time.Now()); err != nil {
			return nil, fmt.Errorf("restoring world: %w", err)
		}
		workers["persistence"] = saver
	}

	registry := reducers.NewRegistry(state)
	workers["gateway"] = cfg.Gateway.BuildGateway(registry, nats)

	// Admin console listeners.
	if len(cfg.Listeners) > 0 {
		cm := listener.NewConnectionManager(console.NewAdmin(state))
		listeners := make(service.WorkerList, len(cfg.Listeners))
		for i, l := range cfg.Listeners {
			lst, err := l.BuildListener(cm)
			if err != nil {
				return nil, fmt.Errorf("creating listener %d: %w", i, err)
			}
			listeners[fmt.Sprintf("listener-%d", i)] = lst
		}
		workers["listeners"] = &listeners
	}

	return workers, nil
}
