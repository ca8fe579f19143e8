package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-survival/internal/persistence"
	"github.com/pixil98/go-survival/internal/world"
)

// PersistenceConfig controls world snapshots. An empty path disables
// them entirely; the world then lives and dies with the process.
type PersistenceConfig struct {
	Path         string `json:"path,omitempty"`
	SaveInterval string `json:"save_interval,omitempty"`
	Keep         int    `json:"keep,omitempty"`
}

func (p *PersistenceConfig) validate() error {
	el := errors.NewErrorList()

	if p.SaveInterval != "" {
		if _, err := time.ParseDuration(p.SaveInterval); err != nil {
			el.Add(fmt.Errorf("parsing save_interval: %w", err))
		}
	}
	if p.Keep < 0 {
		el.Add(fmt.Errorf("keep must not be negative"))
	}

	return el.Err()
}

func (p *PersistenceConfig) Enabled() bool {
	return p.Path != ""
}

func (p *PersistenceConfig) BuildWorker(state *world.State) (*persistence.Worker, error) {
	store, err := persistence.OpenStore(p.Path)
	if err != nil {
		return nil, err
	}

	var opts []persistence.WorkerOpt
	if p.SaveInterval != "" {
		d, err := time.ParseDuration(p.SaveInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing save_interval: %w", err)
		}
		opts = append(opts, persistence.WithSaveInterval(d))
	}
	if p.Keep > 0 {
		opts = append(opts, persistence.WithKeep(p.Keep))
	}

	return persistence.NewWorker(state, store, opts...), nil
}
