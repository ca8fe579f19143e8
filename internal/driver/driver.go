package driver

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	DefaultTickLength = time.Second
)

// Core is the slice of the world the driver pokes on a timer. Every method
// is a maintenance reducer: the driver supplies the module identity and the
// world decides what, if anything, still needs doing.
type Core interface {
	TickWorld(caller string, now time.Time) error
	ProcessCampfire(caller string, id uint64, now time.Time) error
	ProcessFurnace(caller string, id uint64, now time.Time) error
	ProcessLantern(caller string, id uint64, now time.Time) error
	CheckPlantGrowth(caller string, now time.Time) error
	ManageSeasonalPlants(caller string, now time.Time) error
	ProcessFoodSpoilage(caller string, now time.Time) error
	ProcessTorchDurability(caller string, now time.Time) error
	UpdateViperSpittle(caller string, now time.Time) error
	CleanupOldSoundEvents(caller string, now time.Time) error
	ReapDestroyed(caller, kind string, id uint64) error
}

type rowKey struct {
	kind string
	id   uint64
}

// row is one pending firing. Periodic rows keep rescheduling themselves;
// one-shot rows are removed before they run.
type row struct {
	key   rowKey
	at    time.Time
	every time.Duration
}

// Driver owns the schedule table and the world tick. The world registers
// rows through the TickScheduler methods while holding its own lock, so
// those methods must never call back into the core.
type Driver struct {
	identity   string
	tickLength time.Duration

	mu   sync.Mutex
	rows map[rowKey]*row

	core Core
}

func NewDriver(core Core, identity string, opts ...DriverOpt) *Driver {
	d := &Driver{
		identity:   identity,
		tickLength: DefaultTickLength,
		rows:       make(map[rowKey]*row),
		core:       core,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Bind attaches the core the driver ticks. The world and the driver
// reference each other, so one of them has to be wired late; rows
// registered before Bind are kept.
func (d *Driver) Bind(core Core) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.core = core
}

// SchedulePeriodic adds or refreshes a repeating row. The first firing is
// one interval out.
func (d *Driver) SchedulePeriodic(kind string, id uint64, every time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := rowKey{kind, id}
	d.rows[key] = &row{key: key, at: time.Now().Add(every), every: every}
}

// ScheduleOnce adds a single firing at the given time.
func (d *Driver) ScheduleOnce(kind string, id uint64, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := rowKey{kind, id}
	d.rows[key] = &row{key: key, at: at}
}

// Cancel drops the row if it exists.
func (d *Driver) Cancel(kind string, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.rows, rowKey{kind, id})
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			d.Tick(ctx, now)
		}
	}
}

func (d *Driver) Tick(ctx context.Context, now time.Time) {
	if d.core == nil {
		return
	}
	if err := d.core.TickWorld(d.identity, now); err != nil {
		slog.WarnContext(ctx, "world tick", "error", err)
	}

	for _, r := range d.takeDue(now) {
		if err := d.dispatch(r, now); err != nil {
			slog.WarnContext(ctx, "maintenance tick", "kind", r.key.kind, "id", r.key.id, "error", err)
		}
	}
}

// takeDue pulls every row that has come due. Periodic rows are pushed
// forward past now; one-shot rows are removed. Rows fire in a stable
// order so a run over the same table is repeatable.
func (d *Driver) takeDue(now time.Time) []*row {
	d.mu.Lock()
	defer d.mu.Unlock()

	var due []*row
	for key, r := range d.rows {
		if r.at.After(now) {
			continue
		}
		due = append(due, r)
		if r.every > 0 {
			for !r.at.After(now) {
				r.at = r.at.Add(r.every)
			}
		} else {
			delete(d.rows, key)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].key.kind != due[j].key.kind {
			return due[i].key.kind < due[j].key.kind
		}
		return due[i].key.id < due[j].key.id
	})
	return due
}

func (d *Driver) dispatch(r *row, now time.Time) error {
	kind, id := r.key.kind, r.key.id
	if strings.HasPrefix(kind, "reap_") {
		return d.core.ReapDestroyed(d.identity, kind, id)
	}
	switch kind {
	case "campfire":
		return d.core.ProcessCampfire(d.identity, id, now)
	case "furnace":
		return d.core.ProcessFurnace(d.identity, id, now)
	case "lantern":
		return d.core.ProcessLantern(d.identity, id, now)
	case "plant_growth":
		return d.core.CheckPlantGrowth(d.identity, now)
	case "seasonal_plants":
		return d.core.ManageSeasonalPlants(d.identity, now)
	case "food_spoilage":
		return d.core.ProcessFoodSpoilage(d.identity, now)
	case "torch_durability":
		return d.core.ProcessTorchDurability(d.identity, now)
	case "viper_spittle":
		return d.core.UpdateViperSpittle(d.identity, now)
	case "sound_cleanup":
		return d.core.CleanupOldSoundEvents(d.identity, now)
	}
	// An unknown kind is a programming error somewhere; drop the row
	// rather than spin on it.
	d.Cancel(kind, id)
	return nil
}
