package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-survival/internal/world"
)

const (
	DefaultSaveInterval = 5 * time.Minute
	DefaultKeep         = 10
)

// Worker periodically snapshots the world into the store and writes a
// final snapshot on shutdown.
type Worker struct {
	state *world.State
	store *Store

	interval time.Duration
	keep     int
}

func NewWorker(state *world.State, store *Store, opts ...WorkerOpt) *Worker {
	w := &Worker{
		state:    state,
		store:    store,
		interval: DefaultSaveInterval,
		keep:     DefaultKeep,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Restore loads the newest stored snapshot into the world. A missing or
// empty store is not an error; the world just starts fresh.
func (w *Worker) Restore(ctx context.Context, now time.Time) error {
	data, err := w.store.Latest()
	if err != nil {
		return err
	}
	if data == nil {
		slog.InfoContext(ctx, "no stored snapshot, starting a fresh world")
		return nil
	}
	if err := w.state.RestoreSnapshot(data, now); err != nil {
		return fmt.Errorf("restoring snapshot: %w", err)
	}
	slog.InfoContext(ctx, "world restored from snapshot", "bytes", len(data))
	return nil
}

func (w *Worker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "snapshot worker running", "interval", w.interval, "keep", w.keep)

	for {
		select {
		case now := <-ticker.C:
			if err := w.save(ctx, now); err != nil {
				// Keep running; the next tick will try again.
				slog.WarnContext(ctx, "snapshot save failed", "err", err)
			}
		case <-ctx.Done():
			if err := w.save(context.Background(), time.Now()); err != nil {
				slog.Warn("final snapshot save failed", "err", err)
			}
			return nil
		}
	}
}

func (w *Worker) save(ctx context.Context, now time.Time) error {
	data, err := w.state.Snapshot(now)
	if err != nil {
		return fmt.Errorf("serializing world: %w", err)
	}
	if err := w.store.Save(now, data); err != nil {
		return err
	}
	if err := w.store.Prune(w.keep); err != nil {
		return err
	}
	slog.DebugContext(ctx, "world snapshot saved", "bytes", len(data))
	return nil
}
