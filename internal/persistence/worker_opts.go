package persistence

import "time"

type WorkerOpt func(*Worker)

// WithSaveInterval sets how often the world is snapshotted.
func WithSaveInterval(d time.Duration) WorkerOpt {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithKeep sets how many snapshot rows are retained.
func WithKeep(n int) WorkerOpt {
	return func(w *Worker) {
		if n > 0 {
			w.keep = n
		}
	}
}
