package worker

import (
	"context"
	"log/slog"
	"sync"
)

// Manager runs a set of workers until the context is cancelled. Worker
// failures are logged but do not stop the other workers; the first failure
// is reported once everything has shut down.
type Manager struct {
	workers []Worker

	mu       sync.Mutex
	firstErr error
}

func NewManager(ws ...Worker) *Manager {
	return &Manager{workers: ws}
}

func (m *Manager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, w := range m.workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			slog.Info("worker: starting", "name", w.Name())
			err := w.Start(ctx)
			if err != nil && ctx.Err() == nil {
				slog.Error("worker: exited with error", "name", w.Name(), "error", err)
				m.setErr(err)
				return
			}
			slog.Info("worker: stopped", "name", w.Name())
		}(w)
	}

	<-ctx.Done()
	wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.firstErr
}

func (m *Manager) setErr(err error) {
	m.mu.Lock()
	if m.firstErr == nil {
		m.firstErr = err
	}
	m.mu.Unlock()
}
