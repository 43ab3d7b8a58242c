// If you are AI: This file implements the ingest Manager, which builds one Task per configured
// source and runs them together.

package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"flvstream/internal/config"
	"flvstream/internal/core/bus"
)

// ErrUnknownSource is returned by controls addressed to a name with no task.
var ErrUnknownSource = errors.New("unknown source")

// Manager owns every ingest task.
type Manager struct {
	tasks  []*Task
	byName map[string]*Task
	log    zerolog.Logger
}

// NewManager creates one task per source in cfg.
func NewManager(cfg *config.Config, registry *bus.Registry, client *http.Client, log zerolog.Logger) *Manager {
	m := &Manager{
		tasks:  make([]*Task, 0, len(cfg.Sources)),
		byName: make(map[string]*Task, len(cfg.Sources)),
		log:    log,
	}
	for _, src := range cfg.Sources {
		task := NewTask(src, cfg.Demux, registry, client, log)
		m.tasks = append(m.tasks, task)
		m.byName[src.Name] = task
	}
	return m
}

// Run runs every task until all have returned and reports the first failure.
// A failing task does not stop the others.
func (m *Manager) Run(ctx context.Context) error {
	var g errgroup.Group
	for _, task := range m.tasks {
		task := task
		g.Go(func() error {
			if err := task.Run(ctx); err != nil {
				return fmt.Errorf("source %s: %w", task.Name(), err)
			}
			return nil
		})
	}
	m.log.Info().Int("sources", len(m.tasks)).Msg("ingest started")
	return g.Wait()
}

// Tasks returns the tasks in configuration order.
func (m *Manager) Tasks() []*Task {
	return m.tasks
}

// Lookup returns the task for name.
func (m *Manager) Lookup(name string) (*Task, bool) {
	t, ok := m.byName[name]
	return t, ok
}

// Infos returns a snapshot of every task in configuration order.
func (m *Manager) Infos() []Info {
	infos := make([]Info, 0, len(m.tasks))
	for _, t := range m.tasks {
		infos = append(infos, t.Info())
	}
	return infos
}

// SeekToNextKeyframe routes a seek to the named source.
func (m *Manager) SeekToNextKeyframe(name string) error {
	t, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}
	return t.SeekToNextKeyframe()
}

// SetSkipFrames routes a skip toggle to the named source.
func (m *Manager) SetSkipFrames(name string, enabled bool) error {
	t, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}
	return t.SetSkipFrames(enabled)
}
