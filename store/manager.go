// store/manager.go
package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Manager opens the store once and hands the same handle to every caller.
type Manager struct {
	connStr  string
	database string
	log      zerolog.Logger

	mu    sync.Mutex
	store Store
	ready atomic.Bool
}

func NewManager(connStr, database string, log zerolog.Logger) *Manager {
	return &Manager{
		connStr:  connStr,
		database: database,
		log:      log.With().Str("component", "store").Logger(),
	}
}

// Connect opens the backend on first use. Later calls return the open
// handle without dialing again.
func (m *Manager) Connect(ctx context.Context) (Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store != nil {
		m.log.Debug().Msg("already connected to store")
		return m.store, nil
	}

	s, err := open(ctx, m.connStr, m.database)
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}
	m.store = s
	m.ready.Store(true)

	backend, _ := BackendFor(m.connStr)
	m.log.Info().Str("backend", string(backend)).Msg("instantiated connection to store")
	return s, nil
}

// Ready reports whether Connect has succeeded. It never flips back.
func (m *Manager) Ready() bool {
	return m.ready.Load()
}

func (m *Manager) Store() Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store
}

func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store == nil {
		return nil
	}
	return m.store.Close(ctx)
}
