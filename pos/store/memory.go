// Package store provides StateStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/pos-engine/pos"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	state *pos.State
}

func NewMemory() *Memory {
	return &Memory{state: pos.NewState()}
}

// Load returns a deep copy so callers never share memory with the store.
func (m *Memory) Load(_ context.Context) (*pos.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone(), nil
}

// Save replaces the whole state.
func (m *Memory) Save(_ context.Context, state *pos.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state.Clone()
	return nil
}

// Seed replaces the state directly, bypassing Save. Test setup helper.
func (m *Memory) Seed(state *pos.State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state.Clone()
}
