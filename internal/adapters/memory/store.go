// Package memory provides an in-process StateStore for tests and ephemeral runs.
package memory

import (
	"context"
	"sync"

	"indigenousverify/internal/domain"
	"indigenousverify/internal/ports"
)

var _ ports.StateStore = (*Store)(nil)

// Store keeps the state in memory. Load and Save copy, so callers never
// share slices with the stored state.
type Store struct {
	mu    sync.RWMutex
	state domain.State
}

func New() *Store {
	return &Store{state: domain.NewState()}
}

func (s *Store) Load(ctx context.Context) (domain.State, error) {
	if err := ctx.Err(); err != nil {
		return domain.State{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone(), nil
}

func (s *Store) Save(ctx context.Context, state domain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	return nil
}

func (s *Store) Close() error { return nil }
