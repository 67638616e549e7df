// Package filestore persists the verification state as one JSON document on
// local disk. Every Save rewrites the whole file.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"indigenousverify/internal/domain"
	"indigenousverify/internal/ports"
)

var _ ports.StateStore = (*Store)(nil)

type Store struct {
	path   string
	logger *slog.Logger
}

func New(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("state file path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger.With("component", "filestore", "path", path)}, nil
}

// Load reads the state file. A missing, unreadable or malformed file yields
// an empty state and no error.
func (s *Store) Load(ctx context.Context) (domain.State, error) {
	if err := ctx.Err(); err != nil {
		return domain.State{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("state file unreadable, starting empty", "error", err)
		}
		return domain.NewState(), nil
	}
	state := domain.NewState()
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("state file malformed, starting empty", "error", err)
		return domain.NewState(), nil
	}
	if state.Verifications == nil {
		state.Verifications = []domain.Verdict{}
	}
	return state, nil
}

// Save writes state to a temp file next to the target and renames it into
// place.
func (s *Store) Save(ctx context.Context, state domain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if state.Verifications == nil {
		state.Verifications = []domain.Verdict{}
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
