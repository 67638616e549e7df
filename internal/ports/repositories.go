package ports

import (
	"context"

	"indigenousverify/internal/domain"
)

// StateStore persists the full verification state. Load returns the whole
// document and Save overwrites it; callers serialize read-modify-write.
type StateStore interface {
	Load(ctx context.Context) (domain.State, error)
	Save(ctx context.Context, state domain.State) error
	Close() error
}
