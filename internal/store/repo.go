package store

import (
	"context"
	"errors"

	"github.com/ykvlv/routine-bot/internal/domain"
)

// ErrNotLoaded is returned when the snapshot could not be read from persistence.
var ErrNotLoaded = errors.New("snapshot not loaded")

// Persistence loads and saves the full user snapshot.
// Save must be atomic for a concurrent Load: no partial snapshot is ever observed.
type Persistence interface {
	Load(ctx context.Context) (domain.Snapshot, error)
	Save(ctx context.Context, snap domain.Snapshot) error
	Close() error
}
