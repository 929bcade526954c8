package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/ykvlv/routine-bot/internal/domain"
)

// Store is the user schedule store shared by the update router and the
// scheduler. A single mutex serializes every read-modify-write, so a patch to
// one user is never interleaved with another patch.
//
// The snapshot is read from persistence once and then kept in memory; every
// mutation is written through. A failed save is logged and kept dirty: the
// next successful save (or Flush) reconciles it.
type Store struct {
	mu       sync.Mutex
	p        Persistence
	log      *zap.Logger
	clock    domain.Clock
	defaults domain.Defaults

	cache domain.Snapshot
	dirty bool
}

// New creates a store over p. New users are created from defaults.
func New(p Persistence, defaults domain.Defaults, clock domain.Clock, log *zap.Logger) *Store {
	return &Store{p: p, log: log, clock: clock, defaults: defaults}
}

func (s *Store) loadLocked(ctx context.Context) error {
	if s.cache != nil {
		return nil
	}
	snap, err := s.p.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotLoaded, err)
	}
	if snap == nil {
		snap = domain.Snapshot{}
	}
	s.cache = snap
	return nil
}

func (s *Store) saveLocked(ctx context.Context) {
	if err := s.p.Save(ctx, s.cache); err != nil {
		s.dirty = true
		s.log.Error("save snapshot failed", zap.Error(err), zap.Int("users", len(s.cache)))
		return
	}
	s.dirty = false
}

// Snapshot returns a copy of every user ordered by chat id.
func (s *Store) Snapshot(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(s.cache))
	for _, u := range s.cache {
		out = append(out, u.Clone())
	}
	slices.SortFunc(out, func(a, b domain.User) int {
		switch {
		case a.ChatID < b.ChatID:
			return -1
		case a.ChatID > b.ChatID:
			return 1
		}
		return 0
	})
	return out, nil
}

// Get returns a copy of one user.
func (s *Store) Get(ctx context.Context, chatID int64) (domain.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return domain.User{}, false, err
	}
	u, ok := s.cache[chatID]
	if !ok {
		return domain.User{}, false, nil
	}
	return u.Clone(), true, nil
}

// Ensure returns the user, creating it with defaults on first interaction.
func (s *Store) Ensure(ctx context.Context, chatID int64) (domain.User, error) {
	return s.Patch(ctx, chatID, nil)
}

// Patch applies fn to one user as a single indivisible update: get (creating
// with defaults if absent), mutate, persist. If fn returns an error nothing
// is changed. A nil fn only ensures the user exists.
func (s *Store) Patch(ctx context.Context, chatID int64, fn func(u *domain.User) error) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return domain.User{}, err
	}

	cur, exists := s.cache[chatID]
	if !exists {
		cur = domain.NewUser(chatID, s.defaults, s.clock.Now())
	}
	next := cur.Clone()
	next.Normalize()
	if fn != nil {
		if err := fn(&next); err != nil {
			return cur.Clone(), err
		}
	} else if exists {
		return cur.Clone(), nil
	}

	next.ChatID = chatID
	s.cache[chatID] = next
	s.saveLocked(ctx)
	if !exists {
		s.log.Info("user created", zap.Int64("chatID", chatID))
	}
	return next.Clone(), nil
}

// UpdateAll applies fn to every user and saves once if any call reported a change.
func (s *Store) UpdateAll(ctx context.Context, fn func(u *domain.User) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return 0, err
	}
	changed := 0
	for id, u := range s.cache {
		next := u.Clone()
		if fn(&next) {
			s.cache[id] = next
			changed++
		}
	}
	if changed > 0 {
		s.saveLocked(ctx)
	}
	return changed, nil
}

// Dirty reports whether the last save failed and is still pending.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Flush retries a pending save.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty || s.cache == nil {
		return nil
	}
	if err := s.p.Save(ctx, s.cache); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Close releases the persistence.
func (s *Store) Close() error {
	return s.p.Close()
}
