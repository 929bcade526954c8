package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ykvlv/routine-bot/internal/domain"
	"github.com/ykvlv/routine-bot/internal/store"
)

// Notifier delivers one reminder to a user.
// *telegram.Router implements it.
type Notifier interface {
	Notify(ctx context.Context, u domain.User, c domain.Category, now time.Time) error
}

// Options are the injected engine parameters.
type Options struct {
	Interval    time.Duration // tick period
	SendTimeout time.Duration // bound on a single Notify call
}

// DefaultOptions fire often enough that no HH:MM minute is skipped.
func DefaultOptions() Options {
	return Options{Interval: 20 * time.Second, SendTimeout: 10 * time.Second}
}

// Scheduler evaluates every user against the reminder catalog on a fixed
// tick and dispatches what is due.
type Scheduler struct {
	store    *store.Store
	notifier Notifier
	clock    domain.Clock
	log      *zap.Logger
	opts     Options
}

// TickStats summarizes one sweep.
type TickStats struct {
	Users  int // enabled users evaluated
	Fired  int
	Failed int
}

// New creates a new Scheduler.
func New(st *store.Store, n Notifier, clock domain.Clock, log *zap.Logger, opts Options) *Scheduler {
	def := DefaultOptions()
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = def.SendTimeout
	}
	return &Scheduler{store: st, notifier: n, clock: clock, log: log, opts: opts}
}

// Run starts the loop until ctx is canceled. No tick begins after cancellation.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := s.clock.Base().NewTicker(s.opts.Interval)
	defer ticker.Stop()

	s.log.Info("scheduler started", zap.Duration("interval", s.opts.Interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.Chan():
			if ctx.Err() != nil {
				s.log.Info("scheduler stopping")
				return
			}
			s.Tick(ctx)
		}
	}
}

// Tick performs one scheduling cycle over a single snapshot, with one "now"
// shared by every user.
func (s *Scheduler) Tick(ctx context.Context) TickStats {
	var stats TickStats
	log := s.log.With(zap.String("tick", uuid.NewString()))

	users, err := s.store.Snapshot(ctx)
	if err != nil {
		log.Error("snapshot failed, skipping tick", zap.Error(err))
		return stats
	}
	now := s.clock.Now()

	for _, u := range users {
		if ctx.Err() != nil {
			log.Info("tick interrupted by shutdown", zap.Int("evaluated", stats.Users))
			break
		}
		if !u.Enabled {
			continue
		}
		stats.Users++
		fired, failed := s.processUser(ctx, log, now, u)
		stats.Fired += fired
		stats.Failed += failed
	}

	if stats.Fired > 0 || stats.Failed > 0 {
		log.Info("tick done",
			zap.Int("users", stats.Users),
			zap.Int("fired", stats.Fired),
			zap.Int("failed", stats.Failed),
		)
	}
	return stats
}

// processUser evaluates and dispatches for one user. Any panic stays here.
func (s *Scheduler) processUser(ctx context.Context, log *zap.Logger, now time.Time, u domain.User) (fired, failed int) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("user evaluation panicked", zap.Int64("chatID", u.ChatID), zap.Any("panic", r))
		}
	}()

	plan := domain.Evaluate(u, now)
	if plan.Empty() {
		return 0, 0
	}

	for _, c := range plan.Fire {
		if err := s.dispatch(ctx, u, c, now); err != nil {
			failed++
			log.Warn("send failed",
				zap.Error(err),
				zap.Int64("chatID", u.ChatID),
				zap.String("category", string(c)),
			)
			continue
		}
		fired++
		log.Debug("reminder sent", zap.Int64("chatID", u.ChatID), zap.String("category", string(c)))
	}

	// Marks and baselines are written whether or not the send succeeded:
	// at most once per minute (point) or per interval.
	if _, err := s.store.Patch(context.WithoutCancel(ctx), u.ChatID, func(cur *domain.User) error {
		plan.Apply(cur)
		return nil
	}); err != nil {
		log.Error("persist firing state failed", zap.Error(err), zap.Int64("chatID", u.ChatID))
	}
	return fired, failed
}

// dispatch calls the notifier with a deadline. A notifier that ignores its
// context still cannot hold the sweep longer than SendTimeout.
func (s *Scheduler) dispatch(ctx context.Context, u domain.User, c domain.Category, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.SendTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("notifier panic: %v", r)
			}
		}()
		done <- s.notifier.Notify(ctx, u, c, now)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
