package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ykvlv/routine-bot/internal/domain"
	"github.com/ykvlv/routine-bot/internal/store"
)

// Maintenance runs daily housekeeping at local midnight.
type Maintenance struct {
	cron  *cron.Cron
	store *store.Store
	clock domain.Clock
	log   *zap.Logger
}

// NewMaintenance schedules the midnight water-counter reset in the clock's zone.
func NewMaintenance(st *store.Store, clock domain.Clock, log *zap.Logger) (*Maintenance, error) {
	cl := cronLogger{log.Sugar()}
	m := &Maintenance{
		cron: cron.New(
			cron.WithLocation(clock.Location()),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		store: st,
		clock: clock,
		log:   log,
	}
	if _, err := m.cron.AddFunc("0 0 * * *", func() { m.ResetWater(context.Background()) }); err != nil {
		return nil, err
	}
	return m, nil
}

// Start runs the cron in its own goroutine.
func (m *Maintenance) Start() { m.cron.Start() }

// Stop halts the cron; the returned context is done once running jobs finish.
func (m *Maintenance) Stop() context.Context { return m.cron.Stop() }

// ResetWater zeroes the water counter of every user whose last reset was
// before today. It is also called at startup to catch up missed midnights.
func (m *Maintenance) ResetWater(ctx context.Context) int {
	now := m.clock.Now()
	n, err := m.store.UpdateAll(ctx, func(u *domain.User) bool {
		return u.Water.ResetIfNewDay(now)
	})
	if err != nil {
		m.log.Error("water reset failed", zap.Error(err))
		return 0
	}
	if n > 0 {
		m.log.Info("water counters reset", zap.Int("users", n), zap.String("day", domain.DayKey(now)))
	}
	return n
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct{ s *zap.SugaredLogger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
