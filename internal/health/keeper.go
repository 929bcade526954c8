package health

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Keeper pings the service's own public URL so free hosting does not idle it out.
type Keeper struct {
	url      string
	interval time.Duration
	client   *http.Client
	log      *zap.Logger
	sched    gocron.Scheduler
}

// NewKeeper returns nil when baseURL is empty: there is nothing to keep alive.
func NewKeeper(baseURL string, interval time.Duration, clock clockwork.Clock, log *zap.Logger) (*Keeper, error) {
	if baseURL == "" {
		return nil, nil
	}
	if interval <= 0 {
		return nil, fmt.Errorf("self-ping interval must be positive, got %s", interval)
	}

	s, err := gocron.NewScheduler(
		gocron.WithClock(clock),
		gocron.WithLogger(gocronLogger{log.Sugar().Named("keeper")}),
	)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	k := &Keeper{
		url:      strings.TrimRight(baseURL, "/") + "/ping",
		interval: interval,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
		sched:    s,
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { k.Ping(context.Background()) }),
		gocron.WithName("self-ping"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("register self-ping job: %w", err)
	}
	return k, nil
}

// URL is the address being pinged.
func (k *Keeper) URL() string { return k.url }

func (k *Keeper) Start() {
	k.log.Info("self-ping enabled", zap.String("url", k.url), zap.Duration("interval", k.interval))
	k.sched.Start()
}

func (k *Keeper) Stop() error {
	return k.sched.Shutdown()
}

// Ping performs one GET. Failures are logged and otherwise ignored.
func (k *Keeper) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		k.log.Warn("self-ping request", zap.Error(err))
		return false
	}
	resp, err := k.client.Do(req)
	if err != nil {
		k.log.Warn("self-ping failed", zap.String("url", k.url), zap.Error(err))
		return false
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		k.log.Warn("self-ping status", zap.String("url", k.url), zap.Int("status", resp.StatusCode))
		return false
	}
	k.log.Debug("self-ping ok", zap.String("url", k.url))
	return true
}

// gocronLogger adapts zap to gocron.Logger.
type gocronLogger struct {
	s *zap.SugaredLogger
}

func (l gocronLogger) Debug(msg string, args ...any) { l.s.Debugw(msg, args...) }
func (l gocronLogger) Info(msg string, args ...any)  { l.s.Infow(msg, args...) }
func (l gocronLogger) Warn(msg string, args ...any)  { l.s.Warnw(msg, args...) }
func (l gocronLogger) Error(msg string, args ...any) { l.s.Errorw(msg, args...) }
