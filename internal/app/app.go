package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ykvlv/routine-bot/internal/config"
	"github.com/ykvlv/routine-bot/internal/domain"
	"github.com/ykvlv/routine-bot/internal/health"
	"github.com/ykvlv/routine-bot/internal/scheduler"
	"github.com/ykvlv/routine-bot/internal/store"
	"github.com/ykvlv/routine-bot/internal/telegram"
)

type App struct {
	cfg      config.Config
	log      *zap.Logger
	bot      *tgbotapi.BotAPI
	clock    domain.Clock
	defaults domain.Defaults
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	defaults, err := cfg.UserDefaults()
	if err != nil {
		return nil, err
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	return &App{
		cfg:      cfg,
		log:      log,
		bot:      bot,
		clock:    domain.NewClock(clockwork.NewRealClock(), cfg.TZOffset),
		defaults: defaults,
	}, nil
}

// openPersistence picks the storage backend named by STORE_DRIVER.
func openPersistence(ctx context.Context, cfg config.Config) (store.Persistence, error) {
	switch cfg.StoreDriver {
	case "json":
		return store.OpenJSONFile(cfg.JSONPath)
	case "sqlite":
		return store.OpenSQLite(ctx, cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Info("starting routine-bot",
		zap.String("bot", a.bot.Self.UserName),
		zap.String("store", a.cfg.StoreDriver),
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("tz", a.clock.Location().String()),
	)

	persist, err := openPersistence(ctx, a.cfg)
	if err != nil {
		a.log.Error("open storage failed", zap.Error(err))
		return err
	}
	st := store.New(persist, a.defaults, a.clock, a.log.Named("store"))
	if users, err := st.Snapshot(ctx); err != nil {
		// Not fatal: the store retries the load on next access.
		a.log.Warn("initial load failed", zap.Error(err))
	} else {
		a.log.Info("storage ready", zap.Int("users", len(users)))
	}

	router := telegram.NewRouter(a.bot, a.log.Named("telegram"), st, a.clock)
	engine := scheduler.New(st, router, a.clock, a.log.Named("scheduler"), scheduler.Options{
		Interval:    a.cfg.TickInterval,
		SendTimeout: a.cfg.SendTimeout,
	})

	maint, err := scheduler.NewMaintenance(st, a.clock, a.log.Named("maintenance"))
	if err != nil {
		_ = persist.Close()
		return err
	}
	// Catch up on a midnight missed while the process was down.
	maint.ResetWater(ctx)
	maint.Start()

	keeper, err := health.NewKeeper(a.cfg.PingURL(), a.cfg.SelfPingInterval, a.clock.Base(), a.log.Named("keeper"))
	if err != nil {
		a.log.Warn("self-ping disabled", zap.Error(err))
		keeper = nil
	}
	if keeper != nil {
		keeper.Start()
	}

	var wg sync.WaitGroup
	srv := health.NewServer(a.cfg.HTTPAddr, a.log.Named("health"))
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := srv.Run(ctx); err != nil {
			a.log.Error("http server error", zap.Error(err))
		}
	}()
	go func() {
		defer wg.Done()
		engine.Run(ctx)
	}()

	a.poll(ctx, router)

	a.log.Info("shutdown signal received")
	a.bot.StopReceivingUpdates()

	var errs error
	if keeper != nil {
		errs = multierr.Append(errs, keeper.Stop())
	}
	select {
	case <-maint.Stop().Done():
	case <-time.After(5 * time.Second):
		a.log.Warn("maintenance job still running at shutdown")
	}
	wg.Wait()

	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	errs = multierr.Append(errs, st.Flush(flushCtx))
	errs = multierr.Append(errs, st.Close())
	if errs != nil {
		a.log.Warn("shutdown finished with errors", zap.Error(errs))
	}
	a.log.Info("bye")
	return nil
}

// poll handles updates one at a time until ctx is done.
func (a *App) poll(ctx context.Context, router *telegram.Router) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case upd, ok := <-updCh:
			if !ok {
				return
			}
			router.HandleUpdate(ctx, upd)
		}
	}
}
