package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/ykvlv/routine-bot/internal/domain"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken     string `envconfig:"BOT_TOKEN"`
	BotTokenFile string `envconfig:"BOT_TOKEN_FILE" default:"/run/secrets/telegram_bot_token"` // docker secret fallback

	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"` // sqlite|json
	DBPath      string `envconfig:"DB_PATH" default:"./data/routine.db"`
	JSONPath    string `envconfig:"JSON_PATH" default:"./data/users.json"`

	TZOffset     time.Duration `envconfig:"TZ_OFFSET" default:"7h"`
	TickInterval time.Duration `envconfig:"TICK_INTERVAL" default:"20s"`
	SendTimeout  time.Duration `envconfig:"SEND_TIMEOUT" default:"10s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	SelfPingInterval  time.Duration `envconfig:"SELF_PING_INTERVAL" default:"240s"`
	RenderExternalURL string        `envconfig:"RENDER_EXTERNAL_URL"`
	RenderServiceName string        `envconfig:"RENDER_SERVICE_NAME"`

	Defaults Defaults `envconfig:"DEFAULT"`
}

// Defaults are the schedule values new users start with.
type Defaults struct {
	WakeTime      string `envconfig:"WAKE_TIME" default:"07:00"`
	SleepTime     string `envconfig:"SLEEP_TIME" default:"22:00"`
	WorkStartTime string `envconfig:"WORK_START_TIME" default:"08:30"`
	WorkEndTime   string `envconfig:"WORK_END_TIME" default:"17:30"`
	BreakfastTime string `envconfig:"BREAKFAST_TIME" default:"07:30"`
	LunchTime     string `envconfig:"LUNCH_TIME" default:"12:00"`
	DinnerTime    string `envconfig:"DINNER_TIME" default:"19:00"`
	ExerciseTime  string `envconfig:"EXERCISE_TIME" default:"18:00"`

	WaterInterval   string `envconfig:"WATER_INTERVAL" default:"90"`
	BreakInterval   string `envconfig:"BREAK_INTERVAL" default:"60"`
	EyeInterval     string `envconfig:"EYE_INTERVAL" default:"20"`
	PostureInterval string `envconfig:"POSTURE_INTERVAL" default:"45"`
	WaterWindow     string `envconfig:"WATER_WINDOW" default:"07:00-22:00"`
	WorkWindow      string `envconfig:"WORK_WINDOW" default:"09:00-18:00"` // break, eye, posture

	Enabled     []string `envconfig:"ENABLED" default:"wake,sleep,water"`
	WorkDays    []string `envconfig:"WORK_DAYS" default:"mon,tue,wed,thu,fri"`
	WaterGoalML int      `envconfig:"WATER_GOAL_ML" default:"2000"`
}

// Load reads an optional .env file (or the given files) and then environment
// variables into Config. Variables already set in the environment win.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if cfg.BotToken == "" {
		cfg.BotToken = readSecret(cfg.BotTokenFile)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readSecret(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Validate checks values envconfig cannot check on its own.
func (c Config) Validate() error {
	if c.BotToken == "" {
		return errors.New("BOT_TOKEN is required (or a readable BOT_TOKEN_FILE)")
	}
	switch c.StoreDriver {
	case "sqlite", "json":
	default:
		return fmt.Errorf("STORE_DRIVER must be sqlite or json, got %q", c.StoreDriver)
	}
	if c.TZOffset < -14*time.Hour || c.TZOffset > 14*time.Hour {
		return fmt.Errorf("TZ_OFFSET out of range: %s", c.TZOffset)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive, got %s", c.TickInterval)
	}
	if c.SendTimeout <= 0 {
		return fmt.Errorf("SEND_TIMEOUT must be positive, got %s", c.SendTimeout)
	}
	if _, err := c.UserDefaults(); err != nil {
		return err
	}
	return nil
}

// PingURL is the public address the self-ping keeper uses; empty disables it.
func (c Config) PingURL() string {
	if c.RenderExternalURL != "" {
		return strings.TrimRight(c.RenderExternalURL, "/")
	}
	if c.RenderServiceName != "" {
		return "https://" + c.RenderServiceName + ".onrender.com"
	}
	return ""
}

// UserDefaults converts the DEFAULT_* settings to domain defaults.
func (c Config) UserDefaults() (domain.Defaults, error) {
	d := c.Defaults
	out := domain.Defaults{
		Points:      map[domain.Category]domain.PointSetting{},
		Intervals:   map[domain.Category]domain.IntervalSetting{},
		WaterGoalML: d.WaterGoalML,
	}
	if d.WaterGoalML <= 0 {
		return out, fmt.Errorf("DEFAULT_WATER_GOAL_ML must be positive, got %d", d.WaterGoalML)
	}

	enabled := map[domain.Category]bool{}
	for _, name := range d.Enabled {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := domain.Lookup(domain.Category(name)); !ok {
			return out, fmt.Errorf("DEFAULT_ENABLED: unknown category %q", name)
		}
		enabled[domain.Category(name)] = true
	}

	points := map[domain.Category]string{
		domain.Wake:      d.WakeTime,
		domain.Sleep:     d.SleepTime,
		domain.WorkStart: d.WorkStartTime,
		domain.WorkEnd:   d.WorkEndTime,
		domain.Breakfast: d.BreakfastTime,
		domain.Lunch:     d.LunchTime,
		domain.Dinner:    d.DinnerTime,
		domain.Exercise:  d.ExerciseTime,
	}
	for c, raw := range points {
		t, err := domain.NormalizeClock(raw)
		if err != nil {
			return out, fmt.Errorf("default %s time: %w", c, err)
		}
		out.Points[c] = domain.PointSetting{Enabled: enabled[c], Time: t}
	}

	waterStart, waterEnd, err := domain.ParseWindow(d.WaterWindow)
	if err != nil {
		return out, fmt.Errorf("DEFAULT_WATER_WINDOW: %w", err)
	}
	workStart, workEnd, err := domain.ParseWindow(d.WorkWindow)
	if err != nil {
		return out, fmt.Errorf("DEFAULT_WORK_WINDOW: %w", err)
	}
	intervals := []struct {
		c          domain.Category
		raw        string
		start, end string
	}{
		{domain.Water, d.WaterInterval, waterStart, waterEnd},
		{domain.Break, d.BreakInterval, workStart, workEnd},
		{domain.Eye, d.EyeInterval, workStart, workEnd},
		{domain.Posture, d.PostureInterval, workStart, workEnd},
	}
	for _, iv := range intervals {
		mins, err := domain.ParseIntervalMinutes(iv.raw)
		if err != nil {
			return out, fmt.Errorf("default %s interval: %w", iv.c, err)
		}
		out.Intervals[iv.c] = domain.IntervalSetting{
			Enabled:         enabled[iv.c],
			IntervalMinutes: mins,
			WindowStart:     iv.start,
			WindowEnd:       iv.end,
		}
	}

	if out.WorkDays, err = domain.ParseWeekdays(d.WorkDays); err != nil {
		return out, fmt.Errorf("DEFAULT_WORK_DAYS: %w", err)
	}
	return out, nil
}
