package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ykvlv/routine-bot/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreDriver != "sqlite" || cfg.TZOffset != 7*time.Hour || cfg.TickInterval != 20*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.SendTimeout != 10*time.Second || cfg.SelfPingInterval != 240*time.Second {
		t.Errorf("unexpected timeouts: send=%s ping=%s", cfg.SendTimeout, cfg.SelfPingInterval)
	}

	got, err := cfg.UserDefaults()
	if err != nil {
		t.Fatalf("UserDefaults: %v", err)
	}
	want := domain.BuiltinDefaults()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("defaults from env differ from builtin defaults:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("STORE_DRIVER", "json")
	t.Setenv("TZ_OFFSET", "-3h30m")
	t.Setenv("DEFAULT_ENABLED", "eye,lunch")
	t.Setenv("DEFAULT_EYE_INTERVAL", "30m")
	t.Setenv("DEFAULT_WORK_WINDOW", "8:00–17:00")
	t.Setenv("DEFAULT_WORK_DAYS", "sun,thu")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreDriver != "json" || cfg.TZOffset != -(3*time.Hour+30*time.Minute) {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	d, err := cfg.UserDefaults()
	if err != nil {
		t.Fatal(err)
	}
	if d.Points[domain.Wake].Enabled || !d.Points[domain.Lunch].Enabled {
		t.Errorf("enabled list not applied: %+v", d.Points)
	}
	eye := d.Intervals[domain.Eye]
	if !eye.Enabled || eye.IntervalMinutes != 30 || eye.WindowStart != "08:00" || eye.WindowEnd != "17:00" {
		t.Errorf("eye = %+v", eye)
	}
	if !reflect.DeepEqual(d.WorkDays, []time.Weekday{time.Sunday, time.Thursday}) {
		t.Errorf("work days = %v", d.WorkDays)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"STORE_DRIVER", "postgres"},
		{"TZ_OFFSET", "20h"},
		{"TICK_INTERVAL", "0s"},
		{"DEFAULT_WAKE_TIME", "7am"},
		{"DEFAULT_WATER_INTERVAL", "2m"},
		{"DEFAULT_WATER_WINDOW", "07:00"},
		{"DEFAULT_ENABLED", "wake,nap"},
		{"DEFAULT_WORK_DAYS", "mon,funday"},
		{"DEFAULT_WATER_GOAL_ML", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("BOT_TOKEN", "123:abc")
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("%s=%q accepted", tt.key, tt.value)
			}
		})
	}
}

func TestTokenFromSecretFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  456:def\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("BOT_TOKEN_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BotToken != "456:def" {
		t.Errorf("token = %q", cfg.BotToken)
	}

	t.Setenv("BOT_TOKEN_FILE", filepath.Join(t.TempDir(), "missing"))
	if _, err := Load(); err == nil {
		t.Error("missing token accepted")
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("LOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("LOG_LEVEL", "") // registered for cleanup; godotenv does not override set values
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug from env file", cfg.LogLevel)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("missing explicit env file accepted")
	}
}

func TestPingURL(t *testing.T) {
	tests := []struct {
		external, service, want string
	}{
		{"", "", ""},
		{"https://bot.example.com/", "", "https://bot.example.com"},
		{"", "routine", "https://routine.onrender.com"},
		{"https://a.example", "routine", "https://a.example"},
	}
	for _, tt := range tests {
		c := Config{RenderExternalURL: tt.external, RenderServiceName: tt.service}
		if got := c.PingURL(); got != tt.want {
			t.Errorf("PingURL(%q, %q) = %q, want %q", tt.external, tt.service, got, tt.want)
		}
	}
}
