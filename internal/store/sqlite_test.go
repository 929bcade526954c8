package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ykvlv/routine-bot/internal/domain"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "routine.db")

	db, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, domain.FixedZone(7*time.Hour))
	a := domain.NewUser(1, domain.BuiltinDefaults(), now)
	a.LastFire["wake"] = "2025-03-01 07:00"
	is := a.Intervals[domain.Water]
	is.LastFiredAt = now.Unix()
	a.Intervals[domain.Water] = is
	b := domain.NewUser(2, domain.BuiltinDefaults(), now)

	if err := db.Save(ctx, domain.Snapshot{1: a, 2: b}); err != nil {
		t.Fatal(err)
	}
	if err := db.Save(ctx, domain.Snapshot{1: a}); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen: migrations must be idempotent.
	db, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	snap, err := db.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap) != 1 {
		t.Fatalf("stale user not removed: %d users", len(snap))
	}
	got := snap[1]
	if got.LastFire["wake"] != "2025-03-01 07:00" {
		t.Fatalf("last_fire lost: %v", got.LastFire)
	}
	if got.Intervals[domain.Water].LastFiredAt != now.Unix() {
		t.Fatalf("baseline lost: %+v", got.Intervals[domain.Water])
	}
	if !got.IsWorkDay(time.Monday) || got.IsWorkDay(time.Sunday) {
		t.Fatalf("work days lost: %v", got.WorkDays)
	}
}
