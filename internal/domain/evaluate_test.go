package domain

import (
	"slices"
	"testing"
	"time"
)

func newTestUser(t *testing.T, now time.Time) User {
	t.Helper()
	return NewUser(42, BuiltinDefaults(), now)
}

// onlyPoint disables every category except c and sets its time.
func onlyPoint(u *User, c Category, clock string) {
	for k, p := range u.Points {
		p.Enabled = k == c
		if k == c {
			p.Time = clock
		}
		u.Points[k] = p
	}
	for k, is := range u.Intervals {
		is.Enabled = false
		u.Intervals[k] = is
	}
}

func onlyInterval(u *User, c Category, minutes int, start, end string) {
	for k, p := range u.Points {
		p.Enabled = false
		u.Points[k] = p
	}
	for k, is := range u.Intervals {
		is.Enabled = k == c
		if k == c {
			is.IntervalMinutes, is.WindowStart, is.WindowEnd = minutes, start, end
		}
		u.Intervals[k] = is
	}
}

func TestEvaluate_WakeScenario(t *testing.T) {
	now := at(t, 2025, time.March, 1, 7, 0)
	u := newTestUser(t, now)
	onlyPoint(&u, Wake, "07:00")

	p := Evaluate(u, now)
	if !slices.Equal(p.Fire, []Category{Wake}) {
		t.Fatalf("want wake to fire, got %v", p.Fire)
	}
	p.Apply(&u)
	if got := u.LastFire["wake"]; got != "2025-03-01 07:00" {
		t.Fatalf("want stamp 2025-03-01 07:00, got %q", got)
	}

	// same minute, later second: nothing
	if p := Evaluate(u, now.Add(40*time.Second)); len(p.Fire) != 0 {
		t.Fatalf("want no second dispatch, got %v", p.Fire)
	}

	// next day: fires again
	next := now.AddDate(0, 0, 1)
	p = Evaluate(u, next)
	if !slices.Equal(p.Fire, []Category{Wake}) {
		t.Fatalf("want wake next day, got %v", p.Fire)
	}
	p.Apply(&u)
	if got := u.LastFire["wake"]; got != "2025-03-02 07:00" {
		t.Fatalf("want stamp 2025-03-02 07:00, got %q", got)
	}
}

func TestEvaluate_PointNotAtOtherMinutes(t *testing.T) {
	now := at(t, 2025, time.March, 1, 7, 1)
	u := newTestUser(t, now)
	onlyPoint(&u, Wake, "07:00")
	if p := Evaluate(u, now); !p.Empty() {
		t.Fatalf("want empty plan, got %+v", p)
	}
}

func TestEvaluate_PointAcceptsShortHour(t *testing.T) {
	now := at(t, 2025, time.March, 1, 7, 0)
	u := newTestUser(t, now)
	onlyPoint(&u, Wake, "7:00")
	if p := Evaluate(u, now); !slices.Equal(p.Fire, []Category{Wake}) {
		t.Fatalf("want wake, got %v", p.Fire)
	}
}

func TestEvaluate_MalformedPointTimeNeverDue(t *testing.T) {
	now := at(t, 2025, time.March, 1, 7, 0)
	u := newTestUser(t, now)
	onlyPoint(&u, Wake, "7am")
	s := u.Points[Sleep]
	s.Enabled, s.Time = true, "07:00"
	u.Points[Sleep] = s

	p := Evaluate(u, now)
	if !slices.Equal(p.Fire, []Category{Sleep}) {
		t.Fatalf("only sleep should fire, got %v", p.Fire)
	}
}

func TestEvaluate_CoincidingPointsBothFire(t *testing.T) {
	now := at(t, 2025, time.March, 3, 12, 0)
	u := newTestUser(t, now)
	onlyPoint(&u, Lunch, "12:00")
	e := u.Points[Exercise]
	e.Enabled, e.Time = true, "12:00"
	u.Points[Exercise] = e

	p := Evaluate(u, now)
	if !slices.Equal(p.Fire, []Category{Lunch, Exercise}) {
		t.Fatalf("want lunch and exercise, got %v", p.Fire)
	}
}

func TestEvaluate_WeekdayGating(t *testing.T) {
	sat := at(t, 2025, time.March, 1, 8, 30) // Saturday
	u := newTestUser(t, sat)
	onlyPoint(&u, WorkStart, "08:30")

	if p := Evaluate(u, sat); len(p.Fire) != 0 {
		t.Fatalf("work_start must not fire on Saturday, got %v", p.Fire)
	}
	if p := Evaluate(u, sat.AddDate(0, 0, 1)); len(p.Fire) != 0 {
		t.Fatalf("work_start must not fire on Sunday, got %v", p.Fire)
	}
	if p := Evaluate(u, sat.AddDate(0, 0, 2)); !slices.Equal(p.Fire, []Category{WorkStart}) {
		t.Fatalf("work_start must fire on Monday, got %v", p.Fire)
	}
}

func TestEvaluate_DisabledUserSuppressesEverything(t *testing.T) {
	now := at(t, 2025, time.March, 3, 9, 0)
	u := newTestUser(t, now)
	for c, p := range u.Points {
		p.Enabled, p.Time = true, "09:00"
		u.Points[c] = p
	}
	for c, is := range u.Intervals {
		is.Enabled, is.LastFiredAt = true, now.Add(-24*time.Hour).Unix()
		is.WindowStart, is.WindowEnd = "00:00", "23:59"
		u.Intervals[c] = is
	}
	if p := Evaluate(u, now); len(p.Fire) != len(Catalog) {
		t.Fatalf("enabled user: want all %d to fire, got %v", len(Catalog), p.Fire)
	}

	u.Enabled = false
	if p := Evaluate(u, now); !p.Empty() {
		t.Fatalf("disabled user: want empty plan, got %+v", p)
	}
}

func TestEvaluate_WaterScenario(t *testing.T) {
	nine := at(t, 2025, time.March, 1, 9, 0)
	u := newTestUser(t, nine)
	onlyInterval(&u, Water, 60, "08:00", "22:00")

	p := Evaluate(u, nine)
	if len(p.Fire) != 0 {
		t.Fatalf("first observation must not fire, got %v", p.Fire)
	}
	if p.Baselines[Water] != nine.Unix() {
		t.Fatalf("want baseline %d, got %d", nine.Unix(), p.Baselines[Water])
	}
	p.Apply(&u)

	p = Evaluate(u, at(t, 2025, time.March, 1, 9, 59))
	if !p.Empty() {
		t.Fatalf("59 minutes elapsed: want nothing, got %+v", p)
	}

	tenOhOne := at(t, 2025, time.March, 1, 10, 1)
	p = Evaluate(u, tenOhOne)
	if !slices.Equal(p.Fire, []Category{Water}) {
		t.Fatalf("want water to fire, got %v", p.Fire)
	}
	p.Apply(&u)
	if u.Intervals[Water].LastFiredAt != tenOhOne.Unix() {
		t.Fatalf("baseline not advanced")
	}
	if p := Evaluate(u, tenOhOne.Add(time.Minute)); len(p.Fire) != 0 {
		t.Fatalf("want no immediate re-fire, got %v", p.Fire)
	}
}

func TestEvaluate_IntervalOutsideWindowKeepsBaseline(t *testing.T) {
	now := at(t, 2025, time.March, 1, 23, 0)
	u := newTestUser(t, now)
	onlyInterval(&u, Water, 60, "08:00", "22:00")
	is := u.Intervals[Water]
	is.LastFiredAt = at(t, 2025, time.March, 1, 21, 0).Unix()
	u.Intervals[Water] = is

	if p := Evaluate(u, now); !p.Empty() {
		t.Fatalf("outside window: want empty plan, got %+v", p)
	}

	// Re-entering the window resumes the old cadence: overdue fires at once.
	morning := at(t, 2025, time.March, 2, 8, 0)
	if p := Evaluate(u, morning); !slices.Equal(p.Fire, []Category{Water}) {
		t.Fatalf("want water at window start, got %v", p.Fire)
	}
}

func TestEvaluate_IntervalWrapWindow(t *testing.T) {
	start := at(t, 2025, time.March, 1, 23, 0)
	u := newTestUser(t, start)
	onlyInterval(&u, Eye, 30, "22:00", "06:00")
	is := u.Intervals[Eye]
	is.LastFiredAt = start.Unix()
	u.Intervals[Eye] = is

	if p := Evaluate(u, at(t, 2025, time.March, 2, 0, 0)); !slices.Equal(p.Fire, []Category{Eye}) {
		t.Fatalf("want eye after midnight, got %v", p.Fire)
	}
}

func TestEvaluate_DisabledIntervalSkipsBaseline(t *testing.T) {
	now := at(t, 2025, time.March, 1, 9, 0)
	u := newTestUser(t, now)
	onlyInterval(&u, Water, 60, "08:00", "22:00")
	is := u.Intervals[Water]
	is.Enabled = false
	u.Intervals[Water] = is

	if p := Evaluate(u, now); !p.Empty() {
		t.Fatalf("want empty plan, got %+v", p)
	}
}

func TestEvaluate_NonPositiveIntervalNeverDue(t *testing.T) {
	now := at(t, 2025, time.March, 1, 9, 0)
	u := newTestUser(t, now)
	onlyInterval(&u, Water, 0, "08:00", "22:00")
	if p := Evaluate(u, now); !p.Empty() {
		t.Fatalf("want empty plan, got %+v", p)
	}
}

func TestReEnableResetsBaseline(t *testing.T) {
	now := at(t, 2025, time.March, 1, 9, 0)
	u := newTestUser(t, now)
	onlyInterval(&u, Water, 60, "08:00", "22:00")
	is := u.Intervals[Water]
	is.LastFiredAt = now.Add(-5 * time.Hour).Unix()
	u.Intervals[Water] = is

	if err := u.SetCategoryEnabled(Water, false, now); err != nil {
		t.Fatal(err)
	}
	if err := u.SetCategoryEnabled(Water, true, now); err != nil {
		t.Fatal(err)
	}
	if p := Evaluate(u, now.Add(time.Minute)); len(p.Fire) != 0 {
		t.Fatalf("re-enable must not replay missed fires, got %v", p.Fire)
	}
	if p := Evaluate(u, now.Add(60*time.Minute)); !slices.Equal(p.Fire, []Category{Water}) {
		t.Fatalf("want water one interval later, got %v", p.Fire)
	}
}

func TestSetPointTimeKeepsStamp(t *testing.T) {
	now := at(t, 2025, time.March, 1, 7, 0)
	u := newTestUser(t, now)
	onlyPoint(&u, Wake, "07:00")
	Evaluate(u, now).Apply(&u)

	if err := u.SetPointTime(Wake, "8:00"); err != nil {
		t.Fatal(err)
	}
	if err := u.SetPointTime(Wake, "7:00"); err != nil {
		t.Fatal(err)
	}
	if u.Points[Wake].Time != "07:00" {
		t.Fatalf("time not normalized: %q", u.Points[Wake].Time)
	}
	if p := Evaluate(u, now); len(p.Fire) != 0 {
		t.Fatalf("edited back to fired minute must not re-fire, got %v", p.Fire)
	}
	if err := u.SetPointTime(Water, "07:00"); err == nil {
		t.Fatal("water is not a point category")
	}
}
