package domain

import (
	"fmt"
	"slices"
	"time"
)

// PointSetting configures a once-a-day reminder.
type PointSetting struct {
	Enabled bool   `json:"enabled"`
	Time    string `json:"time"` // HH:MM
}

// IntervalSetting configures a repeating reminder inside a daily window.
type IntervalSetting struct {
	Enabled         bool   `json:"enabled"`
	IntervalMinutes int    `json:"interval_minutes"`
	WindowStart     string `json:"window_start"` // HH:MM
	WindowEnd       string `json:"window_end"`   // HH:MM
	LastFiredAt     int64  `json:"last_fired_at"` // unix seconds, 0 = never
}

// User is the persisted per-chat schedule and firing state.
type User struct {
	ChatID         int64                        `json:"chat_id"`
	Enabled        bool                         `json:"enabled"`
	CreatedAt      time.Time                    `json:"created_at"`
	Points         map[Category]PointSetting    `json:"points"`
	Intervals      map[Category]IntervalSetting `json:"intervals"`
	WorkDays       []time.Weekday               `json:"work_days"`
	LastFire       map[string]string            `json:"last_fire"`
	Water          WaterLog                     `json:"water"`
	ImportantDates map[string]string            `json:"important_dates"`
}

// Snapshot is the full set of users keyed by chat id.
type Snapshot map[int64]User

// Clone deep-copies the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for id, u := range s {
		out[id] = u.Clone()
	}
	return out
}

// Defaults are the values a freshly created user starts with.
type Defaults struct {
	Points      map[Category]PointSetting
	Intervals   map[Category]IntervalSetting
	WorkDays    []time.Weekday
	WaterGoalML int
}

// BuiltinDefaults returns the stock defaults used when configuration supplies none.
func BuiltinDefaults() Defaults {
	return Defaults{
		Points: map[Category]PointSetting{
			Wake:      {Enabled: true, Time: "07:00"},
			Breakfast: {Enabled: false, Time: "07:30"},
			WorkStart: {Enabled: false, Time: "08:30"},
			Lunch:     {Enabled: false, Time: "12:00"},
			WorkEnd:   {Enabled: false, Time: "17:30"},
			Exercise:  {Enabled: false, Time: "18:00"},
			Dinner:    {Enabled: false, Time: "19:00"},
			Sleep:     {Enabled: true, Time: "22:00"},
		},
		Intervals: map[Category]IntervalSetting{
			Water:   {Enabled: true, IntervalMinutes: 90, WindowStart: "07:00", WindowEnd: "22:00"},
			Break:   {Enabled: false, IntervalMinutes: 60, WindowStart: "09:00", WindowEnd: "18:00"},
			Eye:     {Enabled: false, IntervalMinutes: 20, WindowStart: "09:00", WindowEnd: "18:00"},
			Posture: {Enabled: false, IntervalMinutes: 45, WindowStart: "09:00", WindowEnd: "18:00"},
		},
		WorkDays:    []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		WaterGoalML: 2000,
	}
}

// NewUser creates a user with defaults. Interval baselines start at zero and
// are seeded by the first evaluation inside their window.
func NewUser(chatID int64, d Defaults, now time.Time) User {
	u := User{
		ChatID:         chatID,
		Enabled:        true,
		CreatedAt:      now,
		Points:         make(map[Category]PointSetting, len(d.Points)),
		Intervals:      make(map[Category]IntervalSetting, len(d.Intervals)),
		WorkDays:       slices.Clone(d.WorkDays),
		LastFire:       map[string]string{},
		Water:          WaterLog{GoalML: d.WaterGoalML, LastReset: DayKey(now)},
		ImportantDates: map[string]string{},
	}
	for c, p := range d.Points {
		u.Points[c] = p
	}
	for c, is := range d.Intervals {
		is.LastFiredAt = 0
		u.Intervals[c] = is
	}
	return u
}

// Clone deep-copies the user.
func (u User) Clone() User {
	out := u
	out.Points = cloneMap(u.Points)
	out.Intervals = cloneMap(u.Intervals)
	out.WorkDays = slices.Clone(u.WorkDays)
	out.LastFire = cloneMap(u.LastFire)
	out.ImportantDates = cloneMap(u.ImportantDates)
	return out
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Normalize fills nil maps of a record read from storage.
func (u *User) Normalize() {
	if u.Points == nil {
		u.Points = map[Category]PointSetting{}
	}
	if u.Intervals == nil {
		u.Intervals = map[Category]IntervalSetting{}
	}
	if u.LastFire == nil {
		u.LastFire = map[string]string{}
	}
	if u.ImportantDates == nil {
		u.ImportantDates = map[string]string{}
	}
}

// IsWorkDay reports whether wd is one of the user's work days.
func (u *User) IsWorkDay(wd time.Weekday) bool {
	return slices.Contains(u.WorkDays, wd)
}

// CategoryEnabled reports the per-category flag, regardless of the master switch.
func (u *User) CategoryEnabled(c Category) bool {
	if p, ok := u.Points[c]; ok {
		return p.Enabled
	}
	if is, ok := u.Intervals[c]; ok {
		return is.Enabled
	}
	return false
}

// SetCategoryEnabled flips a category on or off. Enabling an interval
// category re-seeds its baseline to now, so missed fires are never replayed.
func (u *User) SetCategoryEnabled(c Category, on bool, now time.Time) error {
	def, ok := Lookup(c)
	if !ok {
		return fmt.Errorf("unknown category %q", c)
	}
	u.Normalize()
	switch def.Kind {
	case KindPoint:
		p := u.Points[c]
		p.Enabled = on
		u.Points[c] = p
	case KindInterval:
		is := u.Intervals[c]
		if on {
			is.LastFiredAt = now.Unix()
		}
		is.Enabled = on
		u.Intervals[c] = is
	}
	return nil
}

// SetPointTime changes a point category's clock time. The last_fire stamp is
// left alone, so a time already fired this minute will not fire again today.
func (u *User) SetPointTime(c Category, clock string) error {
	def, ok := Lookup(c)
	if !ok || def.Kind != KindPoint {
		return fmt.Errorf("%q is not a point category", c)
	}
	norm, err := NormalizeClock(clock)
	if err != nil {
		return err
	}
	u.Normalize()
	p := u.Points[c]
	p.Time = norm
	u.Points[c] = p
	return nil
}

// SetInterval changes an interval category's cadence.
func (u *User) SetInterval(c Category, minutes int) error {
	def, ok := Lookup(c)
	if !ok || def.Kind != KindInterval {
		return fmt.Errorf("%q is not an interval category", c)
	}
	if minutes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, minutes)
	}
	u.Normalize()
	is := u.Intervals[c]
	is.IntervalMinutes = minutes
	u.Intervals[c] = is
	return nil
}

// SetWindow changes an interval category's daily window.
func (u *User) SetWindow(c Category, start, end string) error {
	def, ok := Lookup(c)
	if !ok || def.Kind != KindInterval {
		return fmt.Errorf("%q is not an interval category", c)
	}
	s, err := NormalizeClock(start)
	if err != nil {
		return err
	}
	e, err := NormalizeClock(end)
	if err != nil {
		return err
	}
	u.Normalize()
	is := u.Intervals[c]
	is.WindowStart, is.WindowEnd = s, e
	u.Intervals[c] = is
	return nil
}

// RecordDrink logs water intake and restarts the water cadence from now.
func (u *User) RecordDrink(ml int, now time.Time) {
	u.Water.ResetIfNewDay(now)
	u.Water.Add(ml)
	u.Normalize()
	if is, ok := u.Intervals[Water]; ok {
		is.LastFiredAt = now.Unix()
		u.Intervals[Water] = is
	}
}
