package domain

import "time"

// Plan is the outcome of evaluating one user at one instant: which reminders
// to dispatch and which firing state to persist afterwards.
type Plan struct {
	Fire      []Category
	Marks     map[string]string  // event key -> minute key
	Baselines map[Category]int64 // interval category -> unix seconds
}

// Empty reports whether the plan neither fires nor changes state.
func (p Plan) Empty() bool {
	return len(p.Fire) == 0 && len(p.Marks) == 0 && len(p.Baselines) == 0
}

func (p *Plan) mark(key, minute string) {
	if p.Marks == nil {
		p.Marks = map[string]string{}
	}
	p.Marks[key] = minute
}

func (p *Plan) baseline(c Category, ts int64) {
	if p.Baselines == nil {
		p.Baselines = map[Category]int64{}
	}
	p.Baselines[c] = ts
}

// Apply writes the plan's firing state into u.
func (p Plan) Apply(u *User) {
	u.Normalize()
	for k, v := range p.Marks {
		u.LastFire[k] = v
	}
	for c, ts := range p.Baselines {
		is, ok := u.Intervals[c]
		if !ok {
			continue
		}
		is.LastFiredAt = ts
		u.Intervals[c] = is
	}
}

// Evaluate decides which catalog entries are due for u at now.
//
// Point events fire when now's HH:MM equals the configured time and the
// event's last_fire stamp is not already now's minute key. Interval events
// fire inside their window once interval_minutes have elapsed since the
// baseline; a zero baseline is seeded to now without firing. Unparsable
// times and non-positive intervals are never due.
func Evaluate(u User, now time.Time) Plan {
	var p Plan
	if !u.Enabled {
		return p
	}
	minute := MinuteKey(now)
	for _, def := range Catalog {
		switch def.Kind {
		case KindPoint:
			ps, ok := u.Points[def.Category]
			if !ok || !ps.Enabled {
				continue
			}
			if def.WorkdaysOnly && !u.IsWorkDay(now.Weekday()) {
				continue
			}
			h, m, err := ParseClock(ps.Time)
			if err != nil || h != now.Hour() || m != now.Minute() {
				continue
			}
			if u.LastFire[def.EventKey] == minute {
				continue
			}
			p.Fire = append(p.Fire, def.Category)
			p.mark(def.EventKey, minute)

		case KindInterval:
			is, ok := u.Intervals[def.Category]
			if !ok || !is.Enabled || is.IntervalMinutes <= 0 {
				continue
			}
			if !InWindow(now, is.WindowStart, is.WindowEnd) {
				continue
			}
			ts := now.Unix()
			if is.LastFiredAt == 0 {
				p.baseline(def.Category, ts)
				continue
			}
			if ts-is.LastFiredAt >= int64(is.IntervalMinutes)*60 {
				p.Fire = append(p.Fire, def.Category)
				p.baseline(def.Category, ts)
			}
		}
	}
	return p
}
