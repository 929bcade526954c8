package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var ErrUnknownPreset = errors.New("unknown preset")

// IntervalPreset is the configurable part of an IntervalSetting.
type IntervalPreset struct {
	Enabled         bool
	IntervalMinutes int
	WindowStart     string
	WindowEnd       string
}

// Preset is a named bundle of settings applied to a user in one step.
type Preset struct {
	Name      string
	Title     string
	Points    map[Category]PointSetting
	Intervals map[Category]IntervalPreset
	WorkDays  []time.Weekday
}

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

var presets = []Preset{
	{
		Name:  "office",
		Title: "🏢 Office day",
		Points: map[Category]PointSetting{
			Wake:      {Enabled: true, Time: "06:30"},
			Breakfast: {Enabled: true, Time: "07:00"},
			WorkStart: {Enabled: true, Time: "08:30"},
			Lunch:     {Enabled: true, Time: "12:00"},
			WorkEnd:   {Enabled: true, Time: "17:30"},
			Exercise:  {Enabled: true, Time: "18:30"},
			Dinner:    {Enabled: true, Time: "19:30"},
			Sleep:     {Enabled: true, Time: "22:30"},
		},
		Intervals: map[Category]IntervalPreset{
			Water:   {Enabled: true, IntervalMinutes: 90, WindowStart: "07:00", WindowEnd: "21:00"},
			Break:   {Enabled: true, IntervalMinutes: 60, WindowStart: "08:30", WindowEnd: "17:30"},
			Eye:     {Enabled: true, IntervalMinutes: 20, WindowStart: "08:30", WindowEnd: "17:30"},
			Posture: {Enabled: true, IntervalMinutes: 45, WindowStart: "08:30", WindowEnd: "17:30"},
		},
		WorkDays: weekdays,
	},
	{
		Name:  "remote",
		Title: "🏠 Remote work",
		Points: map[Category]PointSetting{
			Wake:      {Enabled: true, Time: "07:30"},
			Breakfast: {Enabled: true, Time: "08:00"},
			WorkStart: {Enabled: true, Time: "09:00"},
			Lunch:     {Enabled: true, Time: "12:30"},
			WorkEnd:   {Enabled: true, Time: "18:00"},
			Exercise:  {Enabled: true, Time: "17:00"},
			Dinner:    {Enabled: true, Time: "19:00"},
			Sleep:     {Enabled: true, Time: "23:00"},
		},
		Intervals: map[Category]IntervalPreset{
			Water:   {Enabled: true, IntervalMinutes: 60, WindowStart: "08:00", WindowEnd: "22:00"},
			Break:   {Enabled: true, IntervalMinutes: 50, WindowStart: "09:00", WindowEnd: "18:00"},
			Eye:     {Enabled: true, IntervalMinutes: 20, WindowStart: "09:00", WindowEnd: "18:00"},
			Posture: {Enabled: true, IntervalMinutes: 30, WindowStart: "09:00", WindowEnd: "18:00"},
		},
		WorkDays: weekdays,
	},
	{
		Name:  "night_shift",
		Title: "🌃 Night shift",
		Points: map[Category]PointSetting{
			Wake:      {Enabled: true, Time: "15:00"},
			Breakfast: {Enabled: true, Time: "15:30"},
			WorkStart: {Enabled: true, Time: "22:00"},
			Lunch:     {Enabled: true, Time: "02:00"},
			WorkEnd:   {Enabled: true, Time: "06:00"},
			Exercise:  {Enabled: false, Time: "17:00"},
			Dinner:    {Enabled: true, Time: "20:00"},
			Sleep:     {Enabled: true, Time: "07:00"},
		},
		Intervals: map[Category]IntervalPreset{
			Water:   {Enabled: true, IntervalMinutes: 90, WindowStart: "15:00", WindowEnd: "06:00"},
			Break:   {Enabled: true, IntervalMinutes: 60, WindowStart: "22:00", WindowEnd: "06:00"},
			Eye:     {Enabled: true, IntervalMinutes: 20, WindowStart: "22:00", WindowEnd: "06:00"},
			Posture: {Enabled: false, IntervalMinutes: 45, WindowStart: "22:00", WindowEnd: "06:00"},
		},
		WorkDays: weekdays,
	},
	{
		Name:  "weekend_rest",
		Title: "🌴 Rest mode",
		Points: map[Category]PointSetting{
			Wake:      {Enabled: true, Time: "08:30"},
			Breakfast: {Enabled: true, Time: "09:00"},
			WorkStart: {Enabled: false, Time: "09:00"},
			Lunch:     {Enabled: true, Time: "12:30"},
			WorkEnd:   {Enabled: false, Time: "18:00"},
			Exercise:  {Enabled: true, Time: "10:00"},
			Dinner:    {Enabled: true, Time: "19:00"},
			Sleep:     {Enabled: true, Time: "23:00"},
		},
		Intervals: map[Category]IntervalPreset{
			Water:   {Enabled: true, IntervalMinutes: 120, WindowStart: "09:00", WindowEnd: "21:00"},
			Break:   {Enabled: false, IntervalMinutes: 60, WindowStart: "09:00", WindowEnd: "18:00"},
			Eye:     {Enabled: false, IntervalMinutes: 20, WindowStart: "09:00", WindowEnd: "18:00"},
			Posture: {Enabled: false, IntervalMinutes: 45, WindowStart: "09:00", WindowEnd: "18:00"},
		},
		WorkDays: nil,
	},
}

// Presets lists the available presets in display order.
func Presets() []Preset {
	return slices.Clone(presets)
}

// LookupPreset finds a preset by name.
func LookupPreset(name string) (Preset, error) {
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// ApplyPreset overwrites u's schedule with p and re-seeds every interval
// baseline to now, so nothing fires immediately because of the change.
// Point-event stamps and water progress are kept.
func (u *User) ApplyPreset(p Preset, now time.Time) {
	u.Normalize()
	for c, ps := range p.Points {
		u.Points[c] = ps
	}
	for c, ip := range p.Intervals {
		u.Intervals[c] = IntervalSetting{
			Enabled:         ip.Enabled,
			IntervalMinutes: ip.IntervalMinutes,
			WindowStart:     ip.WindowStart,
			WindowEnd:       ip.WindowEnd,
		}
	}
	ts := now.Unix()
	for c, is := range u.Intervals {
		is.LastFiredAt = ts
		u.Intervals[c] = is
	}
	u.WorkDays = slices.Clone(p.WorkDays)
}
