package domain

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock yields the current instant in the bot's fixed-offset timezone.
type Clock struct {
	base clockwork.Clock
	loc  *time.Location
}

// NewClock wraps base so that Now is reported in a zone offset from UTC by offset.
func NewClock(base clockwork.Clock, offset time.Duration) Clock {
	if base == nil {
		base = clockwork.NewRealClock()
	}
	return Clock{base: base, loc: FixedZone(offset)}
}

// Now returns the current local time.
func (c Clock) Now() time.Time {
	return c.base.Now().In(c.loc)
}

// Location returns the fixed-offset location used by Now.
func (c Clock) Location() *time.Location { return c.loc }

// Base exposes the underlying clock (tickers, sleeps).
func (c Clock) Base() clockwork.Clock { return c.base }

// FixedZone builds a named location for a whole-minute offset, e.g. "UTC+07:00".
func FixedZone(offset time.Duration) *time.Location {
	secs := int(offset.Truncate(time.Minute).Seconds())
	sign := '+'
	abs := secs
	if secs < 0 {
		sign = '-'
		abs = -secs
	}
	name := fmt.Sprintf("UTC%c%02d:%02d", sign, abs/3600, (abs%3600)/60)
	return time.FixedZone(name, secs)
}
