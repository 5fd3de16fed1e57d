package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// ClockTime is a time of day on a schedule that may run past midnight.
// Offset counts from midnight of the departure day, so 25h is 01:00 on the
// following day. The zero value is unset and means "no time".
type ClockTime struct {
	offset time.Duration
	valid  bool
}

// NewClockTime builds a ClockTime from hours and minutes on day zero.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime{offset: time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, valid: true}
}

// ParseClockTime parses "HH:MM" on day zero.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return ClockTime{}, fmt.Errorf("parse clock time %q: want HH:MM", s)
	}
	return NewClockTime(t.Hour(), t.Minute()), nil
}

func (c ClockTime) IsSet() bool { return c.valid }

// AddHours advances the clock by a fractional number of hours, rounded to the second.
func (c ClockTime) AddHours(h float64) ClockTime {
	d := time.Duration(math.Round(h*3600)) * time.Second
	return ClockTime{offset: c.offset + d, valid: c.valid}
}

// Day is the number of midnights crossed since day zero.
func (c ClockTime) Day() int { return int(c.offset / day) }

// Offset is the elapsed time since midnight of day zero.
func (c ClockTime) Offset() time.Duration { return c.offset }

func (c ClockTime) After(o ClockTime) bool { return c.offset > o.offset }

// Clock returns the wall-clock hour and minute, ignoring the day.
func (c ClockTime) Clock() (hour, minute int) {
	rem := c.offset % day
	return int(rem / time.Hour), int((rem % time.Hour) / time.Minute)
}

// String formats as HH:MM, with a +Nd suffix once midnight has been crossed.
func (c ClockTime) String() string {
	if !c.valid {
		return ""
	}
	h, m := c.Clock()
	if d := c.Day(); d > 0 {
		return fmt.Sprintf("%02d:%02d+%dd", h, m, d)
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// MaxClock returns the later of two times; unset values lose.
func MaxClock(a, b ClockTime) ClockTime {
	if !a.valid {
		return b
	}
	if b.valid && b.After(a) {
		return b
	}
	return a
}

// MarshalJSON encodes the offset in whole seconds, or null when unset.
// It exists for internal caching; API responses use the formatted String.
func (c ClockTime) MarshalJSON() ([]byte, error) {
	if !c.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(int64(c.offset/time.Second), 10)), nil
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*c = ClockTime{}
		return nil
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("decode clock time: %w", err)
	}
	*c = ClockTime{offset: time.Duration(secs) * time.Second, valid: true}
	return nil
}
