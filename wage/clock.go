package wage

import (
	"strconv"
	"strings"
)

// =============================================================================
// CLOCK - Time of day with minute granularity
// =============================================================================

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour

	nightStartMinute = 22 * minutesPerHour // 22:00
	nightEndMinute   = 6 * minutesPerHour  // 06:00
)

// Clock is a time of day, stored as minutes since midnight.
type Clock struct {
	minutes int
}

// NewClock builds a clock from an hour (0-23) and minute (0-59).
func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 23 {
		return Clock{}, &ClockError{Input: strconv.Itoa(hour) + ":" + strconv.Itoa(minute), Reason: "hour out of range"}
	}
	if minute < 0 || minute > 59 {
		return Clock{}, &ClockError{Input: strconv.Itoa(hour) + ":" + strconv.Itoa(minute), Reason: "minute out of range"}
	}
	return Clock{minutes: hour*minutesPerHour + minute}, nil
}

// ParseClock parses "H:mm" or "HH:mm".
func ParseClock(s string) (Clock, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return Clock{}, &ClockError{Input: s, Reason: "missing ':'"}
	}
	if len(h) < 1 || len(h) > 2 || !allDigits(h) {
		return Clock{}, &ClockError{Input: s, Reason: "hour must be 1 or 2 digits"}
	}
	if len(m) != 2 || !allDigits(m) {
		return Clock{}, &ClockError{Input: s, Reason: "minute must be 2 digits"}
	}
	hour, _ := strconv.Atoi(h)
	minute, _ := strconv.Atoi(m)
	c, err := NewClock(hour, minute)
	if err != nil {
		err.(*ClockError).Input = s
		return Clock{}, err
	}
	return c, nil
}

// MustClock is ParseClock that panics. For constants and tests.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (c Clock) Hour() int          { return c.minutes / minutesPerHour }
func (c Clock) Minute() int        { return c.minutes % minutesPerHour }
func (c Clock) SinceMidnight() int { return c.minutes }

// String formats the clock as zero-padded "HH:mm".
func (c Clock) String() string {
	var b strings.Builder
	b.Grow(5)
	if c.Hour() < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(c.Hour()))
	b.WriteByte(':')
	if c.Minute() < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(c.Minute()))
	return b.String()
}

func (c Clock) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := ParseClock(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// =============================================================================
// DURATION PRIMITIVES
// =============================================================================

// WorkMinutes returns minutes from start to end. An end before start means
// the shift crosses midnight; equal clocks are a zero-length shift.
func WorkMinutes(start, end Clock) int {
	s, e := start.minutes, end.minutes
	if e < s {
		e += minutesPerDay
	}
	return e - s
}

// WorkMinutesBetween is WorkMinutes over clock strings.
func WorkMinutesBetween(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return WorkMinutes(s, e), nil
}

// nightWindows are the night intervals [from, to) on a two-day minute
// timeline. A shift spans at most one day, so it never leaves [0, 2880).
var nightWindows = [...][2]int{
	{0, nightEndMinute},
	{nightStartMinute, minutesPerDay + nightEndMinute},
	{minutesPerDay + nightStartMinute, 2 * minutesPerDay},
}

// NightMinutes returns how many minutes of the shift fall in 22:00-06:00.
func NightMinutes(start, end Clock) int {
	from := start.minutes
	to := from + WorkMinutes(start, end)

	night := 0
	for _, w := range nightWindows {
		lo, hi := max(from, w[0]), min(to, w[1])
		if hi > lo {
			night += hi - lo
		}
	}
	return night
}

// BreakMinutes returns the unpaid break for a shift of total minutes.
// A block only counts once it is complete.
func BreakMinutes(total int, p BreakPolicy) int {
	switch p.Type {
	case BreakStandard:
		return breakByRule(total, 4*minutesPerHour, 30)
	case BreakCustom:
		if p.EveryHours <= 0 || p.MinutesPerBlock <= 0 {
			return 0
		}
		return breakByRule(total, p.EveryHours*minutesPerHour, p.MinutesPerBlock)
	default:
		return 0
	}
}

func breakByRule(total, blockMinutes, minutesPerBlock int) int {
	if total <= 0 || blockMinutes <= 0 || total < blockMinutes {
		return 0
	}
	blocks := total / blockMinutes
	return min(total, blocks*minutesPerBlock)
}

// AdjustForBreak prorates target minutes (e.g. night minutes) by the share of
// the shift left after the break, rounding half up.
func AdjustForBreak(target, total, breakMinutes int) int {
	if total <= 0 || breakMinutes <= 0 {
		return max(0, target)
	}
	if target <= 0 {
		return 0
	}
	effective := max(0, total-breakMinutes)
	// round(target*effective/total) in integers
	return (2*target*effective + total) / (2 * total)
}
