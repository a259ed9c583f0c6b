/*
Package holiday answers "is this date a public holiday?" for the wage engine.

PURPOSE:
  The holiday premium is paid only on dates a calendar says are holidays.
  Weekends are never assumed to be holidays. This package holds the
  calendar abstraction, an in-memory calendar, the lookup cache and the
  helper that stamps holiday facts onto shifts before calculation.

KEY CONCEPTS:
  - Calendar: Anything that can answer IsHoliday for a date
  - Holiday:  One dated or recurring (same month/day every year) holiday
  - Cache:    Explicit TTL cache of per-date answers, owned by the caller

USAGE:
  cache := holiday.NewCache(24 * time.Hour)
  cal := holiday.Cached(store, cache)
  shifts, err := holiday.Annotate(ctx, cal, shifts)

SEE ALSO:
  - cache.go: TTL cache and the Cached decorator
  - store/sqlite: Persistent Calendar implementation
*/
package holiday

import (
	"context"
	"time"

	"github.com/warp/njob-manager/wage"
)

// Calendar provides holiday lookup.
type Calendar interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
}

// Holiday is a public or personal day off.
type Holiday struct {
	ID        string
	Date      time.Time // 00:00 UTC
	Name      string    // e.g. "Independence Movement Day"
	Recurring bool      // true = same month/day every year
}

// Matches reports whether the holiday falls on date.
func (h Holiday) Matches(date time.Time) bool {
	d := wage.DateOf(date)
	if h.Recurring {
		return h.Date.Month() == d.Month() && h.Date.Day() == d.Day()
	}
	return wage.DateOf(h.Date).Equal(d)
}

// On returns the date the holiday falls on in year.
func (h Holiday) On(year int) time.Time {
	if !h.Recurring {
		return wage.DateOf(h.Date)
	}
	return time.Date(year, h.Date.Month(), h.Date.Day(), 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// STATIC CALENDAR
// =============================================================================

// Static is a fixed in-memory list of holidays.
type Static []Holiday

func (s Static) IsHoliday(_ context.Context, date time.Time) (bool, error) {
	for _, h := range s {
		if h.Matches(date) {
			return true, nil
		}
	}
	return false, nil
}

// None is a calendar with no holidays.
var None Calendar = Static(nil)

// =============================================================================
// ANNOTATION
// =============================================================================

// Annotate returns a copy of shifts with IsHoliday filled from cal wherever
// it is nil. Facts already present on a shift are kept. Each date is looked
// up once.
func Annotate(ctx context.Context, cal Calendar, shifts []wage.Shift) ([]wage.Shift, error) {
	out := make([]wage.Shift, len(shifts))
	seen := make(map[time.Time]bool)

	for i, s := range shifts {
		if s.IsHoliday == nil && cal != nil {
			day := wage.DateOf(s.Date)
			isHoliday, ok := seen[day]
			if !ok {
				var err error
				isHoliday, err = cal.IsHoliday(ctx, day)
				if err != nil {
					return nil, err
				}
				seen[day] = isHoliday
			}
			s = s.WithHoliday(isHoliday)
		}
		out[i] = s
	}
	return out, nil
}

// =============================================================================
// DEFAULTS
// =============================================================================

// KoreanFixedHolidays returns the solar-calendar public holidays of Korea as
// recurring entries. Lunar holidays (Seollal, Chuseok, Buddha's Birthday)
// and substitute days move every year and must be entered per year.
func KoreanFixedHolidays() []Holiday {
	fixed := []struct {
		id    string
		month time.Month
		day   int
		name  string
	}{
		{"kr-new-year", time.January, 1, "New Year's Day"},
		{"kr-independence-movement", time.March, 1, "Independence Movement Day"},
		{"kr-childrens-day", time.May, 5, "Children's Day"},
		{"kr-memorial-day", time.June, 6, "Memorial Day"},
		{"kr-liberation-day", time.August, 15, "Liberation Day"},
		{"kr-foundation-day", time.October, 3, "National Foundation Day"},
		{"kr-hangul-day", time.October, 9, "Hangul Day"},
		{"kr-christmas", time.December, 25, "Christmas Day"},
	}

	holidays := make([]Holiday, 0, len(fixed))
	for _, f := range fixed {
		holidays = append(holidays, Holiday{
			ID:        f.id,
			Date:      time.Date(2000, f.month, f.day, 0, 0, 0, 0, time.UTC),
			Name:      f.name,
			Recurring: true,
		})
	}
	return holidays
}
