package wage

import "time"

// WeekStart returns the Monday, 00:00 UTC, of the week containing date.
func WeekStart(date time.Time) time.Time {
	d := DateOf(date)
	// Sunday is 0; shift so Monday is 0.
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeeklyMinutes sums effective minutes per Monday-anchored week.
func WeeklyMinutes(shifts []Shift, cfg PayConfig) map[time.Time]int {
	weeks := make(map[time.Time]int)
	for _, s := range shifts {
		weeks[WeekStart(s.Date)] += cfg.EffectiveMinutes(s)
	}
	return weeks
}
