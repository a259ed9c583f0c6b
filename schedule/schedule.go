/*
Package schedule holds the records a user keeps: workplaces and the shifts
worked at them.

PURPOSE:
  A Workplace carries the pay configuration the wage engine needs. An Entry
  is one persisted shift at one workplace. Filters and ranges select which
  entries a calculation covers.

KEY CONCEPTS:
  - Workplace: Name, color and wage.PayConfig of one job
  - Entry:     A wage.Shift plus identity and provenance
  - Source:    How an entry was recorded (typed in, read from a photo, imported)
  - Range:     Inclusive date range, usually built from months

SEE ALSO:
  - candidate.go: Reviewing shifts extracted from a schedule photo
  - wage: The computation these records feed
*/
package schedule

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/warp/njob-manager/wage"
)

// =============================================================================
// WORKPLACE
// =============================================================================

type SalaryType string

const (
	SalaryWeekly  SalaryType = "weekly"
	SalaryMonthly SalaryType = "monthly"
)

type IncomeType string

const (
	IncomeEmployment IncomeType = "employment"
	IncomeBusiness   IncomeType = "business"
)

// Workplace is one job and how it pays.
type Workplace struct {
	ID         string
	Name       string
	Color      string // "#rrggbb", used for calendar display
	SalaryType SalaryType
	IncomeType IncomeType
	Pay        wage.PayConfig
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewWorkplace returns a workplace with a fresh ID.
func NewWorkplace(name string, pay wage.PayConfig) Workplace {
	return Workplace{
		ID:         uuid.NewString(),
		Name:       name,
		Color:      DefaultColor,
		SalaryType: SalaryMonthly,
		IncomeType: IncomeBusiness,
		Pay:        pay,
	}
}

// Validate checks fields the wage engine cannot interpret.
func (w Workplace) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return &FieldError{Field: "name", Reason: "required", Err: ErrInvalidWorkplace}
	}
	if w.Pay.HourlyWage < 0 {
		return &FieldError{Field: "hourlyWage", Reason: "must not be negative", Err: ErrInvalidWorkplace}
	}
	switch w.SalaryType {
	case "", SalaryWeekly, SalaryMonthly:
	default:
		return &FieldError{Field: "salaryType", Reason: "must be weekly or monthly", Err: ErrInvalidWorkplace}
	}
	switch w.IncomeType {
	case "", IncomeEmployment, IncomeBusiness:
	default:
		return &FieldError{Field: "incomeType", Reason: "must be employment or business", Err: ErrInvalidWorkplace}
	}
	if b := w.Pay.Break; b.Type == wage.BreakCustom && (b.EveryHours < 0 || b.MinutesPerBlock < 0) {
		return &FieldError{Field: "break", Reason: "custom break values must not be negative", Err: ErrInvalidWorkplace}
	}
	return nil
}

// =============================================================================
// ENTRY
// =============================================================================

type Source string

const (
	SourceManual   Source = "manual"
	SourceImage    Source = "image"
	SourceCalendar Source = "calendar"
)

// Entry is one recorded shift.
type Entry struct {
	ID          string
	WorkplaceID string
	Shift       wage.Shift
	Source      Source
	CreatedAt   time.Time
}

// NewEntry returns an entry with a fresh ID.
func NewEntry(workplaceID string, shift wage.Shift, source Source) Entry {
	if source == "" {
		source = SourceManual
	}
	return Entry{
		ID:          uuid.NewString(),
		WorkplaceID: workplaceID,
		Shift:       shift,
		Source:      source,
		CreatedAt:   time.Now().UTC(),
	}
}

// Shifts returns the shifts of entries, in order.
func Shifts(entries []Entry) []wage.Shift {
	shifts := make([]wage.Shift, len(entries))
	for i, e := range entries {
		shifts[i] = e.Shift
	}
	return shifts
}

// =============================================================================
// FILTERS AND RANGES
// =============================================================================

// Filter selects entries. Zero fields match everything.
type Filter struct {
	WorkplaceID string
	From        time.Time // inclusive date
	To          time.Time // inclusive date
}

// Match reports whether e passes the filter.
func (f Filter) Match(e Entry) bool {
	if f.WorkplaceID != "" && e.WorkplaceID != f.WorkplaceID {
		return false
	}
	d := wage.DateOf(e.Shift.Date)
	if !f.From.IsZero() && d.Before(wage.DateOf(f.From)) {
		return false
	}
	if !f.To.IsZero() && d.After(wage.DateOf(f.To)) {
		return false
	}
	return true
}

// Range is an inclusive date range.
type Range struct {
	From time.Time
	To   time.Time
}

// Filter returns a filter for one workplace over the range.
func (r Range) Filter(workplaceID string) Filter {
	return Filter{WorkplaceID: workplaceID, From: r.From, To: r.To}
}

const MonthLayout = "2006-01"

// MonthRange covers the first day of startMonth through the last day of
// endMonth, both "YYYY-MM". Reversed months are swapped.
func MonthRange(startMonth, endMonth string) (Range, error) {
	start, err := time.Parse(MonthLayout, startMonth)
	if err != nil {
		return Range{}, &FieldError{Field: "start_month", Reason: "want YYYY-MM", Err: ErrInvalidMonth}
	}
	end, err := time.Parse(MonthLayout, endMonth)
	if err != nil {
		return Range{}, &FieldError{Field: "end_month", Reason: "want YYYY-MM", Err: ErrInvalidMonth}
	}
	if end.Before(start) {
		start, end = end, start
	}
	return Range{
		From: start,
		To:   end.AddDate(0, 1, -1),
	}, nil
}
