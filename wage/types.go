/*
Package wage provides the shift wage computation engine.

PURPOSE:
  Converts a set of shifts plus one workplace's pay configuration into an
  itemized pay breakdown: basic pay, night premium, holiday premium,
  weekly-rest allowance, deductions and take-home pay. Every rule is a pure
  function; nothing here performs I/O or keeps state between calls.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money:      Integer won amounts (always floored, never rounded up)
  - Selection:  Tri-state policy answer (yes / no / unknown)
  - PayConfig:  Everything about a workplace that affects pay
  - Shift:      One work period on one date

DESIGN PRINCIPLES:
  1. Determinism: Same inputs, bit-identical outputs
  2. Precision: decimal.Decimal for every rate, multiply before divide
  3. Explicit confirmation: An allowance is paid only when its Selection is Yes
  4. External facts: Holiday status comes from the caller, never from weekday

USAGE:
  shift, err := wage.NewShift("2025-03-10", "21:00", "06:00")
  detail := wage.Calculate(wage.SalaryInput{
      Shifts: []wage.Shift{shift},
      Config: cfg,
  })

SEE ALSO:
  - clock.go: Clock parsing and minute primitives
  - allowance.go: Basic pay and allowance rules
  - deduction.go: Withholding and four-insurance deductions
  - salary.go: The aggregator
*/
package wage

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Integer won
// =============================================================================

// Money is an amount of won. Fractions of a won never appear in results.
type Money int64

// Decimal returns the amount as a decimal for rate arithmetic.
func (m Money) Decimal() decimal.Decimal { return decimal.NewFromInt(int64(m)) }

func floorMoney(d decimal.Decimal) Money { return Money(d.Floor().IntPart()) }

// =============================================================================
// SELECTION - Tri-state policy confirmation
// =============================================================================

// Selection records whether a workplace pays an allowance.
// The zero value is unknown.
type Selection string

const (
	SelectionUnknown Selection = "unknown"
	SelectionYes     Selection = "yes"
	SelectionNo      Selection = "no"
)

// Confirmed reports whether the allowance is paid.
func (s Selection) Confirmed() bool { return s == SelectionYes }

// IsUnknown reports whether the answer is missing. Unrecognized values count
// as unknown.
func (s Selection) IsUnknown() bool { return s != SelectionYes && s != SelectionNo }

// Normalize maps unrecognized values to SelectionUnknown.
func (s Selection) Normalize() Selection {
	if s.IsUnknown() {
		return SelectionUnknown
	}
	return s
}

// AllowancePolicy holds one Selection per allowance.
type AllowancePolicy struct {
	WeeklyRest Selection
	Night      Selection
	Holiday    Selection
}

// =============================================================================
// BREAK POLICY
// =============================================================================

type BreakType string

const (
	BreakNone     BreakType = "none"
	BreakStandard BreakType = "standard" // 30 minutes per completed 4 hours
	BreakCustom   BreakType = "custom"   // MinutesPerBlock per completed EveryHours
)

type BreakPolicy struct {
	Type            BreakType
	EveryHours      int
	MinutesPerBlock int
}

// =============================================================================
// DEDUCTIONS
// =============================================================================

type DeductionScheme string

const (
	DeductionUnknown       DeductionScheme = "unknown"
	DeductionWithholding   DeductionScheme = "withholding3_3" // flat 3.3% business income tax
	DeductionFourInsurance DeductionScheme = "four_insurance"
)

// Normalize maps empty and unrecognized schemes to DeductionUnknown.
func (d DeductionScheme) Normalize() DeductionScheme {
	switch d {
	case DeductionWithholding, DeductionFourInsurance:
		return d
	default:
		return DeductionUnknown
	}
}

// InsuranceComponent is one deductible insurance line. Rate is a percentage.
type InsuranceComponent struct {
	Enabled bool
	Rate    decimal.Decimal
}

// InsuranceSettings configures the four-insurance scheme.
//
// LongTermCare.Rate applies to the health amount, not to gross pay.
// Accident is employer-borne and is never deducted from the worker.
type InsuranceSettings struct {
	Pension      InsuranceComponent
	Health       InsuranceComponent
	LongTermCare InsuranceComponent
	Employment   InsuranceComponent
	Accident     InsuranceComponent
}

// AnyEnabled reports whether at least one worker-borne component is enabled.
func (s InsuranceSettings) AnyEnabled() bool {
	return s.Pension.Enabled || s.Health.Enabled || s.LongTermCare.Enabled || s.Employment.Enabled
}

// =============================================================================
// PAY CONFIGURATION
// =============================================================================

// PayConfig is the pay-relevant configuration of one workplace.
type PayConfig struct {
	HourlyWage Money
	Break      BreakPolicy
	Deduction  DeductionScheme
	Insurance  InsuranceSettings
	Allowances AllowancePolicy
}

// EffectiveMinutes returns worked minutes minus break minutes for a shift.
func (c PayConfig) EffectiveMinutes(s Shift) int {
	total := s.WorkMinutes()
	return max(0, total-BreakMinutes(total, c.Break))
}

// =============================================================================
// SHIFT
// =============================================================================

// Shift is one work period. End before Start means the shift crosses midnight.
type Shift struct {
	Date      time.Time // calendar date, 00:00 UTC
	Start     Clock
	End       Clock
	Memo      string
	IsHoliday *bool // nil when no calendar fact is known
}

// NewShift parses a date ("2006-01-02") and two clock strings.
func NewShift(date, start, end string) (Shift, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Shift{}, err
	}
	s, err := ParseClock(start)
	if err != nil {
		return Shift{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Shift{}, err
	}
	return Shift{Date: d, Start: s, End: e}, nil
}

// WorkMinutes returns the elapsed minutes of the shift.
func (s Shift) WorkMinutes() int { return WorkMinutes(s.Start, s.End) }

// Holiday reports whether the shift date is a known public holiday.
func (s Shift) Holiday() bool { return s.IsHoliday != nil && *s.IsHoliday }

// WithHoliday returns a copy of the shift with the holiday fact set.
func (s Shift) WithHoliday(holiday bool) Shift {
	s.IsHoliday = &holiday
	return s
}

// =============================================================================
// DATES
// =============================================================================

const DateLayout = "2006-01-02"

// ParseDate parses "2006-01-02" into a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &DateError{Input: s}
	}
	return t, nil
}

// DateOf truncates t to its calendar date at 00:00 UTC, keeping t's own
// year, month and day.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
