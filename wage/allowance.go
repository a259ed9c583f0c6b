package wage

import "github.com/shopspring/decimal"

// =============================================================================
// ALLOWANCE RULES
// =============================================================================
//
// Every amount is integer won, floored. Rates are multiplied before the
// division by 60 so a 59-minute shift does not lose a won to an inexact
// fraction.

var (
	sixty       = decimal.NewFromInt(minutesPerHour)
	premiumRate = decimal.RequireFromString("0.5")
)

const (
	weeklyRestThresholdMinutes = 15 * minutesPerHour
	weeklyRestCapMinutes       = 40 * minutesPerHour
	weeklyRestPaidHours        = 8
)

// BasicPay is floor(effectiveMinutes/60 * hourlyWage). It is not gated by
// any Selection.
func BasicPay(effectiveMinutes int, hourlyWage Money) Money {
	if effectiveMinutes <= 0 || hourlyWage <= 0 {
		return 0
	}
	return floorMoney(decimal.NewFromInt(int64(effectiveMinutes)).
		Mul(hourlyWage.Decimal()).
		Div(sixty))
}

// premium is floor(minutes/60 * hourlyWage * 0.5).
func premium(minutes int, hourlyWage Money) Money {
	if minutes <= 0 || hourlyWage <= 0 {
		return 0
	}
	return floorMoney(decimal.NewFromInt(int64(minutes)).
		Mul(hourlyWage.Decimal()).
		Mul(premiumRate).
		Div(sixty))
}

// NightPay pays the 50% premium on night minutes, prorated by the share of
// the shift left after the break.
func NightPay(nightMinutes, totalMinutes, breakMinutes int, hourlyWage Money, sel Selection) Money {
	if !sel.Confirmed() {
		return 0
	}
	return premium(AdjustForBreak(nightMinutes, totalMinutes, breakMinutes), hourlyWage)
}

// HolidayPay pays the 50% premium on effective minutes of a shift that falls
// on a public holiday. The holiday fact is supplied by the caller.
func HolidayPay(effectiveMinutes int, hourlyWage Money, isHoliday bool, sel Selection) Money {
	if !sel.Confirmed() || !isHoliday {
		return 0
	}
	return premium(effectiveMinutes, hourlyWage)
}

// WeeklyRestPay is the paid rest day earned by one week of work. Weeks under
// 15 hours earn nothing; otherwise min(hours,40)/40 * 8 hours are paid.
func WeeklyRestPay(weekMinutes int, hourlyWage Money, sel Selection) Money {
	if !sel.Confirmed() || hourlyWage <= 0 || weekMinutes < weeklyRestThresholdMinutes {
		return 0
	}
	capped := min(weekMinutes, weeklyRestCapMinutes)
	return floorMoney(decimal.NewFromInt(int64(capped)).
		Mul(decimal.NewFromInt(weeklyRestPaidHours)).
		Mul(hourlyWage.Decimal()).
		Div(decimal.NewFromInt(weeklyRestCapMinutes)))
}

// =============================================================================
// PER-SHIFT BREAKDOWN
// =============================================================================

// ShiftPay is the per-shift result of the allowance rules.
type ShiftPay struct {
	WorkMinutes      int
	BreakMinutes     int
	EffectiveMinutes int
	NightMinutes     int // raw, before break proration
	BasicPay         Money
	NightPay         Money
	HolidayPay       Money
}

// Total is the shift's pay before weekly-rest and deductions.
func (p ShiftPay) Total() Money { return p.BasicPay + p.NightPay + p.HolidayPay }

// ComputeShift applies every per-shift rule of cfg to s.
func ComputeShift(s Shift, cfg PayConfig) ShiftPay {
	total := s.WorkMinutes()
	brk := BreakMinutes(total, cfg.Break)
	effective := max(0, total-brk)
	night := NightMinutes(s.Start, s.End)

	return ShiftPay{
		WorkMinutes:      total,
		BreakMinutes:     brk,
		EffectiveMinutes: effective,
		NightMinutes:     night,
		BasicPay:         BasicPay(effective, cfg.HourlyWage),
		NightPay:         NightPay(night, total, brk, cfg.HourlyWage, cfg.Allowances.Night),
		HolidayPay:       HolidayPay(effective, cfg.HourlyWage, s.Holiday(), cfg.Allowances.Holiday),
	}
}
