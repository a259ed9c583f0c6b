package wage

import "time"

// =============================================================================
// SALARY DETAIL - The aggregator
// =============================================================================

// SalaryInput is one workplace's query.
//
// History is the workplace's full shift history. It sizes the weekly-rest
// allowance of each week Shifts touches, so a range that cuts a week in half
// still sees the whole week. When History is empty, Shifts is used.
type SalaryInput struct {
	Shifts  []Shift
	Config  PayConfig
	History []Shift
}

// SalaryDetail is the itemized result.
type SalaryDetail struct {
	TotalMinutes   int
	TotalHours     int // floor(TotalMinutes / 60)
	BasicPay       Money
	NightPay       Money
	HolidayPay     Money
	WeeklyRestPay  Money
	TotalBeforeTax Money
	Tax            Money
	TaxType        DeductionScheme
	Insurance      InsuranceBreakdown
	TotalAfterTax  Money
	Warnings       []string
}

// Calculate computes the salary detail for in. It never fails; malformed
// configuration yields zero amounts and warnings.
func Calculate(in SalaryInput) SalaryDetail {
	cfg := in.Config
	var d SalaryDetail

	touched := make(map[time.Time]struct{})
	for _, s := range in.Shifts {
		p := ComputeShift(s, cfg)
		d.TotalMinutes += p.EffectiveMinutes
		d.BasicPay += p.BasicPay
		d.NightPay += p.NightPay
		d.HolidayPay += p.HolidayPay
		touched[WeekStart(s.Date)] = struct{}{}
	}
	d.TotalHours = d.TotalMinutes / minutesPerHour

	history := in.History
	if len(history) == 0 {
		history = in.Shifts
	}
	weekly := WeeklyMinutes(history, cfg)
	for week := range touched {
		d.WeeklyRestPay += WeeklyRestPay(weekly[week], cfg.HourlyWage, cfg.Allowances.WeeklyRest)
	}

	d.TotalBeforeTax = d.BasicPay + d.NightPay + d.HolidayPay + d.WeeklyRestPay
	d.TaxType = cfg.Deduction.Normalize()
	d.Tax, d.Insurance = Deduct(d.TotalBeforeTax, cfg)
	d.TotalAfterTax = d.TotalBeforeTax - d.Tax
	d.Warnings = Warnings(cfg)
	return d
}
