package wage_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/njob-manager/wage"
)

// =============================================================================
// ALLOWANCE RULES
// =============================================================================

func TestBasicPay(t *testing.T) {
	assert.Equal(t, wage.Money(80000), wage.BasicPay(480, 10000))
	assert.Equal(t, wage.Money(9833), wage.BasicPay(59, 10000), "floor(59/60*10000)")
	assert.Equal(t, wage.Money(0), wage.BasicPay(480, 0))
	assert.Equal(t, wage.Money(0), wage.BasicPay(480, -100))
	assert.Equal(t, wage.Money(0), wage.BasicPay(-10, 10000))
}

func TestNightPay_OvernightScenario(t *testing.T) {
	// GIVEN: night allowance confirmed, 21:00-06:00, 10,000 won, no break
	shift, err := wage.NewShift("2025-03-10", "21:00", "06:00")
	require.NoError(t, err)
	cfg := wage.PayConfig{
		HourlyWage: 10000,
		Allowances: wage.AllowancePolicy{Night: wage.SelectionYes},
	}

	// WHEN
	p := wage.ComputeShift(shift, cfg)

	// THEN
	assert.Equal(t, 540, p.WorkMinutes)
	assert.Equal(t, 480, p.NightMinutes)
	assert.Equal(t, wage.Money(40000), p.NightPay)
	assert.Equal(t, wage.Money(90000), p.BasicPay)
}

func TestNightPay_Gated(t *testing.T) {
	for _, sel := range []wage.Selection{wage.SelectionNo, wage.SelectionUnknown, "", "maybe"} {
		assert.Equal(t, wage.Money(0), wage.NightPay(480, 540, 0, 10000, sel), string(sel))
	}
}

func TestNightPay_ProratedByBreak(t *testing.T) {
	// 480 night of 540 total with a 60 minute break -> 427 minutes
	// floor(427 * 10000 * 0.5 / 60) = 35583
	assert.Equal(t, wage.Money(35583), wage.NightPay(480, 540, 60, 10000, wage.SelectionYes))
}

func TestHolidayPay(t *testing.T) {
	assert.Equal(t, wage.Money(40000), wage.HolidayPay(480, 10000, true, wage.SelectionYes))
	assert.Equal(t, wage.Money(0), wage.HolidayPay(480, 10000, false, wage.SelectionYes))
	assert.Equal(t, wage.Money(0), wage.HolidayPay(480, 10000, true, wage.SelectionUnknown))
	assert.Equal(t, wage.Money(0), wage.HolidayPay(480, 10000, true, wage.SelectionNo))
}

func TestHolidayPay_WeekendIsNotAHoliday(t *testing.T) {
	// GIVEN: a Sunday shift with no holiday fact
	shift, err := wage.NewShift("2025-03-16", "09:00", "17:00")
	require.NoError(t, err)
	cfg := wage.PayConfig{
		HourlyWage: 10000,
		Allowances: wage.AllowancePolicy{Holiday: wage.SelectionYes},
	}

	// THEN: no premium until the caller says it is a holiday
	assert.Equal(t, wage.Money(0), wage.ComputeShift(shift, cfg).HolidayPay)
	assert.Equal(t, wage.Money(40000), wage.ComputeShift(shift.WithHoliday(true), cfg).HolidayPay)
}

func TestWeeklyRestPay_Thresholds(t *testing.T) {
	yes := wage.SelectionYes

	assert.Equal(t, wage.Money(30000), wage.WeeklyRestPay(15*60, 10000, yes), "exactly 15h")
	assert.Equal(t, wage.Money(0), wage.WeeklyRestPay(15*60-1, 10000, yes), "14:59")
	assert.Equal(t, wage.Money(80000), wage.WeeklyRestPay(40*60, 10000, yes), "40h")
	assert.Equal(t, wage.Money(80000), wage.WeeklyRestPay(52*60, 10000, yes), "capped at 40h")
	assert.Equal(t, wage.Money(40000), wage.WeeklyRestPay(20*60, 10000, yes))

	assert.Equal(t, wage.Money(0), wage.WeeklyRestPay(40*60, 10000, wage.SelectionNo))
	assert.Equal(t, wage.Money(0), wage.WeeklyRestPay(40*60, 10000, wage.SelectionUnknown))
	assert.Equal(t, wage.Money(0), wage.WeeklyRestPay(40*60, 0, yes))
}

func TestComputeShift_StandardBreak(t *testing.T) {
	shift, err := wage.NewShift("2025-03-11", "09:00", "18:00")
	require.NoError(t, err)
	cfg := wage.PayConfig{HourlyWage: 12000, Break: wage.BreakPolicy{Type: wage.BreakStandard}}

	p := wage.ComputeShift(shift, cfg)

	assert.Equal(t, 540, p.WorkMinutes)
	assert.Equal(t, 60, p.BreakMinutes)
	assert.Equal(t, 480, p.EffectiveMinutes)
	assert.Equal(t, wage.Money(96000), p.BasicPay)
	assert.Equal(t, p.BasicPay, p.Total())
}

// =============================================================================
// DEDUCTIONS
// =============================================================================

func fourInsurance() wage.InsuranceSettings {
	return wage.InsuranceSettings{
		Pension:      wage.InsuranceComponent{Enabled: true, Rate: decimal.RequireFromString("4.5")},
		Health:       wage.InsuranceComponent{Enabled: true, Rate: decimal.RequireFromString("3.545")},
		LongTermCare: wage.InsuranceComponent{Enabled: true, Rate: decimal.RequireFromString("12.81")},
		Employment:   wage.InsuranceComponent{Enabled: true, Rate: decimal.RequireFromString("0.9")},
		Accident:     wage.InsuranceComponent{Enabled: true, Rate: decimal.RequireFromString("1.0")},
	}
}

func TestWithholdingTax(t *testing.T) {
	assert.Equal(t, wage.Money(33000), wage.WithholdingTax(1_000_000))
	assert.Equal(t, wage.Money(3), wage.WithholdingTax(99), "floor(3.267)")
	assert.Equal(t, wage.Money(0), wage.WithholdingTax(0))
	assert.Equal(t, wage.Money(0), wage.WithholdingTax(-500))
}

func TestInsuranceDeduction_AllEnabled(t *testing.T) {
	b := wage.InsuranceDeduction(1_000_000, fourInsurance())

	assert.Equal(t, wage.Money(45000), b.Pension)
	assert.Equal(t, wage.Money(35450), b.Health)
	assert.Equal(t, wage.Money(4541), b.LongTermCare, "floor(35450 * 12.81 / 100) = floor(4541.145)")
	assert.Equal(t, wage.Money(9000), b.Employment)
	assert.Equal(t, wage.Money(93991), b.Total, "accident is never deducted")
}

func TestInsuranceDeduction_LongTermCareNeedsHealth(t *testing.T) {
	s := fourInsurance()
	s.Health.Enabled = false

	b := wage.InsuranceDeduction(1_000_000, s)

	assert.Equal(t, wage.Money(0), b.Health)
	assert.Equal(t, wage.Money(0), b.LongTermCare)
	assert.Equal(t, wage.Money(54000), b.Total)
}

func TestInsuranceDeduction_NonPositiveRates(t *testing.T) {
	s := fourInsurance()
	s.Pension.Rate = decimal.Zero
	s.Employment.Rate = decimal.NewFromInt(-1)

	b := wage.InsuranceDeduction(1_000_000, s)

	assert.Equal(t, wage.Money(0), b.Pension)
	assert.Equal(t, wage.Money(0), b.Employment)
	assert.Equal(t, wage.Money(35450+4541), b.Total)
}

func TestDeduct_Schemes(t *testing.T) {
	tax, ins := wage.Deduct(1_000_000, wage.PayConfig{Deduction: wage.DeductionWithholding})
	assert.Equal(t, wage.Money(33000), tax)
	assert.Equal(t, wage.InsuranceBreakdown{}, ins)

	tax, ins = wage.Deduct(1_000_000, wage.PayConfig{Deduction: wage.DeductionFourInsurance, Insurance: fourInsurance()})
	assert.Equal(t, wage.Money(93991), tax)
	assert.Equal(t, tax, ins.Total)

	tax, _ = wage.Deduct(1_000_000, wage.PayConfig{})
	assert.Equal(t, wage.Money(0), tax, "unknown scheme deducts nothing")
}
