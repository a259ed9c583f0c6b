package wage

import "github.com/shopspring/decimal"

// =============================================================================
// DEDUCTION RULES
// =============================================================================

var (
	withholdingRate = decimal.RequireFromString("0.033")
	hundred         = decimal.NewFromInt(100)
)

// WithholdingTax is the flat 3.3% business income withholding.
func WithholdingTax(gross Money) Money {
	if gross <= 0 {
		return 0
	}
	return floorMoney(gross.Decimal().Mul(withholdingRate))
}

// InsuranceBreakdown itemizes the worker-borne four-insurance deduction.
type InsuranceBreakdown struct {
	Pension      Money
	Health       Money
	LongTermCare Money
	Employment   Money
	Total        Money
}

func percentOf(base Money, c InsuranceComponent) Money {
	if !c.Enabled || base <= 0 || !c.Rate.IsPositive() {
		return 0
	}
	return floorMoney(base.Decimal().Mul(c.Rate).Div(hundred))
}

// InsuranceDeduction applies the enabled components to gross pay.
// Long-term care compounds on the health amount.
func InsuranceDeduction(gross Money, s InsuranceSettings) InsuranceBreakdown {
	b := InsuranceBreakdown{
		Pension:    percentOf(gross, s.Pension),
		Health:     percentOf(gross, s.Health),
		Employment: percentOf(gross, s.Employment),
	}
	if b.Health > 0 {
		b.LongTermCare = percentOf(b.Health, s.LongTermCare)
	}
	b.Total = b.Pension + b.Health + b.LongTermCare + b.Employment
	return b
}

// Deduct applies the configured scheme to gross pay. It returns the total
// deduction and the insurance breakdown, which is zero unless the scheme is
// four-insurance. An unknown scheme deducts nothing.
func Deduct(gross Money, cfg PayConfig) (Money, InsuranceBreakdown) {
	switch cfg.Deduction.Normalize() {
	case DeductionWithholding:
		return WithholdingTax(gross), InsuranceBreakdown{}
	case DeductionFourInsurance:
		b := InsuranceDeduction(gross, cfg.Insurance)
		return b.Total, b
	default:
		return 0, InsuranceBreakdown{}
	}
}
