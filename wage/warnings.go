package wage

// Warning messages, in the order Warnings emits them.
const (
	WarnWeeklyRestUnknown = "weekly rest allowance is not confirmed for this workplace; it was not included"
	WarnNightUnknown      = "night allowance is not confirmed for this workplace; it was not included"
	WarnHolidayUnknown    = "holiday allowance is not confirmed for this workplace; it was not included"
	WarnDeductionUnknown  = "deduction scheme is not set; no tax or insurance was deducted"
	WarnNoInsurance       = "four-insurance deduction is selected but no insurance component is enabled"
)

// Warnings lists the unconfirmed assumptions in cfg. A Selection of No is a
// decision and produces no warning.
func Warnings(cfg PayConfig) []string {
	var out []string
	if cfg.Allowances.WeeklyRest.IsUnknown() {
		out = append(out, WarnWeeklyRestUnknown)
	}
	if cfg.Allowances.Night.IsUnknown() {
		out = append(out, WarnNightUnknown)
	}
	if cfg.Allowances.Holiday.IsUnknown() {
		out = append(out, WarnHolidayUnknown)
	}
	switch cfg.Deduction.Normalize() {
	case DeductionUnknown:
		out = append(out, WarnDeductionUnknown)
	case DeductionFourInsurance:
		if !cfg.Insurance.AnyEnabled() {
			out = append(out, WarnNoInsurance)
		}
	}
	return out
}
