/*
Package factory provides JSON to Go workplace conversion.

PURPOSE:
  Converts workplace documents (as the UI edits them and as the store keeps
  them) into schedule.Workplace and wage.PayConfig values, and back. This is
  the only place that knows the document's field names and its legacy
  encodings.

JSON SCHEMA:
  {
    "id": "3f1c...",
    "name": "Cafe",
    "color": "#4285f4",
    "salaryType": "monthly",
    "incomeType": "business",
    "hourlyWage": 10030,
    "breakType": "custom",
    "breakEveryHours": 4,
    "breakMinutesPerBlock": 30,
    "taxType": "four_insurance",
    "insuranceSettings": {
      "pension":      {"enabled": true, "rate": 4.5},
      "health":       {"enabled": true, "rate": 3.545},
      "longTermCare": {"enabled": true, "rate": 12.81},
      "employment":   {"enabled": true, "rate": 0.9}
    },
    "settings": {
      "weeklyHolidayPay": {"selection": "yes"},
      "nightPay":         {"supported": true, "userConfirmed": false},
      "holidayPay":       {"selection": "no"}
    }
  }

LEGACY ALLOWANCE ENCODING:
  Older documents describe an allowance with two booleans instead of a
  selection. Both encode the same three states:
    selection present             -> selection
    supported && userConfirmed    -> yes
    supported && !userConfirmed   -> unknown
    !supported                    -> no
    entry missing                 -> unknown

USAGE:
  wp, err := factory.ParseWorkplace(body)
  detail := wage.Calculate(wage.SalaryInput{Config: wp.Pay, ...})

SEE ALSO:
  - wage/types.go: PayConfig and Selection
  - store/sqlite: Stores PayJSON in the pay_json column
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/njob-manager/schedule"
	"github.com/warp/njob-manager/wage"
)

// ErrInvalidConfig is returned when a document holds an unrecognized value.
var ErrInvalidConfig = errors.New("invalid workplace configuration")

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// WorkplaceJSON is the JSON representation of a workplace.
type WorkplaceJSON struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	SalaryType string `json:"salaryType,omitempty"` // weekly, monthly
	IncomeType string `json:"incomeType,omitempty"` // employment, business
	PayJSON
}

// PayJSON is the pay-relevant part of a workplace document.
type PayJSON struct {
	HourlyWage           int64                  `json:"hourlyWage"`
	BreakType            string                 `json:"breakType,omitempty"` // none, standard, custom
	BreakEveryHours      int                    `json:"breakEveryHours,omitempty"`
	BreakMinutesPerBlock int                    `json:"breakMinutesPerBlock,omitempty"`
	TaxType              string                 `json:"taxType,omitempty"` // withholding3_3, four_insurance, unknown
	InsuranceSettings    *InsuranceSettingsJSON `json:"insuranceSettings,omitempty"`
	Settings             *SettingsJSON          `json:"settings,omitempty"`
}

// InsuranceSettingsJSON holds one entry per insurance.
type InsuranceSettingsJSON struct {
	Pension      *InsuranceJSON `json:"pension,omitempty"`
	Health       *InsuranceJSON `json:"health,omitempty"`
	LongTermCare *InsuranceJSON `json:"longTermCare,omitempty"`
	Employment   *InsuranceJSON `json:"employment,omitempty"`
	Accident     *InsuranceJSON `json:"accident,omitempty"`
}

// InsuranceJSON is one insurance. Rate is a percentage.
type InsuranceJSON struct {
	Enabled bool        `json:"enabled"`
	Rate    json.Number `json:"rate,omitempty"`
}

// SettingsJSON holds the allowance answers.
type SettingsJSON struct {
	WeeklyHolidayPay *AllowanceJSON `json:"weeklyHolidayPay,omitempty"`
	NightPay         *AllowanceJSON `json:"nightPay,omitempty"`
	HolidayPay       *AllowanceJSON `json:"holidayPay,omitempty"`
}

// AllowanceJSON accepts both the selection and the legacy encoding.
type AllowanceJSON struct {
	Selection     string `json:"selection,omitempty"`
	Supported     bool   `json:"supported"`
	UserConfirmed bool   `json:"userConfirmed"`
	Condition     string `json:"condition,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseWorkplace parses a JSON document into a workplace.
func ParseWorkplace(data []byte) (schedule.Workplace, error) {
	var wj WorkplaceJSON
	if err := json.Unmarshal(data, &wj); err != nil {
		return schedule.Workplace{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return wj.Workplace()
}

// Workplace converts the document to a workplace. It does not assign an ID.
func (wj WorkplaceJSON) Workplace() (schedule.Workplace, error) {
	pay, err := wj.PayConfig()
	if err != nil {
		return schedule.Workplace{}, err
	}
	w := schedule.Workplace{
		ID:         wj.ID,
		Name:       wj.Name,
		Color:      wj.Color,
		SalaryType: schedule.SalaryType(wj.SalaryType),
		IncomeType: schedule.IncomeType(wj.IncomeType),
		Pay:        pay,
	}
	if w.Color == "" {
		w.Color = schedule.DefaultColor
	}
	return w, nil
}

// PayConfig converts the pay part of a document.
func (pj PayJSON) PayConfig() (wage.PayConfig, error) {
	brk, err := parseBreak(pj.BreakType, pj.BreakEveryHours, pj.BreakMinutesPerBlock)
	if err != nil {
		return wage.PayConfig{}, err
	}
	scheme, err := parseTaxType(pj.TaxType)
	if err != nil {
		return wage.PayConfig{}, err
	}
	ins, err := pj.InsuranceSettings.settings()
	if err != nil {
		return wage.PayConfig{}, err
	}

	var s SettingsJSON
	if pj.Settings != nil {
		s = *pj.Settings
	}
	sel := func(field string, a *AllowanceJSON) (wage.Selection, error) {
		if a != nil && a.Selection != "" && wage.Selection(a.Selection).IsUnknown() && a.Selection != string(wage.SelectionUnknown) {
			return "", invalid(field+".selection", a.Selection)
		}
		return SelectionFromLegacy(a), nil
	}
	weekly, err := sel("weeklyHolidayPay", s.WeeklyHolidayPay)
	if err != nil {
		return wage.PayConfig{}, err
	}
	night, err := sel("nightPay", s.NightPay)
	if err != nil {
		return wage.PayConfig{}, err
	}
	holiday, err := sel("holidayPay", s.HolidayPay)
	if err != nil {
		return wage.PayConfig{}, err
	}

	return wage.PayConfig{
		HourlyWage: wage.Money(pj.HourlyWage),
		Break:      brk,
		Deduction:  scheme,
		Insurance:  ins,
		Allowances: wage.AllowancePolicy{WeeklyRest: weekly, Night: night, Holiday: holiday},
	}, nil
}

// SelectionFromLegacy reads an allowance entry in either encoding.
func SelectionFromLegacy(a *AllowanceJSON) wage.Selection {
	switch {
	case a == nil:
		return wage.SelectionUnknown
	case a.Selection != "":
		return wage.Selection(a.Selection).Normalize()
	case a.Supported && a.UserConfirmed:
		return wage.SelectionYes
	case a.Supported:
		return wage.SelectionUnknown
	default:
		return wage.SelectionNo
	}
}

// parseBreak keeps the custom block values for every break type so a user
// switching back to custom finds them again. Only custom uses them.
func parseBreak(kind string, everyHours, minutesPerBlock int) (wage.BreakPolicy, error) {
	if everyHours < 0 || minutesPerBlock < 0 {
		return wage.BreakPolicy{}, invalid("breakEveryHours/breakMinutesPerBlock", fmt.Sprintf("%d/%d", everyHours, minutesPerBlock))
	}
	bt := wage.BreakType(kind)
	switch bt {
	case "":
		bt = wage.BreakNone
	case wage.BreakNone, wage.BreakStandard, wage.BreakCustom:
	default:
		return wage.BreakPolicy{}, invalid("breakType", kind)
	}
	return wage.BreakPolicy{Type: bt, EveryHours: everyHours, MinutesPerBlock: minutesPerBlock}, nil
}

func parseTaxType(s string) (wage.DeductionScheme, error) {
	switch wage.DeductionScheme(s) {
	case "", wage.DeductionUnknown:
		return wage.DeductionUnknown, nil
	case wage.DeductionWithholding, wage.DeductionFourInsurance:
		return wage.DeductionScheme(s), nil
	default:
		return "", invalid("taxType", s)
	}
}

func (ij *InsuranceSettingsJSON) settings() (wage.InsuranceSettings, error) {
	var s wage.InsuranceSettings
	if ij == nil {
		return s, nil
	}
	parts := []struct {
		field string
		in    *InsuranceJSON
		out   *wage.InsuranceComponent
	}{
		{"pension", ij.Pension, &s.Pension},
		{"health", ij.Health, &s.Health},
		{"longTermCare", ij.LongTermCare, &s.LongTermCare},
		{"employment", ij.Employment, &s.Employment},
		{"accident", ij.Accident, &s.Accident},
	}
	for _, p := range parts {
		if p.in == nil {
			continue
		}
		rate := decimal.Zero
		if p.in.Rate != "" {
			r, err := decimal.NewFromString(p.in.Rate.String())
			if err != nil {
				return s, invalid("insuranceSettings."+p.field+".rate", p.in.Rate.String())
			}
			rate = r
		}
		*p.out = wage.InsuranceComponent{Enabled: p.in.Enabled, Rate: rate}
	}
	return s, nil
}

func invalid(field, value string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalidConfig, field, value)
}

// =============================================================================
// ENCODING
// =============================================================================

// FromWorkplace converts a workplace to its document.
func FromWorkplace(w schedule.Workplace) WorkplaceJSON {
	return WorkplaceJSON{
		ID:         w.ID,
		Name:       w.Name,
		Color:      w.Color,
		SalaryType: string(w.SalaryType),
		IncomeType: string(w.IncomeType),
		PayJSON:    FromPayConfig(w.Pay),
	}
}

// FromPayConfig converts a pay configuration to its document. Allowances are
// written in both encodings so older readers see the same answer. Insurance
// rates and custom break values are written even when the current scheme or
// break type does not use them, so DecodePay(EncodePay(c)) loses nothing.
func FromPayConfig(c wage.PayConfig) PayJSON {
	pj := PayJSON{
		HourlyWage:           int64(c.HourlyWage),
		BreakType:            string(c.Break.Type),
		BreakEveryHours:      c.Break.EveryHours,
		BreakMinutesPerBlock: c.Break.MinutesPerBlock,
		TaxType:              string(c.Deduction.Normalize()),
		InsuranceSettings: &InsuranceSettingsJSON{
			Pension:      insuranceJSON(c.Insurance.Pension),
			Health:       insuranceJSON(c.Insurance.Health),
			LongTermCare: insuranceJSON(c.Insurance.LongTermCare),
			Employment:   insuranceJSON(c.Insurance.Employment),
			Accident:     insuranceJSON(c.Insurance.Accident),
		},
		Settings: &SettingsJSON{
			WeeklyHolidayPay: allowanceJSON(c.Allowances.WeeklyRest),
			NightPay:         allowanceJSON(c.Allowances.Night),
			HolidayPay:       allowanceJSON(c.Allowances.Holiday),
		},
	}
	if pj.BreakType == "" {
		pj.BreakType = string(wage.BreakNone)
	}
	return pj
}

func allowanceJSON(s wage.Selection) *AllowanceJSON {
	s = s.Normalize()
	return &AllowanceJSON{
		Selection:     string(s),
		Supported:     s != wage.SelectionNo,
		UserConfirmed: s == wage.SelectionYes,
	}
}

func insuranceJSON(c wage.InsuranceComponent) *InsuranceJSON {
	return &InsuranceJSON{Enabled: c.Enabled, Rate: json.Number(c.Rate.String())}
}

// EncodePay serializes a pay configuration for storage.
func EncodePay(c wage.PayConfig) (string, error) {
	b, err := json.Marshal(FromPayConfig(c))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodePay is the inverse of EncodePay.
func DecodePay(s string) (wage.PayConfig, error) {
	var pj PayJSON
	if err := json.Unmarshal([]byte(s), &pj); err != nil {
		return wage.PayConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return pj.PayConfig()
}

// =============================================================================
// PRESETS
// =============================================================================

// FourInsurancePreset returns the standard worker-borne rates with every
// deductible component enabled.
func FourInsurancePreset() wage.InsuranceSettings {
	return wage.InsuranceSettings{
		Pension:      wage.InsuranceComponent{Enabled: true, Rate: decimal.RequireFromString("4.5")},
		Health:       wage.InsuranceComponent{Enabled: true, Rate: decimal.RequireFromString("3.545")},
		LongTermCare: wage.InsuranceComponent{Enabled: true, Rate: decimal.RequireFromString("12.81")},
		Employment:   wage.InsuranceComponent{Enabled: true, Rate: decimal.RequireFromString("0.9")},
	}
}
