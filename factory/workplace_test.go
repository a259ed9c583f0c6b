package factory_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/njob-manager/factory"
	"github.com/warp/njob-manager/schedule"
	"github.com/warp/njob-manager/wage"
)

const cafeJSON = `{
  "id": "wp-cafe",
  "name": "Cafe",
  "color": "#34a853",
  "salaryType": "weekly",
  "incomeType": "employment",
  "hourlyWage": 10030,
  "breakType": "custom",
  "breakEveryHours": 4,
  "breakMinutesPerBlock": 30,
  "taxType": "four_insurance",
  "insuranceSettings": {
    "pension": {"enabled": true, "rate": 4.5},
    "health": {"enabled": true, "rate": 3.545},
    "longTermCare": {"enabled": true, "rate": 12.81},
    "employment": {"enabled": false, "rate": 0.9}
  },
  "settings": {
    "weeklyHolidayPay": {"selection": "yes"},
    "nightPay": {"supported": true, "userConfirmed": false, "condition": "workTime between 22:00-06:00"},
    "holidayPay": {"supported": false, "userConfirmed": false}
  }
}`

func TestParseWorkplace_FullDocument(t *testing.T) {
	// WHEN
	w, err := factory.ParseWorkplace([]byte(cafeJSON))

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "wp-cafe", w.ID)
	assert.Equal(t, schedule.SalaryWeekly, w.SalaryType)
	assert.Equal(t, schedule.IncomeEmployment, w.IncomeType)
	assert.Equal(t, wage.Money(10030), w.Pay.HourlyWage)
	assert.Equal(t, wage.BreakPolicy{Type: wage.BreakCustom, EveryHours: 4, MinutesPerBlock: 30}, w.Pay.Break)
	assert.Equal(t, wage.DeductionFourInsurance, w.Pay.Deduction)

	assert.True(t, w.Pay.Insurance.Health.Enabled)
	assert.True(t, w.Pay.Insurance.Health.Rate.Equal(decimal.RequireFromString("3.545")))
	assert.False(t, w.Pay.Insurance.Employment.Enabled)
	assert.False(t, w.Pay.Insurance.Accident.Enabled)

	assert.Equal(t, wage.AllowancePolicy{
		WeeklyRest: wage.SelectionYes,
		Night:      wage.SelectionUnknown,
		Holiday:    wage.SelectionNo,
	}, w.Pay.Allowances)
}

func TestParseWorkplace_MissingSettingsAreUnknown(t *testing.T) {
	w, err := factory.ParseWorkplace([]byte(`{"name": "Store", "hourlyWage": 9860}`))
	require.NoError(t, err)

	assert.Equal(t, wage.SelectionUnknown, w.Pay.Allowances.WeeklyRest)
	assert.Equal(t, wage.SelectionUnknown, w.Pay.Allowances.Night)
	assert.Equal(t, wage.SelectionUnknown, w.Pay.Allowances.Holiday)
	assert.Equal(t, wage.DeductionUnknown, w.Pay.Deduction)
	assert.Equal(t, wage.BreakNone, w.Pay.Break.Type)
	assert.Equal(t, schedule.DefaultColor, w.Color)
	assert.Len(t, wage.Warnings(w.Pay), 4)
}

func TestParseWorkplace_RejectsUnknownValues(t *testing.T) {
	for name, doc := range map[string]string{
		"breakType": `{"name": "x", "breakType": "lunch"}`,
		"taxType":   `{"name": "x", "taxType": "vat"}`,
		"selection": `{"name": "x", "settings": {"nightPay": {"selection": "perhaps"}}}`,
		"rate":      `{"name": "x", "insuranceSettings": {"health": {"enabled": true, "rate": "abc"}}}`,
		"syntax":    `{"name": `,
		"wage":      `{"name": "x", "hourlyWage": "lots"}`,
	} {
		_, err := factory.ParseWorkplace([]byte(doc))
		assert.ErrorIs(t, err, factory.ErrInvalidConfig, name)
	}
}

func TestSelectionFromLegacy(t *testing.T) {
	cases := []struct {
		name string
		in   *factory.AllowanceJSON
		want wage.Selection
	}{
		{"missing", nil, wage.SelectionUnknown},
		{"supported and confirmed", &factory.AllowanceJSON{Supported: true, UserConfirmed: true}, wage.SelectionYes},
		{"supported only", &factory.AllowanceJSON{Supported: true}, wage.SelectionUnknown},
		{"not supported", &factory.AllowanceJSON{}, wage.SelectionNo},
		{"selection wins", &factory.AllowanceJSON{Selection: "no", Supported: true, UserConfirmed: true}, wage.SelectionNo},
		{"selection unknown", &factory.AllowanceJSON{Selection: "unknown"}, wage.SelectionUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, factory.SelectionFromLegacy(tc.in), tc.name)
	}
}

func TestEncodeDecodePay_PreservesCalculation(t *testing.T) {
	// GIVEN: a configuration with every feature set
	cfg := wage.PayConfig{
		HourlyWage: 12000,
		Break:      wage.BreakPolicy{Type: wage.BreakStandard},
		Deduction:  wage.DeductionFourInsurance,
		Insurance:  factory.FourInsurancePreset(),
		Allowances: wage.AllowancePolicy{
			WeeklyRest: wage.SelectionYes,
			Night:      wage.SelectionNo,
			Holiday:    wage.SelectionUnknown,
		},
	}

	// WHEN
	encoded, err := factory.EncodePay(cfg)
	require.NoError(t, err)
	decoded, err := factory.DecodePay(encoded)
	require.NoError(t, err)

	// THEN: the decoded config computes the same salary
	s1, _ := wage.NewShift("2025-03-10", "18:00", "02:00")
	s2, _ := wage.NewShift("2025-03-11", "09:00", "20:00")
	in := []wage.Shift{s1, s2.WithHoliday(true)}

	want := wage.Calculate(wage.SalaryInput{Shifts: in, Config: cfg})
	got := wage.Calculate(wage.SalaryInput{Shifts: in, Config: decoded})
	assert.Equal(t, want, got)
	assert.Equal(t, cfg.Allowances, decoded.Allowances)
}

func TestFromPayConfig_WritesBothEncodings(t *testing.T) {
	pj := factory.FromPayConfig(wage.PayConfig{
		Allowances: wage.AllowancePolicy{WeeklyRest: wage.SelectionYes, Night: wage.SelectionNo},
	})

	raw, err := json.Marshal(pj)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	settings := doc["settings"].(map[string]any)

	weekly := settings["weeklyHolidayPay"].(map[string]any)
	assert.Equal(t, "yes", weekly["selection"])
	assert.Equal(t, true, weekly["supported"])
	assert.Equal(t, true, weekly["userConfirmed"])

	night := settings["nightPay"].(map[string]any)
	assert.Equal(t, false, night["supported"])

	holiday := settings["holidayPay"].(map[string]any)
	assert.Equal(t, "unknown", holiday["selection"])
	assert.Equal(t, true, holiday["supported"])
	assert.Equal(t, false, holiday["userConfirmed"])

	assert.Equal(t, "none", doc["breakType"])
	assert.Equal(t, "unknown", doc["taxType"])
	assert.Contains(t, doc, "insuranceSettings")
}

func TestEncodeDecodePay_KeepsUnusedSettings(t *testing.T) {
	// GIVEN: a withholding workplace with configured but disabled insurance
	// rates and custom break values left over from an earlier break type
	w, err := factory.ParseWorkplace([]byte(`{
		"name": "Cafe",
		"hourlyWage": 10000,
		"breakType": "standard",
		"breakEveryHours": 5,
		"breakMinutesPerBlock": 45,
		"taxType": "withholding3_3",
		"insuranceSettings": {
			"pension":      {"enabled": false, "rate": 4.5},
			"health":       {"enabled": false, "rate": 3.545},
			"longTermCare": {"enabled": false, "rate": 12.81},
			"employment":   {"enabled": false, "rate": 0.9}
		}
	}`))
	require.NoError(t, err)

	// WHEN: it goes through storage encoding
	encoded, err := factory.EncodePay(w.Pay)
	require.NoError(t, err)
	decoded, err := factory.DecodePay(encoded)
	require.NoError(t, err)

	// THEN: rates and break values survive
	assert.True(t, decoded.Insurance.Pension.Rate.Equal(decimal.RequireFromString("4.5")), decoded.Insurance.Pension.Rate.String())
	assert.True(t, decoded.Insurance.LongTermCare.Rate.Equal(decimal.RequireFromString("12.81")))
	assert.False(t, decoded.Insurance.AnyEnabled())
	assert.Equal(t, wage.BreakPolicy{Type: wage.BreakStandard, EveryHours: 5, MinutesPerBlock: 45}, decoded.Break)

	// switching to four insurance uses the kept rates
	decoded.Deduction = wage.DeductionFourInsurance
	decoded.Insurance.Pension.Enabled = true
	decoded.Insurance.Health.Enabled = true
	decoded.Insurance.LongTermCare.Enabled = true
	decoded.Insurance.Employment.Enabled = true
	tax, _ := wage.Deduct(1_000_000, decoded)
	assert.Equal(t, wage.Money(93991), tax)
}

func TestFromWorkplace_RoundTrip(t *testing.T) {
	w, err := factory.ParseWorkplace([]byte(cafeJSON))
	require.NoError(t, err)

	raw, err := json.Marshal(factory.FromWorkplace(w))
	require.NoError(t, err)
	again, err := factory.ParseWorkplace(raw)
	require.NoError(t, err)

	assert.Equal(t, w.ID, again.ID)
	assert.Equal(t, w.Name, again.Name)
	assert.Equal(t, w.Color, again.Color)
	assert.Equal(t, w.Pay.Break, again.Pay.Break)
	assert.Equal(t, w.Pay.Allowances, again.Pay.Allowances)
	assert.True(t, w.Pay.Insurance.LongTermCare.Rate.Equal(again.Pay.Insurance.LongTermCare.Rate))
}

func TestFourInsurancePreset(t *testing.T) {
	b := wage.InsuranceDeduction(1_000_000, factory.FourInsurancePreset())
	assert.Equal(t, wage.Money(93991), b.Total)
}
