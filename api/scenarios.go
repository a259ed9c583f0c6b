/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for demos. Each scenario creates workplaces, shifts and holidays
	that show off specific salary rules. Shifts are placed in the current
	month so they appear in the default report.

AVAILABLE SCENARIOS:

	two-jobs:        Cafe on weekday mornings plus a convenience store at night
	night-owl:       Overnight shifts only, night premium confirmed
	unconfirmed:     Nothing confirmed yet, every warning is raised
	holiday-shifts:  Shifts on a company holiday with holiday premium

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create workplaces via factory documents
 3. Add holidays when the scenario needs them
 4. Add shifts for the current month

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "two-jobs"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add it to the loaders map

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Workplace and shift handlers
  - factory/workplace.go: Workplace JSON documents
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/njob-manager/factory"
	"github.com/warp/njob-manager/holiday"
	"github.com/warp/njob-manager/schedule"
	"github.com/warp/njob-manager/wage"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "two-jobs",
		Name:        "Two Jobs",
		Description: "Weekday cafe mornings with 3.3% withholding plus convenience store nights with four insurances",
	},
	{
		ID:          "night-owl",
		Name:        "Night Owl",
		Description: "Overnight 22:00-06:00 shifts with night premium and weekly rest allowance",
	},
	{
		ID:          "unconfirmed",
		Name:        "Unconfirmed Policies",
		Description: "A new job where no allowance or deduction has been confirmed yet",
	},
	{
		ID:          "holiday-shifts",
		Name:        "Holiday Shifts",
		Description: "Shifts on company holidays with holiday premium confirmed",
	},
}

func (h *Handler) loaders() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"two-jobs":       h.loadTwoJobsScenario,
		"night-owl":      h.loadNightOwlScenario,
		"unconfirmed":    h.loadUnconfirmedScenario,
		"holiday-shifts": h.loadHolidayShiftsScenario,
	}
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario resets the database and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	load, ok := h.loaders()[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()
	if err := h.reset(ctx); err != nil {
		h.fail(w, r, "Failed to reset database", err)
		return
	}
	if err := load(ctx); err != nil {
		h.fail(w, r, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	h.logger(r).WithField("scenario", req.ScenarioID).Info("scenario loaded")
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "loaded",
		"scenario": req.ScenarioID,
	})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.reset(r.Context()); err != nil {
		h.fail(w, r, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) reset(ctx context.Context) error {
	if err := h.Store.Reset(ctx); err != nil {
		return err
	}
	h.invalidateHolidays()
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadTwoJobsScenario(ctx context.Context) error {
	cafe, err := h.seedWorkplace(ctx, `{
		"name": "Corner Cafe",
		"color": "#34a853",
		"salaryType": "monthly",
		"incomeType": "business",
		"hourlyWage": 10030,
		"breakType": "standard",
		"taxType": "withholding3_3",
		"settings": {
			"weeklyHolidayPay": {"selection": "yes"},
			"nightPay":         {"selection": "no"},
			"holidayPay":       {"selection": "no"}
		}
	}`)
	if err != nil {
		return err
	}
	if err := h.seedShifts(ctx, cafe, "09:00", "15:00", time.Monday, time.Wednesday, time.Friday); err != nil {
		return err
	}

	pay := factory.FromPayConfig(wage.PayConfig{
		HourlyWage: 10500,
		Break:      wage.BreakPolicy{Type: wage.BreakCustom, EveryHours: 4, MinutesPerBlock: 30},
		Deduction:  wage.DeductionFourInsurance,
		Insurance:  factory.FourInsurancePreset(),
		Allowances: wage.AllowancePolicy{
			WeeklyRest: wage.SelectionYes,
			Night:      wage.SelectionYes,
			Holiday:    wage.SelectionUnknown,
		},
	})
	shop, err := h.seedWorkplaceJSON(ctx, factory.WorkplaceJSON{
		Name:       "24h Convenience Store",
		Color:      "#ea4335",
		SalaryType: string(schedule.SalaryMonthly),
		IncomeType: string(schedule.IncomeEmployment),
		PayJSON:    pay,
	})
	if err != nil {
		return err
	}
	return h.seedShifts(ctx, shop, "22:00", "06:00", time.Tuesday, time.Thursday)
}

func (h *Handler) loadNightOwlScenario(ctx context.Context) error {
	wp, err := h.seedWorkplace(ctx, `{
		"name": "Logistics Center",
		"color": "#9c27b0",
		"hourlyWage": 11000,
		"breakType": "standard",
		"taxType": "withholding3_3",
		"settings": {
			"weeklyHolidayPay": {"supported": true, "userConfirmed": true},
			"nightPay":         {"supported": true, "userConfirmed": true},
			"holidayPay":       {"supported": false}
		}
	}`)
	if err != nil {
		return err
	}
	return h.seedShifts(ctx, wp, "22:00", "06:00", time.Monday, time.Tuesday, time.Wednesday, time.Thursday)
}

func (h *Handler) loadUnconfirmedScenario(ctx context.Context) error {
	wp, err := h.seedWorkplace(ctx, `{
		"name": "New Restaurant",
		"hourlyWage": 10030,
		"breakType": "none",
		"taxType": "unknown",
		"settings": {
			"weeklyHolidayPay": {"supported": true, "userConfirmed": false},
			"nightPay":         {"supported": true, "userConfirmed": false}
		}
	}`)
	if err != nil {
		return err
	}
	return h.seedShifts(ctx, wp, "17:00", "23:00", time.Friday, time.Saturday)
}

func (h *Handler) loadHolidayShiftsScenario(ctx context.Context) error {
	for _, hol := range holiday.KoreanFixedHolidays() {
		if err := h.Store.SaveHoliday(ctx, hol); err != nil {
			return err
		}
	}

	// A dated holiday inside the current month so the premium always shows.
	days := monthDays(h.now(), time.Monday)
	anniversary := holiday.Holiday{
		ID:   "company-anniversary",
		Date: days[0],
		Name: "Company Anniversary",
	}
	if err := h.Store.SaveHoliday(ctx, anniversary); err != nil {
		return err
	}

	wp, err := h.seedWorkplace(ctx, `{
		"name": "Department Store",
		"color": "#fbbc04",
		"hourlyWage": 12000,
		"breakType": "standard",
		"taxType": "withholding3_3",
		"settings": {
			"weeklyHolidayPay": {"selection": "yes"},
			"nightPay":         {"selection": "no"},
			"holidayPay":       {"selection": "yes"}
		}
	}`)
	if err != nil {
		return err
	}
	return h.seedShifts(ctx, wp, "10:00", "19:00", time.Monday, time.Saturday)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) seedWorkplace(ctx context.Context, doc string) (schedule.Workplace, error) {
	var wj factory.WorkplaceJSON
	if err := json.Unmarshal([]byte(doc), &wj); err != nil {
		return schedule.Workplace{}, err
	}
	return h.seedWorkplaceJSON(ctx, wj)
}

func (h *Handler) seedWorkplaceJSON(ctx context.Context, wj factory.WorkplaceJSON) (schedule.Workplace, error) {
	wp, err := wj.Workplace()
	if err != nil {
		return schedule.Workplace{}, err
	}
	fresh := schedule.NewWorkplace(wp.Name, wp.Pay)
	wp.ID = fresh.ID
	if wp.SalaryType == "" {
		wp.SalaryType = fresh.SalaryType
	}
	if wp.IncomeType == "" {
		wp.IncomeType = fresh.IncomeType
	}
	if err := h.Store.SaveWorkplace(ctx, wp); err != nil {
		return schedule.Workplace{}, err
	}
	return wp, nil
}

// seedShifts records one shift on every listed weekday of the current month.
func (h *Handler) seedShifts(ctx context.Context, wp schedule.Workplace, start, end string, weekdays ...time.Weekday) error {
	for _, day := range monthDays(h.now(), weekdays...) {
		s, err := wage.NewShift(day.Format(wage.DateLayout), start, end)
		if err != nil {
			return err
		}
		if err := h.Store.SaveEntry(ctx, schedule.NewEntry(wp.ID, s, schedule.SourceManual)); err != nil {
			return err
		}
	}
	return nil
}

// monthDays returns the dates of now's month that fall on one of weekdays.
func monthDays(now time.Time, weekdays ...time.Weekday) []time.Time {
	want := make(map[time.Weekday]bool, len(weekdays))
	for _, wd := range weekdays {
		want[wd] = true
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	var days []time.Time
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		if want[d.Weekday()] {
			days = append(days, d)
		}
	}
	return days
}
