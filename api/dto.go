/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Workplaces use the
  factory document directly so the stored form and the wire form never
  drift apart; everything else is mapped here.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Workplace:  WorkplaceDTO (wraps factory.WorkplaceJSON)
  Shifts:     ShiftDTO, ShiftRequest, ConfirmShiftsRequest
  Salary:     SalaryDTO, InsuranceDTO, ReportDTO, WorkplaceSalaryDTO
  Holidays:   HolidayDTO, HolidayRequest
  Scenarios:  ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers and domain packages, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/workplace.go: WorkplaceJSON type
*/
package api

import (
	"time"

	"github.com/warp/njob-manager/factory"
	"github.com/warp/njob-manager/holiday"
	"github.com/warp/njob-manager/report"
	"github.com/warp/njob-manager/schedule"
	"github.com/warp/njob-manager/wage"
)

// =============================================================================
// WORKPLACES
// =============================================================================

// WorkplaceDTO represents a workplace in API responses.
type WorkplaceDTO struct {
	factory.WorkplaceJSON
	// CalendarColorID is the calendar event color matching Color.
	CalendarColorID string `json:"calendarColorId"`
	CreatedAt       string `json:"createdAt,omitempty"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

func toWorkplaceDTO(w schedule.Workplace) WorkplaceDTO {
	dto := WorkplaceDTO{
		WorkplaceJSON:   factory.FromWorkplace(w),
		CalendarColorID: schedule.CalendarColorID(w.Color),
	}
	if !w.CreatedAt.IsZero() {
		dto.CreatedAt = w.CreatedAt.Format(time.RFC3339)
	}
	if !w.UpdatedAt.IsZero() {
		dto.UpdatedAt = w.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// SHIFTS
// =============================================================================

// ShiftDTO represents a recorded shift.
type ShiftDTO struct {
	ID          string `json:"id"`
	WorkplaceID string `json:"workplaceId"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Memo        string `json:"memo,omitempty"`
	IsHoliday   *bool  `json:"isHoliday,omitempty"`
	Source      string `json:"source"`
	WorkMinutes int    `json:"workMinutes"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

func toShiftDTO(e schedule.Entry) ShiftDTO {
	dto := ShiftDTO{
		ID:          e.ID,
		WorkplaceID: e.WorkplaceID,
		Date:        e.Shift.Date.Format(wage.DateLayout),
		StartTime:   e.Shift.Start.String(),
		EndTime:     e.Shift.End.String(),
		Memo:        e.Shift.Memo,
		IsHoliday:   e.Shift.IsHoliday,
		Source:      string(e.Source),
		WorkMinutes: e.Shift.WorkMinutes(),
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toShiftDTOs(entries []schedule.Entry) []ShiftDTO {
	dtos := make([]ShiftDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toShiftDTO(e)
	}
	return dtos
}

// ShiftRequest creates or replaces a shift.
type ShiftRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Memo      string `json:"memo"`
	IsHoliday *bool  `json:"isHoliday"`
	Source    string `json:"source"` // manual (default), image, calendar
}

func (req ShiftRequest) shift() (wage.Shift, error) {
	s, err := wage.NewShift(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return wage.Shift{}, err
	}
	s.Memo = req.Memo
	if req.IsHoliday != nil {
		s = s.WithHoliday(*req.IsHoliday)
	}
	return s, nil
}

// ConfirmShiftsRequest carries reviewed candidates. When Text is set it is
// parsed as a schedule reader reply and Schedules is ignored.
type ConfirmShiftsRequest struct {
	Schedules []schedule.Candidate `json:"schedules"`
	Text      string               `json:"text,omitempty"`
}

// ConfirmShiftsResponse lists the shifts that were saved.
type ConfirmShiftsResponse struct {
	Saved  []ShiftDTO `json:"saved"`
	Notes  string     `json:"notes,omitempty"`
	Review []int      `json:"review,omitempty"` // indexes the reader marked uncertain
}

// =============================================================================
// SALARY
// =============================================================================

// InsuranceDTO itemizes four-insurance deductions.
type InsuranceDTO struct {
	Pension      int64 `json:"pension"`
	Health       int64 `json:"health"`
	LongTermCare int64 `json:"longTermCare"`
	Employment   int64 `json:"employment"`
	Total        int64 `json:"total"`
}

// SalaryDTO is wage.SalaryDetail on the wire.
type SalaryDTO struct {
	TotalMinutes   int           `json:"totalMinutes"`
	TotalHours     int           `json:"totalHours"`
	BasicPay       int64         `json:"basicPay"`
	NightPay       int64         `json:"nightPay"`
	HolidayPay     int64         `json:"holidayPay"`
	WeeklyRestPay  int64         `json:"weeklyHolidayPay"`
	TotalBeforeTax int64         `json:"totalBeforeTax"`
	Tax            int64         `json:"tax"`
	TaxType        string        `json:"taxType"`
	Insurance      *InsuranceDTO `json:"insurance,omitempty"`
	TotalAfterTax  int64         `json:"totalAfterTax"`
	Warnings       []string      `json:"warnings"`
}

func toSalaryDTO(d wage.SalaryDetail) SalaryDTO {
	dto := SalaryDTO{
		TotalMinutes:   d.TotalMinutes,
		TotalHours:     d.TotalHours,
		BasicPay:       int64(d.BasicPay),
		NightPay:       int64(d.NightPay),
		HolidayPay:     int64(d.HolidayPay),
		WeeklyRestPay:  int64(d.WeeklyRestPay),
		TotalBeforeTax: int64(d.TotalBeforeTax),
		Tax:            int64(d.Tax),
		TaxType:        string(d.TaxType),
		TotalAfterTax:  int64(d.TotalAfterTax),
		Warnings:       d.Warnings,
	}
	if dto.Warnings == nil {
		dto.Warnings = []string{}
	}
	if d.TaxType == wage.DeductionFourInsurance {
		dto.Insurance = &InsuranceDTO{
			Pension:      int64(d.Insurance.Pension),
			Health:       int64(d.Insurance.Health),
			LongTermCare: int64(d.Insurance.LongTermCare),
			Employment:   int64(d.Insurance.Employment),
			Total:        int64(d.Insurance.Total),
		}
	}
	return dto
}

// WorkplaceSalaryDTO is one workplace's salary over a query.
type WorkplaceSalaryDTO struct {
	WorkplaceID   string    `json:"workplaceId"`
	WorkplaceName string    `json:"workplaceName"`
	Color         string    `json:"color"`
	From          string    `json:"from,omitempty"`
	To            string    `json:"to,omitempty"`
	ShiftCount    int       `json:"shiftCount"`
	Salary        SalaryDTO `json:"salary"`
}

func toWorkplaceSalaryDTO(wr report.WorkplaceReport, f schedule.Filter) WorkplaceSalaryDTO {
	return WorkplaceSalaryDTO{
		WorkplaceID:   wr.Workplace.ID,
		WorkplaceName: wr.Workplace.Name,
		Color:         wr.Workplace.Color,
		From:          formatDate(f.From),
		To:            formatDate(f.To),
		ShiftCount:    wr.ShiftCount,
		Salary:        toSalaryDTO(wr.Detail),
	}
}

// ReportDTO is the income report over a month range.
type ReportDTO struct {
	StartDate  string               `json:"startDate"`
	EndDate    string               `json:"endDate"`
	Workplaces []WorkplaceSalaryDTO `json:"workplaces"`
	TotalPay   int64                `json:"totalPay"`
	TotalHours int                  `json:"totalHours"`
	TotalDays  int                  `json:"totalDays"`
}

func toReportDTO(rep report.Report) ReportDTO {
	dto := ReportDTO{
		StartDate:  formatDate(rep.Range.From),
		EndDate:    formatDate(rep.Range.To),
		Workplaces: make([]WorkplaceSalaryDTO, 0, len(rep.PerWorkplace)),
		TotalPay:   int64(rep.TotalPay),
		TotalHours: rep.TotalHours,
		TotalDays:  rep.TotalDays,
	}
	for _, wr := range rep.PerWorkplace {
		dto.Workplaces = append(dto.Workplaces, toWorkplaceSalaryDTO(wr, schedule.Filter{}))
	}
	return dto
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(wage.DateLayout)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO represents a holiday.
type HolidayDTO struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

func toHolidayDTO(h holiday.Holiday) HolidayDTO {
	return HolidayDTO{ID: h.ID, Date: h.Date.Format(wage.DateLayout), Name: h.Name, Recurring: h.Recurring}
}

// HolidayRequest creates a holiday.
type HolidayRequest struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
