/*
handlers.go - HTTP API handlers for the multi-job wage manager

PURPOSE:
  Exposes workplaces, shifts, holidays and salary calculation via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to the
  domain packages (schedule, factory, report, wage).

ENDPOINTS:
  Workplaces:
    GET    /api/workplaces                      List workplaces
    POST   /api/workplaces                      Create workplace
    GET    /api/workplaces/{id}                 Get workplace
    PUT    /api/workplaces/{id}                 Replace workplace
    DELETE /api/workplaces/{id}                 Delete workplace and its shifts

  Shifts:
    GET    /api/workplaces/{id}/shifts          List shifts (?from&to)
    POST   /api/workplaces/{id}/shifts          Record a shift
    POST   /api/workplaces/{id}/shifts/confirm  Save reviewed candidates
    PUT    /api/shifts/{id}                     Replace a shift
    DELETE /api/shifts/{id}                     Delete a shift

  Salary:
    GET    /api/workplaces/{id}/salary          Salary detail (?from&to)
    GET    /api/salary                          Range report (?start_month&end_month)

  Holidays:
    GET    /api/holidays                        List holidays
    POST   /api/holidays                        Create holiday
    POST   /api/holidays/defaults               Add fixed national holidays
    DELETE /api/holidays/{id}                   Delete holiday

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Persistence (any store.Store)
  - Calendar: Holiday lookups, normally the store behind a TTL cache
  - Log: Structured logger

ERROR HANDLING:
  Errors are returned as JSON {error, details} with HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/warp/njob-manager/factory"
	"github.com/warp/njob-manager/holiday"
	"github.com/warp/njob-manager/report"
	"github.com/warp/njob-manager/schedule"
	"github.com/warp/njob-manager/store"
	"github.com/warp/njob-manager/wage"
)

const maxBodyBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    store.Store
	Calendar holiday.Calendar
	Log      logrus.FieldLogger

	cache *holiday.Cache
	now   func() time.Time

	mu              sync.Mutex
	currentScenario string
}

// Option configures a Handler.
type Option func(*Handler)

// WithHolidayCache puts cache in front of the store's holiday lookups.
// Holiday writes through the API invalidate it.
func WithHolidayCache(cache *holiday.Cache) Option {
	return func(h *Handler) { h.cache = cache }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(h *Handler) { h.Log = log }
}

// WithClock sets the time source used for default query ranges and demo data.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// NewHandler creates a new handler over st.
func NewHandler(st store.Store, opts ...Option) *Handler {
	h := &Handler{Store: st, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	if h.Log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		h.Log = discard
	}
	h.Calendar = st
	if h.cache != nil {
		h.Calendar = holiday.Cached(st, h.cache)
	}
	return h
}

// Cache returns the holiday cache, or nil when lookups are not cached.
func (h *Handler) Cache() *holiday.Cache { return h.cache }

func (h *Handler) invalidateHolidays() {
	if h.cache != nil {
		h.cache.Invalidate()
	}
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// WORKPLACE HANDLERS
// =============================================================================

// ListWorkplaces returns all workplaces in creation order.
func (h *Handler) ListWorkplaces(w http.ResponseWriter, r *http.Request) {
	workplaces, err := h.Store.ListWorkplaces(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list workplaces", err)
		return
	}

	dtos := make([]WorkplaceDTO, len(workplaces))
	for i, wp := range workplaces {
		dtos[i] = toWorkplaceDTO(wp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetWorkplace returns a single workplace.
func (h *Handler) GetWorkplace(w http.ResponseWriter, r *http.Request) {
	wp, ok := h.loadWorkplace(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toWorkplaceDTO(*wp))
}

// CreateWorkplace creates a workplace from a workplace document.
func (h *Handler) CreateWorkplace(w http.ResponseWriter, r *http.Request) {
	wp, err := decodeWorkplace(r)
	if err != nil {
		h.fail(w, r, "Invalid workplace", err)
		return
	}
	if wp.ID == "" {
		wp.ID = uuid.NewString()
	}
	if err := h.saveWorkplace(r, wp); err != nil {
		h.fail(w, r, "Failed to create workplace", err)
		return
	}

	saved, err := h.Store.GetWorkplace(r.Context(), wp.ID)
	if err != nil || saved == nil {
		h.fail(w, r, "Failed to read workplace", err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkplaceDTO(*saved))
}

// UpdateWorkplace replaces a workplace. The ID in the path wins over the body.
func (h *Handler) UpdateWorkplace(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.loadWorkplace(w, r)
	if !ok {
		return
	}

	wp, err := decodeWorkplace(r)
	if err != nil {
		h.fail(w, r, "Invalid workplace", err)
		return
	}
	wp.ID = existing.ID
	if err := h.saveWorkplace(r, wp); err != nil {
		h.fail(w, r, "Failed to update workplace", err)
		return
	}

	saved, err := h.Store.GetWorkplace(r.Context(), wp.ID)
	if err != nil || saved == nil {
		h.fail(w, r, "Failed to read workplace", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkplaceDTO(*saved))
}

// DeleteWorkplace deletes a workplace and all of its shifts.
func (h *Handler) DeleteWorkplace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteWorkplace(r.Context(), id); err != nil {
		h.fail(w, r, "Failed to delete workplace", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func decodeWorkplace(r *http.Request) (schedule.Workplace, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return schedule.Workplace{}, err
	}
	wp, err := factory.ParseWorkplace(body)
	if err != nil {
		return schedule.Workplace{}, err
	}
	if wp.SalaryType == "" {
		wp.SalaryType = schedule.SalaryMonthly
	}
	if wp.IncomeType == "" {
		wp.IncomeType = schedule.IncomeBusiness
	}
	return wp, wp.Validate()
}

func (h *Handler) saveWorkplace(r *http.Request, wp schedule.Workplace) error {
	if err := h.Store.SaveWorkplace(r.Context(), wp); err != nil {
		return err
	}
	h.logger(r).WithFields(logrus.Fields{
		"workplace_id": wp.ID,
		"tax_type":     wp.Pay.Deduction.Normalize(),
	}).Info("workplace saved")
	return nil
}

// loadWorkplace fetches the workplace named by the {id} path parameter,
// writing a 404 when it does not exist.
func (h *Handler) loadWorkplace(w http.ResponseWriter, r *http.Request) (*schedule.Workplace, bool) {
	id := chi.URLParam(r, "id")
	wp, err := h.Store.GetWorkplace(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to get workplace", err)
		return nil, false
	}
	if wp == nil {
		writeError(w, http.StatusNotFound, "Workplace not found", nil)
		return nil, false
	}
	return wp, true
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// ListShifts returns a workplace's shifts, optionally limited by from/to.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	wp, ok := h.loadWorkplace(w, r)
	if !ok {
		return
	}
	f, err := filterFromQuery(r, wp.ID)
	if err != nil {
		h.fail(w, r, "Invalid date range", err)
		return
	}

	entries, err := h.Store.ListEntries(r.Context(), f)
	if err != nil {
		h.fail(w, r, "Failed to list shifts", err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTOs(entries))
}

// CreateShift records a shift at a workplace.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	wp, ok := h.loadWorkplace(w, r)
	if !ok {
		return
	}

	var req ShiftRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	s, err := req.shift()
	if err != nil {
		h.fail(w, r, "Invalid shift", err)
		return
	}

	e := schedule.NewEntry(wp.ID, s, schedule.Source(req.Source))
	if err := h.Store.SaveEntry(r.Context(), e); err != nil {
		h.fail(w, r, "Failed to save shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(e))
}

// ConfirmShifts saves reviewed schedule candidates. Either every candidate
// is saved or none is.
func (h *Handler) ConfirmShifts(w http.ResponseWriter, r *http.Request) {
	wp, ok := h.loadWorkplace(w, r)
	if !ok {
		return
	}

	var req ConfirmShiftsRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp := ConfirmShiftsResponse{}
	candidates := req.Schedules
	if strings.TrimSpace(req.Text) != "" {
		x, err := schedule.ParseExtraction(req.Text)
		if err != nil {
			h.fail(w, r, "Could not read schedule", err)
			return
		}
		candidates = x.Schedules
		resp.Notes = x.Notes
	}
	for i, c := range candidates {
		if c.Uncertain {
			resp.Review = append(resp.Review, i)
		}
	}

	entries, err := schedule.ConfirmAll(wp.ID, candidates)
	if err != nil {
		h.fail(w, r, "Invalid schedule candidate", err)
		return
	}
	if err := h.Store.SaveEntries(r.Context(), entries); err != nil {
		h.fail(w, r, "Failed to save shifts", err)
		return
	}

	h.logger(r).WithFields(logrus.Fields{
		"workplace_id": wp.ID,
		"count":        len(entries),
	}).Info("schedule confirmed")
	resp.Saved = toShiftDTOs(entries)
	writeJSON(w, http.StatusCreated, resp)
}

// UpdateShift replaces a shift's date, times, memo and holiday fact.
func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetEntry(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to get shift", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Shift not found", nil)
		return
	}

	var req ShiftRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	s, err := req.shift()
	if err != nil {
		h.fail(w, r, "Invalid shift", err)
		return
	}

	updated := *existing
	updated.Shift = s
	if req.Source != "" {
		updated.Source = schedule.Source(req.Source)
	}
	if err := h.Store.SaveEntry(r.Context(), updated); err != nil {
		h.fail(w, r, "Failed to save shift", err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(updated))
}

// DeleteShift deletes a shift.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Failed to delete shift", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// SALARY HANDLERS
// =============================================================================

// GetWorkplaceSalary returns the salary detail of one workplace. Weekly rest
// is sized from the workplace's whole history, not just the queried range.
// GET /api/workplaces/{id}/salary?from=2025-03-01&to=2025-03-31
func (h *Handler) GetWorkplaceSalary(w http.ResponseWriter, r *http.Request) {
	wp, ok := h.loadWorkplace(w, r)
	if !ok {
		return
	}
	f, err := filterFromQuery(r, wp.ID)
	if err != nil {
		h.fail(w, r, "Invalid date range", err)
		return
	}

	history, err := h.Store.ListEntries(r.Context(), schedule.Filter{WorkplaceID: wp.ID})
	if err != nil {
		h.fail(w, r, "Failed to list shifts", err)
		return
	}
	wr, err := report.ForWorkplace(r.Context(), *wp, history, f, h.Calendar)
	if err != nil {
		h.fail(w, r, "Failed to calculate salary", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkplaceSalaryDTO(wr, f))
}

// GetSalaryReport returns every workplace's income over a month range.
// Both months default to the current month.
// GET /api/salary?start_month=2025-01&end_month=2025-03
func (h *Handler) GetSalaryReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	current := h.now().Format(schedule.MonthLayout)
	start, end := q.Get("start_month"), q.Get("end_month")
	if start == "" {
		start = current
	}
	if end == "" {
		end = start
	}
	rng, err := schedule.MonthRange(start, end)
	if err != nil {
		h.fail(w, r, "Invalid month range", err)
		return
	}

	ctx := r.Context()
	workplaces, err := h.Store.ListWorkplaces(ctx)
	if err != nil {
		h.fail(w, r, "Failed to list workplaces", err)
		return
	}
	entries, err := h.Store.ListEntries(ctx, schedule.Filter{})
	if err != nil {
		h.fail(w, r, "Failed to list shifts", err)
		return
	}

	rep, err := report.Build(ctx, report.RangeInput{
		Workplaces: workplaces,
		Entries:    entries,
		Range:      rng,
		Calendar:   h.Calendar,
	})
	if err != nil {
		h.fail(w, r, "Failed to build report", err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(rep))
}

// filterFromQuery reads optional from/to dates (YYYY-MM-DD).
func filterFromQuery(r *http.Request, workplaceID string) (schedule.Filter, error) {
	f := schedule.Filter{WorkplaceID: workplaceID}
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		d, err := wage.ParseDate(v)
		if err != nil {
			return f, err
		}
		f.From = d
	}
	if v := q.Get("to"); v != "" {
		d, err := wage.ParseDate(v)
		if err != nil {
			return f, err
		}
		f.To = d
	}
	return f, nil
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all holidays.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to get holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, toHolidayDTO(hol))
	}
	writeJSON(w, http.StatusOK, map[string]any{"holidays": dtos})
}

// CreateHoliday creates a holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Date == "" || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Date and name are required", nil)
		return
	}
	date, err := wage.ParseDate(req.Date)
	if err != nil {
		h.fail(w, r, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	hol := holiday.Holiday{
		ID:        req.ID,
		Date:      date,
		Name:      req.Name,
		Recurring: req.Recurring,
	}
	if hol.ID == "" {
		hol.ID = "holiday-" + uuid.NewString()
	}
	if err := h.Store.SaveHoliday(r.Context(), hol); err != nil {
		h.fail(w, r, "Failed to create holiday", err)
		return
	}
	h.invalidateHolidays()

	writeJSON(w, http.StatusCreated, toHolidayDTO(hol))
}

// DeleteHoliday deletes a holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Failed to delete holiday", err)
		return
	}
	h.invalidateHolidays()
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AddDefaultHolidays adds the fixed-date national holidays. Re-running it
// does not create duplicates.
// POST /api/holidays/defaults
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	defaults := holiday.KoreanFixedHolidays()
	for _, hol := range defaults {
		if err := h.Store.SaveHoliday(r.Context(), hol); err != nil {
			h.fail(w, r, "Failed to add holidays", err)
			return
		}
	}
	h.invalidateHolidays()

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"added":  len(defaults),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case store.IsNotFound(err):
		return http.StatusNotFound
	case wage.IsValidationError(err),
		schedule.IsClientError(err),
		errors.Is(err, factory.ErrInvalidConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with the status it maps to. Server errors are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger(r).WithError(err).Error(message)
	}
	writeError(w, status, message, err)
}

func (h *Handler) logger(r *http.Request) logrus.FieldLogger {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return h.Log.WithField("request_id", id)
	}
	return h.Log
}
