/*
handlers.go - HTTP API handlers for the attendance engine

PURPOSE:
  Exposes the engine via REST. Handlers parse/validate HTTP, delegate to
  domain logic and serialize responses.

ENDPOINTS:
  Windows:
    GET    /api/windows              List window definitions
    POST   /api/windows              Create/replace a window
    GET    /api/windows/open         Windows open right now
    GET    /api/windows/day/{day}    Windows available on an ISO day
    GET    /api/windows/{id}         Get one window
    DELETE /api/windows/{id}         Deactivate (soft delete)

  Check-ins:
    POST   /api/checkins             Record a check-in attempt
    GET    /api/events?date=         Events for a date
    POST   /api/events/{id}/approve  Admin validation
    POST   /api/events/{id}/reject

  Ranks:
    GET    /api/ranks/daily/{date}     Stored daily rank set
    GET    /api/ranks/monthly/{period} Stored monthly rank set
    POST   /api/admin/recompute        Manual recompute (date or period)

ERROR HANDLING:
  Rejections are 200s with an outcome status - a wrong token is an
  expected result, not an error. A duplicate is 409 carrying the
  existing event so the UI can say "already checked in". HTTP errors:
  - 400: malformed input, invalid window definition
  - 404: unknown window/event
  - 500: storage failures

SEE ALSO:
  - dto.go:    request/response shapes
  - server.go: router and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/factory"
	"github.com/warp/attendance-engine/logger"
	"github.com/warp/attendance-engine/ranking"
	"github.com/warp/attendance-engine/schedule"
)

// Handler holds the API's dependencies.
type Handler struct {
	Windows    attendance.WindowAdmin
	Events     attendance.Store
	Intake     *attendance.Intake
	Recomputer *ranking.Recomputer
	Ranks      ranking.RankStore
	Clock      schedule.Clock
	Factory    *factory.WindowFactory
}

// NewHandler wires a handler.
func NewHandler(windows attendance.WindowAdmin, events attendance.Store, intake *attendance.Intake, rec *ranking.Recomputer, ranks ranking.RankStore, clock schedule.Clock) *Handler {
	return &Handler{
		Windows:    windows,
		Events:     events,
		Intake:     intake,
		Recomputer: rec,
		Ranks:      ranks,
		Clock:      clock,
		Factory:    factory.NewWindowFactory(),
	}
}

// =============================================================================
// WINDOWS
// =============================================================================

func (h *Handler) ListWindows(w http.ResponseWriter, r *http.Request) {
	windows, err := h.Windows.Windows(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]WindowDTO, 0, len(windows))
	for _, win := range windows {
		dtos = append(dtos, toWindowDTO(win))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateWindow(w http.ResponseWriter, r *http.Request) {
	var req CreateWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	win, err := h.Factory.Build(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Windows.SaveWindow(r.Context(), win); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWindowDTO(win))
}

func (h *Handler) GetWindow(w http.ResponseWriter, r *http.Request) {
	id := schedule.WindowID(chi.URLParam(r, "id"))
	win, err := h.Windows.WindowByID(r.Context(), id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWindowDTO(win))
}

func (h *Handler) DeactivateWindow(w http.ResponseWriter, r *http.Request) {
	id := schedule.WindowID(chi.URLParam(r, "id"))
	if err := h.Windows.DeactivateWindow(r.Context(), id); err != nil {
		writeLookupError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) OpenWindows(w http.ResponseWriter, r *http.Request) {
	windows, err := h.Windows.Windows(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	open := schedule.OpenWindowsAt(h.Clock.Now(), h.Clock, windows)
	dtos := make([]WindowDTO, 0, len(open))
	for _, win := range open {
		dtos = append(dtos, toWindowDTO(win))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) WindowsForDay(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil || day < 1 || day > 7 {
		writeError(w, http.StatusBadRequest, errors.New("day must be 1..7 (Monday=1)"))
		return
	}
	windows, err := h.Windows.Windows(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	forDay := schedule.WindowsForDay(day, windows)
	dtos := make([]WindowDTO, 0, len(forDay))
	for _, win := range forDay {
		dtos = append(dtos, toWindowDTO(win))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// CHECK-INS
// =============================================================================

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, errors.New("employee_id is required"))
		return
	}
	if req.WindowID == "" && req.Token == "" {
		writeError(w, http.StatusBadRequest, errors.New("window_id or token is required"))
		return
	}

	outcome, err := h.Intake.CheckIn(r.Context(),
		attendance.EmployeeID(req.EmployeeID),
		schedule.WindowID(req.WindowID),
		req.Token, h.Clock.Now())
	if err != nil {
		writeLookupError(w, err)
		return
	}

	resp := CheckInResponse{Window: string(outcome.Window.ID)}
	switch {
	case outcome.Rejected:
		resp.Status = "rejected"
		resp.Reason = outcome.Reason
		writeJSON(w, http.StatusOK, resp)
	case outcome.Duplicate:
		resp.Status = "duplicate"
		resp.Reason = "you have already checked in for this window today"
		dto := toEventDTO(outcome.Event)
		resp.Event = &dto
		writeJSON(w, http.StatusConflict, resp)
	default:
		resp.Status = "recorded"
		dto := toEventDTO(outcome.Event)
		resp.Event = &dto
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	date, err := schedule.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	events, err := h.Events.EventsOnDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, toEventDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) ApproveEvent(w http.ResponseWriter, r *http.Request) {
	h.reviewEvent(w, r, attendance.StatusApproved)
}

func (h *Handler) RejectEvent(w http.ResponseWriter, r *http.Request) {
	h.reviewEvent(w, r, attendance.StatusRejected)
}

// reviewEvent applies an admin decision and recomputes the event's date so
// the rank projections reflect it immediately.
func (h *Handler) reviewEvent(w http.ResponseWriter, r *http.Request, status attendance.ValidationStatus) {
	id := attendance.EventID(chi.URLParam(r, "id"))
	event, err := h.Events.EventByID(r.Context(), id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if err := h.Events.SetValidationStatus(r.Context(), id, status); err != nil {
		writeLookupError(w, err)
		return
	}
	if _, err := h.Recomputer.RecomputeDay(r.Context(), event.Date); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	event.ValidationStatus = status
	writeJSON(w, http.StatusOK, toEventDTO(event))
}

// =============================================================================
// RANKS
// =============================================================================

func (h *Handler) GetDailyRanks(w http.ResponseWriter, r *http.Request) {
	date, err := schedule.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ranks, err := h.Ranks.DailyRanks(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toDailyRankDTOs(ranks))
}

func (h *Handler) GetMonthlyRanks(w http.ResponseWriter, r *http.Request) {
	period, err := schedule.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ranks, err := h.Ranks.MonthlyRanks(r.Context(), period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthlyRankDTOs(ranks))
}

func (h *Handler) TriggerRecompute(w http.ResponseWriter, r *http.Request) {
	var req RecomputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	switch {
	case req.Date != "":
		date, err := schedule.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		ranks, err := h.Recomputer.RecomputeDay(r.Context(), date)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, toDailyRankDTOs(ranks))

	case req.Period != "":
		period, err := schedule.ParsePeriod(req.Period)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		ranks, err := h.Recomputer.RecomputeMonth(r.Context(), period)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, toMonthlyRankDTOs(ranks))

	default:
		writeError(w, http.StatusBadRequest, errors.New("date or period is required"))
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// writeLookupError maps domain sentinels onto HTTP statuses.
func writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrWindowNotFound), errors.Is(err, attendance.ErrEventNotFound):
		writeError(w, http.StatusNotFound, err)
	case attendance.IsConflict(err):
		writeError(w, http.StatusConflict, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
