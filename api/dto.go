/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model from
  the wire contract. Window definitions reuse factory.WindowJSON so the
  admin API and seed data share one schema.

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

SEE ALSO:
  - handlers.go: uses these types
  - factory/windows.go: WindowJSON schema
*/
package api

import (
	"time"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/factory"
	"github.com/warp/attendance-engine/ranking"
	"github.com/warp/attendance-engine/schedule"
)

// =============================================================================
// WINDOWS
// =============================================================================

// WindowDTO represents a window in API responses.
type WindowDTO struct {
	ID                      string `json:"id"`
	Name                    string `json:"name"`
	DayStart                int    `json:"day_start"`
	DayEnd                  int    `json:"day_end"`
	TimeStart               string `json:"time_start"`
	TimeEnd                 string `json:"time_end"`
	RequiresCredential      bool   `json:"requires_credential"`
	RequiresCamera          bool   `json:"requires_camera"`
	RequiresAdminValidation bool   `json:"requires_admin_validation"`
	ActivityType            string `json:"activity_type,omitempty"`
	Active                  bool   `json:"active"`
	Interval                string `json:"interval"`
}

// CreateWindowRequest is the request to create or replace a window.
type CreateWindowRequest = factory.WindowJSON

func toWindowDTO(w schedule.ScheduleWindow) WindowDTO {
	return WindowDTO{
		ID:                      string(w.ID),
		Name:                    w.Name,
		DayStart:                w.DayStart,
		DayEnd:                  w.DayEnd,
		TimeStart:               w.TimeStart.String(),
		TimeEnd:                 w.TimeEnd.String(),
		RequiresCredential:      w.RequiresCredential,
		RequiresCamera:          w.RequiresCamera,
		RequiresAdminValidation: w.RequiresAdminValidation,
		ActivityType:            w.ActivityType,
		Active:                  w.Active,
		Interval:                w.Interval(),
	}
}

// =============================================================================
// CHECK-INS
// =============================================================================

// CheckInRequest is one check-in attempt. window_id may be omitted when a
// token is presented; the token then selects among the open windows.
type CheckInRequest struct {
	EmployeeID string `json:"employee_id"`
	WindowID   string `json:"window_id,omitempty"`
	Token      string `json:"token,omitempty"`
}

// CheckInResponse reports the attempt's outcome.
// Status is "recorded", "duplicate" or "rejected".
type CheckInResponse struct {
	Status string    `json:"status"`
	Reason string    `json:"reason,omitempty"`
	Event  *EventDTO `json:"event,omitempty"`
	Window string    `json:"window_id,omitempty"`
}

// EventDTO represents an attendance event in API responses.
type EventDTO struct {
	ID                  string `json:"id"`
	EmployeeID          string `json:"employee_id"`
	WindowID            string `json:"window_id"`
	Date                string `json:"date"`
	OccurredAt          string `json:"occurred_at"`
	PresentedCredential string `json:"presented_credential,omitempty"`
	DurationMinutes     *int   `json:"duration_minutes,omitempty"`
	ValidationStatus    string `json:"validation_status"`
}

func toEventDTO(e attendance.AttendanceEvent) EventDTO {
	return EventDTO{
		ID:                  string(e.ID),
		EmployeeID:          string(e.EmployeeID),
		WindowID:            string(e.WindowID),
		Date:                e.Date.String(),
		OccurredAt:          e.OccurredAt.Format(time.RFC3339),
		PresentedCredential: e.PresentedCredential,
		DurationMinutes:     e.DurationMinutes,
		ValidationStatus:    string(e.ValidationStatus),
	}
}

// =============================================================================
// RANKS
// =============================================================================

// DailyRankDTO is one employee's standing for a date.
type DailyRankDTO struct {
	EmployeeID           string `json:"employee_id"`
	Date                 string `json:"date"`
	TotalDurationMinutes int    `json:"total_duration_minutes"`
	DailyScore           string `json:"daily_score"`
	Rank                 int    `json:"rank"`
}

// MonthlyRankDTO is one employee's aggregate for a period.
type MonthlyRankDTO struct {
	EmployeeID             string `json:"employee_id"`
	Period                 string `json:"period"`
	TotalDurationMinutes   int    `json:"total_duration_minutes"`
	AverageDurationMinutes string `json:"average_duration_minutes"`
	Rank                   int    `json:"rank"`
}

func toDailyRankDTOs(ranks []ranking.DailyRank) []DailyRankDTO {
	dtos := make([]DailyRankDTO, 0, len(ranks))
	for _, r := range ranks {
		dtos = append(dtos, DailyRankDTO{
			EmployeeID:           string(r.EmployeeID),
			Date:                 r.Date.String(),
			TotalDurationMinutes: r.TotalDurationMinutes,
			DailyScore:           r.DailyScore.String(),
			Rank:                 r.Rank,
		})
	}
	return dtos
}

func toMonthlyRankDTOs(ranks []ranking.MonthlyRank) []MonthlyRankDTO {
	dtos := make([]MonthlyRankDTO, 0, len(ranks))
	for _, r := range ranks {
		dtos = append(dtos, MonthlyRankDTO{
			EmployeeID:             string(r.EmployeeID),
			Period:                 r.Period.String(),
			TotalDurationMinutes:   r.TotalDurationMinutes,
			AverageDurationMinutes: r.AverageDurationMinutes.String(),
			Rank:                   r.Rank,
		})
	}
	return dtos
}

// RecomputeRequest triggers a manual recompute for a date or a period.
type RecomputeRequest struct {
	Date   string `json:"date,omitempty"`   // "2006-01-02"
	Period string `json:"period,omitempty"` // "2006-01"
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
