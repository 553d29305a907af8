package timeentry

import (
	"errors"
	"time"

	timeentryDatamodel "github.com/frahmantamala/project-tracking/internal/core/datamodel/timeentry"
)

// TimeEntry is a single work session. An entry is OPEN while CheckOut is nil
// and CLOSED once it is set; the transition is one-way and happens exactly
// once. DurationMinutes is derived at close time and immutable afterwards.
type TimeEntry struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	ProjectID       *string    `json:"project_id,omitempty"`
	TicketID        *string    `json:"ticket_id,omitempty"`
	CheckIn         time.Time  `json:"check_in"`
	CheckOut        *time.Time `json:"check_out,omitempty"`
	DurationMinutes *int64     `json:"duration_minutes,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	IsBillable      bool       `json:"is_billable"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (e *TimeEntry) IsOpen() bool {
	return e.CheckOut == nil
}

// Close stamps the checkout time and derives the duration in whole minutes,
// truncated. Calling Close on a closed entry is a caller bug; the service
// guards against it.
func (e *TimeEntry) Close(at time.Time) {
	duration := int64(at.Sub(e.CheckIn) / time.Minute)
	e.CheckOut = &at
	e.DurationMinutes = &duration
}

// Domain errors
var (
	ErrEntryNotFound     = errors.New("time entry not found")
	ErrAlreadyCheckedIn  = errors.New("user already has an active time entry")
	ErrAlreadyCheckedOut = errors.New("time entry is already checked out")
	ErrNotEntryOwner     = errors.New("time entry belongs to another user")
	ErrViewAllForbidden  = errors.New("viewing other users' time entries requires time.view_all")
)

func ToDataModel(e *TimeEntry) *timeentryDatamodel.TimeEntry {
	return &timeentryDatamodel.TimeEntry{
		ID:              e.ID,
		UserID:          e.UserID,
		ProjectID:       e.ProjectID,
		TicketID:        e.TicketID,
		CheckIn:         e.CheckIn,
		CheckOut:        e.CheckOut,
		DurationMinutes: e.DurationMinutes,
		Notes:           e.Notes,
		IsBillable:      e.IsBillable,
		CreatedAt:       e.CreatedAt,
	}
}

func FromDataModel(e *timeentryDatamodel.TimeEntry) *TimeEntry {
	return &TimeEntry{
		ID:              e.ID,
		UserID:          e.UserID,
		ProjectID:       e.ProjectID,
		TicketID:        e.TicketID,
		CheckIn:         e.CheckIn,
		CheckOut:        e.CheckOut,
		DurationMinutes: e.DurationMinutes,
		Notes:           e.Notes,
		IsBillable:      e.IsBillable,
		CreatedAt:       e.CreatedAt,
	}
}

func FromDataModelSlice(entries []*timeentryDatamodel.TimeEntry) []*TimeEntry {
	result := make([]*TimeEntry, len(entries))
	for i, e := range entries {
		result[i] = FromDataModel(e)
	}
	return result
}
