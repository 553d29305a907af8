package timeentry

import (
	"time"

	"github.com/frahmantamala/project-tracking/internal"
)

// CheckInDTO is the request payload for starting a work session.
type CheckInDTO struct {
	ProjectID  *string `json:"project_id,omitempty"`
	TicketID   *string `json:"ticket_id,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	IsBillable *bool   `json:"is_billable,omitempty"`
}

func (dto CheckInDTO) Validate() error {
	if dto.ProjectID != nil && *dto.ProjectID == "" {
		return internal.NewValidationFieldError("project_id", "project_id must not be empty when provided", internal.ErrCodeMissingID)
	}
	if dto.TicketID != nil && *dto.TicketID == "" {
		return internal.NewValidationFieldError("ticket_id", "ticket_id must not be empty when provided", internal.ErrCodeMissingID)
	}
	if dto.Notes != nil && len(*dto.Notes) > 1000 {
		return internal.NewValidationFieldError("notes", "notes must be at most 1000 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

// Billable returns the requested billable flag, defaulting to true.
func (dto CheckInDTO) Billable() bool {
	if dto.IsBillable == nil {
		return true
	}
	return *dto.IsBillable
}

// ListEntriesDTO bounds ListEntries by an inclusive [Start, End] window over
// check_in. Both bounds are optional.
type ListEntriesDTO struct {
	Start *time.Time
	End   *time.Time
}

func (dto ListEntriesDTO) Validate() error {
	if dto.Start != nil && dto.End != nil && dto.End.Before(*dto.Start) {
		return internal.NewValidationError("end date must not be before start date", internal.ErrCodeInvalidDateRange)
	}
	return nil
}
