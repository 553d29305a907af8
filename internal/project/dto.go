package project

import (
	"time"

	"github.com/frahmantamala/project-tracking/internal"
)

type CreateProjectDTO struct {
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Status      *Status    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (d CreateProjectDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if d.Status != nil && !d.Status.Valid() {
		return internal.NewValidationFieldError("status", "invalid project status", internal.ErrCodeValidationFailed)
	}
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		return internal.NewValidationFieldError("end_date", "end date must not precede start date", internal.ErrCodeInvalidDateRange)
	}
	return nil
}

// InitialStatus defaults new projects to planning.
func (d CreateProjectDTO) InitialStatus() Status {
	if d.Status != nil {
		return *d.Status
	}
	return StatusPlanning
}

// UpdateProjectDTO carries a partial update; nil fields are untouched.
type UpdateProjectDTO struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *Status    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (d UpdateProjectDTO) Validate() error {
	if d.Name != nil && *d.Name == "" {
		return internal.NewValidationFieldError("name", "name must not be empty", internal.ErrCodeValidationFailed)
	}
	if d.Status != nil && !d.Status.Valid() {
		return internal.NewValidationFieldError("status", "invalid project status", internal.ErrCodeValidationFailed)
	}
	return nil
}

type AddMemberDTO struct {
	UserID string  `json:"user_id"`
	Role   *string `json:"role"`
}

func (d AddMemberDTO) Validate() error {
	if d.UserID == "" {
		return internal.NewValidationFieldError("user_id", "user_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

func (d AddMemberDTO) MemberRole() string {
	if d.Role != nil && *d.Role != "" {
		return *d.Role
	}
	return "member"
}
