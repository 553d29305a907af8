package ticket

import (
	"time"

	"github.com/frahmantamala/project-tracking/internal"
)

type CreateTicketDTO struct {
	ProjectID      string     `json:"project_id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Priority       *Priority  `json:"priority"`
	AssignedTo     *string    `json:"assigned_to"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours"`
}

func (d CreateTicketDTO) Validate() error {
	if d.ProjectID == "" {
		return internal.NewValidationFieldError("project_id", "project_id is required", internal.ErrCodeValidationFailed)
	}
	if d.Title == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
	}
	if d.Priority != nil && !d.Priority.Valid() {
		return internal.NewValidationFieldError("priority", "invalid ticket priority", internal.ErrCodeValidationFailed)
	}
	if d.EstimatedHours != nil && *d.EstimatedHours < 0 {
		return internal.NewValidationFieldError("estimated_hours", "estimated hours must not be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}

func (d CreateTicketDTO) TicketPriority() Priority {
	if d.Priority != nil {
		return *d.Priority
	}
	return PriorityMedium
}

type UpdateTicketDTO struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Status         *Status    `json:"status"`
	Priority       *Priority  `json:"priority"`
	AssignedTo     *string    `json:"assigned_to"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours"`
	ActualHours    *float64   `json:"actual_hours"`
}

func (d UpdateTicketDTO) Validate() error {
	if d.Title != nil && *d.Title == "" {
		return internal.NewValidationFieldError("title", "title must not be empty", internal.ErrCodeValidationFailed)
	}
	if d.Status != nil && !d.Status.Valid() {
		return internal.NewValidationFieldError("status", "invalid ticket status", internal.ErrCodeValidationFailed)
	}
	if d.Priority != nil && !d.Priority.Valid() {
		return internal.NewValidationFieldError("priority", "invalid ticket priority", internal.ErrCodeValidationFailed)
	}
	return nil
}

type AddCommentDTO struct {
	Content string `json:"content"`
}

func (d AddCommentDTO) Validate() error {
	if d.Content == "" {
		return internal.NewValidationFieldError("content", "content is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
