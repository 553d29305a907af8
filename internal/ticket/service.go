package ticket

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/project-tracking/internal/auth"
	"github.com/frahmantamala/project-tracking/internal/core/events"
	"github.com/frahmantamala/project-tracking/internal/project"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ticket *Ticket) error
	GetByID(id string) (*Ticket, error)
	Update(ticket *Ticket) error
	Delete(id string) error
	ListByProject(projectID string) ([]*Ticket, error)
	ListAssignedTo(userID string) ([]*Ticket, error)
	AddComment(comment *Comment) error
	GetComment(id string) (*Comment, error)
	DeleteComment(id string) error
	ListComments(ticketID string) ([]*Comment, error)
}

// ProjectResolver is the slice of the project repository tickets need for
// tenant scoping: a ticket's company is its project's company.
type ProjectResolver interface {
	GetByID(id string) (*project.Project, error)
}

type Service struct {
	repo     Repository
	projects ProjectResolver
	events   *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, projects ProjectResolver, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		projects: projects,
		events:   bus,
		logger:   logger,
	}
}

// resolveProject loads the ticket's project and hides cross-tenant rows.
func (s *Service) resolveProject(actor *auth.User, projectID string) (*project.Project, error) {
	p, err := s.projects.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if p.CompanyID != actor.CompanyID {
		return nil, project.ErrProjectNotFound
	}
	return p, nil
}

func (s *Service) CreateTicket(actor *auth.User, dto CreateTicketDTO) (*Ticket, error) {
	if err := auth.Authorize(actor, auth.CapTicketsCreate); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.resolveProject(actor, dto.ProjectID); err != nil {
		return nil, err
	}

	now := time.Now()
	ticket := &Ticket{
		ID:             uuid.NewString(),
		ProjectID:      dto.ProjectID,
		Title:          dto.Title,
		Description:    dto.Description,
		Status:         StatusTodo,
		Priority:       dto.TicketPriority(),
		AssignedTo:     dto.AssignedTo,
		CreatedBy:      actor.ID,
		DueDate:        dto.DueDate,
		EstimatedHours: dto.EstimatedHours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ticket); err != nil {
		s.logger.Error("failed to create ticket", "error", err, "project_id", dto.ProjectID)
		return nil, err
	}

	s.logger.Info("ticket created", "ticket_id", ticket.ID, "project_id", ticket.ProjectID)
	s.publishActivity(actor.ID, events.ActionCreated, ticket.ID)

	return ticket, nil
}

func (s *Service) GetTicket(actor *auth.User, id string) (*Ticket, error) {
	if err := auth.Authorize(actor, auth.CapTicketsView); err != nil {
		return nil, err
	}

	ticket, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveProject(actor, ticket.ProjectID); err != nil {
		return nil, ErrTicketNotFound
	}

	return ticket, nil
}

func (s *Service) ListProjectTickets(actor *auth.User, projectID string) ([]*Ticket, error) {
	if err := auth.Authorize(actor, auth.CapTicketsView); err != nil {
		return nil, err
	}

	if _, err := s.resolveProject(actor, projectID); err != nil {
		return nil, err
	}

	return s.repo.ListByProject(projectID)
}

// ListMyTickets returns tickets assigned to the actor across all projects.
func (s *Service) ListMyTickets(actor *auth.User) ([]*Ticket, error) {
	if err := auth.Authorize(actor, auth.CapTicketsView); err != nil {
		return nil, err
	}

	return s.repo.ListAssignedTo(actor.ID)
}

func (s *Service) UpdateTicket(actor *auth.User, id string, dto UpdateTicketDTO) (*Ticket, error) {
	if err := auth.Authorize(actor, auth.CapTicketsUpdate); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ticket, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveProject(actor, ticket.ProjectID); err != nil {
		return nil, ErrTicketNotFound
	}

	if dto.Title != nil {
		ticket.Title = *dto.Title
	}
	if dto.Description != nil {
		ticket.Description = dto.Description
	}
	if dto.Status != nil {
		ticket.Status = *dto.Status
	}
	if dto.Priority != nil {
		ticket.Priority = *dto.Priority
	}
	if dto.AssignedTo != nil {
		ticket.AssignedTo = dto.AssignedTo
	}
	if dto.DueDate != nil {
		ticket.DueDate = dto.DueDate
	}
	if dto.EstimatedHours != nil {
		ticket.EstimatedHours = dto.EstimatedHours
	}
	if dto.ActualHours != nil {
		ticket.ActualHours = dto.ActualHours
	}
	ticket.UpdatedAt = time.Now()

	if err := s.repo.Update(ticket); err != nil {
		s.logger.Error("failed to update ticket", "error", err, "ticket_id", id)
		return nil, err
	}

	s.publishActivity(actor.ID, events.ActionUpdated, ticket.ID)

	return ticket, nil
}

func (s *Service) DeleteTicket(actor *auth.User, id string) error {
	if err := auth.Authorize(actor, auth.CapTicketsDelete); err != nil {
		s.logger.Warn("ticket delete denied", "ticket_id", id, "user_id", actor.ID, "role", actor.Role)
		return err
	}

	ticket, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if _, err := s.resolveProject(actor, ticket.ProjectID); err != nil {
		return ErrTicketNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete ticket", "error", err, "ticket_id", id)
		return err
	}

	s.publishActivity(actor.ID, events.ActionDeleted, id)

	return nil
}

func (s *Service) AddComment(actor *auth.User, ticketID string, dto AddCommentDTO) (*Comment, error) {
	if err := auth.Authorize(actor, auth.CapTicketsView); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ticket, err := s.repo.GetByID(ticketID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveProject(actor, ticket.ProjectID); err != nil {
		return nil, ErrTicketNotFound
	}

	now := time.Now()
	comment := &Comment{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		UserID:    actor.ID,
		Content:   dto.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.AddComment(comment); err != nil {
		s.logger.Error("failed to add comment", "error", err, "ticket_id", ticketID)
		return nil, err
	}

	s.publishActivity(actor.ID, events.ActionCreated, comment.ID)

	return comment, nil
}

func (s *Service) ListComments(actor *auth.User, ticketID string) ([]*Comment, error) {
	if err := auth.Authorize(actor, auth.CapTicketsView); err != nil {
		return nil, err
	}

	ticket, err := s.repo.GetByID(ticketID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveProject(actor, ticket.ProjectID); err != nil {
		return nil, ErrTicketNotFound
	}

	return s.repo.ListComments(ticketID)
}

// DeleteComment removes a comment the caller authored. Admins may delete any
// comment in their company.
func (s *Service) DeleteComment(actor *auth.User, commentID string) error {
	comment, err := s.repo.GetComment(commentID)
	if err != nil {
		return err
	}

	if comment.UserID != actor.ID && !auth.IsAdmin(actor.Role) {
		return ErrNotCommentOwner
	}

	if err := s.repo.DeleteComment(commentID); err != nil {
		s.logger.Error("failed to delete comment", "error", err, "comment_id", commentID)
		return err
	}

	s.publishActivity(actor.ID, events.ActionDeleted, commentID)

	return nil
}

func (s *Service) publishActivity(userID, action, entityID string) {
	if s.events == nil {
		return
	}
	event := events.NewActivityRecordedEvent(userID, action, "ticket", entityID, nil)
	if err := s.events.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish activity event", "error", err, "entity_id", entityID)
	}
}
