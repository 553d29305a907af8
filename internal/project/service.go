package project

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/project-tracking/internal/auth"
	"github.com/frahmantamala/project-tracking/internal/core/events"
	"github.com/google/uuid"
)

type Repository interface {
	Create(project *Project) error
	GetByID(id string) (*Project, error)
	Update(project *Project) error
	Delete(id string) error
	ListByCompany(companyID string) ([]*Project, error)
	// ListByMember returns projects the user belongs to, for callers without
	// a company-wide view.
	ListByMember(companyID, userID string) ([]*Project, error)
	AddMember(member *Member) error
	RemoveMember(projectID, userID string) error
	ListMembers(projectID string) ([]*Member, error)
}

// Service owns project CRUD and membership. Every read and write is scoped to
// the actor's company; a project from another tenant behaves as if it does not
// exist.
type Service struct {
	repo   Repository
	events *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: bus,
		logger: logger,
	}
}

func (s *Service) CreateProject(actor *auth.User, dto CreateProjectDTO) (*Project, error) {
	if err := auth.Authorize(actor, auth.CapProjectsCreate); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	project := &Project{
		ID:          uuid.NewString(),
		CompanyID:   actor.CompanyID,
		Name:        dto.Name,
		Description: dto.Description,
		Status:      dto.InitialStatus(),
		StartDate:   dto.StartDate,
		EndDate:     dto.EndDate,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(project); err != nil {
		s.logger.Error("failed to create project", "error", err, "company_id", actor.CompanyID)
		return nil, err
	}

	s.logger.Info("project created", "project_id", project.ID, "company_id", project.CompanyID)
	s.publishActivity(actor.ID, events.ActionCreated, project.ID)

	return project, nil
}

func (s *Service) GetProject(actor *auth.User, id string) (*Project, error) {
	if err := auth.Authorize(actor, auth.CapProjectsView); err != nil {
		return nil, err
	}

	project, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project.CompanyID != actor.CompanyID {
		// Hide cross-tenant rows entirely.
		return nil, ErrProjectNotFound
	}

	return project, nil
}

// ListProjects returns the actor's visible projects. Clients only see projects
// they are members of; everyone else sees the whole company.
func (s *Service) ListProjects(actor *auth.User) ([]*Project, error) {
	if err := auth.Authorize(actor, auth.CapProjectsView); err != nil {
		return nil, err
	}

	if auth.IsClient(actor.Role) {
		return s.repo.ListByMember(actor.CompanyID, actor.ID)
	}

	return s.repo.ListByCompany(actor.CompanyID)
}

func (s *Service) UpdateProject(actor *auth.User, id string, dto UpdateProjectDTO) (*Project, error) {
	if err := auth.Authorize(actor, auth.CapProjectsUpdate); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	project, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project.CompanyID != actor.CompanyID {
		return nil, ErrProjectNotFound
	}

	if dto.Name != nil {
		project.Name = *dto.Name
	}
	if dto.Description != nil {
		project.Description = dto.Description
	}
	if dto.Status != nil {
		project.Status = *dto.Status
	}
	if dto.StartDate != nil {
		project.StartDate = dto.StartDate
	}
	if dto.EndDate != nil {
		project.EndDate = dto.EndDate
	}
	project.UpdatedAt = time.Now()

	if err := s.repo.Update(project); err != nil {
		s.logger.Error("failed to update project", "error", err, "project_id", id)
		return nil, err
	}

	s.publishActivity(actor.ID, events.ActionUpdated, project.ID)

	return project, nil
}

// DeleteProject is the admin-only destructive path; projects.delete is granted
// to no other role.
func (s *Service) DeleteProject(actor *auth.User, id string) error {
	if err := auth.Authorize(actor, auth.CapProjectsDelete); err != nil {
		s.logger.Warn("project delete denied", "project_id", id, "user_id", actor.ID, "role", actor.Role)
		return err
	}

	project, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if project.CompanyID != actor.CompanyID {
		return ErrProjectNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete project", "error", err, "project_id", id)
		return err
	}

	s.logger.Info("project deleted", "project_id", id, "user_id", actor.ID)
	s.publishActivity(actor.ID, events.ActionDeleted, id)

	return nil
}

func (s *Service) AddMember(actor *auth.User, projectID string, dto AddMemberDTO) (*Member, error) {
	if err := auth.Authorize(actor, auth.CapProjectsUpdate); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	project, err := s.repo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if project.CompanyID != actor.CompanyID {
		return nil, ErrProjectNotFound
	}

	member := &Member{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		UserID:    dto.UserID,
		Role:      dto.MemberRole(),
		JoinedAt:  time.Now(),
	}

	if err := s.repo.AddMember(member); err != nil {
		s.logger.Error("failed to add project member", "error", err, "project_id", projectID, "user_id", dto.UserID)
		return nil, err
	}

	s.publishActivity(actor.ID, events.ActionUpdated, projectID)

	return member, nil
}

func (s *Service) RemoveMember(actor *auth.User, projectID, userID string) error {
	if err := auth.Authorize(actor, auth.CapProjectsUpdate); err != nil {
		return err
	}

	project, err := s.repo.GetByID(projectID)
	if err != nil {
		return err
	}
	if project.CompanyID != actor.CompanyID {
		return ErrProjectNotFound
	}

	if err := s.repo.RemoveMember(projectID, userID); err != nil {
		s.logger.Error("failed to remove project member", "error", err, "project_id", projectID, "user_id", userID)
		return err
	}

	s.publishActivity(actor.ID, events.ActionUpdated, projectID)

	return nil
}

func (s *Service) ListMembers(actor *auth.User, projectID string) ([]*Member, error) {
	if err := auth.Authorize(actor, auth.CapProjectsView); err != nil {
		return nil, err
	}

	project, err := s.repo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if project.CompanyID != actor.CompanyID {
		return nil, ErrProjectNotFound
	}

	return s.repo.ListMembers(projectID)
}

func (s *Service) publishActivity(userID, action, projectID string) {
	if s.events == nil {
		return
	}
	event := events.NewActivityRecordedEvent(userID, action, "project", projectID, nil)
	if err := s.events.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish activity event", "error", err, "project_id", projectID)
	}
}
