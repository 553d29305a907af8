package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/project-tracking/internal/auth"
	"github.com/frahmantamala/project-tracking/internal/core/events"
	"github.com/google/uuid"
)

type Repository interface {
	Create(u *User, passwordHash string) error
	GetByID(id string) (*User, error)
	GetByEmail(email string) (*User, error)
	Update(u *User) error
	ListByCompany(companyID string) ([]*User, error)
}

// PasswordHasher is the slice of the auth service user management needs.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	events *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		events: bus,
		logger: logger,
	}
}

// CreateUser provisions an account in the actor's company. The caller picks
// the initial role; users.manage is required.
func (s *Service) CreateUser(actor *auth.User, dto CreateUserDTO) (*User, error) {
	if err := auth.Authorize(actor, auth.CapUsersManage); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, err
	}

	now := time.Now()
	companyID := actor.CompanyID
	u := &User{
		ID:        uuid.NewString(),
		CompanyID: &companyID,
		Email:     dto.Email,
		FullName:  dto.FullName,
		Role:      dto.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(u, hash); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role)
	s.publishActivity(actor.ID, events.ActionCreated, u.ID)

	return u, nil
}

func (s *Service) GetProfile(userID string) (*User, error) {
	return s.repo.GetByID(userID)
}

func (s *Service) UpdateProfile(actor *auth.User, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(actor.ID)
	if err != nil {
		return nil, err
	}

	if dto.FullName != nil {
		u.FullName = *dto.FullName
	}
	if dto.AvatarURL != nil {
		u.AvatarURL = dto.AvatarURL
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update profile", "error", err, "user_id", actor.ID)
		return nil, err
	}

	return u, nil
}

// ListCompanyUsers returns the actor's company roster.
func (s *Service) ListCompanyUsers(actor *auth.User) ([]*User, error) {
	if err := auth.Authorize(actor, auth.CapUsersManage); err != nil {
		s.logger.Warn("roster list denied", "actor_id", actor.ID, "role", actor.Role)
		return nil, err
	}
	if actor.CompanyID == "" {
		return []*User{}, nil
	}
	return s.repo.ListByCompany(actor.CompanyID)
}

// ChangeRole reassigns a user's role. Role changes only happen here; nothing
// else mutates the role column.
func (s *Service) ChangeRole(actor *auth.User, targetID string, dto ChangeRoleDTO) (*User, error) {
	if err := auth.Authorize(actor, auth.CapUsersManage); err != nil {
		s.logger.Warn("role change denied", "target_id", targetID, "actor_id", actor.ID, "role", actor.Role)
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.getCompanyUser(actor, targetID)
	if err != nil {
		return nil, err
	}

	u.Role = dto.Role
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to change role", "error", err, "user_id", targetID)
		return nil, err
	}

	s.logger.Info("role changed", "user_id", targetID, "new_role", dto.Role, "actor_id", actor.ID)
	s.publishActivity(actor.ID, events.ActionUpdated, targetID)

	return u, nil
}

// SetActive toggles an account. Deactivated users fail authentication and
// token refresh; their history remains intact.
func (s *Service) SetActive(actor *auth.User, targetID string, dto SetActiveDTO) (*User, error) {
	if err := auth.Authorize(actor, auth.CapUsersManage); err != nil {
		return nil, err
	}

	u, err := s.getCompanyUser(actor, targetID)
	if err != nil {
		return nil, err
	}

	u.IsActive = dto.IsActive
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to set active flag", "error", err, "user_id", targetID)
		return nil, err
	}

	s.logger.Info("user active flag set", "user_id", targetID, "is_active", dto.IsActive, "actor_id", actor.ID)
	s.publishActivity(actor.ID, events.ActionUpdated, targetID)

	return u, nil
}

// getCompanyUser loads a user and hides accounts from other tenants.
func (s *Service) getCompanyUser(actor *auth.User, targetID string) (*User, error) {
	u, err := s.repo.GetByID(targetID)
	if err != nil {
		return nil, err
	}
	if u.CompanyID == nil || *u.CompanyID != actor.CompanyID {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) publishActivity(userID, action, entityID string) {
	if s.events == nil {
		return
	}
	event := events.NewActivityRecordedEvent(userID, action, "user", entityID, nil)
	if err := s.events.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish activity event", "error", err, "entity_id", entityID)
	}
}
