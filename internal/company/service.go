package company

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/project-tracking/internal/auth"
)

type Repository interface {
	GetByID(id string) (*Company, error)
	Update(c *Company) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetCompany returns the actor's own company; there is no cross-tenant read.
func (s *Service) GetCompany(actor *auth.User) (*Company, error) {
	if actor.CompanyID == "" {
		return nil, ErrCompanyNotFound
	}
	return s.repo.GetByID(actor.CompanyID)
}

func (s *Service) UpdateCompany(actor *auth.User, dto UpdateCompanyDTO) (*Company, error) {
	if err := auth.Authorize(actor, auth.CapCompanyManage); err != nil {
		s.logger.Warn("company update denied", "user_id", actor.ID, "role", actor.Role)
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(actor.CompanyID)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		c.Name = *dto.Name
	}
	if dto.Description != nil {
		c.Description = dto.Description
	}
	if dto.LogoURL != nil {
		c.LogoURL = dto.LogoURL
	}
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update company", "error", err, "company_id", c.ID)
		return nil, err
	}

	s.logger.Info("company updated", "company_id", c.ID, "user_id", actor.ID)

	return c, nil
}
