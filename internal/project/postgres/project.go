package postgres

import (
	"errors"

	projectDatamodel "github.com/frahmantamala/project-tracking/internal/core/datamodel/project"
	"github.com/frahmantamala/project-tracking/internal/project"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) project.Repository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(p *project.Project) error {
	return r.db.Create(project.ToDataModel(p)).Error
}

func (r *ProjectRepository) GetByID(id string) (*project.Project, error) {
	var row projectDatamodel.Project
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, project.ErrProjectNotFound
		}
		return nil, err
	}
	return project.FromDataModel(&row), nil
}

func (r *ProjectRepository) Update(p *project.Project) error {
	return r.db.Save(project.ToDataModel(p)).Error
}

// Delete removes the project row and its membership rows. Time entries keep
// their project_id reference; the FK is declared ON DELETE SET NULL.
func (r *ProjectRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&projectDatamodel.ProjectMember{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&projectDatamodel.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return project.ErrProjectNotFound
		}
		return nil
	})
}

func (r *ProjectRepository) ListByCompany(companyID string) ([]*project.Project, error) {
	var rows []*projectDatamodel.Project
	err := r.db.Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return project.FromDataModelSlice(rows), nil
}

func (r *ProjectRepository) ListByMember(companyID, userID string) ([]*project.Project, error) {
	var rows []*projectDatamodel.Project
	err := r.db.
		Joins("JOIN project_members pm ON pm.project_id = projects.id").
		Where("projects.company_id = ? AND pm.user_id = ?", companyID, userID).
		Order("projects.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return project.FromDataModelSlice(rows), nil
}

func (r *ProjectRepository) AddMember(m *project.Member) error {
	err := r.db.Create(project.MemberToDataModel(m)).Error
	if err != nil && isUniqueViolation(err) {
		return project.ErrMemberExists
	}
	return err
}

func (r *ProjectRepository) RemoveMember(projectID, userID string) error {
	result := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&projectDatamodel.ProjectMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return project.ErrMemberNotFound
	}
	return nil
}

func (r *ProjectRepository) ListMembers(projectID string) ([]*project.Member, error) {
	var rows []*projectDatamodel.ProjectMember
	err := r.db.Where("project_id = ?", projectID).
		Order("joined_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	members := make([]*project.Member, len(rows))
	for i, row := range rows {
		members[i] = project.MemberFromDataModel(row)
	}
	return members, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
