package postgres

import (
	"errors"

	"github.com/frahmantamala/project-tracking/internal/company"
	companyDatamodel "github.com/frahmantamala/project-tracking/internal/core/datamodel/company"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) company.Repository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) GetByID(id string) (*company.Company, error) {
	var row companyDatamodel.Company
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, company.ErrCompanyNotFound
		}
		return nil, err
	}
	return company.FromDataModel(&row), nil
}

func (r *CompanyRepository) Update(c *company.Company) error {
	return r.db.Save(company.ToDataModel(c)).Error
}
