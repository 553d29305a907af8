package postgres

import (
	"errors"

	"github.com/frahmantamala/project-tracking/internal/auth"
	userDatamodel "github.com/frahmantamala/project-tracking/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// UserRepository resolves credentials and identities for the auth service.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) auth.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetPasswordForEmail(email string) (string, string, error) {
	var row userDatamodel.User
	err := r.db.Select("id", "password_hash").Where("email = ?", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", auth.ErrUserNotFound
		}
		return "", "", err
	}
	return row.PasswordHash, row.ID, nil
}

func (r *UserRepository) GetUserWithRole(userID string) (*auth.User, error) {
	var row userDatamodel.User
	err := r.db.Where("id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}

	companyID := ""
	if row.CompanyID != nil {
		companyID = *row.CompanyID
	}

	return &auth.User{
		ID:        row.ID,
		CompanyID: companyID,
		Email:     row.Email,
		FullName:  row.FullName,
		Role:      auth.Role(row.Role),
		IsActive:  row.IsActive,
	}, nil
}
