package user

import (
	"strings"

	"github.com/frahmantamala/project-tracking/internal"
	"github.com/frahmantamala/project-tracking/internal/auth"
)

type CreateUserDTO struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (d CreateUserDTO) Validate() error {
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		return internal.NewValidationFieldError("email", "a valid email is required", internal.ErrCodeValidationFailed)
	}
	if d.FullName == "" {
		return internal.NewValidationFieldError("full_name", "full name is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Password) < 8 {
		return internal.NewValidationFieldError("password", "password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if !validRole(d.Role) {
		return internal.NewValidationFieldError("role", "invalid role", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateProfileDTO struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

func (d UpdateProfileDTO) Validate() error {
	if d.FullName != nil && *d.FullName == "" {
		return internal.NewValidationFieldError("full_name", "full name must not be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ChangeRoleDTO struct {
	Role string `json:"role"`
}

func (d ChangeRoleDTO) Validate() error {
	if !validRole(d.Role) {
		return internal.NewValidationFieldError("role", "invalid role", internal.ErrCodeValidationFailed)
	}
	return nil
}

type SetActiveDTO struct {
	IsActive bool `json:"is_active"`
}

func validRole(role string) bool {
	switch auth.Role(role) {
	case auth.RoleAdmin, auth.RoleProjectManager, auth.RoleTeamMember, auth.RoleClient:
		return true
	}
	return false
}
