package user

import "time"

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	CompanyID    *string   `gorm:"column:company_id;type:uuid"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	FullName     string    `gorm:"column:full_name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	AvatarURL    *string   `gorm:"column:avatar_url"`
	Role         string    `gorm:"column:role;not null;default:team_member"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}
