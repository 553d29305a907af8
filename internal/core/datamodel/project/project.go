package project

import "time"

type Project struct {
	ID          string     `gorm:"type:uuid;primaryKey"`
	CompanyID   string     `gorm:"column:company_id;type:uuid;not null"`
	Name        string     `gorm:"column:name;not null"`
	Description *string    `gorm:"column:description"`
	Status      string     `gorm:"column:status;not null;default:planning"`
	StartDate   *time.Time `gorm:"column:start_date;type:date"`
	EndDate     *time.Time `gorm:"column:end_date;type:date"`
	CreatedBy   string     `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Project) TableName() string {
	return "projects"
}

type ProjectMember struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ProjectID string    `gorm:"column:project_id;type:uuid;not null;uniqueIndex:ux_project_members_project_user"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_project_members_project_user"`
	Role      string    `gorm:"column:role;not null;default:member"`
	JoinedAt  time.Time `gorm:"column:joined_at;default:now()"`
}

func (ProjectMember) TableName() string {
	return "project_members"
}
