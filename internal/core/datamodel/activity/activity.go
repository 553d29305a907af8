package activity

import "time"

type ActivityLog struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	UserID     string    `gorm:"column:user_id;type:uuid;not null"`
	Action     string    `gorm:"column:action;not null"`
	EntityType string    `gorm:"column:entity_type;not null"`
	EntityID   string    `gorm:"column:entity_id;type:uuid;not null"`
	Metadata   *string   `gorm:"column:metadata;type:jsonb"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
