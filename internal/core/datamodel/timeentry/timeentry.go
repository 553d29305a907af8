package timeentry

import "time"

// TimeEntry rows carry the open/closed state in check_out: an open entry has
// check_out null. A partial unique index on (user_id) where check_out is null
// enforces at most one open entry per user at the storage layer.
type TimeEntry struct {
	ID              string     `gorm:"type:uuid;primaryKey"`
	UserID          string     `gorm:"column:user_id;type:uuid;not null"`
	ProjectID       *string    `gorm:"column:project_id;type:uuid"`
	TicketID        *string    `gorm:"column:ticket_id;type:uuid"`
	CheckIn         time.Time  `gorm:"column:check_in;not null"`
	CheckOut        *time.Time `gorm:"column:check_out"`
	DurationMinutes *int64     `gorm:"column:duration_minutes"`
	Notes           *string    `gorm:"column:notes"`
	IsBillable      bool       `gorm:"column:is_billable;default:true"`
	CreatedAt       time.Time  `gorm:"column:created_at;default:now()"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}
