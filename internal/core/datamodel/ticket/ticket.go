package ticket

import "time"

type Ticket struct {
	ID             string     `gorm:"type:uuid;primaryKey"`
	ProjectID      string     `gorm:"column:project_id;type:uuid;not null"`
	Title          string     `gorm:"column:title;not null"`
	Description    *string    `gorm:"column:description"`
	Status         string     `gorm:"column:status;not null;default:todo"`
	Priority       string     `gorm:"column:priority;not null;default:medium"`
	AssignedTo     *string    `gorm:"column:assigned_to;type:uuid"`
	CreatedBy      string     `gorm:"column:created_by;type:uuid;not null"`
	DueDate        *time.Time `gorm:"column:due_date;type:date"`
	EstimatedHours *float64   `gorm:"column:estimated_hours"`
	ActualHours    *float64   `gorm:"column:actual_hours"`
	CreatedAt      time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Ticket) TableName() string {
	return "tickets"
}

type TicketComment struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	TicketID  string    `gorm:"column:ticket_id;type:uuid;not null"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null"`
	Content   string    `gorm:"column:content;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (TicketComment) TableName() string {
	return "ticket_comments"
}
