package postgres

import (
	"errors"

	ticketDatamodel "github.com/frahmantamala/project-tracking/internal/core/datamodel/ticket"
	"github.com/frahmantamala/project-tracking/internal/ticket"
	"gorm.io/gorm"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) ticket.Repository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(t *ticket.Ticket) error {
	return r.db.Create(ticket.ToDataModel(t)).Error
}

func (r *TicketRepository) GetByID(id string) (*ticket.Ticket, error) {
	var row ticketDatamodel.Ticket
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, err
	}
	return ticket.FromDataModel(&row), nil
}

func (r *TicketRepository) Update(t *ticket.Ticket) error {
	return r.db.Save(ticket.ToDataModel(t)).Error
}

// Delete removes the ticket and its comments in one transaction.
func (r *TicketRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", id).Delete(&ticketDatamodel.TicketComment{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&ticketDatamodel.Ticket{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ticket.ErrTicketNotFound
		}
		return nil
	})
}

func (r *TicketRepository) ListByProject(projectID string) ([]*ticket.Ticket, error) {
	var rows []*ticketDatamodel.Ticket
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return ticket.FromDataModelSlice(rows), nil
}

func (r *TicketRepository) ListAssignedTo(userID string) ([]*ticket.Ticket, error) {
	var rows []*ticketDatamodel.Ticket
	err := r.db.Where("assigned_to = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return ticket.FromDataModelSlice(rows), nil
}

func (r *TicketRepository) AddComment(c *ticket.Comment) error {
	return r.db.Create(ticket.CommentToDataModel(c)).Error
}

func (r *TicketRepository) GetComment(id string) (*ticket.Comment, error) {
	var row ticketDatamodel.TicketComment
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrCommentNotFound
		}
		return nil, err
	}
	return ticket.CommentFromDataModel(&row), nil
}

func (r *TicketRepository) DeleteComment(id string) error {
	result := r.db.Where("id = ?", id).Delete(&ticketDatamodel.TicketComment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ticket.ErrCommentNotFound
	}
	return nil
}

func (r *TicketRepository) ListComments(ticketID string) ([]*ticket.Comment, error) {
	var rows []*ticketDatamodel.TicketComment
	err := r.db.Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	comments := make([]*ticket.Comment, len(rows))
	for i, row := range rows {
		comments[i] = ticket.CommentFromDataModel(row)
	}
	return comments, nil
}
