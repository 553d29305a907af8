package postgres

import (
	"github.com/frahmantamala/project-tracking/internal/activity"
	activityDatamodel "github.com/frahmantamala/project-tracking/internal/core/datamodel/activity"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) activity.Repository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(entry *activity.Entry) error {
	return r.db.Create(activity.ToDataModel(entry)).Error
}

func (r *ActivityRepository) ListByUser(userID string, limit int) ([]*activity.Entry, error) {
	var rows []*activityDatamodel.ActivityLog
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return activity.FromDataModelSlice(rows), nil
}

func (r *ActivityRepository) ListByEntity(entityType, entityID string, limit int) ([]*activity.Entry, error) {
	var rows []*activityDatamodel.ActivityLog
	err := r.db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return activity.FromDataModelSlice(rows), nil
}
