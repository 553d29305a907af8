package activity

import (
	"time"

	activityDatamodel "github.com/frahmantamala/project-tracking/internal/core/datamodel/activity"
)

// Entry is an append-only audit record. Entries are never updated or deleted
// through the API.
type Entry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Metadata   *string   `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToDataModel(e *Entry) *activityDatamodel.ActivityLog {
	return &activityDatamodel.ActivityLog{
		ID:         e.ID,
		UserID:     e.UserID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Metadata:   e.Metadata,
		CreatedAt:  e.CreatedAt,
	}
}

func FromDataModel(e *activityDatamodel.ActivityLog) *Entry {
	return &Entry{
		ID:         e.ID,
		UserID:     e.UserID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Metadata:   e.Metadata,
		CreatedAt:  e.CreatedAt,
	}
}

func FromDataModelSlice(entries []*activityDatamodel.ActivityLog) []*Entry {
	result := make([]*Entry, len(entries))
	for i, e := range entries {
		result[i] = FromDataModel(e)
	}
	return result
}
