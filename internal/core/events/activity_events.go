package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeActivityRecorded = "activity.recorded"
)

// Actions recorded in the activity log.
const (
	ActionCreated    = "created"
	ActionUpdated    = "updated"
	ActionDeleted    = "deleted"
	ActionCheckedIn  = "checked_in"
	ActionCheckedOut = "checked_out"
)

type ActivityRecordedEvent struct {
	BaseEvent
	UserID     string `json:"user_id"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
}

func NewActivityRecordedEvent(userID, action, entityType, entityID string, metadata map[string]interface{}) *ActivityRecordedEvent {
	data := map[string]interface{}{
		"user_id":     userID,
		"action":      action,
		"entity_type": entityType,
		"entity_id":   entityID,
	}
	for k, v := range metadata {
		data[k] = v
	}

	return &ActivityRecordedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeActivityRecorded,
			Timestamp: time.Now(),
			Data:      data,
		},
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
}
