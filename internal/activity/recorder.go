package activity

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/frahmantamala/project-tracking/internal/core/events"
	"github.com/google/uuid"
)

type Repository interface {
	Create(entry *Entry) error
	ListByUser(userID string, limit int) ([]*Entry, error)
	ListByEntity(entityType, entityID string, limit int) ([]*Entry, error)
}

const defaultListLimit = 50

// Recorder subscribes to activity events and persists them. Recording is
// best-effort: a failed insert is logged and dropped, it never fails the
// operation that produced the event.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Register wires the recorder into the event bus.
func (r *Recorder) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeActivityRecorded, r.handleActivityRecorded)
}

func (r *Recorder) handleActivityRecorded(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.ActivityRecordedEvent)
	if !ok {
		r.logger.Warn("unexpected event payload type", "event_type", event.EventType())
		return nil
	}

	var metadata *string
	if payload, ok := event.Payload().(map[string]interface{}); ok && len(payload) > 0 {
		if raw, err := json.Marshal(payload); err == nil {
			s := string(raw)
			metadata = &s
		}
	}

	entry := &Entry{
		ID:         uuid.NewString(),
		UserID:     e.UserID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	}

	if err := r.repo.Create(entry); err != nil {
		r.logger.Error("failed to record activity",
			"error", err,
			"action", e.Action,
			"entity_type", e.EntityType,
			"entity_id", e.EntityID)
		return err
	}

	return nil
}

// ListForUser returns a user's recent activity, newest first.
func (r *Recorder) ListForUser(userID string, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return r.repo.ListByUser(userID, limit)
}

// ListForEntity returns recent activity touching one entity, newest first.
func (r *Recorder) ListForEntity(entityType, entityID string, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return r.repo.ListByEntity(entityType, entityID, limit)
}
