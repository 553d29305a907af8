package activity

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/project-tracking/internal/auth"
	"github.com/frahmantamala/project-tracking/internal/transport"
	"github.com/frahmantamala/project-tracking/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListForUser(userID string, limit int) ([]*Entry, error)
	ListForEntity(entityType, entityID string, limit int) ([]*Entry, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// ListMine returns the caller's own recent activity.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := h.Service.ListForUser(user.ID, parseLimit(r))
	if err != nil {
		h.Logger.Error("ListMine: service error", "error", err, "user_id", user.ID)
		h.WriteUnavailable(w, "failed to list activity", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"activity": entries})
}

// ListForEntity returns activity for one entity; reports.view is enforced by
// route middleware.
func (h *Handler) ListForEntity(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entityType")
	entityID := chi.URLParam(r, "entityID")
	if entityType == "" || entityID == "" {
		h.WriteError(w, http.StatusBadRequest, "missing entity type or ID")
		return
	}

	entries, err := h.Service.ListForEntity(entityType, entityID, parseLimit(r))
	if err != nil {
		h.Logger.Error("ListForEntity: service error", "error", err, "entity_type", entityType, "entity_id", entityID)
		h.WriteUnavailable(w, "failed to list activity", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"activity": entries})
}

func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
