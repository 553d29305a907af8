package timeentry

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/project-tracking/internal"
	"github.com/frahmantamala/project-tracking/internal/auth"
	"github.com/frahmantamala/project-tracking/internal/transport"
	"github.com/frahmantamala/project-tracking/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetActive(userID string) (*TimeEntry, error)
	CheckIn(userID string, dto CheckInDTO) (*TimeEntry, error)
	CheckOut(entryID, callerID string) (*TimeEntry, error)
	ListEntries(userID string, dto ListEntriesDTO) ([]*TimeEntry, error)
	ListProjectEntries(projectID string, callerRole auth.Role) ([]*TimeEntry, error)
	WeeklyHours(userID string, ref time.Time) (float64, error)
	DeleteEntry(entryID, callerID string) error
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

func (h *Handler) GetActive(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entry, err := h.Service.GetActive(user.ID)
	if err != nil {
		h.Logger.Error("GetActive: service error", "error", err, "user_id", user.ID)
		h.WriteUnavailable(w, "failed to get active entry", err)
		return
	}

	// No open entry is a normal state, not an error.
	if entry == nil {
		h.WriteJSON(w, http.StatusOK, map[string]interface{}{"entry": nil})
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"entry": entry})
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CheckInDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CheckIn: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.Service.CheckIn(user.ID, dto)
	if err != nil {
		h.Logger.Error("CheckIn: service error", "error", err, "user_id", user.ID)

		switch err {
		case ErrAlreadyCheckedIn:
			h.WriteError(w, http.StatusConflict, "you already have an active time entry, check out first")
		default:
			if appErr, ok := internal.IsAppError(err); ok {
				h.WriteError(w, appErr.StatusCode, appErr.GetDetailedMessage())
			} else {
				h.WriteUnavailable(w, "failed to check in", err)
			}
		}
		return
	}

	h.Logger.Info("CheckIn: entry created", "entry_id", entry.ID, "user_id", user.ID)
	h.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entryID := chi.URLParam(r, "id")
	if entryID == "" {
		h.WriteError(w, http.StatusBadRequest, "missing entry ID")
		return
	}

	entry, err := h.Service.CheckOut(entryID, user.ID)
	if err != nil {
		h.Logger.Error("CheckOut: service error", "error", err, "entry_id", entryID, "user_id", user.ID)

		switch err {
		case ErrEntryNotFound:
			h.WriteError(w, http.StatusNotFound, "time entry not found")
		case ErrNotEntryOwner:
			h.WriteError(w, http.StatusForbidden, "time entry belongs to another user")
		case ErrAlreadyCheckedOut:
			h.WriteError(w, http.StatusConflict, "time entry is already checked out")
		default:
			h.WriteUnavailable(w, "failed to check out", err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dto, err := parseListWindow(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.Service.ListEntries(user.ID, dto)
	if err != nil {
		h.Logger.Error("ListEntries: service error", "error", err, "user_id", user.ID)

		if appErr, ok := internal.IsAppError(err); ok {
			h.WriteError(w, appErr.StatusCode, appErr.GetDetailedMessage())
			return
		}
		h.WriteUnavailable(w, "failed to list entries", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func (h *Handler) ListProjectEntries(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	projectID := chi.URLParam(r, "id")
	if projectID == "" {
		h.WriteError(w, http.StatusBadRequest, "missing project ID")
		return
	}

	entries, err := h.Service.ListProjectEntries(projectID, user.Role)
	if err != nil {
		h.Logger.Error("ListProjectEntries: service error", "error", err, "project_id", projectID, "user_id", user.ID)

		switch err {
		case ErrViewAllForbidden:
			h.WriteError(w, http.StatusForbidden, "insufficient permissions")
		default:
			h.WriteUnavailable(w, "failed to list project entries", err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func (h *Handler) WeeklyHours(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ref := time.Now()
	if refStr := r.URL.Query().Get("ref"); refStr != "" {
		parsed, err := time.Parse(time.RFC3339, refStr)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid ref timestamp, expected RFC3339")
			return
		}
		ref = parsed
	}

	hours, err := h.Service.WeeklyHours(user.ID, ref)
	if err != nil {
		h.Logger.Error("WeeklyHours: service error", "error", err, "user_id", user.ID)
		h.WriteUnavailable(w, "failed to compute weekly hours", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"hours": hours})
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entryID := chi.URLParam(r, "id")
	if entryID == "" {
		h.WriteError(w, http.StatusBadRequest, "missing entry ID")
		return
	}

	if err := h.Service.DeleteEntry(entryID, user.ID); err != nil {
		h.Logger.Error("DeleteEntry: service error", "error", err, "entry_id", entryID, "user_id", user.ID)

		switch err {
		case ErrEntryNotFound:
			h.WriteError(w, http.StatusNotFound, "time entry not found")
		case ErrNotEntryOwner:
			h.WriteError(w, http.StatusForbidden, "time entry belongs to another user")
		default:
			h.WriteUnavailable(w, "failed to delete entry", err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseListWindow reads optional start/end query params. Values may be RFC3339
// timestamps or plain dates; a plain end date is widened to the end of that
// day so the window stays inclusive.
func parseListWindow(r *http.Request) (ListEntriesDTO, error) {
	var dto ListEntriesDTO

	if startStr := r.URL.Query().Get("start"); startStr != "" {
		start, _, err := parseWindowBound(startStr)
		if err != nil {
			return dto, internal.NewValidationError("invalid start date", internal.ErrCodeInvalidDateRange)
		}
		dto.Start = &start
	}

	if endStr := r.URL.Query().Get("end"); endStr != "" {
		end, dateOnly, err := parseWindowBound(endStr)
		if err != nil {
			return dto, internal.NewValidationError("invalid end date", internal.ErrCodeInvalidDateRange)
		}
		if dateOnly {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		dto.End = &end
	}

	return dto, nil
}

func parseWindowBound(value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	return t, true, err
}
