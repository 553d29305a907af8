package company

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/project-tracking/internal"
	"github.com/frahmantamala/project-tracking/internal/auth"
	"github.com/frahmantamala/project-tracking/internal/transport"
	"github.com/frahmantamala/project-tracking/pkg/logger"
)

type ServiceAPI interface {
	GetCompany(actor *auth.User) (*Company, error)
	UpdateCompany(actor *auth.User, dto UpdateCompanyDTO) (*Company, error)
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

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	c, err := h.Service.GetCompany(user)
	if err != nil {
		h.writeServiceError(w, err, "failed to get company")
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateCompanyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Update: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.UpdateCompany(user, dto)
	if err != nil {
		h.writeServiceError(w, err, "failed to update company")
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	h.Logger.Error("company handler: service error", "error", err)

	switch {
	case errors.Is(err, ErrCompanyNotFound):
		h.WriteError(w, http.StatusNotFound, "company not found")
	default:
		if appErr, ok := internal.IsAppError(err); ok {
			h.WriteError(w, appErr.StatusCode, appErr.GetDetailedMessage())
			return
		}
		h.WriteUnavailable(w, fallback, err)
	}
}
