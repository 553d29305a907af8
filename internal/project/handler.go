package project

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/project-tracking/internal"
	"github.com/frahmantamala/project-tracking/internal/auth"
	"github.com/frahmantamala/project-tracking/internal/transport"
	"github.com/frahmantamala/project-tracking/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateProject(actor *auth.User, dto CreateProjectDTO) (*Project, error)
	GetProject(actor *auth.User, id string) (*Project, error)
	ListProjects(actor *auth.User) ([]*Project, error)
	UpdateProject(actor *auth.User, id string, dto UpdateProjectDTO) (*Project, error)
	DeleteProject(actor *auth.User, id string) error
	AddMember(actor *auth.User, projectID string, dto AddMemberDTO) (*Member, error)
	RemoveMember(actor *auth.User, projectID, userID string) error
	ListMembers(actor *auth.User, projectID string) ([]*Member, error)
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Create: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := h.Service.CreateProject(user, dto)
	if err != nil {
		h.writeServiceError(w, err, "failed to create project")
		return
	}

	h.WriteJSON(w, http.StatusCreated, project)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
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

	project, err := h.Service.GetProject(user, projectID)
	if err != nil {
		h.writeServiceError(w, err, "failed to get project")
		return
	}

	h.WriteJSON(w, http.StatusOK, project)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	projects, err := h.Service.ListProjects(user)
	if err != nil {
		h.writeServiceError(w, err, "failed to list projects")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
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

	var dto UpdateProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Update: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := h.Service.UpdateProject(user, projectID, dto)
	if err != nil {
		h.writeServiceError(w, err, "failed to update project")
		return
	}

	h.WriteJSON(w, http.StatusOK, project)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Service.DeleteProject(user, projectID); err != nil {
		h.writeServiceError(w, err, "failed to delete project")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
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

	var dto AddMemberDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AddMember: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	member, err := h.Service.AddMember(user, projectID, dto)
	if err != nil {
		h.writeServiceError(w, err, "failed to add member")
		return
	}

	h.WriteJSON(w, http.StatusCreated, member)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	projectID := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "userID")
	if projectID == "" || userID == "" {
		h.WriteError(w, http.StatusBadRequest, "missing project or user ID")
		return
	}

	if err := h.Service.RemoveMember(user, projectID, userID); err != nil {
		h.writeServiceError(w, err, "failed to remove member")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
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

	members, err := h.Service.ListMembers(user, projectID)
	if err != nil {
		h.writeServiceError(w, err, "failed to list members")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	h.Logger.Error("project handler: service error", "error", err)

	switch {
	case errors.Is(err, ErrProjectNotFound):
		h.WriteError(w, http.StatusNotFound, "project not found")
	case errors.Is(err, ErrMemberExists):
		h.WriteError(w, http.StatusConflict, "user is already a project member")
	case errors.Is(err, ErrMemberNotFound):
		h.WriteError(w, http.StatusNotFound, "project member not found")
	default:
		if appErr, ok := internal.IsAppError(err); ok {
			h.WriteError(w, appErr.StatusCode, appErr.GetDetailedMessage())
			return
		}
		h.WriteUnavailable(w, fallback, err)
	}
}
