package ticket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/project-tracking/internal"
	"github.com/frahmantamala/project-tracking/internal/auth"
	"github.com/frahmantamala/project-tracking/internal/project"
	"github.com/frahmantamala/project-tracking/internal/transport"
	"github.com/frahmantamala/project-tracking/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateTicket(actor *auth.User, dto CreateTicketDTO) (*Ticket, error)
	GetTicket(actor *auth.User, id string) (*Ticket, error)
	ListProjectTickets(actor *auth.User, projectID string) ([]*Ticket, error)
	ListMyTickets(actor *auth.User) ([]*Ticket, error)
	UpdateTicket(actor *auth.User, id string, dto UpdateTicketDTO) (*Ticket, error)
	DeleteTicket(actor *auth.User, id string) error
	AddComment(actor *auth.User, ticketID string, dto AddCommentDTO) (*Comment, error)
	ListComments(actor *auth.User, ticketID string) ([]*Comment, error)
	DeleteComment(actor *auth.User, commentID string) error
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

	var dto CreateTicketDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Create: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ticket, err := h.Service.CreateTicket(user, dto)
	if err != nil {
		h.writeServiceError(w, err, "failed to create ticket")
		return
	}

	h.WriteJSON(w, http.StatusCreated, ticket)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		h.WriteError(w, http.StatusBadRequest, "missing ticket ID")
		return
	}

	ticket, err := h.Service.GetTicket(user, ticketID)
	if err != nil {
		h.writeServiceError(w, err, "failed to get ticket")
		return
	}

	h.WriteJSON(w, http.StatusOK, ticket)
}

func (h *Handler) ListByProject(w http.ResponseWriter, r *http.Request) {
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

	tickets, err := h.Service.ListProjectTickets(user, projectID)
	if err != nil {
		h.writeServiceError(w, err, "failed to list tickets")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"tickets": tickets})
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	tickets, err := h.Service.ListMyTickets(user)
	if err != nil {
		h.writeServiceError(w, err, "failed to list tickets")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"tickets": tickets})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		h.WriteError(w, http.StatusBadRequest, "missing ticket ID")
		return
	}

	var dto UpdateTicketDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Update: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ticket, err := h.Service.UpdateTicket(user, ticketID, dto)
	if err != nil {
		h.writeServiceError(w, err, "failed to update ticket")
		return
	}

	h.WriteJSON(w, http.StatusOK, ticket)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		h.WriteError(w, http.StatusBadRequest, "missing ticket ID")
		return
	}

	if err := h.Service.DeleteTicket(user, ticketID); err != nil {
		h.writeServiceError(w, err, "failed to delete ticket")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		h.WriteError(w, http.StatusBadRequest, "missing ticket ID")
		return
	}

	var dto AddCommentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AddComment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.Service.AddComment(user, ticketID, dto)
	if err != nil {
		h.writeServiceError(w, err, "failed to add comment")
		return
	}

	h.WriteJSON(w, http.StatusCreated, comment)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		h.WriteError(w, http.StatusBadRequest, "missing ticket ID")
		return
	}

	comments, err := h.Service.ListComments(user, ticketID)
	if err != nil {
		h.writeServiceError(w, err, "failed to list comments")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	commentID := chi.URLParam(r, "commentID")
	if commentID == "" {
		h.WriteError(w, http.StatusBadRequest, "missing comment ID")
		return
	}

	if err := h.Service.DeleteComment(user, commentID); err != nil {
		h.writeServiceError(w, err, "failed to delete comment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	h.Logger.Error("ticket handler: service error", "error", err)

	switch {
	case errors.Is(err, ErrTicketNotFound):
		h.WriteError(w, http.StatusNotFound, "ticket not found")
	case errors.Is(err, project.ErrProjectNotFound):
		h.WriteError(w, http.StatusNotFound, "project not found")
	case errors.Is(err, ErrCommentNotFound):
		h.WriteError(w, http.StatusNotFound, "comment not found")
	case errors.Is(err, ErrNotCommentOwner):
		h.WriteError(w, http.StatusForbidden, "comment belongs to another user")
	default:
		if appErr, ok := internal.IsAppError(err); ok {
			h.WriteError(w, appErr.StatusCode, appErr.GetDetailedMessage())
			return
		}
		h.WriteUnavailable(w, fallback, err)
	}
}
