package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/project-tracking/internal/activity"
	"github.com/frahmantamala/project-tracking/internal/auth"
	"github.com/frahmantamala/project-tracking/internal/company"
	"github.com/frahmantamala/project-tracking/internal/project"
	"github.com/frahmantamala/project-tracking/internal/ticket"
	"github.com/frahmantamala/project-tracking/internal/timeentry"
	"github.com/frahmantamala/project-tracking/internal/transport/middleware"
	"github.com/frahmantamala/project-tracking/internal/transport/swagger"
	"github.com/frahmantamala/project-tracking/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Auth      *auth.Handler
	User      *user.Handler
	Company   *company.Handler
	Project   *project.Handler
	Ticket    *ticket.Handler
	TimeEntry *timeentry.Handler
	Activity  *activity.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	rbac := auth.NewRBACAuthorization(logger)

	router.Use(middleware.CORSWithOrigins(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// OpenAPI spec and Swagger UI live outside the API prefix.
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Everything below requires a valid token; the middleware loads the
		// user with role into context for the capability checks.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/me", h.User.Me)
				ur.Patch("/me", h.User.UpdateMe)

				ur.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireCapability(auth.CapUsersManage))
					mr.Get("/", h.User.List)
					mr.Post("/", h.User.Create)
					mr.Patch("/{id}/role", h.User.ChangeRole)
					mr.Patch("/{id}/active", h.User.SetActive)
				})
			})

			pr.Route("/company", func(cr chi.Router) {
				cr.Get("/", h.Company.Get)

				cr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireCapability(auth.CapCompanyManage))
					mr.Patch("/", h.Company.Update)
				})
			})

			pr.Route("/projects", func(prj chi.Router) {
				prj.Get("/", h.Project.List)
				prj.Get("/{id}", h.Project.Get)
				prj.Get("/{id}/members", h.Project.ListMembers)
				prj.Get("/{id}/tickets", h.Ticket.ListByProject)
				prj.Get("/{id}/time-entries", h.TimeEntry.ListProjectEntries)

				prj.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireCapability(auth.CapProjectsCreate))
					mr.Post("/", h.Project.Create)
				})

				prj.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireCapability(auth.CapProjectsUpdate))
					mr.Patch("/{id}", h.Project.Update)
					mr.Post("/{id}/members", h.Project.AddMember)
					mr.Delete("/{id}/members/{userID}", h.Project.RemoveMember)
				})

				// projects.delete is admin-only in the capability table.
				prj.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireCapability(auth.CapProjectsDelete))
					mr.Delete("/{id}", h.Project.Delete)
				})
			})

			pr.Route("/tickets", func(tr chi.Router) {
				tr.Get("/mine", h.Ticket.ListMine)
				tr.Get("/{id}", h.Ticket.Get)
				tr.Get("/{id}/comments", h.Ticket.ListComments)
				tr.Post("/{id}/comments", h.Ticket.AddComment)
				tr.Delete("/comments/{commentID}", h.Ticket.DeleteComment)

				tr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireCapability(auth.CapTicketsCreate))
					mr.Post("/", h.Ticket.Create)
				})

				tr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireCapability(auth.CapTicketsUpdate))
					mr.Patch("/{id}", h.Ticket.Update)
				})

				tr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireCapability(auth.CapTicketsDelete))
					mr.Delete("/{id}", h.Ticket.Delete)
				})
			})

			pr.Route("/time-entries", func(ter chi.Router) {
				ter.Get("/active", h.TimeEntry.GetActive)
				ter.Post("/check-in", h.TimeEntry.CheckIn)
				ter.Patch("/{id}/check-out", h.TimeEntry.CheckOut)
				ter.Get("/", h.TimeEntry.ListEntries)
				ter.Get("/weekly-hours", h.TimeEntry.WeeklyHours)
				ter.Delete("/{id}", h.TimeEntry.DeleteEntry)
			})

			pr.Route("/activity", func(ar chi.Router) {
				ar.Get("/mine", h.Activity.ListMine)

				ar.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireCapability(auth.CapReportsView))
					mr.Get("/{entityType}/{entityID}", h.Activity.ListForEntity)
				})
			})
		})
	})
}
