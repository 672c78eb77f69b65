package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/tenant-management/internal/audit"
	"github.com/frahmantamala/tenant-management/internal/auth"
	"github.com/frahmantamala/tenant-management/internal/invitation"
	"github.com/frahmantamala/tenant-management/internal/organization"
	"github.com/frahmantamala/tenant-management/internal/orgtype"
	"github.com/frahmantamala/tenant-management/internal/platform"
	"github.com/frahmantamala/tenant-management/internal/rbac"
	"github.com/frahmantamala/tenant-management/internal/transport/middleware"
	"github.com/frahmantamala/tenant-management/internal/transport/swagger"
	"github.com/frahmantamala/tenant-management/internal/user"
	"github.com/go-chi/chi"
)

type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Platform     *platform.Handler
	Organization *organization.Handler
	OrgType      *orgtype.Handler
	Invitation   *invitation.Handler
	Audit        *audit.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORSWithOrigins(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

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
			sr.Post("/forgot-password", h.Auth.ForgotPassword)
			sr.Post("/reset-password", h.Auth.ResetPassword)
			sr.Get("/verify-email", h.Auth.VerifyEmail)
		})

		// token is the credential here, no session required
		r.Post("/invitations/accept", h.Invitation.AcceptInvitation)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetMe)

			pr.Group(func(ar chi.Router) {
				ar.Use(middleware.RequireRoles(rbac.RoleSuperAdmin, rbac.RolePlatformAdmin, rbac.RoleOrganizationAdmin))

				ar.Route("/users", func(ur chi.Router) {
					ur.Get("/", h.User.ListUsers)
					ur.Post("/", h.User.CreateUser)
					ur.Patch("/{id}/role", h.User.ChangeRole)
					ur.Patch("/{id}/disable", h.User.DisableUser)
					ur.Patch("/{id}/enable", h.User.EnableUser)
				})

				ar.Route("/invitations", func(ir chi.Router) {
					ir.Get("/", h.Invitation.ListInvitations)
					ir.Post("/", h.Invitation.CreateInvitation)
					ir.Post("/{id}/resend", h.Invitation.ResendInvitation)
					ir.Delete("/{id}", h.Invitation.RevokeInvitation)
				})

				ar.Get("/audit", h.Audit.ListAuditLog)
			})

			pr.Route("/platforms", func(plr chi.Router) {
				plr.Get("/", h.Platform.ListPlatforms)
				plr.Post("/", h.Platform.CreatePlatform)
				plr.Get("/{id}", h.Platform.GetPlatform)
				plr.Patch("/{id}", h.Platform.UpdatePlatform)
			})

			pr.Route("/organizations", func(or chi.Router) {
				or.Get("/", h.Organization.ListOrganizations)
				or.Post("/", h.Organization.CreateOrganization)
				or.Get("/{id}", h.Organization.GetOrganization)
				or.Patch("/{id}/approve", h.Organization.ApproveOrganization)
				or.Patch("/{id}/reject", h.Organization.RejectOrganization)
				or.Post("/{id}/documents", h.Organization.SubmitDocuments)
			})

			pr.Route("/org-types", func(otr chi.Router) {
				otr.Get("/", h.OrgType.ListOrgTypes)
				otr.Post("/", h.OrgType.CreateOrgType)
				otr.Patch("/{id}/archive", h.OrgType.ArchiveOrgType)
				otr.Delete("/{id}", h.OrgType.DeleteOrgType)
			})
		})
	})
}
