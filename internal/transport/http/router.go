package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/repairtrack-api/internal/application/devices"
	"github.com/repairtrack-api/internal/application/notify"
	"github.com/repairtrack-api/internal/application/staff"
	"github.com/repairtrack-api/internal/config"
	"github.com/repairtrack-api/internal/domain"
	"github.com/repairtrack-api/internal/transport/http/handler"
	appmiddleware "github.com/repairtrack-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — staff creation is a sensitive endpoint.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	resolver := notify.NewResolver(deps.RepairRepo, deps.UserRepo, cfg.ResolveConcurrency)
	dispatcher := notify.NewDispatcher(deps.FCMClient, deps.APNSProvider)
	notifySvc := notify.NewService(resolver, dispatcher)
	staffSvc := staff.NewService(deps.Identity, deps.UserRepo, deps.SMSSender)
	deviceSvc := devices.NewService(deps.UserRepo)

	healthH := handler.NewHealthHandler()
	staffH := handler.NewStaffHandler(staffSvc)
	notifH := handler.NewNotificationHandler(notifySvc)
	sessionH := handler.NewSessionHandler(staffSvc)
	imageH := handler.NewImageHandler(deps.S3Store)
	deviceH := handler.NewDeviceHandler(deviceSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/sessions/sign-out-all", sessionH.SignOutAll)
			r.Post("/devices/token", deviceH.RegisterToken)
			r.Post("/images", imageH.Upload)

			// Staff and admin callers may dispatch notifications.
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin, domain.RoleStaff))

				r.Post("/notifications/broadcast", notifH.Broadcast)
				r.Post("/notifications/status", notifH.StatusUpdate)
			})

			// Admin-only staff account management.
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.With(sensitiveRL.Limit).Post("/staff", staffH.Create)
				r.Delete("/staff/{uid}", staffH.Delete)
			})
		})
	})

	return r
}
