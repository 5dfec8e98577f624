/*
server.go - HTTP router and middleware configuration

MIDDLEWARE STACK:
  1. RequestID:     unique ID per request for tracing
  2. RequestLogger: structured request logging (zap)
  3. Recoverer:     panic recovery (500 instead of crash)
  4. CORS:          cross-origin requests for the frontend
  5. PasswordGate:  placeholder app password on /api, admin password on the
                    admin subtree — not a security boundary

ROUTE GROUPS:
  /api/employees/*     directory, balances, personal history, submission
  /api/requests/*      schedule views and approval workflow
  /api/config/*        daily-limit policy
  /api/constraints/*   exclusion pairs
  /api/assistant/*     advisory chat

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig carries the presentation-layer knobs.
type RouterConfig struct {
	AllowedOrigins []string

	// AppPassword gates every /api route; AdminPassword additionally gates
	// employee management, approvals, and policy changes. Empty disables.
	AppPassword   string
	AdminPassword string
}

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", appPasswordHeader, adminPasswordHeader},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Use(PasswordGate(appPasswordHeader, cfg.AppPassword))

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Get("/{name}/balance", h.GetBalance)
			r.Get("/{name}/requests", h.ListEmployeeRequests)
			r.Post("/{name}/requests", h.SubmitRequest)

			r.Group(func(r chi.Router) {
				r.Use(PasswordGate(adminPasswordHeader, cfg.AdminPassword))
				r.Post("/", h.CreateEmployee)
				r.Delete("/{name}", h.DeleteEmployee)
			})
		})

		r.Route("/requests", func(r chi.Router) {
			r.Get("/approved", h.ListApprovedRequests)

			r.Group(func(r chi.Router) {
				r.Use(PasswordGate(adminPasswordHeader, cfg.AdminPassword))
				r.Get("/pending", h.ListPendingRequests)
				r.Post("/{id}/approve", h.ApproveRequest)
				r.Post("/{id}/reject", h.RejectRequest)
			})
		})

		r.Route("/config", func(r chi.Router) {
			r.Get("/daily-limit", h.GetDailyLimit)

			r.Group(func(r chi.Router) {
				r.Use(PasswordGate(adminPasswordHeader, cfg.AdminPassword))
				r.Put("/daily-limit", h.SetDailyLimit)
			})
		})

		r.Route("/constraints", func(r chi.Router) {
			r.Get("/", h.ListConstraints)

			r.Group(func(r chi.Router) {
				r.Use(PasswordGate(adminPasswordHeader, cfg.AdminPassword))
				r.Post("/", h.AddConstraint)
			})
		})

		r.Post("/assistant/ask", h.Ask)
	})

	return r
}
