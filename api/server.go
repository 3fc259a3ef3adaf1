/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack and route definitions. This
  is the wiring layer connecting URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the admin frontend

SECURITY NOTE:
  No authentication middleware here; session handling is the surrounding
  application's concern and sits in front of this service.

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

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Window administration
		r.Route("/windows", func(r chi.Router) {
			r.Get("/", h.ListWindows)
			r.Post("/", h.CreateWindow)
			r.Get("/open", h.OpenWindows)
			r.Get("/day/{day}", h.WindowsForDay)
			r.Get("/{id}", h.GetWindow)
			r.Delete("/{id}", h.DeactivateWindow)
		})

		// Check-in intake
		r.Post("/checkins", h.CheckIn)

		// Events and admin validation
		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Post("/{id}/approve", h.ApproveEvent)
			r.Post("/{id}/reject", h.RejectEvent)
		})

		// Rank projections
		r.Route("/ranks", func(r chi.Router) {
			r.Get("/daily/{date}", h.GetDailyRanks)
			r.Get("/monthly/{period}", h.GetMonthlyRanks)
		})

		// Admin operations
		r.Route("/admin", func(r chi.Router) {
			r.Post("/recompute", h.TriggerRecompute)
		})
	})

	return r
}
