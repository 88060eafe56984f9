/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. Logger:     Request logging
  4. CORS:       Cross-origin requests for the frontend

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/schedules", func(r chi.Router) {
			r.Post("/generate/{year}/{month}", h.GenerateSchedules)
			r.Get("/{year}/{month}", h.GetSchedules)
			r.Get("/employee/{id}/{year}/{month}", h.GetEmployeeSchedule)
		})

		r.Route("/subsidy", func(r chi.Router) {
			r.Get("/{year}/{month}", h.GetSubsidyTotals)
			r.Get("/{year}/{month}/export", h.ExportSubsidyReport)
		})

		r.Route("/calendars", func(r chi.Router) {
			r.Get("/{year}/{month}", h.GetCalendar)
			r.Post("/{year}/{month}", h.EnsureCalendar)
			r.Post("/{year}/{month}/holidays", h.AddHoliday)
			r.Delete("/{year}/{month}/holidays/{date}", h.RemoveHoliday)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
		})
	})

	return r
}
