package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/event-signup-bot/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Auth          *auth.AuthHandler
	Events        *EventHandler
	Registrations *RegistrationHandler
	Stats         *StatsHandler
	QRCode        *QRCodeHandler
}

func RegisterRoutes(r *chi.Mux, h Handlers) huma.API {
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Event Signup API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	huma.Post(api, "/login", h.Auth.HandleLogin)

	// Protected routes
	protected := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"bearerAuth": {}}}
		o.Middlewares = append(o.Middlewares, h.Auth.HumaMiddleware(api))
	}
	created := func(o *huma.Operation) {
		protected(o)
		o.DefaultStatus = http.StatusCreated
	}

	huma.Get(api, "/events", h.Events.HandleList, protected)
	huma.Post(api, "/events", h.Events.HandleCreate, created)
	huma.Put(api, "/events/{id}", h.Events.HandleUpdate, protected)
	huma.Delete(api, "/events/{id}", h.Events.HandleDelete, protected)
	huma.Post(api, "/events/{id}/toggle", h.Events.HandleToggle, protected)
	huma.Get(api, "/registrations", h.Registrations.HandleList, protected)
	huma.Get(api, "/users", h.Registrations.HandleUsers, protected)
	huma.Get(api, "/stats", h.Stats.HandleStats, protected)

	r.Group(func(r chi.Router) {
		r.Use(h.Auth.BearerMiddleware)
		r.Method(http.MethodGet, "/events/{id}/qrcode", h.QRCode)
	})

	return api
}
