package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/docnearby/docnearby/internal/appointments"
	httpmiddleware "github.com/docnearby/docnearby/internal/http/middleware"
	"github.com/docnearby/docnearby/internal/identity"
	"github.com/docnearby/docnearby/internal/providers"
	"github.com/docnearby/docnearby/internal/search"
	"github.com/docnearby/docnearby/internal/triage"
	"github.com/docnearby/docnearby/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	SearchHandler       *search.Handler
	ProvidersHandler    *providers.Handler
	TriageHandler       *triage.Handler
	AppointmentsHandler *appointments.Handler
	MetricsHandler      http.Handler
	JWTSecret           string
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.SearchHandler != nil {
			public.Get("/api/doctors/nearby", cfg.SearchHandler.NearbyDoctors)
		}
		if cfg.ProvidersHandler != nil {
			public.Get("/api/doctors/{id}", cfg.ProvidersHandler.GetProvider)
		}
	})

	// Authenticated endpoints
	r.Group(func(authed chi.Router) {
		authed.Use(identity.RequireAuth(cfg.JWTSecret))

		if cfg.ProvidersHandler != nil {
			authed.Get("/api/doctors/profile/me", cfg.ProvidersHandler.GetMyProfile)
			authed.Put("/api/doctors/profile/me", cfg.ProvidersHandler.UpdateMyProfile)
		}
		if cfg.TriageHandler != nil {
			authed.Post("/api/symptoms/analyze", cfg.TriageHandler.AnalyzeSymptoms)
		}
		if cfg.AppointmentsHandler != nil {
			authed.Post("/api/appointments", cfg.AppointmentsHandler.Create)
			authed.Get("/api/appointments", cfg.AppointmentsHandler.ListOwn)
			authed.Get("/api/appointments/{id}", cfg.AppointmentsHandler.Get)
			authed.Patch("/api/appointments/{id}", cfg.AppointmentsHandler.UpdateStatus)
			authed.Delete("/api/appointments/{id}", cfg.AppointmentsHandler.Delete)
			authed.Get("/api/doctors/{id}/appointments", cfg.AppointmentsHandler.ListForDoctor)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
