package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rkbeauty/booking-gateway/internal/http/handlers"
	httpmiddleware "github.com/rkbeauty/booking-gateway/internal/http/middleware"
	"github.com/rkbeauty/booking-gateway/internal/live"
	"github.com/rkbeauty/booking-gateway/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Availability       *handlers.AvailabilityHandler
	Calendar           *handlers.CalendarHandler
	Sessions           *handlers.SessionsHandler
	Reservations       *handlers.ReservationsHandler
	Confirmation       *handlers.ConfirmationHandler
	AdminSchedule      *handlers.AdminScheduleHandler
	AdminSessions      *handlers.AdminSessionsHandler
	Hub                *live.Hub
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int
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
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		public.Route("/api", func(api chi.Router) {
			if cfg.Availability != nil {
				api.Get("/availability", cfg.Availability.Get)
			}
			if cfg.Calendar != nil {
				api.Get("/calendar", cfg.Calendar.Get)
			}
			if cfg.Sessions != nil {
				api.Get("/formations/{code}/sessions", cfg.Sessions.List)
			}
			if cfg.Reservations != nil {
				api.Post("/reservations/checkout", cfg.Reservations.Checkout)
				api.Post("/reservations/paypal", cfg.Reservations.PayPal)
			}
			if cfg.Confirmation != nil {
				api.Get("/confirmation", cfg.Confirmation.Get)
			}
		})
		if cfg.Hub != nil {
			public.Get("/ws/availability", func(w http.ResponseWriter, r *http.Request) {
				live.ServeWS(cfg.Hub, w, r)
			})
		}
	})

	// Admin endpoints: the token is required here and validated upstream.
	r.Route("/api/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.RequireAdminToken())
		if cfg.AdminSchedule != nil {
			admin.Get("/schedule", cfg.AdminSchedule.Get)
			admin.Put("/schedule", cfg.AdminSchedule.Put)
			admin.Delete("/schedule", cfg.AdminSchedule.Delete)
			admin.Post("/schedule/block", cfg.AdminSchedule.Block)
		}
		if cfg.AdminSessions != nil {
			admin.Get("/sessions", cfg.AdminSessions.List)
			admin.Post("/sessions", cfg.AdminSessions.Create)
			admin.Patch("/sessions/{id}", cfg.AdminSessions.Update)
			admin.Delete("/sessions/{id}", cfg.AdminSessions.Delete)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
