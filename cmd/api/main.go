package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rkbeauty/booking-gateway/internal/adminpanel"
	"github.com/rkbeauty/booking-gateway/internal/api/router"
	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
	appconfig "github.com/rkbeauty/booking-gateway/internal/config"
	"github.com/rkbeauty/booking-gateway/internal/confirmation"
	"github.com/rkbeauty/booking-gateway/internal/http/handlers"
	"github.com/rkbeauty/booking-gateway/internal/live"
	"github.com/rkbeauty/booking-gateway/internal/observability/metrics"
	"github.com/rkbeauty/booking-gateway/internal/reservation"
	"github.com/rkbeauty/booking-gateway/pkg/logging"
)

func main() {
	// Load .env in development; a missing file is fine.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking gateway",
		"env", cfg.Env,
		"port", cfg.Port,
		"booking_api", cfg.BookingAPIBase,
	)

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	gatewayMetrics := metrics.NewGatewayMetrics(registry)

	// Upstream booking API client
	api := bookingapi.NewClient(cfg.BookingAPIBase,
		bookingapi.WithTimeout(cfg.BookingAPITimeout),
		bookingapi.WithLogger(logger),
		bookingapi.WithMetrics(gatewayMetrics),
	)

	// Live availability push
	hub := live.NewHub(logger)
	go hub.Run()

	// Controllers
	reservationCtrl := reservation.NewController(api, logger, gatewayMetrics, cfg.DepositRate)
	adminCtrl := adminpanel.NewController(api, logger)
	resolver := confirmation.NewResolver(api, logger)

	// Router
	r := router.New(&router.Config{
		Logger:             logger,
		Availability:       handlers.NewAvailabilityHandler(api, logger),
		Calendar:           handlers.NewCalendarHandler(api, logger, cfg.CalendarDays),
		Sessions:           handlers.NewSessionsHandler(api, logger),
		Reservations:       handlers.NewReservationsHandler(reservationCtrl, logger),
		Confirmation:       handlers.NewConfirmationHandler(resolver, logger),
		AdminSchedule:      handlers.NewAdminScheduleHandler(adminCtrl, api, hub, logger),
		AdminSessions:      handlers.NewAdminSessionsHandler(adminCtrl, logger),
		Hub:                hub,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
