package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/careflow/care-orchestration/internal/analytics"
	"github.com/careflow/care-orchestration/internal/booking"
)

type RouterConfig struct {
	Aggregator *analytics.Aggregator
	Booking    *booking.Coordinator
	PgPool     *pgxpool.Pool
	Redis      *redis.Client
	Log        *zap.Logger
	Env        string
	Version    string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Aggregated reports
	r.Get("/reports/dashboard", reportHandler(cfg.Aggregator, analytics.KindDashboard, cfg.Log))
	r.Get("/reports/revenue", reportHandler(cfg.Aggregator, analytics.KindRevenue, cfg.Log))
	r.Get("/reports/appointments", reportHandler(cfg.Aggregator, analytics.KindAppointments, cfg.Log))
	r.Get("/reports/health", reportHandler(cfg.Aggregator, analytics.KindHealth, cfg.Log))

	// Appointment ledger
	r.Post("/appointments", createAppointmentHandler(cfg.Booking))
	r.Get("/appointments", listAppointmentsHandler(cfg.Booking))
	r.Get("/appointments/stats", appointmentStatsHandler(cfg.Booking))
	r.Get("/appointments/patient/{patientId}", listByPatientHandler(cfg.Booking))
	r.Get("/appointments/doctor/{doctorId}", listByDoctorHandler(cfg.Booking))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Booking))
	r.Put("/appointments/{id}/status", updateStatusHandler(cfg.Booking))

	return r
}
