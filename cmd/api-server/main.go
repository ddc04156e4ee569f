package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/careflow/care-orchestration/internal/analytics"
	"github.com/careflow/care-orchestration/internal/api"
	"github.com/careflow/care-orchestration/internal/booking"
	"github.com/careflow/care-orchestration/internal/config"
	"github.com/careflow/care-orchestration/internal/db"
	"github.com/careflow/care-orchestration/internal/events"
	redisclient "github.com/careflow/care-orchestration/internal/redis"
	"github.com/careflow/care-orchestration/internal/upstream"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}

	logger := newLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	logger.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	logger.Info("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("redis connection error", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("error closing redis", zap.Error(err))
		}
	}()
	logger.Info("connected to Redis")

	// Event bus: Kafka when brokers are configured, in-process otherwise.
	var bus events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaBus, err := events.NewKafkaPublisher(cfg.KafkaBrokers, "care-orchestration")
		if err != nil {
			logger.Fatal("kafka connection error", zap.Error(err))
		}
		bus = kafkaBus
		logger.Info("connected to Kafka", zap.Strings("brokers", cfg.KafkaBrokers))
	} else {
		bus = events.NewMemoryPublisher()
		logger.Warn("KAFKA_BROKERS not set, events stay in process")
	}
	defer bus.Close()

	// Upstream backends
	patients := upstream.NewPatientDirectory(cfg.PatientServiceURL, cfg.GatewayTimeout, logger)
	doctors := upstream.NewDoctorDirectory(cfg.DoctorServiceURL, cfg.GatewayTimeout, logger)
	billing := upstream.NewBillingDirectory(cfg.BillingServiceURL, cfg.GatewayTimeout, logger)
	appointments := upstream.NewAppointmentDirectory(cfg.AppointmentServiceURL, cfg.GatewayTimeout, logger)
	notifications := upstream.NewNotificationDirectory(cfg.NotificationServiceURL, cfg.GatewayTimeout, logger)

	aggregator := analytics.NewAggregator(analytics.Sources{
		Patients:      patients,
		Billing:       billing,
		Appointments:  appointments,
		Notifications: notifications,
	}, analytics.NewCache(), cfg.ReportCacheTTL, logger)

	store := booking.NewPgStore(pgPool)
	locker := redisclient.NewRedisDoctorLocker(rdb, cfg.LockTTL)
	coordinator := booking.NewCoordinator(store, patients, doctors, locker, bus, logger)

	router := api.NewRouter(api.RouterConfig{
		Aggregator: aggregator,
		Booking:    coordinator,
		PgPool:     pgPool,
		Redis:      rdb,
		Log:        logger,
		Env:        cfg.Env,
		Version:    version,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-rootCtx.Done()

	logger.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	var logger *zap.Logger
	var err error

	if env == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("logger init error: " + err.Error())
	}

	return logger
}
