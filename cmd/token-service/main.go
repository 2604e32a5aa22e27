package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/showroomlab/showroom-token-service/internal/config"
	"github.com/showroomlab/showroom-token-service/internal/delivery/http/handlers"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/kafka"
	eventlog "github.com/showroomlab/showroom-token-service/internal/infrastructure/logger"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/mailer"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/metrics"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/migrate"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/postgres"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/postgres/repository"
	"github.com/showroomlab/showroom-token-service/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	appLogger := setupLogger(cfg.LogConfig)
	slog.SetDefault(appLogger)

	// Init database
	db := postgres.MustInitDB(cfg)
	if cfg.TokenDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.TokenDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Init token repo
	tokenRepo := repository.NewDefaultTokenRepository(db)

	// Init mail transport
	smtpMailer, err := mailer.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		log.Fatalf("failed to init mailer: %v", err)
	}

	// Event publishing is optional
	var pub *kafka.KafkaPublisher
	if brokers := cfg.Kafka.BrokerList(); len(brokers) > 0 {
		pub = kafka.NewKafkaPublisher(brokers)
	}

	m := metrics.NewIntakeMetrics(prometheus.DefaultRegisterer)

	// Init usecases
	intakeUsecase := usecase.NewDefaultIntakeUsecase(
		tokenRepo,
		smtpMailer,
		pub,
		eventlog.NewPGIntakeEventLogger(db),
		m,
		cfg.TargetProductID,
		cfg.Kafka.Topic,
	)
	accessUsecase := usecase.NewDefaultAccessUsecase(tokenRepo, smtpMailer)

	router := handlers.NewRouter(intakeUsecase, accessUsecase, appLogger)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handlers.WithMiddleware(router, m, appLogger))

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPServer.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start
	go func() {
		appLogger.Info("server listening", "port", cfg.HTTPServer.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	appLogger.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("server shutdown failed", "error", err)
	}
	if pub != nil {
		if err := pub.Close(); err != nil {
			appLogger.Error("kafka publisher close failed", "error", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.LogFormat) == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
