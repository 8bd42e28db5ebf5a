package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/backend-kelas/internal/app"
	"github.com/noah-isme/backend-kelas/internal/config"
	"github.com/noah-isme/backend-kelas/internal/forward"
	"github.com/noah-isme/backend-kelas/internal/obs"
	"github.com/noah-isme/backend-kelas/internal/repo"
	"github.com/noah-isme/backend-kelas/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	if cfg.BackendBaseURL == "" {
		logger.Fatal().Msg("BACKEND_BASE_URL is required")
	}

	obs.MustRegisterDomainMetrics(envOrDefault("OBS_METRICS_NAMESPACE", "kelas"), nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if endpoint := envOrDefault("OBS_OTLP_ENDPOINT", ""); endpoint != "" {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName: envOrDefault("OBS_SERVICE_NAME", "kelas-worker"),
			Endpoint:    endpoint,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("initialise tracing")
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	pool := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()

	backend := &upstream.Client{
		BaseURL:      cfg.BackendBaseURL,
		TenantHeader: cfg.TenantHeader,
		HTTP: &http.Client{
			Timeout:   cfg.BackendTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Breaker:      upstream.NewBreaker(cfg.BreakerMinRequests, cfg.BreakerFailureRatio, cfg.BreakerOpenFor, logger),
		MaxAttempts:  cfg.BackendMaxAttempts,
		BaseBackoff:  cfg.BackendBaseBackoff,
		Jitter:       envFloat("BACKEND_RETRY_JITTER", 0.2),
		Logger:       logger,
	}

	handler := &forward.Handler{
		Backend: backend,
		Orders:  repo.Orders{DB: pool},
		Logger:  logger,
	}

	srv, err := app.NewTaskServer(cfg.RedisURL, cfg.ForwardQueue, envInt("WORKER_CONCURRENCY", 10))
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise task server")
	}

	mux := asynq.NewServeMux()
	mux.Handle(forward.TypeCheckoutForward, handler)

	go func() {
		<-ctx.Done()
		srv.Shutdown()
	}()

	logger.Info().Msg("worker starting")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped with error")
	}
	logger.Info().Msg("worker shutdown complete")
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *pgxpool.Pool {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "kelas-worker"

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(connectCtx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}
