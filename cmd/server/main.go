package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/rental-backend/internal/app"
	"github.com/nekogravitycat/rental-backend/internal/config"
	"github.com/nekogravitycat/rental-backend/internal/db"
	"github.com/nekogravitycat/rental-backend/internal/logging"
	"github.com/nekogravitycat/rental-backend/internal/metrics"
	"github.com/nekogravitycat/rental-backend/internal/pkg/clock"
	"github.com/nekogravitycat/rental-backend/internal/ratelimit"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	env := "dev"
	if cfg.IsProduction {
		env = config.PROD_STRING
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logging.New(cfg.Log, env)

	pool, err := db.NewPool(ctx, cfg.DBDSN, db.PoolOptions{MaxConns: int32(cfg.DBMaxConns)}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer pool.Close()

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate db")
		}
	}

	limiter, closeLimiter := newLimiter(ctx, cfg, logger)
	defer closeLimiter()

	if cfg.MetricsEnabled {
		metrics.Register()
	}

	container := app.NewContainer(app.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		MetricsEnabled: cfg.MetricsEnabled,
		DBPool:         pool,
		JWTSecret:      cfg.JWTSecret,
		JWTTTL:         cfg.JWTAccessTokenTTL,
		BcryptCost:     cfg.BcryptCost,
		Logger:         logger,
		Clock:          clock.Real{},
		Limiter:        limiter,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited gracefully")
}

// newLimiter prefers a Redis-backed limiter shared across instances and falls
// back to an in-process one when Redis is not configured or unreachable.
func newLimiter(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (ratelimit.Limiter, func()) {
	noop := func() {}
	if cfg.RateLimit.RPS <= 0 {
		logger.Info().Msg("rate limiting disabled")
		return nil, noop
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		err := ratelimit.Ping(ctx, client)
		if err == nil {
			limit := int(cfg.RateLimit.RPS * cfg.RateLimit.Window.Seconds())
			logger.Info().Str("redis_addr", cfg.RedisAddr).Int("limit", limit).Msg("using redis rate limiter")
			return ratelimit.NewRedisLimiter(client, limit, cfg.RateLimit.Window), func() { _ = client.Close() }
		}
		logger.Warn().Err(err).Str("redis_addr", cfg.RedisAddr).Msg("redis unreachable, using in-memory rate limiter")
		_ = client.Close()
	}

	return ratelimit.NewMemoryLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst), noop
}
