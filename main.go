package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// limiterIdleTTL is how long an idle caller's token bucket is kept.
const limiterIdleTTL = 10 * time.Minute

func main() {
	configPath := flag.String("config", envOr("CONFIG_PATH", "config.yaml"), "path to YAML config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		newLogger(LoggingConfig{Level: "info"}).WithError(err).Fatal("failed to load config")
	}
	logger := newLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := newDBPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.WithError(err).Fatal("unable to connect to database")
	}
	defer pool.Close()

	h := &Handler{db: pool, log: logger, openAI: cfg.OpenAI}

	// The cache is optional: without Redis every calculation runs fresh.
	if cfg.Redis.Address != "" {
		cache, err := newRedisCache(ctx, cfg.Redis)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, calculation cache disabled")
		} else {
			defer cache.Close()
			h.cache = cache
		}
	}

	limiter := newRateLimiter(cfg.RateLimit)
	limiter.startPruning(limiterIdleTTL, ctx.Done())

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), metricsMiddleware())
	router.SetTrustedProxies(nil)
	h.registerRoutes(router, limiter)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
	}).Handler(router)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("addr", srv.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
