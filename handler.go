package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Handler holds shared dependencies for all route handlers.
type Handler struct {
	db     *pgxpool.Pool
	log    *logrus.Logger
	cache  resultCache // nil disables result caching
	openAI OpenAIConfig
}

// logger returns a component-scoped log entry.
func (h *Handler) logger(component string) *logrus.Entry {
	if h.log == nil {
		return logrus.StandardLogger().WithField("component", component)
	}
	return h.log.WithField("component", component)
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](h *Handler, c *gin.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := h.db.Query(c, sql, args)
	if err != nil {
		h.logger("queryOne").WithError(err).Error("query failed")
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && err != pgx.ErrNoRows {
		h.logger("queryOne").WithError(err).Error("scan failed")
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](h *Handler, c *gin.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := h.db.Query(c, sql, args)
	if err != nil {
		h.logger("queryMany").WithError(err).Error("query failed")
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		h.logger("queryMany").WithError(err).Error("scan failed")
	}
	return results, err
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// newDBPool creates a connection pool. A pool (not a single conn) survives
// the provider closing idle connections.
func newDBPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}
	// Simple protocol avoids "cached plan must not change result type" after
	// schema migrations.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine, limiter *rateLimiter) {
	// Public routes
	router.GET("/healthz", h.healthz)
	router.GET("/metrics", gin.WrapH(metricsHandler()))
	router.POST("/api/login", limiter.middleware(), h.login)

	// Authenticated routes. The first limiter pass keys by IP so rejected
	// tokens are throttled too; the second keys by trainer.
	api := router.Group("/api", limiter.middleware(), h.authMiddleware(), limiter.middleware())
	api.POST("/nutrition/calculate", h.calculateNutrition)
	api.GET("/nutrition/presets", h.listMacroPresets)

	api.GET("/clients", h.listClients)
	api.POST("/clients", h.createClient)
	api.GET("/clients/:id", h.getClient)
	api.PATCH("/clients/:id", h.patchClient)
	api.DELETE("/clients/:id", h.deleteClient)

	api.POST("/clients/:id/nutrition-plans", h.createNutritionPlan)
	api.GET("/clients/:id/nutrition-plans", h.listNutritionPlans)
	api.GET("/clients/:id/nutrition-plans/latest", h.getLatestNutritionPlan)
	api.POST("/clients/:id/meal-ideas", h.suggestMealIdeas)

	api.GET("/clients/:id/food-log/daily", h.getDailyFoodLog)
	api.POST("/clients/:id/food-log", h.createFoodLogItem)
	api.PUT("/clients/:id/food-log/:itemId", h.updateFoodLogItem)
	api.DELETE("/clients/:id/food-log/:itemId", h.deleteFoodLogItem)

	api.GET("/clients/:id/weight-log", h.getWeightLog)
	api.POST("/clients/:id/weight-log", h.upsertWeightEntry)
	api.DELETE("/clients/:id/weight-log/:entryId", h.deleteWeightEntry)
}

// healthz reports liveness and, when a pool is configured, DB reachability.
// GET /healthz.
func (h *Handler) healthz(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(c); err != nil {
			apiError(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
