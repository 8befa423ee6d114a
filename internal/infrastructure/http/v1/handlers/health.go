package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stationdesk/internal/infrastructure/storage/postgres"
)

// Database is what the health probes need from the pool.
type Database interface {
	Ping(ctx context.Context) error
	Stats() postgres.PoolStats
}

// BuildInfo describes the running binary.
type BuildInfo struct {
	App     string `json:"app"`
	Version string `json:"version"`
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	db      Database
	info    BuildInfo
	started time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db Database, info BuildInfo) *HealthHandler {
	return &HealthHandler{db: db, info: info, started: time.Now()}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{
				"database": "unhealthy: " + err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			"database": "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":            h.info.App,
		"version":        h.info.Version,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"database":       h.db.Stats(),
	})
}
