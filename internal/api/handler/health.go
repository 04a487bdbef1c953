package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const readinessTimeout = 2 * time.Second

// HealthHandler serves the liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness reports whether the process is alive.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ReadinessHandler serves the readiness probe, checking the store and, when
// configured, Redis.
type ReadinessHandler struct {
	db  *sql.DB
	rdb *redis.Client // nil when the in-process deny-list is used
}

func NewReadinessHandler(db *sql.DB, rdb *redis.Client) *ReadinessHandler {
	return &ReadinessHandler{db: db, rdb: rdb}
}

// Readiness reports whether dependencies are reachable.
func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := map[string]string{"database": "ok"}

	if err := h.db.PingContext(ctx); err != nil {
		deps["database"] = "unreachable"
		return c.JSON(http.StatusServiceUnavailable, deps)
	}

	if h.rdb != nil {
		deps["redis"] = "ok"
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			deps["redis"] = "unreachable"
			return c.JSON(http.StatusServiceUnavailable, deps)
		}
	}

	return c.JSON(http.StatusOK, deps)
}
