package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/mlm_backoffice/repositories"
)

// HealthController reports whether the backing services answer.
type HealthController struct {
	store repositories.Store
	redis *redis.Client
}

// NewHealthController accepts a nil redis client when revocation is kept in
// memory.
func NewHealthController(store repositories.Store, redisClient *redis.Client) *HealthController {
	return &HealthController{store: store, redis: redisClient}
}

func (hc *HealthController) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{"database": "ok"}
	healthy := true
	if err := hc.store.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if hc.redis != nil {
		checks["redis"] = "ok"
		if err := hc.redis.Ping(ctx).Err(); err != nil {
			// degraded, not down
			checks["redis"] = err.Error()
		}
	}

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unhealthy",
			"checks": checks,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"checks": checks,
	})
}
