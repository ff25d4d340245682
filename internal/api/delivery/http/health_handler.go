package http

import (
	"context"
	"net/http"
	"time"

	"golang-stock-portfolio/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	checks map[string]HealthCheck
	logger *logger.Logger
}

// NewHealthHandler creates a HealthHandler running the named checks.
func NewHealthHandler(checks map[string]HealthCheck, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, logger: logger}
}

// Check godoc
// @Summary Health check
// @Description Report the status of the service and its dependencies
// @Tags health
// @Produce  json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	result := map[string]string{"status": "ok"}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.WarnContext(ctx, "Health check failed", logger.StringField("dependency", name), logger.ErrorField(err))
			result[name] = "down"
			result["status"] = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		result[name] = "up"
	}
	return c.JSON(status, result)
}
