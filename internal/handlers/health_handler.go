package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"seatshare/internal/utils"
	"seatshare/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	version string
	checks  map[string]HealthCheck
	timeout time.Duration
	logger  *logger.Logger
}

func NewHealthHandler(version string, checks map[string]HealthCheck, logger *logger.Logger) *HealthHandler {
	if checks == nil {
		checks = make(map[string]HealthCheck)
	}
	return &HealthHandler{
		version: version,
		checks:  checks,
		timeout: 3 * time.Second,
		logger:  logger,
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "healthy"
	dependencies := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.WithError(err).WithField("dependency", name).Warn("Health check failed")
			dependencies[name] = "down"
			status = "degraded"
			continue
		}
		dependencies[name] = "up"
	}

	data := gin.H{
		"status":       status,
		"version":      h.version,
		"dependencies": dependencies,
	}

	if status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, utils.APIResponse{Success: false, Message: "Service degraded", Data: data})
		return
	}
	utils.SuccessResponse(c, "OK", data)
}
