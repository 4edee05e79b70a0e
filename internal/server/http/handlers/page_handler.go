package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler serves static pages and the health probe.
type PageHandler struct {
	health HealthFacade
	logger *slog.Logger
}

// NewPageHandler creates PageHandler instance.
func NewPageHandler(health HealthFacade, logger *slog.Logger) *PageHandler {
	return &PageHandler{health: health, logger: logger}
}

// Home handles GET /.
func (h *PageHandler) Home(c *gin.Context) {
	render(c, http.StatusOK, "home", gin.H{"Title": "Home"})
}

// NotFound renders the error page for unknown routes.
func (h *PageHandler) NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "error", gin.H{"Title": "Not found", "Message": "The page you requested does not exist."})
}

// Health handles GET /healthz.
func (h *PageHandler) Health(c *gin.Context) {
	if err := h.health.HealthCheck(c.Request.Context()); err != nil {
		h.logger.Warn("health check failed", slog.String("error", err.Error()))
		c.String(http.StatusServiceUnavailable, "unavailable")
		return
	}
	c.String(http.StatusOK, "ok")
}
