package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service readiness.
type HealthHandler struct {
	checker HealthChecker
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Ping handles GET /ping.
func (h *HealthHandler) Ping(c *gin.Context) {
	if err := h.checker.HealthCheck(c.Request.Context()); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusOK)
}
