// Package v1 provides the HTTP handlers for the travel gateway.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tripwise/gateway/internal/gateway"
)

// Handler handles HTTP requests.
type Handler struct {
	gateway *gateway.Gateway
}

// NewHandler creates a new handler.
func NewHandler(gw *gateway.Gateway) *Handler {
	return &Handler{gateway: gw}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/start_session", h.StartSession)
	e.POST("/send_message", h.SendMessage)
	e.GET("/v1/sessions/:session_id/turns", h.GetSessionTurns)
	e.GET("/health", h.Health)
}

// Health returns health status plus reasoning-engine reachability.
// GET /health
func (h *Handler) Health(c echo.Context) error {
	status, dependency := h.gateway.Health(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": status,
		"dependencies": map[string]string{
			"reasoning_engine": dependency,
		},
	})
}
