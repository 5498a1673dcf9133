// Package http provides the HTTP server for the travel gateway.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tripwise/gateway/internal/gateway"
	v1 "github.com/tripwise/gateway/internal/transport/http/v1"
)

// NewServer creates and configures the client-facing HTTP server.
func NewServer(gw *gateway.Gateway) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	handler := v1.NewHandler(gw)
	handler.RegisterRoutes(e)

	return e
}
