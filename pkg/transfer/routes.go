package transfer

import (
	"github.com/labstack/echo/v4"

	"github.com/hauskeep/hauskeep/pkg/auth"
)

// RegisterRoutes mounts the transfer endpoints. Everything except the
// capability probe requires an authenticated local user; the cloud-side
// authentication on top of that is handled by the authenticate endpoint.
func RegisterRoutes(e *echo.Echo, orchestrator *Orchestrator, authMiddleware *auth.Middleware) {
	h := &handler{
		orchestrator: orchestrator,
	}

	g := e.Group("/transfer")
	g.GET("/available", h.available)

	authed := e.Group("/transfer", authMiddleware.Authenticate)
	authed.POST("/authenticate", h.authenticate)
	authed.GET("/summary", h.summary)
	authed.GET("/session", h.session)
	authed.POST("/start", h.start)
	authed.GET("/progress", h.progress)
	authed.POST("/cancel", h.cancel)
	authed.GET("/results", h.results)
}
