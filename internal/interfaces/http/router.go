// Package http wires the gin router with the session handlers.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sessionapp "tienda/internal/application/session"
	"tienda/internal/infrastructure/config"
	"tienda/internal/interfaces/http/handlers"
	"tienda/internal/interfaces/http/middleware"
	"tienda/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine         *gin.Engine
	service        *sessionapp.Service
	logger         logger.Interface
	sessionHandler *handlers.SessionHandler
}

// NewRouter builds the router with middleware and session routes.
func NewRouter(cfg *config.Config, service *sessionapp.Service, log logger.Interface) *Router {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(log))

	router := &Router{
		engine:         engine,
		service:        service,
		logger:         log,
		sessionHandler: handlers.NewSessionHandler(service, log),
	}
	router.registerRoutes()
	return router
}

func (r *Router) registerRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.engine.Group("/api/v1")
	v1.Use(middleware.Identity())
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", r.sessionHandler.CreateSession)
			sessions.GET("", r.sessionHandler.ListSessions)
			sessions.GET("/stats", r.sessionHandler.GetStats)
			sessions.POST("/sync", r.sessionHandler.SyncSessions)
			sessions.POST("/cleanup", r.sessionHandler.CleanupSessions)
			sessions.POST("/invalidate_all", r.sessionHandler.InvalidateAllSessions)

			sessions.GET("/:id", r.sessionHandler.GetSession)
			sessions.GET("/:id/validate", r.sessionHandler.ValidateSession)
			sessions.POST("/:id/activity", r.sessionHandler.UpdateActivity)
			sessions.POST("/:id/invalidate", r.sessionHandler.InvalidateSession)
			sessions.POST("/:id/trust", r.sessionHandler.TrustDevice)
		}

		// Routes behind a live session; every request here validates the
		// caller's session and records an activity heartbeat.
		me := v1.Group("/me")
		me.Use(middleware.SessionActivity(r.service, r.logger))
		{
			me.GET("/session", r.sessionHandler.GetCurrentSession)
			me.GET("/sessions", r.sessionHandler.ListSessions)
		}
	}
}

// Engine exposes the underlying gin engine for the HTTP server.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
