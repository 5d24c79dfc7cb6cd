package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cardfolio-backend/internal/shared/middleware"
	"cardfolio-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		setupPublicRoutes(v1, c)
		setupOwnerRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// PUBLIC ROUTES (NO AUTH)
// ========================================
func setupPublicRoutes(v1 *gin.RouterGroup, c *container.Container) {
	c.FeedHandler.RegisterRoutes(v1)
}

// ========================================
// OWNER ROUTES (AUTH REQUIRED)
// ========================================
func setupOwnerRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authed := v1.Group("")
	authed.Use(middleware.Auth(c.JWTManager))
	{
		c.CardRequestHandler.RegisterRoutes(authed)
		c.BookmarkHandler.RegisterRoutes(authed)
		c.LikeHandler.RegisterRoutes(authed)
		c.PrintOrderHandler.RegisterRoutes(authed)
	}
}

// ========================================
// ADMIN ROUTES (AUTH + ADMIN ROLE)
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("")
	admin.Use(middleware.Auth(c.JWTManager), middleware.AdminOnly())
	{
		c.CardRequestHandler.RegisterAdminRoutes(admin)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			dbStatus = "down"
		}

		cacheStatus := "ok"
		if err := c.Cache.Ping(checkCtx); err != nil {
			cacheStatus = "down"
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status":   dbStatus,
			"database": dbStatus,
			"cache":    cacheStatus,
			"version":  c.Config.App.Version,
		})
	}
}
