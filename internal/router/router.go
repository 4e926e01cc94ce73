// Package router registers the application's HTTP routes.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/portapro/portapro-api/internal/config"
	"github.com/portapro/portapro-api/internal/handler"
	"github.com/portapro/portapro-api/internal/middleware"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Projects *handler.ProjectHandler
}

// Register mounts all routes. The public auth endpoints sit behind the rate
// limiter; everything under /v1/users and /v1/projects requires a valid
// session token.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	auth := e.Group("/v1/auth")
	auth.Use(middleware.RateLimit(rlCfg, rdb))
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/verify-email", h.Auth.VerifyEmail)
	auth.POST("/resend-confirmation", h.Auth.ResendConfirmation)
	auth.POST("/reset-password", h.Auth.StartPasswordReset)
	auth.POST("/reset-password/confirm", h.Auth.EndPasswordReset)

	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))

	v1.GET("/users/me", h.Users.Me)
	v1.PUT("/users/me", h.Users.Update)
	v1.DELETE("/users/me", h.Users.Delete)

	v1.POST("/projects", h.Projects.Create)
	v1.GET("/projects", h.Projects.List)
	v1.GET("/projects/:uid", h.Projects.Get)
	v1.PUT("/projects/:uid", h.Projects.Update)
	v1.DELETE("/projects/:uid", h.Projects.Delete)
	v1.POST("/projects/:uid/media", h.Projects.UploadMedia)
}
