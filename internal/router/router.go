package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/appointment-booking/internal/handler"    // request handlers
	"github.com/iliyamo/appointment-booking/internal/middleware" // JWT auth middleware
)

// Handlers groups everything the router wires up.
type Handlers struct {
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Providers     *handler.ProviderHandler
	Appointments  *handler.AppointmentHandler
	Notifications *handler.NotificationHandler
	Files         *handler.FileHandler
}

// Register wires all routes. Routes registered before the bearer
// middleware is attached (registration, sessions, health) are public;
// everything in the authenticated group requires a valid access
// token. cacheProviders optionally wraps GET /providers in the Redis
// response cache.
func Register(e *echo.Echo, h Handlers, jwtSecret string, cacheProviders echo.MiddlewareFunc) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Public routes: account creation and session handling happen
	// before any token exists.
	e.POST("/users", h.Auth.Register)
	e.POST("/sessions", h.Auth.Login)
	e.POST("/sessions/refresh", h.Auth.Refresh)

	// Everything below requires a bearer token.
	auth := e.Group("", middleware.JWTAuth(jwtSecret))

	auth.PUT("/users", h.Users.Update)

	// The cache wraps the handler only, so the bearer check still
	// runs on every request.
	if cacheProviders != nil {
		auth.GET("/providers", h.Providers.List, cacheProviders)
	} else {
		auth.GET("/providers", h.Providers.List)
	}
	auth.GET("/providers/:id/available", h.Providers.Available)
	auth.GET("/schedule", h.Providers.Schedule)

	auth.POST("/appointments", h.Appointments.Create)
	auth.GET("/appointments", h.Appointments.List)
	auth.DELETE("/appointments/:id", h.Appointments.Cancel)

	auth.GET("/notifications", h.Notifications.List)
	auth.PUT("/notifications/:id", h.Notifications.MarkRead)

	auth.POST("/files", h.Files.Upload)
}
