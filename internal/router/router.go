package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/handler"
	"github.com/iliyamo/cinema-booking/internal/middleware"
	"github.com/iliyamo/cinema-booking/internal/model"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance.  Currently it exposes only a health
// check, used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the /security endpoints: the open login,
// register and refresh operations plus the admin-only user
// back-office under /security/user.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/security")
	g.POST("/login", a.Login)
	g.POST("/register", a.Register)
	g.POST("/refresh", a.Refresh)

	// The user back-office requires a valid token carrying the admin
	// role.  Static /cleanup is registered alongside /:id; Echo
	// matches the static path first.
	admin := g.Group("/user", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin))
	admin.GET("", a.ListUsers)
	admin.GET("/:id", a.GetUser)
	admin.POST("", a.CreateUser)
	admin.PUT("/:id", a.UpdateUser)
	admin.DELETE("/cleanup", a.CleanupUsers)
	admin.DELETE("/:id", a.DeleteUser)
}
