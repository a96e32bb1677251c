package api

import (
	"github.com/labstack/echo/v4"

	"todostack-backend/internal/auth"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api *echo.Group, authHandlers *AuthHandlers, userHandlers *UserHandlers, todoHandlers *TodoHandlers, authSvc *auth.Service) {
	// Health check (public)
	api.GET("/health", healthCheck)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandlers.Register)
	authGroup.POST("/login", authHandlers.Login)
	authGroup.POST("/logout", authHandlers.Logout)
	authGroup.POST("/validate-session", authHandlers.ValidateSession)
	authGroup.GET("/me", authHandlers.Me, auth.RequireAuth(authSvc))
	authGroup.POST("/update-password", authHandlers.UpdatePassword, auth.RequireAuth(authSvc))

	// Profile routes
	users := api.Group("/users")
	users.Use(auth.RequireAuth(authSvc))
	users.GET("/profile", userHandlers.GetProfile)
	users.PUT("/profile", userHandlers.UpdateProfile)

	// Todo routes
	todos := api.Group("/todos")
	todos.Use(auth.RequireAuth(authSvc))
	todos.GET("", todoHandlers.List)
	todos.POST("", todoHandlers.Create)
	todos.GET("/:id", todoHandlers.Get)
	todos.PUT("/:id", todoHandlers.Update)
	todos.DELETE("/:id", todoHandlers.Delete)
}
