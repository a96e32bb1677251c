package main

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"todostack-backend/internal/api"
	"todostack-backend/internal/auth"
	"todostack-backend/internal/config"
	"todostack-backend/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	log.Printf("Initializing database at %s", cfg.DBPath)
	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Repositories
	userRepo := database.NewUserRepo(db)
	sessionRepo := database.NewSessionRepo(db)
	todoRepo := database.NewTodoRepo(db)

	// Auth components, wired explicitly
	hasher, err := auth.NewHasher(cfg.AuthSecretKey)
	if err != nil {
		log.Fatalf("Failed to initialize hasher: %v", err)
	}
	codec, err := auth.NewTokenCodec(cfg.JWTSecret, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize token codec: %v", err)
	}
	limiter := auth.DefaultRateLimiter()
	authSvc := auth.NewService(userRepo, sessionRepo, hasher, codec, limiter)

	// Sweep expired sessions periodically so dead rows do not pile up
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := sessionRepo.DeleteExpired(); err != nil {
				log.Printf("Session cleanup failed: %v", err)
			} else if n > 0 {
				log.Printf("Removed %d expired sessions", n)
			}
		}
	}()

	// Handlers
	authHandlers := api.NewAuthHandlers(authSvc, cfg.Env)
	userHandlers := api.NewUserHandlers(userRepo, authSvc)
	todoHandlers := api.NewTodoHandlers(todoRepo)

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// API routes
	apiGroup := e.Group("/api")
	api.RegisterRoutes(apiGroup, authHandlers, userHandlers, todoHandlers, authSvc)

	log.Printf("Starting todostack backend on port %s (env %s)", cfg.Port, cfg.Env)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
