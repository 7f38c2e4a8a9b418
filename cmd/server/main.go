package main

import (
	"log"
	"net/http"

	_ "taskman/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"taskman/internal/auth"
	"taskman/internal/cache"
	"taskman/internal/config"
	"taskman/internal/db"
	"taskman/internal/handler"
	"taskman/internal/model"
	"taskman/internal/repository"
	"taskman/internal/router"
	"taskman/internal/service"
)

// @title Task Management API
// @version 1.0
// @description Task management API with per-user tasks and JWT authentication.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations, users first so the task foreign key resolves
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Task{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(jwtService, userRepo, cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	taskService := service.NewTaskService(taskRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)

	// Register routes
	router.Register(e, authMiddleware, authHandler, taskHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
