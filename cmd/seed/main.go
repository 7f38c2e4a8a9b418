package main

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskman/internal/config"
	"taskman/internal/db"
	"taskman/internal/model"
	"taskman/internal/repository"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "password123"
)

var demoTasks = []model.Task{
	{Title: "Write project proposal", Description: "Draft and share with the team", Status: model.TaskStatusInProgress},
	{Title: "Review pull requests", Status: model.TaskStatusPending},
	{Title: "Set up CI pipeline", Description: "Build and test on every push", Status: model.TaskStatusCompleted},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	user, err := userRepo.FindByEmail(ctx, demoEmail)
	if err == gorm.ErrRecordNotFound {
		hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
		if err != nil {
			log.Fatalf("Failed to hash demo password: %v", err)
		}
		user = &model.User{
			Name:         "Demo User",
			Email:        demoEmail,
			PasswordHash: string(hashed),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
		log.Printf("Created demo user %s", demoEmail)
	} else if err != nil {
		log.Fatalf("Failed to look up demo user: %v", err)
	} else {
		log.Printf("Demo user %s already exists", demoEmail)
	}

	existing, err := taskRepo.FindByOwner(ctx, user.ID)
	if err != nil {
		log.Fatalf("Failed to list demo tasks: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("Demo user already has %d tasks, nothing to do", len(existing))
		return
	}

	created := 0
	for _, task := range demoTasks {
		task.UserID = user.ID
		if err := taskRepo.Create(ctx, &task); err != nil {
			log.Fatalf("Failed to create task %q: %v", task.Title, err)
		}
		created++
	}
	log.Printf("Seed complete: %d tasks created for %s", created, demoEmail)
}
