package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskman/internal/errors"
	"taskman/internal/model"
	"taskman/internal/repository"
)

// UpdateTaskInput carries the updatable task fields. An empty string means
// "not provided": the stored value is kept. A title can therefore never be
// cleared to empty through an update.
type UpdateTaskInput struct {
	Title       string
	Description string
	Status      string
}

// TaskService handles task operations on behalf of an authenticated owner.
type TaskService interface {
	Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*model.Task, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error)
	Update(ctx context.Context, ownerID, taskID uuid.UUID, in UpdateTaskInput) (*model.Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
}

type taskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository) TaskService {
	return &taskService{taskRepo: taskRepo}
}

// Create stores a new task owned by ownerID. Description defaults to empty,
// status to pending.
func (s *taskService) Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*model.Task, error) {
	task := &model.Task{
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Status:      model.TaskStatusPending,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// List returns all tasks owned by ownerID.
func (s *taskService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	tasks, err := s.taskRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update overwrites the provided non-empty fields of an owned task.
func (s *taskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, in UpdateTaskInput) (*model.Task, error) {
	task, err := s.findOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		task.Title = in.Title
	}
	if in.Description != "" {
		task.Description = in.Description
	}
	if in.Status != "" {
		status := model.TaskStatus(in.Status)
		if !status.Valid() {
			return nil, errors.ErrInvalidTaskStatus
		}
		task.Status = status
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Delete removes an owned task.
func (s *taskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if _, err := s.findOwned(ctx, ownerID, taskID); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// findOwned loads a task and checks ownership. A missing task and a task
// owned by someone else return the same error so that other users' task ids
// are not discoverable.
func (s *taskService) findOwned(ctx context.Context, ownerID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task.UserID != ownerID {
		return nil, errors.ErrTaskNotFound
	}
	return task, nil
}
