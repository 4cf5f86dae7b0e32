package services

import (
	"context"
	"fmt"

	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/database"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/models"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/pkg/logger"
)

type TaskService struct {
	db database.Database
}

func NewTaskService(db database.Database) *TaskService {
	return &TaskService{db: db}
}

func (s *TaskService) CreateTask(ctx context.Context, req *models.CreateTaskRequest, creatorID int) (*models.Task, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("task title is required")
	}

	task, err := s.db.CreateTask(ctx, req, creatorID)
	if err != nil {
		return nil, err
	}

	if err := s.db.RecordActivity(ctx, creatorID, "task_created", task.Title); err != nil {
		logger.Error("Error recording task activity: %v", err)
	}
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, status string) ([]*models.Task, error) {
	if status != "" && !isValidTaskStatus(status) {
		return nil, fmt.Errorf("invalid status filter")
	}
	return s.db.ListTasks(ctx, status)
}

func (s *TaskService) GetTask(ctx context.Context, taskID int) (*models.Task, error) {
	return s.db.GetTaskByID(ctx, taskID)
}

func (s *TaskService) UpdateTask(ctx context.Context, taskID int, req *models.UpdateTaskRequest) (*models.Task, error) {
	if req.Status != "" && !isValidTaskStatus(req.Status) {
		return nil, fmt.Errorf("invalid status")
	}

	return s.db.UpdateTask(ctx, taskID, req)
}

func (s *TaskService) AssignTask(ctx context.Context, taskID, assigneeID, actorID int) (*models.Task, error) {
	// The assignee must exist.
	assignee, err := s.db.GetUserByID(ctx, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("assignee not found")
	}

	if err := s.db.AssignTask(ctx, taskID, assigneeID); err != nil {
		return nil, err
	}

	task, err := s.db.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.db.RecordActivity(ctx, actorID, "task_assigned", fmt.Sprintf("%s -> %s", task.Title, assignee.FullName)); err != nil {
		logger.Error("Error recording task activity: %v", err)
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID int, user *models.User) error {
	task, err := s.db.GetTaskByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("task not found")
	}

	if task.CreatedBy != user.ID && user.Role != "admin" {
		return fmt.Errorf("forbidden - not the task creator")
	}

	return s.db.DeleteTask(ctx, taskID)
}

func isValidTaskStatus(status string) bool {
	switch status {
	case models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusDone:
		return true
	}
	return false
}
