package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/auth"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/models"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/services"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/pkg/logger"
)

type TaskHandlers struct {
	taskService *services.TaskService
	authService *auth.Service
}

func NewTaskHandlers(taskService *services.TaskService, authService *auth.Service) *TaskHandlers {
	return &TaskHandlers{
		taskService: taskService,
		authService: authService,
	}
}

func (h *TaskHandlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), &req, user.ID)
	if err != nil {
		logger.Error("Create task error: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromRequest(r, h.authService); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		logger.Error("List tasks error: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandlers) GetTask(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromRequest(r, h.authService); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := idFromPath(r)
	if err != nil {
		http.Error(w, "invalid task ID", http.StatusBadRequest)
		return
	}

	task, err := h.taskService.GetTask(r.Context(), taskID)
	if err != nil {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromRequest(r, h.authService); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := idFromPath(r)
	if err != nil {
		http.Error(w, "invalid task ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), taskID, &req)
	if err != nil {
		logger.Error("Update task error: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandlers) AssignTask(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := idFromPath(r)
	if err != nil {
		http.Error(w, "invalid task ID", http.StatusBadRequest)
		return
	}

	var req struct {
		UserID int `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	task, err := h.taskService.AssignTask(r.Context(), taskID, req.UserID, user.ID)
	if err != nil {
		logger.Error("Assign task error: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := idFromPath(r)
	if err != nil {
		http.Error(w, "invalid task ID", http.StatusBadRequest)
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), taskID, user); err != nil {
		logger.Error("Delete task error: %v", err)
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
