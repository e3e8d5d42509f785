package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sprintdesk/internal/broadcast"
	"sprintdesk/internal/store"
)

type CreateTaskRequest struct {
	ProjectID     string   `json:"projectId"`
	SprintID      *string  `json:"sprintId"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Status        string   `json:"status"`
	Priority      string   `json:"priority"`
	Assignee      *string  `json:"assignee"`
	Deadline      string   `json:"deadline"`
	EstimatedDays *float64 `json:"estimatedDays"`
}

func (h *APIHandler) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.ProjectID == "" || req.Title == "" {
		writeError(w, http.StatusBadRequest, "projectId and title are required")
		return
	}

	project, err := h.dbStore.GetProjectByID(req.ProjectID, userID)
	if err != nil {
		log.Printf("Error verifying project %s for user %d: %v", req.ProjectID, userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	// Sprint is optional, but a supplied id must exist.
	if req.SprintID != nil && *req.SprintID != "" {
		sprint, err := h.dbStore.GetSprintByID(*req.SprintID)
		if err != nil {
			log.Printf("Error verifying sprint %s: %v", *req.SprintID, err)
			writeError(w, http.StatusInternalServerError, "Failed to create task")
			return
		}
		if sprint == nil {
			writeError(w, http.StatusNotFound, "Sprint not found")
			return
		}
	} else {
		req.SprintID = nil
	}

	task := store.Task{
		ProjectID:     req.ProjectID,
		SprintID:      req.SprintID,
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		Assignee:      req.Assignee,
		Deadline:      parseDate(req.Deadline),
		EstimatedDays: req.EstimatedDays,
	}
	if err := h.dbStore.CreateTask(&task); err != nil {
		log.Printf("Error creating task for project %s: %v", req.ProjectID, err)
		writeError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *APIHandler) ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	projectID := chi.URLParam(r, "projectID")

	project, err := h.dbStore.GetProjectByID(projectID, userID)
	if err != nil {
		log.Printf("Error verifying project %s for user %d: %v", projectID, userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list tasks")
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	tasks, err := h.dbStore.GetTasksByProjectID(projectID)
	if err != nil {
		log.Printf("Error listing tasks for project %s: %v", projectID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *APIHandler) GetBoardHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	projectID := chi.URLParam(r, "projectID")

	project, err := h.dbStore.GetProjectByID(projectID, userID)
	if err != nil {
		log.Printf("Error verifying project %s for user %d: %v", projectID, userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get board")
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	tasks, err := h.dbStore.GetTasksByProjectID(projectID)
	if err != nil {
		log.Printf("Error loading tasks for project %s: %v", projectID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get board")
		return
	}
	writeJSON(w, http.StatusOK, broadcast.GroupTasksByStatus(tasks))
}

type UpdateTaskRequest struct {
	SprintID      *string  `json:"sprintId"`
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Status        *string  `json:"status"`
	Priority      *string  `json:"priority"`
	Assignee      *string  `json:"assignee"`
	Deadline      *string  `json:"deadline"`
	EstimatedDays *float64 `json:"estimatedDays"`
}

func (h *APIHandler) UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	taskID := chi.URLParam(r, "taskID")

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	task, err := h.dbStore.GetTaskByID(taskID)
	if err != nil {
		log.Printf("Error getting task %s: %v", taskID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update task")
		return
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	project, err := h.dbStore.GetProjectByID(task.ProjectID, userID)
	if err != nil {
		log.Printf("Error verifying project %s for user %d: %v", task.ProjectID, userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update task")
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	statusChanged := false
	if req.Status != nil && *req.Status != task.Status {
		task.Status = *req.Status
		statusChanged = true
	}
	if req.SprintID != nil {
		if *req.SprintID == "" {
			task.SprintID = nil
		} else {
			task.SprintID = req.SprintID
		}
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Assignee != nil {
		task.Assignee = req.Assignee
	}
	if req.Deadline != nil {
		task.Deadline = parseDate(*req.Deadline)
	}
	if req.EstimatedDays != nil {
		task.EstimatedDays = req.EstimatedDays
	}

	if err := h.dbStore.UpdateTask(task); err != nil {
		log.Printf("Error updating task %s: %v", taskID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update task")
		return
	}

	// Status changes fan the full grouped board out to connected clients.
	// The broadcast never blocks or fails this response.
	if statusChanged {
		h.publishBoard(task.ProjectID)
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Task updated", "task": task})
}

func (h *APIHandler) publishBoard(projectID string) {
	tasks, err := h.dbStore.GetTasksByProjectID(projectID)
	if err != nil {
		log.Printf("Error loading tasks for board broadcast, project %s: %v", projectID, err)
		return
	}
	h.hub.Publish(broadcast.BoardUpdate{
		ProjectID: projectID,
		Columns:   broadcast.GroupTasksByStatus(tasks),
	})
}

func (h *APIHandler) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	taskID := chi.URLParam(r, "taskID")

	task, err := h.dbStore.GetTaskByID(taskID)
	if err != nil {
		log.Printf("Error getting task %s: %v", taskID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete task")
		return
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	project, err := h.dbStore.GetProjectByID(task.ProjectID, userID)
	if err != nil || project == nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	if _, err := h.dbStore.DeleteTask(taskID); err != nil {
		log.Printf("Error deleting task %s: %v", taskID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete task")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}
