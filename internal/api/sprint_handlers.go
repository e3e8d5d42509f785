package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sprintdesk/internal/store"
)

type CreateSprintRequest struct {
	ProjectID   string `json:"projectId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

func (h *APIHandler) CreateSprintHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	var req CreateSprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.ProjectID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "projectId and name are required")
		return
	}

	project, err := h.dbStore.GetProjectByID(req.ProjectID, userID)
	if err != nil {
		log.Printf("Error verifying project %s for user %d: %v", req.ProjectID, userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to create sprint")
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	startDate := time.Now()
	if parsed := parseDate(req.StartDate); parsed != nil {
		startDate = *parsed
	}

	sprint, err := h.dbStore.CreateSprint(req.ProjectID, req.Name, req.Description, startDate, parseDate(req.EndDate))
	if err != nil {
		log.Printf("Error creating sprint for project %s: %v", req.ProjectID, err)
		writeError(w, http.StatusInternalServerError, "Failed to create sprint")
		return
	}
	writeJSON(w, http.StatusCreated, sprint)
}

func (h *APIHandler) ListSprintsHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	projectID := chi.URLParam(r, "projectID")

	project, err := h.dbStore.GetProjectByID(projectID, userID)
	if err != nil {
		log.Printf("Error verifying project %s for user %d: %v", projectID, userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list sprints")
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	sprints, err := h.dbStore.GetSprintsByProjectID(projectID)
	if err != nil {
		log.Printf("Error listing sprints for project %s: %v", projectID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list sprints")
		return
	}
	writeJSON(w, http.StatusOK, sprints)
}

type UpdateSprintRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

// ownedSprint resolves a sprint and re-verifies that the requesting user
// owns its project.
func (h *APIHandler) ownedSprint(sprintID string, userID int64) (*store.Sprint, error) {
	sprint, err := h.dbStore.GetSprintByID(sprintID)
	if err != nil || sprint == nil {
		return nil, err
	}
	project, err := h.dbStore.GetProjectByID(sprint.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}
	return sprint, nil
}

func (h *APIHandler) UpdateSprintHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	sprintID := chi.URLParam(r, "sprintID")

	var req UpdateSprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sprint, err := h.ownedSprint(sprintID, userID)
	if err != nil {
		log.Printf("Error resolving sprint %s for user %d: %v", sprintID, userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update sprint")
		return
	}
	if sprint == nil {
		writeError(w, http.StatusNotFound, "Sprint not found")
		return
	}

	if req.Name != nil {
		sprint.Name = *req.Name
	}
	if req.Description != nil {
		sprint.Description = *req.Description
	}
	if req.StartDate != nil {
		if parsed := parseDate(*req.StartDate); parsed != nil {
			sprint.StartDate = *parsed
		}
	}
	if req.EndDate != nil {
		sprint.EndDate = parseDate(*req.EndDate)
	}

	if err := h.dbStore.UpdateSprint(sprint); err != nil {
		log.Printf("Error updating sprint %s: %v", sprintID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update sprint")
		return
	}
	writeJSON(w, http.StatusOK, sprint)
}

func (h *APIHandler) DeleteSprintHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	sprintID := chi.URLParam(r, "sprintID")

	sprint, err := h.ownedSprint(sprintID, userID)
	if err != nil {
		log.Printf("Error resolving sprint %s for user %d: %v", sprintID, userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete sprint")
		return
	}
	if sprint == nil {
		writeError(w, http.StatusNotFound, "Sprint not found")
		return
	}

	if _, err := h.dbStore.DeleteSprint(sprintID); err != nil {
		log.Printf("Error deleting sprint %s: %v", sprintID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete sprint")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Sprint deleted"})
}
