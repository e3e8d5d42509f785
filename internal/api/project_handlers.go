package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *APIHandler) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Project name is required")
		return
	}

	project, err := h.dbStore.CreateProject(userID, req.Name, req.Description)
	if err != nil {
		log.Printf("Error creating project for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to create project")
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *APIHandler) ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	projects, err := h.dbStore.GetProjectsByUserID(userID)
	if err != nil {
		log.Printf("Error listing projects for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list projects")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *APIHandler) GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	projectID := chi.URLParam(r, "projectID")

	project, err := h.dbStore.GetProjectByID(projectID, userID)
	if err != nil {
		log.Printf("Error getting project %s for user %d: %v", projectID, userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get project")
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *APIHandler) UpdateProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	projectID := chi.URLParam(r, "projectID")

	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	project, err := h.dbStore.GetProjectByID(projectID, userID)
	if err != nil {
		log.Printf("Error getting project %s for user %d: %v", projectID, userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update project")
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}

	if err := h.dbStore.UpdateProject(project); err != nil {
		log.Printf("Error updating project %s: %v", projectID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update project")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *APIHandler) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	projectID := chi.URLParam(r, "projectID")

	deleted, err := h.dbStore.DeleteProject(projectID, userID)
	if err != nil {
		log.Printf("Error deleting project %s: %v", projectID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete project")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted"})
}
