package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *SQLiteStore) CreateProject(userID int64, name, description string) (*Project, error) {
	projectID := uuid.NewString()
	now := time.Now()

	_, err := s.db.Exec("INSERT INTO projects (id, user_id, name, description, created_at) VALUES (?, ?, ?, ?, ?)",
		projectID, userID, name, description, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}
	return &Project{ID: projectID, UserID: userID, Name: name, Description: description, CreatedAt: now}, nil
}

// GetProjectByID returns the project only when it is owned by userID.
func (s *SQLiteStore) GetProjectByID(projectID string, userID int64) (*Project, error) {
	var p Project
	err := s.db.QueryRow("SELECT id, user_id, name, description, created_at FROM projects WHERE id = ? AND user_id = ?",
		projectID, userID).Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

func (s *SQLiteStore) GetProjectsByUserID(userID int64) ([]Project, error) {
	rows, err := s.db.Query("SELECT id, user_id, name, description, created_at FROM projects WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (s *SQLiteStore) UpdateProject(p *Project) error {
	res, err := s.db.Exec("UPDATE projects SET name = ?, description = ? WHERE id = ? AND user_id = ?",
		p.Name, p.Description, p.ID, p.UserID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("project not found or not owned by user")
	}
	return nil
}

// DeleteProject removes the project; sprints and tasks go with it via FK cascade.
func (s *SQLiteStore) DeleteProject(projectID string, userID int64) (bool, error) {
	res, err := s.db.Exec("DELETE FROM projects WHERE id = ? AND user_id = ?", projectID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}
