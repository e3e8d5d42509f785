package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// execer is satisfied by both *sql.DB and *sql.Tx so entity inserts can run
// standalone or inside an import transaction.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertSprint(e execer, projectID, name, description string, startDate time.Time, endDate *time.Time) (*Sprint, error) {
	sprintID := uuid.NewString()
	now := time.Now()

	_, err := e.Exec("INSERT INTO sprints (id, project_id, name, description, start_date, end_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		sprintID, projectID, name, description, startDate, endDate, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert sprint: %w", err)
	}
	return &Sprint{
		ID:          sprintID,
		ProjectID:   projectID,
		Name:        name,
		Description: description,
		StartDate:   startDate,
		EndDate:     endDate,
		CreatedAt:   now,
	}, nil
}

func (s *SQLiteStore) CreateSprint(projectID, name, description string, startDate time.Time, endDate *time.Time) (*Sprint, error) {
	return insertSprint(s.db, projectID, name, description, startDate, endDate)
}

func (s *SQLiteStore) GetSprintByID(sprintID string) (*Sprint, error) {
	var sp Sprint
	var endDate sql.NullTime
	err := s.db.QueryRow("SELECT id, project_id, name, description, start_date, end_date, created_at FROM sprints WHERE id = ?", sprintID).
		Scan(&sp.ID, &sp.ProjectID, &sp.Name, &sp.Description, &sp.StartDate, &endDate, &sp.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get sprint: %w", err)
	}
	if endDate.Valid {
		sp.EndDate = &endDate.Time
	}
	return &sp, nil
}

func (s *SQLiteStore) GetSprintsByProjectID(projectID string) ([]Sprint, error) {
	rows, err := s.db.Query("SELECT id, project_id, name, description, start_date, end_date, created_at FROM sprints WHERE project_id = ? ORDER BY start_date ASC, created_at ASC", projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sprints: %w", err)
	}
	defer rows.Close()

	var sprints []Sprint
	for rows.Next() {
		var sp Sprint
		var endDate sql.NullTime
		if err := rows.Scan(&sp.ID, &sp.ProjectID, &sp.Name, &sp.Description, &sp.StartDate, &endDate, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sprint row: %w", err)
		}
		if endDate.Valid {
			sp.EndDate = &endDate.Time
		}
		sprints = append(sprints, sp)
	}
	return sprints, nil
}

func (s *SQLiteStore) UpdateSprint(sp *Sprint) error {
	res, err := s.db.Exec("UPDATE sprints SET name = ?, description = ?, start_date = ?, end_date = ? WHERE id = ?",
		sp.Name, sp.Description, sp.StartDate, sp.EndDate, sp.ID)
	if err != nil {
		return fmt.Errorf("failed to update sprint: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("sprint not found")
	}
	return nil
}

// DeleteSprint removes the sprint; its tasks survive with sprint_id nulled
// by the FK ON DELETE SET NULL rule.
func (s *SQLiteStore) DeleteSprint(sprintID string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM sprints WHERE id = ?", sprintID)
	if err != nil {
		return false, fmt.Errorf("failed to delete sprint: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}
