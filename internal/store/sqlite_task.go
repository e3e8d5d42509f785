package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func insertTask(e execer, t *Task) error {
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now()
	if t.Status == "" {
		t.Status = TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}

	_, err := e.Exec("INSERT INTO tasks (id, project_id, sprint_id, title, description, status, priority, assignee, deadline, estimated_days, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.ProjectID, t.SprintID, t.Title, t.Description, t.Status, t.Priority, t.Assignee, t.Deadline, t.EstimatedDays, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateTask(t *Task) error {
	return insertTask(s.db, t)
}

func scanTask(scan func(dest ...any) error) (*Task, error) {
	var t Task
	var sprintID sql.NullString
	var assignee sql.NullString
	var deadline sql.NullTime
	var estimatedDays sql.NullFloat64

	err := scan(&t.ID, &t.ProjectID, &sprintID, &t.Title, &t.Description, &t.Status, &t.Priority, &assignee, &deadline, &estimatedDays, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if sprintID.Valid {
		t.SprintID = &sprintID.String
	}
	if assignee.Valid {
		t.Assignee = &assignee.String
	}
	if deadline.Valid {
		t.Deadline = &deadline.Time
	}
	if estimatedDays.Valid {
		t.EstimatedDays = &estimatedDays.Float64
	}
	return &t, nil
}

const taskColumns = "id, project_id, sprint_id, title, description, status, priority, assignee, deadline, estimated_days, created_at"

func (s *SQLiteStore) GetTaskByID(taskID string) (*Task, error) {
	row := s.db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", taskID)
	task, err := scanTask(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (s *SQLiteStore) GetTasksByProjectID(projectID string) ([]Task, error) {
	rows, err := s.db.Query("SELECT "+taskColumns+" FROM tasks WHERE project_id = ? ORDER BY created_at ASC, rowid ASC", projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

func (s *SQLiteStore) UpdateTask(t *Task) error {
	res, err := s.db.Exec("UPDATE tasks SET sprint_id = ?, title = ?, description = ?, status = ?, priority = ?, assignee = ?, deadline = ?, estimated_days = ? WHERE id = ?",
		t.SprintID, t.Title, t.Description, t.Status, t.Priority, t.Assignee, t.Deadline, t.EstimatedDays, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("task not found")
	}
	return nil
}

func (s *SQLiteStore) DeleteTask(taskID string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", taskID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}
