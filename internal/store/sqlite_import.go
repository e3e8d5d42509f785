package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ImportTx wraps a single SQL transaction for a sprint-plan import. All
// records created through it become visible atomically on Commit.
type ImportTx struct {
	tx *sql.Tx
}

func (s *SQLiteStore) BeginImport(ctx context.Context) (*ImportTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	return &ImportTx{tx: tx}, nil
}

func (t *ImportTx) CreateSprint(projectID, name, description string, startDate time.Time, endDate *time.Time) (*Sprint, error) {
	return insertSprint(t.tx, projectID, name, description, startDate, endDate)
}

func (t *ImportTx) CreateTask(task *Task) error {
	return insertTask(t.tx, task)
}

func (t *ImportTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

func (t *ImportTx) Rollback() error {
	return t.tx.Rollback()
}
