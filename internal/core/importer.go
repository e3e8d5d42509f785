package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sprintdesk/internal/store"
)

// ErrPersistence indicates the import transaction failed and was rolled
// back; no partial sprint/task set remains.
var ErrPersistence = errors.New("sprint import failed")

// PlanTx is one atomic sprint-plan import: every record created through it
// is either committed as a whole or discarded.
type PlanTx interface {
	CreateSprint(projectID, name, description string, startDate time.Time, endDate *time.Time) (*store.Sprint, error)
	CreateTask(task *store.Task) error
	Commit() error
	Rollback() error
}

// PlanStore opens import transactions.
type PlanStore interface {
	BeginImport(ctx context.Context) (PlanTx, error)
}

type ImportResult struct {
	Sprints []store.Sprint `json:"sprints"`
	Tasks   []store.Task   `json:"tasks"`
}

type SprintImporter struct {
	store PlanStore
}

func NewSprintImporter(db *store.SQLiteStore) *SprintImporter {
	return &SprintImporter{store: sqlitePlanStore{db: db}}
}

type sqlitePlanStore struct {
	db *store.SQLiteStore
}

func (s sqlitePlanStore) BeginImport(ctx context.Context) (PlanTx, error) {
	return s.db.BeginImport(ctx)
}

// Import materializes a validated draft into sprint and task records under
// projectID. Sprints are created first, in draft order, and a request-local
// map from SPRINT_REF_<1-based index> to the assigned sprint id is built
// before any task is created. A task whose symbolic reference is not in the
// map gets a null sprint id instead of failing the import; a storage error
// aborts the whole transaction.
func (imp *SprintImporter) Import(ctx context.Context, projectID string, draft *SprintPlanDraft) (*ImportResult, error) {
	tx, err := imp.store.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	result := &ImportResult{}
	refMap := make(map[string]string, len(draft.Sprints))

	for i, spec := range draft.Sprints {
		startDate := time.Now()
		if spec.StartDate != nil {
			startDate = *spec.StartDate
		}

		sprint, err := tx.CreateSprint(projectID, spec.Name, spec.Description, startDate, spec.EndDate)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		// The reference index is the sprint's position in the draft, not any
		// value inside the object.
		refMap[fmt.Sprintf("SPRINT_REF_%d", i+1)] = sprint.ID
		result.Sprints = append(result.Sprints, *sprint)
	}

	for _, spec := range draft.Sprints {
		for _, taskSpec := range spec.Tasks {
			var sprintID *string
			if id, ok := refMap[taskSpec.SprintReference]; ok {
				sprintID = &id
			}

			task := store.Task{
				ProjectID:     projectID,
				SprintID:      sprintID,
				Title:         taskSpec.Title,
				Description:   taskSpec.Description,
				Status:        taskSpec.Status,
				Priority:      taskSpec.Priority,
				Assignee:      taskSpec.Assignee,
				Deadline:      taskSpec.Deadline,
				EstimatedDays: taskSpec.EstimatedDays,
			}
			if err := tx.CreateTask(&task); err != nil {
				tx.Rollback()
				return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			result.Tasks = append(result.Tasks, task)
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return result, nil
}
