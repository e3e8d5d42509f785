package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePlan_MissingSprints(t *testing.T) {
	_, err := ValidatePlan(map[string]any{"kanban": []any{}})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSprintsArray)
}

func TestValidatePlan_SprintsNotAList(t *testing.T) {
	obj := map[string]any{"sprints": "not-a-list"}

	_, err := ValidatePlan(obj)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSprintsArray)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, obj, validationErr.Object)
}

func TestValidatePlan_TaskDefaults(t *testing.T) {
	draft, err := ValidatePlan(map[string]any{
		"sprints": []any{
			map[string]any{
				"tasks": []any{
					map[string]any{"title": "x"},
				},
			},
		},
	})

	require.NoError(t, err)
	require.Len(t, draft.Sprints, 1)

	sprint := draft.Sprints[0]
	assert.Equal(t, "", sprint.Name)
	assert.Equal(t, "", sprint.Description)
	assert.Nil(t, sprint.StartDate)

	require.Len(t, sprint.Tasks, 1)
	task := sprint.Tasks[0]
	assert.Equal(t, "x", task.Title)
	assert.Equal(t, "todo", task.Status)
	assert.Equal(t, "medium", task.Priority)
	assert.Nil(t, task.Assignee)
	assert.Nil(t, task.Deadline)
	assert.Nil(t, task.EstimatedDays)
}

func TestValidatePlan_FullSprint(t *testing.T) {
	draft, err := ValidatePlan(map[string]any{
		"sprints": []any{
			map[string]any{
				"name":        "Sprint 1",
				"description": "first sprint",
				"start_date":  "2025-01-01",
				"end_date":    "2025-01-10",
				"tasks": []any{
					map[string]any{
						"title":           "Build login",
						"description":     "JWT auth",
						"estimated_days":  float64(3),
						"status":          "in-progress",
						"sprintReference": "SPRINT_REF_1",
						"priority":        "high",
						"assignee":        "Jane",
						"deadline":        "2025-01-05",
					},
				},
			},
		},
	})

	require.NoError(t, err)
	require.Len(t, draft.Sprints, 1)

	sprint := draft.Sprints[0]
	assert.Equal(t, "Sprint 1", sprint.Name)
	require.NotNil(t, sprint.StartDate)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *sprint.StartDate)
	require.NotNil(t, sprint.EndDate)

	require.Len(t, sprint.Tasks, 1)
	task := sprint.Tasks[0]
	assert.Equal(t, "Build login", task.Title)
	assert.Equal(t, "in-progress", task.Status)
	assert.Equal(t, "high", task.Priority)
	assert.Equal(t, "SPRINT_REF_1", task.SprintReference)
	require.NotNil(t, task.EstimatedDays)
	assert.Equal(t, float64(3), *task.EstimatedDays)
	require.NotNil(t, task.Assignee)
	assert.Equal(t, "Jane", *task.Assignee)
	require.NotNil(t, task.Deadline)
}

func TestValidatePlan_InvalidEnumsFallBack(t *testing.T) {
	draft, err := ValidatePlan(map[string]any{
		"sprints": []any{
			map[string]any{
				"tasks": []any{
					map[string]any{"title": "x", "status": "blocked", "priority": "urgent"},
				},
			},
		},
	})

	require.NoError(t, err)
	task := draft.Sprints[0].Tasks[0]
	assert.Equal(t, "todo", task.Status)
	assert.Equal(t, "medium", task.Priority)
}

func TestValidatePlan_MalformedSprintKeepsPosition(t *testing.T) {
	// A junk element must still occupy its slot so SPRINT_REF indices of
	// later sprints stay aligned.
	draft, err := ValidatePlan(map[string]any{
		"sprints": []any{
			"garbage",
			map[string]any{"name": "Sprint 2"},
		},
	})

	require.NoError(t, err)
	require.Len(t, draft.Sprints, 2)
	assert.Equal(t, "", draft.Sprints[0].Name)
	assert.Equal(t, "Sprint 2", draft.Sprints[1].Name)
}

func TestValidatePlan_CamelCaseDateKeys(t *testing.T) {
	draft, err := ValidatePlan(map[string]any{
		"sprints": []any{
			map[string]any{"name": "s", "startDate": "2025-02-01", "endDate": "2025-02-14"},
		},
	})

	require.NoError(t, err)
	assert.NotNil(t, draft.Sprints[0].StartDate)
	assert.NotNil(t, draft.Sprints[0].EndDate)
}
