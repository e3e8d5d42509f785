package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingSprintsArray indicates the parsed object has no usable
// top-level sprints sequence.
var ErrMissingSprintsArray = errors.New("sprints array missing or not a list")

// ValidationError carries the offending parsed object for diagnostics.
type ValidationError struct {
	Reason error
	Object any
}

func (e *ValidationError) Error() string {
	return e.Reason.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// SprintPlanDraft is a parsed-but-unpersisted sprint plan. Sprint order is
// significant: symbolic references are resolved by position at import time.
type SprintPlanDraft struct {
	Sprints []SprintSpec
}

type SprintSpec struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Tasks       []TaskSpec
}

type TaskSpec struct {
	Title           string
	Description     string
	EstimatedDays   *float64
	Status          string
	SprintReference string
	Priority        string
	Assignee        *string
	Deadline        *time.Time
}

// ValidatePlan checks that obj has the expected sprint-plan shape and
// coerces it into a draft. Missing or malformed optional fields never fail
// validation; they fall back to documented defaults. Only an absent or
// non-sequence sprints key is fatal.
func ValidatePlan(obj map[string]any) (*SprintPlanDraft, error) {
	rawSprints, ok := obj["sprints"].([]any)
	if !ok {
		return nil, &ValidationError{Reason: ErrMissingSprintsArray, Object: obj}
	}

	draft := &SprintPlanDraft{Sprints: make([]SprintSpec, 0, len(rawSprints))}
	for _, rawSprint := range rawSprints {
		// A malformed element still occupies its position so that the
		// 1-based symbolic references of its siblings stay stable.
		fields, _ := rawSprint.(map[string]any)
		draft.Sprints = append(draft.Sprints, coerceSprintSpec(fields))
	}
	return draft, nil
}

func coerceSprintSpec(fields map[string]any) SprintSpec {
	spec := SprintSpec{
		Name:        asString(pick(fields, "name")),
		Description: asString(pick(fields, "description")),
		StartDate:   asDate(pick(fields, "start_date", "startDate")),
		EndDate:     asDate(pick(fields, "end_date", "endDate")),
	}

	rawTasks, _ := pick(fields, "tasks").([]any)
	for _, rawTask := range rawTasks {
		taskFields, _ := rawTask.(map[string]any)
		spec.Tasks = append(spec.Tasks, coerceTaskSpec(taskFields))
	}
	return spec
}

func coerceTaskSpec(fields map[string]any) TaskSpec {
	spec := TaskSpec{
		Title:           asString(pick(fields, "title")),
		Description:     asString(pick(fields, "description")),
		EstimatedDays:   asFloat(pick(fields, "estimated_days", "estimatedDays")),
		Status:          asString(pick(fields, "status")),
		SprintReference: asString(pick(fields, "sprintReference", "sprint_reference")),
		Priority:        asString(pick(fields, "priority")),
		Deadline:        asDate(pick(fields, "deadline")),
	}

	if assignee := asString(pick(fields, "assignee")); assignee != "" {
		spec.Assignee = &assignee
	}

	switch spec.Status {
	case "todo", "in-progress", "done":
	default:
		spec.Status = "todo"
	}
	switch spec.Priority {
	case "low", "medium", "high", "critical":
	default:
		spec.Priority = "medium"
	}
	return spec
}

func pick(fields map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := fields[key]; ok {
			return v
		}
	}
	return nil
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return fmt.Sprintf("%g", s)
	default:
		return ""
	}
}

func asFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		var f float64
		if _, err := fmt.Sscanf(n, "%g", &f); err == nil {
			return &f
		}
	}
	return nil
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func asDate(v any) *time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
