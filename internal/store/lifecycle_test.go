package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprintdesk/internal/store"
	"sprintdesk/internal/testutil"
)

// TestCascadeDelete_ProjectToSprintsAndTasks verifies that deleting a
// project removes its sprints and tasks.
func TestCascadeDelete_ProjectToSprintsAndTasks(t *testing.T) {
	db := testutil.NewTestStore(t)
	user := testutil.NewTestUser(t, db, "cascade@example.com")
	project := testutil.NewTestProject(t, db, user.ID, "CascadeProj")

	sprint, err := db.CreateSprint(project.ID, "Sprint 1", "", time.Now(), nil)
	require.NoError(t, err)

	task := store.Task{ProjectID: project.ID, SprintID: &sprint.ID, Title: "Task"}
	require.NoError(t, db.CreateTask(&task))

	deleted, err := db.DeleteProject(project.ID, user.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	gone, err := db.GetSprintByID(sprint.ID)
	require.NoError(t, err)
	assert.Nil(t, gone, "sprint should be cascade-deleted with its project")

	goneTask, err := db.GetTaskByID(task.ID)
	require.NoError(t, err)
	assert.Nil(t, goneTask, "task should be cascade-deleted with its project")
}

// TestDeleteSprint_NullsTaskReferences verifies the set-null rule: tasks
// outlive their sprint with the reference cleared.
func TestDeleteSprint_NullsTaskReferences(t *testing.T) {
	db := testutil.NewTestStore(t)
	user := testutil.NewTestUser(t, db, "setnull@example.com")
	project := testutil.NewTestProject(t, db, user.ID, "SetNullProj")

	sprint, err := db.CreateSprint(project.ID, "Doomed Sprint", "", time.Now(), nil)
	require.NoError(t, err)

	task := store.Task{ProjectID: project.ID, SprintID: &sprint.ID, Title: "Survivor"}
	require.NoError(t, db.CreateTask(&task))

	deleted, err := db.DeleteSprint(sprint.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	survivor, err := db.GetTaskByID(task.ID)
	require.NoError(t, err)
	require.NotNil(t, survivor)
	assert.Nil(t, survivor.SprintID)
}

func TestGetProjectByID_ScopedToOwner(t *testing.T) {
	db := testutil.NewTestStore(t)
	owner := testutil.NewTestUser(t, db, "owner2@example.com")
	other := testutil.NewTestUser(t, db, "other@example.com")
	project := testutil.NewTestProject(t, db, owner.ID, "Private")

	found, err := db.GetProjectByID(project.ID, owner.ID)
	require.NoError(t, err)
	assert.NotNil(t, found)

	hidden, err := db.GetProjectByID(project.ID, other.ID)
	require.NoError(t, err)
	assert.Nil(t, hidden, "ownership scoping must hide foreign projects")
}

func TestCreateTask_AppliesDefaults(t *testing.T) {
	db := testutil.NewTestStore(t)
	user := testutil.NewTestUser(t, db, "defaults@example.com")
	project := testutil.NewTestProject(t, db, user.ID, "DefaultsProj")

	task := store.Task{ProjectID: project.ID, Title: "bare"}
	require.NoError(t, db.CreateTask(&task))

	loaded, err := db.GetTaskByID(task.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, store.TaskStatusTodo, loaded.Status)
	assert.Equal(t, store.TaskPriorityMedium, loaded.Priority)
}

func TestDuplicateEmailRejected(t *testing.T) {
	db := testutil.NewTestStore(t)
	testutil.NewTestUser(t, db, "dup@example.com")

	_, err := db.CreateUser("second", "dup@example.com", "hash")
	assert.Error(t, err)
}
