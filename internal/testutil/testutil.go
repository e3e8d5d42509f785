package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"

	"sprintdesk/internal/store"
)

// NewTestStore opens a fresh in-memory SQLite store for one test.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	// A unique shared-cache name keeps each test isolated while letting the
	// connection pool see the same database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	s, err := store.NewSQLiteStore(dsn)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// NewTestUser creates a user with throwaway credentials.
func NewTestUser(t *testing.T, s *store.SQLiteStore, email string) *store.User {
	t.Helper()

	user, err := s.CreateUser("tester", email, "not-a-real-hash")
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// NewTestProject creates a project owned by userID.
func NewTestProject(t *testing.T, s *store.SQLiteStore, userID int64, name string) *store.Project {
	t.Helper()

	project, err := s.CreateProject(userID, name, "test project")
	if err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}
