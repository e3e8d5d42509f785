package store

import "time"

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusDone       = "done"
)

const (
	TaskPriorityLow      = "low"
	TaskPriorityMedium   = "medium"
	TaskPriorityHigh     = "high"
	TaskPriorityCritical = "critical"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

type Project struct {
	ID          string    `json:"id"` // UUID
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Sprint struct {
	ID          string     `json:"id"` // UUID
	ProjectID   string     `json:"project_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"` // Nullable
	CreatedAt   time.Time  `json:"created_at"`
}

type Task struct {
	ID            string     `json:"id"` // UUID
	ProjectID     string     `json:"project_id"`
	SprintID      *string    `json:"sprint_id"` // Nullable, cleared when the sprint is deleted
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`   // todo, in-progress, done
	Priority      string     `json:"priority"` // low, medium, high, critical
	Assignee      *string    `json:"assignee"`
	Deadline      *time.Time `json:"deadline"`
	EstimatedDays *float64   `json:"estimated_days"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ChatThread struct {
	ID        string    `json:"id"` // UUID
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatMessage struct {
	ID            string    `json:"id"` // UUID
	ThreadID      string    `json:"thread_id"`
	Prompt        string    `json:"prompt"`
	Response      string    `json:"response"`
	Type          string    `json:"type"` // code, message, mixed
	Language      *string   `json:"language"`
	IsUserMessage bool      `json:"is_user_message"`
	Timestamp     time.Time `json:"timestamp"`
}
