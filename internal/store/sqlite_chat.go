package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *SQLiteStore) CreateChatThread(userID int64, title string) (*ChatThread, error) {
	threadID := uuid.NewString()
	now := time.Now()

	_, err := s.db.Exec("INSERT INTO chat_threads (id, user_id, title, is_active, created_at) VALUES (?, ?, ?, TRUE, ?)",
		threadID, userID, title, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert chat thread: %w", err)
	}
	return &ChatThread{ID: threadID, UserID: userID, Title: title, IsActive: true, CreatedAt: now}, nil
}

// GetChatThreadByID returns the thread only when owned by userID. Inactive
// threads are still returned here; only listing filters them out.
func (s *SQLiteStore) GetChatThreadByID(threadID string, userID int64) (*ChatThread, error) {
	var th ChatThread
	err := s.db.QueryRow("SELECT id, user_id, title, is_active, created_at FROM chat_threads WHERE id = ? AND user_id = ?",
		threadID, userID).Scan(&th.ID, &th.UserID, &th.Title, &th.IsActive, &th.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get chat thread: %w", err)
	}
	return &th, nil
}

func (s *SQLiteStore) GetActiveChatThreadsByUserID(userID int64) ([]ChatThread, error) {
	rows, err := s.db.Query("SELECT id, user_id, title, is_active, created_at FROM chat_threads WHERE user_id = ? AND is_active = TRUE ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat threads: %w", err)
	}
	defer rows.Close()

	var threads []ChatThread
	for rows.Next() {
		var th ChatThread
		if err := rows.Scan(&th.ID, &th.UserID, &th.Title, &th.IsActive, &th.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat thread row: %w", err)
		}
		threads = append(threads, th)
	}
	return threads, nil
}

// DeactivateChatThread soft-deletes a thread. Rows stay in place so direct
// fetches by id keep working.
func (s *SQLiteStore) DeactivateChatThread(threadID string, userID int64) (bool, error) {
	res, err := s.db.Exec("UPDATE chat_threads SET is_active = FALSE WHERE id = ? AND user_id = ?", threadID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate chat thread: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (s *SQLiteStore) CreateChatMessage(msg *ChatMessage) error {
	msg.ID = uuid.NewString()
	msg.Timestamp = time.Now()
	if msg.Type == "" {
		msg.Type = "message"
	}

	_, err := s.db.Exec("INSERT INTO chat_messages (id, thread_id, prompt, response, type, language, is_user_message, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		msg.ID, msg.ThreadID, msg.Prompt, msg.Response, msg.Type, msg.Language, msg.IsUserMessage, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetMessagesByThreadID(threadID string) ([]ChatMessage, error) {
	// rowid breaks timestamp ties so insertion order is preserved.
	rows, err := s.db.Query("SELECT id, thread_id, prompt, response, type, language, is_user_message, timestamp FROM chat_messages WHERE thread_id = ? ORDER BY timestamp ASC, rowid ASC", threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var msg ChatMessage
		var language sql.NullString
		if err := rows.Scan(&msg.ID, &msg.ThreadID, &msg.Prompt, &msg.Response, &msg.Type, &language, &msg.IsUserMessage, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan chat message row: %w", err)
		}
		if language.Valid {
			msg.Language = &language.String
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
