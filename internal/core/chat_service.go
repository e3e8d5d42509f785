package core

import (
	"errors"
	"fmt"
	"strings"

	"sprintdesk/internal/store"
)

// ErrThreadNotFound indicates the thread does not exist or belongs to
// another user.
var ErrThreadNotFound = errors.New("chat thread not found")

const titleWordLimit = 5

// ChatTurn is one completed prompt/response exchange.
type ChatTurn struct {
	Thread       *store.ChatThread
	UserMessage  store.ChatMessage
	ModelMessage store.ChatMessage
	IsNewChat    bool
}

type ChatService struct {
	dbStore *store.SQLiteStore
}

func NewChatService(db *store.SQLiteStore) *ChatService {
	return &ChatService{dbStore: db}
}

// AppendTurn records one exchange on a thread: the user prompt first, then
// the classified AI answer, in that order. A nil or empty threadID starts a
// new thread titled from the prompt; a supplied one is re-verified against
// the requesting user on every call.
func (s *ChatService) AppendTurn(userID int64, prompt string, resp ClassifiedResponse, threadID *string) (*ChatTurn, error) {
	var thread *store.ChatThread
	isNew := false

	if threadID != nil && *threadID != "" {
		existing, err := s.dbStore.GetChatThreadByID(*threadID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load chat thread: %w", err)
		}
		if existing == nil {
			return nil, ErrThreadNotFound
		}
		thread = existing
	} else {
		created, err := s.dbStore.CreateChatThread(userID, titleFromPrompt(prompt))
		if err != nil {
			return nil, fmt.Errorf("failed to create chat thread: %w", err)
		}
		thread = created
		isNew = true
	}

	userMsg := store.ChatMessage{
		ThreadID:      thread.ID,
		Prompt:        prompt,
		Response:      prompt,
		Type:          KindMessage,
		IsUserMessage: true,
	}
	if err := s.dbStore.CreateChatMessage(&userMsg); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	modelMsg := store.ChatMessage{
		ThreadID:      thread.ID,
		Prompt:        prompt,
		Response:      resp.Text,
		Type:          resp.Kind,
		Language:      resp.Language,
		IsUserMessage: false,
	}
	if err := s.dbStore.CreateChatMessage(&modelMsg); err != nil {
		return nil, fmt.Errorf("failed to store model message: %w", err)
	}

	return &ChatTurn{
		Thread:       thread,
		UserMessage:  userMsg,
		ModelMessage: modelMsg,
		IsNewChat:    isNew,
	}, nil
}

func (s *ChatService) ListThreads(userID int64) ([]store.ChatThread, error) {
	return s.dbStore.GetActiveChatThreadsByUserID(userID)
}

// GetThread fetches a thread with its messages. Deactivated threads are
// still returned here; only listing hides them.
func (s *ChatService) GetThread(threadID string, userID int64) (*store.ChatThread, []store.ChatMessage, error) {
	thread, err := s.dbStore.GetChatThreadByID(threadID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get chat thread: %w", err)
	}
	if thread == nil {
		return nil, nil, ErrThreadNotFound
	}

	messages, err := s.dbStore.GetMessagesByThreadID(threadID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get thread messages: %w", err)
	}
	return thread, messages, nil
}

// Deactivate soft-deletes a thread; rows are kept.
func (s *ChatService) Deactivate(threadID string, userID int64) error {
	ok, err := s.dbStore.DeactivateChatThread(threadID, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate chat thread: %w", err)
	}
	if !ok {
		return ErrThreadNotFound
	}
	return nil
}

func titleFromPrompt(prompt string) string {
	words := strings.Fields(prompt)
	if len(words) == 0 {
		return "New chat"
	}
	if len(words) <= titleWordLimit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:titleWordLimit], " ") + "..."
}
