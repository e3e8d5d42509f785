package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sprintdesk/internal/core"
)

type ChatRequest struct {
	Prompt        string                 `json:"prompt"`
	Options       core.GenerationOptions `json:"options"`
	ChatHistoryID *string                `json:"chatHistoryId"`
}

type ChatResponse struct {
	Result        string  `json:"result"`
	Type          string  `json:"type"`
	Language      *string `json:"language"`
	Title         string  `json:"title"`
	ChatHistoryID string  `json:"chatHistoryId"`
	MessageID     string  `json:"messageId"`
	Timestamp     string  `json:"timestamp"`
	IsNewChat     bool    `json:"isNewChat"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt required")
		return
	}

	completion, err := h.completer.Complete(r.Context(), req.Prompt, req.Options)
	if err != nil {
		log.Printf("AI chat error for user %d: %v", userID, err)
		writeError(w, http.StatusBadGateway, "AI request failed")
		return
	}

	classified := core.Classify(completion)

	turn, err := h.chatService.AppendTurn(userID, req.Prompt, classified, req.ChatHistoryID)
	if err != nil {
		if errors.Is(err, core.ErrThreadNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found")
			return
		}
		log.Printf("Error appending chat turn for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to store chat")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Result:        classified.Text,
		Type:          classified.Kind,
		Language:      classified.Language,
		Title:         turn.Thread.Title,
		ChatHistoryID: turn.Thread.ID,
		MessageID:     turn.ModelMessage.ID,
		Timestamp:     turn.ModelMessage.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		IsNewChat:     turn.IsNewChat,
	})
}

func (h *APIHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	threads, err := h.chatService.ListThreads(userID)
	if err != nil {
		log.Printf("Error listing chats for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list chats")
		return
	}
	writeJSON(w, http.StatusOK, threads)
}

func (h *APIHandler) GetChatHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	threadID := chi.URLParam(r, "threadID")

	thread, messages, err := h.chatService.GetThread(threadID, userID)
	if err != nil {
		if errors.Is(err, core.ErrThreadNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found")
			return
		}
		log.Printf("Error getting chat %s for user %d: %v", threadID, userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get chat")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"chat":     thread,
		"messages": messages,
	})
}

func (h *APIHandler) DeleteChatHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	threadID := chi.URLParam(r, "threadID")

	if err := h.chatService.Deactivate(threadID, userID); err != nil {
		if errors.Is(err, core.ErrThreadNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found")
			return
		}
		log.Printf("Error deactivating chat %s for user %d: %v", threadID, userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete chat")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat deleted"})
}

type GenerateSprintRequest struct {
	JudulProject     string `json:"judulProject"`
	DeskripsiProject string `json:"deskripsiProject"`
	DeadlineProject  string `json:"deadlineProject"`
	StackProject     string `json:"stackProject"`
}

func (h *APIHandler) GenerateSprintHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	var req GenerateSprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.JudulProject == "" || req.DeskripsiProject == "" || req.DeadlineProject == "" || req.StackProject == "" {
		writeError(w, http.StatusBadRequest, "All input fields are required")
		return
	}

	prompt := core.BuildSprintPrompt(req.JudulProject, req.DeskripsiProject, req.DeadlineProject, req.StackProject)

	completion, err := h.completer.Complete(r.Context(), prompt, core.GenerationOptions{})
	if err != nil {
		log.Printf("Sprint generation gateway error for user %d: %v", userID, err)
		writeError(w, http.StatusBadGateway, "AI request failed")
		return
	}

	parsed, err := core.ExtractJSON(completion)
	if err != nil {
		var extractErr *core.ExtractionError
		if errors.As(err, &extractErr) {
			writeErrorWithRaw(w, http.StatusInternalServerError, extractErr.Reason.Error(), extractErr.Raw)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to parse AI output")
		return
	}

	// Shape check only; the raw sprint objects go back to the client so
	// they can be edited and submitted to save-sprint as-is.
	if _, err := core.ValidatePlan(parsed); err != nil {
		var validationErr *core.ValidationError
		if errors.As(err, &validationErr) {
			writeErrorWithRaw(w, http.StatusInternalServerError, validationErr.Reason.Error(), validationErr.Object)
			return
		}
		writeError(w, http.StatusInternalServerError, "Invalid sprint plan structure")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"project": map[string]string{
			"judul":     req.JudulProject,
			"deskripsi": req.DeskripsiProject,
			"deadline":  req.DeadlineProject,
			"stack":     req.StackProject,
		},
		"sprints": parsed["sprints"],
	})
}

type SaveSprintRequest struct {
	ProjectID string `json:"projectId"`
	Sprints   []any  `json:"sprints"`
}

func (h *APIHandler) SaveSprintHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	var req SaveSprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.ProjectID == "" || req.Sprints == nil {
		writeError(w, http.StatusBadRequest, "projectId and sprints are required")
		return
	}

	project, err := h.dbStore.GetProjectByID(req.ProjectID, userID)
	if err != nil {
		log.Printf("Error verifying project %s for user %d: %v", req.ProjectID, userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to save sprints")
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	draft, err := core.ValidatePlan(map[string]any{"sprints": req.Sprints})
	if err != nil {
		var validationErr *core.ValidationError
		if errors.As(err, &validationErr) {
			writeErrorWithRaw(w, http.StatusInternalServerError, validationErr.Reason.Error(), validationErr.Object)
			return
		}
		writeError(w, http.StatusInternalServerError, "Invalid sprint plan structure")
		return
	}

	result, err := h.importer.Import(r.Context(), req.ProjectID, draft)
	if err != nil {
		log.Printf("Sprint import failed for project %s: %v", req.ProjectID, err)
		writeError(w, http.StatusInternalServerError, "Failed to save sprints")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
