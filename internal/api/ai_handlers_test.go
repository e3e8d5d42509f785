package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprintdesk/internal/broadcast"
	"sprintdesk/internal/core"
	"sprintdesk/internal/store"
	"sprintdesk/internal/testutil"
)

// fakeCompleter stands in for the LLM gateway.
type fakeCompleter struct {
	text string
	err  error
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string, opts core.GenerationOptions) (string, error) {
	return f.text, f.err
}

func newTestHandler(t *testing.T, completer core.Completer) (*APIHandler, *store.SQLiteStore, *store.User) {
	t.Helper()
	db := testutil.NewTestStore(t)
	user := testutil.NewTestUser(t, db, "api@example.com")

	h := NewAPIHandler(db, core.NewChatService(db), core.NewSprintImporter(db), completer, broadcast.NewHub())
	return h, db, user
}

// newAuthedRouter mounts the AI routes behind a middleware that injects the
// given user, sidestepping JWT mechanics.
func newAuthedRouter(h *APIHandler, userID int64) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), userIDKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/ai/chat", h.ChatHandler)
	r.Get("/ai/chats", h.ListChatsHandler)
	r.Get("/ai/chats/{threadID}", h.GetChatHandler)
	r.Delete("/ai/chats/{threadID}", h.DeleteChatHandler)
	r.Post("/ai/generate-sprint", h.GenerateSprintHandler)
	r.Post("/ai/save-sprint", h.SaveSprintHandler)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateSprint_RepairsNoisyCompletion(t *testing.T) {
	completion := "Here is your plan:\n{'sprints': [{'name': 'Sprint 1', 'tasks': [],}],}\nGood luck!"
	h, _, user := newTestHandler(t, &fakeCompleter{text: completion})
	router := newAuthedRouter(h, user.ID)

	rec := doJSON(t, router, http.MethodPost, "/ai/generate-sprint", map[string]string{
		"judulProject":     "Fitness tracker",
		"deskripsiProject": "A workout logging app",
		"deadlineProject":  "2025-06-01",
		"stackProject":     "Go, SQLite",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	project := resp["project"].(map[string]any)
	assert.Equal(t, "Fitness tracker", project["judul"])

	sprints := resp["sprints"].([]any)
	require.Len(t, sprints, 1)
	assert.Equal(t, "Sprint 1", sprints[0].(map[string]any)["name"])
}

func TestGenerateSprint_NoJSONSurfacesRaw(t *testing.T) {
	h, _, user := newTestHandler(t, &fakeCompleter{text: "I cannot produce a plan right now."})
	router := newAuthedRouter(h, user.ID)

	rec := doJSON(t, router, http.MethodPost, "/ai/generate-sprint", map[string]string{
		"judulProject":     "X",
		"deskripsiProject": "Y",
		"deadlineProject":  "Z",
		"stackProject":     "W",
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
	assert.Equal(t, "I cannot produce a plan right now.", resp["raw"])
}

func TestGenerateSprint_MissingFields(t *testing.T) {
	h, _, user := newTestHandler(t, &fakeCompleter{text: "{}"})
	router := newAuthedRouter(h, user.ID)

	rec := doJSON(t, router, http.MethodPost, "/ai/generate-sprint", map[string]string{
		"judulProject": "only a title",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateSprint_GatewayFailure(t *testing.T) {
	h, _, user := newTestHandler(t, &fakeCompleter{err: errors.New("upstream down")})
	router := newAuthedRouter(h, user.ID)

	rec := doJSON(t, router, http.MethodPost, "/ai/generate-sprint", map[string]string{
		"judulProject":     "X",
		"deskripsiProject": "Y",
		"deadlineProject":  "Z",
		"stackProject":     "W",
	})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSaveSprint_ImportsPlan(t *testing.T) {
	h, db, user := newTestHandler(t, &fakeCompleter{})
	project := testutil.NewTestProject(t, db, user.ID, "Save Target")
	router := newAuthedRouter(h, user.ID)

	rec := doJSON(t, router, http.MethodPost, "/ai/save-sprint", map[string]any{
		"projectId": project.ID,
		"sprints": []any{
			map[string]any{
				"name": "Sprint 1",
				"tasks": []any{
					map[string]any{"title": "in range", "sprintReference": "SPRINT_REF_1"},
					map[string]any{"title": "out of range", "sprintReference": "SPRINT_REF_99"},
				},
			},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Sprints []store.Sprint `json:"sprints"`
		Tasks   []store.Task   `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Sprints, 1)
	require.Len(t, resp.Tasks, 2)
	require.NotNil(t, resp.Tasks[0].SprintID)
	assert.Equal(t, resp.Sprints[0].ID, *resp.Tasks[0].SprintID)
	assert.Nil(t, resp.Tasks[1].SprintID)
	assert.Equal(t, "medium", resp.Tasks[1].Priority)
}

func TestSaveSprint_ForeignProjectRejected(t *testing.T) {
	h, db, user := newTestHandler(t, &fakeCompleter{})
	stranger := testutil.NewTestUser(t, db, "stranger@example.com")
	project := testutil.NewTestProject(t, db, stranger.ID, "Not Yours")
	router := newAuthedRouter(h, user.ID)

	rec := doJSON(t, router, http.MethodPost, "/ai/save-sprint", map[string]any{
		"projectId": project.ID,
		"sprints":   []any{},
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChat_NewThread(t *testing.T) {
	h, _, user := newTestHandler(t, &fakeCompleter{text: "```go\nfunc main() {}\n```"})
	router := newAuthedRouter(h, user.ID)

	rec := doJSON(t, router, http.MethodPost, "/ai/chat", map[string]any{
		"prompt": "write me a go main function",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsNewChat)
	assert.Equal(t, core.KindCode, resp.Type)
	require.NotNil(t, resp.Language)
	assert.Equal(t, "go", *resp.Language)
	assert.Equal(t, "write me a go main...", resp.Title)
	assert.NotEmpty(t, resp.ChatHistoryID)
	assert.NotEmpty(t, resp.MessageID)
}

func TestChat_UnknownThreadIs404(t *testing.T) {
	h, _, user := newTestHandler(t, &fakeCompleter{text: "hello"})
	router := newAuthedRouter(h, user.ID)

	missing := "does-not-exist"
	rec := doJSON(t, router, http.MethodPost, "/ai/chat", map[string]any{
		"prompt":        "continue please",
		"chatHistoryId": missing,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteChat_SoftDeleteKeepsDirectFetch(t *testing.T) {
	h, _, user := newTestHandler(t, &fakeCompleter{text: "sure"})
	router := newAuthedRouter(h, user.ID)

	created := doJSON(t, router, http.MethodPost, "/ai/chat", map[string]any{"prompt": "hello"})
	require.Equal(t, http.StatusOK, created.Code)

	var chat ChatResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &chat))

	deleted := doJSON(t, router, http.MethodDelete, "/ai/chats/"+chat.ChatHistoryID, nil)
	require.Equal(t, http.StatusOK, deleted.Code)

	listed := doJSON(t, router, http.MethodGet, "/ai/chats", nil)
	require.Equal(t, http.StatusOK, listed.Code)
	assert.JSONEq(t, "null", listed.Body.String())

	fetched := doJSON(t, router, http.MethodGet, "/ai/chats/"+chat.ChatHistoryID, nil)
	assert.Equal(t, http.StatusOK, fetched.Code)
}
