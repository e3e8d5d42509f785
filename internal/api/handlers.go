package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sprintdesk/internal/auth"
	"sprintdesk/internal/broadcast"
	"sprintdesk/internal/core"
	"sprintdesk/internal/store"
)

type APIHandler struct {
	dbStore     *store.SQLiteStore
	chatService *core.ChatService
	importer    *core.SprintImporter
	completer   core.Completer
	hub         *broadcast.Hub
}

func NewAPIHandler(db *store.SQLiteStore, cs *core.ChatService, imp *core.SprintImporter, completer core.Completer, hub *broadcast.Hub) *APIHandler {
	return &APIHandler{
		dbStore:     db,
		chatService: cs,
		importer:    imp,
		completer:   completer,
		hub:         hub,
	}
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		subject, err := auth.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		userID, err := strconv.ParseInt(subject, 10, 64)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		user, err := h.dbStore.GetUserByID(userID)
		if err != nil {
			log.Printf("Error in JWTAuthMiddleware for user %d: %v", userID, err)
			http.Error(w, "Failed to process user identity", http.StatusInternalServerError)
			return
		}
		if user == nil {
			http.Error(w, "User not found", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type contextKey string

const userIDKey contextKey = "userID"

func requestUserID(r *http.Request) int64 {
	return r.Context().Value(userIDKey).(int64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeErrorWithRaw surfaces the undigested AI text alongside the error so
// a human can inspect what the model actually produced.
func writeErrorWithRaw(w http.ResponseWriter, status int, message string, raw any) {
	writeJSON(w, status, map[string]any{"error": message, "raw": raw})
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
