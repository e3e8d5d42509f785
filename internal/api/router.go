package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes live under /api
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/register", apiHandler.RegisterHandler)
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			r.Route("/projects", func(r chi.Router) {
				r.Post("/", apiHandler.CreateProjectHandler)
				r.Get("/", apiHandler.ListProjectsHandler)
				r.Get("/{projectID}", apiHandler.GetProjectHandler)
				r.Put("/{projectID}", apiHandler.UpdateProjectHandler)
				r.Delete("/{projectID}", apiHandler.DeleteProjectHandler)
			})

			r.Route("/sprints", func(r chi.Router) {
				r.Post("/", apiHandler.CreateSprintHandler)
				r.Get("/project/{projectID}", apiHandler.ListSprintsHandler)
				r.Put("/{sprintID}", apiHandler.UpdateSprintHandler)
				r.Delete("/{sprintID}", apiHandler.DeleteSprintHandler)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", apiHandler.CreateTaskHandler)
				r.Get("/project/{projectID}", apiHandler.ListTasksHandler)
				r.Get("/board/{projectID}", apiHandler.GetBoardHandler)
				r.Put("/{taskID}", apiHandler.UpdateTaskHandler)
				r.Delete("/{taskID}", apiHandler.DeleteTaskHandler)
			})

			r.Route("/ai", func(r chi.Router) {
				r.Post("/chat", apiHandler.ChatHandler)
				r.Get("/chats", apiHandler.ListChatsHandler)
				r.Get("/chats/{threadID}", apiHandler.GetChatHandler)
				r.Delete("/chats/{threadID}", apiHandler.DeleteChatHandler)
				r.Post("/generate-sprint", apiHandler.GenerateSprintHandler)
				r.Post("/save-sprint", apiHandler.SaveSprintHandler)
			})

			r.Get("/events", apiHandler.EventsHandler)
		})
	})

	return r
}
