package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(tracingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Group(func(r chi.Router) {
		r.Use(timeoutMiddleware(30 * time.Second))

		r.Get("/definitions/{term}", s.handleDefine)

		r.Route("/items", func(r chi.Router) {
			r.Post("/", s.handleCreateItem)
			r.Get("/", s.handleListItems)
			r.Get("/{id}", s.handleGetItem)
			r.Delete("/{id}", s.handleDeleteItem)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/due", s.handleDueSession)
			r.Get("/reports/daily", s.handleDailyReport)
			r.Get("/reports/overview", s.handleOverview)

			r.Route("/items/{itemID}", func(r chi.Router) {
				r.Post("/attempts", s.handleRecordAttempt)
				r.Get("/attempts", s.handleHistory)
				r.Post("/voice", s.handleVoiceAttempt)
				r.Get("/state", s.handleState)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusNotFound, errorBody{Error: errorDetail{Code: "NOT_FOUND", Message: "route not found"}})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusMethodNotAllowed, errorBody{Error: errorDetail{Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"}})
	})
	return r
}
