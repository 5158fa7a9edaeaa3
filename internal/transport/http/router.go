package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Router assembles the full HTTP surface: REST API, health check, and the
// websocket leaderboard feed.
func Router(h *Handler, ws *WSHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Admin-Email"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api/exams", func(r chi.Router) {
		r.Get("/", h.listExams)
		r.With(h.requireAdmin).Post("/", h.createExam)
		r.Get("/student/{email}/results", h.studentResults)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getExam)
			r.With(h.requireAdmin).Put("/", h.replaceExam)
			r.With(h.requireAdmin).Delete("/", h.deleteExam)
			r.Post("/results", h.submitResult)
			r.Get("/results", h.leaderboard)
			r.With(h.requireAdmin).Delete("/results", h.resetResults)
		})
	})

	r.Route("/api/attempts", func(r chi.Router) {
		r.Post("/", h.startAttempt)
		r.Put("/{id}/answer", h.answerAttempt)
		r.Put("/{id}/position", h.moveAttempt)
		r.Post("/{id}/submit", h.submitAttempt)
	})

	r.Get("/ws/leaderboard", ws.ServeWS)

	return r
}
