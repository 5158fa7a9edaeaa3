package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"exam-portal-service/internal/app"
	"exam-portal-service/internal/domain"
)

// Handler serves the exam-portal REST surface.
type Handler struct {
	service    *app.Service
	validate   *validator.Validate
	adminEmail string
}

// NewHandler wires the REST handlers. adminEmail is the single recognized
// administrator identity; empty means the admin gate is open, matching the
// original system which had no server-side gate.
func NewHandler(service *app.Service, adminEmail string) *Handler {
	return &Handler{
		service:    service,
		validate:   validator.New(),
		adminEmail: adminEmail,
	}
}

type examRequest struct {
	Name      string            `json:"name" validate:"required"`
	Questions []domain.Question `json:"questions" validate:"required,min=1"`
}

type messageResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count,omitempty"`
}

func (h *Handler) listExams(w http.ResponseWriter, r *http.Request) {
	exams, err := h.service.ListExams(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exams)
}

func (h *Handler) createExam(w http.ResponseWriter, r *http.Request) {
	var req examRequest
	if !h.decode(w, r, &req) {
		return
	}
	exam, err := h.service.CreateExam(r.Context(), req.Name, req.Questions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, exam)
}

func (h *Handler) getExam(w http.ResponseWriter, r *http.Request) {
	exam, err := h.service.GetExam(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exam)
}

func (h *Handler) replaceExam(w http.ResponseWriter, r *http.Request) {
	var req examRequest
	if !h.decode(w, r, &req) {
		return
	}
	exam, err := h.service.ReplaceExam(r.Context(), chi.URLParam(r, "id"), req.Name, req.Questions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exam)
}

func (h *Handler) deleteExam(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteExam(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "exam and associated results deleted"})
}

func (h *Handler) submitResult(w http.ResponseWriter, r *http.Request) {
	var sub app.ResultSubmission
	if !h.decode(w, r, &sub) {
		return
	}
	result, err := h.service.SubmitResult(r.Context(), chi.URLParam(r, "id"), sub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.Leaderboard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *Handler) resetResults(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.ResetResults(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "all results deleted", Count: count})
}

func (h *Handler) studentResults(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.service.StudentHistory(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}

// requireAdmin gates mutating catalog routes on the configured administrator
// email, carried in the X-Admin-Email header.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.adminEmail != "" && r.Header.Get("X-Admin-Email") != h.adminEmail {
			writeJSON(w, http.StatusForbidden, messageResponse{Message: "administrator access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid JSON body"})
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
	case domain.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, messageResponse{Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: err.Error()})
	}
}
