package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"exam-portal-service/internal/app"
	"exam-portal-service/internal/domain"
)

type startAttemptRequest struct {
	ExamID       string `json:"examId" validate:"required"`
	StudentName  string `json:"studentName" validate:"required"`
	StudentEmail string `json:"studentEmail" validate:"required,email"`
}

// attemptQuestion is a question as shown to the student: no correct-answer
// index leaves the server, the attempt session holds the key.
type attemptQuestion struct {
	QuestionText string   `json:"questionText"`
	Options      []string `json:"options"`
}

type startAttemptResponse struct {
	AttemptID string            `json:"attemptId"`
	ExamID    string            `json:"examId"`
	ExamName  string            `json:"examName"`
	TimeLimit int               `json:"timeLimit"`
	Questions []attemptQuestion `json:"questions"`
}

type answerRequest struct {
	Question int `json:"question"`
	Option   int `json:"option"`
}

type positionRequest struct {
	Question int `json:"question"`
}

func (h *Handler) startAttempt(w http.ResponseWriter, r *http.Request) {
	var req startAttemptRequest
	if !h.decode(w, r, &req) {
		return
	}
	attempt, err := h.service.StartAttempt(r.Context(), req.ExamID, app.Student{
		Name:  req.StudentName,
		Email: req.StudentEmail,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	exam := attempt.Exam()
	questions := make([]attemptQuestion, 0, len(exam.Questions))
	for _, q := range exam.Questions {
		questions = append(questions, attemptQuestion{QuestionText: q.Text, Options: q.Options})
	}
	writeJSON(w, http.StatusCreated, startAttemptResponse{
		AttemptID: attempt.ID(),
		ExamID:    exam.ID,
		ExamName:  exam.Name,
		TimeLimit: attempt.TimeLimit(),
		Questions: questions,
	})
}

func (h *Handler) answerAttempt(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !h.decode(w, r, &req) {
		return
	}
	attempt, err := h.service.GetAttempt(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := attempt.Select(req.Question, req.Option); err != nil {
		writeAttemptError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) moveAttempt(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if !h.decode(w, r, &req) {
		return
	}
	attempt, err := h.service.GetAttempt(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := attempt.Goto(req.Question); err != nil {
		writeAttemptError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) submitAttempt(w http.ResponseWriter, r *http.Request) {
	score, err := h.service.SubmitAttempt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

// writeAttemptError adds the conflict case for mutations against an already
// submitted attempt.
func writeAttemptError(w http.ResponseWriter, err error) {
	if err == domain.ErrAttemptSubmitted {
		writeJSON(w, http.StatusConflict, messageResponse{Message: err.Error()})
		return
	}
	writeError(w, err)
}
