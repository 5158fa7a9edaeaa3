package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"exam-portal-service/internal/app"
	"exam-portal-service/internal/domain"
	"exam-portal-service/internal/infra/memory"
	transport "exam-portal-service/internal/transport/http"
)

const adminEmail = "admin@example.com"

func TestExamCatalogEndpoints(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	// Creating an exam requires the admin header.
	status, _ := doJSON(t, server, "POST", "/api/exams", "", examBody("Maths"))
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 without admin header, got %d", status)
	}

	var exam domain.Exam
	status, body := doJSON(t, server, "POST", "/api/exams", adminEmail, examBody("Maths"))
	if status != http.StatusCreated {
		t.Fatalf("create exam: %d %s", status, body)
	}
	mustDecode(t, body, &exam)
	if exam.ID == "" || exam.Name != "Maths" {
		t.Fatalf("unexpected exam: %+v", exam)
	}

	status, _ = doJSON(t, server, "POST", "/api/exams", adminEmail, map[string]any{
		"name": "Broken",
		"questions": []map[string]any{
			{"questionText": "q", "options": []string{"a", "b", "c"}, "correctAnswer": 0},
		},
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for three options, got %d", status)
	}

	status, _ = doJSON(t, server, "GET", "/api/exams/does-not-exist", "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown exam, got %d", status)
	}

	var exams []domain.Exam
	status, body = doJSON(t, server, "GET", "/api/exams", "", nil)
	if status != http.StatusOK {
		t.Fatalf("list exams: %d", status)
	}
	mustDecode(t, body, &exams)
	if len(exams) != 1 {
		t.Fatalf("expected one exam, got %d", len(exams))
	}

	status, _ = doJSON(t, server, "DELETE", "/api/exams/"+exam.ID, adminEmail, nil)
	if status != http.StatusOK {
		t.Fatalf("delete exam: %d", status)
	}
	status, _ = doJSON(t, server, "GET", "/api/exams/"+exam.ID, "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
}

func TestResultSubmissionAndLeaderboard(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	var exam domain.Exam
	_, body := doJSON(t, server, "POST", "/api/exams", adminEmail, examBody("Maths"))
	mustDecode(t, body, &exam)

	status, _ := doJSON(t, server, "POST", "/api/exams/does-not-exist/results", "", resultBody("X", "x@example.com", exam, 2, 120))
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown exam, got %d", status)
	}

	status, _ = doJSON(t, server, "POST", "/api/exams/"+exam.ID+"/results", "", map[string]any{
		"studentEmail": "x@example.com",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", status)
	}

	status, body = doJSON(t, server, "POST", "/api/exams/"+exam.ID+"/results", "", resultBody("X", "x@example.com", exam, 1, 120))
	if status != http.StatusCreated {
		t.Fatalf("submit: %d %s", status, body)
	}
	var created domain.Result
	mustDecode(t, body, &created)
	if created.Score != 1 || created.Percentage != 50 {
		t.Fatalf("expected server-computed 1/2 at 50%%, got %+v", created)
	}

	if status, _ = doJSON(t, server, "POST", "/api/exams/"+exam.ID+"/results", "", resultBody("Y", "y@example.com", exam, 1, 90)); status != http.StatusCreated {
		t.Fatalf("submit y: %d", status)
	}

	var board []domain.Result
	status, body = doJSON(t, server, "GET", "/api/exams/"+exam.ID+"/results", "", nil)
	if status != http.StatusOK {
		t.Fatalf("leaderboard: %d", status)
	}
	mustDecode(t, body, &board)
	if len(board) != 2 || board[0].StudentName != "Y" {
		t.Fatalf("expected Y leading on time, got %+v", board)
	}

	var ranked []domain.RankedResult
	status, body = doJSON(t, server, "GET", "/api/exams/student/x@example.com/results", "", nil)
	if status != http.StatusOK {
		t.Fatalf("student history: %d", status)
	}
	mustDecode(t, body, &ranked)
	if len(ranked) != 1 || ranked[0].Rank != 2 || ranked[0].TotalParticipants != 2 {
		t.Fatalf("expected rank 2 of 2, got %+v", ranked)
	}

	var reset struct {
		Count int64 `json:"count"`
	}
	status, body = doJSON(t, server, "DELETE", "/api/exams/"+exam.ID+"/results", adminEmail, nil)
	if status != http.StatusOK {
		t.Fatalf("reset: %d", status)
	}
	mustDecode(t, body, &reset)
	if reset.Count != 2 {
		t.Fatalf("expected 2 deleted, got %d", reset.Count)
	}
}

func TestAttemptEndpoints(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	var exam domain.Exam
	_, body := doJSON(t, server, "POST", "/api/exams", adminEmail, examBody("Maths"))
	mustDecode(t, body, &exam)

	var started struct {
		AttemptID string `json:"attemptId"`
		TimeLimit int    `json:"timeLimit"`
		Questions []struct {
			QuestionText string   `json:"questionText"`
			Options      []string `json:"options"`
		} `json:"questions"`
	}
	status, body := doJSON(t, server, "POST", "/api/attempts", "", map[string]any{
		"examId":       exam.ID,
		"studentName":  "Alice",
		"studentEmail": "alice@example.com",
	})
	if status != http.StatusCreated {
		t.Fatalf("start attempt: %d %s", status, body)
	}
	mustDecode(t, body, &started)
	if started.TimeLimit != 2*domain.SecondsPerQuestion {
		t.Fatalf("expected 120s budget, got %d", started.TimeLimit)
	}
	if len(started.Questions) != 2 {
		t.Fatalf("expected question list, got %+v", started.Questions)
	}
	raw, _ := json.Marshal(started.Questions)
	if bytes.Contains(raw, []byte("correctAnswer")) {
		t.Fatalf("answer key leaked to client: %s", raw)
	}

	if status, _ = doJSON(t, server, "PUT", "/api/attempts/"+started.AttemptID+"/answer", "", map[string]int{"question": 0, "option": 1}); status != http.StatusNoContent {
		t.Fatalf("answer: %d", status)
	}
	if status, _ = doJSON(t, server, "PUT", "/api/attempts/"+started.AttemptID+"/position", "", map[string]int{"question": 1}); status != http.StatusNoContent {
		t.Fatalf("position: %d", status)
	}

	var score domain.ScoreResult
	status, body = doJSON(t, server, "POST", "/api/attempts/"+started.AttemptID+"/submit", "", nil)
	if status != http.StatusOK {
		t.Fatalf("submit: %d", status)
	}
	mustDecode(t, body, &score)
	if score.Correct != 1 || score.Total != 2 {
		t.Fatalf("expected 1/2, got %+v", score)
	}

	// Submit is idempotent; further mutations conflict.
	if status, _ = doJSON(t, server, "POST", "/api/attempts/"+started.AttemptID+"/submit", "", nil); status != http.StatusOK {
		t.Fatalf("repeat submit: %d", status)
	}
	if status, _ = doJSON(t, server, "PUT", "/api/attempts/"+started.AttemptID+"/answer", "", map[string]int{"question": 0, "option": 0}); status != http.StatusConflict {
		t.Fatalf("expected 409 after submit, got %d", status)
	}

	if status, _ = doJSON(t, server, "POST", "/api/attempts/missing/submit", "", nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown attempt, got %d", status)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	service := app.NewService(memory.NewExamStore(), memory.NewResultStore(), memory.NewAttemptStore(), nil)
	handler := transport.NewHandler(service, adminEmail)
	return httptest.NewServer(transport.Router(handler, transport.NewWSHandler(service)))
}

func doJSON(t *testing.T, server *httptest.Server, method, path, admin string, payload any) (int, []byte) {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if admin != "" {
		req.Header.Set("X-Admin-Email", admin)
	}

	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, buf.Bytes()
}

func mustDecode(t *testing.T, data []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
}

// examBody builds a two-question exam payload; the correct answers are
// indexes 1 and 2.
func examBody(name string) map[string]any {
	return map[string]any{
		"name": name,
		"questions": []map[string]any{
			{"questionText": "What is 2 + 2?", "options": []string{"3", "4", "5", "6"}, "correctAnswer": 1},
			{"questionText": "What is 3 x 3?", "options": []string{"6", "8", "9", "12"}, "correctAnswer": 2},
		},
	}
}

// resultBody answers the first `correct` questions right and the rest wrong.
func resultBody(name, email string, exam domain.Exam, correct, timeTaken int) map[string]any {
	answers := make([]map[string]any, 0, len(exam.Questions))
	for i, q := range exam.Questions {
		idx := q.CorrectAnswer
		if i >= correct {
			idx = (q.CorrectAnswer + 1) % len(q.Options)
		}
		answers = append(answers, map[string]any{"userAnswer": q.Options[idx]})
	}
	return map[string]any{
		"studentName":    name,
		"studentEmail":   email,
		"score":          0,
		"totalQuestions": len(exam.Questions),
		"percentage":     0,
		"timeTaken":      timeTaken,
		"answers":        answers,
	}
}
