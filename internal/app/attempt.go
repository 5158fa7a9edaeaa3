package app

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"exam-portal-service/internal/domain"
)

// AttemptStore holds in-progress attempt sessions.
type AttemptStore interface {
	Put(attempt *Attempt)
	Get(id string) (*Attempt, bool)
	Delete(id string)
}

// Student identifies who is taking an exam. Email is the sole identity key;
// no separate account entity exists.
type Student struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Attempt is one exam-taking session: a cursor over the questions, the
// collected answers, and a countdown that auto-submits at zero. State moves
// one way, InProgress to Submitted, and every mutation is serialized on the
// attempt's own mutex.
type Attempt struct {
	id      string
	exam    domain.Exam
	student Student
	now     func() time.Time

	mu           sync.Mutex
	startedAt    time.Time
	budget       int // seconds
	currentIndex int
	answers      map[int]int
	submitted    bool
	score        domain.ScoreResult
	elapsed      int
	timer        *time.Timer
}

func newAttempt(exam domain.Exam, student Student, budget int, now func() time.Time) *Attempt {
	return &Attempt{
		id:        uuid.NewString(),
		exam:      exam,
		student:   student,
		now:       now,
		startedAt: now(),
		budget:    budget,
		answers:   make(map[int]int),
	}
}

func (a *Attempt) ID() string        { return a.id }
func (a *Attempt) Exam() domain.Exam { return a.exam }
func (a *Attempt) Student() Student  { return a.student }
func (a *Attempt) TimeLimit() int    { return a.budget }

// TimeLeft reports the remaining seconds, never below zero.
func (a *Attempt) TimeLeft() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted {
		return 0
	}
	left := a.budget - int(a.now().Sub(a.startedAt).Seconds())
	if left < 0 {
		return 0
	}
	return left
}

// Submitted reports whether the attempt reached its terminal state.
func (a *Attempt) Submitted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.submitted
}

// CurrentIndex returns the question the cursor points at.
func (a *Attempt) CurrentIndex() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentIndex
}

// Select records an answer for a question, overwriting any prior selection.
// Re-answering is allowed freely until submission.
func (a *Attempt) Select(question, option int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted {
		return domain.ErrAttemptSubmitted
	}
	if question < 0 || question >= len(a.exam.Questions) {
		return domain.Invalid("question", "question index out of range")
	}
	if option < 0 || option >= domain.OptionCount {
		return domain.Invalid("option", "option index out of range")
	}
	a.answers[question] = option
	return nil
}

// Goto moves the cursor to any question index directly, without touching the
// collected answers.
func (a *Attempt) Goto(question int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted {
		return domain.ErrAttemptSubmitted
	}
	if question < 0 || question >= len(a.exam.Questions) {
		return domain.Invalid("question", "question index out of range")
	}
	a.currentIndex = question
	return nil
}

// finish transitions to Submitted exactly once and returns the score along
// with the clamped elapsed seconds. Repeat calls return the stored score with
// first=false. Timeout and manual submission share this path, so the stored
// result carries no distinction between them.
func (a *Attempt) finish() (score domain.ScoreResult, elapsed int, first bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted {
		return a.score, a.elapsed, false
	}
	a.elapsed = clampTime(int(a.now().Sub(a.startedAt).Seconds()), a.budget)
	a.score = Score(a.exam, a.answers)
	a.submitted = true
	if a.timer != nil {
		a.timer.Stop()
	}
	return a.score, a.elapsed, true
}

// StartAttempt opens a session for one student on one exam and arms the
// countdown. The budget is one fixed allowance per question.
func (s *Service) StartAttempt(ctx context.Context, examID string, student Student) (*Attempt, error) {
	if strings.TrimSpace(student.Name) == "" {
		return nil, domain.Invalid("studentName", "student name is required")
	}
	if strings.TrimSpace(student.Email) == "" {
		return nil, domain.Invalid("studentEmail", "student email is required")
	}

	exam, err := s.exams.Get(ctx, examID)
	if err != nil {
		return nil, err
	}

	student.Email = strings.ToLower(strings.TrimSpace(student.Email))
	student.Name = strings.TrimSpace(student.Name)
	attempt := newAttempt(exam, student, exam.TimeBudget(s.secondsPerQuestion), s.now)
	attempt.timer = time.AfterFunc(time.Duration(attempt.budget)*time.Second, func() {
		s.finishAttempt(context.Background(), attempt)
	})
	s.attempts.Put(attempt)
	return attempt, nil
}

// GetAttempt looks up an in-flight attempt session.
func (s *Service) GetAttempt(id string) (*Attempt, error) {
	attempt, ok := s.attempts.Get(id)
	if !ok {
		return nil, domain.ErrAttemptNotFound
	}
	return attempt, nil
}

// SubmitAttempt closes the session and returns its score. Idempotent:
// repeated submits return the already-computed score without writing another
// result record.
func (s *Service) SubmitAttempt(ctx context.Context, id string) (domain.ScoreResult, error) {
	attempt, ok := s.attempts.Get(id)
	if !ok {
		return domain.ScoreResult{}, domain.ErrAttemptNotFound
	}
	return s.finishAttempt(ctx, attempt), nil
}

// finishAttempt drives the shared submission path for manual submits and
// timer expiry. The computed score is authoritative for the caller even when
// persistence fails; a store error is logged, never propagated.
func (s *Service) finishAttempt(ctx context.Context, attempt *Attempt) domain.ScoreResult {
	score, elapsed, first := attempt.finish()
	if !first {
		return score
	}

	result := domain.Result{
		ID:             uuid.NewString(),
		StudentName:    attempt.student.Name,
		StudentEmail:   attempt.student.Email,
		ExamID:         attempt.exam.ID,
		ExamName:       attempt.exam.Name,
		Score:          score.Correct,
		TotalQuestions: score.Total,
		Percentage:     score.Percentage,
		TimeTaken:      elapsed,
		Answers:        score.Breakdown,
		CreatedAt:      s.now(),
	}
	if err := s.results.Insert(ctx, result); err != nil {
		log.Printf("persist result for attempt %s: %v", attempt.id, err)
		return score
	}
	s.boards.Invalidate(ctx, attempt.exam.ID)
	s.publishBoard(ctx, attempt.exam.ID)
	return score
}

// SetSecondsPerQuestion overrides the per-question time allowance. Zero or
// negative keeps the default.
func (s *Service) SetSecondsPerQuestion(n int) {
	if n > 0 {
		s.secondsPerQuestion = n
	}
}
