package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"exam-portal-service/internal/domain"
)

// ExamStore persists exam definitions.
type ExamStore interface {
	Insert(ctx context.Context, exam domain.Exam) error
	// Get returns domain.ErrExamNotFound for unknown ids.
	Get(ctx context.Context, id string) (domain.Exam, error)
	// List returns exams in createdAt-descending order.
	List(ctx context.Context) ([]domain.Exam, error)
	Replace(ctx context.Context, exam domain.Exam) error
	Delete(ctx context.Context, id string) error
}

// ResultStore persists immutable result records. Results are append-only:
// inserted once per attempt, never updated, deleted only in bulk per exam.
type ResultStore interface {
	Insert(ctx context.Context, result domain.Result) error
	// ListByExam returns results in leaderboard order: score desc,
	// timeTaken asc, createdAt asc for full ties.
	ListByExam(ctx context.Context, examID string) ([]domain.Result, error)
	// ListByStudent returns a student's results in createdAt-descending order.
	ListByStudent(ctx context.Context, email string) ([]domain.Result, error)
	DeleteByExam(ctx context.Context, examID string) (int64, error)
}

// LeaderboardSource serves per-exam leaderboards, optionally through a cache.
// Invalidate must be called after any write that changes an exam's results.
type LeaderboardSource interface {
	Leaderboard(ctx context.Context, examID string) ([]domain.Result, error)
	Invalidate(ctx context.Context, examID string)
}

// Service contains the exam-portal use cases: catalog management, result
// submission and ranking, and server-driven attempt sessions.
type Service struct {
	exams              ExamStore
	results            ResultStore
	attempts           AttemptStore
	boards             LeaderboardSource
	feed               *Feed
	secondsPerQuestion int
	now                func() time.Time
}

func NewService(exams ExamStore, results ResultStore, attempts AttemptStore, boards LeaderboardSource) *Service {
	if boards == nil {
		boards = storeBoards{results}
	}
	return &Service{
		exams:              exams,
		results:            results,
		attempts:           attempts,
		boards:             boards,
		feed:               NewFeed(),
		secondsPerQuestion: domain.SecondsPerQuestion,
		now:                time.Now,
	}
}

// NewServiceWithClock is test-only for deterministic timestamps.
func NewServiceWithClock(exams ExamStore, results ResultStore, attempts AttemptStore, boards LeaderboardSource, now func() time.Time) *Service {
	s := NewService(exams, results, attempts, boards)
	s.now = now
	return s
}

// Feed exposes the live leaderboard feed for transport-layer subscribers.
func (s *Service) Feed() *Feed {
	return s.feed
}

// storeBoards reads leaderboards straight from the result store when no
// cache is configured.
type storeBoards struct {
	results ResultStore
}

func (b storeBoards) Leaderboard(ctx context.Context, examID string) ([]domain.Result, error) {
	return b.results.ListByExam(ctx, examID)
}

func (b storeBoards) Invalidate(context.Context, string) {}

// CreateExam validates and stores a new exam definition.
func (s *Service) CreateExam(ctx context.Context, name string, questions []domain.Question) (domain.Exam, error) {
	if err := domain.ValidateExam(name, questions); err != nil {
		return domain.Exam{}, err
	}
	exam := domain.Exam{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Questions: questions,
		CreatedAt: s.now(),
	}
	if err := s.exams.Insert(ctx, exam); err != nil {
		return domain.Exam{}, err
	}
	return exam, nil
}

// ListExams returns all exams, newest first.
func (s *Service) ListExams(ctx context.Context) ([]domain.Exam, error) {
	return s.exams.List(ctx)
}

// GetExam fetches one exam by id.
func (s *Service) GetExam(ctx context.Context, id string) (domain.Exam, error) {
	return s.exams.Get(ctx, id)
}

// ReplaceExam fully replaces an existing exam's name and questions. The
// creation timestamp is preserved; past results keep their snapshotted name.
func (s *Service) ReplaceExam(ctx context.Context, id, name string, questions []domain.Question) (domain.Exam, error) {
	existing, err := s.exams.Get(ctx, id)
	if err != nil {
		return domain.Exam{}, err
	}
	if err := domain.ValidateExam(name, questions); err != nil {
		return domain.Exam{}, err
	}
	exam := domain.Exam{
		ID:        existing.ID,
		Name:      strings.TrimSpace(name),
		Questions: questions,
		CreatedAt: existing.CreatedAt,
	}
	if err := s.exams.Replace(ctx, exam); err != nil {
		return domain.Exam{}, err
	}
	return exam, nil
}

// DeleteExam removes an exam and cascades deletion of its results. The
// cascade runs first so a half-failed delete never leaves orphaned results
// pointing at a missing exam.
func (s *Service) DeleteExam(ctx context.Context, id string) error {
	if _, err := s.exams.Get(ctx, id); err != nil {
		return err
	}
	if _, err := s.results.DeleteByExam(ctx, id); err != nil {
		return err
	}
	if err := s.exams.Delete(ctx, id); err != nil {
		return err
	}
	s.boards.Invalidate(ctx, id)
	s.feed.Broadcast(id, nil)
	return nil
}
