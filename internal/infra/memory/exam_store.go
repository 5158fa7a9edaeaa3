package memory

import (
	"context"
	"sort"
	"sync"

	"exam-portal-service/internal/domain"
)

// ExamStore is a mutex-guarded in-memory implementation of app.ExamStore,
// useful for tests and demo mode.
type ExamStore struct {
	mu    sync.RWMutex
	exams map[string]domain.Exam
}

func NewExamStore() *ExamStore {
	return &ExamStore{exams: make(map[string]domain.Exam)}
}

func (s *ExamStore) Insert(_ context.Context, exam domain.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exams[exam.ID] = exam
	return nil
}

func (s *ExamStore) Get(_ context.Context, id string) (domain.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exam, ok := s.exams[id]
	if !ok {
		return domain.Exam{}, domain.ErrExamNotFound
	}
	return exam, nil
}

func (s *ExamStore) List(_ context.Context) ([]domain.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exams := make([]domain.Exam, 0, len(s.exams))
	for _, exam := range s.exams {
		exams = append(exams, exam)
	}
	sort.Slice(exams, func(i, j int) bool {
		return exams[i].CreatedAt.After(exams[j].CreatedAt)
	})
	return exams, nil
}

func (s *ExamStore) Replace(_ context.Context, exam domain.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exams[exam.ID]; !ok {
		return domain.ErrExamNotFound
	}
	s.exams[exam.ID] = exam
	return nil
}

func (s *ExamStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exams[id]; !ok {
		return domain.ErrExamNotFound
	}
	delete(s.exams, id)
	return nil
}
