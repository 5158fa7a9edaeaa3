package memory

import (
	"context"
	"sort"
	"sync"

	"exam-portal-service/internal/domain"
)

// ResultStore keeps result records in insertion order, which makes the
// stable full-tie ordering of leaderboards fall out of sort.SliceStable.
type ResultStore struct {
	mu      sync.RWMutex
	results []domain.Result
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) Insert(_ context.Context, result domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

func (s *ResultStore) ListByExam(_ context.Context, examID string) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	board := make([]domain.Result, 0)
	for _, r := range s.results {
		if r.ExamID == examID {
			board = append(board, r)
		}
	}
	domain.SortLeaderboard(board)
	return board, nil
}

func (s *ResultStore) ListByStudent(_ context.Context, email string) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mine := make([]domain.Result, 0)
	for _, r := range s.results {
		if r.StudentEmail == email {
			mine = append(mine, r)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})
	return mine, nil
}

func (s *ResultStore) DeleteByExam(_ context.Context, examID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.results[:0]
	var deleted int64
	for _, r := range s.results {
		if r.ExamID == examID {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.results = kept
	return deleted, nil
}
