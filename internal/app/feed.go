package app

import (
	"sync"
	"time"

	"exam-portal-service/internal/domain"
)

// BoardUpdate is one leaderboard snapshot pushed to feed subscribers.
type BoardUpdate struct {
	ExamID    string          `json:"examId"`
	Results   []domain.Result `json:"results"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Feed fans leaderboard updates out to per-exam subscribers. Slow consumers
// never block a broadcast: the stale update is dropped and replaced with the
// newest snapshot.
type Feed struct {
	mu   sync.RWMutex
	now  func() time.Time
	subs map[string]map[chan BoardUpdate]struct{}
}

func NewFeed() *Feed {
	return &Feed{
		now:  time.Now,
		subs: make(map[string]map[chan BoardUpdate]struct{}),
	}
}

// Subscribe registers a listener for one exam's leaderboard updates. The
// caller must invoke the returned cancel function to avoid leaks.
func (f *Feed) Subscribe(examID string) (<-chan BoardUpdate, func()) {
	ch := make(chan BoardUpdate, 8)

	f.mu.Lock()
	if f.subs[examID] == nil {
		f.subs[examID] = make(map[chan BoardUpdate]struct{})
	}
	f.subs[examID][ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if set, ok := f.subs[examID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(f.subs, examID)
			}
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Broadcast delivers a leaderboard snapshot to every subscriber of an exam.
func (f *Feed) Broadcast(examID string, results []domain.Result) {
	update := BoardUpdate{ExamID: examID, Results: results, UpdatedAt: f.now()}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for ch := range f.subs[examID] {
		select {
		case ch <- update:
		default:
			// Full buffer: drain one stale slot and retry. A concurrent
			// broadcaster may have taken the freed slot, so the retry must
			// not block either; its snapshot supersedes this one anyway.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- update:
			default:
			}
		}
	}
}
