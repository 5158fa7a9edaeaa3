package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"exam-portal-service/internal/domain"
	"exam-portal-service/internal/infra/memory"
)

func TestLeaderboardCacheServesFromRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := &countingResults{ResultStore: seededStore(t)}
	cache := NewLeaderboardCache(newClient(mr), store, time.Minute)

	board, err := cache.Leaderboard(context.Background(), "exam-1")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 2 || board[0].ID != "fast" {
		t.Fatalf("unexpected board: %+v", board)
	}
	if store.calls != 1 {
		t.Fatalf("expected one store read, got %d", store.calls)
	}

	// Second read hits the cache.
	again, err := cache.Leaderboard(context.Background(), "exam-1")
	if err != nil {
		t.Fatalf("cached leaderboard: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected cache hit, store calls=%d", store.calls)
	}
	if len(again) != 2 || again[0].ID != board[0].ID {
		t.Fatalf("cache returned different board: %+v", again)
	}
}

func TestLeaderboardCacheInvalidate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := &countingResults{ResultStore: seededStore(t)}
	cache := NewLeaderboardCache(newClient(mr), store, time.Minute)

	ctx := context.Background()
	if _, err := cache.Leaderboard(ctx, "exam-1"); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	// A new submission invalidates; the next read must see it.
	_ = store.Insert(ctx, domain.Result{ID: "newest", ExamID: "exam-1", Score: 10, TimeTaken: 5})
	cache.Invalidate(ctx, "exam-1")

	board, err := cache.Leaderboard(ctx, "exam-1")
	if err != nil {
		t.Fatalf("leaderboard after invalidate: %v", err)
	}
	if store.calls != 2 {
		t.Fatalf("expected reload after invalidate, store calls=%d", store.calls)
	}
	if board[0].ID != "newest" {
		t.Fatalf("expected new leader, got %+v", board)
	}
}

type countingResults struct {
	*memory.ResultStore
	calls int
}

func (c *countingResults) ListByExam(ctx context.Context, examID string) ([]domain.Result, error) {
	c.calls++
	return c.ResultStore.ListByExam(ctx, examID)
}

func seededStore(t *testing.T) *memory.ResultStore {
	t.Helper()
	store := memory.NewResultStore()
	ctx := context.Background()
	if err := store.Insert(ctx, domain.Result{ID: "slow", ExamID: "exam-1", Score: 8, TimeTaken: 120}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.Insert(ctx, domain.Result{ID: "fast", ExamID: "exam-1", Score: 8, TimeTaken: 90}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}
