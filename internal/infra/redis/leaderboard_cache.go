package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"exam-portal-service/internal/app"
	"exam-portal-service/internal/domain"
)

// LeaderboardCache caches per-exam leaderboards in Redis as JSON blobs and
// falls back to the result store on a miss. Invalidate drops the cached
// board so a fresh read reflects new submissions; ranks are allowed to shift
// retroactively, so the cache only ever shortens the window, never freezes it.
type LeaderboardCache struct {
	client *redis.Client
	store  app.ResultStore
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewLeaderboardCache(client *redis.Client, store app.ResultStore, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{
		client: client,
		store:  store,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *LeaderboardCache) Leaderboard(ctx context.Context, examID string) ([]domain.Result, error) {
	key := c.key(examID)

	if board, ok := c.get(ctx, key); ok {
		return board, nil
	}

	result, err, _ := c.sf.Do(examID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if board, ok := c.get(ctx, key); ok {
			return board, nil
		}

		board, err := c.store.ListByExam(ctx, examID)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(board); err == nil {
			_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		return board, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Result), nil
}

// Invalidate drops the cached leaderboard for an exam. Called after every
// submission, bulk reset, and exam deletion.
func (c *LeaderboardCache) Invalidate(ctx context.Context, examID string) {
	_ = c.client.Del(ctx, c.key(examID)).Err()
}

func (c *LeaderboardCache) get(ctx context.Context, key string) ([]domain.Result, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var board []domain.Result
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, false
	}
	return board, true
}

func (c *LeaderboardCache) key(examID string) string {
	return "exam:" + examID + ":leaderboard"
}

func (c *LeaderboardCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
