package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"reconnect_server/models"

	"github.com/redis/go-redis/v9"
)

// MatchCacheService keeps computed match lists in Redis for a short TTL so
// the discovery feed does not recompute the full rating merge on every poll.
// Cache failures are soft: log and fall through to a recompute, never an
// error to the caller.
type MatchCacheService struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewMatchCacheService(addr, password string) *MatchCacheService {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return &MatchCacheService{Client: client, TTL: 30 * time.Second}
}

func matchCacheKey(userID string) string {
	return "matches:" + userID
}

func (c *MatchCacheService) Get(ctx context.Context, userID string) ([]models.MatchSummary, bool) {
	val, err := c.Client.Get(ctx, matchCacheKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️ Match cache read failed for %s: %v", userID, err)
		}
		return nil, false
	}

	var matches []models.MatchSummary
	if err := json.Unmarshal([]byte(val), &matches); err != nil {
		return nil, false
	}
	return matches, true
}

func (c *MatchCacheService) Set(ctx context.Context, userID string, matches []models.MatchSummary) {
	data, err := json.Marshal(matches)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, matchCacheKey(userID), data, c.TTL).Err(); err != nil {
		log.Printf("⚠️ Match cache write failed for %s: %v", userID, err)
	}
}

func (c *MatchCacheService) Invalidate(ctx context.Context, userID string) {
	if err := c.Client.Del(ctx, matchCacheKey(userID)).Err(); err != nil {
		log.Printf("⚠️ Match cache invalidation failed for %s: %v", userID, err)
	}
}
