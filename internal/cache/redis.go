package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JustAdi10/MomentumTracker/internal/config"
	"github.com/JustAdi10/MomentumTracker/internal/logger"
	model "github.com/JustAdi10/MomentumTracker/internal/models"
)

// leaderboardTTL keeps boards fresh enough for the UI without recomputing
// the ranking on every request.
const leaderboardTTL = 30 * time.Second

// Leaderboard caches ranked boards in Redis. A nil *Leaderboard is a
// valid no-op cache, so callers never branch on whether Redis is enabled.
type Leaderboard struct {
	client *redis.Client
}

// NewLeaderboard connects to Redis. Returns an error when the server is
// unreachable so startup can fall back to running uncached.
func NewLeaderboard(cfg config.RedisConfig) (*Leaderboard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Success("Connected to Redis at %s", cfg.Addr)
	return &Leaderboard{client: client}, nil
}

func key(limit int) string {
	return fmt.Sprintf("leaderboard:global:%d", limit)
}

// Get returns the cached global board for the limit, if present.
func (c *Leaderboard) Get(ctx context.Context, limit int) ([]model.LeaderboardEntry, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, key(limit)).Bytes()
	if err != nil {
		return nil, false
	}

	var entries []model.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		logger.Warning("dropping corrupt leaderboard cache entry: %v", err)
		c.client.Del(ctx, key(limit))
		return nil, false
	}
	return entries, true
}

// Set stores a freshly ranked global board.
func (c *Leaderboard) Set(ctx context.Context, limit int, entries []model.LeaderboardEntry) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(limit), raw, leaderboardTTL).Err(); err != nil {
		logger.Warning("could not cache leaderboard: %v", err)
	}
}

// Invalidate drops all cached boards. Called after completions so fresh
// streaks show up without waiting for the TTL.
func (c *Leaderboard) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, "leaderboard:*", 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
}
