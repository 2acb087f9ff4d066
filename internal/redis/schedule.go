package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/referee-assignment/internal/config"
	"github.com/referee-assignment/internal/domain"
)

// ScheduleService caches per-referee upcoming schedules in Redis sorted sets
// scored by game start time. The cache only serves schedule reads; conflict
// checks always go to the transactional store.
type ScheduleService struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewScheduleService creates a new Redis schedule cache
func NewScheduleService(cfg *config.RedisConfig, ttl time.Duration, logger *slog.Logger) (*ScheduleService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Test connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &ScheduleService{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Close closes the Redis connection
func (s *ScheduleService) Close() error {
	return s.client.Close()
}

// scheduleKey returns the Redis key for a referee's schedule sorted set
func (s *ScheduleService) scheduleKey(refereeID string) string {
	return fmt.Sprintf("referee:%s:schedule", refereeID)
}

// GetSchedule returns the cached schedule for a referee. The second return
// value is false on a cache miss.
func (s *ScheduleService) GetSchedule(ctx context.Context, refereeID string) ([]domain.ScheduleEntry, bool, error) {
	key := s.scheduleKey(refereeID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("checking schedule key: %w", err)
	}
	if exists == 0 {
		return nil, false, nil
	}

	members, err := s.client.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, false, fmt.Errorf("reading schedule: %w", err)
	}

	entries := make([]domain.ScheduleEntry, 0, len(members))
	for _, m := range members {
		var e domain.ScheduleEntry
		if err := json.Unmarshal([]byte(m), &e); err != nil {
			// Treat a corrupt cache as a miss; the store is authoritative
			s.logger.Warn("dropping corrupt schedule cache", "referee_id", refereeID, "error", err)
			if err := s.Invalidate(ctx, refereeID); err != nil {
				s.logger.Warn("failed to drop schedule cache", "referee_id", refereeID, "error", err)
			}
			return nil, false, nil
		}
		entries = append(entries, e)
	}
	return entries, true, nil
}

// SetSchedule replaces the cached schedule for a referee
func (s *ScheduleService) SetSchedule(ctx context.Context, refereeID string, entries []domain.ScheduleEntry) error {
	key := s.scheduleKey(refereeID)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(entries) > 0 {
		members := make([]redis.Z, 0, len(entries))
		for _, e := range entries {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("marshaling schedule entry: %w", err)
			}
			members = append(members, redis.Z{
				Score:  float64(e.StartsAt.Unix()),
				Member: string(data),
			})
		}
		pipe.ZAdd(ctx, key, members...)
	}
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing schedule: %w", err)
	}
	return nil
}

// Invalidate drops the cached schedule for a referee
func (s *ScheduleService) Invalidate(ctx context.Context, refereeID string) error {
	if err := s.client.Del(ctx, s.scheduleKey(refereeID)).Err(); err != nil {
		return fmt.Errorf("invalidating schedule: %w", err)
	}
	return nil
}
