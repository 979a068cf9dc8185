package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Setter is the subset of *redis.Client used by CacheSink.
type Setter interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CacheSink stores the latest event of each type in redis under
// prefix+type, expiring after ttl.
type CacheSink struct {
	client  Setter
	prefix  string
	ttl     time.Duration
	timeout time.Duration
	logger  *zap.Logger
}

func NewCacheSink(client Setter, prefix string, ttl time.Duration, logger *zap.Logger) *CacheSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheSink{
		client:  client,
		prefix:  prefix,
		ttl:     ttl,
		timeout: 500 * time.Millisecond,
		logger:  logger,
	}
}

// Key is where events of type t are cached.
func (s *CacheSink) Key(t EventType) string {
	return s.prefix + string(t)
}

// Notify skips session ticks; they arrive every second and the next phase
// or summary event supersedes them.
func (s *CacheSink) Notify(ctx context.Context, ev Event) error {
	if ev.Type == EventSessionTick {
		return nil
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", ev.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.client.Set(ctx, s.Key(ev.Type), data, s.ttl).Err(); err != nil {
		s.logger.Warn("Failed to cache parking snapshot", zap.String("event", string(ev.Type)), zap.Error(err))
		return fmt.Errorf("failed to cache %s event: %w", ev.Type, err)
	}
	return nil
}
