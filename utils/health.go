package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Pinger is satisfied by *redis.Client.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Redis     []bool    `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth pings every client once and stores the result.
func CheckHealth(ctx context.Context, clients []Pinger) HealthStatus {
	redisHealth := make([]bool, 0, len(clients))
	for _, client := range clients {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		redisHealth = append(redisHealth, client.Ping(pingCtx).Err() == nil)
		cancel()
	}

	status := HealthStatus{Redis: redisHealth, CheckedAt: time.Now()}
	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is done.
func StartHealthMonitor(ctx context.Context, clients []Pinger, interval time.Duration) {
	CheckHealth(ctx, clients)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				CheckHealth(ctx, clients)
			case <-ctx.Done():
				return
			}
		}
	}()
}
