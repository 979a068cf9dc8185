package cron

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Poster hands work to the goroutine that owns the parking state.
type Poster interface {
	Post(fn func()) bool
}

// StartInventoryRefresher runs refresh on poster every time spec fires.
// Spec accepts the standard five field format and descriptors such as
// "@every 30s". The returned scheduler is already started.
func StartInventoryRefresher(spec string, poster Poster, refresh func(), logger *zap.Logger) (*cron.Cron, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(spec, func() {
		if !poster.Post(refresh) {
			logger.Warn("Inventory refresh skipped, event loop stopped")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid inventory refresh spec %q: %w", spec, err)
	}
	c.Start()
	logger.Info("Inventory refresher started", zap.String("spec", spec))
	return c, nil
}
