package cron

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inlinePoster struct {
	stopped bool
	posts   atomic.Int32
}

func (p *inlinePoster) Post(fn func()) bool {
	p.posts.Add(1)
	if p.stopped {
		return false
	}
	fn()
	return true
}

func TestStartInventoryRefresherRejectsBadSpec(t *testing.T) {
	_, err := StartInventoryRefresher("every now and then", &inlinePoster{}, func() {}, nil)
	assert.Error(t, err)
}

func TestStartInventoryRefresherPostsRefresh(t *testing.T) {
	poster := &inlinePoster{}
	var refreshed atomic.Int32
	c, err := StartInventoryRefresher("@every 1s", poster, func() { refreshed.Add(1) }, nil)
	require.NoError(t, err)
	defer c.Stop()

	assert.Eventually(t, func() bool { return refreshed.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestStartInventoryRefresherStoppedLoop(t *testing.T) {
	poster := &inlinePoster{stopped: true}
	var refreshed atomic.Int32
	c, err := StartInventoryRefresher("@every 1s", poster, func() { refreshed.Add(1) }, nil)
	require.NoError(t, err)
	defer c.Stop()

	assert.Eventually(t, func() bool { return poster.posts.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	assert.Zero(t, refreshed.Load())
}
