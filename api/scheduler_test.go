package api

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/warp/njob-manager/holiday"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestCachePurger_PurgesOnStart(t *testing.T) {
	// GIVEN: a cache holding one expired and one fresh entry
	clock := &fakeClock{now: fixedNow}
	cache := holiday.NewCache(time.Hour, holiday.WithClock(clock.Now))
	cache.Put(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), true)
	clock.Advance(90 * time.Minute)
	cache.Put(time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC), false)

	// WHEN: the purger starts
	p := NewCachePurger(cache, quietLogger())
	p.CheckInterval = time.Hour
	p.Start()
	defer p.Stop()

	// THEN: the initial purge drops the expired entry
	assert.Eventually(t, func() bool { return cache.Len() == 1 }, time.Second, 5*time.Millisecond)
}

func TestCachePurger_StartStopIdempotent(t *testing.T) {
	p := NewCachePurger(holiday.NewCache(time.Hour), quietLogger())
	p.CheckInterval = 10 * time.Millisecond

	p.Start()
	p.Start()
	p.Stop()
	p.Stop()
}

func TestCachePurger_DisabledWithoutCache(t *testing.T) {
	p := NewCachePurger(nil, quietLogger())
	assert.False(t, p.Enabled)

	p.Start()
	p.Stop()
}
