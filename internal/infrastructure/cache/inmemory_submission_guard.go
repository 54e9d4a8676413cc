package cache

import (
	"context"
	"sync"
	"time"

	"github.com/cortecaja/backend/internal/domain/settlement"
	"github.com/google/uuid"
)

type hold struct {
	token     string
	expiresAt time.Time
}

// InMemorySubmissionGuard implements settlement.SubmissionGuard with a map.
// It only serializes submissions reaching the same process.
type InMemorySubmissionGuard struct {
	mu        sync.Mutex
	held      map[string]hold
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySubmissionGuard creates a guard and starts the loop that drops
// expired keys
func NewInMemorySubmissionGuard() *InMemorySubmissionGuard {
	g := &InMemorySubmissionGuard{
		held:     make(map[string]hold),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	g.wg.Add(1)
	go g.cleanupLoop()

	return g
}

// Acquire takes the key for ttl unless an unexpired holder exists
func (g *InMemorySubmissionGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if h, ok := g.held[key]; ok && now.Before(h.expiresAt) {
		return "", false, nil
	}
	token := uuid.NewString()
	g.held[key] = hold{token: token, expiresAt: now.Add(ttl)}
	return token, true, nil
}

// Release frees the key if it is still held under token
func (g *InMemorySubmissionGuard) Release(ctx context.Context, key, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if h, ok := g.held[key]; ok && h.token == token {
		delete(g.held, key)
	}
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (g *InMemorySubmissionGuard) Close() error {
	g.closeOnce.Do(func() {
		close(g.stopChan)
		g.wg.Wait()
	})
	return nil
}

func (g *InMemorySubmissionGuard) cleanupLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.cleanup()
		}
	}
}

func (g *InMemorySubmissionGuard) cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for key, h := range g.held {
		if !now.Before(h.expiresAt) {
			delete(g.held, key)
		}
	}
}

// Size returns the number of held keys
func (g *InMemorySubmissionGuard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.held)
}

var _ settlement.SubmissionGuard = (*InMemorySubmissionGuard)(nil)
