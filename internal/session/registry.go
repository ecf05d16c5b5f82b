package session

import (
	"context"
	"sync"
	"time"
)

// Registry is a thread-safe set of live runners with idle eviction.
type Registry struct {
	mu      sync.Mutex
	runners map[string]*Runner
	ttl     time.Duration
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		runners: make(map[string]*Runner),
		ttl:     ttl,
	}
}

func (g *Registry) Put(r *Runner) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if old, ok := g.runners[r.ID]; ok && old != r {
		old.Close()
	}
	g.runners[r.ID] = r
}

func (g *Registry) Get(id string) *Runner {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.runners[id]
}

// Delete closes and forgets a runner. It reports whether one existed.
func (g *Registry) Delete(id string) bool {
	g.mu.Lock()
	r, ok := g.runners[id]
	delete(g.runners, id)
	g.mu.Unlock()
	if ok {
		r.Close()
	}
	return ok
}

func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.runners)
}

// Cleanup closes runners idle for longer than the TTL and returns how many
// were evicted.
func (g *Registry) Cleanup() int {
	g.mu.Lock()
	var expired []*Runner
	now := time.Now()
	for id, r := range g.runners {
		if now.Sub(r.idleSince()) > g.ttl {
			expired = append(expired, r)
			delete(g.runners, id)
		}
	}
	g.mu.Unlock()
	for _, r := range expired {
		r.Close()
	}
	return len(expired)
}

// Run calls Cleanup every interval until ctx is done, then closes every
// remaining runner.
func (g *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			g.closeAll()
			return
		case <-ticker.C:
			g.Cleanup()
		}
	}
}

func (g *Registry) closeAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, r := range g.runners {
		r.Close()
		delete(g.runners, id)
	}
}
