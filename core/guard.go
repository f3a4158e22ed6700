package core

import "sync"

// WriteGuard tracks user ids with a ledger write in flight. It is
// advisory and fail-fast: a second writer for the same user is
// rejected immediately instead of queued. Each Ledger owns its own
// guard so tests can start from a clean slate.
type WriteGuard struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewWriteGuard() *WriteGuard {
	return &WriteGuard{pending: make(map[string]struct{})}
}

// TryAcquire reserves the key. Returns false if a write for the key is
// already outstanding.
func (g *WriteGuard) TryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.pending[key]; busy {
		return false
	}
	g.pending[key] = struct{}{}
	return true
}

func (g *WriteGuard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, key)
}
