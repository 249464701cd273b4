package auth

import (
	"sync"
	"time"
)

// RevocationList is the set of tokens invalidated before their natural
// expiry. Entries are keyed by the serialized token and carry its expiry so
// dead entries can be pruned; pruning only removes tokens that would already
// fail verification as expired.
type RevocationList struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewRevocationList() *RevocationList {
	return &RevocationList{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (r *RevocationList) Add(token string, expiry time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for tok, exp := range r.entries {
		if exp.Before(now) {
			delete(r.entries, tok)
		}
	}
	r.entries[token] = expiry
}

func (r *RevocationList) Contains(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[token]
	return ok
}

func (r *RevocationList) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
