package reconciler

import (
	"errors"
	"sync"
)

// ErrBusy is returned when the same action is already in flight.
var ErrBusy = errors.New("operation already in progress")

// Guard keys.
const (
	keyPage   = "page"
	keySubmit = "submit"
	keyAuth   = "auth"
)

func favoriteKey(storyID string) string { return "favorite:" + storyID }

// Guard is a set of single-flight keys that lives as long as the Reconciler,
// so every invocation of an action sees the same set. Only keys currently in
// flight are stored.
type Guard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{held: make(map[string]struct{})}
}

func (g *Guard) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		return false
	}
	g.held[key] = struct{}{}
	return true
}

func (g *Guard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
}

// Do runs fn unless another call with the same key is still running, in which
// case it returns ErrBusy without calling fn.
func (g *Guard) Do(key string, fn func() error) error {
	if !g.acquire(key) {
		return ErrBusy
	}
	defer g.release(key)
	return fn()
}
