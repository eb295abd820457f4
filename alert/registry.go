package alert

import (
	"path"
	"sort"
	"sync"
)

// Registry holds the alarm callbacks a host has initialized, keyed by an
// instance ID chosen by the host.
type Registry struct {
	mu        sync.RWMutex
	callbacks map[string]AlarmCallback
}

func NewRegistry() *Registry {
	return &Registry{
		callbacks: make(map[string]AlarmCallback),
	}
}

// Register adds c under id, replacing any callback already registered there.
func (r *Registry) Register(id string, c AlarmCallback) {
	if c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[id] = c
}

func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.callbacks, id)
}

func (r *Registry) Callback(id string) (AlarmCallback, bool) {
	r.mu.RLock()
	c, ok := r.callbacks[id]
	r.mu.RUnlock()
	return c, ok
}

// Match returns the IDs matching pattern in sorted order.
// An empty pattern matches every ID.
func (r *Registry) Match(pattern string) []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.callbacks))
	for id := range r.callbacks {
		if PatternMatch(pattern, id) {
			ids = append(ids, id)
		}
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

func PatternMatch(pattern, id string) bool {
	if pattern == "" {
		return true
	}
	matched, _ := path.Match(pattern, id)
	return matched
}
