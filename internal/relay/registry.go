package relay

import "sync"

// Registry tracks the set of live connections. Session membership lives in
// the Directory; the registry only answers "is this channel still open".
type Registry struct {
	mu    sync.RWMutex
	conns map[Conn]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[Conn]struct{}),
	}
}

func (r *Registry) Register(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c] = struct{}{}
}

// Unregister removes the connection and reports whether it was registered.
func (r *Registry) Unregister(c Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[c]; !ok {
		return false
	}
	delete(r.conns, c)
	return true
}

func (r *Registry) Contains(c Conn) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[c]
	return ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
