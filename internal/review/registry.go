package review

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks live session engines by id. Sessions are in-memory only;
// an abandoned or finished session is removed and its id becomes invalid.
type Registry struct {
	mu      sync.RWMutex
	engines map[uuid.UUID]*Engine
}

func NewRegistry() *Registry {
	return &Registry{engines: make(map[uuid.UUID]*Engine)}
}

// Add registers an engine and returns its new session id.
func (r *Registry) Add(engine *Engine) uuid.UUID {
	id := uuid.New()
	r.mu.Lock()
	r.engines[id] = engine
	r.mu.Unlock()
	return id
}

// Get looks up a live session.
func (r *Registry) Get(id uuid.UUID) (*Engine, bool) {
	r.mu.RLock()
	engine, ok := r.engines[id]
	r.mu.RUnlock()
	return engine, ok
}

// Remove forgets a session.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.engines, id)
	r.mu.Unlock()
}
