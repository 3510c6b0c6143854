package session

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultName is the session that exists from startup and can never be
// removed while current.
const DefaultName = "default"

// Registry maps session names to sessions and tracks the current one. A
// current session always exists. The registry does not enforce the "current
// session cannot be removed" rule; the command layer rejects that before
// calling Remove.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	current  string
	autoID   int
}

// NewRegistry creates a registry holding the default session, selected.
func NewRegistry() *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		autoID:   1,
	}
	r.Create(DefaultName)
	return r
}

// Current returns the current session. Never nil.
func (r *Registry) Current() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[r.current]
}

// Create adds an empty session with the given name and makes it current.
// Returns false without mutation when the name is taken.
func (r *Registry) Create(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.create(name)
}

// CreateAutoNamed adds a session named sessionN, for the lowest N not yet
// taken, and makes it current. Always succeeds.
func (r *Registry) CreateAutoNamed() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var name string
	for {
		name = fmt.Sprintf("session%d", r.autoID)
		r.autoID++
		if _, taken := r.sessions[name]; !taken {
			break
		}
	}
	r.create(name)
	return r.sessions[name]
}

func (r *Registry) create(name string) bool {
	if _, taken := r.sessions[name]; taken {
		return false
	}
	r.sessions[name] = &Session{name: name}
	r.current = name
	return true
}

// Remove deletes the named session. Returns false when the name is unknown.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[name]; !ok {
		return false
	}
	delete(r.sessions, name)
	return true
}

// SwitchTo makes the named session current. Returns false when the name is
// unknown.
func (r *Registry) SwitchTo(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[name]; !ok {
		return false
	}
	r.current = name
	return true
}

// Names returns all session names in lexicographic order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
