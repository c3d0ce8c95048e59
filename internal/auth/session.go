// Package auth holds the client-side session state and WebSocket token
// acquisition for syncdeck. The session store gates every presence channel:
// channels connect only while an identity is present.
package auth

import "sync"

// SessionStore tracks the currently signed-in identity and notifies
// subscribers when it changes. It is injected into channels rather than
// shared as a package-level singleton.
type SessionStore struct {
	mu        sync.Mutex
	identity  string
	nextID    int
	listeners map[int]func(identity string)
}

// NewSessionStore creates an empty (signed-out) session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		listeners: make(map[int]func(identity string)),
	}
}

// Identity returns the current identity, or empty when signed out.
func (s *SessionStore) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Set records a signed-in identity and notifies subscribers if it changed.
func (s *SessionStore) Set(identity string) {
	s.update(identity)
}

// Clear signs the session out and notifies subscribers if an identity was present.
func (s *SessionStore) Clear() {
	s.update("")
}

// Subscribe registers a listener invoked on every identity change. The
// returned function cancels the subscription and is safe to call more than once.
func (s *SessionStore) Subscribe(fn func(identity string)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *SessionStore) update(identity string) {
	s.mu.Lock()
	if s.identity == identity {
		s.mu.Unlock()
		return
	}
	s.identity = identity
	// Snapshot listeners so they run outside the lock; a listener may call
	// back into the store.
	fns := make([]func(string), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}
