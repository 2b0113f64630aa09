package cache

import (
	"sync"

	"mercadinho/models"
)

// SessionCache holds the live terminal sessions. Sessions are memory-only;
// a restart forgets every cart, which is acceptable for a counter terminal.
type SessionCache struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewSessionCache() *SessionCache {
	return &SessionCache{sessions: make(map[string]*models.Session)}
}

func (c *SessionCache) Add(s *models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s.ID] = s
}

// Find returns the session for the token, evicting it when expired.
func (c *SessionCache) Find(id string) (*models.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	if !ok {
		return nil, false
	}
	if s.Expired() {
		delete(c.sessions, id)
		return nil, false
	}
	return s, true
}

func (c *SessionCache) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
}

func (c *SessionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}
