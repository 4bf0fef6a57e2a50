package middlewares

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookieName = "session_id"
const sessionMaxAge = 60 * 60 * 24 * 30 // 30 days

// SessionStore maps transport sessions to chosen display names. The binding
// is owned here; the game engines only ever read the resolved name.
type SessionStore struct {
	mu    sync.RWMutex
	names map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{names: make(map[string]string)}
}

// Middleware ensures every request carries a session cookie and exposes the
// session id to handlers via the gin context.
func (s *SessionStore) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookieName)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetCookie(sessionCookieName, id, sessionMaxAge, "/", "", false, true)
		}
		c.Set("sessionId", id)
		c.Next()
	}
}

// Name returns the display name bound to the session, if any.
func (s *SessionStore) Name(sessionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.names[sessionID]
	return name, ok
}

// SetName binds a display name to the session, replacing any previous one.
func (s *SessionStore) SetName(sessionID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[sessionID] = name
}
