package httpapi

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/blogkit/pkg/csrf"
	"github.com/dmitrymomot/blogkit/pkg/rbac"
)

// Session headers.
const (
	SessionHeader = "X-Session-ID"
	CSRFHeader    = "X-CSRF-Token"
)

const actorKey = "actor_id"

// DefaultSessionTTL is how long an unused session stays valid.
const DefaultSessionTTL = 24 * time.Hour

type sessionEntry struct {
	sess      *csrf.MemorySession
	expiresAt time.Time
}

// SessionStore keeps signed-in sessions in memory. A session holds the actor
// id and the anti-forgery token, and expires after the TTL passes without a
// request. Expired sessions are dropped on lookup and by a periodic sweep
// during later calls.
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*sessionEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type SessionOption func(*SessionStore)

// WithSessionTTL sets the idle lifetime of a session. Default DefaultSessionTTL.
func WithSessionTTL(d time.Duration) SessionOption {
	return func(s *SessionStore) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithSessionClock replaces time.Now.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *SessionStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSessionStore(opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      DefaultSessionTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastSweep = s.now()
	return s
}

// Create starts a session for actor and returns its id and anti-forgery token.
func (s *SessionStore) Create(actor int64) (string, string, error) {
	sess := csrf.NewMemorySession()
	sess.Set(actorKey, actor)
	token, err := csrf.Generate(sess)
	if err != nil {
		return "", "", err
	}

	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)
	s.sessions[id] = &sessionEntry{sess: sess, expiresAt: now.Add(s.ttl)}
	return id, token, nil
}

// Get returns a live session and extends its lifetime.
func (s *SessionStore) Get(id string) (csrf.Session, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if !now.Before(e.expiresAt) {
		delete(s.sessions, id)
		return nil, false
	}
	e.expiresAt = now.Add(s.ttl)
	return e.sess, true
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of stored sessions, expired ones not yet swept included.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.ttl {
		return
	}
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
		}
	}
	s.lastSweep = now
}

func actorOf(sess csrf.Session) int64 {
	v, ok := sess.Get(actorKey)
	if !ok {
		return rbac.Anonymous
	}
	id, _ := v.(int64)
	return id
}
