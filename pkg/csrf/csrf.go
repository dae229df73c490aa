package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"sync"
)

const (
	// SessionKey is the session entry the token is stored under.
	SessionKey = "csrf_token"

	// FieldName is the conventional form field / header value name.
	FieldName = "csrf_token"

	tokenBytes = 32
)

// Session is the minimal session contract the token needs.
type Session interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// Generate returns the token stored in the session, creating it on first use.
func Generate(sess Session) (string, error) {
	if sess == nil {
		return "", ErrNilSession
	}

	if tok, ok := stored(sess); ok {
		return tok, nil
	}

	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}

	tok := hex.EncodeToString(buf)
	sess.Set(SessionKey, tok)
	return tok, nil
}

// Validate reports whether candidate matches the session token.
// It returns false when the session has no token yet.
func Validate(sess Session, candidate string) bool {
	if sess == nil {
		return false
	}

	tok, ok := stored(sess)
	if !ok {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(tok), []byte(candidate)) == 1
}

func stored(sess Session) (string, bool) {
	v, ok := sess.Get(SessionKey)
	if !ok {
		return "", false
	}
	tok, ok := v.(string)
	return tok, ok && tok != ""
}

// MemorySession is a goroutine-safe in-memory Session.
type MemorySession struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewMemorySession returns an empty MemorySession.
func NewMemorySession() *MemorySession {
	return &MemorySession{data: make(map[string]any)}
}

func (s *MemorySession) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *MemorySession) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}
