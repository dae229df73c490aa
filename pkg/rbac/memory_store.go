package rbac

import (
	"context"
	"sync"
)

// MemoryActorStore keeps actor roles in a map. It backs tests and local tooling.
type MemoryActorStore struct {
	mu    sync.RWMutex
	roles map[int64]string
}

func NewMemoryActorStore(roles map[int64]string) *MemoryActorStore {
	s := &MemoryActorStore{roles: make(map[int64]string, len(roles))}
	for id, role := range roles {
		s.roles[id] = role
	}
	return s
}

func (s *MemoryActorStore) RoleOf(_ context.Context, actor int64) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.roles[actor]
	return role, ok, nil
}

func (s *MemoryActorStore) SetRole(_ context.Context, actor int64, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[actor] = role
	return nil
}
