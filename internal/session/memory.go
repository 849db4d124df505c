package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps sessions in process memory. Suitable for a single instance.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[uuid.UUID]memoryEntry
	busy     map[uuid.UUID]struct{}
	now      func() time.Time
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// Compile-time check to ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[uuid.UUID]memoryEntry),
		busy:     make(map[uuid.UUID]struct{}),
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.now().After(e.expiresAt) {
		delete(m.sessions, id)
		return nil, ErrNotFound
	}

	s := e.session
	if s.Map.Marker != nil {
		marker := *s.Map.Marker
		s.Map.Marker = &marker
	}
	return &s, nil
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cp := *s
	cp.UpdatedAt = now.UTC()
	if s.Map.Marker != nil {
		marker := *s.Map.Marker
		cp.Map.Marker = &marker
	}
	m.sessions[s.ID] = memoryEntry{session: cp, expiresAt: now.Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) TryLock(ctx context.Context, id uuid.UUID) (func(), bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, held := m.busy[id]; held {
		return nil, false, nil
	}
	m.busy[id] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.busy, id)
			m.mu.Unlock()
		})
	}, true, nil
}

// Sweep drops expired sessions and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, e := range m.sessions {
		if now.After(e.expiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
