package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryEntry pairs a session with its own mutex so that operations on
// distinct sessions never contend with each other
type memoryEntry struct {
	mu      sync.Mutex
	session Session
}

// InMemoryStore keeps all session state resident in memory. It is the
// reference Store implementation; MySqlStore provides the durable variant.
type InMemoryStore struct {
	mu      sync.RWMutex // guards the map only, never held across session work
	entries map[uuid.UUID]*memoryEntry
}

// NewInMemoryStore creates a new in-memory session store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[uuid.UUID]*memoryEntry),
	}
}

// CreateSession creates a new session in memory
func (s *InMemoryStore) CreateSession(ctx context.Context, owner string) (*Session, error) {
	now := time.Now().UTC()
	entry := &memoryEntry{
		session: Session{
			ID:        uuid.New(),
			Owner:     owner,
			Title:     "New Chat",
			CreatedAt: now,
			UpdatedAt: now,
			Turns:     []Turn{},
		},
	}

	s.mu.Lock()
	s.entries[entry.session.ID] = entry
	s.mu.Unlock()

	snapshot := copySession(&entry.session)
	return &snapshot, nil
}

// GetSession retrieves a snapshot of a session with its turns in order
func (s *InMemoryStore) GetSession(ctx context.Context, owner string, sessionID uuid.UUID) (*Session, error) {
	entry := s.entry(sessionID)
	if entry == nil {
		return nil, ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session.Owner != owner {
		return nil, ErrSessionNotFound
	}

	snapshot := copySession(&entry.session)
	return &snapshot, nil
}

// AppendTurn appends a turn to the session's log. The owner check, the
// append, and the returned snapshot all happen under the session's lock,
// so two concurrent appends to the same session cannot interleave their
// history reads.
func (s *InMemoryStore) AppendTurn(ctx context.Context, owner string, sessionID uuid.UUID, turn Turn) (*Session, error) {
	entry := s.entry(sessionID)
	if entry == nil {
		return nil, ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session.Owner != owner {
		return nil, ErrSessionNotFound
	}

	if turn.ID == uuid.Nil {
		turn.ID = uuid.New()
	}
	turn.SessionID = sessionID

	// Keep creation times non-decreasing within the log
	now := time.Now().UTC()
	if n := len(entry.session.Turns); n > 0 && entry.session.Turns[n-1].CreatedAt.After(now) {
		now = entry.session.Turns[n-1].CreatedAt
	}
	turn.CreatedAt = now

	entry.session.Turns = append(entry.session.Turns, turn)
	entry.session.UpdatedAt = time.Now().UTC()

	snapshot := copySession(&entry.session)
	return &snapshot, nil
}

// SetTitle updates the session's title
func (s *InMemoryStore) SetTitle(ctx context.Context, owner string, sessionID uuid.UUID, title string) error {
	entry := s.entry(sessionID)
	if entry == nil {
		return ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session.Owner != owner {
		return ErrSessionNotFound
	}

	entry.session.Title = title
	entry.session.UpdatedAt = time.Now().UTC()
	return nil
}

// ClearSession empties the turn log while keeping the session alive
func (s *InMemoryStore) ClearSession(ctx context.Context, owner string, sessionID uuid.UUID) error {
	entry := s.entry(sessionID)
	if entry == nil {
		return ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session.Owner != owner {
		return ErrSessionNotFound
	}

	entry.session.Turns = []Turn{}
	entry.session.UpdatedAt = time.Now().UTC()
	return nil
}

// DeleteSession removes the session and all of its turns
func (s *InMemoryStore) DeleteSession(ctx context.Context, owner string, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[sessionID]
	if !exists || entry.session.Owner != owner {
		return ErrSessionNotFound
	}

	delete(s.entries, sessionID)
	return nil
}

// ListSessions returns the owner's session ids in creation order
func (s *InMemoryStore) ListSessions(ctx context.Context, owner string) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type created struct {
		id uuid.UUID
		at time.Time
	}

	var owned []created
	for id, entry := range s.entries {
		if entry.session.Owner == owner {
			owned = append(owned, created{id: id, at: entry.session.CreatedAt})
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		if owned[i].at.Equal(owned[j].at) {
			return owned[i].id.String() < owned[j].id.String()
		}
		return owned[i].at.Before(owned[j].at)
	})

	ids := make([]uuid.UUID, 0, len(owned))
	for _, c := range owned {
		ids = append(ids, c.id)
	}
	return ids, nil
}

// ExpireIdleSessions deletes sessions whose last activity precedes the cutoff
func (s *InMemoryStore) ExpireIdleSessions(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, entry := range s.entries {
		if entry.session.UpdatedAt.Before(cutoff) {
			delete(s.entries, id)
			count++
		}
	}
	return count, nil
}

// entry looks up a session entry without holding the map lock longer than
// the lookup itself
func (s *InMemoryStore) entry(sessionID uuid.UUID) *memoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[sessionID]
}

// copySession returns a snapshot whose turn slice is detached from the
// store's copy. Attachments are immutable, so sharing their pointers is safe.
func copySession(src *Session) Session {
	out := *src
	out.Turns = make([]Turn, len(src.Turns))
	copy(out.Turns, src.Turns)
	return out
}
