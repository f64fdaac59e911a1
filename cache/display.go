package cache

import (
	"sync"
	"time"

	"rssz/models"
)

// DisplayStore owns the current display of every (session, target) pair.
// Request ids are monotonic per pair; only the response to the most recently
// issued request may replace the current display.
type DisplayStore struct {
	mu       sync.Mutex
	sessions *Cache
}

type slot struct {
	issued  uint64
	current *models.Display
}

type sessionSlots struct {
	mu    sync.Mutex
	slots map[string]*slot
}

func NewDisplayStore(idleTTL time.Duration) *DisplayStore {
	return &DisplayStore{sessions: New(idleTTL)}
}

// session returns the slots of sessionID, creating them if needed, and
// refreshes the session's idle timer.
func (s *DisplayStore) session(sessionID string) *sessionSlots {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.sessions.Get(sessionID); ok {
		ss := v.(*sessionSlots)
		s.sessions.SetDefault(sessionID, ss)
		return ss
	}

	ss := &sessionSlots{slots: make(map[string]*slot)}
	s.sessions.SetDefault(sessionID, ss)
	return ss
}

func (ss *sessionSlots) slot(target string) *slot {
	sl, ok := ss.slots[target]
	if !ok {
		sl = &slot{}
		ss.slots[target] = sl
	}
	return sl
}

// Begin issues the next request id for target.
func (s *DisplayStore) Begin(sessionID, target string) uint64 {
	ss := s.session(sessionID)
	ss.mu.Lock()
	defer ss.mu.Unlock()

	sl := ss.slot(target)
	sl.issued++
	return sl.issued
}

// Commit replaces the current display of display.Target with display if
// display.RequestID is still the latest issued id. It returns the replaced
// display and whether the commit happened.
func (s *DisplayStore) Commit(sessionID string, display *models.Display) (*models.Display, bool) {
	ss := s.session(sessionID)
	ss.mu.Lock()
	defer ss.mu.Unlock()

	sl := ss.slot(display.Target)
	if display.RequestID != sl.issued {
		return nil, false
	}

	previous := sl.current
	sl.current = display
	return previous, true
}

// Current returns the display currently shown in target.
func (s *DisplayStore) Current(sessionID, target string) (*models.Display, bool) {
	ss := s.session(sessionID)
	ss.mu.Lock()
	defer ss.mu.Unlock()

	sl, ok := ss.slots[target]
	if !ok || sl.current == nil {
		return nil, false
	}
	return sl.current, true
}

// Sessions reports how many sessions currently hold display state.
func (s *DisplayStore) Sessions() int {
	return s.sessions.Len()
}
