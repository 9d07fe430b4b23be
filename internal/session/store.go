package session

import (
	"context"
	"sync"
	"time"

	"github.com/glynne/glyai/internal/turnlog"
)

// Session holds one conversation's bounded recent-turn window.
//
// Session ids are opaque and caller supplied; uniqueness is the caller's
// responsibility and is not validated here.
type Session struct {
	ID             string         `json:"session_id"`
	Window         []turnlog.Turn `json:"window"`
	LastActivityAt time.Time      `json:"last_activity_at"`
}

// Store owns the in-memory session map shared by request handlers and the
// inactivity reaper.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	windowLimit int
	onExpire    func(sessionID string)
}

func NewStore(windowLimit int) *Store {
	if windowLimit <= 0 {
		windowLimit = 2
	}
	return &Store{
		sessions:    make(map[string]*Session),
		windowLimit: windowLimit,
	}
}

// SetExpireHook registers a callback invoked for each session the reaper
// removes. Used to delete the session's durable turn log.
func (s *Store) SetExpireHook(hook func(sessionID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = hook
}

// GetOrCreate returns the session for id, creating an empty one on first use.
func (s *Store) GetOrCreate(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.getOrCreateLocked(id))
}

// RecordTurn appends a turn to the session window, evicting the oldest entry
// once the window exceeds its bound, and refreshes last activity.
func (s *Store) RecordTurn(id, user, assistant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	sess.Window = append(sess.Window, turnlog.Turn{
		User:      user,
		Assistant: assistant,
		CreatedAt: time.Now().UTC(),
	})
	if len(sess.Window) > s.windowLimit {
		sess.Window = sess.Window[len(sess.Window)-s.windowLimit:]
	}
	sess.LastActivityAt = time.Now().UTC()
}

// Touch refreshes last activity without mutating the window.
func (s *Store) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.LastActivityAt = time.Now().UTC()
	}
}

// Window returns a copy of the session's current window. An unknown id yields
// an empty window, not an error.
func (s *Store) Window(id string) []turnlog.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	out := make([]turnlog.Turn, len(sess.Window))
	copy(out, sess.Window)
	return out
}

// Reset empties the session window, keeping the session alive.
func (s *Store) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.Window = nil
		sess.LastActivityAt = time.Now().UTC()
	}
}

// Remove drops the session entirely.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// IDs returns the ids of all live sessions.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// ActiveCount reports the number of live sessions.
func (s *Store) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ExpireIfIdle removes the session when it has been idle longer than timeout.
func (s *Store) ExpireIfIdle(id string, timeout time.Duration, now time.Time) bool {
	s.mu.Lock()
	expired := s.expireIfIdleLocked(id, timeout, now)
	hook := s.onExpire
	s.mu.Unlock()

	if expired && hook != nil {
		hook(id)
	}
	return expired
}

// StartReaper launches the background sweep that expires idle sessions.
// It stops when ctx is cancelled.
func (s *Store) StartReaper(ctx context.Context, period, timeout time.Duration) {
	if period <= 0 {
		period = time.Minute
	}
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(timeout)
			}
		}
	}()
}

func (s *Store) sweep(timeout time.Duration) {
	now := time.Now().UTC()

	// Snapshot candidates, then re-check liveness under the lock right
	// before deleting so a session touched mid-sweep survives.
	s.mu.RLock()
	candidates := make([]string, 0)
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActivityAt) > timeout {
			candidates = append(candidates, id)
		}
	}
	s.mu.RUnlock()

	var expired []string
	s.mu.Lock()
	for _, id := range candidates {
		if s.expireIfIdleLocked(id, timeout, now) {
			expired = append(expired, id)
		}
	}
	hook := s.onExpire
	s.mu.Unlock()

	if hook != nil {
		for _, id := range expired {
			hook(id)
		}
	}
}

func (s *Store) expireIfIdleLocked(id string, timeout time.Duration, now time.Time) bool {
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	if now.Sub(sess.LastActivityAt) <= timeout {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *Store) getOrCreateLocked(id string) *Session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{
			ID:             id,
			LastActivityAt: time.Now().UTC(),
		}
		s.sessions[id] = sess
	}
	return sess
}

func clone(sess *Session) *Session {
	c := *sess
	c.Window = make([]turnlog.Turn, len(sess.Window))
	copy(c.Window, sess.Window)
	return &c
}
