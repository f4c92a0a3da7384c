// Package session keeps the uploaded chat export of each Telegram chat in
// memory, together with the user currently selected for analysis.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edgard/chatlens/internal/chatexport"
)

// ErrNoSession is returned when a chat has no uploaded export.
var ErrNoSession = errors.New("no export uploaded for this chat")

// Session is the export uploaded to one chat.
type Session struct {
	ID           string
	ChatID       int64
	SourceName   string
	Table        *chatexport.Table
	SelectedUser string
	// Users is the selectable list shown in the inline keyboard; callbacks
	// refer to users by index into it.
	Users      []string
	UploadedAt time.Time
	LastUsed   time.Time
}

// Store holds at most one session per chat. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session), now: time.Now}
}

// NewStoreWithClock creates an empty store using now as its clock.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{sessions: make(map[int64]*Session), now: now}
}

// Put replaces the chat's session with a new upload and returns a copy.
func (s *Store) Put(chatID int64, sourceName string, table *chatexport.Table, users []string, selected string) Session {
	now := s.now()
	sess := &Session{
		ID:           uuid.NewString(),
		ChatID:       chatID,
		SourceName:   sourceName,
		Table:        table,
		SelectedUser: selected,
		Users:        append([]string(nil), users...),
		UploadedAt:   now,
		LastUsed:     now,
	}

	s.mu.Lock()
	s.sessions[chatID] = sess
	s.mu.Unlock()
	return *sess
}

// Get returns a copy of the chat's session and marks it as used.
func (s *Store) Get(chatID int64) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return Session{}, ErrNoSession
	}
	sess.LastUsed = s.now()
	return *sess, nil
}

// SelectUser changes the selected user of the chat's session.
func (s *Store) SelectUser(chatID int64, user string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return Session{}, ErrNoSession
	}
	sess.SelectedUser = user
	sess.LastUsed = s.now()
	return *sess, nil
}

// Delete forgets the chat's session and reports whether one existed.
func (s *Store) Delete(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[chatID]
	delete(s.sessions, chatID)
	return ok
}

// Len returns the number of sessions held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// EvictIdle removes sessions unused for longer than ttl and returns how many
// were removed.
func (s *Store) EvictIdle(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for chatID, sess := range s.sessions {
		if sess.LastUsed.Before(cutoff) {
			delete(s.sessions, chatID)
			evicted++
		}
	}
	return evicted
}
