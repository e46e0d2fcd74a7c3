// Package session owns the single in-memory authenticated-user record.
// All mutations funnel through the Store and happen on the bubbletea update
// goroutine, so the store needs no locking; correctness is about sequencing,
// not mutual exclusion.
package session

import "github.com/avellar/dermterm/pkg/domain"

// Store holds the current session, or nothing when unauthenticated.
type Store struct {
	user    *domain.User
	history []domain.AnalysisRecord
}

func New() *Store {
	return &Store{}
}

// Active reports whether a user session is present.
func (s *Store) Active() bool {
	return s.user != nil
}

// User returns the current user, or nil when unauthenticated.
func (s *Store) User() *domain.User {
	return s.user
}

// History returns the analysis history, most recent first. Never nil while
// a session is active.
func (s *Store) History() []domain.AnalysisRecord {
	return s.history
}

// Set replaces the session wholesale. A nil history becomes an empty
// sequence; the record is never partially populated.
func (s *Store) Set(u domain.User, history []domain.AnalysisRecord) {
	s.user = &u
	if history == nil {
		history = []domain.AnalysisRecord{}
	}
	s.history = history
}

// Clear destroys the session.
func (s *Store) Clear() {
	s.user = nil
	s.history = nil
}
