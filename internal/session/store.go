package session

import (
	"strings"
	"sync"
)

type Step string

const (
	StepAge        Step = "age"
	StepName       Step = "name"
	StepGender     Step = "gender"
	StepBio        Step = "bio"
	StepLocation   Step = "location"
	StepLookingFor Step = "looking_for"
)

// Session is the partially filled profile collected during onboarding.
// Sessions are process-local; a restart loses in-flight progress.
type Session struct {
	Step     Step
	Age      int
	Name     string
	Gender   string
	Bio      string
	Location string
}

// Store keeps onboarding sessions keyed by user id. All access to one
// user's session goes through Do, which holds a per-user lock so two
// rapid messages cannot both observe the same step.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	locks    map[int64]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*Session),
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Do runs fn while holding the lock for userID. fn receives the current
// session (nil when none exists) and returns the session to keep; a nil
// return removes the entry.
func (s *Store) Do(userID int64, fn func(*Session) *Session) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	current := s.sessions[userID]
	s.mu.Unlock()

	next := fn(current)

	s.mu.Lock()
	if next == nil {
		delete(s.sessions, userID)
	} else {
		s.sessions[userID] = next
	}
	s.mu.Unlock()
}

// Exists reports whether an onboarding session is in flight for userID.
func (s *Store) Exists(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	return ok
}

// Start begins a fresh session at the age step, replacing any leftover
// one for the same user.
func (s *Store) Start(userID int64) {
	s.Do(userID, func(*Session) *Session {
		return &Session{Step: StepAge}
	})
}

func (s *Store) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// IsCommand reports whether text carries a command prefix; such input
// never feeds the state machine.
func IsCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}
