package session

import "sync"

// RoleType is the role a user picks when logging in.
type RoleType string

const (
	RoleJobSeeker RoleType = "job_seeker"
	RoleEmployer  RoleType = "employer"
)

// User is the cached identity persisted alongside the refresh token.
type User struct {
	ID         string   `json:"id"`
	Identifier string   `json:"identifier"` // email or phone
	Role       RoleType `json:"role"`
	IsNewUser  bool     `json:"isNewUser,omitempty"`
}

// State is a snapshot of the session. AccessToken being non-empty is the one
// signal consumers use to decide between the logged-in and logged-out
// surfaces.
type State struct {
	AccessToken string
	User        *User
	Loading     bool
}

// Authenticated reports whether the session holds a live access token.
func (s State) Authenticated() bool {
	return s.AccessToken != ""
}

// store holds the mutable session state and fans updates out to subscribers.
// It is the single process-wide home of the in-memory access token.
type store struct {
	lock   sync.RWMutex
	state  State
	subs   map[int]func(State)
	nextID int
}

func newStore() *store {
	return &store{
		subs: make(map[int]func(State)),
	}
}

func (s *store) snapshot() State {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state.clone()
}

func (s *store) subscribe(fn func(State)) (cancel func()) {
	s.lock.Lock()
	defer s.lock.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.lock.Lock()
		defer s.lock.Unlock()
		delete(s.subs, id)
	}
}

// update applies mutate under the lock and notifies subscribers with the
// resulting snapshot. Subscribers are called outside the lock so they may
// re-read or resubscribe without deadlocking.
func (s *store) update(mutate func(*State)) {
	s.lock.Lock()
	mutate(&s.state)
	snapshot := s.state.clone()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.lock.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// clone deep-copies the user pointer so subscribers cannot mutate shared state.
func (s State) clone() State {
	out := s
	if s.User != nil {
		user := *s.User
		out.User = &user
	}
	return out
}
