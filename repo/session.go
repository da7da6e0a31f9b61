package repo

import (
	"englishtalk/domain"
	"englishtalk/pkg/log"
	"fmt"
	"sync"
	"time"
)

// LiveSession is what the store needs to know about a running session.
type LiveSession interface {
	ID() string
	LastActive() time.Time
	Close()
}

// SessionRepo keeps the live sessions of this process in memory. Nothing outlives a restart.
type SessionRepo struct {
	log      *log.Logger
	mu       sync.RWMutex
	sessions map[string]LiveSession
}

func NewSessionRepo(log *log.Logger) *SessionRepo {
	return &SessionRepo{
		log:      log.WithModule("SessionRepo"),
		sessions: make(map[string]LiveSession),
	}
}

func (r *SessionRepo) Create(s LiveSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID()]; ok {
		return fmt.Errorf("session %s already exists", s.ID())
	}
	r.sessions[s.ID()] = s
	return nil
}

func (r *SessionRepo) Get(id string) (LiveSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// Delete removes the session and returns it so the caller can close it.
func (r *SessionRepo) Delete(id string) (LiveSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return s, ok
}

// Range calls fn on a copy of the current set, so fn may call Delete.
func (r *SessionRepo) Range(fn func(s LiveSession) bool) {
	r.mu.RLock()
	list := make([]LiveSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s)
	}
	r.mu.RUnlock()

	for _, s := range list {
		if !fn(s) {
			return
		}
	}
}

func (r *SessionRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
