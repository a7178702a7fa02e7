package runtime

import (
	"market-lab/contract"
	"sync"
)

type sessions map[string]contract.EventSink

// Registry maps a user to the sinks of their open streams.
// A user may hold several sessions, one per connected device.
type Registry struct {
	mu    sync.RWMutex
	users map[string]sessions
}

func NewRegistry() *Registry {
	return &Registry{users: make(map[string]sessions)}
}

// GetSinksForUser returns nil when the user has no open stream.
func (r *Registry) GetSinksForUser(userID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userSessions, ok := r.users[userID]
	if !ok {
		return nil
	}
	sinks := make([]contract.EventSink, 0, len(userSessions))
	for _, sink := range userSessions {
		sinks = append(sinks, sink)
	}
	return sinks
}

func (r *Registry) Subscribe(userID, sessionID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		r.users[userID] = make(sessions)
	}
	r.users[userID][sessionID] = sink
}

// Unsubscribe drops the session and the user entry once it is empty.
func (r *Registry) Unsubscribe(userID, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userSessions, ok := r.users[userID]
	if !ok {
		return
	}
	delete(userSessions, sessionID)
	if len(userSessions) == 0 {
		delete(r.users, userID)
	}
}

func (r *Registry) ConnectedUsers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
