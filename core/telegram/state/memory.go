package state

import "sync"

type memoryManager[P comparable, D any] struct {
	mu       sync.RWMutex
	sessions map[int64]Session[P, D]
}

// NewMemoryManager constructs an in-memory Manager. Sessions do not survive a restart.
func NewMemoryManager[P comparable, D any]() Manager[P, D] {
	return &memoryManager[P, D]{sessions: make(map[int64]Session[P, D])}
}

func (m *memoryManager[P, D]) Get(userID int64) Session[P, D] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[userID]
}

func (m *memoryManager[P, D]) Begin(userID int64, prompt P) {
	m.Stage(userID, prompt, nil)
}

func (m *memoryManager[P, D]) Stage(userID int64, prompt P, draft *D) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Session[P, D]{Prompt: prompt, Draft: draft}
	if s.Idle() {
		delete(m.sessions, userID)
		return
	}
	m.sessions[userID] = s
}

func (m *memoryManager[P, D]) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

func (m *memoryManager[P, D]) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
