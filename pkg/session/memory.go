package session

import (
	"sync"

	"github.com/naveenspark/webook/pkg/domain"
)

// Memory is an in-process Store. It does not survive restarts.
type Memory struct {
	mu   sync.RWMutex
	sess domain.Session
}

// NewMemory returns a Memory store seeded with s.
func NewMemory(s domain.Session) *Memory {
	return &Memory{sess: s}
}

func (m *Memory) Get() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sess
}

func (m *Memory) SetToken(token string) error {
	m.mu.Lock()
	m.sess.Token = token
	m.mu.Unlock()
	return nil
}

func (m *Memory) SetUserID(id string) error {
	m.mu.Lock()
	m.sess.UserID = id
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	m.sess = domain.Session{}
	m.mu.Unlock()
	return nil
}
