package tracker

import "sync"

// Keys used in local durable storage
const (
	KeyUserName         = "appUserName"
	KeyUserEmail        = "appUserEmail"
	KeyUserRole         = "appUserRole"
	KeyReminderInterval = "reminderInterval"
	KeyActiveSession    = "activeWorkSession"
	KeySessionCache     = "sessionCache"
	KeyLastDailyTotal   = "lastDailyTotal"
)

// Storage is the local key-value store that survives restarts
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// MemoryStorage keeps everything in a map. Used in tests and when no database is configured.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
