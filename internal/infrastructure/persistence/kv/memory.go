package kv

import "sync"

// MemoryStore is the map-backed Store used for tests and the ephemeral
// MEMORY_STORE mode. Same notification semantics as the durable backend.
type MemoryStore struct {
	*notifier
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		notifier: newNotifier(),
		data:     make(map[string]map[string]string),
	}
}

func (m *MemoryStore) Get(profileID, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	profile, ok := m.data[profileID]
	if !ok {
		return "", false
	}
	value, ok := profile[key]
	return value, ok
}

func (m *MemoryStore) Set(profileID, key, value, origin string) error {
	m.mu.Lock()
	if m.data[profileID] == nil {
		m.data[profileID] = make(map[string]string)
	}
	m.data[profileID][key] = value
	m.mu.Unlock()

	m.notify(ChangeEvent{ProfileID: profileID, Key: key, Origin: origin})
	return nil
}

func (m *MemoryStore) Remove(profileID, key, origin string) error {
	m.mu.Lock()
	existed := false
	if profile, ok := m.data[profileID]; ok {
		_, existed = profile[key]
		delete(profile, key)
	}
	m.mu.Unlock()

	if existed {
		m.notify(ChangeEvent{ProfileID: profileID, Key: key, Removed: true, Origin: origin})
	}
	return nil
}

func (m *MemoryStore) Subscribe(profileID, origin string) *Subscription {
	return m.subscribe(profileID, origin)
}

func (m *MemoryStore) Unsubscribe(sub *Subscription) {
	m.unsubscribe(sub)
}

func (m *MemoryStore) Close() error { return nil }
