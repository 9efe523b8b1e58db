package store

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu          sync.RWMutex
	definitions map[string][]byte
	submissions map[string]*Submission
	closed      bool
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		definitions: make(map[string][]byte),
		submissions: make(map[string]*Submission),
	}
}

// SaveDefinition implements Store.
func (m *MemoryStore) SaveDefinition(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	// Copy data to avoid retaining caller's slice
	stored := make([]byte, len(data))
	copy(stored, data)
	m.definitions[name] = stored
	return nil
}

// LoadDefinition implements Store.
func (m *MemoryStore) LoadDefinition(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	data, ok := m.definitions[name]
	if !ok {
		return nil, ErrNotFound
	}

	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// ListDefinitions implements Store.
func (m *MemoryStore) ListDefinitions() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	names := make([]string, 0, len(m.definitions))
	for name := range m.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// SaveSubmission implements Store.
func (m *MemoryStore) SaveSubmission(sub *Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	// Round-trip through JSON so the stored submission does not share
	// the caller's answer map.
	data, err := sub.Marshal()
	if err != nil {
		return err
	}
	stored, err := Unmarshal(data)
	if err != nil {
		return err
	}
	m.submissions[sub.ID] = stored
	return nil
}

// LoadSubmission implements Store.
func (m *MemoryStore) LoadSubmission(id string) (*Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	sub, ok := m.submissions[id]
	if !ok {
		return nil, ErrNotFound
	}

	data, err := sub.Marshal()
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// ListSubmissions implements Store.
func (m *MemoryStore) ListSubmissions(survey string) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	var infos []Info
	for _, sub := range m.submissions {
		if sub.Survey != survey {
			continue
		}
		data, err := sub.Marshal()
		if err != nil {
			return nil, err
		}
		infos = append(infos, Info{
			ID:        sub.ID,
			Survey:    sub.Survey,
			Complete:  sub.Complete,
			UpdatedAt: sub.UpdatedAt,
			Size:      int64(len(data)),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].UpdatedAt.Equal(infos[j].UpdatedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].UpdatedAt.Before(infos[j].UpdatedAt)
	})
	return infos, nil
}

// DeleteSubmission implements Store.
func (m *MemoryStore) DeleteSubmission(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.submissions, id)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.definitions = nil
	m.submissions = nil
	return nil
}

// Len returns the total number of stored submissions.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.submissions)
}
