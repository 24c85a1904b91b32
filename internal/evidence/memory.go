package evidence

import (
	"context"
	"sync"

	"github.com/civic-kit/complaint-service/internal/domain"
)

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryStore returns an in-process evidence store for development and
// tests. URLs use a memory:// pseudo-scheme and never expire.
func NewMemoryStore() Store {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (m *memoryStore) Put(_ context.Context, data []byte, _, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[name] = buf
	return name, nil
}

func (m *memoryStore) TemporaryURL(_ context.Context, name string) (string, error) {
	if name == "" || name == domain.ImageRefNone {
		return "", nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[name]; !ok {
		return "", nil
	}
	return "memory://evidence/" + name, nil
}
