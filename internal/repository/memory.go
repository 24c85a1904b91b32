package repository

import (
	"context"
	"sync"

	"github.com/civic-kit/complaint-service/internal/domain"
)

type memoryLedger struct {
	mu      sync.Mutex
	records []domain.Complaint
}

// NewMemoryLedger returns an in-process ledger store. It is the default
// driver for development and tests; data does not survive a restart.
func NewMemoryLedger() LedgerStore {
	return &memoryLedger{}
}

func (m *memoryLedger) Load(_ context.Context) ([]domain.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Complaint, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memoryLedger) Save(_ context.Context, records []domain.Complaint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make([]domain.Complaint, len(records))
	copy(m.records, records)
	return nil
}
