package repository

import (
	"context"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// LedgerStore is the record store behind the complaint ledger. The ledger is
// one ordered table: Load always returns the whole collection and Save always
// overwrites it. There is no row-level access and no locking between a load
// and the save that follows it; concurrent writers race last-writer-wins.
type LedgerStore interface {
	// Load returns every complaint in stored order. An empty store yields an
	// empty slice, and a store whose payload cannot be parsed is treated as
	// empty rather than failing the caller.
	Load(ctx context.Context) ([]domain.Complaint, error)

	// Save replaces the entire stored collection with records.
	Save(ctx context.Context, records []domain.Complaint) error
}
