package repository

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/domain"
)

type gcsLedger struct {
	client *storage.Client
	bucket string
	object string
	logger *zap.Logger
}

// NewGCSLedger stores the ledger as a single CSV object in a bucket. Every
// Save rewrites the whole object; GCS makes the rewrite visible atomically,
// but nothing serializes two writers racing each other.
func NewGCSLedger(client *storage.Client, bucket, object string, logger *zap.Logger) LedgerStore {
	return &gcsLedger{
		client: client,
		bucket: bucket,
		object: object,
		logger: logger,
	}
}

func (l *gcsLedger) Load(ctx context.Context) ([]domain.Complaint, error) {
	r, err := l.client.Bucket(l.bucket).Object(l.object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return []domain.Complaint{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger object %s/%s: %w", l.bucket, l.object, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ledger object %s/%s: %w", l.bucket, l.object, err)
	}

	records, err := decodeCSV(data)
	if err != nil {
		// Fail open: an unparseable ledger reads as an empty one rather
		// than taking every intake and triage operation down with it.
		l.logger.Warn("ledger payload unparseable, treating store as empty",
			zap.String("bucket", l.bucket),
			zap.String("object", l.object),
			zap.Error(err),
		)
		return []domain.Complaint{}, nil
	}
	return records, nil
}

func (l *gcsLedger) Save(ctx context.Context, records []domain.Complaint) error {
	data, err := encodeCSV(records)
	if err != nil {
		return err
	}

	w := l.client.Bucket(l.bucket).Object(l.object).NewWriter(ctx)
	w.ContentType = "text/csv"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write ledger object %s/%s: %w", l.bucket, l.object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close ledger object %s/%s: %w", l.bucket, l.object, err)
	}
	return nil
}
