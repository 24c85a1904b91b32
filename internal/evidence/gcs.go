package evidence

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/storage"

	"github.com/civic-kit/complaint-service/internal/domain"
)

type gcsStore struct {
	client *storage.Client
	bucket string
	ttl    time.Duration
}

// NewGCSStore keeps evidence objects in a bucket and hands out V4 signed
// GET URLs valid for ttl.
func NewGCSStore(client *storage.Client, bucket string, ttl time.Duration) Store {
	return &gcsStore{
		client: client,
		bucket: bucket,
		ttl:    ttl,
	}
}

func (s *gcsStore) Put(ctx context.Context, data []byte, contentType, name string) (string, error) {
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write evidence object %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close evidence object %s: %w", name, err)
	}
	return name, nil
}

func (s *gcsStore) TemporaryURL(ctx context.Context, name string) (string, error) {
	if name == "" || name == domain.ImageRefNone {
		return "", nil
	}

	// Attrs distinguishes "object gone" (a normal none outcome) from a store
	// that cannot be reached.
	if _, err := s.client.Bucket(s.bucket).Object(name).Attrs(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat evidence object %s: %w", name, err)
	}

	url, err := s.client.Bucket(s.bucket).SignedURL(name, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(s.ttl),
	})
	if err != nil {
		return "", fmt.Errorf("sign evidence url for %s: %w", name, err)
	}
	return url, nil
}
