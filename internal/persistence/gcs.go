package persistence

import (
	"context"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// NewGCSClient builds a Cloud Storage client using credentials from the
// environment: GOOGLE_APPLICATION_CREDENTIALS_JSON takes precedence, then
// GOOGLE_APPLICATION_CREDENTIALS, then application default credentials.
func NewGCSClient(ctx context.Context, logger *zap.Logger) (*storage.Client, error) {
	client, err := storage.NewClient(ctx, clientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	logger.Info("connected to cloud storage")
	return client, nil
}

func clientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}
