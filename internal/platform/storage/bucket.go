// File: internal/platform/storage/bucket.go
package storage

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/ldw80203/house-video/internal/config"
	"github.com/ldw80203/house-video/internal/firebase"
)

// Store is the object-storage surface used for video files: upload by path
// and public-URL resolution. Backed by the Firebase/GCS bucket.
type Store interface {
	Upload(ctx context.Context, objectPath string, r io.Reader, contentType string) (string, error)
	PublicURL(objectPath string) string
}

type bucketStore struct {
	bucketName string
	bucket     *gcs.BucketHandle
	logger     *zap.Logger
}

// NewBucketStore resolves the configured bucket from the Firebase app.
func NewBucketStore(cfg *config.Config, fb *firebase.Service, logger *zap.Logger) (Store, error) {
	if cfg.FirebaseStorageBucket == "" {
		logger.Error("Firebase storage bucket is not configured.")
		return nil, fmt.Errorf("firebase storage bucket is required")
	}

	client, err := fb.Storage(context.Background())
	if err != nil {
		return nil, fmt.Errorf("error getting Firebase Storage client: %w", err)
	}
	bucket, err := client.Bucket(cfg.FirebaseStorageBucket)
	if err != nil {
		return nil, fmt.Errorf("error resolving storage bucket %q: %w", cfg.FirebaseStorageBucket, err)
	}

	return &bucketStore{
		bucketName: cfg.FirebaseStorageBucket,
		bucket:     bucket,
		logger:     logger,
	}, nil
}

// Upload writes the object and returns its public URL.
func (s *bucketStore) Upload(ctx context.Context, objectPath string, r io.Reader, contentType string) (string, error) {
	w := s.bucket.Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		s.logger.Error("Failed to write object to bucket",
			zap.String("object", objectPath), zap.Error(err))
		return "", fmt.Errorf("failed to upload object %q: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		s.logger.Error("Failed to finalize object upload",
			zap.String("object", objectPath), zap.Error(err))
		return "", fmt.Errorf("failed to finalize upload of %q: %w", objectPath, err)
	}

	s.logger.Info("Object uploaded", zap.String("object", objectPath))
	return s.PublicURL(objectPath), nil
}

func (s *bucketStore) PublicURL(objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectPath)
}
