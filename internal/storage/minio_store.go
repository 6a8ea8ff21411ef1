package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioFileStore stores submissions as objects in one bucket
type MinioFileStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger

	ensureMu      sync.Mutex
	bucketEnsured bool
}

func NewMinioFileStore(cfg MinioConfig, logger *slog.Logger) (*MinioFileStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	store := &MinioFileStore{client: client, bucket: cfg.Bucket, logger: logger}

	// MinIO may still be starting; the bucket is ensured again on first upload
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.ensureBucket(ctx); err != nil {
		logger.Warn("MinIO not ready during startup", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket, "error", err)
	}

	return store, nil
}

func (s *MinioFileStore) ensureBucket(ctx context.Context) error {
	s.ensureMu.Lock()
	defer s.ensureMu.Unlock()
	if s.bucketEnsured {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
		s.logger.Info("Created bucket", "bucket", s.bucket)
	}

	s.bucketEnsured = true
	return nil
}

func (s *MinioFileStore) Store(ctx context.Context, name string, content io.Reader, size int64) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := objectKey(name, time.Now())
	info, err := s.client.PutObject(ctx, s.bucket, key, content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	s.logger.Debug("File uploaded to MinIO", "bucket", s.bucket, "key", key, "etag", info.ETag, "size", info.Size)
	return s.bucket + "/" + key, nil
}

func (s *MinioFileStore) Delete(ctx context.Context, ref string) error {
	key, ok := strings.CutPrefix(ref, s.bucket+"/")
	if !ok || key == "" {
		return fmt.Errorf("%w: %s", ErrForeignRef, ref)
	}

	// RemoveObject succeeds for keys that do not exist
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	s.logger.Debug("File removed from MinIO", "bucket", s.bucket, "key", key)
	return nil
}
