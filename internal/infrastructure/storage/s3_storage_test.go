package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourbook/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func baseConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Driver:          "s3",
		Bucket:          "tourbook-media",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		Endpoint:        "http://localhost:9000",
		UsePathStyle:    true,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	_, err := NewS3ObjectStorage(nil)
	assert.ErrorIs(t, err, errNoConfig)

	cfg := baseConfig()
	cfg.Bucket = ""
	cfg.SecretAccessKey = ""
	_, err = NewS3ObjectStorage(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")
	assert.Contains(t, err.Error(), "secret key is required")
	assert.NotContains(t, err.Error(), "access key")

	cfg = baseConfig()
	cfg.Endpoint = "http://"
	_, err = NewS3ObjectStorage(cfg)
	assert.ErrorContains(t, err, "invalid storage endpoint")
}

func TestNewS3ObjectStorage_Defaults(t *testing.T) {
	storage, err := NewS3ObjectStorage(baseConfig())
	require.NoError(t, err)
	assert.Equal(t, defaultPresignExpiry, storage.expiry)
	assert.Equal(t, "tourbook-media", storage.Bucket())

	cfg := baseConfig()
	cfg.PresignExpiry = time.Hour
	storage, err = NewS3ObjectStorage(cfg, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, storage.expiry)
}

func TestNormalizeEndpoint(t *testing.T) {
	for in, want := range map[string]string{
		"":                       "",
		"minio.local:9000":       "https://minio.local:9000",
		"http://localhost:9000/": "http://localhost:9000",
		"https://r2.example.com": "https://r2.example.com",
	} {
		got, err := normalizeEndpoint(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestIsMissing(t *testing.T) {
	assert.True(t, isMissing(&types.NoSuchKey{}))
	assert.True(t, isMissing(fmt.Errorf("head: %w", &types.NotFound{})))
	assert.True(t, isMissing(&smithy.GenericAPIError{Code: "NoSuchBucket"}))
	assert.False(t, isMissing(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isMissing(errors.New("connection refused")))
}

func TestS3ObjectStorage_PublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(*config.StorageConfig)
		want string
	}{
		{"configured public url", func(c *config.StorageConfig) { c.PublicURL = "https://cdn.tourbook.test/" }, "https://cdn.tourbook.test/tour/a.png"},
		{"path style endpoint", func(c *config.StorageConfig) {}, "http://localhost:9000/tourbook-media/tour/a.png"},
		{"virtual hosted endpoint", func(c *config.StorageConfig) {
			c.Endpoint = "https://r2.example.com"
			c.UsePathStyle = false
		}, "https://tourbook-media.r2.example.com/tour/a.png"},
		{"aws", func(c *config.StorageConfig) {
			c.Endpoint = ""
			c.UsePathStyle = false
			c.Region = "eu-west-1"
		}, "https://tourbook-media.s3.eu-west-1.amazonaws.com/tour/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.cfg(cfg)
			storage, err := NewS3ObjectStorage(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, storage.PublicURL("tour/a.png"))
		})
	}
}

func TestS3ObjectStorage_GenerateUploadURL(t *testing.T) {
	storage, err := NewS3ObjectStorage(baseConfig())
	require.NoError(t, err)

	t.Run("empty storage key returns error", func(t *testing.T) {
		url, _, err := storage.GenerateUploadURL(context.Background(), "", "image/jpeg", 15*time.Minute)
		require.ErrorIs(t, err, errEmptyKey)
		assert.Empty(t, url)
	})

	t.Run("generates presigned URL", func(t *testing.T) {
		url, expiresAt, err := storage.GenerateUploadURL(context.Background(), "tour/2026/03/a.jpg", "image/jpeg", 10*time.Minute)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "http://localhost:9000/tourbook-media/tour/2026/03/a.jpg"))
		assert.Contains(t, url, "X-Amz-Signature=")
		assert.True(t, expiresAt.After(time.Now()))
		assert.True(t, expiresAt.Before(time.Now().Add(11*time.Minute)))
	})
}

func TestS3ObjectStorage_KeyValidation(t *testing.T) {
	storage, err := NewS3ObjectStorage(baseConfig())
	require.NoError(t, err)

	assert.Error(t, storage.DeleteObject(context.Background(), ""))
	_, err = storage.ObjectExists(context.Background(), "")
	assert.Error(t, err)
}

// Integration tests need an S3-compatible server such as MinIO on localhost:9000
func newIntegrationStorage(t *testing.T) *S3ObjectStorage {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "1" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=1 and run MinIO to enable.")
	}

	cfg := baseConfig()
	cfg.Bucket = "tourbook-integration"
	cfg.AccessKeyID = "minioadmin"
	cfg.SecretAccessKey = "minioadmin"

	storage, err := NewS3ObjectStorage(cfg, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	require.NoError(t, storage.EnsureBucket(context.Background()))
	require.NoError(t, storage.EnsureBucket(context.Background()))
	return storage
}

func TestIntegration_ObjectLifecycle(t *testing.T) {
	storage := newIntegrationStorage(t)
	ctx := context.Background()

	exists, err := storage.ObjectExists(ctx, "tour/missing.png")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, storage.DeleteObject(ctx, "tour/missing.png"))
}
