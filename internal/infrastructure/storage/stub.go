package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/tourbook/backend/internal/application/media"
)

var _ media.ObjectStorage = (*StubObjectStorage)(nil)

// StubObjectStorage fakes object storage for local development.
// Presigned keys are remembered so that delete behaves like a real bucket.
type StubObjectStorage struct {
	baseURL string

	mu   sync.Mutex
	keys map[string]struct{}
}

// NewStubObjectStorage creates a StubObjectStorage serving URLs under baseURL
func NewStubObjectStorage(baseURL string) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/media"
	}
	return &StubObjectStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		keys:    make(map[string]struct{}),
	}
}

// GenerateUploadURL returns a fake upload URL and records the key
func (s *StubObjectStorage) GenerateUploadURL(
	ctx context.Context,
	storageKey, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	s.mu.Lock()
	s.keys[storageKey] = struct{}{}
	s.mu.Unlock()

	expiresAt := time.Now().Add(expiresIn)
	return s.baseURL + "/upload/" + storageKey + "?expires=" + expiresAt.UTC().Format(time.RFC3339), expiresAt, nil
}

// PublicURL returns the URL under the stub base
func (s *StubObjectStorage) PublicURL(storageKey string) string {
	return s.baseURL + "/" + storageKey
}

// ObjectExists reports whether the key was presigned and not yet deleted
func (s *StubObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[storageKey]
	return ok, nil
}

// DeleteObject forgets the key
func (s *StubObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	delete(s.keys, storageKey)
	s.mu.Unlock()
	return nil
}
