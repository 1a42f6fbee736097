// Package media issues presigned uploads for images shown on the site.
package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Upload kinds, used as the first key segment
const (
	KindTour        = "tour"
	KindDestination = "destination"
	KindAttraction  = "attraction"
	KindBlog        = "blog"
	KindTeam        = "team"
)

var allowedKinds = map[string]bool{
	KindTour:        true,
	KindDestination: true,
	KindAttraction:  true,
	KindBlog:        true,
	KindTeam:        true,
}

var extensionByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

const defaultUploadExpiry = 15 * time.Minute

// ObjectStorage is the object store behind media uploads
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	PublicURL(storageKey string) string
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// PresignUploadRequest asks for a presigned image upload
type PresignUploadRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=tour destination attraction blog team"`
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignUploadResponse tells the client where to PUT the file and where it will be served from
type PresignUploadResponse struct {
	Key         string    `json:"key"`
	UploadURL   string    `json:"upload_url"`
	PublicURL   string    `json:"public_url"`
	Method      string    `json:"method"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// DeleteRequest identifies an uploaded object
type DeleteRequest struct {
	Key string `json:"key" form:"key" binding:"required,max=255"`
}

// MediaService hands out upload URLs and removes uploaded objects
type MediaService struct {
	storage ObjectStorage
	expiry  time.Duration
	logger  *zap.Logger
	now     func() time.Time
	newID   func() uuid.UUID
}

// NewMediaService creates a MediaService. A zero expiry falls back to 15 minutes.
func NewMediaService(storage ObjectStorage, expiry time.Duration, logger *zap.Logger) *MediaService {
	if expiry <= 0 {
		expiry = defaultUploadExpiry
	}
	return &MediaService{
		storage: storage,
		expiry:  expiry,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.New,
	}
}

// PresignUpload validates the upload and returns a presigned PUT URL.
// The key is <kind>/<yyyy>/<mm>/<uuid><ext>; the extension follows the content type.
func (s *MediaService) PresignUpload(ctx context.Context, req PresignUploadRequest) (*PresignUploadResponse, error) {
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if !allowedKinds[kind] {
		return nil, shared.NewDomainError("INVALID_MEDIA_KIND", fmt.Sprintf("Unsupported media kind: %s", req.Kind))
	}
	if strings.TrimSpace(req.Filename) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Filename is required")
	}
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	ext, ok := extensionByContentType[contentType]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Only JPEG, PNG and WebP images can be uploaded")
	}

	now := s.now().UTC()
	key := fmt.Sprintf("%s/%04d/%02d/%s%s", kind, now.Year(), int(now.Month()), s.newID(), ext)

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.expiry)
	if err != nil {
		s.logger.Error("Failed to presign upload", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Presigned media upload",
		zap.String("key", key),
		zap.String("filename", req.Filename),
		zap.String("content_type", contentType))

	return &PresignUploadResponse{
		Key:         key,
		UploadURL:   uploadURL,
		PublicURL:   s.storage.PublicURL(key),
		Method:      "PUT",
		ContentType: contentType,
		ExpiresAt:   expiresAt,
	}, nil
}

// Delete removes an uploaded object. Only keys under a media kind may be deleted.
func (s *MediaService) Delete(ctx context.Context, key string) error {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if !isMediaKey(key) {
		return shared.NewDomainError("INVALID_MEDIA_KEY", "Key does not point to an uploaded image")
	}

	exists, err := s.storage.ObjectExists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}

	if err := s.storage.DeleteObject(ctx, key); err != nil {
		s.logger.Error("Failed to delete media", zap.String("key", key), zap.Error(err))
		return err
	}
	s.logger.Info("Deleted media", zap.String("key", key))
	return nil
}

func isMediaKey(key string) bool {
	if key == "" || strings.Contains(key, "..") || path.Clean(key) != key {
		return false
	}
	kind, _, found := strings.Cut(key, "/")
	return found && allowedKinds[kind]
}
