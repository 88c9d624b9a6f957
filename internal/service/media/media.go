// internal/service/media/media.go
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	xerrors "github.com/vishnupprajapat/nextfast/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

// MaxImageWidth is the widest product image kept after upload.
const MaxImageWidth = 1200

var (
	ErrUnsupportedImage  = fmt.Errorf("%w: unsupported image format", xerrors.ErrInvalidInput)
	ErrUploadUnavailable = errors.New("image storage is not configured")
)

// BlobStore persists an uploaded object and returns its public URL.
type BlobStore interface {
	Put(ctx context.Context, name string, body io.Reader) (string, error)
}

type MediaService struct {
	store  BlobStore
	logger *zap.Logger
}

// NewMediaService accepts a nil store; uploads then fail with
// ErrUploadUnavailable.
func NewMediaService(store BlobStore, logger *zap.Logger) *MediaService {
	return &MediaService{store: store, logger: logger}
}

// UploadProductImage decodes a PNG or JPEG, scales it down to MaxImageWidth
// keeping the aspect ratio, re-encodes it as JPEG and stores it under a
// fresh random name.
func (s *MediaService) UploadProductImage(ctx context.Context, filename string, body io.Reader) (string, error) {
	if s.store == nil {
		return "", ErrUploadUnavailable
	}

	img, format, err := image.Decode(body)
	if err != nil {
		s.logger.Info("rejected image upload", zap.String("filename", filename), zap.Error(err))
		return "", ErrUnsupportedImage
	}

	if img.Bounds().Dx() > MaxImageWidth {
		img = resize.Resize(MaxImageWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	name := uuid.New().String()
	url, err := s.store.Put(ctx, name, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	s.logger.Info("product image uploaded",
		zap.String("filename", filename),
		zap.String("source_format", format),
		zap.String("url", url))
	return url, nil
}
