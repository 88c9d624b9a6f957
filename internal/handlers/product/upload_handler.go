// internal/handlers/product/upload_handler.go
package product

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/vishnupprajapat/nextfast/internal/pkg/response"
	"github.com/vishnupprajapat/nextfast/internal/service/media"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxUploadBytes bounds a single product image upload.
const MaxUploadBytes = 10 << 20

type MediaService interface {
	UploadProductImage(ctx context.Context, filename string, body io.Reader) (string, error)
}

type UploadHandler struct {
	mediaService MediaService
	logger       *zap.Logger
}

func NewUploadHandler(mediaService MediaService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		mediaService: mediaService,
		logger:       logger,
	}
}

// Upload stores the multipart "file" field and returns its public URL.
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		response.ValidationError(c, "No file provided")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("failed to open upload", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Failed to upload image")
		return
	}
	defer file.Close()

	url, err := h.mediaService.UploadProductImage(c.Request.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedImage) {
			response.ValidationError(c, "Unsupported image format. Only PNG and JPEG are allowed.")
			return
		}
		h.logger.Error("failed to upload image", zap.String("filename", header.Filename), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	response.Success(c, http.StatusOK, "image uploaded", gin.H{"url": url})
}
