package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// MaxFilenameLength bounds client-supplied photo names
	MaxFilenameLength = 255
	// UploadURLTTL is how long an upload URL stays valid
	UploadURLTTL = 15 * time.Minute
	// DownloadURLTTL is how long a resolved photo URL stays valid
	DownloadURLTTL = time.Hour
)

// Only photos are accepted for dishes and avatars
var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/heic": true,
}

// UploadURLRequest asks for a presigned upload URL
type UploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// UploadURLResponse carries the upload URL and the key to store as image_ref
type UploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileKey   string `json:"file_key"`
	ExpiresAt int64  `json:"expires_at"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Handler serves photo upload URLs
type Handler struct {
	storage Service
}

// NewHandler creates an upload handler. storage may be nil when object
// storage is not configured.
func NewHandler(storage Service) *Handler {
	return &Handler{storage: storage}
}

// UploadURL handles POST /uploads/image-url
func (h *Handler) UploadURL(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "Storage service is not available",
			Code:  "STORAGE_UNAVAILABLE",
		})
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	if err := validateFilename(req.Filename); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid filename",
			Code:    "INVALID_FILENAME",
			Details: err.Error(),
		})
		return
	}
	if !allowedContentTypes[req.ContentType] {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid content type",
			Code:    "INVALID_CONTENT_TYPE",
			Details: fmt.Sprintf("content type %s is not allowed", req.ContentType),
		})
		return
	}

	fileKey := fmt.Sprintf("dishes/%s-%s", uuid.New().String(), req.Filename)

	uploadURL, err := h.storage.GeneratePresignedUploadURL(c.Request.Context(), fileKey, req.ContentType, UploadURLTTL)
	if err != nil {
		slog.Error("Failed to generate upload URL", "key", fileKey, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to generate upload URL",
			Code:  "GENERATION_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, UploadURLResponse{
		UploadURL: uploadURL,
		FileKey:   fileKey,
		ExpiresAt: time.Now().Add(UploadURLTTL).Unix(),
	})
}

func validateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if len(filename) > MaxFilenameLength {
		return fmt.Errorf("filename too long (max %d characters)", MaxFilenameLength)
	}
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("filename contains invalid characters")
	}
	if filepath.Ext(filename) == "" {
		return fmt.Errorf("filename must have an extension")
	}
	return nil
}

// Resolver turns stored image references into URLs a client can open
type Resolver struct {
	storage Service
}

// NewResolver creates a resolver. storage may be nil.
func NewResolver(storage Service) *Resolver {
	return &Resolver{storage: storage}
}

// ImageURL returns a displayable URL for ref. Remote, device-local and
// bundled asset references are returned unchanged; anything else is treated
// as an object key and presigned.
func (r *Resolver) ImageURL(ctx context.Context, ref string) string {
	if ref == "" || isDirectRef(ref) || r == nil || r.storage == nil {
		return ref
	}

	u, err := r.storage.GeneratePresignedDownloadURL(ctx, ref, DownloadURLTTL)
	if err != nil {
		slog.Warn("Failed to resolve image", "key", ref, "error", err)
		return ref
	}
	return u
}

// Release deletes the stored object behind ref. Direct references are not
// owned by the bucket and are left alone.
func (r *Resolver) Release(ctx context.Context, ref string) {
	if ref == "" || isDirectRef(ref) || r == nil || r.storage == nil {
		return
	}

	if err := r.storage.DeleteFile(ctx, ref); err != nil {
		slog.Warn("Failed to delete replaced image", "key", ref, "error", err)
		return
	}
	slog.Info("Replaced image deleted", "key", ref)
}

func isDirectRef(ref string) bool {
	for _, prefix := range []string{"http://", "https://", "file://", "content://", "asset:"} {
		if strings.HasPrefix(ref, prefix) {
			return true
		}
	}
	return false
}
