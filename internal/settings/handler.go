package settings

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for device settings
type Handler struct {
	service *Service
}

// NewHandler creates a new settings handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type avatarRequest struct {
	URI string `json:"uri"`
}

// Get handles GET /settings
func (h *Handler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Get())
}

// Update handles PATCH /settings
func (h *Handler) Update(c *gin.Context) {
	var req Patch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	prefs, err := h.service.Apply(req)
	if err != nil {
		if errors.Is(err, ErrUnknownTheme) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// ToggleTheme handles POST /settings/theme/toggle
func (h *Handler) ToggleTheme(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ToggleTheme())
}

// GetAvatar handles GET /profile/avatar
func (h *Handler) GetAvatar(c *gin.Context) {
	uri, err := h.service.Avatar(c.Request.Context())
	if err != nil {
		slog.Error("Failed to load avatar", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load avatar"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"uri": uri})
}

// PutAvatar handles PUT /profile/avatar
func (h *Handler) PutAvatar(c *gin.Context) {
	var req avatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if err := h.service.SetAvatar(c.Request.Context(), req.URI); err != nil {
		slog.Error("Failed to save avatar", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save avatar"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"uri": req.URI})
}
