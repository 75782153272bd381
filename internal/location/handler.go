package location

import (
	"errors"
	"io"
	"net/http"

	"dishfeed/internal/geo"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the device location
type Handler struct {
	provider *Provider
}

// NewHandler creates a new location handler
func NewHandler(provider *Provider) *Handler {
	return &Handler{provider: provider}
}

type denyRequest struct {
	Reason string `json:"reason"`
}

// Get handles GET /location
func (h *Handler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.State())
}

// Update handles PUT /location
func (h *Handler) Update(c *gin.Context) {
	h.provider.Begin()

	var req geo.Point
	if err := c.ShouldBindJSON(&req); err != nil {
		h.provider.Fail(nil)
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required"})
		return
	}

	coords, ok := req.Coordinates()
	if !ok {
		h.provider.Fail(nil)
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}

	h.provider.Grant(coords)
	c.JSON(http.StatusOK, h.provider.State())
}

// Deny handles DELETE /location. With ?forget=1 the last known position is
// dropped as well and the provider goes back to idle.
func (h *Handler) Deny(c *gin.Context) {
	if c.Query("forget") == "1" {
		h.provider.Clear()
		c.JSON(http.StatusOK, h.provider.State())
		return
	}

	// The body is optional.
	var req denyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.provider.Deny(req.Reason)
	c.JSON(http.StatusOK, h.provider.State())
}
