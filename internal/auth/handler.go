package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"dishfeed/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the name of the cookie carrying the session id
const SessionCookie = "session_id"

// Handler handles authentication-related HTTP requests
type Handler struct {
	service      Service
	sessionMgr   session.Manager
	maxAge       time.Duration
	secureCookie bool
}

// NewHandler creates a new authentication handler
func NewHandler(service Service, sessionMgr session.Manager, maxAge time.Duration, secureCookie bool) *Handler {
	return &Handler{
		service:      service,
		sessionMgr:   sessionMgr,
		maxAge:       maxAge,
		secureCookie: secureCookie,
	}
}

// Register handles POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Register(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "account created, you can now log in",
		"user":    user,
	})
}

// Login handles POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	sessionID, err := h.sessionMgr.Create(c.Request.Context(), user.Username, h.maxAge)
	if err != nil {
		slog.Error("Failed to create session", "username", user.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.SetCookie(SessionCookie, sessionID, int(h.maxAge.Seconds()), "/", "", h.secureCookie, true)

	c.JSON(http.StatusOK, AuthResponse{
		User:      user,
		SessionID: sessionID,
	})
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(SessionCookie); err == nil {
		if err := h.sessionMgr.Delete(c.Request.Context(), sessionID); err != nil {
			slog.Warn("Failed to delete session", "error", err)
		}
	}
	h.service.Logout()

	c.SetCookie(SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me handles GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	actor := CurrentActor(c)
	if actor.IsGuest() {
		c.JSON(http.StatusOK, gin.H{"actor": actor, "user": nil})
		return
	}

	user, _ := h.service.Lookup(actor.ID)
	c.JSON(http.StatusOK, gin.H{"actor": actor, "user": user})
}

// UpdateProfile handles PATCH /auth/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req ProfilePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.UpdateProfile(req)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no registered user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
