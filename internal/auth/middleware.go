package auth

import (
	"log/slog"
	"net/http"

	"dishfeed/internal/session"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// ActorMiddleware resolves the session cookie into the current actor.
// Requests without a valid session continue as the guest actor.
func ActorMiddleware(service Service, sessionMgr session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GuestActor()

		if sessionID, err := c.Cookie(SessionCookie); err == nil && sessionID != "" {
			sess, err := sessionMgr.Get(c.Request.Context(), sessionID)
			if err != nil {
				slog.Debug("Ignoring invalid session",
					"error", err.Error(),
					"request_id", c.GetString("request_id"),
				)
			} else if user, ok := service.Lookup(sess.UserID); ok {
				actor = Actor{
					ID:          user.Username,
					Username:    user.Username,
					DisplayName: user.DisplayName,
				}
			}
		}

		c.Set(actorKey, actor)
		c.Set("user_id", actor.ID)
		c.Next()
	}
}

// RequireUser rejects guest requests
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentActor(c).IsGuest() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized: please log in",
			})
			return
		}
		c.Next()
	}
}

// CurrentActor returns the actor stored by ActorMiddleware, or the guest
func CurrentActor(c *gin.Context) Actor {
	value, exists := c.Get(actorKey)
	if !exists {
		return GuestActor()
	}
	actor, ok := value.(Actor)
	if !ok {
		return GuestActor()
	}
	return actor
}
