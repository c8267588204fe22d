package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxsannx/pineus-tilu-booking/internal/domain"
	"github.com/xxsannx/pineus-tilu-booking/internal/session"
)

const (
	// SessionCookie is the HTTP-only cookie carrying the opaque session token.
	SessionCookie = "session_id"

	userIDKey = "user_id"
)

// RequireLogin resolves the session cookie against the injected store and
// stashes the caller's user id in the request context.
func RequireLogin(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: domain.ErrUnauthorized.Error()})
			return
		}

		userID, ok := sessions.Resolve(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: domain.ErrUnauthorized.Error()})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func callerID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
