package middleware

import (
	"github.com/gin-gonic/gin"

	"tienda/internal/shared/errors"
	"tienda/internal/shared/utils"
)

// UserIDHeader carries the authenticated user's ID, set by the upstream
// gateway after it verifies the caller. Authentication itself lives outside
// this service.
const UserIDHeader = "X-User-ID"

// SessionIDHeader carries the caller's own session ID when present.
const SessionIDHeader = "X-Session-ID"

// Identity extracts the gateway-provided identity headers into the request
// context. Requests without a user ID are rejected.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(UserIDHeader)
		if userID == "" {
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		if sessionID := c.GetHeader(SessionIDHeader); sessionID != "" {
			c.Set("session_id", sessionID)
		}
		c.Next()
	}
}
