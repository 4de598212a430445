package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	sessionapp "tienda/internal/application/session"
	"tienda/internal/application/session/dto"
	"tienda/internal/shared/errors"
	"tienda/internal/shared/goroutine"
	"tienda/internal/shared/logger"
	"tienda/internal/shared/utils"
)

// SessionActivity validates the caller's session and records an activity
// heartbeat on every request. Requests without a usable session get a 401.
func SessionActivity(service *sessionapp.Service, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString("session_id")
		if sessionID == "" {
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("session required"))
			c.Abort()
			return
		}

		_, valid, err := service.ValidateSession(c.Request.Context(), sessionID)
		if err != nil {
			log.Errorw("session validation failed", "session_id", sessionID, "error", err)
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}
		if !valid {
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("session is not valid"))
			c.Abort()
			return
		}

		// The heartbeat is best effort and must not block the request; the
		// session validated a moment ago.
		clientIP := c.ClientIP()
		goroutine.SafeGo(log, "session-activity-heartbeat", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if _, err := service.UpdateActivity(ctx, sessionID, dto.UpdateActivityRequest{
				IPAddress: clientIP,
			}); err != nil {
				log.Warnw("failed to record session activity", "session_id", sessionID, "error", err)
			}
		})

		c.Next()
	}
}
