package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// TouchFunc records activity for a user.
type TouchFunc func(ctx context.Context, userID int64) error

// LastSeen bumps the authenticated user's last_seen once the handler has run.
// Errors are swallowed; the toucher is expected to log them.
func LastSeen(touch TouchFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if touch == nil {
			return
		}
		if uid := UserID(c); uid > 0 {
			_ = touch(c.Request.Context(), uid)
		}
	}
}
