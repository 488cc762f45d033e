package middleware

import (
	"Booklet/internal/pkg/logger"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

// OptionalIdentityMiddleware 公开接口使用：身份有效则注入 user_id，否则按匿名处理 (user_id 为 0)
func OptionalIdentityMiddleware(v *IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := v.verify(c)
		if err != nil {
			if err != errIdentityMissing {
				log.DebugContext(c.Request.Context(), "ignore invalid identity on public route", "err", err)
			}
			c.Set(logger.UserIDKey, uint64(0))
			c.Next()
			return
		}

		setUserID(c, userID)
		c.Next()
	}
}
