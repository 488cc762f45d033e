package middleware

import (
	"Booklet/internal/pkg/response"
	"Booklet/internal/pkg/security"
	"Booklet/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 负责验证访问令牌并将用户身份注入 Context，仅认证服务自身使用
func AuthMiddleware(tokenSvc service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := security.ExtractBearer(c.GetHeader("Authorization"))
		if !ok {
			response.Abort(c, service.ErrTokenMissing)
			return
		}

		userID, err := tokenSvc.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set("token", token)
		setUserID(c, userID)

		c.Next()
	}
}
