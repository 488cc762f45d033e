package api

import (
	"Booklet/internal/api/handler"
	"Booklet/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例，每个服务只填充自己用到的部分
type HandlersGroup struct {
	Identity        *middleware.IdentityVerifier
	GatewayHandler  *handler.GatewayHandler
	BlogHandler     *handler.BlogHandler
	BlogViewHandler *handler.BlogViewHandler
	CatalogHandler  *handler.CatalogHandler
	FollowHandler   *handler.FollowHandler
	TokenHandler    *handler.TokenHandler
	AuthMiddleware  gin.HandlerFunc
}
