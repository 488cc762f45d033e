package api

import (
	"Booklet/internal/api/middleware"
	"Booklet/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func newEngine() *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)
	return r
}

func setupPing(g *gin.RouterGroup) {
	g.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"code":    200,
			"message": "pong",
			"data":    nil,
		})
	})
}

// SetupGatewayRouter 网关只暴露健康检查与转发入口
func SetupGatewayRouter(group *HandlersGroup) *gin.Engine {
	r := newEngine()

	r.GET("/healthz", group.GatewayHandler.Healthz)
	r.Any("/", group.GatewayHandler.ProxyByQuery)
	// 不带子路径的 /:service 直接转发到服务根路径，避免 301 改写方法
	r.Any("/:service", group.GatewayHandler.Proxy)
	r.Any("/:service/*path", group.GatewayHandler.Proxy)
	return r
}

func SetupBlogsRouter(group *HandlersGroup) *gin.Engine {
	r := newEngine()

	apiGroup := r.Group("/api")
	setupPing(apiGroup)

	apiGroup.GET("/categories", group.CatalogHandler.ListCategories)
	apiGroup.GET("/tags", group.CatalogHandler.ListTags)

	blogGroup := apiGroup.Group("/blogs")
	{
		publicGroup := blogGroup.Group("")
		publicGroup.Use(middleware.OptionalIdentityMiddleware(group.Identity))
		{
			publicGroup.GET("", group.BlogHandler.ListPublished)
			publicGroup.GET("/latest", group.BlogHandler.ListLatest)
			publicGroup.GET("/trending", group.BlogViewHandler.GetTrending)
			publicGroup.GET("/most-watched", group.BlogViewHandler.GetMostWatched)
			publicGroup.GET("/views", group.BlogViewHandler.GetGroupedViews)
			publicGroup.GET("/user/:user_id/views", group.BlogViewHandler.GetUserGroupedViews)
			publicGroup.GET("/author/:user_id", group.BlogHandler.ListByAuthor)
			publicGroup.GET("/category/:category_id", group.BlogHandler.ListByCategory)
			publicGroup.GET("/subcategory/:subcategory_id", group.BlogHandler.ListBySubCategory)
			publicGroup.GET("/tag/:tag", group.BlogHandler.ListByTag)
			publicGroup.GET("/:blog_id", group.BlogHandler.GetBlog)
			publicGroup.POST("/:blog_id/view", group.BlogViewHandler.RecordView)
		}

		authGroup := blogGroup.Group("")
		authGroup.Use(middleware.TrustedIdentityMiddleware(group.Identity))
		{
			authGroup.GET("/me", group.BlogHandler.ListMine)
			authGroup.POST("", group.BlogHandler.CreateBlog)
			authGroup.PUT("/:blog_id", group.BlogHandler.UpdateBlog)
			authGroup.PATCH("/:blog_id/status", group.BlogHandler.UpdateStatus)
			authGroup.DELETE("/:blog_id", group.BlogHandler.DeleteBlog)
		}
	}
	return r
}

func SetupProfileRouter(group *HandlersGroup) *gin.Engine {
	r := newEngine()

	apiGroup := r.Group("/api")
	setupPing(apiGroup)

	publicGroup := apiGroup.Group("")
	publicGroup.Use(middleware.OptionalIdentityMiddleware(group.Identity))
	{
		publicGroup.GET("/users/:user_id/followers", group.FollowHandler.GetFollowers)
		publicGroup.GET("/users/:user_id/followings", group.FollowHandler.GetFollowings)
		publicGroup.GET("/users/:user_id/followers/count", group.FollowHandler.GetFollowersCount)
		publicGroup.GET("/users/:user_id/followings/count", group.FollowHandler.GetFollowingsCount)
	}

	authGroup := apiGroup.Group("")
	authGroup.Use(middleware.TrustedIdentityMiddleware(group.Identity))
	{
		authGroup.POST("/follow/:following_id", group.FollowHandler.Toggle)
		authGroup.GET("/followers/stats", group.FollowHandler.GetStats)
		authGroup.GET("/isfollow/:following_id", group.FollowHandler.IsFollowing)
		authGroup.GET("/suggestions", group.FollowHandler.GetSuggestions)
	}
	return r
}

func SetupAuthRouter(group *HandlersGroup) *gin.Engine {
	r := newEngine()

	apiGroup := r.Group("/api")
	setupPing(apiGroup)

	apiGroup.POST("/validate-token", group.TokenHandler.ValidateToken)

	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/refresh-token", group.TokenHandler.RefreshToken)
		authGroup.POST("/logout", group.AuthMiddleware, group.TokenHandler.Logout)
	}
	return r
}
