package wire

import (
	"Booklet/internal/api"
	"Booklet/internal/api/config"
	"Booklet/internal/api/handler"
	"Booklet/internal/api/middleware"
	"Booklet/internal/job"
	"Booklet/internal/model"
	"Booklet/internal/pkg/cron"
	"Booklet/internal/pkg/database"
	"Booklet/internal/pkg/kafka"
	"Booklet/internal/pkg/security"
	"Booklet/internal/pkg/upstream"
	"Booklet/internal/repository"
	"Booklet/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件，未启用的组件为 nil
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

// BuildGateway 网关不访问数据库
func BuildGateway(cfg *config.Config) (*ApplicationContainer, error) {
	timeout := time.Duration(cfg.Gateway.Timeout) * time.Second

	gatewaySvc := service.NewGatewayService(
		cfg.Gateway.Services,
		cfg.Gateway.PublicPaths,
		upstream.NewIdentityClient(cfg.Gateway.AuthURL, timeout),
		upstream.NewForwarder(timeout),
		newAsserter(cfg),
		time.Duration(cfg.Identity.AssertionTTL)*time.Second,
	)

	handlers := &api.HandlersGroup{
		GatewayHandler: handler.NewGatewayHandler(gatewaySvc),
	}

	return &ApplicationContainer{
		Router: api.SetupGatewayRouter(handlers),
	}, nil
}

func BuildBlogs(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	if cfg.DB.AutoMigrate {
		err := database.Migrate(db,
			&model.Category{}, &model.SubCategory{}, &model.Tag{},
			&model.Blog{}, &model.BlogTag{}, &model.BlogView{},
		)
		if err != nil {
			return nil, err
		}
	}

	blogRepo := repository.NewBlogRepository(db)
	blogViewRepo := repository.NewBlogViewRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	blogViewSvc := service.NewBlogViewService(blogViewRepo, blogRepo, time.Duration(cfg.Cache.TrendingTTL)*time.Second)
	blogSvc := service.NewBlogService(blogRepo, catalogRepo, blogViewSvc)
	catalogSvc := service.NewCatalogService(catalogRepo)

	handlers := &api.HandlersGroup{
		Identity:        middleware.NewIdentityVerifier(newAsserter(cfg), cfg.Server.Name),
		BlogHandler:     handler.NewBlogHandler(blogSvc),
		BlogViewHandler: handler.NewBlogViewHandler(blogViewSvc),
		CatalogHandler:  handler.NewCatalogHandler(catalogSvc),
	}

	app := &ApplicationContainer{
		Router:  api.SetupBlogsRouter(handlers),
		DB:      db,
		CronMgr: cron.NewCronManager(job.NewViewTotalsJob(blogViewSvc), cfg.Cron.ViewTotalsSpec),
	}

	if cfg.Kafka.Enable {
		mgr, err := kafka.NewConsumerManager(cfg.Kafka, kafka.Subscription{
			Name:    "blog_views",
			Topic:   cfg.Kafka.BlogViewsConsumer,
			Handler: kafka.NewBlogViewsHandler(blogViewSvc),
		})
		if err != nil {
			return nil, err
		}
		app.KafkaManager = mgr
	}
	return app, nil
}

func BuildProfile(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, &model.Follow{}); err != nil {
			return nil, err
		}
	}

	followSvc := service.NewFollowService(repository.NewFollowRepository(db))

	handlers := &api.HandlersGroup{
		Identity:      middleware.NewIdentityVerifier(newAsserter(cfg), cfg.Server.Name),
		FollowHandler: handler.NewFollowHandler(followSvc),
	}

	app := &ApplicationContainer{
		Router: api.SetupProfileRouter(handlers),
		DB:     db,
	}

	if cfg.Kafka.Enable {
		mgr, err := kafka.NewConsumerManager(cfg.Kafka, kafka.Subscription{
			Name:    "follows",
			Topic:   cfg.Kafka.FollowsConsumer,
			Handler: kafka.NewFollowsHandler(followSvc),
		})
		if err != nil {
			return nil, err
		}
		app.KafkaManager = mgr
	}
	return app, nil
}

// BuildAuth 认证服务只依赖 Redis
func BuildAuth(cfg *config.Config) (*ApplicationContainer, error) {
	issuer := security.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer)
	tokenSvc := service.NewTokenService(issuer,
		time.Duration(cfg.JWT.AccessExpiration)*time.Minute,
		time.Duration(cfg.JWT.RefreshExpiration)*time.Minute,
	)

	handlers := &api.HandlersGroup{
		TokenHandler:   handler.NewTokenHandler(tokenSvc),
		AuthMiddleware: middleware.AuthMiddleware(tokenSvc),
	}

	return &ApplicationContainer{
		Router: api.SetupAuthRouter(handlers),
	}, nil
}

func newAsserter(cfg *config.Config) *security.TokenIssuer {
	if cfg.Identity.AssertionSecret == "" {
		return nil
	}
	return security.NewTokenIssuer(cfg.Identity.AssertionSecret, cfg.Server.Name)
}
