package v1

import (
	"portfolio-backend/config"
	_ "portfolio-backend/docs" // swagger docs registration
	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	HealthUC  domain.HealthUsecase
	Redis     *goredis.Client // optional, backs the contact rate limiter
	Log       *zap.Logger
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Log, MsgSendFailed))
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigins))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(deps.Log))

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperror.NotFound("Not found"))
	})

	api := r.Group("/api")

	NewHealthHandler(api, deps.HealthUC)

	var contactMW []gin.HandlerFunc
	if deps.Config.ContactRateLimit > 0 {
		contactMW = append(contactMW, middleware.RateLimitMiddleware(middleware.ContactRateLimitConfig(
			deps.Config.ContactRateLimit,
			deps.Config.RateLimitWindow(),
			deps.Redis,
			deps.Log,
		)))
	}
	NewContactHandler(api, deps.ContactUC, contactMW...)

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
